// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/ava-labs/movesdk/chain"
	"github.com/ava-labs/movesdk/codec"
)

// UserSignature is a decoded signature blob: a signature and the public
// key that produced it under one of the chain's signature schemes.
type UserSignature interface {
	// Scheme returns the flag byte identifying the signature scheme.
	Scheme() uint8

	// Verify checks the signature against a 32 byte signing digest.
	Verify(digest [32]byte) error

	// Blob returns the wire form: flag || signature || public key.
	Blob() chain.UserSignature

	// Address returns the account address controlled by the signer.
	Address() codec.Address
}

// Factory signs transactions with a held private key.
type Factory interface {
	// SignTransaction signs the transaction's signing digest and
	// returns the resulting blob.
	SignTransaction(tx *chain.Transaction) (chain.UserSignature, error)

	// Address returns the account address the factory signs for.
	Address() codec.Address
}

// PrivateKeyFactory generates and loads raw private keys for one scheme.
type PrivateKeyFactory interface {
	GeneratePrivateKey() (*PrivateKey, error)
	LoadPrivateKey(p []byte) (*PrivateKey, error)
}

// PrivateKey pairs a raw private key with the scheme that interprets it
// and the address it controls.
type PrivateKey struct {
	Scheme  uint8
	Address codec.Address
	Bytes   codec.Bytes
}

// ParseUserSignature decodes the wire form of a signature blob. The
// first byte selects the scheme and fixes the expected length.
func ParseUserSignature(blob chain.UserSignature) (UserSignature, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("%w: empty blob", ErrInvalidSignatureSize)
	}
	switch blob[0] {
	case Ed25519Flag:
		return UnmarshalEd25519Signature(blob)
	case Secp256k1Flag:
		return UnmarshalSecp256k1Signature(blob)
	case Secp256r1Flag:
		return UnmarshalSecp256r1Signature(blob)
	default:
		return nil, fmt.Errorf("%w: flag %d", ErrInvalidSignatureScheme, blob[0])
	}
}

// SignTransaction signs tx with the factory and wraps the result in a
// single-signer envelope.
func SignTransaction(tx *chain.Transaction, factory Factory) (*chain.SignedTransaction, error) {
	sig, err := factory.SignTransaction(tx)
	if err != nil {
		return nil, err
	}
	return &chain.SignedTransaction{
		Transaction: *tx,
		Signatures:  []chain.UserSignature{sig},
	}, nil
}

// VerifySignedTransaction checks every signature attached to the
// envelope against the transaction's signing digest. At least one
// signature must be present.
func VerifySignedTransaction(s *chain.SignedTransaction) error {
	if len(s.Signatures) == 0 {
		return ErrNoSignatures
	}
	digest, err := s.Transaction.SigningDigest()
	if err != nil {
		return err
	}
	for i, blob := range s.Signatures {
		sig, err := ParseUserSignature(blob)
		if err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
		if err := sig.Verify(digest); err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
	}
	return nil
}

// newSchemeAddress derives the account address for a public key: the
// Blake2b-256 digest of the scheme flag followed by the key bytes.
func newSchemeAddress(flag uint8, pk []byte) codec.Address {
	pre := make([]byte, 0, 1+len(pk))
	pre = append(pre, flag)
	pre = append(pre, pk...)
	return codec.Address(blake2b.Sum256(pre))
}
