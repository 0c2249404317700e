// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"fmt"

	"github.com/ava-labs/movesdk/chain"
	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/crypto"
	"github.com/ava-labs/movesdk/crypto/secp256k1"
)

var _ UserSignature = (*Secp256k1Signature)(nil)

const Secp256k1Size = 1 + secp256k1.SignatureLen + secp256k1.PublicKeyLen

type Secp256k1Signature struct {
	Signer    secp256k1.PublicKey
	Signature secp256k1.Signature
}

func (*Secp256k1Signature) Scheme() uint8 {
	return Secp256k1Flag
}

// Verify checks the signature over the signing digest. The scheme
// hashes the digest once more with SHA-256 inside ECDSA.
func (d *Secp256k1Signature) Verify(digest [32]byte) error {
	if !secp256k1.Verify(digest[:], d.Signer, d.Signature) {
		return crypto.ErrInvalidSignature
	}
	return nil
}

func (d *Secp256k1Signature) Blob() chain.UserSignature {
	b := make([]byte, Secp256k1Size)
	b[0] = Secp256k1Flag
	copy(b[1:], d.Signature[:])
	copy(b[1+secp256k1.SignatureLen:], d.Signer[:])
	return chain.UserSignature(b)
}

func (d *Secp256k1Signature) Address() codec.Address {
	return NewSecp256k1Address(d.Signer)
}

// UnmarshalSecp256k1Signature decodes a flag-prefixed secp256k1 blob.
func UnmarshalSecp256k1Signature(blob chain.UserSignature) (*Secp256k1Signature, error) {
	if len(blob) != Secp256k1Size {
		return nil, fmt.Errorf("%w: secp256k1 blob %d != %d", ErrInvalidSignatureSize, len(blob), Secp256k1Size)
	}
	if blob[0] != Secp256k1Flag {
		return nil, fmt.Errorf("%w: flag %d", ErrInvalidSignatureScheme, blob[0])
	}
	var d Secp256k1Signature
	copy(d.Signature[:], blob[1:])
	copy(d.Signer[:], blob[1+secp256k1.SignatureLen:])
	return &d, nil
}

var _ Factory = (*Secp256k1Factory)(nil)

type Secp256k1Factory struct {
	priv secp256k1.PrivateKey
}

func NewSecp256k1Factory(priv secp256k1.PrivateKey) *Secp256k1Factory {
	return &Secp256k1Factory{priv}
}

func (d *Secp256k1Factory) SignTransaction(tx *chain.Transaction) (chain.UserSignature, error) {
	digest, err := tx.SigningDigest()
	if err != nil {
		return nil, err
	}
	sig := &Secp256k1Signature{
		Signer:    d.priv.PublicKey(),
		Signature: secp256k1.Sign(digest[:], d.priv),
	}
	return sig.Blob(), nil
}

func (d *Secp256k1Factory) Address() codec.Address {
	return NewSecp256k1Address(d.priv.PublicKey())
}

// NewSecp256k1Address returns the account address controlled by pk.
func NewSecp256k1Address(pk secp256k1.PublicKey) codec.Address {
	return newSchemeAddress(Secp256k1Flag, pk[:])
}

type Secp256k1PrivateKeyFactory struct{}

func NewSecp256k1PrivateKeyFactory() *Secp256k1PrivateKeyFactory {
	return &Secp256k1PrivateKeyFactory{}
}

func (*Secp256k1PrivateKeyFactory) GeneratePrivateKey() (*PrivateKey, error) {
	p, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{
		Scheme:  Secp256k1Flag,
		Address: NewSecp256k1Address(p.PublicKey()),
		Bytes:   p[:],
	}, nil
}

func (*Secp256k1PrivateKeyFactory) LoadPrivateKey(p []byte) (*PrivateKey, error) {
	if len(p) != secp256k1.PrivateKeyLen {
		return nil, ErrInvalidPrivateKeySize
	}
	pk := secp256k1.PrivateKey(p)
	return &PrivateKey{
		Scheme:  Secp256k1Flag,
		Address: NewSecp256k1Address(pk.PublicKey()),
		Bytes:   p,
	}, nil
}
