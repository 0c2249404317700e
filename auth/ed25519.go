// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"fmt"

	"github.com/ava-labs/movesdk/chain"
	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/crypto"
	"github.com/ava-labs/movesdk/crypto/ed25519"
)

var _ UserSignature = (*Ed25519Signature)(nil)

const Ed25519Size = 1 + ed25519.SignatureLen + ed25519.PublicKeyLen

type Ed25519Signature struct {
	Signer    ed25519.PublicKey
	Signature ed25519.Signature
}

func (*Ed25519Signature) Scheme() uint8 {
	return Ed25519Flag
}

// Verify checks the signature over the signing digest. Ed25519 signs
// the digest directly.
func (d *Ed25519Signature) Verify(digest [32]byte) error {
	if !ed25519.Verify(digest[:], d.Signer, d.Signature) {
		return crypto.ErrInvalidSignature
	}
	return nil
}

func (d *Ed25519Signature) Blob() chain.UserSignature {
	b := make([]byte, Ed25519Size)
	b[0] = Ed25519Flag
	copy(b[1:], d.Signature[:])
	copy(b[1+ed25519.SignatureLen:], d.Signer[:])
	return chain.UserSignature(b)
}

func (d *Ed25519Signature) Address() codec.Address {
	return NewEd25519Address(d.Signer)
}

// UnmarshalEd25519Signature decodes a flag-prefixed ed25519 blob.
func UnmarshalEd25519Signature(blob chain.UserSignature) (*Ed25519Signature, error) {
	if len(blob) != Ed25519Size {
		return nil, fmt.Errorf("%w: ed25519 blob %d != %d", ErrInvalidSignatureSize, len(blob), Ed25519Size)
	}
	if blob[0] != Ed25519Flag {
		return nil, fmt.Errorf("%w: flag %d", ErrInvalidSignatureScheme, blob[0])
	}
	var d Ed25519Signature
	copy(d.Signature[:], blob[1:])
	copy(d.Signer[:], blob[1+ed25519.SignatureLen:])
	return &d, nil
}

var _ Factory = (*Ed25519Factory)(nil)

type Ed25519Factory struct {
	priv ed25519.PrivateKey
}

func NewEd25519Factory(priv ed25519.PrivateKey) *Ed25519Factory {
	return &Ed25519Factory{priv}
}

func (d *Ed25519Factory) SignTransaction(tx *chain.Transaction) (chain.UserSignature, error) {
	digest, err := tx.SigningDigest()
	if err != nil {
		return nil, err
	}
	sig := &Ed25519Signature{
		Signer:    d.priv.PublicKey(),
		Signature: ed25519.Sign(digest[:], d.priv),
	}
	return sig.Blob(), nil
}

func (d *Ed25519Factory) Address() codec.Address {
	return NewEd25519Address(d.priv.PublicKey())
}

// NewEd25519Address returns the account address controlled by pk.
func NewEd25519Address(pk ed25519.PublicKey) codec.Address {
	return newSchemeAddress(Ed25519Flag, pk[:])
}

type Ed25519PrivateKeyFactory struct{}

func NewEd25519PrivateKeyFactory() *Ed25519PrivateKeyFactory {
	return &Ed25519PrivateKeyFactory{}
}

func (*Ed25519PrivateKeyFactory) GeneratePrivateKey() (*PrivateKey, error) {
	p, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{
		Scheme:  Ed25519Flag,
		Address: NewEd25519Address(p.PublicKey()),
		Bytes:   p[:],
	}, nil
}

func (*Ed25519PrivateKeyFactory) LoadPrivateKey(p []byte) (*PrivateKey, error) {
	if len(p) != ed25519.PrivateKeyLen {
		return nil, ErrInvalidPrivateKeySize
	}
	pk := ed25519.PrivateKey(p)
	return &PrivateKey{
		Scheme:  Ed25519Flag,
		Address: NewEd25519Address(pk.PublicKey()),
		Bytes:   p,
	}, nil
}
