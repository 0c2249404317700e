// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"fmt"

	"github.com/ava-labs/movesdk/chain"
	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/crypto"
	"github.com/ava-labs/movesdk/crypto/secp256r1"
)

var _ UserSignature = (*Secp256r1Signature)(nil)

const Secp256r1Size = 1 + secp256r1.SignatureLen + secp256r1.PublicKeyLen

type Secp256r1Signature struct {
	Signer    secp256r1.PublicKey
	Signature secp256r1.Signature
}

func (*Secp256r1Signature) Scheme() uint8 {
	return Secp256r1Flag
}

// Verify checks the signature over the signing digest. The scheme
// hashes the digest once more with SHA-256 inside ECDSA.
func (d *Secp256r1Signature) Verify(digest [32]byte) error {
	if !secp256r1.Verify(digest[:], d.Signer, d.Signature) {
		return crypto.ErrInvalidSignature
	}
	return nil
}

func (d *Secp256r1Signature) Blob() chain.UserSignature {
	b := make([]byte, Secp256r1Size)
	b[0] = Secp256r1Flag
	copy(b[1:], d.Signature[:])
	copy(b[1+secp256r1.SignatureLen:], d.Signer[:])
	return chain.UserSignature(b)
}

func (d *Secp256r1Signature) Address() codec.Address {
	return NewSecp256r1Address(d.Signer)
}

// UnmarshalSecp256r1Signature decodes a flag-prefixed secp256r1 blob.
func UnmarshalSecp256r1Signature(blob chain.UserSignature) (*Secp256r1Signature, error) {
	if len(blob) != Secp256r1Size {
		return nil, fmt.Errorf("%w: secp256r1 blob %d != %d", ErrInvalidSignatureSize, len(blob), Secp256r1Size)
	}
	if blob[0] != Secp256r1Flag {
		return nil, fmt.Errorf("%w: flag %d", ErrInvalidSignatureScheme, blob[0])
	}
	var d Secp256r1Signature
	copy(d.Signature[:], blob[1:])
	copy(d.Signer[:], blob[1+secp256r1.SignatureLen:])
	return &d, nil
}

var _ Factory = (*Secp256r1Factory)(nil)

type Secp256r1Factory struct {
	priv secp256r1.PrivateKey
}

func NewSecp256r1Factory(priv secp256r1.PrivateKey) *Secp256r1Factory {
	return &Secp256r1Factory{priv}
}

func (d *Secp256r1Factory) SignTransaction(tx *chain.Transaction) (chain.UserSignature, error) {
	digest, err := tx.SigningDigest()
	if err != nil {
		return nil, err
	}
	sig, err := secp256r1.Sign(digest[:], d.priv)
	if err != nil {
		return nil, err
	}
	auth := &Secp256r1Signature{Signer: d.priv.PublicKey(), Signature: sig}
	return auth.Blob(), nil
}

func (d *Secp256r1Factory) Address() codec.Address {
	return NewSecp256r1Address(d.priv.PublicKey())
}

// NewSecp256r1Address returns the account address controlled by pk.
func NewSecp256r1Address(pk secp256r1.PublicKey) codec.Address {
	return newSchemeAddress(Secp256r1Flag, pk[:])
}

type Secp256r1PrivateKeyFactory struct{}

func NewSecp256r1PrivateKeyFactory() *Secp256r1PrivateKeyFactory {
	return &Secp256r1PrivateKeyFactory{}
}

func (*Secp256r1PrivateKeyFactory) GeneratePrivateKey() (*PrivateKey, error) {
	p, err := secp256r1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{
		Scheme:  Secp256r1Flag,
		Address: NewSecp256r1Address(p.PublicKey()),
		Bytes:   p[:],
	}, nil
}

func (*Secp256r1PrivateKeyFactory) LoadPrivateKey(p []byte) (*PrivateKey, error) {
	if len(p) != secp256r1.PrivateKeyLen {
		return nil, ErrInvalidPrivateKeySize
	}
	pk := secp256r1.PrivateKey(p)
	return &PrivateKey{
		Scheme:  Secp256r1Flag,
		Address: NewSecp256r1Address(pk.PublicKey()),
		Bytes:   p,
	}, nil
}
