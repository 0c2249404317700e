// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package secp256k1

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/ava-labs/movesdk/crypto"

	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	PublicKeyLen  = 33 // SEC1 compressed
	PrivateKeyLen = 32
	SignatureLen  = 64 // r || s

	rsLen = 32
)

type (
	PublicKey  [PublicKeyLen]byte
	PrivateKey [PrivateKeyLen]byte
	Signature  [SignatureLen]byte
)

var (
	EmptyPublicKey  = [PublicKeyLen]byte{}
	EmptyPrivateKey = [PrivateKeyLen]byte{}
	EmptySignature  = [SignatureLen]byte{}
)

// GeneratePrivateKey returns a secp256k1 private key.
func GeneratePrivateKey() (PrivateKey, error) {
	k, err := secp.GeneratePrivateKey()
	if err != nil {
		return EmptyPrivateKey, err
	}
	return PrivateKey(k.Serialize()), nil
}

// PublicKey returns the compressed public key associated with the
// secp256k1 PrivateKey p.
func (p PrivateKey) PublicKey() PublicKey {
	k := secp.PrivKeyFromBytes(p[:])
	return PublicKey(k.PubKey().SerializeCompressed())
}

// ToHex converts a PrivateKey to a hex string.
func (p PrivateKey) ToHex() string {
	return hex.EncodeToString(p[:])
}

// Save writes [PrivateKey] to a file [filename]. If filename does
// not exist, it creates a new file with read/write permissions (0o600).
func (p PrivateKey) Save(filename string) error {
	return os.WriteFile(filename, p[:], 0o600)
}

// LoadKey returns a PrivateKey from a file filename.
// If there is an error reading the file, or the file contains an
// invalid PrivateKey, LoadKey returns an EmptyPrivateKey and an error.
func LoadKey(filename string) (PrivateKey, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return EmptyPrivateKey, err
	}
	if len(bytes) != PrivateKeyLen {
		return EmptyPrivateKey, crypto.ErrInvalidPrivateKey
	}
	return PrivateKey(bytes), nil
}

// HexToKey Converts a hexadecimal encoded key into a PrivateKey. Returns
// an EmptyPrivateKey and error if key is invalid.
func HexToKey(key string) (PrivateKey, error) {
	bytes, err := hex.DecodeString(key)
	if err != nil {
		return EmptyPrivateKey, err
	}
	if len(bytes) != PrivateKeyLen {
		return EmptyPrivateKey, crypto.ErrInvalidPrivateKey
	}
	return PrivateKey(bytes), nil
}

// Sign returns a valid signature for msg using pk.
//
// The message is hashed with SHA-256 before signing and [s] is
// always in the lower half of the curve order.
func Sign(msg []byte, pk PrivateKey) Signature {
	k := secp.PrivKeyFromBytes(pk[:])
	digest := sha256.Sum256(msg)

	// SignCompact prepends a recovery code to the r || s payload.
	sig := ecdsa.SignCompact(k, digest[:], true)
	return Signature(sig[1:])
}

// Verify returns whether sig is a valid signature of msg by p.
//
// Signatures with [s] in the upper half of the curve order are
// rejected to prevent signature malleability.
//
// source: https://github.com/bitcoin/bips/blob/master/bip-0062.mediawiki#low-s-values-in-signatures
func Verify(msg []byte, p PublicKey, sig Signature) bool {
	pub, err := secp.ParsePubKey(p[:])
	if err != nil {
		return false
	}

	// Reject non-canonical scalar encodings
	var r, s secp.ModNScalar
	if overflow := r.SetByteSlice(sig[:rsLen]); overflow {
		return false
	}
	if overflow := s.SetByteSlice(sig[rsLen:]); overflow {
		return false
	}
	if r.IsZero() || s.IsZero() {
		return false
	}
	if s.IsOverHalfOrder() {
		return false
	}

	digest := sha256.Sum256(msg)
	return ecdsa.NewSignature(&r, &s).Verify(digest[:], pub)
}
