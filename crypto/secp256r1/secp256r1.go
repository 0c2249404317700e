// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package secp256r1

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
	"os"

	"github.com/ava-labs/movesdk/crypto"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
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

// secp256r1Order returns the curve order for the secp256r1 (P-256) curve.
//
// source: https://github.com/cosmos/cosmos-sdk/blob/b71ec62807628b9a94bef32071e1c8686fcd9d36/crypto/keys/internal/ecdsa/privkey.go#L12-L37
// source: https://github.com/bitcoin/bips/blob/master/bip-0062.mediawiki#low-s-values-in-signatures
var secp256r1Order = elliptic.P256().Params().N

// secp256r1HalfOrder returns half the curve order of the secp256r1 (P-256) curve.
//
// source: https://github.com/cosmos/cosmos-sdk/blob/b71ec62807628b9a94bef32071e1c8686fcd9d36/crypto/keys/internal/ecdsa/privkey.go#L12-L37
// source: https://github.com/bitcoin/bips/blob/master/bip-0062.mediawiki#low-s-values-in-signatures
var secp256r1HalfOrder = new(big.Int).Div(secp256r1Order, big.NewInt(2))

// normalizedS returns true if [s] falls in the lower half of the curve
// order (inclusive). Verification only accepts normalized signatures to
// ensure they are not malleable.
//
// source: https://github.com/cosmos/cosmos-sdk/blob/b71ec62807628b9a94bef32071e1c8686fcd9d36/crypto/keys/internal/ecdsa/privkey.go#L12-L37
// source: https://github.com/bitcoin/bips/blob/master/bip-0062.mediawiki#low-s-values-in-signatures
func normalizedS(s *big.Int) bool {
	return s.Cmp(secp256r1HalfOrder) != 1
}

// normalizeS inverts [s] if it is not in the lower half of the curve order.
func normalizeS(s *big.Int) *big.Int {
	if normalizedS(s) {
		return s
	}
	return new(big.Int).Sub(secp256r1Order, s)
}

// generateSignature constructs a fixed-width signature from [r] and [s].
func generateSignature(r, s *big.Int) Signature {
	var sig Signature
	r.FillBytes(sig[:rsLen])
	s.FillBytes(sig[rsLen:])
	return sig
}

// ParseASN1Signature parses an ASN.1 encoded (using DER serialization) secp256r1 signature.
// This function does not normalize the extracted signature.
//
// source: https://cs.opensource.google/go/go/+/refs/tags/go1.21.3:src/crypto/ecdsa/ecdsa.go;l=549
func ParseASN1Signature(sig []byte) (r, s []byte, err error) {
	var inner cryptobyte.String
	input := cryptobyte.String(sig)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(&r) ||
		!inner.ReadASN1Integer(&s) ||
		!inner.Empty() {
		return nil, nil, errors.New("invalid ASN.1")
	}
	return r, s, nil
}

// GeneratePrivateKey returns a secp256r1 PrivateKey.
func GeneratePrivateKey() (PrivateKey, error) {
	k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return EmptyPrivateKey, err
	}
	var pk PrivateKey
	k.D.FillBytes(pk[:])
	return pk, nil
}

// PublicKey returns the compressed PublicKey associated with the
// secp256r1 PrivateKey p.
//
// source: https://github.com/cosmos/cosmos-sdk/blob/b71ec62807628b9a94bef32071e1c8686fcd9d36/crypto/keys/internal/ecdsa/privkey.go#L120-L121
func (p PrivateKey) PublicKey() PublicKey {
	x, y := elliptic.P256().ScalarBaseMult(p[:])
	return PublicKey(elliptic.MarshalCompressed(elliptic.P256(), x, y))
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

// parseKey expands the scalar pk into a stdlib ECDSA signing key.
func parseKey(pk PrivateKey) *ecdsa.PrivateKey {
	x, y := elliptic.P256().ScalarBaseMult(pk[:])
	return &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     x,
			Y:     y,
		},
		D: new(big.Int).SetBytes(pk[:]),
	}
}

// Sign returns a valid signature for msg using pk.
//
// The message is hashed with SHA-256 before signing and [s] is
// adjusted to be in the lower half of the curve order.
func Sign(msg []byte, pk PrivateKey) (Signature, error) {
	priv := parseKey(pk)

	// Sign message
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return EmptySignature, err
	}

	// Construct normalized signature
	return generateSignature(r, normalizeS(s)), nil
}

// denormalizedSign returns a signature for msg where [s] falls in the
// upper half of the curve order. Verify rejects such signatures.
func denormalizedSign(msg []byte, pk PrivateKey) (Signature, error) {
	priv := parseKey(pk)

	// Sign message
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return EmptySignature, err
	}

	// Flip [s] into the upper half of the curve order
	if normalizedS(s) {
		s = new(big.Int).Sub(secp256r1Order, s)
	}
	return generateSignature(r, s), nil
}

// Verify returns whether sig is a valid signature of msg by p.
//
// The value of [s] in [sig] must be in the lower half of the curve
// order for the signature to be considered valid.
func Verify(msg []byte, p PublicKey, sig Signature) bool {
	// Parse PublicKey (rejects points not on the curve and the
	// point at infinity)
	x, y := elliptic.UnmarshalCompressed(elliptic.P256(), p[:])
	if x == nil {
		return false
	}
	pk := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     x,
		Y:     y,
	}

	// Parse Signature
	r := new(big.Int).SetBytes(sig[:rsLen])
	s := new(big.Int).SetBytes(sig[rsLen:])

	// Check if s is normalized
	if !normalizedS(s) {
		return false
	}

	// Check if signature is valid
	digest := sha256.Sum256(msg)
	return ecdsa.Verify(pk, digest[:], r, s)
}
