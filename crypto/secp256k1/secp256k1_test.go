// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package secp256k1

import (
	"encoding/hex"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/movesdk/crypto"

	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func TestGeneratePrivateKey(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)
	require.Len(priv, PrivateKeyLen)
	require.NotEqual(EmptyPrivateKey, priv)
}

func TestPublicKeyFixture(t *testing.T) {
	require := require.New(t)

	// The private key 1 maps to the generator point.
	priv, err := HexToKey("0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(err)
	pub := priv.PublicKey()
	require.Equal(
		"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		hex.EncodeToString(pub[:]),
	)
}

func TestSignVerify(t *testing.T) {
	require := require.New(t)
	for i := 0; i < 1000; i++ {
		// Generate private key
		priv, err := GeneratePrivateKey()
		require.NoError(err)

		// Sign message
		msg := []byte("hello")
		sig := Sign(msg, priv)

		// Verify signature
		require.True(Verify(msg, priv.PublicKey(), sig))
	}
}

func TestVerifyWrongMessage(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)

	sig := Sign([]byte("hello"), priv)
	require.False(Verify([]byte("world"), priv.PublicKey(), sig))
}

func TestSignDeterministic(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)

	msg := []byte("hello")
	require.Equal(Sign(msg, priv), Sign(msg, priv))
}

func TestSignatureLowS(t *testing.T) {
	require := require.New(t)
	for i := 0; i < 100; i++ {
		priv, err := GeneratePrivateKey()
		require.NoError(err)
		sig := Sign([]byte("hello"), priv)

		var s secp.ModNScalar
		require.False(s.SetByteSlice(sig[rsLen:]))
		require.False(s.IsOverHalfOrder())
	}
}

func TestSignatureHighSRejected(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)

	msg := []byte("hello")
	sig := Sign(msg, priv)
	require.True(Verify(msg, priv.PublicKey(), sig))

	// Flip [s] into the upper half of the curve order. The signature
	// stays mathematically valid but is no longer canonical.
	s := new(big.Int).SetBytes(sig[rsLen:])
	new(big.Int).Sub(secp.S256().N, s).FillBytes(sig[rsLen:])
	require.False(Verify(msg, priv.PublicKey(), sig))
}

func TestEmptySignature(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)
	require.False(Verify([]byte("hello"), priv.PublicKey(), EmptySignature))
}

func TestBadPublicKey(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)

	msg := []byte("hello")
	sig := Sign(msg, priv)

	// Corrupt the format byte
	pub := priv.PublicKey()
	pub[0] = 0x05
	require.False(Verify(msg, pub, sig))
}

func TestEmptyPublicKey(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)

	msg := []byte("hello")
	sig := Sign(msg, priv)
	require.False(Verify(msg, EmptyPublicKey, sig))
}

func TestSaveLoadKey(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)

	filename := filepath.Join(t.TempDir(), "key")
	require.NoError(priv.Save(filename))

	loaded, err := LoadKey(filename)
	require.NoError(err)
	require.Equal(priv, loaded)
}

func TestLoadKeyTruncated(t *testing.T) {
	require := require.New(t)
	filename := filepath.Join(t.TempDir(), "key")
	require.NoError(os.WriteFile(filename, []byte{0x01, 0x02}, 0o600))

	_, err := LoadKey(filename)
	require.ErrorIs(err, crypto.ErrInvalidPrivateKey)
}

func TestHexToKey(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)

	parsed, err := HexToKey(priv.ToHex())
	require.NoError(err)
	require.Equal(priv, parsed)

	_, err = HexToKey("zz")
	require.Error(err)

	_, err = HexToKey("abcd")
	require.ErrorIs(err, crypto.ErrInvalidPrivateKey)
}
