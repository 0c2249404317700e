// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/ava-labs/movesdk/auth"
	"github.com/ava-labs/movesdk/chain"
	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/crypto"
	"github.com/ava-labs/movesdk/crypto/ed25519"
	"github.com/ava-labs/movesdk/crypto/secp256k1"
	"github.com/ava-labs/movesdk/crypto/secp256r1"
)

func testTransaction() *chain.Transaction {
	sender := codec.Address{0xaa}
	return &chain.Transaction{
		Kind:   chain.ConsensusCommitPrologue{Epoch: 1, Round: 2, CommitTimestampMs: 3},
		Sender: sender,
		GasPayment: chain.GasPayment{
			Objects: []chain.ObjectReference{{ObjectID: chain.ObjectID{0x0b}, Version: 2}},
			Owner:   sender,
			Price:   1000,
			Budget:  1000000,
		},
	}
}

type namedFactory struct {
	name    string
	size    int
	factory auth.Factory
}

func testFactories(t *testing.T) []namedFactory {
	r := require.New(t)
	edPriv, err := ed25519.GeneratePrivateKey()
	r.NoError(err)
	k1Priv, err := secp256k1.GeneratePrivateKey()
	r.NoError(err)
	r1Priv, err := secp256r1.GeneratePrivateKey()
	r.NoError(err)
	return []namedFactory{
		{auth.Ed25519Key, auth.Ed25519Size, auth.NewEd25519Factory(edPriv)},
		{auth.Secp256k1Key, auth.Secp256k1Size, auth.NewSecp256k1Factory(k1Priv)},
		{auth.Secp256r1Key, auth.Secp256r1Size, auth.NewSecp256r1Factory(r1Priv)},
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	for _, tt := range testFactories(t) {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			tx := testTransaction()

			signed, err := auth.SignTransaction(tx, tt.factory)
			r.NoError(err)
			r.Len(signed.Signatures, 1)
			r.Len([]byte(signed.Signatures[0]), tt.size)
			r.NoError(auth.VerifySignedTransaction(signed))
		})
	}
}

func TestVerifyRejectsTamperedTransaction(t *testing.T) {
	for _, tt := range testFactories(t) {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			signed, err := auth.SignTransaction(testTransaction(), tt.factory)
			r.NoError(err)

			signed.Transaction.GasPayment.Budget++
			r.ErrorIs(auth.VerifySignedTransaction(signed), crypto.ErrInvalidSignature)
		})
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	for _, tt := range testFactories(t) {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			signed, err := auth.SignTransaction(testTransaction(), tt.factory)
			r.NoError(err)

			// Corrupt one byte of the signature payload
			signed.Signatures[0][5] ^= 0x01
			r.ErrorIs(auth.VerifySignedTransaction(signed), crypto.ErrInvalidSignature)
		})
	}
}

func TestVerifyRequiresSignatures(t *testing.T) {
	require := require.New(t)
	signed := &chain.SignedTransaction{
		Transaction: *testTransaction(),
		Signatures:  []chain.UserSignature{},
	}
	require.ErrorIs(auth.VerifySignedTransaction(signed), auth.ErrNoSignatures)
}

func TestBlobRoundTrip(t *testing.T) {
	for _, tt := range testFactories(t) {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			blob, err := tt.factory.SignTransaction(testTransaction())
			r.NoError(err)

			sig, err := auth.ParseUserSignature(blob)
			r.NoError(err)
			r.Equal(blob, sig.Blob())
			r.Equal(uint8(blob[0]), sig.Scheme())
			r.Equal(tt.factory.Address(), sig.Address())
		})
	}
}

func TestParseUserSignatureRejects(t *testing.T) {
	req := require.New(t)

	blob, err := testFactories(t)[0].factory.SignTransaction(testTransaction())
	req.NoError(err)

	tests := []struct {
		name string
		blob chain.UserSignature
		err  error
	}{
		{"empty", chain.UserSignature{}, auth.ErrInvalidSignatureSize},
		{"unknown flag", chain.UserSignature{0x07, 0x01}, auth.ErrInvalidSignatureScheme},
		{"multisig reserved", chain.UserSignature{auth.MultisigFlag}, auth.ErrInvalidSignatureScheme},
		{"zklogin reserved", chain.UserSignature{auth.ZkLoginFlag}, auth.ErrInvalidSignatureScheme},
		{"truncated", blob[:len(blob)-1], auth.ErrInvalidSignatureSize},
		{"extended", append(append(chain.UserSignature{}, blob...), 0x00), auth.ErrInvalidSignatureSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			_, err := auth.ParseUserSignature(tt.blob)
			r.ErrorIs(err, tt.err)
		})
	}
}

func TestReflaggedBlobRejected(t *testing.T) {
	require := require.New(t)

	// An ed25519 blob re-flagged as secp256k1 no longer has the
	// length that scheme demands.
	blob, err := testFactories(t)[0].factory.SignTransaction(testTransaction())
	require.NoError(err)
	blob[0] = auth.Secp256k1Flag
	_, err = auth.ParseUserSignature(blob)
	require.ErrorIs(err, auth.ErrInvalidSignatureSize)
}

func TestAddressDerivation(t *testing.T) {
	require := require.New(t)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	pub := priv.PublicKey()

	pre := append([]byte{auth.Ed25519Flag}, pub[:]...)
	want := codec.Address(blake2b.Sum256(pre))
	require.Equal(want, auth.NewEd25519Address(pub))
}

func TestAddressesDistinctAcrossSchemes(t *testing.T) {
	require := require.New(t)

	factories := testFactories(t)
	seen := make(map[codec.Address]bool)
	for _, tt := range factories {
		addr := tt.factory.Address()
		require.NotEqual(codec.Address{}, addr)
		require.False(seen[addr])
		seen[addr] = true
	}
}

func TestGetFactory(t *testing.T) {
	schemes := []string{auth.Ed25519Key, auth.Secp256k1Key, auth.Secp256r1Key}
	for _, scheme := range schemes {
		t.Run(scheme, func(t *testing.T) {
			r := require.New(t)
			keyFactory, err := auth.GetPrivateKeyFactory(scheme)
			r.NoError(err)

			pk, err := keyFactory.GeneratePrivateKey()
			r.NoError(err)

			loaded, err := keyFactory.LoadPrivateKey(pk.Bytes)
			r.NoError(err)
			r.Equal(pk.Address, loaded.Address)

			factory, err := auth.GetFactory(pk)
			r.NoError(err)
			r.Equal(pk.Address, factory.Address())
		})
	}
}

func TestGetFactoryRejects(t *testing.T) {
	require := require.New(t)

	_, err := auth.GetFactory(&auth.PrivateKey{Scheme: 0x09})
	require.ErrorIs(err, auth.ErrInvalidKeyType)

	_, err = auth.GetFactory(&auth.PrivateKey{Scheme: auth.Ed25519Flag, Bytes: codec.Bytes{0x01}})
	require.ErrorIs(err, auth.ErrInvalidPrivateKeySize)

	_, err = auth.GetPrivateKeyFactory("bls")
	require.ErrorIs(err, auth.ErrInvalidKeyType)

	keyFactory, err := auth.GetPrivateKeyFactory(auth.Secp256k1Key)
	require.NoError(err)
	_, err = keyFactory.LoadPrivateKey([]byte{0x01, 0x02})
	require.ErrorIs(err, auth.ErrInvalidPrivateKeySize)
}
