// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/movesdk/chain"
)

// Transactions captured from mainnet traffic, one per kind family.
const (
	consensusPrologueFixture = "AAMAAAAAAAAAAAIAAAAAAAAAtkjHeocBAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAEAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAIAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABAAAAAAAAAAAAAAAAAAAAAA=="

	epochChangeFixture = "AAUCAmkBAAAAAAAAmSrgAQAAAAAAagEAAAAAAAApAAAAAAAAALAQCoNLLwAAnNn0sywGAABsVBEfSC0AAKQnlhd1AAAAzve+vo4BAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAACAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAQAAAAAAAAAAAAAAAAAAAAA="

	programmableFixture = "AAADAQFEBbUNeR/TNGdU6Bcaqra8LtJsLEbv3QM8FLMK5QesMyx96QEAAAAAAQAIVsakAAAAAAABALyyokbZ/8ynfWQer6UyP1DpeCnPU1NC7AyFNJSaTztnQF40BQAAAAAgffPXh5XuG6TWjHk6qC5w9k2a+41oTWfm0sC1FOYRqsEBAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAN7pB2Nsb2JfdjIMY2FuY2VsX29yZGVyAgcAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAgNzdWkDU1VJAAddSzAlBmRcN/8TO5jEtQpa4UhBZZc41tcz1Z0NIXqTvwRjb2luBENPSU4AAwEAAAEBAAECAPgh00g/x3Jeuvqlo9Ejc9SZAb384UhPIZ2qcGajDfd9ASXQjpFOD6mfycbzwD1wc+IOkCXQ8rHQo/Vi5SDOGMR/Jl40BQAAAAAgV7P1E0IMKon5uI82R/0arWLt+dc1ng/4VwKDqpTCxHT4IdNIP8dyXrr6paPRI3PUmQG9/OFITyGdqnBmow33fe4CAAAAAAAAAMqaOwAAAAAA"
)

func fixtureBytes(t *testing.T, fixture string) []byte {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(fixture)
	require.NoError(t, err)
	return raw
}

func TestFixtureRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
	}{
		{"consensusPrologue", consensusPrologueFixture},
		{"epochChange", epochChangeFixture},
		{"programmable", programmableFixture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			raw := fixtureBytes(t, tt.fixture)

			tx, err := chain.DecodeTransaction(chain.Binary, raw)
			require.NoError(err)

			// Binary re-encoding must reproduce the input exactly.
			encoded, err := chain.EncodeTransaction(chain.Binary, tx)
			require.NoError(err)
			require.Equal(raw, encoded)

			// A trip through the display form must land on the same
			// canonical bytes.
			textual, err := chain.EncodeTransaction(chain.Textual, tx)
			require.NoError(err)
			parsed, err := chain.DecodeTransaction(chain.Textual, textual)
			require.NoError(err)
			again, err := chain.EncodeTransaction(chain.Binary, parsed)
			require.NoError(err)
			require.Equal(raw, again)
		})
	}
}

func TestConsensusPrologueFixtureFields(t *testing.T) {
	require := require.New(t)

	tx, err := chain.DecodeTransaction(chain.Binary, fixtureBytes(t, consensusPrologueFixture))
	require.NoError(err)

	prologue, ok := tx.Kind.(chain.ConsensusCommitPrologue)
	require.True(ok)
	require.EqualValues(0, prologue.Epoch)
	require.EqualValues(2, prologue.Round)
	require.EqualValues(1681392093366, prologue.CommitTimestampMs)

	require.EqualValues(1, tx.GasPayment.Price)
	require.EqualValues(0, tx.GasPayment.Budget)
	require.Nil(tx.Expiration.Epoch)
}

func TestEpochChangeFixtureFields(t *testing.T) {
	require := require.New(t)

	tx, err := chain.DecodeTransaction(chain.Binary, fixtureBytes(t, epochChangeFixture))
	require.NoError(err)

	endOfEpoch, ok := tx.Kind.(chain.EndOfEpoch)
	require.True(ok)
	require.Len(endOfEpoch.Commands, 2)

	expire, ok := endOfEpoch.Commands[0].(chain.AuthenticatorStateExpire)
	require.True(ok)
	require.EqualValues(361, expire.MinEpoch)
	require.EqualValues(31468185, expire.AuthenticatorObjInitialSharedVersion)

	epoch, ok := endOfEpoch.Commands[1].(chain.ChangeEpoch)
	require.True(ok)
	require.EqualValues(362, epoch.Epoch)
	require.EqualValues(41, epoch.ProtocolVersion)
	require.EqualValues(1712597170126, epoch.EpochStartTimestampMs)
	require.Empty(epoch.SystemPackages)
}

func TestProgrammableFixtureFields(t *testing.T) {
	require := require.New(t)

	tx, err := chain.DecodeTransaction(chain.Binary, fixtureBytes(t, programmableFixture))
	require.NoError(err)

	ptb, ok := tx.Kind.(chain.ProgrammableTransaction)
	require.True(ok)
	require.Len(ptb.Inputs, 3)

	shared, ok := ptb.Inputs[0].(chain.Shared)
	require.True(ok)
	require.EqualValues(32079148, shared.InitialSharedVersion)
	require.True(shared.Mutable)

	pure, ok := ptb.Inputs[1].(chain.Pure)
	require.True(ok)
	require.Equal([]byte{0x56, 0xc6, 0xa4, 0, 0, 0, 0, 0}, pure.Value)

	owned, ok := ptb.Inputs[2].(chain.ImmutableOrOwned)
	require.True(ok)
	require.EqualValues(87318080, owned.Version)

	require.Len(ptb.Commands, 1)
	call, ok := ptb.Commands[0].(chain.MoveCall)
	require.True(ok)
	require.Equal(chain.Identifier("clob_v2"), call.Module)
	require.Equal(chain.Identifier("cancel_order"), call.Function)
	require.Len(call.TypeArguments, 2)
	require.Equal(
		"0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI",
		call.TypeArguments[0].String(),
	)
	require.Len(call.Arguments, 3)
	require.Equal(chain.Input{Index: 0}, call.Arguments[0])

	require.EqualValues(750, tx.GasPayment.Price)
	require.EqualValues(1000000000, tx.GasPayment.Budget)
}

func TestFixtureDigestDeterministic(t *testing.T) {
	require := require.New(t)

	tx, err := chain.DecodeTransaction(chain.Binary, fixtureBytes(t, programmableFixture))
	require.NoError(err)

	first, err := tx.Digest()
	require.NoError(err)
	second, err := tx.Digest()
	require.NoError(err)
	require.Equal(first, second)
	require.NotEqual("11111111111111111111111111111111", first.String())

	signing, err := tx.SigningDigest()
	require.NoError(err)
	require.NotEqual([32]byte{}, signing)
}
