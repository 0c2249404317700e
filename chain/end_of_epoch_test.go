// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/movesdk/codec"
)

func TestEndOfEpochKindBinaryRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind EndOfEpochTransactionKind
	}{
		{"changeEpoch", testChangeEpoch()},
		{"authenticatorStateCreate", AuthenticatorStateCreate{}},
		{"authenticatorStateExpire", AuthenticatorStateExpire{MinEpoch: 5, AuthenticatorObjInitialSharedVersion: 6}},
		{"randomnessStateCreate", RandomnessStateCreate{}},
		{"denyListStateCreate", DenyListStateCreate{}},
		{"bridgeStateCreate", BridgeStateCreate{ChainID: codec.Digest{0xab}}},
		{"bridgeCommitteeInit", BridgeCommitteeInit{BridgeObjectVersion: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			p := codec.NewWriter(initialEncodeSize, -1)
			marshalEndOfEpochKind(p, tt.kind)
			require.NoError(p.Err())

			r := codec.NewReader(p.Bytes(), -1)
			parsed, err := unmarshalEndOfEpochKind(r)
			require.NoError(err)
			require.Equal(tt.kind, parsed)
			require.True(r.Empty())

			raw, err := json.Marshal(parsed)
			require.NoError(err)
			again, err := unmarshalEndOfEpochKindJSON(raw)
			require.NoError(err)
			require.Equal(tt.kind, again)
		})
	}
}

func TestEndOfEpochKindBinaryLayout(t *testing.T) {
	require := require.New(t)

	p := codec.NewWriter(32, -1)
	marshalEndOfEpochKind(p, AuthenticatorStateExpire{MinEpoch: 5, AuthenticatorObjInitialSharedVersion: 6})
	require.NoError(p.Err())
	require.Equal([]byte{
		0x02,
		5, 0, 0, 0, 0, 0, 0, 0,
		6, 0, 0, 0, 0, 0, 0, 0,
	}, p.Bytes())

	p = codec.NewWriter(64, -1)
	marshalEndOfEpochKind(p, BridgeStateCreate{})
	require.NoError(p.Err())
	want := append([]byte{0x05, 0x20}, make([]byte, 32)...)
	require.Equal(want, p.Bytes())
}

func TestEndOfEpochKindJSON(t *testing.T) {
	tests := []struct {
		name string
		kind EndOfEpochTransactionKind
		want string
	}{
		{
			name: "authenticatorStateCreate",
			kind: AuthenticatorStateCreate{},
			want: `{"kind": "authenticator_state_create"}`,
		},
		{
			name: "authenticatorStateExpire",
			kind: AuthenticatorStateExpire{MinEpoch: 5, AuthenticatorObjInitialSharedVersion: 6},
			want: `{"kind": "authenticator_state_expire", "min_epoch": "5", "authenticator_obj_initial_shared_version": "6"}`,
		},
		{
			name: "randomnessStateCreate",
			kind: RandomnessStateCreate{},
			want: `{"kind": "randomness_state_create"}`,
		},
		{
			name: "denyListStateCreate",
			kind: DenyListStateCreate{},
			want: `{"kind": "deny_list_state_create"}`,
		},
		{
			name: "bridgeStateCreate",
			kind: BridgeStateCreate{},
			want: `{"kind": "bridge_state_create", "chain_id": "11111111111111111111111111111111"}`,
		},
		{
			name: "bridgeCommitteeInit",
			kind: BridgeCommitteeInit{BridgeObjectVersion: 7},
			want: `{"kind": "bridge_committee_init", "bridge_object_version": "7"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			raw, err := json.Marshal(tt.kind)
			require.NoError(err)
			require.JSONEq(tt.want, string(raw))

			parsed, err := unmarshalEndOfEpochKindJSON(raw)
			require.NoError(err)
			require.Equal(tt.kind, parsed)
		})
	}
}

func TestEndOfEpochKindUnknownVariant(t *testing.T) {
	require := require.New(t)

	r := codec.NewReader([]byte{0x07}, -1)
	_, err := unmarshalEndOfEpochKind(r)
	require.ErrorIs(err, ErrUnknownVariant)

	_, err = unmarshalEndOfEpochKindJSON([]byte(`{"kind": "bridge_pause"}`))
	require.ErrorIs(err, ErrUnknownVariant)
}
