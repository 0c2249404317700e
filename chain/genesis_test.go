// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/movesdk/codec"
)

func testMoveStruct(t *testing.T) MoveStruct {
	t.Helper()
	return MoveStruct{
		Type:              mustStructTag(t, "0x2::coin::Coin"),
		HasPublicTransfer: true,
		Version:           1,
		Contents:          []byte{0xde, 0xad},
	}
}

func testMovePackage() MovePackage {
	return MovePackage{
		ID:      ObjectID{0x02},
		Version: 3,
		Modules: map[Identifier][]byte{
			"aa": {0x01},
			"b":  {0x02},
		},
		TypeOriginTable: []TypeOrigin{{
			ModuleName: Identifier("coin"),
			StructName: Identifier("Coin"),
			Package:    ObjectID{0x02},
		}},
		LinkageTable: map[ObjectID]UpgradeInfo{
			{0x01}: {UpgradedID: ObjectID{0x09}, UpgradedVersion: 4},
		},
	}
}

func TestGenesisObjectBinaryRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		object GenesisObject
	}{
		{
			name:   "structAddressOwner",
			object: GenesisObject{Data: testMoveStruct(t), Owner: AddressOwner{Address: codec.Address{0xaa}}},
		},
		{
			name:   "structObjectOwner",
			object: GenesisObject{Data: testMoveStruct(t), Owner: ObjectOwner{ObjectID: ObjectID{0xbb}}},
		},
		{
			name:   "structSharedOwner",
			object: GenesisObject{Data: testMoveStruct(t), Owner: SharedOwner{InitialSharedVersion: 7}},
		},
		{
			name:   "packageImmutableOwner",
			object: GenesisObject{Data: testMovePackage(), Owner: ImmutableOwner{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			p := codec.NewWriter(initialEncodeSize, -1)
			marshalGenesisObject(p, tt.object)
			require.NoError(p.Err())

			r := codec.NewReader(p.Bytes(), -1)
			parsed, err := unmarshalGenesisObject(r)
			require.NoError(err)
			require.Equal(tt.object, parsed)
			require.True(r.Empty())

			raw, err := json.Marshal(parsed)
			require.NoError(err)
			var again GenesisObject
			require.NoError(json.Unmarshal(raw, &again))
			require.Equal(tt.object, again)
		})
	}
}

func TestModuleMapSerializedKeyOrder(t *testing.T) {
	require := require.New(t)

	p := codec.NewWriter(initialEncodeSize, -1)
	marshalMovePackage(p, testMovePackage())
	require.NoError(p.Err())

	// The module map sorts by serialized key bytes, so the one-byte
	// length prefix of "b" places it before "aa" even though "aa" is
	// lexically smaller.
	encoded := p.Bytes()
	require.EqualValues(2, encoded[40])
	require.EqualValues(1, encoded[41])
	require.EqualValues('b', encoded[42])
}

func TestModuleMapNonCanonicalOrderRejected(t *testing.T) {
	require := require.New(t)

	// Plain string order instead of serialized key order.
	p := codec.NewWriter(initialEncodeSize, -1)
	p.PackAddress(ObjectID{})
	p.PackUint64(1)
	p.PackLen(2)
	p.PackString("aa")
	p.PackBytes([]byte{0x01})
	p.PackString("b")
	p.PackBytes([]byte{0x02})
	p.PackLen(0)
	p.PackLen(0)
	require.NoError(p.Err())

	r := codec.NewReader(p.Bytes(), -1)
	_, err := unmarshalMovePackage(r)
	require.ErrorIs(err, ErrNonCanonicalMap)
}

func TestModuleMapDuplicateKeyRejected(t *testing.T) {
	require := require.New(t)

	p := codec.NewWriter(initialEncodeSize, -1)
	p.PackAddress(ObjectID{})
	p.PackUint64(1)
	p.PackLen(2)
	p.PackString("b")
	p.PackBytes([]byte{0x01})
	p.PackString("b")
	p.PackBytes([]byte{0x02})
	p.PackLen(0)
	p.PackLen(0)
	require.NoError(p.Err())

	r := codec.NewReader(p.Bytes(), -1)
	_, err := unmarshalMovePackage(r)
	require.ErrorIs(err, ErrNonCanonicalMap)
}

func TestLinkageTableNonCanonicalOrderRejected(t *testing.T) {
	require := require.New(t)

	p := codec.NewWriter(initialEncodeSize, -1)
	p.PackAddress(ObjectID{})
	p.PackUint64(1)
	p.PackLen(0)
	p.PackLen(0)
	p.PackLen(2)
	p.PackAddress(ObjectID{0x02})
	p.PackAddress(ObjectID{0x0a})
	p.PackUint64(1)
	p.PackAddress(ObjectID{0x01})
	p.PackAddress(ObjectID{0x0b})
	p.PackUint64(2)
	require.NoError(p.Err())

	r := codec.NewReader(p.Bytes(), -1)
	_, err := unmarshalMovePackage(r)
	require.ErrorIs(err, ErrNonCanonicalMap)
}

func TestOwnerJSON(t *testing.T) {
	tests := []struct {
		name  string
		owner Owner
		want  string
	}{
		{
			name:  "address",
			owner: AddressOwner{Address: codec.Address{0xaa}},
			want:  `{"type": "address", "address": "0xaa00000000000000000000000000000000000000000000000000000000000000"}`,
		},
		{
			name:  "object",
			owner: ObjectOwner{ObjectID: ObjectID{0xbb}},
			want:  `{"type": "object", "object_id": "0xbb00000000000000000000000000000000000000000000000000000000000000"}`,
		},
		{
			name:  "shared",
			owner: SharedOwner{InitialSharedVersion: 7},
			want:  `{"type": "shared", "initial_shared_version": "7"}`,
		},
		{
			name:  "immutable",
			owner: ImmutableOwner{},
			want:  `{"type": "immutable"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			raw, err := json.Marshal(tt.owner)
			require.NoError(err)
			require.JSONEq(tt.want, string(raw))

			parsed, err := unmarshalOwnerJSON(raw)
			require.NoError(err)
			require.Equal(tt.owner, parsed)
		})
	}
}

func TestGenesisObjectJSON(t *testing.T) {
	require := require.New(t)

	object := GenesisObject{Data: testMoveStruct(t), Owner: AddressOwner{Address: codec.Address{0xaa}}}
	want := `{
		"type": "raw_object",
		"data": {
			"struct": {
				"type": "0x0000000000000000000000000000000000000000000000000000000000000002::coin::Coin",
				"has_public_transfer": true,
				"version": "1",
				"contents": "3q0="
			}
		},
		"owner": {"type": "address", "address": "0xaa00000000000000000000000000000000000000000000000000000000000000"}
	}`

	raw, err := json.Marshal(object)
	require.NoError(err)
	require.JSONEq(want, string(raw))

	object = GenesisObject{Data: testMovePackage(), Owner: ImmutableOwner{}}
	want = `{
		"type": "raw_object",
		"data": {
			"package": {
				"id": "0x0200000000000000000000000000000000000000000000000000000000000000",
				"version": "3",
				"modules": {"aa": "AQ==", "b": "Ag=="},
				"type_origin_table": [{
					"module_name": "coin",
					"struct_name": "Coin",
					"package": "0x0200000000000000000000000000000000000000000000000000000000000000"
				}],
				"linkage_table": {
					"0x0100000000000000000000000000000000000000000000000000000000000000": {
						"upgraded_id": "0x0900000000000000000000000000000000000000000000000000000000000000",
						"upgraded_version": "4"
					}
				}
			}
		},
		"owner": {"type": "immutable"}
	}`

	raw, err = json.Marshal(object)
	require.NoError(err)
	require.JSONEq(want, string(raw))
}

func TestGenesisObjectUnknownVariant(t *testing.T) {
	require := require.New(t)

	r := codec.NewReader([]byte{0x01}, -1)
	_, err := unmarshalGenesisObject(r)
	require.ErrorIs(err, ErrUnknownVariant)

	var o GenesisObject
	err = json.Unmarshal([]byte(`{"type": "wrapped_object", "data": {}, "owner": {"type": "immutable"}}`), &o)
	require.ErrorIs(err, ErrUnknownVariant)

	_, err = unmarshalObjectDataJSON([]byte(`{"code": {}}`))
	require.ErrorIs(err, ErrUnknownVariant)

	_, err = unmarshalOwnerJSON([]byte(`{"type": "frozen"}`))
	require.ErrorIs(err, ErrUnknownVariant)
}
