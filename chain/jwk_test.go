// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/movesdk/codec"
)

func TestActiveJwkBinaryLayout(t *testing.T) {
	require := require.New(t)

	jwk := ActiveJwk{
		JwkID: JwkID{Iss: "is", Kid: "ki"},
		Jwk:   Jwk{Kty: "kt", E: "e", N: "n", Alg: "al"},
		Epoch: 9,
	}

	p := codec.NewWriter(64, -1)
	jwk.marshal(p)
	require.NoError(p.Err())

	want := []byte{
		0x02, 'i', 's',
		0x02, 'k', 'i',
		0x02, 'k', 't',
		0x01, 'e',
		0x01, 'n',
		0x02, 'a', 'l',
		9, 0, 0, 0, 0, 0, 0, 0,
	}
	require.Equal(want, p.Bytes())

	r := codec.NewReader(p.Bytes(), -1)
	parsed, err := unmarshalActiveJwk(r)
	require.NoError(err)
	require.Equal(jwk, parsed)
	require.True(r.Empty())
}

func TestActiveJwkJSON(t *testing.T) {
	require := require.New(t)

	jwk := testActiveJwk()
	raw, err := json.Marshal(jwk)
	require.NoError(err)
	require.JSONEq(`{
		"jwk_id": {"iss": "https://accounts.google.com", "kid": "k1"},
		"jwk": {"kty": "RSA", "e": "AQAB", "n": "n-value", "alg": "RS256"},
		"epoch": "1"
	}`, string(raw))

	var parsed ActiveJwk
	require.NoError(json.Unmarshal(raw, &parsed))
	require.Equal(jwk, parsed)
}
