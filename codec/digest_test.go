// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigestZeroDisplay(t *testing.T) {
	require := require.New(t)
	require.Equal(strings.Repeat("1", 32), EmptyDigest.String())
}

func TestDigestText(t *testing.T) {
	require := require.New(t)
	d := Digest{0: 1, 31: 0xff}

	text, err := d.MarshalText()
	require.NoError(err)

	var parsed Digest
	require.NoError(parsed.UnmarshalText(text))
	require.Equal(d, parsed)
}

func TestDigestJSON(t *testing.T) {
	require := require.New(t)

	digestJSONBytes, err := json.Marshal(EmptyDigest)
	require.NoError(err)
	require.Equal(`"`+strings.Repeat("1", 32)+`"`, string(digestJSONBytes))

	var parsed Digest
	require.NoError(json.Unmarshal(digestJSONBytes, &parsed))
	require.Equal(EmptyDigest, parsed)
}

func TestDigestFromBase58Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "wrongLength",
			input: "11111111",
		},
		{
			// 0, I, O, and l are outside the bitcoin alphabet
			name:  "badAlphabet",
			input: strings.Repeat("0", 32),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			_, err := DigestFromBase58(test.input)
			require.Error(err)
		})
	}
}
