// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesJSON(t *testing.T) {
	require := require.New(t)
	b := Bytes{0, 1, 2, 0xff}

	bytesJSON, err := json.Marshal(b)
	require.NoError(err)
	require.Equal(`"AAEC/w=="`, string(bytesJSON))

	var parsed Bytes
	require.NoError(json.Unmarshal(bytesJSON, &parsed))
	require.Equal(b, parsed)
}

func TestBytesRejectsBadBase64(t *testing.T) {
	require := require.New(t)
	var parsed Bytes
	require.Error(json.Unmarshal([]byte(`"!!!"`), &parsed))
}
