// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"bytes"
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// nonNil keeps empty sequences encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// nonNilMap keeps empty maps encoding as {} rather than null.
func nonNilMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}

// base64Slice views raw module bytes as their base64 display type.
func base64Slice(raw [][]byte) []codec.Bytes {
	out := make([]codec.Bytes, 0, len(raw))
	for _, b := range raw {
		out = append(out, codec.Bytes(b))
	}
	return out
}

func rawSlice(encoded []codec.Bytes) [][]byte {
	out := make([][]byte, 0, len(encoded))
	for _, b := range encoded {
		out = append(out, []byte(b))
	}
	return out
}

// mergeJSONObjects splices the fields of already-encoded JSON objects
// into a single object, preserving part order. Inputs must be the
// output of json.Marshal (a top-level object with no surrounding
// whitespace).
func mergeJSONObjects(parts ...[]byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	wrote := false
	for _, part := range parts {
		if len(part) < 2 || part[0] != '{' || part[len(part)-1] != '}' {
			return nil, fmt.Errorf("%w: merging non-object JSON", ErrMalformedScalar)
		}
		inner := part[1 : len(part)-1]
		if len(inner) == 0 {
			continue
		}
		if wrote {
			buf.WriteByte(',')
		}
		buf.Write(inner)
		wrote = true
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
