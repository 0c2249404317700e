// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "encoding/base64"

// Bytes is a byte slice whose text form is standard base64, the
// display convention for opaque payloads.
type Bytes []byte

func (b Bytes) String() string {
	return base64.StdEncoding.EncodeToString(b)
}

// MarshalText returns the base64 representation of b.
func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText sets b to the bytes represented by text.
func (b *Bytes) UnmarshalText(text []byte) error {
	decoded, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}
