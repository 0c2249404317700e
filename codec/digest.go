// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/ava-labs/movesdk/consts"
)

const DigestLen = consts.DigestLen

// Digest is a 32 byte hash. Its display form is base58 with the
// bitcoin alphabet, so the zero digest reads as 32 ones.
type Digest [DigestLen]byte

var EmptyDigest = Digest{}

// DigestFromBase58 parses the display form of a digest.
func DigestFromBase58(s string) (Digest, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return EmptyDigest, err
	}
	if len(b) != DigestLen {
		return EmptyDigest, fmt.Errorf("%w: %d bytes", ErrInvalidSize, len(b))
	}
	var d Digest
	copy(d[:], b)
	return d, nil
}

// DigestFromBytes converts exactly [DigestLen] bytes to a Digest.
func DigestFromBytes(b []byte) (Digest, error) {
	if len(b) != DigestLen {
		return EmptyDigest, fmt.Errorf("%w: %d bytes", ErrInvalidSize, len(b))
	}
	var d Digest
	copy(d[:], b)
	return d, nil
}

// String implements fmt.Stringer.
func (d Digest) String() string {
	return base58.Encode(d[:])
}

// MarshalText returns the base58 representation of d.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a base58-encoded digest.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := DigestFromBase58(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
