// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codectest

import (
	"crypto/rand"

	"github.com/ava-labs/movesdk/codec"
)

// NewRandomAddress returns a random address
// for use during testing
func NewRandomAddress() (codec.Address, error) {
	b := make([]byte, codec.AddressLen)
	if _, err := rand.Read(b); err != nil {
		return codec.EmptyAddress, err
	}
	return codec.AddressFromBytes(b)
}

// NewRandomDigest returns a random digest
// for use during testing
func NewRandomDigest() (codec.Digest, error) {
	b := make([]byte, codec.DigestLen)
	if _, err := rand.Read(b); err != nil {
		return codec.EmptyDigest, err
	}
	return codec.DigestFromBytes(b)
}
