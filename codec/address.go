// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/ava-labs/movesdk/consts"
)

const AddressLen = consts.AddressLen

// Address is the 32 byte identifier for accounts and objects.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// AddressFromHex parses a hex-encoded address. The "0x" prefix is
// optional and short forms are left-padded with zeros, so "0x2" and
// the full 64 character form name the same address.
func AddressFromHex(s string) (Address, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) == 0 || len(s) > AddressLen*2 {
		return EmptyAddress, fmt.Errorf("%w: %d hex characters", ErrInvalidSize, len(s))
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return EmptyAddress, err
	}
	var a Address
	copy(a[AddressLen-len(b):], b)
	return a, nil
}

// AddressFromBytes converts exactly [AddressLen] bytes to an Address.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLen {
		return EmptyAddress, fmt.Errorf("%w: %d bytes", ErrInvalidSize, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// String returns the canonical display form: "0x" followed by the
// full-width lowercase hex encoding.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText returns the canonical display form of a.
func (a Address) MarshalText() ([]byte, error) {
	result := make([]byte, AddressLen*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], a[:])
	return result, nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := AddressFromHex(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
