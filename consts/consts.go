// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	AddressLen = 32
	DigestLen  = 32

	MaxUint8  = ^uint8(0)
	MaxUint16 = ^uint16(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)
	MaxUint64 = ^uint64(0)

	BoolLen   = 1
	ByteLen   = 1
	Uint16Len = 2
	Uint32Len = 4
	Uint64Len = 8

	// MaxUlebLen is the longest accepted uleb128 encoding of a uint64.
	MaxUlebLen = 10

	// MaxWireSize bounds a single decoded wire payload.
	MaxWireSize = 2 * 1024 * 1024
)
