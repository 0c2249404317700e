// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	ErrTooLarge          = errors.New("size limit exceeded")
	ErrInsufficientBytes = errors.New("insufficient bytes")
	ErrTrailingBytes     = errors.New("trailing bytes")
	ErrInvalidBool       = errors.New("invalid boolean byte")
	ErrNonCanonicalUleb  = errors.New("non-canonical uleb128")
	ErrUlebOverflow      = errors.New("uleb128 overflows 64 bits")
	ErrInvalidLength     = errors.New("invalid length")
	ErrInvalidSize       = errors.New("invalid size")
)
