// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrUnknownVariant    = errors.New("unknown variant")
	ErrMalformedScalar   = errors.New("malformed scalar")
	ErrInvalidIntent     = errors.New("invalid intent context")
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidTypeTag    = errors.New("invalid type tag")
	ErrInvalidMode       = errors.New("invalid codec mode")
	ErrNonCanonicalMap   = errors.New("map keys out of canonical order")
)
