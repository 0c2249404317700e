// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import "errors"

var (
	ErrInvalidSignatureScheme = errors.New("invalid signature scheme")
	ErrInvalidSignatureSize   = errors.New("invalid signature size")
	ErrInvalidKeyType         = errors.New("invalid key type")
	ErrInvalidPrivateKeySize  = errors.New("invalid private key size")
	ErrNoSignatures           = errors.New("no signatures")
)
