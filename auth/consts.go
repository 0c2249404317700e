// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

// Scheme flags. The first byte of every signature blob names the scheme
// that produced it, and address derivation binds the same byte so keys
// under different schemes never collide on an address.
const (
	Ed25519Flag   uint8 = 0x00
	Secp256k1Flag uint8 = 0x01
	Secp256r1Flag uint8 = 0x02

	// Reserved by the protocol for composite schemes. Blobs carrying
	// them are rejected here with [ErrInvalidSignatureScheme].
	MultisigFlag uint8 = 0x03
	ZkLoginFlag  uint8 = 0x05

	Ed25519Key   = "ed25519"
	Secp256k1Key = "secp256k1"
	Secp256r1Key = "secp256r1"
)
