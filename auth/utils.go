// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"github.com/ava-labs/movesdk/crypto/ed25519"
	"github.com/ava-labs/movesdk/crypto/secp256k1"
	"github.com/ava-labs/movesdk/crypto/secp256r1"
)

// GetFactory returns the [Factory] for a given private key.
func GetFactory(pk *PrivateKey) (Factory, error) {
	switch pk.Scheme {
	case Ed25519Flag:
		if len(pk.Bytes) != ed25519.PrivateKeyLen {
			return nil, ErrInvalidPrivateKeySize
		}
		return NewEd25519Factory(ed25519.PrivateKey(pk.Bytes)), nil
	case Secp256k1Flag:
		if len(pk.Bytes) != secp256k1.PrivateKeyLen {
			return nil, ErrInvalidPrivateKeySize
		}
		return NewSecp256k1Factory(secp256k1.PrivateKey(pk.Bytes)), nil
	case Secp256r1Flag:
		if len(pk.Bytes) != secp256r1.PrivateKeyLen {
			return nil, ErrInvalidPrivateKeySize
		}
		return NewSecp256r1Factory(secp256r1.PrivateKey(pk.Bytes)), nil
	default:
		return nil, ErrInvalidKeyType
	}
}

// GetPrivateKeyFactory maps a scheme name to its key factory.
func GetPrivateKeyFactory(scheme string) (PrivateKeyFactory, error) {
	switch scheme {
	case Ed25519Key:
		return NewEd25519PrivateKeyFactory(), nil
	case Secp256k1Key:
		return NewSecp256k1PrivateKeyFactory(), nil
	case Secp256r1Key:
		return NewSecp256r1PrivateKeyFactory(), nil
	default:
		return nil, ErrInvalidKeyType
	}
}
