// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"golang.org/x/crypto/blake2b"

	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/consts"
)

// Digest salts. Each hashed type gets its own domain so a digest of one
// type can never collide with a digest of another.
const (
	transactionDigestSalt       = "TransactionData::"
	signedTransactionDigestSalt = "SenderSignedData::"
)

func saltedDigest(salt string, payload []byte) codec.Digest {
	pre := make([]byte, 0, len(salt)+len(payload))
	pre = append(pre, salt...)
	pre = append(pre, payload...)
	return codec.Digest(blake2b.Sum256(pre))
}

// Digest returns the identifier of the transaction: Blake2b-256 over
// the salted canonical binary form.
func (t *Transaction) Digest() (codec.Digest, error) {
	p := codec.NewWriter(initialEncodeSize, consts.MaxWireSize)
	t.Marshal(p)
	if err := p.Err(); err != nil {
		return codec.Digest{}, err
	}
	return saltedDigest(transactionDigestSalt, p.Bytes()), nil
}

// SigningDigest returns the pre-image hash that signature schemes sign:
// Blake2b-256 over the intent bytes followed by the canonical binary
// form.
func (t *Transaction) SigningDigest() ([32]byte, error) {
	p := codec.NewWriter(initialEncodeSize, consts.MaxWireSize)
	TransactionIntent.marshal(p)
	t.Marshal(p)
	if err := p.Err(); err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(p.Bytes()), nil
}

// Digest returns the identifier of the signed transaction: Blake2b-256
// over the salted canonical envelope.
func (s *SignedTransaction) Digest() (codec.Digest, error) {
	p := codec.NewWriter(initialEncodeSize, consts.MaxWireSize)
	s.Marshal(p)
	if err := p.Err(); err != nil {
		return codec.Digest{}, err
	}
	return saltedDigest(signedTransactionDigestSalt, p.Bytes()), nil
}
