// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// Intent is the three byte signing context bound into every signature:
// what is being signed, the context schema version, and the application
// domain.
type Intent struct {
	Scope   byte
	Version byte
	AppID   byte
}

// TransactionIntent is the only intent accepted for user transactions.
var TransactionIntent = Intent{Scope: 0, Version: 0, AppID: 0}

func (i Intent) marshal(p *codec.Packer) {
	p.PackByte(i.Scope)
	p.PackByte(i.Version)
	p.PackByte(i.AppID)
}

func unmarshalIntent(p *codec.Packer) (Intent, error) {
	var i Intent
	i.Scope = p.UnpackByte()
	i.Version = p.UnpackByte()
	i.AppID = p.UnpackByte()
	return i, p.Err()
}

// UserSignature is an opaque signature blob: a scheme flag followed by
// the signature and the signer's public key. The auth package constructs
// and verifies these.
type UserSignature codec.Bytes

func (s UserSignature) String() string {
	return codec.Bytes(s).String()
}

func (s UserSignature) MarshalText() ([]byte, error) {
	return codec.Bytes(s).MarshalText()
}

func (s *UserSignature) UnmarshalText(text []byte) error {
	return (*codec.Bytes)(s).UnmarshalText(text)
}

// SignedTransaction pairs a transaction with the signatures authorizing
// it.
type SignedTransaction struct {
	Transaction Transaction
	Signatures  []UserSignature
}

// Marshal appends the canonical binary envelope: the singleton sequence
// wrapper, the signing intent, the transaction, and the signatures.
func (s *SignedTransaction) Marshal(p *codec.Packer) {
	p.PackUleb(1)
	TransactionIntent.marshal(p)
	s.Transaction.Marshal(p)
	p.PackLen(len(s.Signatures))
	for _, sig := range s.Signatures {
		p.PackBytes(sig)
	}
}

// UnmarshalSignedTransaction reads the canonical binary envelope. The
// sequence wrapper must hold exactly one entry and the intent must be
// [TransactionIntent].
func UnmarshalSignedTransaction(p *codec.Packer) (*SignedTransaction, error) {
	count := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	if count != 1 {
		return nil, fmt.Errorf("%w: %d sender signed transactions", ErrMalformedEnvelope, count)
	}
	intent, err := unmarshalIntent(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if intent != TransactionIntent {
		return nil, fmt.Errorf(
			"%w: scope %d version %d app %d",
			ErrInvalidIntent, intent.Scope, intent.Version, intent.AppID,
		)
	}
	tx, err := UnmarshalTransaction(p)
	if err != nil {
		return nil, err
	}
	sigCount := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	sigs := make([]UserSignature, 0, sigCount)
	for i := 0; i < sigCount; i++ {
		var b []byte
		p.UnpackBytes(-1, &b)
		if err := p.Err(); err != nil {
			return nil, err
		}
		sigs = append(sigs, UserSignature(b))
	}
	return &SignedTransaction{Transaction: *tx, Signatures: sigs}, nil
}

// MarshalJSON presents the transaction fields with the signatures
// merged in beside them. The intent wrapper is a binary-only concern.
func (s *SignedTransaction) MarshalJSON() ([]byte, error) {
	tx, err := json.Marshal(&s.Transaction)
	if err != nil {
		return nil, err
	}
	sigs, err := json.Marshal(struct {
		Signatures []UserSignature `json:"signatures"`
	}{Signatures: nonNil(s.Signatures)})
	if err != nil {
		return nil, err
	}
	return mergeJSONObjects(tx, sigs)
}

func (s *SignedTransaction) UnmarshalJSON(b []byte) error {
	var tx Transaction
	if err := json.Unmarshal(b, &tx); err != nil {
		return err
	}
	var v struct {
		Signatures []UserSignature `json:"signatures"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: signatures: %v", ErrMalformedScalar, err)
	}
	s.Transaction = tx
	s.Signatures = nonNil(v.Signatures)
	return nil
}
