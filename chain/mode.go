// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/movesdk/codec"
	"github.com/ava-labs/movesdk/consts"
)

// Mode selects a wire representation. It is supplied per call and never
// stored in a value.
type Mode uint8

const (
	// Binary is the canonical positional encoding.
	Binary Mode = iota
	// Textual is the self-describing JSON encoding.
	Textual
)

const initialEncodeSize = 256

func (m Mode) String() string {
	switch m {
	case Binary:
		return "binary"
	case Textual:
		return "textual"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// EncodeTransaction projects a transaction to the requested wire form.
func EncodeTransaction(mode Mode, t *Transaction) ([]byte, error) {
	switch mode {
	case Binary:
		p := codec.NewWriter(initialEncodeSize, consts.MaxWireSize)
		t.Marshal(p)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return p.Bytes(), nil
	case Textual:
		return json.Marshal(t)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
}

// DecodeTransaction reads a transaction from the requested wire form.
// Binary decoding rejects trailing bytes.
func DecodeTransaction(mode Mode, b []byte) (*Transaction, error) {
	switch mode {
	case Binary:
		p := codec.NewReader(b, consts.MaxWireSize)
		t, err := UnmarshalTransaction(p)
		if err != nil {
			return nil, err
		}
		if !p.Empty() {
			return nil, fmt.Errorf("%w: %d bytes after transaction", codec.ErrTrailingBytes, len(b)-p.Offset())
		}
		return t, nil
	case Textual:
		t := &Transaction{}
		if err := json.Unmarshal(b, t); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
}

// EncodeSignedTransaction projects a signed transaction to the
// requested wire form.
func EncodeSignedTransaction(mode Mode, s *SignedTransaction) ([]byte, error) {
	switch mode {
	case Binary:
		p := codec.NewWriter(initialEncodeSize, consts.MaxWireSize)
		s.Marshal(p)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return p.Bytes(), nil
	case Textual:
		return json.Marshal(s)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
}

// DecodeSignedTransaction reads a signed transaction from the requested
// wire form. Binary decoding rejects trailing bytes.
func DecodeSignedTransaction(mode Mode, b []byte) (*SignedTransaction, error) {
	switch mode {
	case Binary:
		p := codec.NewReader(b, consts.MaxWireSize)
		s, err := UnmarshalSignedTransaction(p)
		if err != nil {
			return nil, err
		}
		if !p.Empty() {
			return nil, fmt.Errorf("%w: %d bytes after envelope", codec.ErrTrailingBytes, len(b)-p.Offset())
		}
		return s, nil
	case Textual:
		s := &SignedTransaction{}
		if err := json.Unmarshal(b, s); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
}
