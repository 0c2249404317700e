// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// The binary form of a transaction input is a two-level sum: pure
// values sit at the top level while the three object flavors share a
// single top-level variant with their own nested discriminant. The
// display form flattens all four into one "type" tag, so the two
// shapes are mapped variant by variant here instead of being derived
// from one declaration.
const (
	pureCallArg uint64 = iota
	objectCallArg
)

const (
	immutableOrOwnedObjectArg uint64 = iota
	sharedObjectArg
	receivingObjectArg
)

// TransactionInput is a value declared in a programmable
// transaction's input list.
type TransactionInput interface {
	json.Marshaler

	inputName() string
}

// Pure is an input supplied as raw serialized bytes.
type Pure struct {
	Value []byte
}

// ImmutableOrOwned is an object input owned by the sender or frozen.
type ImmutableOrOwned struct {
	ObjectReference
}

// Shared is a consensus-managed object input.
type Shared struct {
	ObjectID             ObjectID
	InitialSharedVersion uint64
	Mutable              bool
}

// Receiving is an object input to be received by another object.
type Receiving struct {
	ObjectReference
}

func (Pure) inputName() string             { return "pure" }
func (ImmutableOrOwned) inputName() string { return "immutable_or_owned" }
func (Shared) inputName() string           { return "shared" }
func (Receiving) inputName() string        { return "receiving" }

func marshalTransactionInput(p *codec.Packer, in TransactionInput) {
	switch v := in.(type) {
	case Pure:
		p.PackUleb(pureCallArg)
		p.PackBytes(v.Value)
	case ImmutableOrOwned:
		p.PackUleb(objectCallArg)
		p.PackUleb(immutableOrOwnedObjectArg)
		v.ObjectReference.marshal(p)
	case Shared:
		p.PackUleb(objectCallArg)
		p.PackUleb(sharedObjectArg)
		p.PackAddress(v.ObjectID)
		p.PackUint64(v.InitialSharedVersion)
		p.PackBool(v.Mutable)
	case Receiving:
		p.PackUleb(objectCallArg)
		p.PackUleb(receivingObjectArg)
		v.ObjectReference.marshal(p)
	default:
		p.SetErr(fmt.Errorf("%w: input %T", ErrUnknownVariant, in))
	}
}

func unmarshalTransactionInput(p *codec.Packer) (TransactionInput, error) {
	kind := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case pureCallArg:
		var in Pure
		p.UnpackBytes(-1, &in.Value)
		return in, p.Err()
	case objectCallArg:
		return unmarshalObjectInput(p)
	default:
		return nil, fmt.Errorf("%w: input %d", ErrUnknownVariant, kind)
	}
}

func unmarshalObjectInput(p *codec.Packer) (TransactionInput, error) {
	kind := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case immutableOrOwnedObjectArg:
		ref, err := unmarshalObjectReference(p)
		if err != nil {
			return nil, err
		}
		return ImmutableOrOwned{ObjectReference: ref}, nil
	case sharedObjectArg:
		var in Shared
		p.UnpackAddress(&in.ObjectID)
		in.InitialSharedVersion = p.UnpackUint64()
		in.Mutable = p.UnpackBool()
		return in, p.Err()
	case receivingObjectArg:
		ref, err := unmarshalObjectReference(p)
		if err != nil {
			return nil, err
		}
		return Receiving{ObjectReference: ref}, nil
	default:
		return nil, fmt.Errorf("%w: object input %d", ErrUnknownVariant, kind)
	}
}

func (in Pure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string      `json:"type"`
		Value codec.Bytes `json:"value"`
	}{Type: "pure", Value: in.Value})
}

func (in ImmutableOrOwned) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string       `json:"type"`
		ObjectID ObjectID     `json:"object_id"`
		Version  uint64       `json:"version,string"`
		Digest   codec.Digest `json:"digest"`
	}{Type: "immutable_or_owned", ObjectID: in.ObjectID, Version: in.Version, Digest: in.Digest})
}

func (in Shared) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type                 string   `json:"type"`
		ObjectID             ObjectID `json:"object_id"`
		InitialSharedVersion uint64   `json:"initial_shared_version,string"`
		Mutable              bool     `json:"mutable"`
	}{Type: "shared", ObjectID: in.ObjectID, InitialSharedVersion: in.InitialSharedVersion, Mutable: in.Mutable})
}

func (in Receiving) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string       `json:"type"`
		ObjectID ObjectID     `json:"object_id"`
		Version  uint64       `json:"version,string"`
		Digest   codec.Digest `json:"digest"`
	}{Type: "receiving", ObjectID: in.ObjectID, Version: in.Version, Digest: in.Digest})
}

func unmarshalTransactionInputJSON(raw json.RawMessage) (TransactionInput, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: input: %v", ErrMalformedScalar, err)
	}
	switch probe.Type {
	case "pure":
		var v struct {
			Value codec.Bytes `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: pure input: %v", ErrMalformedScalar, err)
		}
		return Pure{Value: v.Value}, nil
	case "immutable_or_owned":
		ref, err := unmarshalObjectReferenceJSON(raw)
		if err != nil {
			return nil, err
		}
		return ImmutableOrOwned{ObjectReference: ref}, nil
	case "shared":
		var v struct {
			ObjectID             ObjectID `json:"object_id"`
			InitialSharedVersion uint64   `json:"initial_shared_version,string"`
			Mutable              bool     `json:"mutable"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: shared input: %v", ErrMalformedScalar, err)
		}
		return Shared{ObjectID: v.ObjectID, InitialSharedVersion: v.InitialSharedVersion, Mutable: v.Mutable}, nil
	case "receiving":
		ref, err := unmarshalObjectReferenceJSON(raw)
		if err != nil {
			return nil, err
		}
		return Receiving{ObjectReference: ref}, nil
	default:
		return nil, fmt.Errorf("%w: input %q", ErrUnknownVariant, probe.Type)
	}
}

func marshalTransactionInputs(p *codec.Packer, inputs []TransactionInput) {
	p.PackLen(len(inputs))
	for _, in := range inputs {
		marshalTransactionInput(p, in)
	}
}

func unmarshalTransactionInputs(p *codec.Packer) ([]TransactionInput, error) {
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	inputs := make([]TransactionInput, 0, count)
	for i := 0; i < count; i++ {
		in, err := unmarshalTransactionInput(p)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func unmarshalTransactionInputsJSON(raws []json.RawMessage) ([]TransactionInput, error) {
	inputs := make([]TransactionInput, 0, len(raws))
	for _, raw := range raws {
		in, err := unmarshalTransactionInputJSON(raw)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
