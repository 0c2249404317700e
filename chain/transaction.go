// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// ObjectID names an on-chain object. Objects live in the same 32 byte
// identifier space as accounts.
type ObjectID = codec.Address

// transactionV1 is the only schema version in use. The discriminant
// is reserved in both wire forms so a future version can be added
// without breaking existing decoders.
const transactionV1 uint64 = 0

const transactionVersionName = "1"

// Transaction is the unsigned transaction payload.
type Transaction struct {
	Kind       TransactionKind
	Sender     codec.Address
	GasPayment GasPayment
	Expiration TransactionExpiration
}

// Marshal appends the canonical binary form of t.
func (t *Transaction) Marshal(p *codec.Packer) {
	p.PackUleb(transactionV1)
	marshalTransactionKind(p, t.Kind)
	p.PackAddress(t.Sender)
	t.GasPayment.marshal(p)
	t.Expiration.marshal(p)
}

// UnmarshalTransaction reads the canonical binary form of a
// transaction.
func UnmarshalTransaction(p *codec.Packer) (*Transaction, error) {
	version := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	if version != transactionV1 {
		return nil, fmt.Errorf("%w: transaction version %d", ErrUnknownVariant, version)
	}
	kind, err := unmarshalTransactionKind(p)
	if err != nil {
		return nil, err
	}
	t := &Transaction{Kind: kind}
	p.UnpackAddress(&t.Sender)
	payment, err := unmarshalGasPayment(p)
	if err != nil {
		return nil, err
	}
	t.GasPayment = payment
	expiration, err := unmarshalTransactionExpiration(p)
	if err != nil {
		return nil, err
	}
	t.Expiration = expiration
	return t, nil
}

// MarshalJSON presents the version tag, the kind fields, and the
// transaction's own fields merged into one flat object.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	version, err := json.Marshal(struct {
		Version string `json:"version"`
	}{Version: transactionVersionName})
	if err != nil {
		return nil, err
	}
	kind, err := json.Marshal(t.Kind)
	if err != nil {
		return nil, err
	}
	rest, err := json.Marshal(struct {
		Sender     codec.Address         `json:"sender"`
		GasPayment GasPayment            `json:"gas_payment"`
		Expiration TransactionExpiration `json:"expiration"`
	}{Sender: t.Sender, GasPayment: t.GasPayment, Expiration: t.Expiration})
	if err != nil {
		return nil, err
	}
	return mergeJSONObjects(version, kind, rest)
}

func (t *Transaction) UnmarshalJSON(b []byte) error {
	var probe struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return fmt.Errorf("%w: transaction: %v", ErrMalformedScalar, err)
	}
	if probe.Version != transactionVersionName {
		return fmt.Errorf("%w: transaction version %q", ErrUnknownVariant, probe.Version)
	}
	kind, err := unmarshalTransactionKindJSON(b)
	if err != nil {
		return err
	}
	var rest struct {
		Sender     codec.Address         `json:"sender"`
		GasPayment GasPayment            `json:"gas_payment"`
		Expiration TransactionExpiration `json:"expiration"`
	}
	if err := json.Unmarshal(b, &rest); err != nil {
		return fmt.Errorf("%w: transaction: %v", ErrMalformedScalar, err)
	}
	t.Kind = kind
	t.Sender = rest.Sender
	t.GasPayment = rest.GasPayment
	t.Expiration = rest.Expiration
	return nil
}

// GasPayment funds transaction execution.
type GasPayment struct {
	Objects []ObjectReference
	Owner   codec.Address
	Price   uint64
	Budget  uint64
}

func (g GasPayment) marshal(p *codec.Packer) {
	p.PackLen(len(g.Objects))
	for _, ref := range g.Objects {
		ref.marshal(p)
	}
	p.PackAddress(g.Owner)
	p.PackUint64(g.Price)
	p.PackUint64(g.Budget)
}

func unmarshalGasPayment(p *codec.Packer) (GasPayment, error) {
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return GasPayment{}, err
	}
	g := GasPayment{Objects: make([]ObjectReference, 0, count)}
	for i := 0; i < count; i++ {
		ref, err := unmarshalObjectReference(p)
		if err != nil {
			return GasPayment{}, err
		}
		g.Objects = append(g.Objects, ref)
	}
	p.UnpackAddress(&g.Owner)
	g.Price = p.UnpackUint64()
	g.Budget = p.UnpackUint64()
	return g, p.Err()
}

func (g GasPayment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Objects []ObjectReference `json:"objects"`
		Owner   codec.Address     `json:"owner"`
		Price   uint64            `json:"price,string"`
		Budget  uint64            `json:"budget,string"`
	}{Objects: nonNil(g.Objects), Owner: g.Owner, Price: g.Price, Budget: g.Budget})
}

func (g *GasPayment) UnmarshalJSON(b []byte) error {
	var v struct {
		Objects []ObjectReference `json:"objects"`
		Owner   codec.Address     `json:"owner"`
		Price   uint64            `json:"price,string"`
		Budget  uint64            `json:"budget,string"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: gas payment: %v", ErrMalformedScalar, err)
	}
	g.Objects = nonNil(v.Objects)
	g.Owner = v.Owner
	g.Price = v.Price
	g.Budget = v.Budget
	return nil
}

// ObjectReference pins an object at a specific version.
type ObjectReference struct {
	ObjectID ObjectID
	Version  uint64
	Digest   codec.Digest
}

func (r ObjectReference) marshal(p *codec.Packer) {
	p.PackAddress(r.ObjectID)
	p.PackUint64(r.Version)
	p.PackDigest(r.Digest)
}

func unmarshalObjectReference(p *codec.Packer) (ObjectReference, error) {
	var r ObjectReference
	p.UnpackAddress(&r.ObjectID)
	r.Version = p.UnpackUint64()
	p.UnpackDigest(&r.Digest)
	return r, p.Err()
}

func (r ObjectReference) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ObjectID ObjectID     `json:"object_id"`
		Version  uint64       `json:"version,string"`
		Digest   codec.Digest `json:"digest"`
	}{ObjectID: r.ObjectID, Version: r.Version, Digest: r.Digest})
}

func (r *ObjectReference) UnmarshalJSON(b []byte) error {
	var v struct {
		ObjectID ObjectID     `json:"object_id"`
		Version  uint64       `json:"version,string"`
		Digest   codec.Digest `json:"digest"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: object reference: %v", ErrMalformedScalar, err)
	}
	r.ObjectID = v.ObjectID
	r.Version = v.Version
	r.Digest = v.Digest
	return nil
}

func unmarshalObjectReferenceJSON(raw json.RawMessage) (ObjectReference, error) {
	var r ObjectReference
	if err := json.Unmarshal(raw, &r); err != nil {
		return ObjectReference{}, err
	}
	return r, nil
}

// TransactionExpiration is either no expiration or a final epoch
// after which the transaction is invalid.
type TransactionExpiration struct {
	Epoch *uint64
}

// ExpireAt returns an expiration at the given epoch.
func ExpireAt(epoch uint64) TransactionExpiration {
	return TransactionExpiration{Epoch: &epoch}
}

func (e TransactionExpiration) marshal(p *codec.Packer) {
	if e.Epoch == nil {
		p.PackUleb(0)
		return
	}
	p.PackUleb(1)
	p.PackUint64(*e.Epoch)
}

func unmarshalTransactionExpiration(p *codec.Packer) (TransactionExpiration, error) {
	kind := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return TransactionExpiration{}, err
	}
	switch kind {
	case 0:
		return TransactionExpiration{}, nil
	case 1:
		epoch := p.UnpackUint64()
		if err := p.Err(); err != nil {
			return TransactionExpiration{}, err
		}
		return ExpireAt(epoch), nil
	default:
		return TransactionExpiration{}, fmt.Errorf("%w: expiration %d", ErrUnknownVariant, kind)
	}
}

func (e TransactionExpiration) MarshalJSON() ([]byte, error) {
	if e.Epoch == nil {
		return json.Marshal("none")
	}
	return json.Marshal(struct {
		Epoch uint64 `json:"epoch"`
	}{Epoch: *e.Epoch})
}

func (e *TransactionExpiration) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		if name != "none" {
			return fmt.Errorf("%w: expiration %q", ErrUnknownVariant, name)
		}
		e.Epoch = nil
		return nil
	}
	var v struct {
		Epoch *uint64 `json:"epoch"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: expiration: %v", ErrMalformedScalar, err)
	}
	if v.Epoch == nil {
		return fmt.Errorf("%w: expiration missing epoch", ErrMalformedScalar)
	}
	e.Epoch = v.Epoch
	return nil
}

func marshalObjectIDs(p *codec.Packer, ids []ObjectID) {
	p.PackLen(len(ids))
	for _, id := range ids {
		p.PackAddress(id)
	}
}

func unmarshalObjectIDs(p *codec.Packer) ([]ObjectID, error) {
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	ids := make([]ObjectID, 0, count)
	for i := 0; i < count; i++ {
		var id ObjectID
		p.UnpackAddress(&id)
		ids = append(ids, id)
	}
	return ids, p.Err()
}

func marshalByteSlices(p *codec.Packer, slices [][]byte) {
	p.PackLen(len(slices))
	for _, b := range slices {
		p.PackBytes(b)
	}
}

func unmarshalByteSlices(p *codec.Packer) ([][]byte, error) {
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	out := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		var b []byte
		p.UnpackBytes(-1, &b)
		if err := p.Err(); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
