// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// Binary discriminants of the end of epoch command variants. ChangeEpoch
// sits at a different index here than it does in the transaction kind
// table, which is why neither union lets variants pack their own tag.
const (
	changeEpochEndOfEpochKind uint64 = iota
	authenticatorStateCreateEndOfEpochKind
	authenticatorStateExpireEndOfEpochKind
	randomnessStateCreateEndOfEpochKind
	denyListStateCreateEndOfEpochKind
	bridgeStateCreateEndOfEpochKind
	bridgeCommitteeInitEndOfEpochKind
)

// EndOfEpochTransactionKind is one operation of an [EndOfEpoch] bundle.
type EndOfEpochTransactionKind interface {
	json.Marshaler

	endOfEpochKindName() string
}

// AuthenticatorStateCreate instantiates the authenticator object.
type AuthenticatorStateCreate struct{}

// AuthenticatorStateExpire evicts JWKs older than MinEpoch.
type AuthenticatorStateExpire struct {
	MinEpoch                             uint64
	AuthenticatorObjInitialSharedVersion uint64
}

// RandomnessStateCreate instantiates the randomness object.
type RandomnessStateCreate struct{}

// DenyListStateCreate instantiates the per-coin deny list object.
type DenyListStateCreate struct{}

// BridgeStateCreate instantiates the bridge object for a chain.
type BridgeStateCreate struct {
	ChainID codec.Digest
}

// BridgeCommitteeInit records the version at which the bridge object
// received its committee.
type BridgeCommitteeInit struct {
	BridgeObjectVersion uint64
}

func (ChangeEpoch) endOfEpochKindName() string              { return "change_epoch" }
func (AuthenticatorStateCreate) endOfEpochKindName() string { return "authenticator_state_create" }
func (AuthenticatorStateExpire) endOfEpochKindName() string { return "authenticator_state_expire" }
func (RandomnessStateCreate) endOfEpochKindName() string    { return "randomness_state_create" }
func (DenyListStateCreate) endOfEpochKindName() string      { return "deny_list_state_create" }
func (BridgeStateCreate) endOfEpochKindName() string        { return "bridge_state_create" }
func (BridgeCommitteeInit) endOfEpochKindName() string      { return "bridge_committee_init" }

func marshalEndOfEpochKind(p *codec.Packer, k EndOfEpochTransactionKind) {
	switch v := k.(type) {
	case ChangeEpoch:
		p.PackUleb(changeEpochEndOfEpochKind)
		marshalChangeEpochFields(p, v)
	case AuthenticatorStateCreate:
		p.PackUleb(authenticatorStateCreateEndOfEpochKind)
	case AuthenticatorStateExpire:
		p.PackUleb(authenticatorStateExpireEndOfEpochKind)
		p.PackUint64(v.MinEpoch)
		p.PackUint64(v.AuthenticatorObjInitialSharedVersion)
	case RandomnessStateCreate:
		p.PackUleb(randomnessStateCreateEndOfEpochKind)
	case DenyListStateCreate:
		p.PackUleb(denyListStateCreateEndOfEpochKind)
	case BridgeStateCreate:
		p.PackUleb(bridgeStateCreateEndOfEpochKind)
		p.PackDigest(v.ChainID)
	case BridgeCommitteeInit:
		p.PackUleb(bridgeCommitteeInitEndOfEpochKind)
		p.PackUint64(v.BridgeObjectVersion)
	default:
		p.SetErr(fmt.Errorf("%w: end of epoch kind %T", ErrUnknownVariant, k))
	}
}

func unmarshalEndOfEpochKind(p *codec.Packer) (EndOfEpochTransactionKind, error) {
	kind := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case changeEpochEndOfEpochKind:
		v, err := unmarshalChangeEpochFields(p)
		if err != nil {
			return nil, err
		}
		return v, nil
	case authenticatorStateCreateEndOfEpochKind:
		return AuthenticatorStateCreate{}, nil
	case authenticatorStateExpireEndOfEpochKind:
		var v AuthenticatorStateExpire
		v.MinEpoch = p.UnpackUint64()
		v.AuthenticatorObjInitialSharedVersion = p.UnpackUint64()
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	case randomnessStateCreateEndOfEpochKind:
		return RandomnessStateCreate{}, nil
	case denyListStateCreateEndOfEpochKind:
		return DenyListStateCreate{}, nil
	case bridgeStateCreateEndOfEpochKind:
		var v BridgeStateCreate
		p.UnpackDigest(&v.ChainID)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	case bridgeCommitteeInitEndOfEpochKind:
		var v BridgeCommitteeInit
		v.BridgeObjectVersion = p.UnpackUint64()
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: end of epoch kind %d", ErrUnknownVariant, kind)
	}
}

func (AuthenticatorStateCreate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
	}{Kind: "authenticator_state_create"})
}

func (k AuthenticatorStateExpire) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind                                 string `json:"kind"`
		MinEpoch                             uint64 `json:"min_epoch,string"`
		AuthenticatorObjInitialSharedVersion uint64 `json:"authenticator_obj_initial_shared_version,string"`
	}{
		Kind:                                 "authenticator_state_expire",
		MinEpoch:                             k.MinEpoch,
		AuthenticatorObjInitialSharedVersion: k.AuthenticatorObjInitialSharedVersion,
	})
}

func (RandomnessStateCreate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
	}{Kind: "randomness_state_create"})
}

func (DenyListStateCreate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
	}{Kind: "deny_list_state_create"})
}

func (k BridgeStateCreate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string       `json:"kind"`
		ChainID codec.Digest `json:"chain_id"`
	}{Kind: "bridge_state_create", ChainID: k.ChainID})
}

func (k BridgeCommitteeInit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind                string `json:"kind"`
		BridgeObjectVersion uint64 `json:"bridge_object_version,string"`
	}{Kind: "bridge_committee_init", BridgeObjectVersion: k.BridgeObjectVersion})
}

func unmarshalEndOfEpochKindJSON(raw json.RawMessage) (EndOfEpochTransactionKind, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: end of epoch kind: %v", ErrMalformedScalar, err)
	}
	switch probe.Kind {
	case "change_epoch":
		return unmarshalChangeEpochJSON(raw)
	case "authenticator_state_create":
		return AuthenticatorStateCreate{}, nil
	case "authenticator_state_expire":
		var v struct {
			MinEpoch                             uint64 `json:"min_epoch,string"`
			AuthenticatorObjInitialSharedVersion uint64 `json:"authenticator_obj_initial_shared_version,string"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: authenticator_state_expire: %v", ErrMalformedScalar, err)
		}
		return AuthenticatorStateExpire{
			MinEpoch:                             v.MinEpoch,
			AuthenticatorObjInitialSharedVersion: v.AuthenticatorObjInitialSharedVersion,
		}, nil
	case "randomness_state_create":
		return RandomnessStateCreate{}, nil
	case "deny_list_state_create":
		return DenyListStateCreate{}, nil
	case "bridge_state_create":
		var v struct {
			ChainID codec.Digest `json:"chain_id"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: bridge_state_create: %v", ErrMalformedScalar, err)
		}
		return BridgeStateCreate{ChainID: v.ChainID}, nil
	case "bridge_committee_init":
		var v struct {
			BridgeObjectVersion uint64 `json:"bridge_object_version,string"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: bridge_committee_init: %v", ErrMalformedScalar, err)
		}
		return BridgeCommitteeInit{BridgeObjectVersion: v.BridgeObjectVersion}, nil
	default:
		return nil, fmt.Errorf("%w: end of epoch kind %q", ErrUnknownVariant, probe.Kind)
	}
}

func marshalEndOfEpochKinds(p *codec.Packer, kinds []EndOfEpochTransactionKind) {
	p.PackLen(len(kinds))
	for _, k := range kinds {
		marshalEndOfEpochKind(p, k)
	}
}

func unmarshalEndOfEpochKinds(p *codec.Packer) ([]EndOfEpochTransactionKind, error) {
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	kinds := make([]EndOfEpochTransactionKind, 0, count)
	for i := 0; i < count; i++ {
		k, err := unmarshalEndOfEpochKind(p)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func unmarshalEndOfEpochKindsJSON(raws []json.RawMessage) ([]EndOfEpochTransactionKind, error) {
	kinds := make([]EndOfEpochTransactionKind, 0, len(raws))
	for _, raw := range raws {
		k, err := unmarshalEndOfEpochKindJSON(raw)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
