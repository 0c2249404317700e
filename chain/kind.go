// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// Binary discriminants of the transaction kind variants.
const (
	programmableTransactionKind uint64 = iota
	changeEpochKind
	genesisKind
	consensusCommitPrologueKind
	authenticatorStateUpdateKind
	endOfEpochKind
	randomnessStateUpdateKind
	consensusCommitPrologueV2Kind
)

// TransactionKind selects the payload of a transaction.
type TransactionKind interface {
	json.Marshaler

	kindName() string
}

// ProgrammableTransaction runs a sequence of commands over a shared
// input table.
type ProgrammableTransaction struct {
	Inputs   []TransactionInput
	Commands []Command
}

// ChangeEpoch advances the chain to the next epoch and settles the gas
// accounting of the one that ended. The same payload appears under
// [EndOfEpoch] with a different binary discriminant.
type ChangeEpoch struct {
	Epoch                   uint64
	ProtocolVersion         uint64
	StorageCharge           uint64
	ComputationCharge       uint64
	StorageRebate           uint64
	NonRefundableStorageFee uint64
	EpochStartTimestampMs   uint64
	SystemPackages          []SystemPackage
}

// SystemPackage is a framework package rewritten at an epoch boundary.
type SystemPackage struct {
	Version      uint64
	Modules      [][]byte
	Dependencies []ObjectID
}

// GenesisTransaction seeds the initial object set of the chain.
type GenesisTransaction struct {
	Objects []GenesisObject
}

// ConsensusCommitPrologue stamps a consensus commit onto the chain.
type ConsensusCommitPrologue struct {
	Epoch             uint64
	Round             uint64
	CommitTimestampMs uint64
}

// ConsensusCommitPrologueV2 extends the prologue with the digest of the
// consensus commit.
type ConsensusCommitPrologueV2 struct {
	Epoch                 uint64
	Round                 uint64
	CommitTimestampMs     uint64
	ConsensusCommitDigest codec.Digest
}

// AuthenticatorStateUpdate rotates the set of active JWKs.
type AuthenticatorStateUpdate struct {
	Epoch                                uint64
	Round                                uint64
	NewActiveJwks                        []ActiveJwk
	AuthenticatorObjInitialSharedVersion uint64
}

// EndOfEpoch bundles the operations run at an epoch boundary.
type EndOfEpoch struct {
	Commands []EndOfEpochTransactionKind
}

// RandomnessStateUpdate publishes the output of a randomness round.
type RandomnessStateUpdate struct {
	Epoch                             uint64
	RandomnessRound                   uint64
	RandomBytes                       []byte
	RandomnessObjInitialSharedVersion uint64
}

func (ProgrammableTransaction) kindName() string   { return "programmable_transaction" }
func (ChangeEpoch) kindName() string               { return "change_epoch" }
func (GenesisTransaction) kindName() string        { return "genesis" }
func (ConsensusCommitPrologue) kindName() string   { return "consensus_commit_prologue" }
func (AuthenticatorStateUpdate) kindName() string  { return "authenticator_state_update" }
func (EndOfEpoch) kindName() string                { return "end_of_epoch" }
func (RandomnessStateUpdate) kindName() string     { return "randomness_state_update" }
func (ConsensusCommitPrologueV2) kindName() string { return "consensus_commit_prologue_v2" }

func marshalTransactionKind(p *codec.Packer, k TransactionKind) {
	switch v := k.(type) {
	case ProgrammableTransaction:
		p.PackUleb(programmableTransactionKind)
		marshalTransactionInputs(p, v.Inputs)
		marshalCommands(p, v.Commands)
	case ChangeEpoch:
		p.PackUleb(changeEpochKind)
		marshalChangeEpochFields(p, v)
	case GenesisTransaction:
		p.PackUleb(genesisKind)
		marshalGenesisObjects(p, v.Objects)
	case ConsensusCommitPrologue:
		p.PackUleb(consensusCommitPrologueKind)
		p.PackUint64(v.Epoch)
		p.PackUint64(v.Round)
		p.PackUint64(v.CommitTimestampMs)
	case AuthenticatorStateUpdate:
		p.PackUleb(authenticatorStateUpdateKind)
		p.PackUint64(v.Epoch)
		p.PackUint64(v.Round)
		marshalActiveJwks(p, v.NewActiveJwks)
		p.PackUint64(v.AuthenticatorObjInitialSharedVersion)
	case EndOfEpoch:
		p.PackUleb(endOfEpochKind)
		marshalEndOfEpochKinds(p, v.Commands)
	case RandomnessStateUpdate:
		p.PackUleb(randomnessStateUpdateKind)
		p.PackUint64(v.Epoch)
		p.PackUint64(v.RandomnessRound)
		p.PackBytes(v.RandomBytes)
		p.PackUint64(v.RandomnessObjInitialSharedVersion)
	case ConsensusCommitPrologueV2:
		p.PackUleb(consensusCommitPrologueV2Kind)
		p.PackUint64(v.Epoch)
		p.PackUint64(v.Round)
		p.PackUint64(v.CommitTimestampMs)
		p.PackDigest(v.ConsensusCommitDigest)
	default:
		p.SetErr(fmt.Errorf("%w: transaction kind %T", ErrUnknownVariant, k))
	}
}

func unmarshalTransactionKind(p *codec.Packer) (TransactionKind, error) {
	kind := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case programmableTransactionKind:
		inputs, err := unmarshalTransactionInputs(p)
		if err != nil {
			return nil, err
		}
		cmds, err := unmarshalCommands(p)
		if err != nil {
			return nil, err
		}
		return ProgrammableTransaction{Inputs: inputs, Commands: cmds}, nil
	case changeEpochKind:
		v, err := unmarshalChangeEpochFields(p)
		if err != nil {
			return nil, err
		}
		return v, nil
	case genesisKind:
		objects, err := unmarshalGenesisObjects(p)
		if err != nil {
			return nil, err
		}
		return GenesisTransaction{Objects: objects}, nil
	case consensusCommitPrologueKind:
		var v ConsensusCommitPrologue
		v.Epoch = p.UnpackUint64()
		v.Round = p.UnpackUint64()
		v.CommitTimestampMs = p.UnpackUint64()
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	case authenticatorStateUpdateKind:
		var v AuthenticatorStateUpdate
		v.Epoch = p.UnpackUint64()
		v.Round = p.UnpackUint64()
		jwks, err := unmarshalActiveJwks(p)
		if err != nil {
			return nil, err
		}
		v.NewActiveJwks = jwks
		v.AuthenticatorObjInitialSharedVersion = p.UnpackUint64()
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	case endOfEpochKind:
		cmds, err := unmarshalEndOfEpochKinds(p)
		if err != nil {
			return nil, err
		}
		return EndOfEpoch{Commands: cmds}, nil
	case randomnessStateUpdateKind:
		var v RandomnessStateUpdate
		v.Epoch = p.UnpackUint64()
		v.RandomnessRound = p.UnpackUint64()
		p.UnpackBytes(-1, &v.RandomBytes)
		v.RandomnessObjInitialSharedVersion = p.UnpackUint64()
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	case consensusCommitPrologueV2Kind:
		var v ConsensusCommitPrologueV2
		v.Epoch = p.UnpackUint64()
		v.Round = p.UnpackUint64()
		v.CommitTimestampMs = p.UnpackUint64()
		p.UnpackDigest(&v.ConsensusCommitDigest)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: transaction kind %d", ErrUnknownVariant, kind)
	}
}

func marshalChangeEpochFields(p *codec.Packer, v ChangeEpoch) {
	p.PackUint64(v.Epoch)
	p.PackUint64(v.ProtocolVersion)
	p.PackUint64(v.StorageCharge)
	p.PackUint64(v.ComputationCharge)
	p.PackUint64(v.StorageRebate)
	p.PackUint64(v.NonRefundableStorageFee)
	p.PackUint64(v.EpochStartTimestampMs)
	p.PackLen(len(v.SystemPackages))
	for _, pkg := range v.SystemPackages {
		p.PackUint64(pkg.Version)
		marshalByteSlices(p, pkg.Modules)
		marshalObjectIDs(p, pkg.Dependencies)
	}
}

func unmarshalChangeEpochFields(p *codec.Packer) (ChangeEpoch, error) {
	var v ChangeEpoch
	v.Epoch = p.UnpackUint64()
	v.ProtocolVersion = p.UnpackUint64()
	v.StorageCharge = p.UnpackUint64()
	v.ComputationCharge = p.UnpackUint64()
	v.StorageRebate = p.UnpackUint64()
	v.NonRefundableStorageFee = p.UnpackUint64()
	v.EpochStartTimestampMs = p.UnpackUint64()
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return ChangeEpoch{}, err
	}
	v.SystemPackages = make([]SystemPackage, 0, count)
	for i := 0; i < count; i++ {
		var pkg SystemPackage
		pkg.Version = p.UnpackUint64()
		modules, err := unmarshalByteSlices(p)
		if err != nil {
			return ChangeEpoch{}, err
		}
		deps, err := unmarshalObjectIDs(p)
		if err != nil {
			return ChangeEpoch{}, err
		}
		pkg.Modules = modules
		pkg.Dependencies = deps
		v.SystemPackages = append(v.SystemPackages, pkg)
	}
	if err := p.Err(); err != nil {
		return ChangeEpoch{}, err
	}
	return v, nil
}

func (k ProgrammableTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string             `json:"kind"`
		Inputs   []TransactionInput `json:"inputs"`
		Commands []Command          `json:"commands"`
	}{Kind: "programmable_transaction", Inputs: nonNil(k.Inputs), Commands: nonNil(k.Commands)})
}

type changeEpochJSON struct {
	Epoch                   uint64          `json:"epoch,string"`
	ProtocolVersion         uint64          `json:"protocol_version,string"`
	StorageCharge           uint64          `json:"storage_charge,string"`
	ComputationCharge       uint64          `json:"computation_charge,string"`
	StorageRebate           uint64          `json:"storage_rebate,string"`
	NonRefundableStorageFee uint64          `json:"non_refundable_storage_fee,string"`
	EpochStartTimestampMs   uint64          `json:"epoch_start_timestamp_ms,string"`
	SystemPackages          []SystemPackage `json:"system_packages"`
}

func (k ChangeEpoch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		changeEpochJSON
	}{Kind: "change_epoch", changeEpochJSON: changeEpochJSON{
		Epoch:                   k.Epoch,
		ProtocolVersion:         k.ProtocolVersion,
		StorageCharge:           k.StorageCharge,
		ComputationCharge:       k.ComputationCharge,
		StorageRebate:           k.StorageRebate,
		NonRefundableStorageFee: k.NonRefundableStorageFee,
		EpochStartTimestampMs:   k.EpochStartTimestampMs,
		SystemPackages:          nonNil(k.SystemPackages),
	}})
}

func unmarshalChangeEpochJSON(raw json.RawMessage) (ChangeEpoch, error) {
	var v changeEpochJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return ChangeEpoch{}, fmt.Errorf("%w: change_epoch: %v", ErrMalformedScalar, err)
	}
	return ChangeEpoch{
		Epoch:                   v.Epoch,
		ProtocolVersion:         v.ProtocolVersion,
		StorageCharge:           v.StorageCharge,
		ComputationCharge:       v.ComputationCharge,
		StorageRebate:           v.StorageRebate,
		NonRefundableStorageFee: v.NonRefundableStorageFee,
		EpochStartTimestampMs:   v.EpochStartTimestampMs,
		SystemPackages:          nonNil(v.SystemPackages),
	}, nil
}

func (s SystemPackage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Version      uint64        `json:"version,string"`
		Modules      []codec.Bytes `json:"modules"`
		Dependencies []ObjectID    `json:"dependencies"`
	}{Version: s.Version, Modules: base64Slice(s.Modules), Dependencies: nonNil(s.Dependencies)})
}

func (s *SystemPackage) UnmarshalJSON(b []byte) error {
	var v struct {
		Version      uint64        `json:"version,string"`
		Modules      []codec.Bytes `json:"modules"`
		Dependencies []ObjectID    `json:"dependencies"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	s.Version = v.Version
	s.Modules = rawSlice(v.Modules)
	s.Dependencies = nonNil(v.Dependencies)
	return nil
}

func (k GenesisTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string          `json:"kind"`
		Objects []GenesisObject `json:"objects"`
	}{Kind: "genesis", Objects: nonNil(k.Objects)})
}

type consensusCommitPrologueJSON struct {
	Epoch             uint64 `json:"epoch,string"`
	Round             uint64 `json:"round,string"`
	CommitTimestampMs uint64 `json:"commit_timestamp_ms,string"`
}

func (k ConsensusCommitPrologue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		consensusCommitPrologueJSON
	}{Kind: "consensus_commit_prologue", consensusCommitPrologueJSON: consensusCommitPrologueJSON{
		Epoch:             k.Epoch,
		Round:             k.Round,
		CommitTimestampMs: k.CommitTimestampMs,
	}})
}

func (k ConsensusCommitPrologueV2) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		consensusCommitPrologueJSON
		ConsensusCommitDigest codec.Digest `json:"consensus_commit_digest"`
	}{
		Kind: "consensus_commit_prologue_v2",
		consensusCommitPrologueJSON: consensusCommitPrologueJSON{
			Epoch:             k.Epoch,
			Round:             k.Round,
			CommitTimestampMs: k.CommitTimestampMs,
		},
		ConsensusCommitDigest: k.ConsensusCommitDigest,
	})
}

func (k AuthenticatorStateUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind                                 string      `json:"kind"`
		Epoch                                uint64      `json:"epoch,string"`
		Round                                uint64      `json:"round,string"`
		NewActiveJwks                        []ActiveJwk `json:"new_active_jwks"`
		AuthenticatorObjInitialSharedVersion uint64      `json:"authenticator_obj_initial_shared_version,string"`
	}{
		Kind:                                 "authenticator_state_update",
		Epoch:                                k.Epoch,
		Round:                                k.Round,
		NewActiveJwks:                        nonNil(k.NewActiveJwks),
		AuthenticatorObjInitialSharedVersion: k.AuthenticatorObjInitialSharedVersion,
	})
}

func (k EndOfEpoch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string                      `json:"kind"`
		Commands []EndOfEpochTransactionKind `json:"commands"`
	}{Kind: "end_of_epoch", Commands: nonNil(k.Commands)})
}

func (k RandomnessStateUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind                              string      `json:"kind"`
		Epoch                             uint64      `json:"epoch,string"`
		RandomnessRound                   uint64      `json:"randomness_round,string"`
		RandomBytes                       codec.Bytes `json:"random_bytes"`
		RandomnessObjInitialSharedVersion uint64      `json:"randomness_obj_initial_shared_version,string"`
	}{
		Kind:                              "randomness_state_update",
		Epoch:                             k.Epoch,
		RandomnessRound:                   k.RandomnessRound,
		RandomBytes:                       codec.Bytes(k.RandomBytes),
		RandomnessObjInitialSharedVersion: k.RandomnessObjInitialSharedVersion,
	})
}

func unmarshalTransactionKindJSON(raw json.RawMessage) (TransactionKind, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: transaction kind: %v", ErrMalformedScalar, err)
	}
	switch probe.Kind {
	case "programmable_transaction":
		var v struct {
			Inputs   []json.RawMessage `json:"inputs"`
			Commands []json.RawMessage `json:"commands"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: programmable_transaction: %v", ErrMalformedScalar, err)
		}
		inputs, err := unmarshalTransactionInputsJSON(v.Inputs)
		if err != nil {
			return nil, err
		}
		cmds, err := unmarshalCommandsJSON(v.Commands)
		if err != nil {
			return nil, err
		}
		return ProgrammableTransaction{Inputs: inputs, Commands: cmds}, nil
	case "change_epoch":
		return unmarshalChangeEpochJSON(raw)
	case "genesis":
		var v struct {
			Objects []json.RawMessage `json:"objects"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: genesis: %v", ErrMalformedScalar, err)
		}
		objects, err := unmarshalGenesisObjectsJSON(v.Objects)
		if err != nil {
			return nil, err
		}
		return GenesisTransaction{Objects: objects}, nil
	case "consensus_commit_prologue":
		var v consensusCommitPrologueJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: consensus_commit_prologue: %v", ErrMalformedScalar, err)
		}
		return ConsensusCommitPrologue{
			Epoch:             v.Epoch,
			Round:             v.Round,
			CommitTimestampMs: v.CommitTimestampMs,
		}, nil
	case "authenticator_state_update":
		var v struct {
			Epoch                                uint64      `json:"epoch,string"`
			Round                                uint64      `json:"round,string"`
			NewActiveJwks                        []ActiveJwk `json:"new_active_jwks"`
			AuthenticatorObjInitialSharedVersion uint64      `json:"authenticator_obj_initial_shared_version,string"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: authenticator_state_update: %v", ErrMalformedScalar, err)
		}
		return AuthenticatorStateUpdate{
			Epoch:                                v.Epoch,
			Round:                                v.Round,
			NewActiveJwks:                        nonNil(v.NewActiveJwks),
			AuthenticatorObjInitialSharedVersion: v.AuthenticatorObjInitialSharedVersion,
		}, nil
	case "end_of_epoch":
		var v struct {
			Commands []json.RawMessage `json:"commands"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: end_of_epoch: %v", ErrMalformedScalar, err)
		}
		cmds, err := unmarshalEndOfEpochKindsJSON(v.Commands)
		if err != nil {
			return nil, err
		}
		return EndOfEpoch{Commands: cmds}, nil
	case "randomness_state_update":
		var v struct {
			Epoch                             uint64      `json:"epoch,string"`
			RandomnessRound                   uint64      `json:"randomness_round,string"`
			RandomBytes                       codec.Bytes `json:"random_bytes"`
			RandomnessObjInitialSharedVersion uint64      `json:"randomness_obj_initial_shared_version,string"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: randomness_state_update: %v", ErrMalformedScalar, err)
		}
		return RandomnessStateUpdate{
			Epoch:                             v.Epoch,
			RandomnessRound:                   v.RandomnessRound,
			RandomBytes:                       v.RandomBytes,
			RandomnessObjInitialSharedVersion: v.RandomnessObjInitialSharedVersion,
		}, nil
	case "consensus_commit_prologue_v2":
		var v struct {
			consensusCommitPrologueJSON
			ConsensusCommitDigest codec.Digest `json:"consensus_commit_digest"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: consensus_commit_prologue_v2: %v", ErrMalformedScalar, err)
		}
		return ConsensusCommitPrologueV2{
			Epoch:                 v.Epoch,
			Round:                 v.Round,
			CommitTimestampMs:     v.CommitTimestampMs,
			ConsensusCommitDigest: v.ConsensusCommitDigest,
		}, nil
	default:
		return nil, fmt.Errorf("%w: transaction kind %q", ErrUnknownVariant, probe.Kind)
	}
}
