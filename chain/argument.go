// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// Binary discriminants of the argument variants.
const (
	gasCoinArgument uint64 = iota
	inputArgument
	resultArgument
	nestedResultArgument
)

// Argument references a value available to a command: the gas coin,
// a declared input, or the result of an earlier command.
type Argument interface {
	json.Marshaler

	argumentName() string
}

// GasCoin refers to the coin paying for gas.
type GasCoin struct{}

// Input refers to a declared transaction input by position.
type Input struct {
	Index uint16
}

// Result refers to the result of an earlier command by position.
type Result struct {
	Index uint16
}

// NestedResult refers to one element of an earlier command's result
// list.
type NestedResult struct {
	Index    uint16
	Subindex uint16
}

func (GasCoin) argumentName() string      { return "gas_coin" }
func (Input) argumentName() string        { return "input" }
func (Result) argumentName() string       { return "result" }
func (NestedResult) argumentName() string { return "nested_result" }

func marshalArgument(p *codec.Packer, a Argument) {
	switch v := a.(type) {
	case GasCoin:
		p.PackUleb(gasCoinArgument)
	case Input:
		p.PackUleb(inputArgument)
		p.PackUint16(v.Index)
	case Result:
		p.PackUleb(resultArgument)
		p.PackUint16(v.Index)
	case NestedResult:
		p.PackUleb(nestedResultArgument)
		p.PackUint16(v.Index)
		p.PackUint16(v.Subindex)
	default:
		p.SetErr(fmt.Errorf("%w: argument %T", ErrUnknownVariant, a))
	}
}

func unmarshalArgument(p *codec.Packer) (Argument, error) {
	kind := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case gasCoinArgument:
		return GasCoin{}, nil
	case inputArgument:
		a := Input{Index: p.UnpackUint16()}
		return a, p.Err()
	case resultArgument:
		a := Result{Index: p.UnpackUint16()}
		return a, p.Err()
	case nestedResultArgument:
		a := NestedResult{Index: p.UnpackUint16(), Subindex: p.UnpackUint16()}
		return a, p.Err()
	default:
		return nil, fmt.Errorf("%w: argument %d", ErrUnknownVariant, kind)
	}
}

func (GasCoin) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{Type: "gas_coin"})
}

func (a Input) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Input uint16 `json:"input"`
	}{Type: "input", Input: a.Index})
}

func (a Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Result uint16 `json:"result"`
	}{Type: "result", Result: a.Index})
}

func (a NestedResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"type"`
		Result    uint16 `json:"result"`
		Subresult uint16 `json:"subresult"`
	}{Type: "nested_result", Result: a.Index, Subresult: a.Subindex})
}

func unmarshalArgumentJSON(raw json.RawMessage) (Argument, error) {
	var probe struct {
		Type      string  `json:"type"`
		Input     *uint16 `json:"input"`
		Result    *uint16 `json:"result"`
		Subresult *uint16 `json:"subresult"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: argument: %v", ErrMalformedScalar, err)
	}
	switch probe.Type {
	case "gas_coin":
		return GasCoin{}, nil
	case "input":
		if probe.Input == nil {
			return nil, fmt.Errorf("%w: argument missing input", ErrMalformedScalar)
		}
		return Input{Index: *probe.Input}, nil
	case "result":
		if probe.Result == nil {
			return nil, fmt.Errorf("%w: argument missing result", ErrMalformedScalar)
		}
		return Result{Index: *probe.Result}, nil
	case "nested_result":
		if probe.Result == nil || probe.Subresult == nil {
			return nil, fmt.Errorf("%w: argument missing result or subresult", ErrMalformedScalar)
		}
		return NestedResult{Index: *probe.Result, Subindex: *probe.Subresult}, nil
	default:
		return nil, fmt.Errorf("%w: argument %q", ErrUnknownVariant, probe.Type)
	}
}

func marshalArguments(p *codec.Packer, args []Argument) {
	p.PackLen(len(args))
	for _, a := range args {
		marshalArgument(p, a)
	}
}

func unmarshalArguments(p *codec.Packer) ([]Argument, error) {
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	args := make([]Argument, 0, count)
	for i := 0; i < count; i++ {
		a, err := unmarshalArgument(p)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

func unmarshalArgumentsJSON(raws []json.RawMessage) ([]Argument, error) {
	args := make([]Argument, 0, len(raws))
	for _, raw := range raws {
		a, err := unmarshalArgumentJSON(raw)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}
