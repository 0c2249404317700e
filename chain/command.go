// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/movesdk/codec"
)

// Binary discriminants of the command variants.
const (
	moveCallCommand uint64 = iota
	transferObjectsCommand
	splitCoinsCommand
	mergeCoinsCommand
	publishCommand
	makeMoveVectorCommand
	upgradeCommand
)

// Command is a single step of a programmable transaction.
type Command interface {
	json.Marshaler

	commandName() string
}

// MoveCall invokes a function of a published module.
type MoveCall struct {
	Package       ObjectID
	Module        Identifier
	Function      Identifier
	TypeArguments []TypeTag
	Arguments     []Argument
}

// TransferObjects sends objects to an address.
type TransferObjects struct {
	Objects []Argument
	Address Argument
}

// SplitCoins splits amounts off a coin.
type SplitCoins struct {
	Coin    Argument
	Amounts []Argument
}

// MergeCoins merges coins into the first one.
type MergeCoins struct {
	Coin         Argument
	CoinsToMerge []Argument
}

// Publish deploys compiled modules as a new package.
type Publish struct {
	Modules      [][]byte
	Dependencies []ObjectID
}

// MakeMoveVector builds a vector from per-element arguments. Type is
// required when elements is empty and optional otherwise.
type MakeMoveVector struct {
	Type     *TypeTag
	Elements []Argument
}

// Upgrade replaces the modules of an existing package.
type Upgrade struct {
	Modules      [][]byte
	Dependencies []ObjectID
	Package      ObjectID
	Ticket       Argument
}

func (MoveCall) commandName() string        { return "move_call" }
func (TransferObjects) commandName() string { return "transfer_objects" }
func (SplitCoins) commandName() string      { return "split_coins" }
func (MergeCoins) commandName() string      { return "merge_coins" }
func (Publish) commandName() string         { return "publish" }
func (MakeMoveVector) commandName() string  { return "make_move_vector" }
func (Upgrade) commandName() string         { return "upgrade" }

func marshalCommand(p *codec.Packer, c Command) {
	switch v := c.(type) {
	case MoveCall:
		p.PackUleb(moveCallCommand)
		p.PackAddress(v.Package)
		v.Module.marshal(p)
		v.Function.marshal(p)
		p.PackLen(len(v.TypeArguments))
		for _, tag := range v.TypeArguments {
			tag.marshal(p)
		}
		marshalArguments(p, v.Arguments)
	case TransferObjects:
		p.PackUleb(transferObjectsCommand)
		marshalArguments(p, v.Objects)
		marshalArgument(p, v.Address)
	case SplitCoins:
		p.PackUleb(splitCoinsCommand)
		marshalArgument(p, v.Coin)
		marshalArguments(p, v.Amounts)
	case MergeCoins:
		p.PackUleb(mergeCoinsCommand)
		marshalArgument(p, v.Coin)
		marshalArguments(p, v.CoinsToMerge)
	case Publish:
		p.PackUleb(publishCommand)
		marshalByteSlices(p, v.Modules)
		marshalObjectIDs(p, v.Dependencies)
	case MakeMoveVector:
		p.PackUleb(makeMoveVectorCommand)
		if v.Type == nil {
			p.PackUleb(0)
		} else {
			p.PackUleb(1)
			v.Type.marshal(p)
		}
		marshalArguments(p, v.Elements)
	case Upgrade:
		p.PackUleb(upgradeCommand)
		marshalByteSlices(p, v.Modules)
		marshalObjectIDs(p, v.Dependencies)
		p.PackAddress(v.Package)
		marshalArgument(p, v.Ticket)
	default:
		p.SetErr(fmt.Errorf("%w: command %T", ErrUnknownVariant, c))
	}
}

func unmarshalCommand(p *codec.Packer) (Command, error) {
	kind := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case moveCallCommand:
		return unmarshalMoveCall(p)
	case transferObjectsCommand:
		var c TransferObjects
		objects, err := unmarshalArguments(p)
		if err != nil {
			return nil, err
		}
		address, err := unmarshalArgument(p)
		if err != nil {
			return nil, err
		}
		c.Objects = objects
		c.Address = address
		return c, nil
	case splitCoinsCommand:
		var c SplitCoins
		coin, err := unmarshalArgument(p)
		if err != nil {
			return nil, err
		}
		amounts, err := unmarshalArguments(p)
		if err != nil {
			return nil, err
		}
		c.Coin = coin
		c.Amounts = amounts
		return c, nil
	case mergeCoinsCommand:
		var c MergeCoins
		coin, err := unmarshalArgument(p)
		if err != nil {
			return nil, err
		}
		coins, err := unmarshalArguments(p)
		if err != nil {
			return nil, err
		}
		c.Coin = coin
		c.CoinsToMerge = coins
		return c, nil
	case publishCommand:
		var c Publish
		modules, err := unmarshalByteSlices(p)
		if err != nil {
			return nil, err
		}
		deps, err := unmarshalObjectIDs(p)
		if err != nil {
			return nil, err
		}
		c.Modules = modules
		c.Dependencies = deps
		return c, nil
	case makeMoveVectorCommand:
		return unmarshalMakeMoveVector(p)
	case upgradeCommand:
		return unmarshalUpgrade(p)
	default:
		return nil, fmt.Errorf("%w: command %d", ErrUnknownVariant, kind)
	}
}

func unmarshalMoveCall(p *codec.Packer) (Command, error) {
	var c MoveCall
	p.UnpackAddress(&c.Package)
	module, err := unmarshalIdentifier(p)
	if err != nil {
		return nil, err
	}
	function, err := unmarshalIdentifier(p)
	if err != nil {
		return nil, err
	}
	c.Module = module
	c.Function = function
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	c.TypeArguments = make([]TypeTag, 0, count)
	for i := 0; i < count; i++ {
		tag, err := unmarshalTypeTag(p)
		if err != nil {
			return nil, err
		}
		c.TypeArguments = append(c.TypeArguments, tag)
	}
	args, err := unmarshalArguments(p)
	if err != nil {
		return nil, err
	}
	c.Arguments = args
	return c, nil
}

func unmarshalMakeMoveVector(p *codec.Packer) (Command, error) {
	var c MakeMoveVector
	present := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch present {
	case 0:
	case 1:
		tag, err := unmarshalTypeTag(p)
		if err != nil {
			return nil, err
		}
		c.Type = &tag
	default:
		return nil, fmt.Errorf("%w: optional tag %d", ErrUnknownVariant, present)
	}
	elements, err := unmarshalArguments(p)
	if err != nil {
		return nil, err
	}
	c.Elements = elements
	return c, nil
}

func unmarshalUpgrade(p *codec.Packer) (Command, error) {
	var c Upgrade
	modules, err := unmarshalByteSlices(p)
	if err != nil {
		return nil, err
	}
	deps, err := unmarshalObjectIDs(p)
	if err != nil {
		return nil, err
	}
	c.Modules = modules
	c.Dependencies = deps
	p.UnpackAddress(&c.Package)
	ticket, err := unmarshalArgument(p)
	if err != nil {
		return nil, err
	}
	c.Ticket = ticket
	return c, nil
}

func (c MoveCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command       string     `json:"command"`
		Package       ObjectID   `json:"package"`
		Module        Identifier `json:"module"`
		Function      Identifier `json:"function"`
		TypeArguments []TypeTag  `json:"type_arguments"`
		Arguments     []Argument `json:"arguments"`
	}{
		Command:       "move_call",
		Package:       c.Package,
		Module:        c.Module,
		Function:      c.Function,
		TypeArguments: nonNil(c.TypeArguments),
		Arguments:     nonNil(c.Arguments),
	})
}

func (c TransferObjects) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command string     `json:"command"`
		Objects []Argument `json:"objects"`
		Address Argument   `json:"address"`
	}{Command: "transfer_objects", Objects: nonNil(c.Objects), Address: c.Address})
}

func (c SplitCoins) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command string     `json:"command"`
		Coin    Argument   `json:"coin"`
		Amounts []Argument `json:"amounts"`
	}{Command: "split_coins", Coin: c.Coin, Amounts: nonNil(c.Amounts)})
}

func (c MergeCoins) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command      string     `json:"command"`
		Coin         Argument   `json:"coin"`
		CoinsToMerge []Argument `json:"coins_to_merge"`
	}{Command: "merge_coins", Coin: c.Coin, CoinsToMerge: nonNil(c.CoinsToMerge)})
}

func (c Publish) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command      string        `json:"command"`
		Modules      []codec.Bytes `json:"modules"`
		Dependencies []ObjectID    `json:"dependencies"`
	}{Command: "publish", Modules: base64Slice(c.Modules), Dependencies: nonNil(c.Dependencies)})
}

func (c MakeMoveVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command  string     `json:"command"`
		Type     *TypeTag   `json:"type"`
		Elements []Argument `json:"elements"`
	}{Command: "make_move_vector", Type: c.Type, Elements: nonNil(c.Elements)})
}

func (c Upgrade) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Command      string        `json:"command"`
		Modules      []codec.Bytes `json:"modules"`
		Dependencies []ObjectID    `json:"dependencies"`
		Package      ObjectID      `json:"package"`
		Ticket       Argument      `json:"ticket"`
	}{
		Command:      "upgrade",
		Modules:      base64Slice(c.Modules),
		Dependencies: nonNil(c.Dependencies),
		Package:      c.Package,
		Ticket:       c.Ticket,
	})
}

func unmarshalCommandJSON(raw json.RawMessage) (Command, error) {
	var probe struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: command: %v", ErrMalformedScalar, err)
	}
	switch probe.Command {
	case "move_call":
		var v struct {
			Package       ObjectID          `json:"package"`
			Module        Identifier        `json:"module"`
			Function      Identifier        `json:"function"`
			TypeArguments []TypeTag         `json:"type_arguments"`
			Arguments     []json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: move_call: %v", ErrMalformedScalar, err)
		}
		args, err := unmarshalArgumentsJSON(v.Arguments)
		if err != nil {
			return nil, err
		}
		return MoveCall{
			Package:       v.Package,
			Module:        v.Module,
			Function:      v.Function,
			TypeArguments: nonNil(v.TypeArguments),
			Arguments:     args,
		}, nil
	case "transfer_objects":
		var v struct {
			Objects []json.RawMessage `json:"objects"`
			Address json.RawMessage   `json:"address"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: transfer_objects: %v", ErrMalformedScalar, err)
		}
		objects, err := unmarshalArgumentsJSON(v.Objects)
		if err != nil {
			return nil, err
		}
		address, err := unmarshalArgumentJSON(v.Address)
		if err != nil {
			return nil, err
		}
		return TransferObjects{Objects: objects, Address: address}, nil
	case "split_coins":
		var v struct {
			Coin    json.RawMessage   `json:"coin"`
			Amounts []json.RawMessage `json:"amounts"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: split_coins: %v", ErrMalformedScalar, err)
		}
		coin, err := unmarshalArgumentJSON(v.Coin)
		if err != nil {
			return nil, err
		}
		amounts, err := unmarshalArgumentsJSON(v.Amounts)
		if err != nil {
			return nil, err
		}
		return SplitCoins{Coin: coin, Amounts: amounts}, nil
	case "merge_coins":
		var v struct {
			Coin         json.RawMessage   `json:"coin"`
			CoinsToMerge []json.RawMessage `json:"coins_to_merge"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: merge_coins: %v", ErrMalformedScalar, err)
		}
		coin, err := unmarshalArgumentJSON(v.Coin)
		if err != nil {
			return nil, err
		}
		coins, err := unmarshalArgumentsJSON(v.CoinsToMerge)
		if err != nil {
			return nil, err
		}
		return MergeCoins{Coin: coin, CoinsToMerge: coins}, nil
	case "publish":
		var v struct {
			Modules      []codec.Bytes `json:"modules"`
			Dependencies []ObjectID    `json:"dependencies"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: publish: %v", ErrMalformedScalar, err)
		}
		return Publish{Modules: rawSlice(v.Modules), Dependencies: nonNil(v.Dependencies)}, nil
	case "make_move_vector":
		var v struct {
			Type     *TypeTag          `json:"type"`
			Elements []json.RawMessage `json:"elements"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: make_move_vector: %v", ErrMalformedScalar, err)
		}
		elements, err := unmarshalArgumentsJSON(v.Elements)
		if err != nil {
			return nil, err
		}
		return MakeMoveVector{Type: v.Type, Elements: elements}, nil
	case "upgrade":
		var v struct {
			Modules      []codec.Bytes   `json:"modules"`
			Dependencies []ObjectID      `json:"dependencies"`
			Package      ObjectID        `json:"package"`
			Ticket       json.RawMessage `json:"ticket"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: upgrade: %v", ErrMalformedScalar, err)
		}
		ticket, err := unmarshalArgumentJSON(v.Ticket)
		if err != nil {
			return nil, err
		}
		return Upgrade{
			Modules:      rawSlice(v.Modules),
			Dependencies: nonNil(v.Dependencies),
			Package:      v.Package,
			Ticket:       ticket,
		}, nil
	default:
		return nil, fmt.Errorf("%w: command %q", ErrUnknownVariant, probe.Command)
	}
}

func marshalCommands(p *codec.Packer, cmds []Command) {
	p.PackLen(len(cmds))
	for _, c := range cmds {
		marshalCommand(p, c)
	}
}

func unmarshalCommands(p *codec.Packer) ([]Command, error) {
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return nil, err
	}
	cmds := make([]Command, 0, count)
	for i := 0; i < count; i++ {
		c, err := unmarshalCommand(p)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

func unmarshalCommandsJSON(raws []json.RawMessage) ([]Command, error) {
	cmds := make([]Command, 0, len(raws))
	for _, raw := range raws {
		c, err := unmarshalCommandJSON(raw)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}
