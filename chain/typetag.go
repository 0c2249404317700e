// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"
	"strings"

	"github.com/ava-labs/movesdk/codec"
)

// Identifier is a Move identifier: a leading letter followed by
// letters, digits, and underscores. A leading underscore is accepted
// when at least one more character follows.
type Identifier string

func NewIdentifier(s string) (Identifier, error) {
	if !validIdentifier(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return Identifier(s), nil
}

func validIdentifier(s string) bool {
	if len(s) == 0 || s == "_" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (id Identifier) String() string {
	return string(id)
}

func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id), nil
}

func (id *Identifier) UnmarshalText(text []byte) error {
	parsed, err := NewIdentifier(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id Identifier) marshal(p *codec.Packer) {
	p.PackString(string(id))
}

func unmarshalIdentifier(p *codec.Packer) (Identifier, error) {
	s := p.UnpackString(-1)
	if err := p.Err(); err != nil {
		return "", err
	}
	return NewIdentifier(s)
}

// Binary discriminants of the type tag variants. The order is part of
// the wire contract: the three wide integer widths that were added
// after the original set keep their appended positions.
const (
	boolTypeTag uint64 = iota
	u8TypeTag
	u64TypeTag
	u128TypeTag
	addressTypeTag
	signerTypeTag
	vectorTypeTag
	structTypeTag
	u16TypeTag
	u32TypeTag
	u256TypeTag
)

// maxTypeDepth caps type nesting so hostile input cannot recurse the
// decoder or the parser arbitrarily deep.
const maxTypeDepth = 128

// TypeTag names a Move type. The display form is the canonical type
// string, so tags marshal to and from bare JSON strings.
type TypeTag struct {
	kind uint64
	elem *TypeTag
	str  *StructTag
}

var (
	TypeTagBool    = TypeTag{kind: boolTypeTag}
	TypeTagU8      = TypeTag{kind: u8TypeTag}
	TypeTagU16     = TypeTag{kind: u16TypeTag}
	TypeTagU32     = TypeTag{kind: u32TypeTag}
	TypeTagU64     = TypeTag{kind: u64TypeTag}
	TypeTagU128    = TypeTag{kind: u128TypeTag}
	TypeTagU256    = TypeTag{kind: u256TypeTag}
	TypeTagAddress = TypeTag{kind: addressTypeTag}
	TypeTagSigner  = TypeTag{kind: signerTypeTag}
)

// VectorTypeTag returns the tag for vector<elem>.
func VectorTypeTag(elem TypeTag) TypeTag {
	return TypeTag{kind: vectorTypeTag, elem: &elem}
}

// StructTypeTag returns the tag for a struct type.
func StructTypeTag(tag StructTag) TypeTag {
	return TypeTag{kind: structTypeTag, str: &tag}
}

// Elem returns the element tag of a vector type.
func (t TypeTag) Elem() (TypeTag, bool) {
	if t.kind != vectorTypeTag || t.elem == nil {
		return TypeTag{}, false
	}
	return *t.elem, true
}

// Struct returns the struct tag of a struct type.
func (t TypeTag) Struct() (StructTag, bool) {
	if t.kind != structTypeTag || t.str == nil {
		return StructTag{}, false
	}
	return *t.str, true
}

func (t TypeTag) String() string {
	switch t.kind {
	case boolTypeTag:
		return "bool"
	case u8TypeTag:
		return "u8"
	case u16TypeTag:
		return "u16"
	case u32TypeTag:
		return "u32"
	case u64TypeTag:
		return "u64"
	case u128TypeTag:
		return "u128"
	case u256TypeTag:
		return "u256"
	case addressTypeTag:
		return "address"
	case signerTypeTag:
		return "signer"
	case vectorTypeTag:
		return "vector<" + t.elem.String() + ">"
	case structTypeTag:
		return t.str.String()
	default:
		return fmt.Sprintf("unknown(%d)", t.kind)
	}
}

func (t TypeTag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TypeTag) UnmarshalText(text []byte) error {
	parsed, err := ParseTypeTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TypeTag) marshal(p *codec.Packer) {
	p.PackUleb(t.kind)
	switch t.kind {
	case vectorTypeTag:
		t.elem.marshal(p)
	case structTypeTag:
		t.str.marshal(p)
	}
}

func unmarshalTypeTag(p *codec.Packer) (TypeTag, error) {
	return unmarshalTypeTagDepth(p, 0)
}

func unmarshalTypeTagDepth(p *codec.Packer, depth int) (TypeTag, error) {
	if depth > maxTypeDepth {
		return TypeTag{}, fmt.Errorf("%w: nested deeper than %d", ErrInvalidTypeTag, maxTypeDepth)
	}
	kind := p.UnpackUleb()
	if err := p.Err(); err != nil {
		return TypeTag{}, err
	}
	switch kind {
	case boolTypeTag, u8TypeTag, u16TypeTag, u32TypeTag, u64TypeTag,
		u128TypeTag, u256TypeTag, addressTypeTag, signerTypeTag:
		return TypeTag{kind: kind}, nil
	case vectorTypeTag:
		elem, err := unmarshalTypeTagDepth(p, depth+1)
		if err != nil {
			return TypeTag{}, err
		}
		return VectorTypeTag(elem), nil
	case structTypeTag:
		str, err := unmarshalStructTagDepth(p, depth+1)
		if err != nil {
			return TypeTag{}, err
		}
		return StructTypeTag(str), nil
	default:
		return TypeTag{}, fmt.Errorf("%w: type tag %d", ErrUnknownVariant, kind)
	}
}

// StructTag fully qualifies a Move struct type.
type StructTag struct {
	Address    codec.Address
	Module     Identifier
	Name       Identifier
	TypeParams []TypeTag
}

func (s StructTag) String() string {
	var b strings.Builder
	b.WriteString(s.Address.String())
	b.WriteString("::")
	b.WriteString(string(s.Module))
	b.WriteString("::")
	b.WriteString(string(s.Name))
	if len(s.TypeParams) > 0 {
		b.WriteByte('<')
		for i, param := range s.TypeParams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(param.String())
		}
		b.WriteByte('>')
	}
	return b.String()
}

func (s StructTag) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StructTag) UnmarshalText(text []byte) error {
	parsed, err := ParseStructTag(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s StructTag) marshal(p *codec.Packer) {
	p.PackAddress(s.Address)
	s.Module.marshal(p)
	s.Name.marshal(p)
	p.PackLen(len(s.TypeParams))
	for _, param := range s.TypeParams {
		param.marshal(p)
	}
}

func unmarshalStructTag(p *codec.Packer) (StructTag, error) {
	return unmarshalStructTagDepth(p, 0)
}

func unmarshalStructTagDepth(p *codec.Packer, depth int) (StructTag, error) {
	var s StructTag
	p.UnpackAddress(&s.Address)
	module, err := unmarshalIdentifier(p)
	if err != nil {
		return StructTag{}, err
	}
	name, err := unmarshalIdentifier(p)
	if err != nil {
		return StructTag{}, err
	}
	s.Module = module
	s.Name = name
	count := p.UnpackLen()
	if err := p.Err(); err != nil {
		return StructTag{}, err
	}
	if count > 0 {
		s.TypeParams = make([]TypeTag, 0, count)
		for i := 0; i < count; i++ {
			param, err := unmarshalTypeTagDepth(p, depth+1)
			if err != nil {
				return StructTag{}, err
			}
			s.TypeParams = append(s.TypeParams, param)
		}
	}
	return s, nil
}

// ParseTypeTag parses the canonical type string form, e.g. "u64",
// "vector<u8>", or "0x2::coin::Coin<0x2::sui::SUI>".
func ParseTypeTag(s string) (TypeTag, error) {
	tag, rest, err := parseTypeTag(s, 0)
	if err != nil {
		return TypeTag{}, err
	}
	if strings.TrimSpace(rest) != "" {
		return TypeTag{}, fmt.Errorf("%w: trailing input %q", ErrInvalidTypeTag, rest)
	}
	return tag, nil
}

// ParseStructTag parses a fully qualified struct type string.
func ParseStructTag(s string) (StructTag, error) {
	tag, err := ParseTypeTag(s)
	if err != nil {
		return StructTag{}, err
	}
	str, ok := tag.Struct()
	if !ok {
		return StructTag{}, fmt.Errorf("%w: %q is not a struct type", ErrInvalidTypeTag, s)
	}
	return str, nil
}

var primitiveTypeTags = map[string]TypeTag{
	"bool":    TypeTagBool,
	"u8":      TypeTagU8,
	"u16":     TypeTagU16,
	"u32":     TypeTagU32,
	"u64":     TypeTagU64,
	"u128":    TypeTagU128,
	"u256":    TypeTagU256,
	"address": TypeTagAddress,
	"signer":  TypeTagSigner,
}

func parseTypeTag(s string, depth int) (TypeTag, string, error) {
	if depth > maxTypeDepth {
		return TypeTag{}, "", fmt.Errorf("%w: nested deeper than %d", ErrInvalidTypeTag, maxTypeDepth)
	}
	s = strings.TrimLeft(s, " ")
	token, rest := splitTypeToken(s)
	if token == "" {
		return TypeTag{}, "", fmt.Errorf("%w: empty type", ErrInvalidTypeTag)
	}
	if tag, ok := primitiveTypeTags[token]; ok {
		return tag, rest, nil
	}
	if token == "vector" {
		rest = strings.TrimLeft(rest, " ")
		if !strings.HasPrefix(rest, "<") {
			return TypeTag{}, "", fmt.Errorf("%w: vector without element type", ErrInvalidTypeTag)
		}
		elem, rest, err := parseTypeTag(rest[1:], depth+1)
		if err != nil {
			return TypeTag{}, "", err
		}
		rest = strings.TrimLeft(rest, " ")
		if !strings.HasPrefix(rest, ">") {
			return TypeTag{}, "", fmt.Errorf("%w: unterminated vector", ErrInvalidTypeTag)
		}
		return VectorTypeTag(elem), rest[1:], nil
	}

	// anything else must be an address opening a struct type
	addr, err := codec.AddressFromHex(token)
	if err != nil {
		return TypeTag{}, "", fmt.Errorf("%w: %q", ErrInvalidTypeTag, token)
	}
	str := StructTag{Address: addr}
	if !strings.HasPrefix(rest, "::") {
		return TypeTag{}, "", fmt.Errorf("%w: missing module in %q", ErrInvalidTypeTag, s)
	}
	token, rest = splitTypeToken(rest[2:])
	module, err := NewIdentifier(token)
	if err != nil {
		return TypeTag{}, "", err
	}
	str.Module = module
	if !strings.HasPrefix(rest, "::") {
		return TypeTag{}, "", fmt.Errorf("%w: missing struct name in %q", ErrInvalidTypeTag, s)
	}
	token, rest = splitTypeToken(rest[2:])
	name, err := NewIdentifier(token)
	if err != nil {
		return TypeTag{}, "", err
	}
	str.Name = name

	rest = strings.TrimLeft(rest, " ")
	if strings.HasPrefix(rest, "<") {
		rest = rest[1:]
		for {
			var param TypeTag
			param, rest, err = parseTypeTag(rest, depth+1)
			if err != nil {
				return TypeTag{}, "", err
			}
			str.TypeParams = append(str.TypeParams, param)
			rest = strings.TrimLeft(rest, " ")
			if strings.HasPrefix(rest, ",") {
				rest = rest[1:]
				continue
			}
			if strings.HasPrefix(rest, ">") {
				rest = rest[1:]
				break
			}
			return TypeTag{}, "", fmt.Errorf("%w: unterminated type parameters", ErrInvalidTypeTag)
		}
	}
	return StructTypeTag(str), rest, nil
}

// splitTypeToken cuts the leading run of identifier and hex
// characters off s.
func splitTypeToken(s string) (string, string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '_' ||
			(c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}
