// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/ava-labs/movesdk/consts"
)

// Packer reads and writes the canonical binary form. Fixed-width
// integers are little-endian, sequence lengths and sum-type
// discriminants are minimal uleb128, and booleans are a single 0/1
// byte. Every value has exactly one accepted encoding.
//
// The first failure is recorded and all later calls become no-ops, so
// callers check [Packer.Err] once after a batch of operations.
type Packer struct {
	b       []byte
	offset  int
	reading bool
	maxSize int
	err     error
}

// NewWriter returns a Packer that appends to a fresh buffer with
// [initial] preallocated bytes. Writing more than [maxSize] bytes
// fails with [ErrTooLarge]. A negative [maxSize] disables the limit.
func NewWriter(initial, maxSize int) *Packer {
	if maxSize < 0 {
		maxSize = consts.MaxInt
	}
	return &Packer{
		b:       make([]byte, 0, initial),
		maxSize: maxSize,
	}
}

// NewReader returns a Packer that consumes [src]. Inputs larger than
// [maxSize] are rejected immediately. A negative [maxSize] disables
// the limit.
func NewReader(src []byte, maxSize int) *Packer {
	if maxSize < 0 {
		maxSize = consts.MaxInt
	}
	p := &Packer{
		b:       src,
		reading: true,
		maxSize: maxSize,
	}
	if len(src) > maxSize {
		p.err = fmt.Errorf("%w: %d > %d", ErrTooLarge, len(src), maxSize)
	}
	return p
}

func (p *Packer) append(b ...byte) {
	if p.err != nil {
		return
	}
	if len(p.b)+len(b) > p.maxSize {
		p.err = fmt.Errorf("%w: %d > %d", ErrTooLarge, len(p.b)+len(b), p.maxSize)
		return
	}
	p.b = append(p.b, b...)
}

func (p *Packer) take(n int) []byte {
	if p.err != nil {
		return nil
	}
	if p.offset+n > len(p.b) {
		p.err = fmt.Errorf("%w: need %d, have %d", ErrInsufficientBytes, n, len(p.b)-p.offset)
		return nil
	}
	b := p.b[p.offset : p.offset+n]
	p.offset += n
	return b
}

func (p *Packer) PackByte(v byte) {
	p.append(v)
}

func (p *Packer) UnpackByte() byte {
	b := p.take(consts.ByteLen)
	if b == nil {
		return 0
	}
	return b[0]
}

func (p *Packer) PackBool(v bool) {
	if v {
		p.append(1)
	} else {
		p.append(0)
	}
}

// UnpackBool rejects any byte other than 0 or 1.
func (p *Packer) UnpackBool() bool {
	switch p.UnpackByte() {
	case 0:
		return false
	case 1:
		return true
	default:
		if p.err == nil {
			p.err = fmt.Errorf("%w: %#02x", ErrInvalidBool, p.b[p.offset-1])
		}
		return false
	}
}

func (p *Packer) PackUint16(v uint16) {
	var b [consts.Uint16Len]byte
	binary.LittleEndian.PutUint16(b[:], v)
	p.append(b[:]...)
}

func (p *Packer) UnpackUint16() uint16 {
	b := p.take(consts.Uint16Len)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (p *Packer) PackUint32(v uint32) {
	var b [consts.Uint32Len]byte
	binary.LittleEndian.PutUint32(b[:], v)
	p.append(b[:]...)
}

func (p *Packer) UnpackUint32() uint32 {
	b := p.take(consts.Uint32Len)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (p *Packer) PackUint64(v uint64) {
	var b [consts.Uint64Len]byte
	binary.LittleEndian.PutUint64(b[:], v)
	p.append(b[:]...)
}

func (p *Packer) UnpackUint64() uint64 {
	b := p.take(consts.Uint64Len)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// PackUleb appends the minimal base-128 little-endian varint for [v].
func (p *Packer) PackUleb(v uint64) {
	var b [consts.MaxUlebLen]byte
	n := 0
	for v >= 0x80 {
		b[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	b[n] = byte(v)
	p.append(b[:n+1]...)
}

// UnpackUleb reads a uleb128 value, rejecting non-minimal encodings
// and values that overflow 64 bits.
func (p *Packer) UnpackUleb() uint64 {
	if p.err != nil {
		return 0
	}
	var value uint64
	for shift := 0; shift < 64; shift += 7 {
		b := p.UnpackByte()
		if p.err != nil {
			return 0
		}
		group := uint64(b & 0x7f)
		if shift == 63 && group > 1 {
			p.err = ErrUlebOverflow
			return 0
		}
		value |= group << shift
		if b < 0x80 {
			if b == 0 && shift != 0 {
				// a zero final group could have been omitted
				p.err = ErrNonCanonicalUleb
				return 0
			}
			return value
		}
	}
	p.err = ErrUlebOverflow
	return 0
}

// PackLen appends a sequence length.
func (p *Packer) PackLen(l int) {
	if p.err != nil {
		return
	}
	if l < 0 {
		p.err = fmt.Errorf("%w: %d", ErrInvalidLength, l)
		return
	}
	p.PackUleb(uint64(l))
}

// UnpackLen reads a sequence length and bounds it by the remaining
// input, so a corrupt prefix cannot demand a huge allocation.
func (p *Packer) UnpackLen() int {
	l := p.UnpackUleb()
	if p.err != nil {
		return 0
	}
	if l > uint64(len(p.b)-p.offset) {
		p.err = fmt.Errorf("%w: %d elements with %d bytes left", ErrInvalidLength, l, len(p.b)-p.offset)
		return 0
	}
	return int(l)
}

// PackBytes appends a length-prefixed byte sequence.
func (p *Packer) PackBytes(b []byte) {
	p.PackLen(len(b))
	p.append(b...)
}

// UnpackBytes reads a length-prefixed byte sequence into [dest]. A
// non-negative [limit] bounds the accepted length.
func (p *Packer) UnpackBytes(limit int, dest *[]byte) {
	l := p.UnpackLen()
	if p.err != nil {
		return
	}
	if limit >= 0 && l > limit {
		p.err = fmt.Errorf("%w: %d > %d", ErrInvalidLength, l, limit)
		return
	}
	b := p.take(l)
	if p.err != nil {
		return
	}
	*dest = make([]byte, l)
	copy(*dest, b)
}

// PackFixedBytes appends [b] with no length prefix.
func (p *Packer) PackFixedBytes(b []byte) {
	p.append(b...)
}

// UnpackFixedBytes reads exactly [size] bytes into [dest].
func (p *Packer) UnpackFixedBytes(size int, dest *[]byte) {
	b := p.take(size)
	if p.err != nil {
		return
	}
	*dest = make([]byte, size)
	copy(*dest, b)
}

// PackString appends a length-prefixed UTF-8 string.
func (p *Packer) PackString(s string) {
	p.PackLen(len(s))
	p.append([]byte(s)...)
}

// UnpackString reads a length-prefixed UTF-8 string. A non-negative
// [limit] bounds the accepted length.
func (p *Packer) UnpackString(limit int) string {
	l := p.UnpackLen()
	if p.err != nil {
		return ""
	}
	if limit >= 0 && l > limit {
		p.err = fmt.Errorf("%w: %d > %d", ErrInvalidLength, l, limit)
		return ""
	}
	b := p.take(l)
	if p.err != nil {
		return ""
	}
	return string(b)
}

// PackAddress appends the raw address bytes (no length prefix).
func (p *Packer) PackAddress(a Address) {
	p.append(a[:]...)
}

func (p *Packer) UnpackAddress(dest *Address) {
	b := p.take(AddressLen)
	if p.err != nil {
		return
	}
	copy(dest[:], b)
}

// PackDigest appends a digest as a length-prefixed byte sequence.
func (p *Packer) PackDigest(d Digest) {
	p.PackLen(DigestLen)
	p.append(d[:]...)
}

// UnpackDigest reads a digest, requiring its length prefix to be
// exactly [DigestLen].
func (p *Packer) UnpackDigest(dest *Digest) {
	l := p.UnpackLen()
	if p.err != nil {
		return
	}
	if l != DigestLen {
		p.err = fmt.Errorf("%w: digest length %d", ErrInvalidSize, l)
		return
	}
	b := p.take(DigestLen)
	if p.err != nil {
		return
	}
	copy(dest[:], b)
}

// Bytes returns the written buffer (writer) or the full input
// (reader). The slice is not copied.
func (p *Packer) Bytes() []byte {
	return p.b
}

// Offset reports the number of bytes written or consumed.
func (p *Packer) Offset() int {
	if p.reading {
		return p.offset
	}
	return len(p.b)
}

// Empty reports whether a reader has consumed its whole input.
func (p *Packer) Empty() bool {
	return p.offset == len(p.b)
}

// SetErr records err unless an earlier failure is already recorded.
func (p *Packer) SetErr(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Packer) Err() error {
	return p.err
}

