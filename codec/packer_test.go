// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackerFixedWidth(t *testing.T) {
	require := require.New(t)

	p := NewWriter(0, -1)
	p.PackByte(0xab)
	p.PackBool(true)
	p.PackBool(false)
	p.PackUint16(0x0102)
	p.PackUint32(0x01020304)
	p.PackUint64(0x0102030405060708)
	require.NoError(p.Err())
	require.Equal([]byte{
		0xab,
		1,
		0,
		0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}, p.Bytes())

	r := NewReader(p.Bytes(), -1)
	require.Equal(byte(0xab), r.UnpackByte())
	require.True(r.UnpackBool())
	require.False(r.UnpackBool())
	require.Equal(uint16(0x0102), r.UnpackUint16())
	require.Equal(uint32(0x01020304), r.UnpackUint32())
	require.Equal(uint64(0x0102030405060708), r.UnpackUint64())
	require.NoError(r.Err())
	require.True(r.Empty())
}

func TestPackerUleb(t *testing.T) {
	tests := []struct {
		value   uint64
		encoded []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{^uint64(0), []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}

	for _, test := range tests {
		require := require.New(t)

		p := NewWriter(0, -1)
		p.PackUleb(test.value)
		require.NoError(p.Err())
		require.Equal(test.encoded, p.Bytes())

		r := NewReader(test.encoded, -1)
		require.Equal(test.value, r.UnpackUleb())
		require.NoError(r.Err())
		require.True(r.Empty())
	}
}

func TestPackerUlebRejectsNonCanonical(t *testing.T) {
	tests := []struct {
		name    string
		encoded []byte
		err     error
	}{
		{
			// 1 written with a redundant zero final group
			name:    "paddedOne",
			encoded: []byte{0x81, 0x00},
			err:     ErrNonCanonicalUleb,
		},
		{
			name:    "paddedZero",
			encoded: []byte{0x80, 0x00},
			err:     ErrNonCanonicalUleb,
		},
		{
			// 2^64 requires a 65th bit
			name:    "overflow",
			encoded: []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x02},
			err:     ErrUlebOverflow,
		},
		{
			name:    "unterminated",
			encoded: []byte{0x80},
			err:     ErrInsufficientBytes,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			r := NewReader(test.encoded, -1)
			r.UnpackUleb()
			require.ErrorIs(r.Err(), test.err)
		})
	}
}

func TestPackerBoolStrict(t *testing.T) {
	require := require.New(t)
	r := NewReader([]byte{2}, -1)
	r.UnpackBool()
	require.ErrorIs(r.Err(), ErrInvalidBool)
}

func TestPackerBytes(t *testing.T) {
	require := require.New(t)

	p := NewWriter(0, -1)
	p.PackBytes([]byte{1, 2, 3})
	require.NoError(p.Err())
	require.Equal([]byte{3, 1, 2, 3}, p.Bytes())

	r := NewReader(p.Bytes(), -1)
	var b []byte
	r.UnpackBytes(-1, &b)
	require.NoError(r.Err())
	require.Equal([]byte{1, 2, 3}, b)
	require.True(r.Empty())
}

func TestPackerBytesLimit(t *testing.T) {
	require := require.New(t)
	r := NewReader([]byte{3, 1, 2, 3}, -1)
	var b []byte
	r.UnpackBytes(2, &b)
	require.ErrorIs(r.Err(), ErrInvalidLength)
}

func TestPackerLenBoundedByInput(t *testing.T) {
	require := require.New(t)
	// declared 200 elements with 1 byte left
	r := NewReader([]byte{0xc8, 0x01, 0xff}, -1)
	r.UnpackLen()
	require.ErrorIs(r.Err(), ErrInvalidLength)
}

func TestPackerString(t *testing.T) {
	require := require.New(t)

	p := NewWriter(0, -1)
	p.PackString("clob_v2")
	require.NoError(p.Err())
	require.Equal(append([]byte{7}, []byte("clob_v2")...), p.Bytes())

	r := NewReader(p.Bytes(), -1)
	require.Equal("clob_v2", r.UnpackString(-1))
	require.NoError(r.Err())
	require.True(r.Empty())
}

func TestPackerAddress(t *testing.T) {
	require := require.New(t)
	addr := Address{0: 1, 31: 2}

	p := NewWriter(0, -1)
	p.PackAddress(addr)
	require.NoError(p.Err())
	require.Len(p.Bytes(), AddressLen)

	r := NewReader(p.Bytes(), -1)
	var parsed Address
	r.UnpackAddress(&parsed)
	require.NoError(r.Err())
	require.Equal(addr, parsed)
}

func TestPackerDigest(t *testing.T) {
	require := require.New(t)
	d := Digest{0: 7, 31: 9}

	p := NewWriter(0, -1)
	p.PackDigest(d)
	require.NoError(p.Err())
	require.Len(p.Bytes(), DigestLen+1)
	require.Equal(byte(DigestLen), p.Bytes()[0])

	r := NewReader(p.Bytes(), -1)
	var parsed Digest
	r.UnpackDigest(&parsed)
	require.NoError(r.Err())
	require.Equal(d, parsed)
}

func TestPackerDigestBadPrefix(t *testing.T) {
	require := require.New(t)
	b := make([]byte, DigestLen+1)
	b[0] = DigestLen - 1
	r := NewReader(b, -1)
	var parsed Digest
	r.UnpackDigest(&parsed)
	require.ErrorIs(r.Err(), ErrInvalidSize)
}

func TestPackerInsufficientBytes(t *testing.T) {
	require := require.New(t)
	r := NewReader([]byte{1, 2}, -1)
	r.UnpackUint64()
	require.ErrorIs(r.Err(), ErrInsufficientBytes)
}

func TestPackerErrSticky(t *testing.T) {
	require := require.New(t)
	r := NewReader([]byte{2}, -1)
	r.UnpackBool()
	require.ErrorIs(r.Err(), ErrInvalidBool)

	// later reads keep the first error
	r.UnpackUint64()
	require.ErrorIs(r.Err(), ErrInvalidBool)
}

func TestPackerMaxSize(t *testing.T) {
	require := require.New(t)

	p := NewWriter(0, 4)
	p.PackUint32(1)
	require.NoError(p.Err())
	p.PackByte(0)
	require.ErrorIs(p.Err(), ErrTooLarge)

	r := NewReader(make([]byte, 5), 4)
	require.ErrorIs(r.Err(), ErrTooLarge)
}

func TestPackerOffset(t *testing.T) {
	require := require.New(t)

	p := NewWriter(0, -1)
	require.Zero(p.Offset())
	p.PackUint16(1)
	require.Equal(2, p.Offset())

	r := NewReader(p.Bytes(), -1)
	require.Zero(r.Offset())
	require.False(r.Empty())
	r.UnpackUint16()
	require.Equal(2, r.Offset())
	require.True(r.Empty())
}
