// Package dicomio provides the low-level byte-order-aware write helpers
// the serializer builds on, and the pull-based Reader the incremental
// parser consumes bytes through (spec §4.5 "Reader").
package dicomio

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Encoder accumulates encoded bytes in memory, tracking the transfer
// syntax's byte order so callers don't have to thread it through every
// call.
type Encoder struct {
	out       bytes.Buffer
	byteorder binary.ByteOrder
}

// NewEncoder creates an Encoder that writes in the given byte order.
func NewEncoder(byteorder binary.ByteOrder) *Encoder {
	return &Encoder{byteorder: byteorder}
}

// ByteOrder returns the encoder's active byte order.
func (e *Encoder) ByteOrder() binary.ByteOrder { return e.byteorder }

// SetByteOrder switches the encoder's byte order, e.g. when the dataset's
// transfer syntax differs from File Meta Information's (always little
// endian).
func (e *Encoder) SetByteOrder(byteorder binary.ByteOrder) { e.byteorder = byteorder }

// Bytes returns everything written so far.
func (e *Encoder) Bytes() []byte { return e.out.Bytes() }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return e.out.Len() }

func (e *Encoder) WriteByte(v byte) { e.out.WriteByte(v) }

func (e *Encoder) WriteUint16(v uint16) {
	var b [2]byte
	e.byteorder.PutUint16(b[:], v)
	e.out.Write(b[:])
}

func (e *Encoder) WriteUint32(v uint32) {
	var b [4]byte
	e.byteorder.PutUint32(b[:], v)
	e.out.Write(b[:])
}

func (e *Encoder) WriteInt16(v int16) { e.WriteUint16(uint16(v)) }
func (e *Encoder) WriteInt32(v int32) { e.WriteUint32(uint32(v)) }

func (e *Encoder) WriteFloat32(v float32) { e.WriteUint32(math.Float32bits(v)) }

func (e *Encoder) WriteUint64(v uint64) {
	var b [8]byte
	e.byteorder.PutUint64(b[:], v)
	e.out.Write(b[:])
}

func (e *Encoder) WriteFloat64(v float64) { e.WriteUint64(math.Float64bits(v)) }

// WriteString writes v verbatim, with no length prefix or padding; callers
// are expected to have already padded via dicomvalue.New.
func (e *Encoder) WriteString(v string) { e.out.WriteString(v) }

// WriteBytes copies v verbatim.
func (e *Encoder) WriteBytes(v []byte) { e.out.Write(v) }

// WriteZeros writes n zero bytes, e.g. a file preamble.
func (e *Encoder) WriteZeros(n int) {
	e.out.Write(make([]byte, n))
}
