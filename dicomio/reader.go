package dicomio

import "encoding/binary"

// Reader is a pull-based byte source: the caller Feeds it chunks as they
// arrive and the parser Ensures enough bytes are buffered before Taking
// them, so a multi-megabyte pixel-data element never has to sit fully in
// memory at once and a parse step never blocks waiting on I/O (spec §4.5
// "Reader").
type Reader struct {
	buf       []byte
	pos       int64
	closed    bool
	byteorder binary.ByteOrder
}

// NewReader creates an empty Reader; Feed supplies its bytes.
func NewReader(byteorder binary.ByteOrder) *Reader {
	return &Reader{byteorder: byteorder}
}

// Feed appends newly-arrived bytes to the buffer.
func (r *Reader) Feed(data []byte) {
	r.buf = append(r.buf, data...)
}

// Close marks the upstream as exhausted: no further Feed calls will add
// data. IsUpstreamClosed lets the parser distinguish "need more bytes"
// from "truncated stream".
func (r *Reader) Close() { r.closed = true }

// IsUpstreamClosed reports whether Close has been called.
func (r *Reader) IsUpstreamClosed() bool { return r.closed }

// Ensure reports whether at least n bytes are currently buffered.
func (r *Reader) Ensure(n int) bool { return len(r.buf) >= n }

// RemainingData returns every buffered byte not yet Taken.
func (r *Reader) RemainingData() []byte { return r.buf }

// Pos returns the cumulative number of bytes Taken so far, for error
// positions.
func (r *Reader) Pos() int64 { return r.pos }

// ByteOrder returns the reader's active byte order.
func (r *Reader) ByteOrder() binary.ByteOrder { return r.byteorder }

// SetByteOrder switches the reader's byte order, used when a File Meta
// Information parse (always little endian) hands off to a dataset whose
// transfer syntax is big endian.
func (r *Reader) SetByteOrder(byteorder binary.ByteOrder) { r.byteorder = byteorder }

// Take consumes and returns the first n buffered bytes. The caller must
// have checked Ensure(n) first; Take panics if fewer than n bytes are
// buffered, since that is always a parser bug (the state machine must
// re-Ensure before every Take).
func (r *Reader) Take(n int) []byte {
	if n > len(r.buf) {
		panic("dicomio: Take beyond buffered data")
	}
	out := r.buf[:n:n]
	r.buf = r.buf[n:]
	r.pos += int64(n)
	return out
}

// Peek returns the first n buffered bytes without consuming them.
func (r *Reader) Peek(n int) []byte {
	if n > len(r.buf) {
		n = len(r.buf)
	}
	return r.buf[:n]
}

// TakeUint16 consumes a 2-byte integer in the reader's byte order.
func (r *Reader) TakeUint16() uint16 {
	return r.byteorder.Uint16(r.Take(2))
}

// TakeUint32 consumes a 4-byte integer in the reader's byte order.
func (r *Reader) TakeUint32() uint32 {
	return r.byteorder.Uint32(r.Take(4))
}
