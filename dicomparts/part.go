// Package dicomparts defines the typed "part stream" the incremental
// parser (dicomparse) emits and the serializer (dicomwriter) consumes:
// byte-faithful, self-contained fragments of a DICOM stream (spec §4.4).
// Every Part's Raw field (plus ValueChunk/DeflatedChunk's Bytes) holds
// exactly the bytes that produced it, so concatenating them in emission
// order reconstructs the original input. The exception is a deflated
// dataset: its DeflatedChunk parts carry the inflated bytes, and the parts
// parsed from those bytes follow them, so the compressed input is not
// reproduced.
package dicomparts

import "github.com/odincare/dicomstream/dicomtag"

// Part is the sum type every parsed fragment of a DICOM stream belongs to.
type Part interface {
	isPart()
}

// Preamble is the 132-byte file preamble ending in the "DICM" magic.
type Preamble struct {
	Raw [132]byte
}

func (Preamble) isPart() {}

// Header announces a plain (non-sequence, non-fragments) element's tag,
// VR and declared length, before any value bytes have been read. IsFmi
// marks elements read while still inside File Meta Information.
type Header struct {
	Tag         dicomtag.Tag
	VR          dicomtag.VR
	ValueLength uint32
	IsFmi       bool
	BigEndian   bool
	ExplicitVR  bool
	Raw         []byte
}

// ValueChunk carries a (possibly partial) slice of an element's value
// bytes. Last reports whether this chunk completes the element's declared
// length.
type ValueChunk struct {
	BigEndian bool
	Bytes     []byte
	Last      bool
}

func (ValueChunk) isPart() {}
func (Header) isPart()     {}

// Sequence announces an SQ (or UN-masquerading-as-SQ) element's header;
// Length is Indeterminate (0xFFFFFFFF) for an open-ended sequence.
type Sequence struct {
	Tag        dicomtag.Tag
	Length     uint32
	BigEndian  bool
	ExplicitVR bool
	Raw        []byte
}

func (Sequence) isPart() {}

// Item announces entry into one item of the sequence or fragments list
// currently open. Index is 1-based.
type Item struct {
	Index     int
	Length    uint32
	BigEndian bool
	Raw       []byte
}

func (Item) isPart() {}

// ItemDelimitation closes an indeterminate-length item (tag
// 0xFFFE,0xE00D).
type ItemDelimitation struct {
	Index     int
	BigEndian bool
	Raw       []byte
}

func (ItemDelimitation) isPart() {}

// SequenceDelimitation closes an indeterminate-length sequence or a
// fragments list (tag 0xFFFE,0xE0DD).
type SequenceDelimitation struct {
	BigEndian bool
	Raw       []byte
}

func (SequenceDelimitation) isPart() {}

// Fragments announces entry into an encapsulated pixel-data element's
// fragment list (VR OB/OW with indeterminate length). Each fragment that
// follows (the Basic Offset Table included) is emitted as an Item header
// plus its value as ValueChunk(s), exactly like InValue does for a plain
// element.
type Fragments struct {
	Tag        dicomtag.Tag
	Length     uint32
	VR         dicomtag.VR
	BigEndian  bool
	ExplicitVR bool
	Raw        []byte
}

func (Fragments) isPart() {}

// DeflatedChunk carries inflated bytes produced while decompressing a
// Deflated Explicit VR Little Endian transfer syntax's dataset; downstream
// parsing resumes on this decompressed stream as if it had been read
// directly (spec §4.5 "InDeflatedData"). Nowrap reports whether the
// decompressor is running in raw-deflate (no zlib header) mode.
type DeflatedChunk struct {
	BigEndian bool
	Bytes     []byte
	Nowrap    bool
}

func (DeflatedChunk) isPart() {}

// Unknown carries bytes the parser could not interpret — e.g. an
// unexpected tag inside a fragments list — preserved verbatim rather than
// dropped.
type Unknown struct {
	BigEndian bool
	Raw       []byte
}

func (Unknown) isPart() {}

// Indeterminate marks a Sequence, Header (for Fragments), or Item whose
// length is encoded as 0xFFFFFFFF.
const Indeterminate uint32 = 0xFFFFFFFF
