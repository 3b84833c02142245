// Package dicomwriter implements the serializer spec §4.8 describes:
// Elements.toBytes, which walks a dataset in tag order and writes out
// exactly the byte grammar dicomparse reads, so that parsing a
// serialized stream reproduces the Elements it came from.
package dicomwriter

import (
	"encoding/binary"

	"github.com/odincare/dicomstream/dicomelement"
	"github.com/odincare/dicomstream/dicomio"
	"github.com/odincare/dicomstream/dicomtag"
)

// ToBytes serializes elements to wire bytes. When withPreamble is set, the
// 128-byte zero preamble and "DICM" magic are written first (spec §4.8
// "If withPreamble: emit 128 zero bytes + DICM").
func ToBytes(elements *dicomelement.Elements, withPreamble bool) []byte {
	enc := dicomio.NewEncoder(binary.LittleEndian)
	if withPreamble {
		enc.WriteZeros(128)
		enc.WriteString("DICM")
	}
	for _, es := range elements.Sorted() {
		writeElementSet(enc, es)
	}
	return enc.Bytes()
}

func byteOrderFor(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func writeElementSet(enc *dicomio.Encoder, es dicomelement.ElementSet) {
	switch v := es.(type) {
	case *dicomelement.ValueElement:
		writeValueElement(enc, v)
	case *dicomelement.Sequence:
		writeSequence(enc, v)
	case *dicomelement.Fragments:
		writeFragments(enc, v)
	}
}

// writeHeader mirrors readHeader's shared rules (spec §4.5 "Header reading
// (shared)") in reverse: implicit VR writes an 8-byte tag+length header;
// explicit VR writes the VR code plus either the short (8-byte) or long
// (12-byte) length form, per vr.IsLong().
func writeHeader(enc *dicomio.Encoder, tag dicomtag.Tag, vr dicomtag.VR, length uint32, bigEndian, explicitVR bool) {
	enc.SetByteOrder(byteOrderFor(bigEndian))
	enc.WriteUint16(tag.Group)
	enc.WriteUint16(tag.Element)
	if !explicitVR {
		enc.WriteUint32(length)
		return
	}
	enc.WriteString(string(vr))
	if vr.IsLong() {
		enc.WriteUint16(0)
		enc.WriteUint32(length)
	} else {
		enc.WriteUint16(uint16(length))
	}
}

// writeSpecialHeader writes the always-8-byte, no-VR header used for Item,
// ItemDelimitationItem and SequenceDelimitation tags, regardless of the
// surrounding transfer syntax's VR style.
func writeSpecialHeader(enc *dicomio.Encoder, tag dicomtag.Tag, length uint32, bigEndian bool) {
	enc.SetByteOrder(byteOrderFor(bigEndian))
	enc.WriteUint16(tag.Group)
	enc.WriteUint16(tag.Element)
	enc.WriteUint32(length)
}

func writeValueElement(enc *dicomio.Encoder, v *dicomelement.ValueElement) {
	val := v.Value()
	writeHeader(enc, v.Tag(), val.VR, v.Length(), val.BigEndian, v.ExplicitVR())
	enc.SetByteOrder(byteOrderFor(val.BigEndian))
	enc.WriteBytes(val.Bytes)
}

func writeSequence(enc *dicomio.Encoder, s *dicomelement.Sequence) {
	writeHeader(enc, s.Tag(), dicomtag.SQ, s.Length(), s.BigEndian(), s.ExplicitVR())
	for _, it := range s.Items() {
		writeItem(enc, it, s.BigEndian())
	}
	if s.Indeterminate() {
		writeSpecialHeader(enc, dicomtag.SequenceDelimitation, 0, s.BigEndian())
	}
}

func writeItem(enc *dicomio.Encoder, it *dicomelement.Item, bigEndian bool) {
	writeSpecialHeader(enc, dicomtag.Item, it.Length(), bigEndian)
	for _, es := range it.Elements().Sorted() {
		writeElementSet(enc, es)
	}
	if it.Indeterminate() {
		writeSpecialHeader(enc, dicomtag.ItemDelimitationItem, 0, bigEndian)
	}
}

func writeFragments(enc *dicomio.Encoder, f *dicomelement.Fragments) {
	writeHeader(enc, f.Tag(), f.VR(), dicomelement.Indeterminate, f.BigEndian(), f.ExplicitVR())
	bo := byteOrderFor(f.BigEndian())

	// The wire format always opens a fragments list with a Basic Offset
	// Table item, even an empty one; dicomsink.Builder relies on that to
	// identify it (fragIndex==1) on reparse. A Fragments value built
	// without WithOffsetTable but with fragments already appended
	// (offsets absent, FrameCount()==1) has no wire representation of
	// its own: the only faithful encoding still opens with a BOT item,
	// so round-tripping such a value normalizes it to "BOT present but
	// empty" (FrameCount()==0). That construction-only state is for
	// building up fragments before a WithOffsetTable call, not for
	// serializing directly.
	if f.HasOffsetTable() {
		offsets := f.Offsets()
		buf := make([]byte, 4*len(offsets))
		for i, o := range offsets {
			bo.PutUint32(buf[i*4:], uint32(o))
		}
		writeSpecialHeader(enc, dicomtag.Item, uint32(len(buf)), f.BigEndian())
		enc.SetByteOrder(bo)
		enc.WriteBytes(buf)
	} else {
		writeSpecialHeader(enc, dicomtag.Item, 0, f.BigEndian())
	}

	for _, frag := range f.RawFragments() {
		writeSpecialHeader(enc, dicomtag.Item, uint32(len(frag)), f.BigEndian())
		enc.SetByteOrder(bo)
		enc.WriteBytes(frag)
	}

	writeSpecialHeader(enc, dicomtag.SequenceDelimitation, 0, f.BigEndian())
}
