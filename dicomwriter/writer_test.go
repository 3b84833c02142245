package dicomwriter_test

import (
	"bytes"
	"testing"

	"github.com/odincare/dicomstream/dicomelement"
	"github.com/odincare/dicomstream/dicomparse"
	"github.com/odincare/dicomstream/dicomsink"
	"github.com/odincare/dicomstream/dicomtag"
	"github.com/odincare/dicomstream/dicomvalue"
	"github.com/odincare/dicomstream/dicomwriter"
	"github.com/stretchr/testify/require"
)

func TestToBytesWithPreamble(t *testing.T) {
	e := dicomelement.New()
	out := dicomwriter.ToBytes(e, true)
	require.Len(t, out, 132)
	require.Equal(t, make([]byte, 128), out[:128])
	require.Equal(t, "DICM", string(out[128:]))
}

func TestToBytesWithoutPreamble(t *testing.T) {
	e := dicomelement.New()
	out := dicomwriter.ToBytes(e, false)
	require.Empty(t, out)
}

func TestRoundTripFlatDatasetThroughParseAndSink(t *testing.T) {
	patientName := dicomtag.Tag{Group: 0x0010, Element: 0x0010}
	e := dicomelement.New().SetString(patientName, "DOE^JANE", false, false)

	raw := dicomwriter.ToBytes(e, false)

	parts, err := dicomparse.ParseAll(bytes.NewReader(raw), dicomparse.Options{})
	require.NoError(t, err)

	got, err := dicomsink.Sink(parts)
	require.NoError(t, err)

	name, ok := got.GetString(patientName)
	require.True(t, ok)
	require.Equal(t, "DOE^JANE", name)
}

func TestRoundTripSequenceWithItems(t *testing.T) {
	itemTag := dicomtag.Tag{Group: 0x0020, Element: 0x000D}
	seqTag := dicomtag.Tag{Group: 0x0008, Element: 0x1110}

	item := dicomelement.New().SetString(itemTag, "1.2.840", false, false)
	seq := dicomelement.NewSequence(seqTag, false, false).AppendItem(item)
	e := dicomelement.New().Set(seq)

	raw := dicomwriter.ToBytes(e, false)

	parts, err := dicomparse.ParseAll(bytes.NewReader(raw), dicomparse.Options{})
	require.NoError(t, err)

	got, err := dicomsink.Sink(parts)
	require.NoError(t, err)

	seqSet, ok := got.Get(seqTag)
	require.True(t, ok)
	gotSeq := seqSet.(*dicomelement.Sequence)
	require.Len(t, gotSeq.Items(), 1)

	uid, ok := gotSeq.Items()[0].Elements().GetString(itemTag)
	require.True(t, ok)
	require.Equal(t, "1.2.840", uid)
}

func TestRoundTripFragmentsWithOffsetTable(t *testing.T) {
	pixelData := dicomtag.Tag{Group: 0x7FE0, Element: 0x0010}

	frags := dicomelement.NewFragments(pixelData, dicomtag.OB, false, false).
		WithOffsetTable([]uint64{0}).
		AppendFragment([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	e := dicomelement.New().Set(frags)

	raw := dicomwriter.ToBytes(e, false)

	parts, err := dicomparse.ParseAll(bytes.NewReader(raw), dicomparse.Options{})
	require.NoError(t, err)

	got, err := dicomsink.Sink(parts)
	require.NoError(t, err)

	fragSet, ok := got.Get(pixelData)
	require.True(t, ok)
	gotFrags := fragSet.(*dicomelement.Fragments)
	require.True(t, gotFrags.HasOffsetTable())
	require.Equal(t, []uint64{0}, gotFrags.Offsets())
	require.Equal(t, [][]byte{{0xAA, 0xBB, 0xCC, 0xDD}}, gotFrags.RawFragments())
}

// A Fragments value with no offset table but fragments already appended is
// a construction-only state (see dicomwriter.writeFragments): the wire
// format always opens a fragments list with a Basic Offset Table item, so
// serializing this state necessarily normalizes it to "BOT present but
// empty" on reparse rather than losing or misreading the fragment data.
func TestRoundTripFragmentsWithoutOffsetTableNormalizesOnReparse(t *testing.T) {
	pixelData := dicomtag.Tag{Group: 0x7FE0, Element: 0x0010}

	frags := dicomelement.NewFragments(pixelData, dicomtag.OB, false, false).
		AppendFragment([]byte{0x01, 0x02, 0x03, 0x04})
	require.False(t, frags.HasOffsetTable())
	require.Equal(t, 1, frags.FrameCount())
	e := dicomelement.New().Set(frags)

	raw := dicomwriter.ToBytes(e, false)

	parts, err := dicomparse.ParseAll(bytes.NewReader(raw), dicomparse.Options{})
	require.NoError(t, err)

	got, err := dicomsink.Sink(parts)
	require.NoError(t, err)

	fragSet, ok := got.Get(pixelData)
	require.True(t, ok)
	gotFrags := fragSet.(*dicomelement.Fragments)
	require.True(t, gotFrags.HasOffsetTable())
	require.Empty(t, gotFrags.Offsets())
	require.Equal(t, 0, gotFrags.FrameCount())
	require.Equal(t, [][]byte{{0x01, 0x02, 0x03, 0x04}}, gotFrags.RawFragments())
}

func TestToBytesIsByteFaithfulForSingleElement(t *testing.T) {
	tag := dicomtag.Tag{Group: 0x0010, Element: 0x0020}
	e := dicomelement.New().Set(dicomelement.NewValueElement(tag, dicomvalue.New(dicomtag.LO, false, []byte("ID1")), false))

	raw := dicomwriter.ToBytes(e, false)
	// implicit VR: 4-byte tag + 4-byte length + padded value.
	require.Equal(t, uint16(0x0010), uint16(raw[0])|uint16(raw[1])<<8)
	require.Equal(t, uint16(0x0020), uint16(raw[2])|uint16(raw[3])<<8)
	length := uint32(raw[4]) | uint32(raw[5])<<8 | uint32(raw[6])<<16 | uint32(raw[7])<<24
	require.Equal(t, uint32(4), length) // "ID1" padded to even length
	require.Equal(t, []byte("ID1 "), raw[8:]) // LO pads with a space, not NUL
}
