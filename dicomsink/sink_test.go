package dicomsink_test

import (
	"testing"

	"github.com/odincare/dicomstream/dicomelement"
	"github.com/odincare/dicomstream/dicomparts"
	"github.com/odincare/dicomstream/dicomsink"
	"github.com/odincare/dicomstream/dicomtag"
	"github.com/stretchr/testify/require"
)

func header(tag dicomtag.Tag, vr dicomtag.VR, value []byte) []dicomparts.Part {
	h := dicomparts.Header{Tag: tag, VR: vr, ValueLength: uint32(len(value)), Raw: make([]byte, 8)}
	if len(value) == 0 {
		return []dicomparts.Part{h}
	}
	return []dicomparts.Part{h, dicomparts.ValueChunk{Bytes: value, Last: true}}
}

func TestSinkFlatDataset(t *testing.T) {
	var parts []dicomparts.Part
	parts = append(parts, header(dicomtag.Tag{Group: 0x0010, Element: 0x0010}, dicomtag.PN, []byte("DOE^JANE"))...)
	parts = append(parts, header(dicomtag.Tag{Group: 0x0010, Element: 0x0020}, dicomtag.LO, []byte("ID1"))...)

	elements, err := dicomsink.Sink(parts)
	require.NoError(t, err)

	name, ok := elements.GetString(dicomtag.Tag{Group: 0x0010, Element: 0x0010})
	require.True(t, ok)
	require.Equal(t, "DOE^JANE", name)

	id, ok := elements.GetString(dicomtag.Tag{Group: 0x0010, Element: 0x0020})
	require.True(t, ok)
	require.Equal(t, "ID1", id)
}

func TestSinkZeroLengthElement(t *testing.T) {
	parts := header(dicomtag.Tag{Group: 0x0008, Element: 0x0005}, dicomtag.CS, nil)
	elements, err := dicomsink.Sink(parts)
	require.NoError(t, err)
	v, ok := elements.GetValueElement(dicomtag.Tag{Group: 0x0008, Element: 0x0005})
	require.True(t, ok)
	require.Equal(t, uint32(0), v.Length())
}

func TestSinkDefiniteLengthSequenceAutoCloses(t *testing.T) {
	itemTag := dicomtag.Tag{Group: 0x0020, Element: 0x000D}
	itemHeader := header(itemTag, dicomtag.UI, []byte("1.2.3\x00"))
	itemContentBytes := uint32(8 + len(itemHeader[1].(dicomparts.ValueChunk).Bytes))
	itemRawLen := uint32(8)

	seqTag := dicomtag.Tag{Group: 0x0008, Element: 0x1110}

	var parts []dicomparts.Part
	parts = append(parts, dicomparts.Sequence{Tag: seqTag, Length: itemRawLen + itemContentBytes, Raw: make([]byte, 12)})
	parts = append(parts, dicomparts.Item{Index: 1, Length: itemContentBytes, Raw: make([]byte, itemRawLen)})
	parts = append(parts, itemHeader...)
	// no ItemDelimitation/SequenceDelimitation: both close via byte budget.

	elements, err := dicomsink.Sink(parts)
	require.NoError(t, err)

	seqSet, ok := elements.Get(seqTag)
	require.True(t, ok)
	seq, ok := seqSet.(*dicomelement.Sequence)
	require.True(t, ok)
	require.False(t, seq.Indeterminate())
	require.Len(t, seq.Items(), 1)

	uid, ok := seq.Items()[0].Elements().GetString(itemTag)
	require.True(t, ok)
	require.Equal(t, "1.2.3", uid)
}

func TestSinkIndeterminateSequenceClosedByDelimiters(t *testing.T) {
	itemTag := dicomtag.Tag{Group: 0x0020, Element: 0x000D}
	itemHeader := header(itemTag, dicomtag.UI, []byte("9.9.9\x00"))
	seqTag := dicomtag.Tag{Group: 0x0008, Element: 0x1110}

	var parts []dicomparts.Part
	parts = append(parts, dicomparts.Sequence{Tag: seqTag, Length: dicomparts.Indeterminate, Raw: make([]byte, 12)})
	parts = append(parts, dicomparts.Item{Index: 1, Length: dicomparts.Indeterminate, Raw: make([]byte, 8)})
	parts = append(parts, itemHeader...)
	parts = append(parts, dicomparts.ItemDelimitation{Index: 1, Raw: make([]byte, 8)})
	parts = append(parts, dicomparts.SequenceDelimitation{Raw: make([]byte, 8)})

	elements, err := dicomsink.Sink(parts)
	require.NoError(t, err)

	seqSet, ok := elements.Get(seqTag)
	require.True(t, ok)
	seq, ok := seqSet.(*dicomelement.Sequence)
	require.True(t, ok)
	require.True(t, seq.Indeterminate())
	require.Len(t, seq.Items(), 1)
}

func TestSinkFragmentsWithOffsetTable(t *testing.T) {
	pixelData := dicomtag.Tag{Group: 0x7FE0, Element: 0x0010}

	var parts []dicomparts.Part
	parts = append(parts, dicomparts.Fragments{Tag: pixelData, VR: dicomtag.OB, Length: dicomparts.Indeterminate, Raw: make([]byte, 12)})
	// Basic Offset Table: one 4-byte little-endian entry.
	parts = append(parts, dicomparts.Item{Index: 1, Length: 4, Raw: make([]byte, 8)})
	parts = append(parts, dicomparts.ValueChunk{Bytes: []byte{0x00, 0x00, 0x00, 0x00}, Last: true})
	// one raw fragment.
	frag := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	parts = append(parts, dicomparts.Item{Index: 2, Length: uint32(len(frag)), Raw: make([]byte, 8)})
	parts = append(parts, dicomparts.ValueChunk{Bytes: frag, Last: true})
	parts = append(parts, dicomparts.SequenceDelimitation{Raw: make([]byte, 8)})

	elements, err := dicomsink.Sink(parts)
	require.NoError(t, err)

	fragSet, ok := elements.Get(pixelData)
	require.True(t, ok)
	fragments, ok := fragSet.(*dicomelement.Fragments)
	require.True(t, ok)
	require.True(t, fragments.HasOffsetTable())
	require.Equal(t, []uint64{0}, fragments.Offsets())
	require.Equal(t, [][]byte{frag}, fragments.RawFragments())
	require.Equal(t, 1, fragments.FrameCount())
}

func TestSinkFragmentsWithoutOffsetTableStillWorks(t *testing.T) {
	pixelData := dicomtag.Tag{Group: 0x7FE0, Element: 0x0010}
	frag := []byte{0x01, 0x02}

	var parts []dicomparts.Part
	parts = append(parts, dicomparts.Fragments{Tag: pixelData, VR: dicomtag.OB, Length: dicomparts.Indeterminate, Raw: make([]byte, 12)})
	parts = append(parts, dicomparts.Item{Index: 1, Length: 0, Raw: make([]byte, 8)}) // zero-length BOT
	parts = append(parts, dicomparts.Item{Index: 2, Length: uint32(len(frag)), Raw: make([]byte, 8)})
	parts = append(parts, dicomparts.ValueChunk{Bytes: frag, Last: true})
	parts = append(parts, dicomparts.SequenceDelimitation{Raw: make([]byte, 8)})

	elements, err := dicomsink.Sink(parts)
	require.NoError(t, err)

	fragSet, ok := elements.Get(pixelData)
	require.True(t, ok)
	fragments := fragSet.(*dicomelement.Fragments)
	require.True(t, fragments.HasOffsetTable())
	require.Empty(t, fragments.Offsets())
	require.Equal(t, [][]byte{frag}, fragments.RawFragments())
}

func TestBuildFailsOnUnclosedSequence(t *testing.T) {
	b := dicomsink.NewBuilder()
	seqTag := dicomtag.Tag{Group: 0x0008, Element: 0x1110}
	require.NoError(t, b.Feed(dicomparts.Sequence{Tag: seqTag, Length: dicomparts.Indeterminate, Raw: make([]byte, 12)}))

	_, err := b.Build()
	require.Error(t, err)
}

func TestBuilderFeedIgnoresDeflatedChunk(t *testing.T) {
	b := dicomsink.NewBuilder()
	err := b.Feed(dicomparts.DeflatedChunk{Bytes: []byte{1}})
	require.NoError(t, err) // Preamble/DeflatedChunk/Unknown are explicitly ignored.
}
