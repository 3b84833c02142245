package dicomelement_test

import (
	"testing"

	"github.com/odincare/dicomstream/dicomelement"
	"github.com/odincare/dicomstream/dicomtag"
	"github.com/stretchr/testify/require"
)

func TestSequenceAppendItem(t *testing.T) {
	seq := dicomelement.NewSequence(dicomtag.Tag{Group: 0x0008, Element: 0x1110}, false, true)
	item := dicomelement.New().SetString(dicomtag.Tag{Group: 0x0020, Element: 0x000D}, "1.2.3", false, true)
	seq = seq.AppendItem(item)

	require.Len(t, seq.Items(), 1)
	got, ok := seq.Item(1)
	require.True(t, ok)
	s, _ := got.Elements().GetString(dicomtag.Tag{Group: 0x0020, Element: 0x000D})
	require.Equal(t, "1.2.3", s)
}

func TestSequenceItemOutOfRange(t *testing.T) {
	seq := dicomelement.NewSequence(dicomtag.Tag{Group: 0x0008, Element: 0x1110}, false, true)
	_, ok := seq.Item(1)
	require.False(t, ok)
}

func TestSequenceIndeterminateByDefault(t *testing.T) {
	seq := dicomelement.NewSequence(dicomtag.Tag{Group: 0x0008, Element: 0x1110}, false, true)
	require.True(t, seq.Indeterminate())
}

func TestFragmentsFrameCountNoOffsetTable(t *testing.T) {
	f := dicomelement.NewFragments(dicomtag.PixelData, dicomtag.OB, false, false)
	require.Equal(t, 0, f.FrameCount())

	f = f.AppendFragment([]byte{1, 2, 3, 4})
	require.Equal(t, 1, f.FrameCount())
	require.Equal(t, [][]byte{{1, 2, 3, 4}}, f.Frames())
}

func TestFragmentsFrameCountWithOffsetTable(t *testing.T) {
	f := dicomelement.NewFragments(dicomtag.PixelData, dicomtag.OB, false, false)
	f = f.WithOffsetTable([]uint64{0, 4})
	f = f.AppendFragment([]byte{1, 2, 3, 4})
	f = f.AppendFragment([]byte{5, 6, 7, 8})

	require.Equal(t, 2, f.FrameCount())
	frames := f.Frames()
	require.Equal(t, []byte{1, 2, 3, 4}, frames[0])
	require.Equal(t, []byte{5, 6, 7, 8}, frames[1])
}

func TestFragmentsEmptyOffsetTableYieldsNoFrames(t *testing.T) {
	f := dicomelement.NewFragments(dicomtag.PixelData, dicomtag.OB, false, false)
	f = f.WithOffsetTable(nil)
	require.True(t, f.HasOffsetTable())
	require.Nil(t, f.Frames())
}

func TestItemWithElementsRecomputesLength(t *testing.T) {
	ds := dicomelement.New().SetString(dicomtag.Tag{Group: 0x0020, Element: 0x000D}, "1.2", false, true)
	it := dicomelement.NewItem(ds, false, false)
	require.False(t, it.Indeterminate())

	bigger := ds.SetString(dicomtag.Tag{Group: 0x0020, Element: 0x000E}, "1.2.3.4", false, true)
	it2 := it.WithElements(bigger)
	require.True(t, it2.Length() > it.Length())
}
