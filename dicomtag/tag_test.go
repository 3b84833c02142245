package dicomtag_test

import (
	"testing"

	"github.com/odincare/dicomstream/dicomtag"
	"github.com/stretchr/testify/require"
)

func TestTagOrdering(t *testing.T) {
	a := dicomtag.Tag{Group: 0x0008, Element: 0x0005}
	b := dicomtag.Tag{Group: 0x0008, Element: 0x0010}
	c := dicomtag.Tag{Group: 0x0010, Element: 0x0000}

	require.True(t, a.Less(b))
	require.True(t, b.Less(c))
	require.False(t, b.Less(a))
	require.Equal(t, 0, a.Compare(a))
}

func TestUint32RoundTrip(t *testing.T) {
	tag := dicomtag.Tag{Group: 0x7FE0, Element: 0x0010}
	require.Equal(t, tag, dicomtag.FromUint32(tag.Uint32()))
}

func TestIsPrivate(t *testing.T) {
	require.True(t, dicomtag.IsPrivate(0x0009))
	require.False(t, dicomtag.IsPrivate(0x0008))
}

func TestIsPrivateCreator(t *testing.T) {
	require.True(t, dicomtag.IsPrivateCreator(dicomtag.Tag{Group: 0x0009, Element: 0x0010}))
	require.False(t, dicomtag.IsPrivateCreator(dicomtag.Tag{Group: 0x0009, Element: 0x1000}))
	require.False(t, dicomtag.IsPrivateCreator(dicomtag.Tag{Group: 0x0008, Element: 0x0010}))
}

func TestDebugString(t *testing.T) {
	require.Equal(t, "(0010,0010)[PatientName]", dicomtag.DebugString(dicomtag.Tag{Group: 0x0010, Element: 0x0010}))
	require.Equal(t, "(0009,1000)[private]", dicomtag.DebugString(dicomtag.Tag{Group: 0x0009, Element: 0x1000}))
	require.Equal(t, "(abcc,0001)[??]", dicomtag.DebugString(dicomtag.Tag{Group: 0xABCC, Element: 0x0001}))
}
