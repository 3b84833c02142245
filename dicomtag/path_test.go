package dicomtag_test

import (
	"testing"

	"github.com/odincare/dicomstream/dicomtag"
	"github.com/stretchr/testify/require"
)

func TestPathHasTrunk(t *testing.T) {
	seq := dicomtag.Root.ThenSequence(dicomtag.Tag{Group: 0x0008, Element: 0x1110})
	item := seq.ThenItem(1)
	leaf := item.Thenelem(dicomtag.Tag{Group: 0x0020, Element: 0x000D})

	require.True(t, leaf.HasTrunk(seq))
	require.True(t, leaf.HasTrunk(leaf))
	require.True(t, seq.IsTrunkOf(leaf))
	require.False(t, seq.HasTrunk(leaf))
}

func TestPathRootIsEmpty(t *testing.T) {
	require.True(t, dicomtag.Root.IsRoot())
	require.Equal(t, 0, dicomtag.Root.Depth())
	require.Equal(t, "<root>", dicomtag.Root.String())
}

func TestPathEqual(t *testing.T) {
	tag := dicomtag.Tag{Group: 0x0010, Element: 0x0010}
	a := dicomtag.Root.Thenelem(tag)
	b := dicomtag.Root.Thenelem(tag)
	require.True(t, a.Equal(b))

	other := dicomtag.Root.Thenelem(dicomtag.Tag{Group: 0x0010, Element: 0x0020})
	require.False(t, a.Equal(other))
}

func TestPathHeadTag(t *testing.T) {
	top := dicomtag.Tag{Group: 0x0008, Element: 0x1110}
	leaf := dicomtag.Root.ThenSequence(top).ThenItem(1).Thenelem(dicomtag.Tag{Group: 0x0020, Element: 0x000D})
	require.Equal(t, top, leaf.HeadTag())
	require.Equal(t, dicomtag.Tag{}, dicomtag.Root.HeadTag())
}

func TestTreeWhitelistFormula(t *testing.T) {
	patientName := dicomtag.Tag{Group: 0x0010, Element: 0x0010}
	studySeq := dicomtag.Tag{Group: 0x0008, Element: 0x1110}
	tree := dicomtag.NewTree(patientName, studySeq)

	require.False(t, tree.IsEmpty())
	require.True(t, tree.HasTrunk(dicomtag.Root.Thenelem(patientName)))
	require.True(t, tree.IsTrunkOf(dicomtag.Root.ThenSequence(studySeq).ThenItem(1).Thenelem(patientName)))

	max, ok := tree.MaxHead()
	require.True(t, ok)
	require.Equal(t, studySeq, max)
}

func TestEmptyTreeHasNoMaxHead(t *testing.T) {
	tree := dicomtag.NewTree()
	require.True(t, tree.IsEmpty())
	_, ok := tree.MaxHead()
	require.False(t, ok)
}
