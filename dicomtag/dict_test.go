package dicomtag_test

import (
	"testing"

	"github.com/odincare/dicomstream/dicomtag"
	"github.com/stretchr/testify/require"
)

func TestVROfKnownAndUnknown(t *testing.T) {
	require.Equal(t, dicomtag.PN, dicomtag.VROf(dicomtag.Tag{Group: 0x0010, Element: 0x0010}))
	require.Equal(t, dicomtag.UN, dicomtag.VROf(dicomtag.Tag{Group: 0x0011, Element: 0x1234})) // private, non-creator
	require.Equal(t, dicomtag.LO, dicomtag.VROf(dicomtag.Tag{Group: 0x0011, Element: 0x0010})) // private creator
	require.Equal(t, dicomtag.UL, dicomtag.VROf(dicomtag.Tag{Group: 0x0010, Element: 0x0000})) // group length
}

func TestVROfUnrecognizedPublicTag(t *testing.T) {
	require.Equal(t, dicomtag.UN, dicomtag.VROf(dicomtag.Tag{Group: 0x0010, Element: 0x9999}))
}

func TestKeywordOfAndFindByKeyword(t *testing.T) {
	require.Equal(t, "PatientName", dicomtag.KeywordOf(dicomtag.Tag{Group: 0x0010, Element: 0x0010}))
	require.Equal(t, "", dicomtag.KeywordOf(dicomtag.Tag{Group: 0x0010, Element: 0x9999}))

	tag, ok := dicomtag.FindByKeyword("PatientName")
	require.True(t, ok)
	require.Equal(t, dicomtag.Tag{Group: 0x0010, Element: 0x0010}, tag)

	_, ok = dicomtag.FindByKeyword("NotARealKeyword")
	require.False(t, ok)
}

func TestVMOfFallsBackToOneToMany(t *testing.T) {
	vm := dicomtag.VMOf(dicomtag.Tag{Group: 0x0010, Element: 0x9999})
	require.Equal(t, dicomtag.VMOneToMany, vm.Kind)
}

func TestVMAllows(t *testing.T) {
	require.True(t, dicomtag.Single().Allows(1))
	require.False(t, dicomtag.Single().Allows(2))
	require.True(t, dicomtag.Fixed(3).Allows(3))
	require.False(t, dicomtag.Fixed(3).Allows(2))
	require.True(t, dicomtag.Bounded(0, 2).Allows(0))
	require.False(t, dicomtag.Bounded(0, 2).Allows(3))
	require.True(t, dicomtag.OneToMany().Allows(5))
	require.False(t, dicomtag.OneToMany().Allows(0))
}

func TestFindByKeywordGlob(t *testing.T) {
	tags, err := dicomtag.FindByKeywordGlob("Patient*")
	require.NoError(t, err)
	require.NotEmpty(t, tags)
	for i := 1; i < len(tags); i++ {
		require.True(t, tags[i-1].Less(tags[i]) || tags[i-1] == tags[i])
	}

	nameTag, ok := dicomtag.FindByKeyword("PatientName")
	require.True(t, ok)
	require.Contains(t, tags, nameTag)
}

func TestFindByKeywordGlobBadPattern(t *testing.T) {
	_, err := dicomtag.FindByKeywordGlob("[")
	require.Error(t, err)
}
