package dicomelement_test

import (
	"testing"

	"github.com/odincare/dicomstream/dicomelement"
	"github.com/odincare/dicomstream/dicomtag"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetString(t *testing.T) {
	e := dicomelement.New()
	e = e.SetString(dicomtag.Tag{Group: 0x0010, Element: 0x0010}, "Zhang San", false, true)
	s, ok := e.GetString(dicomtag.Tag{Group: 0x0010, Element: 0x0010})
	require.True(t, ok)
	require.Equal(t, "Zhang San", s)
}

func TestSetIsImmutable(t *testing.T) {
	e1 := dicomelement.New()
	e2 := e1.SetString(dicomtag.Tag{Group: 0x0010, Element: 0x0020}, "ID1", false, true)
	require.Equal(t, 0, e1.Size())
	require.Equal(t, 1, e2.Size())
}

func TestSetKeepsStrictAscendingOrder(t *testing.T) {
	e := dicomelement.New()
	e = e.SetString(dicomtag.Tag{Group: 0x0020, Element: 0x000D}, "b", false, true)
	e = e.SetString(dicomtag.Tag{Group: 0x0010, Element: 0x0010}, "a", false, true)
	sorted := e.Sorted()
	require.Len(t, sorted, 2)
	require.True(t, sorted[0].Tag().Less(sorted[1].Tag()))
}

func TestSetReplacesExistingTag(t *testing.T) {
	tag := dicomtag.Tag{Group: 0x0010, Element: 0x0010}
	e := dicomelement.New().SetString(tag, "first", false, true)
	e = e.SetString(tag, "second", false, true)
	require.Equal(t, 1, e.Size())
	s, _ := e.GetString(tag)
	require.Equal(t, "second", s)
}

func TestRemove(t *testing.T) {
	tag := dicomtag.Tag{Group: 0x0010, Element: 0x0010}
	e := dicomelement.New().SetString(tag, "x", false, true)
	e2 := e.Remove(tag)
	require.False(t, e2.Contains(tag))
	require.True(t, e.Contains(tag)) // original untouched
}

func TestRemoveAbsentTagIsNoop(t *testing.T) {
	e := dicomelement.New()
	require.Same(t, e, e.Remove(dicomtag.Tag{Group: 0x0010, Element: 0x0010}))
}

func TestSpecificCharacterSetUpdatesDecoders(t *testing.T) {
	e := dicomelement.New().SetString(dicomtag.SpecificCharacterSet, "ISO_IR 100", false, true)
	require.NotNil(t, e.CharacterSets().Ideographic)
}

func TestTimezoneOffsetUpdatesZoneOffset(t *testing.T) {
	e := dicomelement.New().SetString(dicomtag.TimezoneOffsetFromUTC, "-0500", false, true)
	require.NotNil(t, e.ZoneOffset())
}

func TestGetIntAbsentTag(t *testing.T) {
	e := dicomelement.New()
	_, ok := e.GetInt(dicomtag.Tag{Group: 0x0020, Element: 0x0013})
	require.False(t, ok)
}

func TestFilter(t *testing.T) {
	e := dicomelement.New()
	e = e.SetString(dicomtag.Tag{Group: 0x0010, Element: 0x0010}, "a", false, true)
	e = e.SetString(dicomtag.Tag{Group: 0x0010, Element: 0x0020}, "b", false, true)
	filtered := e.Filter(func(es dicomelement.ElementSet) bool {
		return es.Tag().Element == 0x0010
	})
	require.Equal(t, 1, filtered.Size())
}

func TestSetByKeyword(t *testing.T) {
	e := dicomelement.New()
	e2, err := e.SetByKeyword("PatientName", "Zhang San")
	require.NoError(t, err)
	s, ok := e2.GetString(dicomtag.Tag{Group: 0x0010, Element: 0x0010})
	require.True(t, ok)
	require.Equal(t, "Zhang San", s)
}

func TestSetByKeywordUnknown(t *testing.T) {
	e := dicomelement.New()
	_, err := e.SetByKeyword("NotARealKeyword", "x")
	require.Error(t, err)
}

func TestNewChildInheritsCharsetAndZone(t *testing.T) {
	parent := dicomelement.New().
		SetString(dicomtag.SpecificCharacterSet, "ISO_IR 100", false, true).
		SetString(dicomtag.TimezoneOffsetFromUTC, "-0500", false, true)
	child := dicomelement.NewChild(parent)
	require.Equal(t, 0, child.Size())
	require.NotNil(t, child.CharacterSets().Ideographic)
	require.Equal(t, parent.ZoneOffset(), child.ZoneOffset())
}
