package dicomelement_test

import (
	"strings"
	"testing"

	"github.com/odincare/dicomstream/dicomelement"
	"github.com/odincare/dicomstream/dicomtag"
	"github.com/stretchr/testify/require"
)

func TestGoStringRendersValueElements(t *testing.T) {
	e := dicomelement.New().SetString(dicomtag.Tag{Group: 0x0010, Element: 0x0010}, "Zhang San", false, true)
	out := e.GoString()
	require.Contains(t, out, "(0010,0010)")
	require.Contains(t, out, "Zhang San")
}

func TestGoStringRendersNestedSequence(t *testing.T) {
	item := dicomelement.New().SetString(dicomtag.Tag{Group: 0x0020, Element: 0x000D}, "1.2.3", false, true)
	seq := dicomelement.NewSequence(dicomtag.Tag{Group: 0x0008, Element: 0x1110}, false, true).AppendItem(item)
	e := dicomelement.New().Set(seq)

	out := e.GoString()
	require.True(t, strings.Contains(out, "SQ (1 items)"))
	require.True(t, strings.Contains(out, "[1]"))
	require.True(t, strings.Contains(out, "1.2.3"))
}
