package dicomelement

import (
	"fmt"
	"strings"

	"github.com/odincare/dicomstream/dicomtag"
)

// GoString renders the dataset as an indented tree of tag/VR/value lines,
// for use in %#v formatting and as the dicomdump CLI's output.
func (e *Elements) GoString() string {
	var b strings.Builder
	e.writeTree(&b, 0)
	return b.String()
}

func (e *Elements) writeTree(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, es := range e.Sorted() {
		switch v := es.(type) {
		case *ValueElement:
			fmt.Fprintf(b, "%s%s %s %v\n", indent, v.Tag(), v.Value().VR, v.Value().ToStrings(e.characterSets))
		case *Sequence:
			fmt.Fprintf(b, "%s%s SQ (%d items)\n", indent, v.Tag(), len(v.items))
			for i, item := range v.items {
				fmt.Fprintf(b, "%s  [%d]\n", indent, i+1)
				item.Elements().writeTree(b, depth+2)
			}
		case *Fragments:
			fmt.Fprintf(b, "%s%s %s (%d frames)\n", indent, v.Tag(), v.VR(), v.FrameCount())
		default:
			fmt.Fprintf(b, "%s%s <unknown>\n", indent, tagOf(es))
		}
	}
}

func tagOf(es ElementSet) dicomtag.Tag { return es.Tag() }
