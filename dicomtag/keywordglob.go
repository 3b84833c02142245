package dicomtag

import (
	"sort"

	"github.com/gobwas/glob"
)

// FindByKeywordGlob returns every dictionary entry whose keyword matches the
// given glob pattern (e.g. "Patient*", "*UID"), sorted by tag. It backs
// cmd/dicomdump's -match flag and lets tests build collect whitelists from a
// keyword pattern instead of spelling out tags by hand.
//
// This is a local, in-process pattern match over the static dictionary —
// not the DIMSE C-FIND query/retrieve service spec.md's Non-goals exclude.
func FindByKeywordGlob(pattern string) ([]Tag, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var tags []Tag
	for _, e := range dictionaryLow {
		if e.keyword != "" && g.Match(e.keyword) {
			tags = append(tags, e.tag)
		}
	}
	for _, e := range dictionaryHigh {
		if e.keyword != "" && g.Match(e.keyword) {
			tags = append(tags, e.tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Less(tags[j]) })
	return tags, nil
}
