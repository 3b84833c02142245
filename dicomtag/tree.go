package dicomtag

// Tree is a tree of tag paths used to express a selection whitelist (spec
// §3 "TagTree", §4.6). Each node in the tree corresponds to one path depth;
// Heads returns the top-level tags the tree was built from, which the
// collect flow's default stop condition compares against.
type Tree struct {
	paths []*Path
}

// NewTree builds a Tree from a flat list of top-level tags. Each tag
// becomes a single-element Path rooted at Root — the common case for a
// whitelist of "tags of interest" (spec §4.6's worked example).
func NewTree(tags ...Tag) *Tree {
	t := &Tree{}
	for _, tag := range tags {
		t.paths = append(t.paths, Root.Thenelem(tag))
	}
	return t
}

// NewTreeFromPaths builds a Tree from arbitrary, possibly-nested paths.
func NewTreeFromPaths(paths ...*Path) *Tree {
	return &Tree{paths: paths}
}

// IsEmpty reports whether the tree carries no paths at all.
func (t *Tree) IsEmpty() bool {
	return t == nil || len(t.paths) == 0
}

// HasTrunk reports whether any path in the tree is a trunk of (a prefix
// of, or equal to) the given path.
func (t *Tree) HasTrunk(path *Path) bool {
	if t == nil {
		return false
	}
	for _, p := range t.paths {
		if p.IsTrunkOf(path) || p.Equal(path) {
			return true
		}
	}
	return false
}

// IsTrunkOf reports whether the given path is a trunk of any path in the
// tree — i.e. path is an ancestor (or self) of something the tree selects.
func (t *Tree) IsTrunkOf(path *Path) bool {
	if t == nil {
		return false
	}
	for _, p := range t.paths {
		if path.IsTrunkOf(p) || path.Equal(p) {
			return true
		}
	}
	return false
}

// Heads returns the top-level tag of every path in the tree, in insertion
// order (may contain duplicates).
func (t *Tree) Heads() []Tag {
	if t == nil {
		return nil
	}
	heads := make([]Tag, 0, len(t.paths))
	for _, p := range t.paths {
		heads = append(heads, p.HeadTag())
	}
	return heads
}

// MaxHead returns the largest top-level tag among the tree's paths. Used by
// the default stop condition: collect.isRoot && path.tag > MaxHead (spec
// §4.6).
func (t *Tree) MaxHead() (Tag, bool) {
	heads := t.Heads()
	if len(heads) == 0 {
		return Tag{}, false
	}
	max := heads[0]
	for _, h := range heads[1:] {
		if max.Less(h) {
			max = h
		}
	}
	return max, true
}
