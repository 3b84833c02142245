package dicomtag

import "fmt"

// PathKind distinguishes the four TagPath node shapes from spec §3
// "TagPath": Empty, Tag, Sequence, Item.
type PathKind int

const (
	PathEmpty PathKind = iota
	PathTag
	PathSequence
	PathItem
)

// Path is a persistent, immutable linked list describing a navigation from
// the dataset root down to one element, sequence, or item. Each node holds
// a pointer to its Previous node, so distinct paths can share common
// prefixes (spec §9 "arena + index or persistent linked structure are both
// acceptable").
type Path struct {
	kind     PathKind
	previous *Path
	tag      Tag
	// index is 1-based, meaningful only for PathItem (spec §3 "Indexes are
	// 1-based").
	index int
}

// Root is the empty path, the starting point for every navigation.
var Root = &Path{kind: PathEmpty}

// Kind reports which of the four node shapes p is.
func (p *Path) Kind() PathKind { return p.kind }

// Previous returns the path this node was built from, or nil for Root.
func (p *Path) Previous() *Path { return p.previous }

// Tag returns the tag this node addresses. Valid for PathTag, PathSequence
// and PathItem; returns the zero Tag for PathEmpty.
func (p *Path) Tag() Tag { return p.tag }

// Index returns the 1-based item index. Valid only for PathItem.
func (p *Path) Index() int { return p.index }

// Thenelem appends a leaf element reference to p: p must be a trunk capable
// of holding a plain element (Empty or Item).
func (p *Path) Thenelem(tag Tag) *Path {
	return &Path{kind: PathTag, previous: p, tag: tag}
}

// ThenSequence descends into a sequence element at tag.
func (p *Path) ThenSequence(tag Tag) *Path {
	return &Path{kind: PathSequence, previous: p, tag: tag}
}

// ThenItem descends into the index'th item (1-based) of the sequence this
// path currently addresses.
func (p *Path) ThenItem(index int) *Path {
	return &Path{kind: PathItem, previous: p, tag: p.tag, index: index}
}

// IsRoot reports whether p is the empty path.
func (p *Path) IsRoot() bool { return p.kind == PathEmpty }

// Depth returns the number of nodes between p and Root.
func (p *Path) Depth() int {
	n := 0
	for cur := p; cur != nil && cur.kind != PathEmpty; cur = cur.previous {
		n++
	}
	return n
}

// String renders a path as e.g. "(0008,1110)[2].(0020,000d)".
func (p *Path) String() string {
	var parts []string
	for cur := p; cur != nil && cur.kind != PathEmpty; cur = cur.previous {
		switch cur.kind {
		case PathTag:
			parts = append(parts, cur.tag.String())
		case PathSequence:
			parts = append(parts, cur.tag.String())
		case PathItem:
			parts = append(parts, fmt.Sprintf("[%d]", cur.index))
		}
	}
	s := ""
	for i := len(parts) - 1; i >= 0; i-- {
		if s != "" && parts[i][0] != '[' {
			s += "."
		}
		s += parts[i]
	}
	if s == "" {
		return "<root>"
	}
	return s
}

// Equal reports whether p and other address the same node.
func (p *Path) Equal(other *Path) bool {
	for {
		if p == nil || other == nil {
			return p == other
		}
		if p.kind != other.kind || p.tag != other.tag || p.index != other.index {
			return false
		}
		if p.kind == PathEmpty {
			return true
		}
		p, other = p.previous, other.previous
	}
}

// HasTrunk reports whether trunk is a prefix of p (including p itself),
// walking from the tail. Used by the collect flow's whitelist predicate
// (spec §4.6).
func (p *Path) HasTrunk(trunk *Path) bool {
	pDepth, trunkDepth := p.Depth(), trunk.Depth()
	if trunkDepth > pDepth {
		return false
	}
	cur := p
	for i := 0; i < pDepth-trunkDepth; i++ {
		cur = cur.previous
	}
	return cur.Equal(trunk)
}

// IsTrunkOf reports whether p is a prefix of other; the mirror of HasTrunk.
func (p *Path) IsTrunkOf(other *Path) bool {
	return other.HasTrunk(p)
}

// HeadTag returns the tag of the outermost (root-adjacent) node in the
// path, or the zero Tag for an empty path. Used by the whitelist-derived
// stop condition (spec §4.6: "path.tag > max(whitelist.heads)").
func (p *Path) HeadTag() Tag {
	nodes := p.collect()
	if len(nodes) == 0 {
		return Tag{}
	}
	return nodes[0].tag
}

// Nodes returns the path's nodes from root-adjacent to tail, for callers
// that need to walk a path's structure directly (e.g. dicomelement's
// path-addressed navigation).
func (p *Path) Nodes() []*Path {
	return p.collect()
}

func (p *Path) collect() []*Path {
	var nodes []*Path
	for cur := p; cur != nil && cur.kind != PathEmpty; cur = cur.previous {
		nodes = append([]*Path{cur}, nodes...)
	}
	return nodes
}
