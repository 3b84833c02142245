package dicomelement

import (
	"github.com/odincare/dicomstream/dicomerr"
	"github.com/odincare/dicomstream/dicomtag"
)

func invalidPath(path *dicomtag.Path) *dicomerr.Error {
	return dicomerr.New(dicomerr.KindInvalidPath, "invalid path %s", path.String())
}

// GetSequence returns the Sequence stored under tag, if any.
func (e *Elements) GetSequence(tag dicomtag.Tag) (*Sequence, bool) {
	es, ok := e.Get(tag)
	if !ok {
		return nil, false
	}
	seq, ok := es.(*Sequence)
	return seq, ok
}

// GetFragments returns the Fragments stored under tag, if any.
func (e *Elements) GetFragments(tag dicomtag.Tag) (*Fragments, bool) {
	es, ok := e.Get(tag)
	if !ok {
		return nil, false
	}
	f, ok := es.(*Fragments)
	return f, ok
}

// GetItem returns the index'th (1-based) item of the sequence at tag.
func (e *Elements) GetItem(tag dicomtag.Tag, index int) (*Item, bool) {
	seq, ok := e.GetSequence(tag)
	if !ok {
		return nil, false
	}
	return seq.Item(index)
}

// GetNested returns the nested dataset of the index'th item of the
// sequence at tag — the common shorthand for one level of descent (spec
// §4.3 "getNested").
func (e *Elements) GetNested(tag dicomtag.Tag, index int) (*Elements, bool) {
	item, ok := e.GetItem(tag, index)
	if !ok {
		return nil, false
	}
	return item.Elements(), true
}

// resolveContainer walks nodes, which must alternate PathSequence then
// PathItem from the front, descending one nested Elements per pair. It
// returns the innermost Elements reached together with whatever trailing
// nodes were not consumed (0 or 1 node: a leaf PathTag or PathSequence).
func (e *Elements) resolveContainer(nodes []*dicomtag.Path) (*Elements, []*dicomtag.Path, error) {
	cur := e
	i := 0
	for i+1 < len(nodes) && nodes[i].Kind() == dicomtag.PathSequence && nodes[i+1].Kind() == dicomtag.PathItem {
		seq, ok := cur.GetSequence(nodes[i].Tag())
		if !ok {
			return nil, nil, invalidPath(nodes[i])
		}
		item, ok := seq.Item(nodes[i+1].Index())
		if !ok {
			return nil, nil, invalidPath(nodes[i+1])
		}
		cur = item.Elements()
		i += 2
	}
	return cur, nodes[i:], nil
}

// Apply navigates path and returns whatever ElementSet it addresses: a
// plain value, a Sequence, or a Fragments. Returns KindInvalidPath if path
// does not alternate Sequence->Item, addresses a missing node, or names an
// item directly rather than an element within it (use GetNestedAtPath for
// that).
func (e *Elements) Apply(path *dicomtag.Path) (ElementSet, error) {
	container, remaining, err := e.resolveContainer(path.Nodes())
	if err != nil {
		return nil, err
	}
	if len(remaining) != 1 {
		return nil, invalidPath(path)
	}
	es, ok := container.Get(remaining[0].Tag())
	if !ok {
		return nil, invalidPath(path)
	}
	return es, nil
}

// GetNestedAtPath navigates path, which must end at an Item (or be the
// root path), and returns the dataset nested there.
func (e *Elements) GetNestedAtPath(path *dicomtag.Path) (*Elements, error) {
	container, remaining, err := e.resolveContainer(path.Nodes())
	if err != nil {
		return nil, err
	}
	if len(remaining) != 0 {
		return nil, invalidPath(path)
	}
	return container, nil
}

// setAt descends itemPath's Sequence/Item pairs and applies leaf to the
// innermost dataset, rebuilding every ancestor Sequence/Item/Elements
// along the way under copy-on-write so the original e is untouched (spec
// §4.3 path APIs: "set(itemPath, element)", "setNested(itemPath,
// elements)").
func (e *Elements) setAt(nodes []*dicomtag.Path, leaf func(*Elements) (*Elements, error)) (*Elements, error) {
	if len(nodes) == 0 {
		return leaf(e)
	}
	if len(nodes) < 2 || nodes[0].Kind() != dicomtag.PathSequence || nodes[1].Kind() != dicomtag.PathItem {
		return nil, invalidPath(nodes[0])
	}
	seqTag, itemIdx := nodes[0].Tag(), nodes[1].Index()
	seq, ok := e.GetSequence(seqTag)
	if !ok {
		return nil, invalidPath(nodes[0])
	}
	item, ok := seq.Item(itemIdx)
	if !ok {
		return nil, invalidPath(nodes[1])
	}
	newInner, err := item.Elements().setAt(nodes[2:], leaf)
	if err != nil {
		return nil, err
	}
	newSeq := seq.WithItem(itemIdx, item.WithElements(newInner))
	return e.Set(newSeq), nil
}

// SetAtPath stores element inside the item itemPath addresses (itemPath
// must end at an Item, or be root for a top-level set).
func (e *Elements) SetAtPath(itemPath *dicomtag.Path, element ElementSet) (*Elements, error) {
	return e.setAt(itemPath.Nodes(), func(container *Elements) (*Elements, error) {
		return container.Set(element), nil
	})
}

// SetNestedAtPath replaces the entire dataset of the item itemPath
// addresses.
func (e *Elements) SetNestedAtPath(itemPath *dicomtag.Path, elements *Elements) (*Elements, error) {
	return e.setAt(itemPath.Nodes(), func(*Elements) (*Elements, error) {
		return elements, nil
	})
}

// RemoveAtPath removes whatever path addresses: a plain element, an entire
// sequence, or one item of a sequence (the remaining items keep their
// relative order; item indexes above the removed one shift down).
func (e *Elements) RemoveAtPath(path *dicomtag.Path) (*Elements, error) {
	nodes := path.Nodes()
	if len(nodes) == 0 {
		return e, nil
	}
	last := nodes[len(nodes)-1]
	switch last.Kind() {
	case dicomtag.PathTag, dicomtag.PathSequence:
		return e.setAt(nodes[:len(nodes)-1], func(container *Elements) (*Elements, error) {
			return container.Remove(last.Tag()), nil
		})
	case dicomtag.PathItem:
		return e.removeItemAt(nodes[:len(nodes)-1], last.Index())
	default:
		return nil, invalidPath(path)
	}
}

func (e *Elements) removeItemAt(nodes []*dicomtag.Path, index int) (*Elements, error) {
	if len(nodes) == 0 || nodes[len(nodes)-1].Kind() != dicomtag.PathSequence {
		return nil, invalidPath(nodes[len(nodes)-1])
	}
	seqTag := nodes[len(nodes)-1].Tag()
	return e.setAt(nodes[:len(nodes)-1], func(container *Elements) (*Elements, error) {
		seq, ok := container.GetSequence(seqTag)
		if !ok {
			return nil, invalidPath(nodes[len(nodes)-1])
		}
		items := seq.Items()
		if index < 1 || index > len(items) {
			return nil, invalidPath(nodes[len(nodes)-1])
		}
		items = append(items[:index-1], items[index:]...)
		return container.Set(seq.withItems(items)), nil
	})
}

// AddItemAtPath appends elements as a new, final item of the sequence
// sequencePath addresses (spec §4.3 "addItem"; invariant 5 governs how the
// parent's declared length is kept consistent).
func (e *Elements) AddItemAtPath(sequencePath *dicomtag.Path, elements *Elements) (*Elements, error) {
	return e.addItemAt(sequencePath.Nodes(), elements)
}

func (e *Elements) addItemAt(nodes []*dicomtag.Path, elements *Elements) (*Elements, error) {
	if len(nodes) == 0 {
		return nil, invalidPath(dicomtag.Root)
	}
	if len(nodes) == 1 {
		if nodes[0].Kind() != dicomtag.PathSequence {
			return nil, invalidPath(nodes[0])
		}
		seq, ok := e.GetSequence(nodes[0].Tag())
		if !ok {
			return nil, invalidPath(nodes[0])
		}
		return e.Set(seq.AppendItem(elements)), nil
	}
	if nodes[0].Kind() != dicomtag.PathSequence || nodes[1].Kind() != dicomtag.PathItem {
		return nil, invalidPath(nodes[0])
	}
	seqTag, itemIdx := nodes[0].Tag(), nodes[1].Index()
	seq, ok := e.GetSequence(seqTag)
	if !ok {
		return nil, invalidPath(nodes[0])
	}
	item, ok := seq.Item(itemIdx)
	if !ok {
		return nil, invalidPath(nodes[1])
	}
	newInner, err := item.Elements().addItemAt(nodes[2:], elements)
	if err != nil {
		return nil, err
	}
	newSeq := seq.WithItem(itemIdx, item.WithElements(newInner))
	return e.Set(newSeq), nil
}
