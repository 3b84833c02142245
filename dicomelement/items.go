package dicomelement

import "github.com/odincare/dicomstream/dicomtag"

// Indeterminate marks a Sequence or Item whose length was encoded as
// 0xFFFFFFFF: its extent is discovered from a delimitation item rather than
// a declared byte count (spec §3 "Sequence", "Item").
const Indeterminate uint32 = 0xFFFFFFFF

// Sequence is a SQ element: an ordered list of Items.
type Sequence struct {
	tag        dicomtag.Tag
	length     uint32
	items      []*Item
	bigEndian  bool
	explicitVR bool
}

// NewSequence builds a Sequence. length is Indeterminate unless the caller
// knows the encoded byte count up front.
func NewSequence(tag dicomtag.Tag, bigEndian, explicitVR bool) *Sequence {
	return &Sequence{tag: tag, length: Indeterminate, bigEndian: bigEndian, explicitVR: explicitVR}
}

func (s *Sequence) Tag() dicomtag.Tag { return s.tag }
func (s *Sequence) Length() uint32    { return s.length }
func (s *Sequence) Indeterminate() bool {
	return s.length == Indeterminate
}
func (s *Sequence) BigEndian() bool  { return s.bigEndian }
func (s *Sequence) ExplicitVR() bool { return s.explicitVR }

// Items returns the sequence's items in order. The slice is a copy.
func (s *Sequence) Items() []*Item {
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns the index'th item (1-based), per spec §3 "Indexes are
// 1-based".
func (s *Sequence) Item(index int) (*Item, bool) {
	if index < 1 || index > len(s.items) {
		return nil, false
	}
	return s.items[index-1], true
}

func (s *Sequence) clone() ElementSet {
	cp := *s
	cp.items = append([]*Item(nil), s.items...)
	return &cp
}

// itemsByteLength sums each item's encoded size: an 8-byte item header plus
// its content length, used to keep an explicit-length Sequence's declared
// length consistent after a mutation (spec §3 invariant 5).
func itemsByteLength(items []*Item) uint32 {
	var total uint32
	for _, it := range items {
		total += 8 + it.length
	}
	return total
}

// withItems returns a copy of s with its item list replaced. When s is not
// indeterminate, its declared length is recomputed from the new items.
func (s *Sequence) withItems(items []*Item) *Sequence {
	cp := *s
	cp.items = items
	if !cp.Indeterminate() {
		cp.length = itemsByteLength(items)
	}
	return &cp
}

// AppendItem returns a copy of s with elements appended as a new, final
// item (spec §4.3 "addItem").
func (s *Sequence) AppendItem(elements *Elements) *Sequence {
	it := NewItem(elements, s.Indeterminate(), s.bigEndian)
	return s.withItems(append(s.Items(), it))
}

// WithItem returns a copy of s with its index'th item (1-based) replaced.
func (s *Sequence) WithItem(index int, it *Item) *Sequence {
	if index < 1 || index > len(s.items) {
		return s
	}
	items := s.Items()
	items[index-1] = it
	return s.withItems(items)
}

// Item is one element of a Sequence: a nested Elements dataset plus its own
// encoded length (Indeterminate unless explicit).
type Item struct {
	elements  *Elements
	length    uint32
	bigEndian bool
}

// NewItem builds an Item. When indeterminate is false, length is set here
// from itemByteLength(elements); otherwise it is Indeterminate.
func NewItem(elements *Elements, indeterminate, bigEndian bool) *Item {
	length := Indeterminate
	if !indeterminate {
		length = itemByteLength(elements)
	}
	return &Item{elements: elements, length: uint32(length), bigEndian: bigEndian}
}

// itemByteLength is a placeholder estimate used only to keep an
// explicit-length item's declared length in the right ballpark when built
// purely in memory; the writer recomputes the authoritative length from the
// actual encoded bytes when serializing (spec §4.8).
func itemByteLength(elements *Elements) uint32 {
	var total uint32
	for _, es := range elements.Sorted() {
		switch v := es.(type) {
		case *ValueElement:
			headerLen := uint32(8)
			if v.explicitVR && v.value.VR.IsLong() {
				headerLen = 12
			}
			total += headerLen + v.Length()
		case *Sequence:
			total += 8 + v.Length()
		case *Fragments:
			total += 8 // basic offset table item header; content sizes vary
		}
	}
	return total
}

func (it *Item) Elements() *Elements   { return it.elements }
func (it *Item) Length() uint32        { return it.length }
func (it *Item) Indeterminate() bool   { return it.length == Indeterminate }
func (it *Item) BigEndian() bool       { return it.bigEndian }

// WithElements returns a copy of it with its nested dataset replaced; an
// explicit length is recomputed from the new content.
func (it *Item) WithElements(elements *Elements) *Item {
	cp := *it
	cp.elements = elements
	if !cp.Indeterminate() {
		cp.length = itemByteLength(elements)
	}
	return &cp
}

// Fragments is an encapsulated pixel-data element: an optional Basic Offset
// Table plus a list of compressed-frame fragments (spec §3 "Fragments").
type Fragments struct {
	tag        dicomtag.Tag
	vr         dicomtag.VR
	offsets    []uint64 // nil: Basic Offset Table absent; non-nil: present (possibly empty)
	fragments  [][]byte
	bigEndian  bool
	explicitVR bool
}

// NewFragments builds an empty Fragments element with no Basic Offset Table.
func NewFragments(tag dicomtag.Tag, vr dicomtag.VR, bigEndian, explicitVR bool) *Fragments {
	return &Fragments{tag: tag, vr: vr, bigEndian: bigEndian, explicitVR: explicitVR}
}

func (f *Fragments) Tag() dicomtag.Tag { return f.tag }
func (f *Fragments) VR() dicomtag.VR   { return f.vr }
func (f *Fragments) BigEndian() bool   { return f.bigEndian }
func (f *Fragments) ExplicitVR() bool  { return f.explicitVR }

// HasOffsetTable reports whether a Basic Offset Table item (even an empty
// one) was present.
func (f *Fragments) HasOffsetTable() bool { return f.offsets != nil }

// Offsets returns the Basic Offset Table entries, or nil if absent.
func (f *Fragments) Offsets() []uint64 {
	if f.offsets == nil {
		return nil
	}
	out := make([]uint64, len(f.offsets))
	copy(out, f.offsets)
	return out
}

// RawFragments returns the fragment byte slices in encoded order.
func (f *Fragments) RawFragments() [][]byte {
	out := make([][]byte, len(f.fragments))
	copy(out, f.fragments)
	return out
}

func (f *Fragments) clone() ElementSet {
	cp := *f
	if f.offsets != nil {
		cp.offsets = append([]uint64(nil), f.offsets...)
	}
	cp.fragments = append([][]byte(nil), f.fragments...)
	return &cp
}

// WithOffsetTable returns a copy of f with its Basic Offset Table set to
// offsets (possibly empty but non-nil, marking it present).
func (f *Fragments) WithOffsetTable(offsets []uint64) *Fragments {
	cp := *f
	cp.offsets = offsets
	if cp.offsets == nil {
		cp.offsets = []uint64{}
	}
	return &cp
}

// AppendFragment returns a copy of f with raw appended as the next
// fragment.
func (f *Fragments) AppendFragment(raw []byte) *Fragments {
	cp := *f
	cp.fragments = append(f.RawFragments(), raw)
	return &cp
}

// FrameCount reports the number of decoded frames, per spec §3 "Fragments":
// 0 when both the offset table and fragment list are empty, 1 when the
// offset table is absent but fragments are present, otherwise the number of
// offset-table entries.
func (f *Fragments) FrameCount() int {
	if f.offsets == nil {
		if len(f.fragments) == 0 {
			return 0
		}
		return 1
	}
	return len(f.offsets)
}

// Frames reconstructs each frame's bytes by concatenating all fragments and
// splitting at the Basic Offset Table's boundaries. With no offset table,
// the whole concatenated stream is returned as a single frame (spec §8 "S7
// Fragments->frames").
func (f *Fragments) Frames() [][]byte {
	var all []byte
	for _, frag := range f.fragments {
		all = append(all, frag...)
	}
	if f.offsets == nil {
		if len(all) == 0 {
			return nil
		}
		return [][]byte{all}
	}
	if len(f.offsets) == 0 {
		return nil
	}
	bounds := append(append([]uint64(nil), f.offsets...), uint64(len(all)))
	frames := make([][]byte, 0, len(f.offsets))
	for i := 0; i < len(f.offsets); i++ {
		start, end := bounds[i], bounds[i+1]
		if start > uint64(len(all)) {
			start = uint64(len(all))
		}
		if end > uint64(len(all)) {
			end = uint64(len(all))
		}
		if end < start {
			end = start
		}
		frames = append(frames, all[start:end])
	}
	return frames
}
