// Package dicomsink implements the element sink/builder spec §4.7
// describes: it consumes a dicomparts.Part stream, merges chunked values
// back into whole ValueElements as it goes, and assembles nested
// sequences/items/fragments into a single Elements dataset.
package dicomsink

import (
	"encoding/binary"

	"github.com/odincare/dicomstream/dicomelement"
	"github.com/odincare/dicomstream/dicomerr"
	"github.com/odincare/dicomstream/dicomparts"
	"github.com/odincare/dicomstream/dicomtag"
	"github.com/odincare/dicomstream/dicomvalue"
)

type containerKind int

const (
	containerDataset containerKind = iota
	containerSequence
	containerFragments
)

// container is one level of the builder/sequence stack spec §4.7
// describes (builderStack and sequenceStack collapsed into one stack,
// since the two always alternate: a dataset holds sequences, a sequence
// holds items, each item holds a dataset).
//
// remaining tracks the declared byte length still owed to this
// container, for the (common) case where a sequence or item carries an
// explicit rather than indeterminate length: those never receive a
// closing delimitation part, so the only way to know when they end is to
// count bytes as they're charged against every open container.
type container struct {
	kind      containerKind
	remaining *uint32

	// containerDataset
	elements *dicomelement.Elements

	// containerSequence
	seqTag        dicomtag.Tag
	seqBigEndian  bool
	seqExplicitVR bool
	seqItems      []*dicomelement.Item

	// containerFragments
	frag               *dicomelement.Fragments
	fragIndex          int
	fragActive         bool
	fragBuf            []byte
	fragItemBigEndian  bool
}

// Builder assembles a part stream into an Elements dataset (spec §4.7).
// Feed it parts in order, then call Build.
type Builder struct {
	stack []*container

	pendingHeader *dicomparts.Header
	pendingBuf    []byte
}

// NewBuilder returns a Builder ready to receive parts for a top-level
// dataset (spec §4.7 "builderStack[0]").
func NewBuilder() *Builder {
	return &Builder{stack: []*container{{kind: containerDataset, elements: dicomelement.New()}}}
}

// Feed advances the builder by one part.
func (b *Builder) Feed(part dicomparts.Part) error {
	switch p := part.(type) {
	case dicomparts.Preamble, dicomparts.DeflatedChunk, dicomparts.Unknown:
		return nil
	case dicomparts.Header:
		return b.feedHeader(p)
	case dicomparts.ValueChunk:
		return b.feedValueChunk(p)
	case dicomparts.Sequence:
		return b.feedSequence(p)
	case dicomparts.Item:
		return b.feedItem(p)
	case dicomparts.ItemDelimitation:
		return b.feedItemDelimitation(p)
	case dicomparts.SequenceDelimitation:
		return b.feedSequenceDelimitation(p)
	case dicomparts.Fragments:
		return b.feedFragments(p)
	default:
		return dicomerr.New(dicomerr.KindTruncated, "dicomsink: unexpected part type %T", part)
	}
}

// Build returns the assembled top-level dataset. It fails if any sequence
// or item was left open (a truncated or malformed stream).
func (b *Builder) Build() (*dicomelement.Elements, error) {
	if len(b.stack) != 1 || b.stack[0].kind != containerDataset {
		return nil, dicomerr.New(dicomerr.KindTruncated, "dicomsink: unterminated sequence or item at end of stream")
	}
	return b.stack[0].elements, nil
}

// Sink is the batch convenience entry point spec §6 describes as
// `sinkElements(part stream) → Elements`.
func Sink(parts []dicomparts.Part) (*dicomelement.Elements, error) {
	b := NewBuilder()
	for _, p := range parts {
		if err := b.Feed(p); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func (b *Builder) top() *container { return b.stack[len(b.stack)-1] }

func (b *Builder) nearestDataset() *container {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].kind == containerDataset {
			return b.stack[i]
		}
	}
	return nil
}

func (b *Builder) setOnTopDataset(es dicomelement.ElementSet) error {
	top := b.top()
	if top.kind != containerDataset {
		return dicomerr.New(dicomerr.KindTruncated, "dicomsink: value element outside a dataset context")
	}
	top.elements = top.elements.Set(es)
	return nil
}

// charge decrements every open container's remaining byte budget by n,
// then closes any container whose budget has been fully consumed,
// innermost first (spec §4.7's implicit rule for explicit-length
// sequences/items, which never receive a delimitation part).
func (b *Builder) charge(n uint32) error {
	if n != 0 {
		for _, c := range b.stack {
			if c.remaining == nil {
				continue
			}
			if *c.remaining < n {
				*c.remaining = 0
			} else {
				*c.remaining -= n
			}
		}
	}
	for len(b.stack) > 1 {
		t := b.top()
		if t.remaining == nil || *t.remaining > 0 {
			break
		}
		if err := b.closeTop(); err != nil {
			return err
		}
	}
	return nil
}

// closeTop pops the innermost container and merges it into its parent:
// an item into its sequence's item list, a finished sequence into the
// dataset holding it, or finished fragments into the dataset holding
// them (spec §4.7's Sequence/Item/Fragments transitions).
func (b *Builder) closeTop() error {
	popped := b.top()
	b.stack = b.stack[:len(b.stack)-1]
	parent := b.top()

	switch popped.kind {
	case containerDataset:
		if parent.kind != containerSequence {
			return dicomerr.New(dicomerr.KindTruncated, "dicomsink: item closed outside a sequence")
		}
		indeterminate := popped.remaining == nil
		parent.seqItems = append(parent.seqItems, dicomelement.NewItem(popped.elements, indeterminate, parent.seqBigEndian))
		return nil
	case containerSequence:
		if parent.kind != containerDataset {
			return dicomerr.New(dicomerr.KindTruncated, "dicomsink: sequence closed outside a dataset")
		}
		seq := dicomelement.NewSequence(popped.seqTag, popped.seqBigEndian, popped.seqExplicitVR)
		for _, it := range popped.seqItems {
			seq = seq.AppendItem(it.Elements())
		}
		parent.elements = parent.elements.Set(seq)
		return nil
	case containerFragments:
		if parent.kind != containerDataset {
			return dicomerr.New(dicomerr.KindTruncated, "dicomsink: fragments closed outside a dataset")
		}
		parent.elements = parent.elements.Set(popped.frag)
		return nil
	default:
		return nil
	}
}

func (b *Builder) feedHeader(p dicomparts.Header) error {
	if p.ValueLength == 0 {
		if err := b.setOnTopDataset(dicomelement.NewValueElement(p.Tag, dicomvalue.New(p.VR, p.BigEndian, nil), p.ExplicitVR)); err != nil {
			return err
		}
		return b.charge(uint32(len(p.Raw)))
	}
	header := p
	b.pendingHeader = &header
	b.pendingBuf = nil
	return b.charge(uint32(len(p.Raw)))
}

func (b *Builder) feedValueChunk(p dicomparts.ValueChunk) error {
	top := b.top()
	if top.kind == containerFragments && top.fragActive {
		top.fragBuf = append(top.fragBuf, p.Bytes...)
		if p.Last {
			if err := b.finishFragmentValue(top); err != nil {
				return err
			}
		}
		return b.charge(uint32(len(p.Bytes)))
	}

	if b.pendingHeader == nil {
		return dicomerr.New(dicomerr.KindTruncated, "dicomsink: value chunk with no pending element")
	}
	b.pendingBuf = append(b.pendingBuf, p.Bytes...)
	if p.Last {
		h := b.pendingHeader
		if err := b.setOnTopDataset(dicomelement.NewValueElement(h.Tag, dicomvalue.New(h.VR, h.BigEndian, b.pendingBuf), h.ExplicitVR)); err != nil {
			return err
		}
		b.pendingHeader = nil
		b.pendingBuf = nil
	}
	return b.charge(uint32(len(p.Bytes)))
}

func (b *Builder) feedSequence(p dicomparts.Sequence) error {
	if err := b.charge(uint32(len(p.Raw))); err != nil {
		return err
	}
	var remaining *uint32
	if p.Length != dicomparts.Indeterminate {
		v := p.Length
		remaining = &v
	}
	b.stack = append(b.stack, &container{
		kind: containerSequence, remaining: remaining,
		seqTag: p.Tag, seqBigEndian: p.BigEndian, seqExplicitVR: p.ExplicitVR,
	})
	return nil
}

func (b *Builder) feedItem(p dicomparts.Item) error {
	top := b.top()
	switch top.kind {
	case containerFragments:
		top.fragIndex++
		top.fragActive = true
		top.fragBuf = nil
		top.fragItemBigEndian = p.BigEndian
		if p.Length == 0 {
			if err := b.finishFragmentValue(top); err != nil {
				return err
			}
		}
		return b.charge(uint32(len(p.Raw)))
	case containerSequence:
		if err := b.charge(uint32(len(p.Raw))); err != nil {
			return err
		}
		var remaining *uint32
		if p.Length != dicomparts.Indeterminate {
			v := p.Length
			remaining = &v
		}
		b.stack = append(b.stack, &container{
			kind: containerDataset, remaining: remaining,
			elements: dicomelement.NewChild(b.nearestDataset().elements),
		})
		return nil
	default:
		return dicomerr.New(dicomerr.KindTruncated, "dicomsink: item outside a sequence or fragments block")
	}
}

func (b *Builder) feedItemDelimitation(p dicomparts.ItemDelimitation) error {
	if err := b.charge(uint32(len(p.Raw))); err != nil {
		return err
	}
	if len(b.stack) < 2 || b.top().kind != containerDataset {
		return dicomerr.New(dicomerr.KindTruncated, "dicomsink: item delimitation outside an item")
	}
	return b.closeTop()
}

func (b *Builder) feedSequenceDelimitation(p dicomparts.SequenceDelimitation) error {
	if err := b.charge(uint32(len(p.Raw))); err != nil {
		return err
	}
	if len(b.stack) < 2 {
		return dicomerr.New(dicomerr.KindTruncated, "dicomsink: sequence delimitation outside a sequence")
	}
	top := b.top()
	if top.kind != containerSequence && top.kind != containerFragments {
		return dicomerr.New(dicomerr.KindTruncated, "dicomsink: sequence delimitation outside a sequence or fragments block")
	}
	return b.closeTop()
}

func (b *Builder) feedFragments(p dicomparts.Fragments) error {
	if err := b.charge(uint32(len(p.Raw))); err != nil {
		return err
	}
	b.stack = append(b.stack, &container{
		kind: containerFragments,
		frag: dicomelement.NewFragments(p.Tag, p.VR, p.BigEndian, p.ExplicitVR),
	})
	return nil
}

// finishFragmentValue processes a completed fragment item's bytes: the
// first fragment is always the Basic Offset Table (spec §4.7 "first
// fragment defines offsets"), every later one is raw fragment data.
func (b *Builder) finishFragmentValue(top *container) error {
	raw := top.fragBuf
	top.fragActive = false
	top.fragBuf = nil
	if top.fragIndex == 1 {
		top.frag = top.frag.WithOffsetTable(decodeOffsetTable(raw, top.fragItemBigEndian))
		return nil
	}
	top.frag = top.frag.AppendFragment(raw)
	return nil
}

func decodeOffsetTable(raw []byte, bigEndian bool) []uint64 {
	bo := binary.ByteOrder(binary.LittleEndian)
	if bigEndian {
		bo = binary.BigEndian
	}
	n := len(raw) / 4
	out := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, uint64(bo.Uint32(raw[i*4:])))
	}
	return out
}
