// Package dicomcollect implements the look-ahead collect flow (spec §4.6):
// it watches a part stream go by, selectively assembles a typed subset of
// it into an Elements dataset, and once a stop condition fires, releases
// that subset as a synthetic ElementsPart followed by every part seen so
// far, then gets out of the way.
package dicomcollect

import (
	"io"

	"github.com/odincare/dicomstream/dicomelement"
	"github.com/odincare/dicomstream/dicomerr"
	"github.com/odincare/dicomstream/dicomparts"
	"github.com/odincare/dicomstream/dicomsink"
	"github.com/odincare/dicomstream/dicomtag"
)

// PartSource is anything that yields parts one at a time — the shape
// dicomparse.Parser.Next satisfies. A Collector composes directly onto a
// Parser, so ErrNeedMoreData (or any other sentinel the source returns)
// propagates straight through to the caller.
type PartSource interface {
	Next() (dicomparts.Part, error)
}

// Predicate decides whether a tag path is of interest to the collect flow.
type Predicate func(path *dicomtag.Path) bool

// Options configures a Collector.
type Options struct {
	// Collect decides whether a given path's element belongs in the
	// assembled ElementsPart. SpecificCharacterSet is always collected in
	// addition, regardless of what Collect says (spec §4.6 "SpecificCharacterSet
	// is always collected... so multi-byte decoding works during assembly").
	Collect Predicate
	// Stop is evaluated only against top-level header/sequence/fragments
	// tags (spec §4.6 "stop fires on any top-level header tag"). A nil
	// Stop never fires early; the flow still finalizes at end of stream.
	Stop func(tag dicomtag.Tag) bool
	// Label tags the emitted ElementsPart.
	Label string
	// MaxBufferSize bounds the look-ahead buffer in bytes; 0 means
	// unbounded. Exceeding it fails with KindBufferOverflow.
	MaxBufferSize int
}

// WhitelistPredicates builds the collect/stop predicate pair spec §4.6's
// whitelist-based form describes:
//
//	collect = ∃ t ∈ whitelist : t.hasTrunk(path) ∨ t.isTrunkOf(path)
//	stop    = whitelist.isEmpty ∨ (path.isRoot ∧ path.tag > max(whitelist.heads))
//
// The path.isRoot half of stop is enforced by the Collector itself, which
// only calls the returned stop function against top-level tags.
func WhitelistPredicates(tree *dicomtag.Tree) (Predicate, func(dicomtag.Tag) bool) {
	collect := func(path *dicomtag.Path) bool {
		return tree.HasTrunk(path) || tree.IsTrunkOf(path)
	}
	stop := func(tag dicomtag.Tag) bool {
		if tree.IsEmpty() {
			return true
		}
		max, ok := tree.MaxHead()
		return ok && max.Less(tag)
	}
	return collect, stop
}

type frameKind int

const (
	frameSequence frameKind = iota
	frameFragments
	frameItemDataset
)

type frame struct {
	kind    frameKind
	path    *dicomtag.Path
	collect bool
}

type phase int

const (
	phaseCollecting phase = iota
	phaseEmittingElementsPart
	phaseEmittingBuffered
	phasePassthrough
)

// Collector wraps a PartSource, buffering and selectively assembling its
// parts until the stop condition fires, then drains the buffer before
// settling into pure pass-through (spec §4.6 steps 1-3).
type Collector struct {
	src  PartSource
	opts Options

	builder           *dicomsink.Builder
	stack             []*frame
	collectingElement bool

	buffered      []dicomparts.Part
	bufferedBytes int

	phase        phase
	emitIdx      int
	pendingFirst dicomparts.Part
	elementsPart dicomparts.ElementsPart
}

// New returns a Collector reading from src.
func New(src PartSource, opts Options) *Collector {
	return &Collector{src: src, opts: opts, builder: dicomsink.NewBuilder()}
}

// Next pulls the next part: nothing is returned while the flow is still
// collecting. Once it finalizes, it yields the ElementsPart, then the
// buffered tail, then forwards src directly.
func (c *Collector) Next() (dicomparts.Part, error) {
	switch c.phase {
	case phaseEmittingElementsPart:
		c.phase = phaseEmittingBuffered
		return c.elementsPart, nil
	case phaseEmittingBuffered:
		if c.emitIdx < len(c.buffered) {
			p := c.buffered[c.emitIdx]
			c.emitIdx++
			return p, nil
		}
		c.phase = phasePassthrough
		if c.pendingFirst != nil {
			p := c.pendingFirst
			c.pendingFirst = nil
			return p, nil
		}
		return c.src.Next()
	case phasePassthrough:
		return c.src.Next()
	default:
		return c.stepCollecting()
	}
}

func (c *Collector) stepCollecting() (dicomparts.Part, error) {
	for {
		part, err := c.src.Next()
		if err != nil {
			if err == io.EOF {
				c.finalize(nil)
				return c.Next()
			}
			return nil, err
		}

		if c.atTopLevel() {
			if tag, ok := topLevelTag(part); ok && c.opts.Stop != nil && c.opts.Stop(tag) {
				c.finalize(part)
				return c.Next()
			}
		}

		if err := c.observe(part); err != nil {
			return nil, err
		}
	}
}

func (c *Collector) atTopLevel() bool { return len(c.stack) == 0 }

func (c *Collector) topFrame() *frame {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

func (c *Collector) containerPath() *dicomtag.Path {
	if len(c.stack) == 0 {
		return dicomtag.Root
	}
	return c.topFrame().path
}

func (c *Collector) decide(path *dicomtag.Path) bool {
	if path.Kind() == dicomtag.PathTag && path.Tag() == dicomtag.SpecificCharacterSet {
		return true
	}
	if c.opts.Collect == nil {
		return false
	}
	return c.opts.Collect(path)
}

// observe updates path-tracking state for part, buffers it, and feeds it
// into the assembler when its path is of interest.
func (c *Collector) observe(part dicomparts.Part) error {
	collect := false

	switch p := part.(type) {
	case dicomparts.Header:
		path := c.containerPath().Thenelem(p.Tag)
		collect = c.decide(path)
		c.collectingElement = collect
	case dicomparts.ValueChunk:
		collect = c.collectingElement
	case dicomparts.Sequence:
		path := c.containerPath().ThenSequence(p.Tag)
		collect = c.decide(path)
		c.stack = append(c.stack, &frame{kind: frameSequence, path: path, collect: collect})
	case dicomparts.Item:
		top := c.topFrame()
		switch {
		case top != nil && top.kind == frameFragments:
			collect = top.collect
			c.collectingElement = collect
		case top != nil && top.kind == frameSequence:
			path := top.path.ThenItem(p.Index)
			collect = c.decide(path)
			c.stack = append(c.stack, &frame{kind: frameItemDataset, path: path, collect: collect})
		}
	case dicomparts.ItemDelimitation:
		if top := c.topFrame(); top != nil {
			collect = top.collect
			c.stack = c.stack[:len(c.stack)-1]
		}
	case dicomparts.SequenceDelimitation:
		if top := c.topFrame(); top != nil {
			collect = top.collect
			c.stack = c.stack[:len(c.stack)-1]
		}
	case dicomparts.Fragments:
		path := c.containerPath().Thenelem(p.Tag)
		collect = c.decide(path)
		c.stack = append(c.stack, &frame{kind: frameFragments, path: path, collect: collect})
	default:
		collect = false
	}

	if err := c.buffer(part); err != nil {
		return err
	}
	if collect {
		if err := c.builder.Feed(part); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) buffer(part dicomparts.Part) error {
	n := partByteSize(part)
	if c.opts.MaxBufferSize > 0 && c.bufferedBytes+n > c.opts.MaxBufferSize {
		return dicomerr.New(dicomerr.KindBufferOverflow, "dicomcollect: look-ahead buffer exceeded %d bytes", c.opts.MaxBufferSize)
	}
	c.bufferedBytes += n
	c.buffered = append(c.buffered, part)
	return nil
}

func (c *Collector) finalize(triggerPart dicomparts.Part) {
	elements, err := c.builder.Build()
	if err != nil {
		elements = dicomelement.New()
	}
	c.elementsPart = dicomparts.ElementsPart{Label: c.opts.Label, Elements: elements}
	c.pendingFirst = triggerPart
	c.phase = phaseEmittingElementsPart
}

func topLevelTag(part dicomparts.Part) (dicomtag.Tag, bool) {
	switch p := part.(type) {
	case dicomparts.Header:
		return p.Tag, true
	case dicomparts.Sequence:
		return p.Tag, true
	case dicomparts.Fragments:
		return p.Tag, true
	default:
		return dicomtag.Tag{}, false
	}
}

func partByteSize(part dicomparts.Part) int {
	switch p := part.(type) {
	case dicomparts.Preamble:
		return len(p.Raw)
	case dicomparts.Header:
		return len(p.Raw)
	case dicomparts.ValueChunk:
		return len(p.Bytes)
	case dicomparts.Sequence:
		return len(p.Raw)
	case dicomparts.Item:
		return len(p.Raw)
	case dicomparts.ItemDelimitation:
		return len(p.Raw)
	case dicomparts.SequenceDelimitation:
		return len(p.Raw)
	case dicomparts.Fragments:
		return len(p.Raw)
	case dicomparts.DeflatedChunk:
		return len(p.Bytes)
	case dicomparts.Unknown:
		return len(p.Raw)
	default:
		return 0
	}
}

// CollectAll drains src entirely through a Collector and returns the full
// output stream — [ElementsPart] ++ buffered ++ tail (spec §6
// "collect(parts, whitelist | predicates, label, maxBufferSize) → parts").
func CollectAll(src PartSource, opts Options) ([]dicomparts.Part, error) {
	c := New(src, opts)
	var out []dicomparts.Part
	for {
		part, err := c.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, part)
	}
}
