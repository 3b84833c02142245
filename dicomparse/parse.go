// Package dicomparse implements the incremental, pull-based parser (spec
// §4.5): a state machine that turns a byte stream into the typed part
// stream dicomparts defines, never blocking and never materializing more
// than chunkSize bytes of a value at a time.
package dicomparse

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/odincare/dicomstream/dicomerr"
	"github.com/odincare/dicomstream/dicomio"
	"github.com/odincare/dicomstream/dicomparts"
	"github.com/odincare/dicomstream/dicomtag"
)

// DefaultChunkSize bounds per-emission allocation for values and deflated
// output, absent an explicit Options.ChunkSize (spec §5 "chunkSize
// (default 8192)").
const DefaultChunkSize = 8192

// ErrNeedMoreData is returned by Next when the parser cannot make
// progress without additional bytes; the caller should Feed more and call
// Next again. It is never returned once Close has marked the upstream
// exhausted — at that point insufficient bytes resolves to either a
// graceful completion (mid-value) or a KindTruncated error (mid-header).
var ErrNeedMoreData = errors.New("dicomparse: need more data")

// Options configures a Parser.
type Options struct {
	// ChunkSize bounds value and deflated-output emissions. Zero selects
	// DefaultChunkSize.
	ChunkSize int
}

type state int

const (
	stateAtBeginning state = iota
	stateAutodetect
	stateInFmiHeader
	stateAfterFmiEnd
	stateInDatasetHeader
	stateInValue
	stateInFragments
	stateInDeflatedData
	stateDeflatedNested
	stateFinished
)

type valueReturn int

const (
	returnToDatasetHeader valueReturn = iota
	returnToFragments
	returnToFmiContinuation
)

type fmiState struct {
	tsuid          string
	fmiEndPos      int64
	haveGroupLength bool
}

// Parser drives the state machine described in spec §4.5. Feed supplies
// bytes as they arrive; Close marks the upstream exhausted; Next pulls the
// next Part, returning ErrNeedMoreData when more input is required.
type Parser struct {
	r    *dicomio.Reader
	opts Options
	st   state

	bigEndian  bool
	explicitVR bool

	fmi           fmiState
	fmiAccum      []byte
	fmiAccumActive bool
	fmiAccumTag   dicomtag.Tag

	valueBytesLeft uint32
	valueReturn    valueReturn

	itemStack     []int
	fragmentIndex int

	deflateNowrap   bool
	deflateStarted  bool
	deflateChunks   [][]byte
	deflateChunkIdx int
	deflateInflated []byte
	nested          *Parser
}

// New creates a Parser ready to receive bytes via Feed.
func New(opts Options) *Parser {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Parser{r: dicomio.NewReader(binary.LittleEndian), opts: opts, st: stateAtBeginning}
}

// Feed appends newly-arrived bytes.
func (p *Parser) Feed(data []byte) { p.r.Feed(data) }

// Close marks the upstream exhausted: no more Feed calls will come.
func (p *Parser) Close() { p.r.Close() }

// Next pulls the next Part. It returns io.EOF once the stream has
// completed (cleanly, including a truncated value or deflated stream), a
// *dicomerr.Error on a fatal parse failure, or ErrNeedMoreData if more
// input must be Fed first.
func (p *Parser) Next() (dicomparts.Part, error) {
	switch p.st {
	case stateAtBeginning:
		return p.stepAtBeginning()
	case stateAutodetect:
		return p.autodetectAndEnter()
	case stateInFmiHeader:
		return p.stepInFmiHeader()
	case stateAfterFmiEnd:
		return p.stepAfterFmiEnd()
	case stateInDatasetHeader:
		return p.stepInDatasetHeader()
	case stateInValue:
		return p.stepInValue()
	case stateInFragments:
		return p.stepInFragments()
	case stateInDeflatedData:
		return p.stepInDeflatedData()
	case stateDeflatedNested:
		return p.stepDeflatedNested()
	default:
		return nil, io.EOF
	}
}

func byteOrderFor(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ParseAll is the blocking convenience entry point spec §6 describes as
// `parse(stream, {chunkSize, inflate}) → part stream`: it reads r to
// completion, feeds every byte to a fresh Parser, and drains every Part.
func ParseAll(r io.Reader, opts Options) ([]dicomparts.Part, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := New(opts)
	p.Feed(data)
	p.Close()

	var parts []dicomparts.Part
	for {
		part, err := p.Next()
		if err == io.EOF {
			return parts, nil
		}
		if err == ErrNeedMoreData {
			return parts, dicomerr.New(dicomerr.KindTruncated, "parser stalled waiting for more data that will never arrive")
		}
		if err != nil {
			return parts, err
		}
		parts = append(parts, part)
	}
}
