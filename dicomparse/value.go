package dicomparse

import "github.com/odincare/dicomstream/dicomparts"

// stepInValue implements spec §4.5 InValue: emit up to chunkSize bytes at
// a time, and on upstream truncation emit whatever remains (possibly
// nothing) as a final chunk and complete the stream cleanly rather than
// failing it (spec §7 "On truncation inside a value, clean completion").
func (p *Parser) stepInValue() (dicomparts.Part, error) {
	want := p.opts.ChunkSize
	if uint32(want) > p.valueBytesLeft {
		want = int(p.valueBytesLeft)
	}
	truncated := false
	if !p.r.Ensure(want) {
		if !p.r.IsUpstreamClosed() {
			return nil, ErrNeedMoreData
		}
		avail := len(p.r.RemainingData())
		if uint32(avail) < p.valueBytesLeft {
			want = avail
			truncated = true
		}
	}

	raw := p.r.Take(want)
	p.valueBytesLeft -= uint32(want)
	last := truncated || p.valueBytesLeft == 0

	if p.fmiAccumActive {
		p.fmiAccum = append(p.fmiAccum, raw...)
	}

	chunk := dicomparts.ValueChunk{BigEndian: p.bigEndian, Bytes: raw, Last: last}
	if truncated {
		p.st = stateFinished
	} else if last {
		p.onValueComplete()
	}
	return chunk, nil
}

func (p *Parser) onValueComplete() {
	if p.fmiAccumActive {
		p.processFmiAccum()
		p.fmiAccumActive = false
		p.fmiAccum = nil
	}
	switch p.valueReturn {
	case returnToDatasetHeader:
		p.st = stateInDatasetHeader
	case returnToFragments:
		p.st = stateInFragments
	case returnToFmiContinuation:
		if p.fmi.haveGroupLength && p.r.Pos() >= p.fmi.fmiEndPos {
			p.st = stateAfterFmiEnd
		} else {
			p.st = stateInFmiHeader
		}
	}
}
