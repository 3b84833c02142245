package dicomparse

import (
	"io"

	"github.com/odincare/dicomstream/dicomerr"
	"github.com/odincare/dicomstream/dicomparts"
	"github.com/odincare/dicomstream/dicomtag"
)

// stepInDatasetHeader implements spec §4.5 InDatasetHeader.
func (p *Parser) stepInDatasetHeader() (dicomparts.Part, error) {
	if !p.r.Ensure(8) {
		if p.r.IsUpstreamClosed() {
			if len(p.r.RemainingData()) == 0 {
				p.st = stateFinished
				return nil, io.EOF
			}
			p.st = stateFinished
			return nil, dicomerr.At(dicomerr.KindTruncated, p.r.Pos(), "truncated dataset element header")
		}
		return nil, ErrNeedMoreData
	}

	hi, err := readHeader(p.r, p.bigEndian, p.explicitVR)
	if err != nil {
		return nil, err
	}

	switch hi.tag {
	case dicomtag.Item:
		if len(p.itemStack) == 0 {
			p.itemStack = append(p.itemStack, 0)
		}
		top := len(p.itemStack) - 1
		p.itemStack[top]++
		return dicomparts.Item{Index: p.itemStack[top], Length: hi.length, BigEndian: p.bigEndian, Raw: hi.raw}, nil
	case dicomtag.ItemDelimitationItem:
		idx := 0
		if len(p.itemStack) > 0 {
			idx = p.itemStack[len(p.itemStack)-1]
		}
		return dicomparts.ItemDelimitation{Index: idx, BigEndian: p.bigEndian, Raw: hi.raw}, nil
	case dicomtag.SequenceDelimitation:
		if len(p.itemStack) > 0 {
			p.itemStack = p.itemStack[:len(p.itemStack)-1]
		}
		return dicomparts.SequenceDelimitation{BigEndian: p.bigEndian, Raw: hi.raw}, nil
	}

	isSQ := hi.vr == dicomtag.SQ || (hi.vr == dicomtag.UN && hi.length == dicomparts.Indeterminate)
	if isSQ {
		p.itemStack = append(p.itemStack, 0)
		return dicomparts.Sequence{Tag: hi.tag, Length: hi.length, BigEndian: p.bigEndian, ExplicitVR: p.explicitVR, Raw: hi.raw}, nil
	}

	if hi.length == dicomparts.Indeterminate {
		p.fragmentIndex = 0
		p.st = stateInFragments
		return dicomparts.Fragments{Tag: hi.tag, Length: hi.length, VR: hi.vr, BigEndian: p.bigEndian, ExplicitVR: p.explicitVR, Raw: hi.raw}, nil
	}

	header := dicomparts.Header{Tag: hi.tag, VR: hi.vr, ValueLength: hi.length, IsFmi: false, BigEndian: p.bigEndian, ExplicitVR: p.explicitVR, Raw: hi.raw}
	if hi.length > 0 {
		p.valueBytesLeft = hi.length
		p.valueReturn = returnToDatasetHeader
		p.st = stateInValue
	}
	return header, nil
}
