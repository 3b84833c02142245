package dicomparse

import (
	"github.com/odincare/dicomstream/dicomlog"
	"github.com/odincare/dicomstream/dicomparts"
	"github.com/odincare/dicomstream/dicomtag"
)

// stepInFragments implements spec §4.5 InFragments.
func (p *Parser) stepInFragments() (dicomparts.Part, error) {
	hi, err := readHeader(p.r, p.bigEndian, p.explicitVR)
	if err != nil {
		return nil, err
	}

	switch hi.tag {
	case dicomtag.Item:
		p.fragmentIndex++
		item := dicomparts.Item{Index: p.fragmentIndex, Length: hi.length, BigEndian: p.bigEndian, Raw: hi.raw}
		if hi.length > 0 {
			p.valueBytesLeft = hi.length
			p.valueReturn = returnToFragments
			p.st = stateInValue
		}
		return item, nil
	case dicomtag.SequenceDelimitation:
		p.st = stateInDatasetHeader
		return dicomparts.SequenceDelimitation{BigEndian: p.bigEndian, Raw: hi.raw}, nil
	default:
		extra := int(hi.length)
		if hi.length == dicomparts.Indeterminate {
			extra = 0
		}
		if extra > 0 && !p.r.Ensure(extra) {
			if !p.r.IsUpstreamClosed() {
				return nil, ErrNeedMoreData
			}
			extra = len(p.r.RemainingData())
		}
		raw := append(append([]byte(nil), hi.raw...), p.r.Take(extra)...)
		dicomlog.Warnf("dicomparse: unexpected tag %s inside encapsulated fragments, skipping", hi.tag)
		return dicomparts.Unknown{BigEndian: p.bigEndian, Raw: raw}, nil
	}
}
