package dicomparse

import (
	"io"

	"github.com/odincare/dicomstream/dicomerr"
	"github.com/odincare/dicomstream/dicomparts"
	"github.com/odincare/dicomstream/dicomtag"
)

func (p *Parser) stepAtBeginning() (dicomparts.Part, error) {
	if !p.r.Ensure(132) && !p.r.IsUpstreamClosed() {
		return nil, ErrNeedMoreData
	}
	if p.r.Ensure(132) {
		peek := p.r.Peek(132)
		if string(peek[128:132]) == "DICM" {
			raw := p.r.Take(132)
			var pre dicomparts.Preamble
			copy(pre.Raw[:], raw)
			p.st = stateAutodetect
			return pre, nil
		}
	}
	p.st = stateAutodetect
	return p.autodetectAndEnter()
}

// autodetectAndEnter implements spec §4.5 AtBeginning step 2: try
// assumeBigEndian=false, then true, settling on FMI (explicit VR little
// endian) or a plain implicit-VR little-endian dataset. It never emits a
// Part of its own — it resolves the mode, then immediately delegates to
// whichever state reading the first real header belongs to.
func (p *Parser) autodetectAndEnter() (dicomparts.Part, error) {
	if !p.r.Ensure(8) {
		if p.r.IsUpstreamClosed() {
			if len(p.r.RemainingData()) == 0 {
				p.st = stateFinished
				return nil, io.EOF
			}
			return nil, dicomerr.New(dicomerr.KindNotDicom, "stream too short to contain a single element header")
		}
		return nil, ErrNeedMoreData
	}
	b := p.r.Peek(8)

	explicitFMI := func(bigEndian bool) bool {
		order := byteOrderFor(bigEndian)
		group := order.Uint16(b[0:2])
		vr := dicomtag.VR(string(b[4:6]))
		return group == 0x0002 && dicomtag.Valid(string(vr))
	}
	implicitLE := func() bool {
		length := byteOrderFor(false).Uint32(b[4:8])
		return int32(length) >= 0 || length == dicomparts.Indeterminate
	}

	switch {
	case explicitFMI(false):
		p.bigEndian, p.explicitVR = false, true
		p.st = stateInFmiHeader
		return p.stepInFmiHeader()
	case implicitLE():
		p.bigEndian, p.explicitVR = false, false
		p.st = stateInDatasetHeader
		return p.stepInDatasetHeader()
	case explicitFMI(true):
		return nil, dicomerr.New(dicomerr.KindImplicitBigEndianNotSupported, "File Meta Information cannot be big-endian")
	default:
		return nil, dicomerr.New(dicomerr.KindNotDicom, "could not autodetect a transfer syntax from the first 8 bytes")
	}
}
