package dicomparse

import (
	"encoding/binary"
	"io"
	"strings"

	"github.com/odincare/dicomstream/dicomerr"
	"github.com/odincare/dicomstream/dicomlog"
	"github.com/odincare/dicomstream/dicomparts"
	"github.com/odincare/dicomstream/dicomtag"
	"github.com/odincare/dicomstream/dicomuid"
)

// stepInFmiHeader implements spec §4.5 InFmiHeader.
func (p *Parser) stepInFmiHeader() (dicomparts.Part, error) {
	if !p.r.Ensure(8) {
		if p.r.IsUpstreamClosed() {
			p.st = stateFinished
			return nil, dicomerr.At(dicomerr.KindTruncated, p.r.Pos(), "truncated File Meta Information header")
		}
		return nil, ErrNeedMoreData
	}
	order := byteOrderFor(p.bigEndian)
	group := order.Uint16(p.r.Peek(2))
	if group != 0x0002 {
		dicomlog.Warnf("dicomparse: element with group %#04x encountered before File Meta Information ended", group)
		return p.enterDataset()
	}

	hi, err := readHeader(p.r, p.bigEndian, true)
	if err != nil {
		return nil, err
	}

	p.fmiAccumActive = false
	switch hi.tag {
	case dicomtag.FileMetaInformationGroupLength:
		p.fmiAccumActive = true
		p.fmiAccumTag = hi.tag
	case dicomtag.TransferSyntaxUID:
		if hi.length < 1024 {
			p.fmiAccumActive = true
			p.fmiAccumTag = hi.tag
		} else {
			dicomlog.Warnf("dicomparse: TransferSyntaxUID length %d exceeds 1024, skipping", hi.length)
		}
	}

	header := dicomparts.Header{
		Tag: hi.tag, VR: hi.vr, ValueLength: hi.length,
		IsFmi: true, BigEndian: p.bigEndian, ExplicitVR: true, Raw: hi.raw,
	}

	if hi.length == 0 {
		return header, nil
	}
	p.valueBytesLeft = hi.length
	p.valueReturn = returnToFmiContinuation
	p.st = stateInValue
	return header, nil
}

func (p *Parser) processFmiAccum() {
	switch p.fmiAccumTag {
	case dicomtag.FileMetaInformationGroupLength:
		if len(p.fmiAccum) == 4 {
			val := byteOrderFor(p.bigEndian).Uint32(p.fmiAccum)
			p.fmi.fmiEndPos = p.r.Pos() + int64(val)
			p.fmi.haveGroupLength = true
		}
	case dicomtag.TransferSyntaxUID:
		p.fmi.tsuid = strings.TrimRight(string(p.fmiAccum), " \x00")
	}
}

// stepAfterFmiEnd implements the "when pos >= fmiEndPos" transition: peek
// the next two bytes to detect either a miscounted group length (still
// group 0x0002) or the real end of File Meta Information.
func (p *Parser) stepAfterFmiEnd() (dicomparts.Part, error) {
	if !p.r.Ensure(2) {
		if p.r.IsUpstreamClosed() {
			p.st = stateFinished
			return nil, io.EOF
		}
		return nil, ErrNeedMoreData
	}
	order := byteOrderFor(p.bigEndian)
	if order.Uint16(p.r.Peek(2)) == 0x0002 {
		dicomlog.Warnf("dicomparse: FileMetaInformationGroupLength undercounted the FMI block, continuing to read it")
		p.st = stateInFmiHeader
		return p.stepInFmiHeader()
	}
	return p.enterDataset()
}

// enterDataset resolves the transfer syntax and transitions to either
// InDatasetHeader or InDeflatedData.
func (p *Parser) enterDataset() (dicomparts.Part, error) {
	tsuid := p.fmi.tsuid
	if tsuid == "" {
		dicomlog.Warnf("dicomparse: File Meta Information carried no TransferSyntaxUID, defaulting to Explicit VR Little Endian")
		tsuid = dicomuid.ExplicitVRLittleEndian
	}
	if order, ok := dicomuid.ByteOrder(tsuid); ok {
		p.bigEndian = order == binary.BigEndian
		p.explicitVR = !dicomuid.IsImplicitVR(tsuid)
	} else {
		dicomlog.Warnf("dicomparse: unrecognized TransferSyntaxUID %q, assuming Explicit VR Little Endian", tsuid)
		p.bigEndian, p.explicitVR = false, true
	}

	if dicomuid.IsDeflated(tsuid) {
		if !p.r.Ensure(2) {
			if p.r.IsUpstreamClosed() {
				p.st = stateFinished
				return nil, io.EOF
			}
			return nil, ErrNeedMoreData
		}
		peek := p.r.Peek(2)
		p.deflateNowrap = !(peek[0] == 0x78 && peek[1] == 0x9C)
		p.st = stateInDeflatedData
		return p.stepInDeflatedData()
	}

	p.st = stateInDatasetHeader
	return p.stepInDatasetHeader()
}
