package dicomparse

import (
	"github.com/odincare/dicomstream/dicomerr"
	"github.com/odincare/dicomstream/dicomio"
	"github.com/odincare/dicomstream/dicomlog"
	"github.com/odincare/dicomstream/dicomtag"
)

// headerInfo is the shared result of reading one element header, per spec
// §4.5 "Header reading (shared)".
type headerInfo struct {
	tag       dicomtag.Tag
	vr        dicomtag.VR
	length    uint32
	headerLen int
	raw       []byte
	special   bool // Item, ItemDelimitationItem, or SequenceDelimitation
}

// readHeader reads one element header from r, honoring the given
// endianness and explicit-VR-ness. It returns ErrNeedMoreData if r cannot
// yet supply enough bytes and the upstream isn't closed, or a
// KindTruncated *dicomerr.Error if it is.
func readHeader(r *dicomio.Reader, bigEndian, explicitVR bool) (headerInfo, error) {
	if !r.Ensure(8) {
		if r.IsUpstreamClosed() {
			return headerInfo{}, dicomerr.At(dicomerr.KindTruncated, r.Pos(), "truncated element header")
		}
		return headerInfo{}, ErrNeedMoreData
	}
	order := byteOrderFor(bigEndian)
	peek := r.Peek(8)
	tag := dicomtag.Tag{Group: order.Uint16(peek[0:2]), Element: order.Uint16(peek[2:4])}

	if tag == dicomtag.Item || tag == dicomtag.ItemDelimitationItem || tag == dicomtag.SequenceDelimitation {
		length := order.Uint32(peek[4:8])
		raw := r.Take(8)
		return headerInfo{tag: tag, length: length, headerLen: 8, raw: raw, special: true}, nil
	}

	if explicitVR {
		vr := dicomtag.VR(string(peek[4:6]))
		if vr.IsLong() {
			if !r.Ensure(12) {
				if r.IsUpstreamClosed() {
					return headerInfo{}, dicomerr.At(dicomerr.KindTruncated, r.Pos(), "truncated long-form element header")
				}
				return headerInfo{}, ErrNeedMoreData
			}
			peek12 := r.Peek(12)
			length := order.Uint32(peek12[8:12])
			raw := r.Take(12)
			warnOddLength(tag, length)
			return headerInfo{tag: tag, vr: vr, length: length, headerLen: 12, raw: raw}, nil
		}
		length := uint32(order.Uint16(peek[6:8]))
		raw := r.Take(8)
		warnOddLength(tag, length)
		return headerInfo{tag: tag, vr: vr, length: length, headerLen: 8, raw: raw}, nil
	}

	length := order.Uint32(peek[4:8])
	vr := dicomtag.VROf(tag)
	raw := r.Take(8)
	warnOddLength(tag, length)
	return headerInfo{tag: tag, vr: vr, length: length, headerLen: 8, raw: raw}, nil
}

func warnOddLength(tag dicomtag.Tag, length uint32) {
	if length != 0xFFFFFFFF && length%2 != 0 {
		dicomlog.Warnf("dicomparse: odd value length %d for %s", length, tag)
	}
}
