// Package dicomvalue implements the VR-aware value codec spec §4.2
// describes: a byte buffer that knows how to present itself as strings,
// numbers, dates, times and person names, honoring endianness and the
// active character set. Every decoder here is total: malformed input
// yields an empty/zero result, never an error or a panic (spec §4.2 "All
// decoders fail soft").
package dicomvalue

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/odincare/dicomstream/dicomcharset"
	"github.com/odincare/dicomstream/dicomtag"
)

// Value is a raw element payload together with enough context (VR,
// endianness) to decode it.
type Value struct {
	VR        dicomtag.VR
	BigEndian bool
	Bytes     []byte
}

// New wraps raw bytes as a Value, applying the VR-specific even-length
// padding invariant before storing (spec §3 "ensurePadding(vr) is
// invariant-preserving before storing").
func New(vr dicomtag.VR, bigEndian bool, raw []byte) Value {
	return Value{VR: vr, BigEndian: bigEndian, Bytes: ensurePadding(vr, raw)}
}

// padByte returns the byte a VR's values are right-padded with to reach an
// even length: NUL for UI, space for everything else (spec §3 "Value").
func padByte(vr dicomtag.VR) byte {
	if vr == dicomtag.UI {
		return 0x00
	}
	return ' '
}

func ensurePadding(vr dicomtag.VR, raw []byte) []byte {
	if len(raw)%2 == 0 {
		return raw
	}
	padded := make([]byte, len(raw)+1)
	copy(padded, raw)
	padded[len(raw)] = padByte(vr)
	return padded
}

func (v Value) byteOrder() binary.ByteOrder {
	if v.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// isTextVR reports whether vr's values are delimited strings.
func isTextVR(vr dicomtag.VR) bool {
	switch vr {
	case dicomtag.AE, dicomtag.AS, dicomtag.CS, dicomtag.DA, dicomtag.DS, dicomtag.DT,
		dicomtag.IS, dicomtag.LO, dicomtag.LT, dicomtag.PN, dicomtag.SH, dicomtag.ST,
		dicomtag.TM, dicomtag.UC, dicomtag.UI, dicomtag.UR, dicomtag.UT:
		return true
	default:
		return false
	}
}

// ToStrings splits text VR values on the multi-value delimiter '\' and
// trims VR-specific padding. UI additionally strips trailing NULs; PN is
// decoded one component group at a time via ToPersonNames and should be
// read through that instead (spec §4.2 "toStrings").
func (v Value) ToStrings(cs dicomcharset.CodingSystem) []string {
	if !isTextVR(v.VR) {
		return nil
	}
	raw := v.Bytes
	if v.VR == dicomtag.UI {
		raw = bytes.TrimRight(raw, "\x00")
	} else {
		raw = bytes.TrimRight(raw, " \x00")
	}
	if len(raw) == 0 {
		return nil
	}
	decoder := cs.Decoder(dicomcharset.Ideographic)
	var out []string
	for _, part := range bytes.Split(raw, []byte{'\\'}) {
		s, err := dicomcharset.Decode(decoder, part)
		if err != nil {
			out = append(out, "")
			continue
		}
		out = append(out, s)
	}
	return out
}

// ToUint16s decodes US values honoring endianness. Malformed (odd) length
// yields as many whole elements as fit.
func (v Value) ToUint16s() []uint16 {
	n := len(v.Bytes) / 2
	out := make([]uint16, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, v.byteOrder().Uint16(v.Bytes[i*2:]))
	}
	return out
}

// ToInt16s decodes SS values.
func (v Value) ToInt16s() []int16 {
	u := v.ToUint16s()
	out := make([]int16, len(u))
	for i, x := range u {
		out[i] = int16(x)
	}
	return out
}

// ToUint32s decodes UL/AT/OL values.
func (v Value) ToUint32s() []uint32 {
	n := len(v.Bytes) / 4
	out := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, v.byteOrder().Uint32(v.Bytes[i*4:]))
	}
	return out
}

// ToInt32s decodes SL values.
func (v Value) ToInt32s() []int32 {
	u := v.ToUint32s()
	out := make([]int32, len(u))
	for i, x := range u {
		out[i] = int32(x)
	}
	return out
}

// ToFloat32s decodes FL/OF values.
func (v Value) ToFloat32s() []float32 {
	u := v.ToUint32s()
	out := make([]float32, len(u))
	for i, x := range u {
		out[i] = math.Float32frombits(x)
	}
	return out
}

// ToFloat64s decodes FD/OD values.
func (v Value) ToFloat64s() []float64 {
	n := len(v.Bytes) / 8
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		bits := v.byteOrder().Uint64(v.Bytes[i*8:])
		out = append(out, math.Float64frombits(bits))
	}
	return out
}

// ToInts returns a consistent []int64 view regardless of whether vr is a
// binary integer VR (US/SS/UL/SL — length = bytes/width) or a
// numeric-string VR (IS/DS — length = number of \-delimited strings), per
// spec §4.2 "toInts". Unparseable numeric strings are skipped, not zeroed,
// keeping the total/fail-soft contract without fabricating data.
func (v Value) ToInts(cs dicomcharset.CodingSystem) []int64 {
	switch v.VR {
	case dicomtag.US:
		u := v.ToUint16s()
		out := make([]int64, len(u))
		for i, x := range u {
			out[i] = int64(x)
		}
		return out
	case dicomtag.SS:
		u := v.ToInt16s()
		out := make([]int64, len(u))
		for i, x := range u {
			out[i] = int64(x)
		}
		return out
	case dicomtag.UL:
		u := v.ToUint32s()
		out := make([]int64, len(u))
		for i, x := range u {
			out[i] = int64(x)
		}
		return out
	case dicomtag.SL:
		u := v.ToInt32s()
		out := make([]int64, len(u))
		for i, x := range u {
			out[i] = int64(x)
		}
		return out
	case dicomtag.IS, dicomtag.DS:
		var out []int64
		for _, s := range v.ToStrings(cs) {
			s = strings.TrimSpace(s)
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				out = append(out, n)
			} else if f, err := strconv.ParseFloat(s, 64); err == nil {
				out = append(out, int64(f))
			}
		}
		return out
	default:
		return nil
	}
}

// ToDate parses a DA value: "YYYYMMDD", or the legacy "YYYY.MM.DD" form
// (spec §4.2 "toDate"). Returns (zero, false) on anything else.
func ToDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("20060102", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006.01.02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ToTime parses a TM value: "HHMMSS[.FFFFFF]", with MM and SS optional per
// the standard's truncation rules (spec §4.2 "toTime").
func ToTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	layouts := []string{"150405.000000", "150405", "1504", "15"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToDateTime parses a DT value: "YYYYMMDDHHMMSS[.FFFFFF][+-ZZZZ]". When the
// value carries no zone offset, fallbackZone (the dataset's
// TimezoneOffsetFromUTC, spec §4.2 "fallback zone = dataset zoneOffset") is
// applied instead of assuming UTC.
func ToDateTime(s string, fallbackZone *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	layouts := []string{
		"20060102150405.000000-0700",
		"20060102150405-0700",
		"200601021504-0700",
		"2006010215-0700",
		"20060102-0700",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	noZoneLayouts := []string{
		"20060102150405.000000",
		"20060102150405",
		"200601021504",
		"2006010215",
		"20060102",
	}
	zone := fallbackZone
	if zone == nil {
		zone = time.UTC
	}
	for _, layout := range noZoneLayouts {
		if t, err := time.ParseInLocation(layout, s, zone); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PersonNameComponents holds one PN component group's five name parts
// (spec §4.2 "toPersonName"): family^given^middle^prefix^suffix.
type PersonNameComponents struct {
	Family, Given, Middle, Prefix, Suffix string
}

func splitComponents(s string) PersonNameComponents {
	parts := strings.Split(s, "^")
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	return PersonNameComponents{
		Family: get(0), Given: get(1), Middle: get(2), Prefix: get(3), Suffix: get(4),
	}
}

// PersonName is one PN value: up to three component groups (alphabetic,
// ideographic, phonetic) separated by '=' at the byte level before
// charset decoding, since each group may use a different designated
// character set (spec §4.2, §9 "Character sets").
type PersonName struct {
	Alphabetic  PersonNameComponents
	Ideographic PersonNameComponents
	Phonetic    PersonNameComponents
}

// ToPersonNames decodes a PN value into its (possibly multiple,
// backslash-delimited) PersonName entries.
func (v Value) ToPersonNames(cs dicomcharset.CodingSystem) []PersonName {
	if v.VR != dicomtag.PN {
		return nil
	}
	raw := bytes.TrimRight(v.Bytes, " \x00")
	if len(raw) == 0 {
		return nil
	}
	var out []PersonName
	for _, rawValue := range bytes.Split(raw, []byte{'\\'}) {
		groups := bytes.SplitN(rawValue, []byte{'='}, 3)
		decode := func(kind dicomcharset.Kind, i int) PersonNameComponents {
			if i >= len(groups) {
				return PersonNameComponents{}
			}
			s, err := dicomcharset.Decode(cs.Decoder(kind), groups[i])
			if err != nil {
				return PersonNameComponents{}
			}
			return splitComponents(s)
		}
		out = append(out, PersonName{
			Alphabetic:  decode(dicomcharset.Alphabetic, 0),
			Ideographic: decode(dicomcharset.Ideographic, 1),
			Phonetic:    decode(dicomcharset.Phonetic, 2),
		})
	}
	return out
}
