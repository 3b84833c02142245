// Package dicomcharset maps DICOM SpecificCharacterSet values to Go
// encoding.Decoders, and tracks the three per-group decoders (Alphabetic,
// Ideographic, Phonetic) a PN value needs (spec §4.2 "toPersonName", §9
// "Character sets").
package dicomcharset

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Kind selects which of a CodingSystem's three decoders to use. PN values
// are the only VR where the distinction matters (spec §4.2); every other
// VR always uses Ideographic.
type Kind int

const (
	Alphabetic Kind = iota
	Ideographic
	Phonetic
)

// CodingSystem bundles the (up to) three decoders a SpecificCharacterSet
// value designates, one per PN component group. A nil decoder means 7-bit
// ASCII (the DICOM default, spec §3.2 D.6.2).
type CodingSystem struct {
	Alphabetic  *encoding.Decoder
	Ideographic *encoding.Decoder
	Phonetic    *encoding.Decoder
}

// Decoder returns the decoder for the given component kind.
func (cs CodingSystem) Decoder(k Kind) *encoding.Decoder {
	switch k {
	case Alphabetic:
		return cs.Alphabetic
	case Phonetic:
		return cs.Phonetic
	default:
		return cs.Ideographic
	}
}

// htmlEncodingNames maps a DICOM-defined character set name to the
// golang.org/x/text/encoding/htmlindex name that decodes it. "" means plain
// 7-bit ASCII (no conversion needed; UTF-8 is a superset).
var htmlEncodingNames = map[string]string{
	"":                "",
	"ISO 2022 IR 6":   "iso-8859-1",
	"ISO_IR 13":       "shift_jis",
	"ISO 2022 IR 13":  "shift_jis",
	"ISO_IR 100":      "iso-8859-1",
	"ISO 2022 IR 100": "iso-8859-1",
	"ISO_IR 101":      "iso-8859-2",
	"ISO 2022 IR 101": "iso-8859-2",
	"ISO_IR 109":      "iso-8859-3",
	"ISO 2022 IR 109": "iso-8859-3",
	"ISO_IR 110":      "iso-8859-4",
	"ISO 2022 IR 110": "iso-8859-4",
	"ISO_IR 126":      "iso-ir-126",
	"ISO 2022 IR 126": "iso-ir-126",
	"ISO_IR 127":      "iso-ir-127",
	"ISO 2022 IR 127": "iso-ir-127",
	"ISO_IR 138":      "iso-ir-138",
	"ISO 2022 IR 138": "iso-ir-138",
	"ISO_IR 144":      "iso-ir-144",
	"ISO 2022 IR 144": "iso-ir-144",
	"ISO_IR 148":      "iso-ir-148",
	"ISO 2022 IR 148": "iso-ir-148",
	"ISO 2022 IR 149": "euc-kr",
	"ISO 2022 IR 159": "iso-2022-jp",
	"ISO_IR 166":      "iso-ir-166",
	"ISO 2022 IR 166": "iso-ir-166",
	"ISO 2022 IR 87":  "iso-2022-jp",
	"ISO_IR 192":      "utf-8",
	"GB18030":         "gb18030",
}

// Parse builds a CodingSystem from the (possibly multi-valued)
// SpecificCharacterSet element. An unrecognized name logs a warning and
// falls back to ASCII for that slot rather than failing the parse — value
// decoding is total (spec §4.2 "decoders fail soft").
func Parse(names []string) CodingSystem {
	var decoders []*encoding.Decoder
	for _, name := range names {
		htmlName, ok := htmlEncodingNames[name]
		if !ok {
			logrus.Warnf("dicomcharset: unknown character set %q, falling back to ASCII", name)
			decoders = append(decoders, nil)
			continue
		}
		if htmlName == "" {
			decoders = append(decoders, nil)
			continue
		}
		d, err := htmlindex.Get(htmlName)
		if err != nil {
			logrus.Warnf("dicomcharset: encoding %q (for %q) not found, falling back to ASCII", htmlName, name)
			decoders = append(decoders, nil)
			continue
		}
		decoders = append(decoders, d.NewDecoder())
	}

	switch len(decoders) {
	case 0:
		return CodingSystem{}
	case 1:
		return CodingSystem{Alphabetic: decoders[0], Ideographic: decoders[0], Phonetic: decoders[0]}
	case 2:
		return CodingSystem{Alphabetic: decoders[0], Ideographic: decoders[1], Phonetic: decoders[1]}
	default:
		return CodingSystem{Alphabetic: decoders[0], Ideographic: decoders[1], Phonetic: decoders[2]}
	}
}

// Decode converts raw bytes to a string using d. A nil decoder is treated
// as 7-bit ASCII / UTF-8 passthrough.
func Decode(d *encoding.Decoder, raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if d == nil {
		return string(raw), nil
	}
	out, err := d.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("dicomcharset: %w", err)
	}
	return string(out), nil
}
