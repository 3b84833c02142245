// Package dicomelement implements the dataset model spec §3/§4.3 describe:
// an ordered-by-tag set of element sets (plain values, sequences of items,
// and encapsulated fragments), addressed either directly by tag or through
// a dicomtag.Path, with value semantics under every mutation.
package dicomelement

import (
	"sort"
	"time"

	"github.com/odincare/dicomstream/dicomcharset"
	"github.com/odincare/dicomstream/dicomerr"
	"github.com/odincare/dicomstream/dicomtag"
	"github.com/odincare/dicomstream/dicomvalue"
)

// ElementSet is the sum type spec §3 describes: a ValueElement, a
// Sequence, or a Fragments. Every variant carries its own Tag.
type ElementSet interface {
	Tag() dicomtag.Tag
	// clone returns a shallow copy suitable as the basis for a
	// copy-on-write mutation; slices are not shared with the original.
	clone() ElementSet
}

// ValueElement is a plain (non-sequence, non-fragments) element.
type ValueElement struct {
	tag        dicomtag.Tag
	value      dicomvalue.Value
	explicitVR bool
}

// NewValueElement builds a ValueElement. Length is always
// len(value.Bytes), which New's padding keeps even (spec §3 "length ==
// value.bytes.length, always even").
func NewValueElement(tag dicomtag.Tag, value dicomvalue.Value, explicitVR bool) *ValueElement {
	return &ValueElement{tag: tag, value: value, explicitVR: explicitVR}
}

func (v *ValueElement) Tag() dicomtag.Tag       { return v.tag }
func (v *ValueElement) Value() dicomvalue.Value { return v.value }
func (v *ValueElement) ExplicitVR() bool        { return v.explicitVR }
func (v *ValueElement) Length() uint32          { return uint32(len(v.value.Bytes)) }
func (v *ValueElement) clone() ElementSet {
	cp := *v
	cp.value.Bytes = append([]byte(nil), v.value.Bytes...)
	return &cp
}

// Elements is the dataset: a strictly tag-ordered slice of ElementSets,
// plus the two pieces of ambient decoding state that live alongside it
// (spec §3 "Elements"): the active character sets and the timezone used to
// resolve DT values that omit their own offset.
type Elements struct {
	data          []ElementSet
	characterSets dicomcharset.CodingSystem
	zoneOffset    *time.Location
}

// New returns an empty dataset.
func New() *Elements {
	return &Elements{}
}

// Size returns the number of top-level element sets.
func (e *Elements) Size() int { return len(e.data) }

// Sorted returns the element sets in ascending tag order. The slice is a
// copy; mutating it does not affect e.
func (e *Elements) Sorted() []ElementSet {
	out := make([]ElementSet, len(e.data))
	copy(out, e.data)
	return out
}

// Head returns the first (lowest-tag) element set, if any.
func (e *Elements) Head() (ElementSet, bool) {
	if len(e.data) == 0 {
		return nil, false
	}
	return e.data[0], true
}

// CharacterSets returns the active character-set decoders.
func (e *Elements) CharacterSets() dicomcharset.CodingSystem { return e.characterSets }

// ZoneOffset returns the fallback timezone for DT values lacking their own
// offset, or nil if none has been set.
func (e *Elements) ZoneOffset() *time.Location { return e.zoneOffset }

func (e *Elements) indexOf(tag dicomtag.Tag) (int, bool) {
	i := sort.Search(len(e.data), func(i int) bool { return !e.data[i].Tag().Less(tag) })
	if i < len(e.data) && e.data[i].Tag() == tag {
		return i, true
	}
	return i, false
}

func (e *Elements) shallowCopy() *Elements {
	cp := &Elements{
		data:          make([]ElementSet, len(e.data)),
		characterSets: e.characterSets,
		zoneOffset:    e.zoneOffset,
	}
	copy(cp.data, e.data)
	return cp
}

// Set inserts es at its sorted position, replacing any existing element
// set with the same tag (spec §4.3 "set(ElementSet)"). Setting
// SpecificCharacterSet updates the active character sets; setting
// TimezoneOffsetFromUTC updates the zone offset (spec §3 invariant 2).
func (e *Elements) Set(es ElementSet) *Elements {
	next := e.shallowCopy()
	i, found := next.indexOf(es.Tag())
	if found {
		next.data[i] = es
	} else {
		next.data = append(next.data, nil)
		copy(next.data[i+1:], next.data[i:])
		next.data[i] = es
	}

	if es.Tag() == dicomtag.SpecificCharacterSet {
		if ve, ok := es.(*ValueElement); ok {
			names := ve.Value().ToStrings(dicomcharset.CodingSystem{})
			next.characterSets = dicomcharset.Parse(names)
		}
	}
	if es.Tag() == dicomtag.TimezoneOffsetFromUTC {
		if ve, ok := es.(*ValueElement); ok {
			strs := ve.Value().ToStrings(next.characterSets)
			if len(strs) == 1 {
				if loc, ok := parseZoneOffset(strs[0]); ok {
					next.zoneOffset = loc
				}
			}
		}
	}
	return next
}

// parseZoneOffset parses a DICOM "TimezoneOffsetFromUTC" string, "&HHMM"
// with a leading sign, into a fixed *time.Location.
func parseZoneOffset(s string) (*time.Location, bool) {
	if len(s) != 5 || (s[0] != '+' && s[0] != '-') {
		return nil, false
	}
	hh := int(s[1]-'0')*10 + int(s[2]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	if hh > 14 || mm > 59 {
		return nil, false
	}
	secs := hh*3600 + mm*60
	if s[0] == '-' {
		secs = -secs
	}
	return time.FixedZone(s, secs), true
}

// NewChild returns an empty dataset that inherits parent's active character
// sets and zone offset, for use as a sequence item's nested dataset (spec
// §4.7 "a fresh builder inherits parent's charsets and zoneOffset").
func NewChild(parent *Elements) *Elements {
	return &Elements{characterSets: parent.characterSets, zoneOffset: parent.zoneOffset}
}

// Get returns the element set stored under tag, if any.
func (e *Elements) Get(tag dicomtag.Tag) (ElementSet, bool) {
	i, ok := e.indexOf(tag)
	if !ok {
		return nil, false
	}
	return e.data[i], true
}

// Contains reports whether tag is present.
func (e *Elements) Contains(tag dicomtag.Tag) bool {
	_, ok := e.indexOf(tag)
	return ok
}

// Remove returns a copy of e with tag's element set removed, a no-op if tag
// is absent.
func (e *Elements) Remove(tag dicomtag.Tag) *Elements {
	i, ok := e.indexOf(tag)
	if !ok {
		return e
	}
	next := e.shallowCopy()
	next.data = append(next.data[:i], next.data[i+1:]...)
	return next
}

// Filter returns a copy of e containing only the element sets pred
// accepts.
func (e *Elements) Filter(pred func(ElementSet) bool) *Elements {
	next := &Elements{characterSets: e.characterSets, zoneOffset: e.zoneOffset}
	for _, es := range e.data {
		if pred(es) {
			next.data = append(next.data, es)
		}
	}
	return next
}

// GetValueElement returns the plain value element at tag, if present and
// not a Sequence/Fragments.
func (e *Elements) GetValueElement(tag dicomtag.Tag) (*ValueElement, bool) {
	es, ok := e.Get(tag)
	if !ok {
		return nil, false
	}
	ve, ok := es.(*ValueElement)
	return ve, ok
}

// GetString returns the single string value at tag.
func (e *Elements) GetString(tag dicomtag.Tag) (string, bool) {
	strs := e.GetStrings(tag)
	if len(strs) != 1 {
		return "", false
	}
	return strs[0], true
}

// GetStrings returns every string value at tag, decoded with the dataset's
// active character set.
func (e *Elements) GetStrings(tag dicomtag.Tag) []string {
	ve, ok := e.GetValueElement(tag)
	if !ok {
		return nil
	}
	return ve.Value().ToStrings(e.characterSets)
}

// GetInts returns every integer value at tag (binary or numeric-string VR).
func (e *Elements) GetInts(tag dicomtag.Tag) []int64 {
	ve, ok := e.GetValueElement(tag)
	if !ok {
		return nil
	}
	return ve.Value().ToInts(e.characterSets)
}

// GetInt returns the single integer value at tag.
func (e *Elements) GetInt(tag dicomtag.Tag) (int64, bool) {
	ints := e.GetInts(tag)
	if len(ints) != 1 {
		return 0, false
	}
	return ints[0], true
}

// GetFloat64s returns every floating-point value at tag, honoring whichever
// binary float VR (FL/OF or FD/OD) is stored.
func (e *Elements) GetFloat64s(tag dicomtag.Tag) []float64 {
	ve, ok := e.GetValueElement(tag)
	if !ok {
		return nil
	}
	if ve.value.VR == dicomtag.FD || ve.value.VR == dicomtag.OD {
		return ve.Value().ToFloat64s()
	}
	f32 := ve.Value().ToFloat32s()
	out := make([]float64, len(f32))
	for i, f := range f32 {
		out[i] = float64(f)
	}
	return out
}

// GetBytes returns the raw bytes at tag (OB/OW/UN and the like).
func (e *Elements) GetBytes(tag dicomtag.Tag) ([]byte, bool) {
	ve, ok := e.GetValueElement(tag)
	if !ok {
		return nil, false
	}
	return ve.Value().Bytes, true
}

// GetDate returns the single DA value at tag, parsed.
func (e *Elements) GetDate(tag dicomtag.Tag) (time.Time, bool) {
	s, ok := e.GetString(tag)
	if !ok {
		return time.Time{}, false
	}
	return dicomvalue.ToDate(s)
}

// GetTime returns the single TM value at tag, parsed.
func (e *Elements) GetTime(tag dicomtag.Tag) (time.Time, bool) {
	s, ok := e.GetString(tag)
	if !ok {
		return time.Time{}, false
	}
	return dicomvalue.ToTime(s)
}

// GetDateTime returns the single DT value at tag, parsed, falling back to
// the dataset's ZoneOffset when the value omits its own.
func (e *Elements) GetDateTime(tag dicomtag.Tag) (time.Time, bool) {
	s, ok := e.GetString(tag)
	if !ok {
		return time.Time{}, false
	}
	return dicomvalue.ToDateTime(s, e.zoneOffset)
}

// GetPersonNames returns every PN value at tag.
func (e *Elements) GetPersonNames(tag dicomtag.Tag) []dicomvalue.PersonName {
	ve, ok := e.GetValueElement(tag)
	if !ok {
		return nil
	}
	return ve.Value().ToPersonNames(e.characterSets)
}

// GetPersonName returns the single PN value at tag.
func (e *Elements) GetPersonName(tag dicomtag.Tag) (dicomvalue.PersonName, bool) {
	names := e.GetPersonNames(tag)
	if len(names) != 1 {
		return dicomvalue.PersonName{}, false
	}
	return names[0], true
}

// setValue is the shared implementation behind the Set<Type> family: look
// up vr via the dictionary, wrap the value, and store it (spec
// §4.3 "set_T(tag, value, bigEndian=false, explicitVR=true)").
func (e *Elements) setValue(tag dicomtag.Tag, bigEndian, explicitVR bool, raw []byte) *Elements {
	vr := dicomtag.VROf(tag)
	return e.Set(NewValueElement(tag, dicomvalue.New(vr, bigEndian, raw), explicitVR))
}

// SetStrings stores a multi-valued text element, joining with the '\'
// delimiter.
func (e *Elements) SetStrings(tag dicomtag.Tag, values []string, bigEndian, explicitVR bool) *Elements {
	joined := ""
	for i, v := range values {
		if i > 0 {
			joined += `\`
		}
		joined += v
	}
	return e.setValue(tag, bigEndian, explicitVR, []byte(joined))
}

// SetString stores a single text value.
func (e *Elements) SetString(tag dicomtag.Tag, value string, bigEndian, explicitVR bool) *Elements {
	return e.SetStrings(tag, []string{value}, bigEndian, explicitVR)
}

// SetBytes stores a raw binary value (OB/OW/UN).
func (e *Elements) SetBytes(tag dicomtag.Tag, value []byte, bigEndian, explicitVR bool) *Elements {
	return e.setValue(tag, bigEndian, explicitVR, value)
}

// errUnknownKeyword builds the KindUnknownKeyword error for a failed
// keyword lookup (spec §7 "UnknownKeyword").
func errUnknownKeyword(keyword string) *dicomerr.Error {
	return dicomerr.New(dicomerr.KindUnknownKeyword, "no tag named %q in dictionary", keyword)
}

// SetByKeyword resolves keyword to a tag via the dictionary and calls
// SetString, returning KindUnknownKeyword if the keyword is unrecognized.
func (e *Elements) SetByKeyword(keyword, value string) (*Elements, error) {
	tag, ok := dicomtag.FindByKeyword(keyword)
	if !ok {
		return nil, errUnknownKeyword(keyword)
	}
	return e.SetString(tag, value, false, true), nil
}
