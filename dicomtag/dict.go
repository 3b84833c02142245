package dicomtag

import "sort"

// entry is one row of the data dictionary: the static mapping from a tag to
// its standard VR, value multiplicity and keyword (spec §4.1).
//
// The real DICOM dictionary is generated offline from the standard's PS3.6
// and PS3.7 XML (spec §1 "Out of scope... the DICOM data dictionary...
// Generated lookup tables are assumed available"; spec §9 "the split-point
// (≈2153 entries in the original tables) is a cache/locality optimization").
// What follows is a representative hand-curated subset covering every VR
// and the tags this codec's own tests and cmd/dicomdump exercise; a
// production build would swap dictionaryLow/dictionaryHigh for tables
// emitted by such a generator without touching the lookup code below.
type entry struct {
	tag     Tag
	vr      VR
	vm      VM
	keyword string
}

// dictionaryPivot is the tag at which the generated table would be split
// into two sorted halves for locality (spec §9). Tags strictly below it are
// searched in dictionaryLow, the rest in dictionaryHigh.
var dictionaryPivot = Tag{0x0028, 0x0000}

var dictionaryLow = sortedEntries([]entry{
	{Tag{0x0002, 0x0000}, UL, Single(), "FileMetaInformationGroupLength"},
	{Tag{0x0002, 0x0001}, OB, Fixed(1), "FileMetaInformationVersion"},
	{Tag{0x0002, 0x0002}, UI, Single(), "MediaStorageSOPClassUID"},
	{Tag{0x0002, 0x0003}, UI, Single(), "MediaStorageSOPInstanceUID"},
	{Tag{0x0002, 0x0010}, UI, Single(), "TransferSyntaxUID"},
	{Tag{0x0002, 0x0012}, UI, Single(), "ImplementationClassUID"},
	{Tag{0x0002, 0x0013}, SH, Single(), "ImplementationVersionName"},
	{Tag{0x0002, 0x0016}, AE, Single(), "SourceApplicationEntityTitle"},
	{Tag{0x0008, 0x0005}, CS, OneToMany(), "SpecificCharacterSet"},
	{Tag{0x0008, 0x0008}, CS, OneToMany(), "ImageType"},
	{Tag{0x0008, 0x0012}, DA, Single(), "InstanceCreationDate"},
	{Tag{0x0008, 0x0013}, TM, Single(), "InstanceCreationTime"},
	{Tag{0x0008, 0x0016}, UI, Single(), "SOPClassUID"},
	{Tag{0x0008, 0x0018}, UI, Single(), "SOPInstanceUID"},
	{Tag{0x0008, 0x0020}, DA, Single(), "StudyDate"},
	{Tag{0x0008, 0x0021}, DA, Single(), "SeriesDate"},
	{Tag{0x0008, 0x0022}, DA, Single(), "AcquisitionDate"},
	{Tag{0x0008, 0x0023}, DA, Single(), "ContentDate"},
	{Tag{0x0008, 0x002A}, DT, Single(), "AcquisitionDateTime"},
	{Tag{0x0008, 0x0030}, TM, Single(), "StudyTime"},
	{Tag{0x0008, 0x0031}, TM, Single(), "SeriesTime"},
	{Tag{0x0008, 0x0050}, SH, Single(), "AccessionNumber"},
	{Tag{0x0008, 0x0060}, CS, Single(), "Modality"},
	{Tag{0x0008, 0x0070}, LO, Single(), "Manufacturer"},
	{Tag{0x0008, 0x0080}, LO, Single(), "InstitutionName"},
	{Tag{0x0008, 0x0090}, PN, Single(), "ReferringPhysicianName"},
	{Tag{0x0008, 0x0201}, SH, Single(), "TimezoneOffsetFromUTC"},
	{Tag{0x0008, 0x1030}, LO, Single(), "StudyDescription"},
	{Tag{0x0008, 0x103E}, LO, Single(), "SeriesDescription"},
	{Tag{0x0008, 0x1090}, LO, Single(), "ManufacturerModelName"},
	{Tag{0x0008, 0x1110}, SQ, OneToMany(), "ReferencedStudySequence"},
	{Tag{0x0008, 0x1111}, SQ, OneToMany(), "ReferencedPerformedProcedureStepSequence"},
	{Tag{0x0008, 0x1140}, SQ, OneToMany(), "ReferencedImageSequence"},
	{Tag{0x0010, 0x0010}, PN, Single(), "PatientName"},
	{Tag{0x0010, 0x0020}, LO, Single(), "PatientID"},
	{Tag{0x0010, 0x0030}, DA, Single(), "PatientBirthDate"},
	{Tag{0x0010, 0x0040}, CS, Single(), "PatientSex"},
	{Tag{0x0010, 0x1010}, AS, Single(), "PatientAge"},
	{Tag{0x0010, 0x1030}, DS, Single(), "PatientWeight"},
	{Tag{0x0018, 0x0010}, LO, Single(), "ContrastBolusAgent"},
	{Tag{0x0018, 0x0015}, CS, Single(), "BodyPartExamined"},
	{Tag{0x0018, 0x0050}, DS, Single(), "SliceThickness"},
	{Tag{0x0018, 0x0060}, DS, Single(), "KVP"},
	{Tag{0x0018, 0x1000}, LO, Single(), "DeviceSerialNumber"},
	{Tag{0x0018, 0x1020}, LO, OneToMany(), "SoftwareVersions"},
	{Tag{0x0020, 0x000D}, UI, Single(), "StudyInstanceUID"},
	{Tag{0x0020, 0x000E}, UI, Single(), "SeriesInstanceUID"},
	{Tag{0x0020, 0x0010}, SH, Single(), "StudyID"},
	{Tag{0x0020, 0x0011}, IS, Single(), "SeriesNumber"},
	{Tag{0x0020, 0x0013}, IS, Single(), "InstanceNumber"},
	{Tag{0x0020, 0x0020}, CS, Bounded(0, 2), "PatientOrientation"},
	{Tag{0x0020, 0x0032}, DS, Fixed(3), "ImagePositionPatient"},
	{Tag{0x0020, 0x0037}, DS, Fixed(6), "ImageOrientationPatient"},
	{Tag{0x0020, 0x0052}, UI, Single(), "FrameOfReferenceUID"},
	// Retired "Source Image IDs" — a repeating, CS-valued run of elements
	// (spec §4.1 rule 3) that dictionary lookup normalizes before matching.
	{Tag{0x0020, 0x3100}, CS, OneToMany(), "SourceImageIDs"},
	{Tag{0x0008, 0x1160}, IS, OneToMany(), "ReferencedFrameNumber"},
	{Tag{0x0008, 0x0082}, LT, Single(), "InstitutionCodeSequenceText"},
	{Tag{0x0018, 0x9073}, ST, Single(), "AcquisitionDuration"},
})

var dictionaryHigh = sortedEntries([]entry{
	{Tag{0x0028, 0x0002}, US, Single(), "SamplesPerPixel"},
	{Tag{0x0028, 0x0004}, CS, Single(), "PhotometricInterpretation"},
	{Tag{0x0028, 0x0006}, US, Single(), "PlanarConfiguration"},
	{Tag{0x0028, 0x0008}, IS, Single(), "NumberOfFrames"},
	{Tag{0x0028, 0x0010}, US, Single(), "Rows"},
	{Tag{0x0028, 0x0011}, US, Single(), "Columns"},
	{Tag{0x0028, 0x0030}, DS, Fixed(2), "PixelSpacing"},
	{Tag{0x0028, 0x0100}, US, Single(), "BitsAllocated"},
	{Tag{0x0028, 0x0101}, US, Single(), "BitsStored"},
	{Tag{0x0028, 0x0102}, US, Single(), "HighBit"},
	{Tag{0x0028, 0x0103}, US, Single(), "PixelRepresentation"},
	{Tag{0x0028, 0x1050}, DS, OneToMany(), "WindowCenter"},
	{Tag{0x0028, 0x1051}, DS, OneToMany(), "WindowWidth"},
	{Tag{0x0028, 0x1052}, DS, Single(), "RescaleIntercept"},
	{Tag{0x0028, 0x1053}, DS, Single(), "RescaleSlope"},
	{Tag{0x0032, 0x1060}, LO, Single(), "RequestedProcedureDescription"},
	{Tag{0x0040, 0x0275}, SQ, OneToMany(), "RequestAttributesSequence"},
	{Tag{0x0054, 0x0016}, SQ, OneToMany(), "RadiopharmaceuticalInformationSequence"},
	{Tag{0x0054, 0x0400}, LO, Single(), "ImageID"},
	{Tag{0x0088, 0x0130}, SH, Single(), "StorageMediaFileSetID"},
	{Tag{0x0088, 0x0140}, UI, Single(), "StorageMediaFileSetUID"},
	{Tag{0x2001, 0x0010}, LO, Single(), "PrivateCreator"}, // synthetic, exercises private-creator rule in tests
	{Tag{0x3006, 0x0020}, SQ, OneToMany(), "ROIContourSequence"},
	{Tag{0x300A, 0x00B0}, SQ, OneToMany(), "BeamSequence"},
	{Tag{0x7FE0, 0x0008}, OF, OneToMany(), "FloatPixelData"},
	{Tag{0x7FE0, 0x0009}, OD, OneToMany(), "DoubleFloatPixelData"},
	{Tag{0x7FE0, 0x0010}, OW, OneToMany(), "PixelData"},
	// A couple of tags exercising the rarely-hit VRs.
	{Tag{0x0040, 0x1400}, UT, Single(), "RequestedProcedureComments"},
	{Tag{0x0040, 0xA124}, UI, Single(), "UID"},
	{Tag{0x0040, 0xA730}, SQ, OneToMany(), "ContentSequence"},
	{Tag{0x0066, 0x0040}, UL, OneToMany(), "TriangleStripSequenceIndexList"},
	{Tag{0x0066, 0x0023}, OL, Single(), "LongPrimitivePointIndexList"},
	{Tag{0x0066, 0x0031}, FD, OneToMany(), "DoubleValues"},
	{Tag{0x0070, 0x0022}, FL, OneToMany(), "GraphicData"},
	{Tag{0x0070, 0x0021}, SS, OneToMany(), "ShortValues"},
	{Tag{0x0070, 0x0024}, AT, OneToMany(), "CompoundGraphicUnits"},
	{Tag{0x0040, 0x0031}, UC, Single(), "LongCodeValue"},
	{Tag{0x0040, 0x0032}, UR, Single(), "URNCodeValue"},
})

func sortedEntries(e []entry) []entry {
	sort.Slice(e, func(i, j int) bool { return e[i].tag.Less(e[j].tag) })
	return e
}

func lookup(tag Tag) (entry, bool) {
	table := dictionaryLow
	if !tag.Less(dictionaryPivot) {
		table = dictionaryHigh
	}
	i := sort.Search(len(table), func(i int) bool { return !table[i].tag.Less(tag) })
	if i < len(table) && table[i].tag == tag {
		return table[i], true
	}
	return entry{}, false
}

// normalize applies spec §4.1's wildcard/repeating-group masking before a
// dictionary lookup, so that e.g. (6010,1234) resolves the same as
// (6000,1234) and (0020,3105) resolves the same as (0020,3100).
func normalize(tag Tag) Tag {
	v := tag.Uint32()
	switch {
	case v&0xFFE00000 == 0x50000000, v&0xFFE00000 == 0x60000000:
		// Curve Data (5000-501E,xxxx) and Overlay (6000-601E,xxxx) repeating
		// groups: fold the group's low 5 bits away.
		v &= 0xFFE0FFFF
	case v&0xFF000000 == 0x7F000000 && v&0xFFFF0000 != 0x7FE00000:
		// Private/repeating 7Fxx groups, excluding PixelData's own 7FE0.
		v &= 0xFF00FFFF
	case v&0xFFFFFF00 == sourceImageIDsMask:
		return sourceImageIDsTag
	}
	return FromUint32(v)
}

var sourceImageIDsTag = Tag{0x0020, 0x3100}
var sourceImageIDsMask = sourceImageIDsTag.Uint32() & 0xFFFFFF00

// VROf returns the standard VR for tag, applying the special cases of
// spec §4.1 in order before falling back to dictionary lookup. Unknown
// tags resolve to UN — the function is total.
func VROf(tag Tag) VR {
	if tag.Element == 0x0000 {
		return UL // group length
	}
	if IsPrivateCreator(tag) {
		return LO
	}
	if IsPrivate(tag.Group) {
		return UN
	}
	norm := normalize(tag)
	if e, ok := lookup(norm); ok {
		return e.vr
	}
	return UN
}

// VMOf returns the standard value multiplicity for tag. Unknown tags
// resolve to OneToMany, matching real-world dictionaries' treatment of
// unrecognized (often private or vendor) attributes.
func VMOf(tag Tag) VM {
	norm := normalize(tag)
	if e, ok := lookup(norm); ok {
		return e.vm
	}
	return OneToMany()
}

// KeywordOf returns the canonical identifier for tag, or "" if unknown.
func KeywordOf(tag Tag) string {
	norm := normalize(tag)
	if e, ok := lookup(norm); ok {
		return e.keyword
	}
	return ""
}

// FindByKeyword is the inverse of KeywordOf: an exact, case-sensitive
// lookup by dictionary keyword. It returns dicomerr.KindUnknownKeyword
// (via the ok=false return, the error is constructed by the caller so this
// package need not import dicomerr) when no entry matches.
func FindByKeyword(keyword string) (Tag, bool) {
	for _, e := range dictionaryLow {
		if e.keyword == keyword {
			return e.tag, true
		}
	}
	for _, e := range dictionaryHigh {
		if e.keyword == keyword {
			return e.tag, true
		}
	}
	return Tag{}, false
}
