// Package dicomuid holds the small set of UIDs the streaming codec needs to
// recognize by value: the transfer syntaxes that determine how a dataset's
// bytes are laid out on the wire.
package dicomuid

import (
	"encoding/binary"
	"fmt"
)

// Transfer syntax UIDs recognized explicitly by the parser and serializer
// (spec §6 "TSUIDs recognized explicitly").
const (
	ImplicitVRLittleEndian         = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian         = "1.2.840.10008.1.2.1"
	ExplicitVRBigEndianRetired     = "1.2.840.10008.1.2.2"
	DeflatedExplicitVRLittleEndian = "1.2.840.10008.1.2.1.99"
	JPIPReferencedDeflate          = "1.2.840.10008.1.2.4.95"
)

// Type classifies a UID. The codec only cares about transfer syntaxes, but
// the type tag lets Lookup reject a well-formed UID that
// names something else (a SOP class, say) with a clear error.
type Type int

const (
	TypeUnknown Type = iota
	TypeTransferSyntax
)

var knownTransferSyntaxes = map[string]bool{
	ImplicitVRLittleEndian:         true,
	ExplicitVRLittleEndian:         true,
	ExplicitVRBigEndianRetired:     true,
	DeflatedExplicitVRLittleEndian: true,
	JPIPReferencedDeflate:          true,
}

// IsDeflated reports whether the named transfer syntax carries a deflated
// dataset (spec §4.5 InFmiHeader, §6).
func IsDeflated(uid string) bool {
	return uid == DeflatedExplicitVRLittleEndian || uid == JPIPReferencedDeflate
}

// ByteOrder reports the byte order a recognized transfer syntax's dataset
// is encoded in.
func ByteOrder(uid string) (binary.ByteOrder, bool) {
	switch uid {
	case ExplicitVRBigEndianRetired:
		return binary.BigEndian, true
	case ImplicitVRLittleEndian, ExplicitVRLittleEndian, DeflatedExplicitVRLittleEndian, JPIPReferencedDeflate:
		return binary.LittleEndian, true
	default:
		return nil, false
	}
}

// IsImplicitVR reports whether a recognized transfer syntax omits the VR
// from every element header.
func IsImplicitVR(uid string) bool {
	return uid == ImplicitVRLittleEndian
}

// Lookup reports the Type of uid. Transfer syntaxes are the only UIDs this
// package knows about; anything else resolves to TypeUnknown with an error,
// matching the teacher's Lookup/CanonicalTransferSyntaxUID split.
func Lookup(uid string) (Type, error) {
	if knownTransferSyntaxes[uid] {
		return TypeTransferSyntax, nil
	}
	return TypeUnknown, fmt.Errorf("dicomuid: unknown UID %q", uid)
}
