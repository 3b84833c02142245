package dicomparse_test

import (
	"bytes"
	"testing"

	"github.com/odincare/dicomstream/dicomparse"
	"github.com/odincare/dicomstream/dicomparts"
	"github.com/odincare/dicomstream/dicomtag"
	"github.com/odincare/dicomstream/dicomuid"
	"github.com/stretchr/testify/require"
)

// explicitShortHeader encodes an 8-byte explicit-VR header (short form: VR
// code + 2-byte length) used by every VR except the "long" ones.
func explicitShortHeader(tag dicomtag.Tag, vr dicomtag.VR, length uint16) []byte {
	var b bytes.Buffer
	writeU16LE(&b, tag.Group)
	writeU16LE(&b, tag.Element)
	b.WriteString(string(vr))
	writeU16LE(&b, length)
	return b.Bytes()
}

func padEven(s string, pad byte) []byte {
	b := []byte(s)
	if len(b)%2 != 0 {
		b = append(b, pad)
	}
	return b
}

func TestParseAllFmiThenExplicitVRDataset(t *testing.T) {
	tsuid := padEven(dicomuid.ExplicitVRLittleEndian, 0x00)

	var fmi bytes.Buffer
	fmi.Write(explicitShortHeader(dicomtag.TransferSyntaxUID, dicomtag.UI, uint16(len(tsuid))))
	fmi.Write(tsuid)
	groupLength := uint32(fmi.Len())

	var stream bytes.Buffer
	stream.Write(explicitShortHeader(dicomtag.FileMetaInformationGroupLength, dicomtag.UL, 4))
	writeU32LE(&stream, groupLength)
	stream.Write(fmi.Bytes())

	patientName := dicomtag.Tag{Group: 0x0010, Element: 0x0010}
	value := padEven("ZHANG^SAN", ' ')
	stream.Write(explicitShortHeader(patientName, dicomtag.PN, uint16(len(value))))
	stream.Write(value)

	parts, err := dicomparse.ParseAll(&stream, dicomparse.Options{})
	require.NoError(t, err)

	var sawFmiGroupLength, sawFmiTsuid bool
	var datasetHeader *dicomparts.Header
	for i := range parts {
		h, ok := parts[i].(dicomparts.Header)
		if !ok {
			continue
		}
		switch {
		case h.Tag == dicomtag.FileMetaInformationGroupLength:
			sawFmiGroupLength = true
			require.True(t, h.IsFmi)
		case h.Tag == dicomtag.TransferSyntaxUID:
			sawFmiTsuid = true
			require.True(t, h.IsFmi)
		case h.Tag == patientName:
			hCopy := h
			datasetHeader = &hCopy
		}
	}
	require.True(t, sawFmiGroupLength)
	require.True(t, sawFmiTsuid)
	require.NotNil(t, datasetHeader)
	require.False(t, datasetHeader.IsFmi)
	require.True(t, datasetHeader.ExplicitVR)
	require.False(t, datasetHeader.BigEndian)
}
