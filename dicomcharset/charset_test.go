package dicomcharset_test

import (
	"testing"

	"github.com/odincare/dicomstream/dicomcharset"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultIsASCIIPassthrough(t *testing.T) {
	cs := dicomcharset.Parse(nil)
	s, err := dicomcharset.Decode(cs.Decoder(dicomcharset.Ideographic), []byte("HELLO"))
	require.NoError(t, err)
	require.Equal(t, "HELLO", s)
}

func TestParseKnownLatin1(t *testing.T) {
	cs := dicomcharset.Parse([]string{"ISO_IR 100"})
	require.NotNil(t, cs.Alphabetic)
	require.NotNil(t, cs.Ideographic)
	require.NotNil(t, cs.Phonetic)
}

func TestParseUnknownFallsBackToASCII(t *testing.T) {
	cs := dicomcharset.Parse([]string{"NOT_A_REAL_CHARSET"})
	require.Nil(t, cs.Decoder(dicomcharset.Ideographic))
}

func TestParseTwoValuesSplitsAlphabeticFromRest(t *testing.T) {
	cs := dicomcharset.Parse([]string{"", "ISO 2022 IR 87"})
	require.Nil(t, cs.Alphabetic)
	require.NotNil(t, cs.Ideographic)
	require.NotNil(t, cs.Phonetic)
}

func TestDecodeNilDecoderIsPassthrough(t *testing.T) {
	s, err := dicomcharset.Decode(nil, []byte("abc"))
	require.NoError(t, err)
	require.Equal(t, "abc", s)
}

func TestDecodeEmptyInput(t *testing.T) {
	s, err := dicomcharset.Decode(nil, nil)
	require.NoError(t, err)
	require.Equal(t, "", s)
}
