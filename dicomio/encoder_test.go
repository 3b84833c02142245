package dicomio_test

import (
	"encoding/binary"
	"testing"

	"github.com/odincare/dicomstream/dicomio"
	"github.com/stretchr/testify/require"
)

func TestEncoderWriteUint16LittleEndian(t *testing.T) {
	e := dicomio.NewEncoder(binary.LittleEndian)
	e.WriteUint16(0x0102)
	require.Equal(t, []byte{0x02, 0x01}, e.Bytes())
}

func TestEncoderWriteUint32BigEndian(t *testing.T) {
	e := dicomio.NewEncoder(binary.BigEndian)
	e.WriteUint32(0x01020304)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, e.Bytes())
}

func TestEncoderSetByteOrderMidStream(t *testing.T) {
	e := dicomio.NewEncoder(binary.LittleEndian)
	e.WriteUint16(1)
	e.SetByteOrder(binary.BigEndian)
	e.WriteUint16(1)
	require.Equal(t, []byte{0x01, 0x00, 0x00, 0x01}, e.Bytes())
}

func TestEncoderWriteZerosAndString(t *testing.T) {
	e := dicomio.NewEncoder(binary.LittleEndian)
	e.WriteZeros(4)
	e.WriteString("DICM")
	require.Equal(t, append(make([]byte, 4), []byte("DICM")...), e.Bytes())
}

func TestEncoderLen(t *testing.T) {
	e := dicomio.NewEncoder(binary.LittleEndian)
	e.WriteBytes([]byte{1, 2, 3})
	require.Equal(t, 3, e.Len())
}
