package collector

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netconns/models"
)

func TestDecodeTable(t *testing.T) {
	buf := []byte{
		2, 0, 0, 0, // two rows
		// row 0: ESTABLISHED 127.0.0.1:80 -> 10.0.0.2:443 pid 4242
		5, 0, 0, 0,
		127, 0, 0, 1,
		0x00, 0x50, 0, 0,
		10, 0, 0, 2,
		0x01, 0xBB, 0, 0,
		0x92, 0x10, 0, 0,
		// row 1: LISTEN 0.0.0.0:22 pid 1
		2, 0, 0, 0,
		0, 0, 0, 0,
		0x00, 0x16, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		1, 0, 0, 0,
	}

	entries, err := DecodeTable(buf)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, models.RawEntry{
		State:      5,
		LocalAddr:  0x0100007F,
		LocalPort:  [4]byte{0x00, 0x50, 0, 0},
		RemoteAddr: 0x0200000A,
		RemotePort: [4]byte{0x01, 0xBB, 0, 0},
		OwningPID:  4242,
	}, entries[0])

	rec, err := BuildRecord(entries[1])
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", rec.LocalAddress)
	assert.Equal(t, uint16(22), rec.LocalPort)
	assert.Equal(t, models.StateListen, rec.State)

	assert.Equal(t, buf, EncodeTable(entries))
}

func TestDecodeTableEmpty(t *testing.T) {
	entries, err := DecodeTable([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecodeTableTruncated(t *testing.T) {
	_, err := DecodeTable([]byte{1, 0})
	assert.ErrorIs(t, err, ErrTruncatedTable)
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	buf := EncodeTable([]models.RawEntry{{State: 1}, {State: 2}})
	_, err = DecodeTable(buf[:len(buf)-1])
	assert.ErrorIs(t, err, ErrTruncatedTable)
}

func TestDecodeTableHugeRowCount(t *testing.T) {
	for _, count := range []uint32{0x0AAAAAAB, 0xFFFFFFFF, 1 << 28} {
		buf := make([]byte, 16)
		binary.LittleEndian.PutUint32(buf, count)

		var err error
		assert.NotPanics(t, func() { _, err = DecodeTable(buf) }, "count %#x", count)
		assert.ErrorIs(t, err, ErrTruncatedTable, "count %#x", count)
	}
}

func TestDecodeTableIgnoresTrailingBytes(t *testing.T) {
	buf := append(EncodeTable([]models.RawEntry{{State: 3, OwningPID: 9}}), 0xAA, 0xBB)
	entries, err := DecodeTable(buf)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int32(9), entries[0].OwningPID)
}
