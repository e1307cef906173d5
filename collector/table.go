package collector

import (
	"context"
	"encoding/binary"
	"fmt"

	"netconns/models"
)

// ConnectionTable returns a point-in-time snapshot of the IPv4 TCP table
type ConnectionTable interface {
	Snapshot(ctx context.Context) ([]models.RawEntry, error)
}

// MIB_TCPTABLE_OWNER_PID layout: a uint32 row count, then fixed-size rows.
const (
	tableHeaderSize = 4
	tableRowSize    = 24

	rowStateOff      = 0
	rowLocalAddrOff  = 4
	rowLocalPortOff  = 8
	rowRemoteAddrOff = 12
	rowRemotePortOff = 16
	rowPIDOff        = 20
)

// DecodeTable parses a MIB_TCPTABLE_OWNER_PID buffer. All integers are
// little-endian; port fields are copied as is.
func DecodeTable(buf []byte) ([]models.RawEntry, error) {
	if len(buf) < tableHeaderSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncatedTable, len(buf))
	}

	// compared in uint64 so a huge count can't wrap a 32-bit int
	count := binary.LittleEndian.Uint32(buf)
	if uint64(count) > uint64(len(buf)-tableHeaderSize)/tableRowSize {
		return nil, fmt.Errorf("%w: %d rows need %d bytes, have %d",
			ErrTruncatedTable, count, tableHeaderSize+uint64(count)*tableRowSize, len(buf))
	}

	entries := make([]models.RawEntry, int(count))
	for i := range entries {
		row := buf[tableHeaderSize+i*tableRowSize:][:tableRowSize]
		e := &entries[i]
		e.State = binary.LittleEndian.Uint32(row[rowStateOff:])
		e.LocalAddr = binary.LittleEndian.Uint32(row[rowLocalAddrOff:])
		copy(e.LocalPort[:], row[rowLocalPortOff:rowLocalPortOff+4])
		e.RemoteAddr = binary.LittleEndian.Uint32(row[rowRemoteAddrOff:])
		copy(e.RemotePort[:], row[rowRemotePortOff:rowRemotePortOff+4])
		e.OwningPID = int32(binary.LittleEndian.Uint32(row[rowPIDOff:]))
	}
	return entries, nil
}

// EncodeTable is the inverse of DecodeTable
func EncodeTable(entries []models.RawEntry) []byte {
	buf := make([]byte, tableHeaderSize+len(entries)*tableRowSize)
	binary.LittleEndian.PutUint32(buf, uint32(len(entries)))

	for i, e := range entries {
		row := buf[tableHeaderSize+i*tableRowSize:][:tableRowSize]
		binary.LittleEndian.PutUint32(row[rowStateOff:], e.State)
		binary.LittleEndian.PutUint32(row[rowLocalAddrOff:], e.LocalAddr)
		copy(row[rowLocalPortOff:], e.LocalPort[:])
		binary.LittleEndian.PutUint32(row[rowRemoteAddrOff:], e.RemoteAddr)
		copy(row[rowRemotePortOff:], e.RemotePort[:])
		binary.LittleEndian.PutUint32(row[rowPIDOff:], uint32(e.OwningPID))
	}
	return buf
}
