//go:build windows

package collector

import (
	"context"
	"fmt"
	"log"
	"unsafe"

	"golang.org/x/sys/windows"

	"netconns/models"
)

var (
	iphlpapi                = windows.NewLazySystemDLL("iphlpapi.dll")
	procGetExtendedTcpTable = iphlpapi.NewProc("GetExtendedTcpTable")
)

const (
	afInet                 = 2
	tcpTableOwnerPIDAll    = 5
	errInsufficientBuffer  = uintptr(windows.ERROR_INSUFFICIENT_BUFFER)
	maxTableGrowthAttempts = 3
)

// iphlpTable reads the table with GetExtendedTcpTable
type iphlpTable struct{}

// NewConnectionTable returns the table provider for this OS
func NewConnectionTable() ConnectionTable {
	return iphlpTable{}
}

func (iphlpTable) Snapshot(ctx context.Context) ([]models.RawEntry, error) {
	if err := procGetExtendedTcpTable.Find(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	// The table can grow between the size query and the fill call.
	for attempt := 1; attempt <= maxTableGrowthAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}

		var size uint32
		r0 := getExtendedTcpTable(nil, &size)
		if r0 != 0 && r0 != errInsufficientBuffer {
			return nil, fmt.Errorf("%w: GetExtendedTcpTable size query failed: %d", ErrProviderUnavailable, r0)
		}
		if size < tableHeaderSize {
			size = tableHeaderSize
		}

		buf := make([]byte, size)
		r0 = getExtendedTcpTable(&buf[0], &size)
		switch r0 {
		case 0:
			return DecodeTable(buf[:size])
		case errInsufficientBuffer:
			log.Printf("TCP table grew during read, retrying (%d/%d)", attempt, maxTableGrowthAttempts)
			continue
		default:
			return nil, fmt.Errorf("%w: GetExtendedTcpTable failed: %d", ErrProviderUnavailable, r0)
		}
	}

	return nil, fmt.Errorf("%w: table kept growing after %d attempts", ErrProviderUnavailable, maxTableGrowthAttempts)
}

func getExtendedTcpTable(buf *byte, size *uint32) uintptr {
	r0, _, _ := procGetExtendedTcpTable.Call(
		uintptr(unsafe.Pointer(buf)),
		uintptr(unsafe.Pointer(size)),
		1, // sorted
		afInet,
		tcpTableOwnerPIDAll,
		0,
	)
	return r0
}
