package collector

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"

	"netconns/models"

	gopsnet "github.com/shirou/gopsutil/v3/net"
)

// GopsutilTable reads the table through gopsutil and re-encodes every
// connection in the raw row layout, so all platforms share one decoder.
type GopsutilTable struct{}

func (GopsutilTable) Snapshot(ctx context.Context) ([]models.RawEntry, error) {
	stats, err := gopsnet.ConnectionsWithContext(ctx, "tcp4")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	entries := make([]models.RawEntry, 0, len(stats))
	for _, s := range stats {
		e, ok := rawFromStat(s)
		if !ok {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// gopsutil status names, per platform spelling
var statusCodes = map[string]models.TCPState{
	"CLOSE":        models.StateClosed,
	"CLOSED":       models.StateClosed,
	"LISTEN":       models.StateListen,
	"SYN_SENT":     models.StateSynSent,
	"SYN_RECV":     models.StateSynReceived,
	"SYN_RECEIVED": models.StateSynReceived,
	"ESTABLISHED":  models.StateEstablished,
	"FIN_WAIT1":    models.StateFinWait1,
	"FIN_WAIT_1":   models.StateFinWait1,
	"FIN_WAIT2":    models.StateFinWait2,
	"FIN_WAIT_2":   models.StateFinWait2,
	"CLOSE_WAIT":   models.StateCloseWait,
	"CLOSING":      models.StateClosing,
	"LAST_ACK":     models.StateLastAck,
	"TIME_WAIT":    models.StateTimeWait,
	"DELETE":       models.StateDeleteTCB,
	"DELETE_TCB":   models.StateDeleteTCB,
}

// rawFromStat returns false for non-IPv4 connections. Unknown status names
// become code 0 and are left to the record builder.
func rawFromStat(s gopsnet.ConnectionStat) (models.RawEntry, bool) {
	laddr, ok := encodeIPv4(s.Laddr.IP)
	if !ok {
		return models.RawEntry{}, false
	}
	raddr, ok := encodeIPv4(s.Raddr.IP)
	if !ok {
		return models.RawEntry{}, false
	}

	return models.RawEntry{
		State:      uint32(statusCodes[strings.ToUpper(s.Status)]),
		LocalAddr:  laddr,
		LocalPort:  encodePort(s.Laddr.Port),
		RemoteAddr: raddr,
		RemotePort: encodePort(s.Raddr.Port),
		OwningPID:  s.Pid,
	}, true
}

// encodeIPv4 is the inverse of DecodeIPv4. An empty string is the unspecified
// address, which gopsutil reports for listeners with no peer.
func encodeIPv4(ip string) (uint32, bool) {
	if ip == "" || ip == "*" {
		return 0, true
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return 0, false
	}
	addr = addr.Unmap()
	if !addr.Is4() {
		return 0, false
	}
	b := addr.As4()
	return binary.LittleEndian.Uint32(b[:]), true
}

func encodePort(port uint32) [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint16(b[:2], uint16(port))
	return b
}
