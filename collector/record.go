package collector

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"netconns/models"
)

// DecodeIPv4 renders an address stored in network order and read as a
// little-endian integer, so 0x0100007F is 127.0.0.1.
func DecodeIPv4(v uint32) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b).String()
}

// DecodePort reads the first two bytes of a raw port field as a big-endian
// uint16. Bytes 2 and 3 are unused.
func DecodePort(b [4]byte) uint16 {
	return binary.BigEndian.Uint16(b[:2])
}

// BuildRecord decodes one raw entry. An unknown state code fails with
// ErrMalformedEntry and no record.
func BuildRecord(e models.RawEntry) (models.ConnectionRecord, error) {
	state, ok := models.ParseTCPState(e.State)
	if !ok {
		return models.ConnectionRecord{}, fmt.Errorf("%w: unknown state code %d", ErrMalformedEntry, e.State)
	}
	return buildRecord(e, state), nil
}

func buildRecord(e models.RawEntry, state models.TCPState) models.ConnectionRecord {
	return models.ConnectionRecord{
		LocalAddress:  DecodeIPv4(e.LocalAddr),
		LocalPort:     DecodePort(e.LocalPort),
		RemoteAddress: DecodeIPv4(e.RemoteAddr),
		RemotePort:    DecodePort(e.RemotePort),
		State:         state,
		OwningPID:     e.OwningPID,
	}
}

// MalformedPolicy decides what happens to entries BuildRecord rejects
type MalformedPolicy string

const (
	// PolicySkip drops the entry and notes it in Report.Skipped
	PolicySkip MalformedPolicy = "skip"
	// PolicyKeep emits the entry with StateUnknown
	PolicyKeep MalformedPolicy = "keep"
	// PolicyAbort fails the whole run
	PolicyAbort MalformedPolicy = "abort"
)

// ParseMalformedPolicy returns PolicySkip for anything it doesn't recognise
func ParseMalformedPolicy(s string) MalformedPolicy {
	switch p := MalformedPolicy(s); p {
	case PolicyKeep, PolicyAbort:
		return p
	default:
		return PolicySkip
	}
}

// BuildRecords decodes a snapshot in order under the given policy.
func BuildRecords(entries []models.RawEntry, policy MalformedPolicy) ([]models.ConnectionRecord, []models.SkippedEntry, error) {
	records := make([]models.ConnectionRecord, 0, len(entries))
	var skipped []models.SkippedEntry

	for i, e := range entries {
		rec, err := BuildRecord(e)
		if err == nil {
			records = append(records, rec)
			continue
		}

		switch policy {
		case PolicyAbort:
			return nil, nil, fmt.Errorf("entry %d: %w", i, err)
		case PolicyKeep:
			records = append(records, buildRecord(e, models.StateUnknown))
		default:
			skipped = append(skipped, models.SkippedEntry{
				Index:     i,
				StateCode: e.State,
				Reason:    err.Error(),
			})
		}
	}

	return records, skipped, nil
}
