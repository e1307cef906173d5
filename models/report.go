package models

import "time"

// NotAvailable is shown instead of a process name that could not be resolved
const NotAvailable = "N/A"

// Resolution error kinds
const (
	KindNotFound     = "not_found"
	KindAccessDenied = "access_denied"
	KindUnknown      = "unknown"
)

// Row is one connection line of the report
type Row struct {
	LocalAddress  string `json:"localAddress"`
	LocalPort     uint16 `json:"localPort"`
	RemoteAddress string `json:"remoteAddress"`
	RemotePort    uint16 `json:"remotePort"`
	State         string `json:"state"`
	PID           int32  `json:"pid"`
	ProcessName   string `json:"processName"`
	Container     string `json:"container,omitempty"`
}

// ResolutionError records a failed process name lookup
type ResolutionError struct {
	PID     int32  `json:"processId"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SkippedEntry records a raw entry that could not be decoded
type SkippedEntry struct {
	Index     int    `json:"index"`
	StateCode uint32 `json:"stateCode"`
	Reason    string `json:"reason"`
}

// Report is the result of one enumeration cycle
type Report struct {
	Timestamp time.Time  `json:"timestamp"`
	Host      SystemInfo `json:"host"`
	// Privileged is true when the snapshot was taken with root/elevated rights
	Privileged bool              `json:"privileged"`
	Rows       []Row             `json:"rows"`
	Errors     []ResolutionError `json:"errors"`
	Skipped    []SkippedEntry    `json:"skipped,omitempty"`
}

// HasErrors reports whether any process name lookup failed
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// NeedsElevation is true when an unprivileged run hit access-denied lookups
func (r *Report) NeedsElevation() bool {
	if r.Privileged {
		return false
	}
	for _, e := range r.Errors {
		if e.Kind == KindAccessDenied {
			return true
		}
	}
	return false
}
