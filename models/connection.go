package models

// TCPState is the MIB_TCP_STATE code of a connection.
type TCPState uint32

const (
	StateUnknown TCPState = iota
	StateClosed
	StateListen
	StateSynSent
	StateSynReceived
	StateEstablished
	StateFinWait1
	StateFinWait2
	StateCloseWait
	StateClosing
	StateLastAck
	StateTimeWait
	StateDeleteTCB
)

var stateNames = [...]string{
	StateUnknown:     "UNKNOWN",
	StateClosed:      "CLOSED",
	StateListen:      "LISTEN",
	StateSynSent:     "SYN_SENT",
	StateSynReceived: "SYN_RECEIVED",
	StateEstablished: "ESTABLISHED",
	StateFinWait1:    "FIN_WAIT1",
	StateFinWait2:    "FIN_WAIT2",
	StateCloseWait:   "CLOSE_WAIT",
	StateClosing:     "CLOSING",
	StateLastAck:     "LAST_ACK",
	StateTimeWait:    "TIME_WAIT",
	StateDeleteTCB:   "DELETE_TCB",
}

// ParseTCPState maps a raw state code. ok is false for codes outside 1..12.
func ParseTCPState(code uint32) (state TCPState, ok bool) {
	if code == 0 || code > uint32(StateDeleteTCB) {
		return StateUnknown, false
	}
	return TCPState(code), true
}

func (s TCPState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return stateNames[StateUnknown]
}

// RawEntry is one row of the OS connection table, as handed over by a provider.
// Addresses are stored in network order read as a little-endian integer, ports
// as the raw 4-byte field whose first two bytes are the port in network order.
type RawEntry struct {
	State      uint32
	LocalAddr  uint32
	LocalPort  [4]byte
	RemoteAddr uint32
	RemotePort [4]byte
	OwningPID  int32
}

// ConnectionRecord is a decoded RawEntry
type ConnectionRecord struct {
	LocalAddress  string
	LocalPort     uint16
	RemoteAddress string
	RemotePort    uint16
	State         TCPState
	OwningPID     int32
}
