//go:build !windows

package collector

// NewConnectionTable returns the table provider for this OS
func NewConnectionTable() ConnectionTable {
	return GopsutilTable{}
}
