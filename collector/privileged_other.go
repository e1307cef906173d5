//go:build !windows

package collector

import "os"

func isPrivileged() bool {
	return os.Geteuid() == 0
}
