//go:build windows

package collector

import "golang.org/x/sys/windows"

func isPrivileged() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
