package collector

import (
	"context"
	"os"
	"runtime"
	"strings"

	"netconns/models"

	"github.com/shirou/gopsutil/v3/host"
)

// HostInfo gathers the report header. Missing pieces are left empty.
func HostInfo(ctx context.Context) models.SystemInfo {
	info := models.SystemInfo{Arch: runtime.GOARCH}
	info.Hostname, _ = os.Hostname()

	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		info.OS = joinNonEmpty(hostInfo.OS, hostInfo.Platform, hostInfo.PlatformVersion)
		info.Kernel = hostInfo.KernelVersion
		if hostInfo.KernelArch != "" {
			info.Arch = hostInfo.KernelArch
		}
		if info.Hostname == "" {
			info.Hostname = hostInfo.Hostname
		}
	}
	return info
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
