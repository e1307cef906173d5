package collector

import (
	"log"
	"os"
	"sync"
)

// Capabilities describes what this agent can see on the host
type Capabilities struct {
	HasDockerSocket bool
	IsPrivileged    bool
}

var (
	caps     Capabilities
	capsOnce sync.Once
)

// DetectCapabilities probes the host once and logs the result
func DetectCapabilities() Capabilities {
	capsOnce.Do(func() {
		caps = Capabilities{
			HasDockerSocket: fileExists("/var/run/docker.sock"),
			IsPrivileged:    isPrivileged(),
		}

		log.Println("╭─ Agent Capabilities ──────────────────────────────────────╮")
		logCap("Docker", caps.HasDockerSocket, "(container names)")
		logCap("Privileged", caps.IsPrivileged, "(other users' processes)")
		log.Println("╰───────────────────────────────────────────────────────────╯")
	})
	return caps
}

func logCap(name string, available bool, desc string) {
	icon := "✗"
	status := "unavailable"
	if available {
		icon = "✓"
		status = "enabled"
	}
	log.Printf("│ %s %-10s │ %-11s │ %-28s │", icon, name, status, desc)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
