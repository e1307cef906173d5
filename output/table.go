package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"netconns/models"
)

const ruleWidth = 110

const elevationHint = "Some processes denied access; run as root/Administrator to resolve their names"

// Render writes the report as a fixed-width table followed by the error
// summary. Colours follow the writer: plain text when it isn't a terminal.
func Render(w io.Writer, report *models.Report) error {
	r := lipgloss.NewRenderer(w)
	okStyle := r.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle := r.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle := r.NewStyle().Foreground(lipgloss.Color("3"))

	withContainer := false
	for _, row := range report.Rows {
		if row.Container != "" {
			withContainer = true
			break
		}
	}

	var b strings.Builder
	rule := strings.Repeat("-", ruleWidth)
	if withContainer {
		rule += strings.Repeat("-", 23)
	}

	if report.Host.Hostname != "" {
		fmt.Fprintf(&b, "Host: %s %s\n", SanitizeTerminal(report.Host.Hostname), SanitizeTerminal(report.Host.OS))
	}
	b.WriteString(rule + "\n")
	b.WriteString(header(withContainer) + "\n")
	b.WriteString(rule + "\n")

	for _, row := range report.Rows {
		fmt.Fprintf(&b, "| %-15s | %-10d | %-15s | %-11d | %-25s | %-15s |",
			row.LocalAddress, row.LocalPort, row.RemoteAddress, row.RemotePort,
			SanitizeTerminal(row.ProcessName), row.State)
		if withContainer {
			fmt.Fprintf(&b, " %-20s |", SanitizeTerminal(row.Container))
		}
		b.WriteString("\n")
	}
	b.WriteString(rule + "\n")

	for _, s := range report.Skipped {
		b.WriteString(warnStyle.Render(fmt.Sprintf("Skipped entry %d: %s", s.Index, s.Reason)) + "\n")
	}

	if !report.HasErrors() {
		b.WriteString(okStyle.Render("There are no errors") + "\n")
	} else {
		for _, e := range report.Errors {
			line := fmt.Sprintf("Error getting process name for PID %d: %s", e.PID, SanitizeTerminal(e.Message))
			b.WriteString(errStyle.Render(line) + "\n")
		}
		if report.NeedsElevation() {
			b.WriteString(warnStyle.Render(elevationHint) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func header(withContainer bool) string {
	h := fmt.Sprintf("| %-15s | %-10s | %-15s | %-11s | %-25s | %-15s |",
		"Local Address", "Local Port", "Remote Address", "Remote Port", "Process Name", "State")
	if withContainer {
		h += fmt.Sprintf(" %-20s |", "Container")
	}
	return h
}

// RenderJSON writes the report as indented JSON
func RenderJSON(w io.Writer, report *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
