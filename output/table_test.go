package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netconns/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		Host: models.SystemInfo{Hostname: "box", OS: "linux ubuntu 24.04"},
		Rows: []models.Row{
			{LocalAddress: "127.0.0.1", LocalPort: 80, RemoteAddress: "10.0.0.2", RemotePort: 443, State: "ESTABLISHED", PID: 4242, ProcessName: "N/A"},
			{LocalAddress: "0.0.0.0", LocalPort: 22, RemoteAddress: "0.0.0.0", RemotePort: 0, State: "LISTEN", PID: 1, ProcessName: "sshd"},
		},
		Errors: []models.ResolutionError{
			{PID: 4242, Kind: models.KindNotFound, Message: "process not found"},
		},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Host: box linux ubuntu 24.04")
	assert.Contains(t, out, "| Local Address   | Local Port | Remote Address  | Remote Port | Process Name              | State           |")
	assert.Contains(t, out, "| 127.0.0.1       | 80         | 10.0.0.2        | 443         | N/A                       | ESTABLISHED     |")
	assert.Contains(t, out, "| 0.0.0.0         | 22         | 0.0.0.0         | 0           | sshd                      | LISTEN          |")
	assert.Contains(t, out, "Error getting process name for PID 4242: process not found")
	assert.NotContains(t, out, "There are no errors")
	assert.NotContains(t, out, "Container")
	assert.NotContains(t, out, "\x1b[", "no colour codes for a non-terminal writer")

	// rows come out in report order
	assert.Less(t, strings.Index(out, "127.0.0.1"), strings.Index(out, "sshd"))
}

func TestRenderNoErrors(t *testing.T) {
	report := sampleReport()
	report.Errors = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report))
	assert.Contains(t, buf.String(), "There are no errors")
	assert.NotContains(t, buf.String(), "Error getting process name")
}

func TestRenderContainersAndSkipped(t *testing.T) {
	report := sampleReport()
	report.Rows[1].Container = "ssh-gw"
	report.Skipped = []models.SkippedEntry{{Index: 3, StateCode: 99, Reason: "malformed connection entry: unknown state code 99"}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report))
	out := buf.String()
	assert.Contains(t, out, "| Container            |")
	assert.Contains(t, out, "| ssh-gw               |")
	assert.Contains(t, out, "Skipped entry 3: malformed connection entry: unknown state code 99")
}

func TestRenderSanitizesNames(t *testing.T) {
	report := sampleReport()
	report.Rows[1].ProcessName = "evil\x1b[2J"

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report))
	assert.Contains(t, buf.String(), `evil\x1b[2J`)
	assert.NotContains(t, buf.String(), "\x1b")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, sampleReport()))

	var got struct {
		Rows []struct {
			LocalAddress string `json:"localAddress"`
			LocalPort    uint16 `json:"localPort"`
			State        string `json:"state"`
			ProcessName  string `json:"processName"`
		} `json:"rows"`
		Errors []struct {
			ProcessID int    `json:"processId"`
			Message   string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "127.0.0.1", got.Rows[0].LocalAddress)
	assert.Equal(t, uint16(80), got.Rows[0].LocalPort)
	assert.Equal(t, "ESTABLISHED", got.Rows[0].State)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, 4242, got.Errors[0].ProcessID)
	assert.Equal(t, "process not found", got.Errors[0].Message)
}

func TestRenderElevationHint(t *testing.T) {
	report := sampleReport()
	report.Errors = append(report.Errors, models.ResolutionError{
		PID: 1, Kind: models.KindAccessDenied, Message: "access denied: open /proc/1/exe: permission denied",
	})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report))
	assert.Contains(t, buf.String(), elevationHint)

	report.Privileged = true
	buf.Reset()
	require.NoError(t, Render(&buf, report))
	assert.NotContains(t, buf.String(), elevationHint)
}

func TestRenderNoHintWithoutAccessDenied(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport()))
	assert.NotContains(t, buf.String(), elevationHint)
}
