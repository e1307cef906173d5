package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"netconns/models"
)

// responses beyond this are truncated before decoding
const maxResponseBody = 64 * 1024

// Sender posts reports to a collection endpoint
type Sender struct {
	endpoint  string
	apiKey    string
	userAgent string
	client    *http.Client
}

func NewSender(endpoint, apiKey, version string) *Sender {
	return &Sender{
		endpoint:  endpoint,
		apiKey:    apiKey,
		userAgent: "netconns/" + version,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ackBody is what the endpoint answers with, on success or failure
type ackBody struct {
	Success bool   `json:"success"`
	Agent   string `json:"agent"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// APIError is returned for any 4xx/5xx answer
type APIError struct {
	Status int
	Reason string
	Code   string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error (%d): %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("API error (%d): %s [%s]", e.Status, e.Reason, e.Code)
}

// SendReport posts one report as JSON
func (s *Sender) SendReport(ctx context.Context, report *models.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("X-API-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var ack ackBody
	decoded := json.Unmarshal(raw, &ack) == nil

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Reason: strings.TrimSpace(string(raw))}
		if decoded && ack.Error != "" {
			apiErr.Reason, apiErr.Code = ack.Error, ack.Code
		}
		return apiErr
	}

	if decoded && ack.Success {
		log.Printf("Report accepted, agent %s", ack.Agent)
	}
	return nil
}
