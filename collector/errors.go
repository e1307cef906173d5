package collector

import (
	"errors"
	"fmt"

	"netconns/models"
)

var (
	// ErrProviderUnavailable means no snapshot of the connection table could be taken
	ErrProviderUnavailable = errors.New("connection table unavailable")
	// ErrTruncatedTable means the raw table is shorter than its header claims
	ErrTruncatedTable = fmt.Errorf("%w: truncated table", ErrProviderUnavailable)
	// ErrMalformedEntry means a single raw entry could not be decoded
	ErrMalformedEntry = errors.New("malformed connection entry")

	ErrProcessNotFound = errors.New("process not found")
	ErrAccessDenied    = errors.New("access denied")
)

// ClassifyResolution maps a resolver error to one of the models.Kind* values
func ClassifyResolution(err error) string {
	switch {
	case errors.Is(err, ErrProcessNotFound):
		return models.KindNotFound
	case errors.Is(err, ErrAccessDenied):
		return models.KindAccessDenied
	default:
		return models.KindUnknown
	}
}
