package collector

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// NameResolver maps a process id to its display name
type NameResolver interface {
	ResolveName(ctx context.Context, pid int32) (string, error)
}

// ProcessResolver looks names up with gopsutil
type ProcessResolver struct{}

// ResolveName fails with ErrProcessNotFound when the process is gone and
// with an error wrapping ErrAccessDenied when the OS refuses the lookup.
func (ProcessResolver) ResolveName(ctx context.Context, pid int32) (string, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", resolveErr(err)
	}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		return "", resolveErr(err)
	}
	return name, nil
}

func resolveErr(err error) error {
	switch {
	case errors.Is(err, process.ErrorProcessNotRunning), errors.Is(err, os.ErrNotExist):
		return ErrProcessNotFound
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return err
	}
}
