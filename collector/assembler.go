package collector

import (
	"context"

	"golang.org/x/sync/errgroup"

	"netconns/models"
)

// Assembler joins connection records with their process names
type Assembler struct {
	resolver NameResolver
	workers  int
}

// NewAssembler returns an assembler that resolves up to workers names at a
// time. workers < 2 resolves sequentially.
func NewAssembler(resolver NameResolver, workers int) *Assembler {
	if workers < 1 {
		workers = 1
	}
	return &Assembler{resolver: resolver, workers: workers}
}

type outcome struct {
	name string
	err  error
}

// Assemble resolves every record exactly once and returns rows in input
// order. A failed lookup yields a models.NotAvailable row plus an entry in
// Report.Errors; it never stops the pass. The pass is not cancellable.
func (a *Assembler) Assemble(ctx context.Context, records []models.ConnectionRecord) *models.Report {
	ctx = context.WithoutCancel(ctx)
	outcomes := make([]outcome, len(records))

	if a.workers == 1 {
		for i, rec := range records {
			outcomes[i] = a.resolve(ctx, rec)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(a.workers)
		for i, rec := range records {
			g.Go(func() error {
				outcomes[i] = a.resolve(ctx, rec)
				return nil
			})
		}
		_ = g.Wait()
	}

	report := &models.Report{
		Rows:   make([]models.Row, 0, len(records)),
		Errors: []models.ResolutionError{},
	}
	for i, rec := range records {
		o := outcomes[i]
		name := o.name
		if o.err != nil {
			name = models.NotAvailable
			report.Errors = append(report.Errors, models.ResolutionError{
				PID:     rec.OwningPID,
				Kind:    ClassifyResolution(o.err),
				Message: o.err.Error(),
			})
		}
		report.Rows = append(report.Rows, models.Row{
			LocalAddress:  rec.LocalAddress,
			LocalPort:     rec.LocalPort,
			RemoteAddress: rec.RemoteAddress,
			RemotePort:    rec.RemotePort,
			State:         rec.State.String(),
			PID:           rec.OwningPID,
			ProcessName:   name,
		})
	}
	return report
}

func (a *Assembler) resolve(ctx context.Context, rec models.ConnectionRecord) outcome {
	name, err := a.resolver.ResolveName(ctx, rec.OwningPID)
	return outcome{name: name, err: err}
}
