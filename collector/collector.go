package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"netconns/models"
)

// Pipeline takes one snapshot of the connection table and turns it into a report
type Pipeline struct {
	Table      ConnectionTable
	Assembler  *Assembler
	Policy     MalformedPolicy
	Containers ContainerLookup // optional
	Privileged bool
	Host       func(ctx context.Context) models.SystemInfo
	Now        func() time.Time
}

// NewPipeline wires the default OS providers
func NewPipeline(policy MalformedPolicy, workers int) *Pipeline {
	return &Pipeline{
		Table:     NewConnectionTable(),
		Assembler: NewAssembler(ProcessResolver{}, workers),
		Policy:    policy,
		Host:      HostInfo,
		Now:       time.Now,
	}
}

// Run executes one enumeration cycle. A provider failure returns an error
// wrapping ErrProviderUnavailable and no report; per-record failures end up
// in the report.
func (p *Pipeline) Run(ctx context.Context) (*models.Report, error) {
	entries, err := p.Table.Snapshot(ctx)
	if err != nil {
		if !errors.Is(err, ErrProviderUnavailable) {
			err = fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return nil, err
	}

	records, skipped, err := BuildRecords(entries, p.Policy)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		log.Printf("Skipped %d malformed entries", len(skipped))
	}

	report := p.Assembler.Assemble(ctx, records)
	report.Skipped = skipped
	report.Privileged = p.Privileged

	if p.Containers != nil {
		p.annotateContainers(ctx, report)
	}
	if p.Host != nil {
		report.Host = p.Host(ctx)
	}
	if p.Now != nil {
		report.Timestamp = p.Now()
	}
	return report, nil
}

func (p *Pipeline) annotateContainers(ctx context.Context, report *models.Report) {
	pids, err := p.Containers.ContainerPIDs(ctx)
	if err != nil {
		log.Printf("Container lookup failed: %v", err)
		return
	}
	for i := range report.Rows {
		if name, ok := pids[report.Rows[i].PID]; ok {
			report.Rows[i].Container = name
		}
	}
}
