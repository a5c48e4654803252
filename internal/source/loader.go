package source

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/JonMunkholm/wlpa/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Loader builds a snapshot from the configured sources.
//
// Species supplies Schedule I-III records, Specimens the Schedule IV text
// list and ScheduleIV, when set, the Schedule IV records for unified search.
// Any of them may be nil.
type Loader struct {
	Species    Source
	Specimens  Source
	ScheduleIV Source

	// Timeout bounds the whole load; 0 means no limit.
	Timeout time.Duration
}

// Load runs every source concurrently and assembles the snapshot. The
// result order is fixed by source role, never by completion order. Any
// source error fails the load.
func (l *Loader) Load(ctx context.Context) (*core.Snapshot, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	logger := logging.FromContext(ctx)
	start := time.Now()

	var species, specimens, fourth Batch
	g, gctx := errgroup.WithContext(ctx)

	run := func(src Source, dst *Batch) {
		if src == nil {
			return
		}
		g.Go(func() error {
			b, err := src.Load(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			*dst = b
			return nil
		})
	}
	run(l.Species, &species)
	run(l.Specimens, &specimens)
	run(l.ScheduleIV, &fourth)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	data := core.SnapshotData{
		Species:   species.Records,
		Specimens: specimens.Specimens,
	}
	if l.ScheduleIV != nil {
		data.ScheduleIV = fourth.Records
		if data.ScheduleIV == nil {
			data.ScheduleIV = []core.Record{}
		}
	}
	for _, b := range []Batch{species, specimens, fourth} {
		data.Warnings = append(data.Warnings, b.Warnings...)
	}

	snap := core.NewSnapshot(data)
	stats := snap.Stats()
	logger.Info("reference data loaded",
		"snapshot_id", stats.ID,
		"species", stats.Species,
		"specimens", stats.Specimens,
		"unified", stats.Unified,
		"warnings", len(stats.Warnings),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}
