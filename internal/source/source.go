// Package source loads the reference data behind the species finder.
//
// Each [Source] reads one configured origin (a workbook, the Species+ API or
// a database table) and returns a [Batch] of normalized rows. The [Loader]
// runs the configured sources once and assembles an immutable
// [core.Snapshot] in a fixed order.
package source

import (
	"context"

	"github.com/JonMunkholm/wlpa/internal/core"
)

// Batch is what one source contributes to a snapshot.
type Batch struct {
	Records   []core.Record
	Specimens []core.Specimen
	// Warnings describes data the source could not load but skipped over,
	// such as a missing sheet or a failed API page.
	Warnings []string
}

// Source produces one batch of reference data.
// Load returns an error only for I/O, credential or decoding failures;
// an absent or empty origin yields an empty batch.
type Source interface {
	Name() string
	Load(ctx context.Context) (Batch, error)
}
