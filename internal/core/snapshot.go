package core

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the reference data produced by one load.
// It is never mutated after NewSnapshot returns, so it can be shared by any
// number of concurrent readers without locking.
type Snapshot struct {
	id       uuid.UUID
	loadedAt time.Time

	species   []Record
	specimens []Specimen
	unified   []Record
	warnings  []string
}

// SnapshotData holds the inputs for NewSnapshot.
type SnapshotData struct {
	// Species holds Schedule I-III records in sheet order.
	Species []Record
	// Specimens holds the Schedule IV text list in appendix order.
	Specimens []Specimen
	// ScheduleIV holds Schedule IV records for unified search. When nil the
	// specimen list is padded into Record shape instead.
	ScheduleIV []Record
	// Warnings describes sources that loaded partially or not at all.
	Warnings []string
}

// NewSnapshot copies data into a new immutable snapshot.
func NewSnapshot(data SnapshotData) *Snapshot {
	s := &Snapshot{
		id:        uuid.New(),
		loadedAt:  time.Now().UTC(),
		species:   cloneOrEmpty(data.Species),
		specimens: cloneOrEmpty(data.Specimens),
		warnings:  cloneOrEmpty(data.Warnings),
	}

	fourth := data.ScheduleIV
	if fourth == nil {
		fourth = make([]Record, len(s.specimens))
		for i, sp := range s.specimens {
			fourth[i] = sp.AsRecord()
		}
	}

	s.unified = make([]Record, 0, len(s.species)+len(fourth))
	s.unified = append(s.unified, s.species...)
	s.unified = append(s.unified, fourth...)
	return s
}

// ID identifies this load.
func (s *Snapshot) ID() uuid.UUID { return s.id }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Species returns a copy of the Schedule I-III records.
func (s *Snapshot) Species() []Record { return slices.Clone(s.species) }

// Specimens returns a copy of the Schedule IV text list.
func (s *Snapshot) Specimens() []Specimen { return slices.Clone(s.specimens) }

// Unified returns a copy of Schedule I-III followed by Schedule IV.
func (s *Snapshot) Unified() []Record { return slices.Clone(s.unified) }

// Warnings returns a copy of the load warnings.
func (s *Snapshot) Warnings() []string { return slices.Clone(s.warnings) }

// Degraded reports whether any source loaded partially.
func (s *Snapshot) Degraded() bool { return len(s.warnings) > 0 }

// Stats summarizes the snapshot for health checks and logs.
type Stats struct {
	ID        string    `json:"snapshot_id"`
	LoadedAt  time.Time `json:"loaded_at"`
	Species   int       `json:"species"`
	Specimens int       `json:"specimens"`
	Unified   int       `json:"unified"`
	Warnings  []string  `json:"warnings"`
}

// Stats returns counts for the snapshot.
func (s *Snapshot) Stats() Stats {
	return Stats{
		ID:        s.id.String(),
		LoadedAt:  s.loadedAt,
		Species:   len(s.species),
		Specimens: len(s.specimens),
		Unified:   len(s.unified),
		Warnings:  s.Warnings(),
	}
}

// Search runs the primary search over the unified sequence.
func (s *Snapshot) Search(q Query, policy EmptyQueryPolicy) SearchResult {
	return FilterRecords(s.unified, q, policy)
}

// SearchSpecimens runs the free-text search over the specimen list.
func (s *Snapshot) SearchSpecimens(query string, policy EmptyQueryPolicy) SpecimenResult {
	return FilterSpecimens(s.specimens, query, policy)
}

func cloneOrEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}
