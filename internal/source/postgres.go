package source

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is the read side of a pgx connection.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// scheduleTableQuery reads the reference table in schedule order, then in
// the row order of the original sheet. Schedules not listed sort last.
const scheduleTableQuery = `
SELECT schedule, common_name, scientific_name
FROM wlpa_species
ORDER BY array_position($1::text[], schedule) NULLS LAST, position`

// ScheduleTable reads Schedule I-III records from a read-only PostgreSQL
// table with columns schedule, common_name, scientific_name and position.
type ScheduleTable struct {
	db     Querier
	sheets []string
}

// NewScheduleTable returns a source reading through db. Nil sheets selects
// DefaultScheduleSheets for ordering.
func NewScheduleTable(db Querier, sheets []string) *ScheduleTable {
	if len(sheets) == 0 {
		sheets = DefaultScheduleSheets
	}
	return &ScheduleTable{db: db, sheets: sheets}
}

// Name implements Source.
func (t *ScheduleTable) Name() string { return "schedules table wlpa_species" }

// Load implements Source.
func (t *ScheduleTable) Load(ctx context.Context) (Batch, error) {
	rows, err := t.db.Query(ctx, scheduleTableQuery, t.sheets)
	if err != nil {
		return Batch{}, fmt.Errorf("query wlpa_species: %w", err)
	}
	defer rows.Close()

	var batch Batch
	for rows.Next() {
		var schedule, common, scientific pgtype.Text
		if err := rows.Scan(&schedule, &common, &scientific); err != nil {
			return Batch{}, fmt.Errorf("scan wlpa_species: %w", err)
		}
		// NULL reads as "" through pgtype.Text
		if r, ok := core.NewRecord(schedule.String, "", common.String, scientific.String); ok {
			batch.Records = append(batch.Records, r)
		}
	}
	if err := rows.Err(); err != nil {
		return Batch{}, fmt.Errorf("read wlpa_species: %w", err)
	}
	return batch, nil
}
