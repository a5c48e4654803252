package source

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type fakeQuerier struct {
	rows     *fakeRows
	err      error
	gotSQL   string
	gotArgs  []any
	queryCnt int
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.queryCnt++
	q.gotSQL = sql
	q.gotArgs = args
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

// fakeRows yields rows of nullable text columns; a nil entry is NULL.
type fakeRows struct {
	data    [][]*string
	pos     int
	err     error
	scanErr error
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		t, ok := d.(*pgtype.Text)
		if !ok {
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
		if row[i] == nil {
			*t = pgtype.Text{}
			continue
		}
		*t = pgtype.Text{String: *row[i], Valid: true}
	}
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	row := r.data[r.pos-1]
	out := make([]any, len(row))
	for i, v := range row {
		if v != nil {
			out[i] = *v
		}
	}
	return out, nil
}

func str(s string) *string { return &s }

func TestScheduleTable_Load(t *testing.T) {
	rows := &fakeRows{data: [][]*string{
		{str("Schedule-I"), str(" Tiger "), str("Panthera tigris")},
		{str("Schedule-I"), nil, nil},
		{str("Schedule-II"), nil, str("Python molurus")},
		{nil, str("Unknown"), str("")},
	}}
	db := &fakeQuerier{rows: rows}

	batch, err := NewScheduleTable(db, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []core.Record{
		{Schedule: "Schedule-I", CommonName: "Tiger", ScientificName: "Panthera tigris"},
		{Schedule: "Schedule-II", ScientificName: "Python molurus"},
		{Schedule: "", CommonName: "Unknown"},
	}
	if diff := cmp.Diff(want, batch.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if !rows.closed {
		t.Error("rows were not closed")
	}
	if len(db.gotArgs) != 1 {
		t.Fatalf("args = %v", db.gotArgs)
	}
	if diff := cmp.Diff(DefaultScheduleSheets, db.gotArgs[0]); diff != "" {
		t.Errorf("ordering arg mismatch (-want +got):\n%s", diff)
	}
}

func TestScheduleTable_CustomSheetOrder(t *testing.T) {
	db := &fakeQuerier{rows: &fakeRows{}}
	sheets := []string{"Schedule-III", "Schedule-I"}

	batch, err := NewScheduleTable(db, sheets).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(batch.Records) != 0 {
		t.Errorf("records = %v, want none", batch.Records)
	}
	if diff := cmp.Diff(sheets, db.gotArgs[0]); diff != "" {
		t.Errorf("ordering arg mismatch (-want +got):\n%s", diff)
	}
}

func TestScheduleTable_Errors(t *testing.T) {
	tests := []struct {
		name     string
		db       *fakeQuerier
		wantCode string
	}{
		{
			name:     "connection refused",
			db:       &fakeQuerier{err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")},
			wantCode: "DB001",
		},
		{
			name:     "missing table",
			db:       &fakeQuerier{err: errors.New(`ERROR: relation "wlpa_species" does not exist (SQLSTATE 42P01)`)},
			wantCode: "DB002",
		},
		{
			name:     "scan failure",
			db:       &fakeQuerier{rows: &fakeRows{data: [][]*string{{nil, nil, nil}}, scanErr: errors.New("cannot scan")}},
			wantCode: "ERR000",
		},
		{
			name:     "rows error",
			db:       &fakeQuerier{rows: &fakeRows{err: errors.New("context deadline exceeded")}},
			wantCode: "REQ001",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScheduleTable(tt.db, nil).Load(context.Background())
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if got := core.MapError(err).Code; got != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", err, got, tt.wantCode)
			}
		})
	}
}
