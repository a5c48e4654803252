package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/JonMunkholm/wlpa/internal/logging"
	"github.com/xuri/excelize/v2"
)

// DefaultScheduleSheets are the Schedule I-III sheet names in load order.
var DefaultScheduleSheets = []string{core.ScheduleI, core.ScheduleII, core.ScheduleIII}

// ErrSheetNotFound is reported, as a warning, for a configured sheet the
// workbook does not contain.
var ErrSheetNotFound = errors.New("sheet not found")

// ScheduleWorkbook reads Schedule I-III records from a workbook with one
// sheet per schedule.
//
// Path is a local file or an s3://bucket/key object read through Objects.
type ScheduleWorkbook struct {
	Path    string
	Sheets  []string
	Columns ColumnMap
	Objects ObjectGetter
}

// NewScheduleWorkbook returns a source for path. Nil sheets selects
// DefaultScheduleSheets.
func NewScheduleWorkbook(path string, sheets []string) *ScheduleWorkbook {
	if len(sheets) == 0 {
		sheets = DefaultScheduleSheets
	}
	return &ScheduleWorkbook{Path: path, Sheets: sheets, Columns: ScheduleColumns}
}

// Name implements Source.
func (w *ScheduleWorkbook) Name() string {
	return "schedules workbook " + filepath.Base(w.Path)
}

// Load implements Source. Sheets are concatenated in configured order and a
// missing sheet contributes nothing but a warning.
func (w *ScheduleWorkbook) Load(ctx context.Context) (Batch, error) {
	logger := logging.WithFields(ctx, "source", w.Name())

	f, err := openWorkbook(ctx, w.Path, w.Objects)
	if err != nil {
		return Batch{}, err
	}
	if f == nil {
		logger.Warn("workbook not found, loading no records", "path", w.Path)
		return Batch{Warnings: []string{fmt.Sprintf("%s: file not found", w.Path)}}, nil
	}
	defer f.Close()

	var batch Batch
	available := f.GetSheetList()

	for _, want := range w.Sheets {
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}

		sheet, ok := findSheet(available, want)
		if !ok {
			logger.Warn("schedule sheet missing", "sheet", want)
			batch.Warnings = append(batch.Warnings, fmt.Sprintf("%s: %s: %v", filepath.Base(w.Path), want, ErrSheetNotFound))
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return Batch{}, fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		records := w.parseSheet(want, rows)
		logger.Debug("schedule sheet loaded", "sheet", sheet, "records", len(records))
		batch.Records = append(batch.Records, records...)
	}

	return batch, nil
}

// parseSheet converts sheet rows to records. The first row is the header.
// A blank Schedule cell takes the sheet label.
func (w *ScheduleWorkbook) parseSheet(label string, rows [][]string) []core.Record {
	if len(rows) == 0 {
		return nil
	}

	cols := w.Columns.Resolve(rows[0])
	records := make([]core.Record, 0, len(rows)-1)

	for _, row := range rows[1:] {
		schedule := cols.Cell(row, FieldSchedule)
		if schedule == "" {
			schedule = label
		}
		r, ok := core.NewRecord(schedule, "",
			cols.Cell(row, FieldCommonName),
			cols.Cell(row, FieldScientificName),
		)
		if !ok {
			continue
		}
		records = append(records, r)
	}
	return records
}

// openWorkbook opens a local path or an S3 object. A workbook that does
// not exist returns (nil, nil).
func openWorkbook(ctx context.Context, path string, objects ObjectGetter) (*excelize.File, error) {
	if IsS3URI(path) {
		return openObjectWorkbook(ctx, objects, path)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return f, nil
}

// findSheet matches a configured sheet name against the workbook's sheets,
// ignoring case and surrounding whitespace.
func findSheet(available []string, want string) (string, bool) {
	want = strings.TrimSpace(want)
	for _, name := range available {
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return name, true
		}
	}
	return "", false
}
