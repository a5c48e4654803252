package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/JonMunkholm/wlpa/internal/logging"
)

// SpecimenLayout selects how a Schedule IV workbook is organized.
type SpecimenLayout string

const (
	// LayoutAuto uses LayoutSheets when any of the sheets "I", "II", "III"
	// exists and LayoutFlat otherwise.
	LayoutAuto SpecimenLayout = "auto"
	// LayoutFlat reads the first sheet with columns
	// Schedule, I, II_family, II_species, III.
	LayoutFlat SpecimenLayout = "flat"
	// LayoutSheets reads one sheet per appendix, using the first column.
	LayoutSheets SpecimenLayout = "sheets"
)

// ParseSpecimenLayout converts a config value to a layout.
func ParseSpecimenLayout(s string) (SpecimenLayout, error) {
	switch SpecimenLayout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutAuto:
		return LayoutAuto, nil
	case LayoutFlat:
		return LayoutFlat, nil
	case LayoutSheets:
		return LayoutSheets, nil
	default:
		return "", fmt.Errorf("invalid specimen layout %q: want auto, flat or sheets", s)
	}
}

// flatColumns is the column read order of the flat layout and the appendix
// each column is tagged with.
var flatColumns = []struct {
	field    Field
	appendix string
}{
	{FieldAppendixI, core.AppendixI},
	{FieldAppendixIIFamily, core.AppendixII},
	{FieldAppendixIISpecies, core.AppendixII},
	{FieldAppendixIII, core.AppendixIII},
}

// SpecimenWorkbook reads the Schedule IV text list.
type SpecimenWorkbook struct {
	Path    string
	Layout  SpecimenLayout
	Columns ColumnMap
	Objects ObjectGetter
}

// NewSpecimenWorkbook returns a source for path.
func NewSpecimenWorkbook(path string, layout SpecimenLayout) *SpecimenWorkbook {
	if layout == "" {
		layout = LayoutAuto
	}
	return &SpecimenWorkbook{Path: path, Layout: layout, Columns: AppendixColumns}
}

// Name implements Source.
func (w *SpecimenWorkbook) Name() string {
	return "specimens workbook " + filepath.Base(w.Path)
}

// Load implements Source. Entries come out in appendix order I, II, III
// and, within an appendix, in source order.
func (w *SpecimenWorkbook) Load(ctx context.Context) (Batch, error) {
	logger := logging.WithFields(ctx, "source", w.Name())

	f, err := openWorkbook(ctx, w.Path, w.Objects)
	if err != nil {
		return Batch{}, err
	}
	if f == nil {
		logger.Warn("workbook not found, loading no specimens", "path", w.Path)
		return Batch{Warnings: []string{fmt.Sprintf("%s: file not found", w.Path)}}, nil
	}
	defer f.Close()

	available := f.GetSheetList()
	layout := w.Layout
	if layout == LayoutAuto {
		layout = detectLayout(available)
	}
	logger.Debug("specimen layout", "layout", layout)

	var batch Batch
	switch layout {
	case LayoutSheets:
		for _, appendix := range core.Appendices {
			if err := ctx.Err(); err != nil {
				return Batch{}, err
			}
			sheet, ok := findSheet(available, appendix)
			if !ok {
				logger.Warn("appendix sheet missing", "sheet", appendix)
				batch.Warnings = append(batch.Warnings, fmt.Sprintf("%s: %s: %v", filepath.Base(w.Path), appendix, ErrSheetNotFound))
				continue
			}
			rows, err := f.GetRows(sheet)
			if err != nil {
				return Batch{}, fmt.Errorf("read sheet %s: %w", sheet, err)
			}
			batch.Specimens = append(batch.Specimens, parseAppendixSheet(appendix, rows)...)
		}

	default:
		if len(available) == 0 {
			return batch, nil
		}
		rows, err := f.GetRows(available[0])
		if err != nil {
			return Batch{}, fmt.Errorf("read sheet %s: %w", available[0], err)
		}
		batch.Specimens = w.parseFlatSheet(rows)
	}

	logger.Debug("specimens loaded", "specimens", len(batch.Specimens))
	return batch, nil
}

// detectLayout picks LayoutSheets when the workbook has appendix sheets.
func detectLayout(available []string) SpecimenLayout {
	for _, appendix := range core.Appendices {
		if _, ok := findSheet(available, appendix); ok {
			return LayoutSheets
		}
	}
	return LayoutFlat
}

// appendixHeaders are the normalized first-row cells that mark a header
// row on an appendix sheet.
var appendixHeaders = map[string]bool{
	"scientific name":          true,
	"scientific name / family": true,
	"name":                     true,
	"text":                     true,
	"species":                  true,
	"entry":                    true,
	"notes":                    true,
}

// isAppendixHeader reports whether cell labels the sheet instead of naming
// a specimen. The appendix label itself ("II", "Appendix II") counts.
func isAppendixHeader(appendix, cell string) bool {
	h := NormalizeHeader(cell)
	a := strings.ToLower(appendix)
	return appendixHeaders[h] || h == a || h == "appendix "+a
}

// parseAppendixSheet turns every non-empty first-column cell into a
// specimen. The first row is skipped only when it reads as a header.
func parseAppendixSheet(appendix string, rows [][]string) []core.Specimen {
	if len(rows) > 0 && len(rows[0]) > 0 && isAppendixHeader(appendix, rows[0][0]) {
		rows = rows[1:]
	}
	out := make([]core.Specimen, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if s, ok := core.NewSpecimen(core.ScheduleIV, appendix, row[0]); ok {
			out = append(out, s)
		}
	}
	return out
}

// parseFlatSheet emits one specimen per non-empty appendix cell, column by
// column in flatColumns order. The row's Schedule cell is kept when present.
func (w *SpecimenWorkbook) parseFlatSheet(rows [][]string) []core.Specimen {
	if len(rows) == 0 {
		return nil
	}
	cols := w.Columns.Resolve(rows[0])

	var out []core.Specimen
	for _, col := range flatColumns {
		if !cols.Has(col.field) {
			continue
		}
		for _, row := range rows[1:] {
			s, ok := core.NewSpecimen(cols.Cell(row, FieldSchedule), col.appendix, cols.Cell(row, col.field))
			if ok {
				out = append(out, s)
			}
		}
	}
	return out
}
