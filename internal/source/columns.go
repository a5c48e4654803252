package source

import (
	"strings"

	"github.com/JonMunkholm/wlpa/internal/core"
)

// Field is a canonical column of a reference sheet.
type Field string

const (
	FieldSchedule       Field = "Schedule"
	FieldCommonName     Field = "CommonName"
	FieldScientificName Field = "ScientificName"

	FieldAppendixI         Field = "I"
	FieldAppendixIIFamily  Field = "II_family"
	FieldAppendixIISpecies Field = "II_species"
	FieldAppendixIII       Field = "III"
)

// ColumnMap lists the accepted header spellings for each canonical field.
// Spellings are compared after NormalizeHeader, so case, underscores and
// repeated spaces never need their own entry.
type ColumnMap map[Field][]string

// ScheduleColumns covers the Schedule I-III sheets, including the
// "Scintific Name" typo found in the published Schedule-III sheet.
var ScheduleColumns = ColumnMap{
	FieldSchedule:       {"schedule", "schedule no", "wlpa schedule"},
	FieldCommonName:     {"common name", "commonname", "common", "english name", "vernacular name"},
	FieldScientificName: {"scientific name", "scintific name", "scientificname", "scientific", "species", "binomial"},
}

// AppendixColumns covers the flat Schedule IV sheet.
var AppendixColumns = ColumnMap{
	FieldSchedule:          {"schedule"},
	FieldAppendixI:         {"i", "appendix i"},
	FieldAppendixIIFamily:  {"ii family", "appendix ii family"},
	FieldAppendixIISpecies: {"ii species", "appendix ii species", "ii", "appendix ii"},
	FieldAppendixIII:       {"iii", "appendix iii"},
}

// NormalizeHeader folds a header cell for alias comparison.
func NormalizeHeader(h string) string {
	h = strings.ToLower(core.CleanCell(h))
	h = strings.NewReplacer("_", " ", "-", " ", ".", " ", ":", " ").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

// Columns maps canonical fields to their position in a sheet row.
// A field with no matching header maps to -1 and reads as an empty column.
type Columns map[Field]int

// Resolve locates every field of m in header. The first matching header
// cell wins.
func (m ColumnMap) Resolve(header []string) Columns {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = NormalizeHeader(h)
	}

	cols := make(Columns, len(m))
	for field, aliases := range m {
		cols[field] = -1
	search:
		for i, h := range normalized {
			if h == "" {
				continue
			}
			for _, alias := range aliases {
				if h == NormalizeHeader(alias) {
					cols[field] = i
					break search
				}
			}
		}
	}
	return cols
}

// Has reports whether f was found in the header.
func (c Columns) Has(f Field) bool {
	idx, ok := c[f]
	return ok && idx >= 0
}

// Cell returns the trimmed value of f in row, or "" when the column is
// missing or the row is short.
func (c Columns) Cell(row []string, f Field) string {
	idx, ok := c[f]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return core.CleanCell(row[idx])
}
