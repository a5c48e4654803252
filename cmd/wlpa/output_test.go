package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/google/go-cmp/cmp"
)

var tiger = core.Record{Schedule: core.ScheduleI, CommonName: "Tiger", ScientificName: "Panthera tigris"}

func TestPrintSpecies_Text(t *testing.T) {
	tests := []struct {
		name string
		res  core.SearchResult
		want []string
	}{
		{name: "prompt", res: core.SearchResult{Records: []core.Record{}, Prompt: true}, want: []string{"Enter a common name or scientific name"}},
		{name: "none", res: core.SearchResult{Records: []core.Record{}}, want: []string{"No species found matching your query."}},
		{name: "found", res: core.SearchResult{Records: []core.Record{tiger}}, want: []string{"Found 1 matching record(s).", "Common name", "Panthera tigris"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := printSpecies(&buf, tt.res, nil, false); err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestPrintSpecies_JSON(t *testing.T) {
	var buf bytes.Buffer
	warnings := []string{"Species+ appendix II: partial data"}
	if err := printSpecies(&buf, core.SearchResult{Records: []core.Record{tiger}}, warnings, true); err != nil {
		t.Fatal(err)
	}

	var got resultJSON[core.Record]
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := resultJSON[core.Record]{Count: 1, Records: []core.Record{tiger}, Warnings: warnings}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintSpecimens_Text(t *testing.T) {
	var buf bytes.Buffer
	res := core.SpecimenResult{Specimens: []core.Specimen{{Schedule: core.ScheduleIV, Appendix: "II", Text: "Orchidaceae spp."}}}
	if err := printSpecimens(&buf, res, []string{"WLPA-SchIV.xlsx: III: sheet not found"}, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, w := range []string{"Warning: WLPA-SchIV.xlsx: III: sheet not found", "Found 1 Scheduled Specimen record(s).", "Orchidaceae spp."} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestPrintInfo_JSON(t *testing.T) {
	var buf bytes.Buffer
	stats := core.Stats{ID: "abc", Species: 3, Specimens: 2, Unified: 5, Warnings: []string{}}
	if err := printInfo(&buf, stats, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"snapshot_id": "abc"`) {
		t.Errorf("output = %s", buf.String())
	}
}

func TestUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "load failure is mapped",
			err:  &loadError{err: errors.New("load reference data: schedules workbook: open workbook WLPA.xlsx: zip: not a valid zip file")},
			want: "A reference workbook could not be opened (Code: SRC001).",
		},
		{
			name: "unknown load failure uses fallback",
			err:  &loadError{err: errors.New("something odd")},
			want: "(Code: ERR000)",
		},
		{
			name: "flag error stays raw",
			err:  errors.New(`unknown flag: --bogus`),
			want: "unknown flag: --bogus",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userError(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("userError() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
