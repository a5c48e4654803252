package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestSearchPage_Messages(t *testing.T) {
	tiger := core.Record{Schedule: core.ScheduleI, CommonName: "Tiger", ScientificName: "Panthera tigris"}
	orchid := core.Specimen{Schedule: core.ScheduleIV, Appendix: "II", Text: "Orchidaceae spp."}

	tests := []struct {
		name   string
		params SearchPageParams
		want   []string
		absent []string
	}{
		{
			name: "prompt",
			params: SearchPageParams{
				Species:   SpeciesSection{Result: core.SearchResult{Records: []core.Record{}, Prompt: true}},
				Specimens: SpecimenSection{Result: core.SpecimenResult{Specimens: []core.Specimen{}, Prompt: true}},
			},
			want:   []string{"alert-info", "Enter a common name or scientific name to search.", "Enter a scientific name, family name or any text to search."},
			absent: []string{"<table>"},
		},
		{
			name: "no matches",
			params: SearchPageParams{
				Species:   SpeciesSection{Common: "dodo", Result: core.SearchResult{Records: []core.Record{}}},
				Specimens: SpecimenSection{Query: "zzz", Result: core.SpecimenResult{Specimens: []core.Specimen{}}},
			},
			want: []string{"No species found matching your query.", "No Scheduled Specimens found matching your query.", `value="dodo"`},
		},
		{
			name: "matches",
			params: SearchPageParams{
				Species:   SpeciesSection{Common: "tiger", Result: core.SearchResult{Records: []core.Record{tiger}}},
				Specimens: SpecimenSection{Query: "orchid", Result: core.SpecimenResult{Specimens: []core.Specimen{orchid}}},
			},
			want: []string{
				"Found 1 matching record(s).",
				"Found 1 Scheduled Specimen record(s).",
				"<td>Panthera tigris</td>",
				"<td>Orchidaceae spp.</td>",
				"<th>Scientific name / family / notes</th>",
			},
		},
		{
			name: "degraded",
			params: SearchPageParams{
				Species:   SpeciesSection{Result: core.SearchResult{Prompt: true}},
				Specimens: SpecimenSection{Result: core.SpecimenResult{Prompt: true}},
				Warnings:  []string{"Species+ appendix II: partial data after 1 page(s)"},
			},
			want: []string{"Results may be incomplete", "Species+ appendix II: partial data after 1 page(s)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, SearchPage(tt.params))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("page missing %q", w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("page unexpectedly contains %q", a)
				}
			}
		})
	}
}

func TestSearchPage_EscapesInput(t *testing.T) {
	p := SearchPageParams{
		Species: SpeciesSection{
			Common: `"><script>alert(1)</script>`,
			Result: core.SearchResult{Records: []core.Record{{CommonName: "<b>Tiger</b>"}}},
		},
		Specimens: SpecimenSection{Result: core.SpecimenResult{Prompt: true}},
	}
	got := render(t, SearchPage(p))
	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>Tiger</b>") {
		t.Errorf("unescaped user content in output:\n%s", got)
	}
	if !strings.Contains(got, "&lt;b&gt;Tiger&lt;/b&gt;") {
		t.Error("escaped record text not found")
	}
}

func TestSearchPage_MaxRows(t *testing.T) {
	records := make([]core.Record, 5)
	for i := range records {
		records[i] = core.Record{Schedule: core.ScheduleII, ScientificName: "Species"}
	}
	p := SearchPageParams{
		Species:   SpeciesSection{Scientific: "species", Result: core.SearchResult{Records: records}},
		Specimens: SpecimenSection{Result: core.SpecimenResult{Prompt: true}},
		MaxRows:   2,
	}
	got := render(t, SearchPage(p))

	if n := strings.Count(got, "<td>Species</td>"); n != 2 {
		t.Errorf("rendered %d rows, want 2", n)
	}
	if !strings.Contains(got, "Found 5 matching record(s).") {
		t.Error("count should report every match")
	}
	if !strings.Contains(got, "Showing the first 2 of 5 rows.") {
		t.Error("truncation note missing")
	}
}

func TestErrorPage(t *testing.T) {
	got := render(t, ErrorPage("A reference workbook could not be opened", "Check the path", "SRC001"))
	for _, w := range []string{"<!doctype html>", "A reference workbook could not be opened", "Check the path", "Code: SRC001"} {
		if !strings.Contains(got, w) {
			t.Errorf("error page missing %q", w)
		}
	}
}

func TestErrorAlert_OptionalParts(t *testing.T) {
	got := render(t, ErrorAlert("Search failed", "", ""))
	if !strings.Contains(got, "<strong>Search failed</strong>") {
		t.Errorf("message missing:\n%s", got)
	}
	for _, a := range []string{"Code:", "<div></div>"} {
		if strings.Contains(got, a) {
			t.Errorf("alert unexpectedly contains %q:\n%s", a, got)
		}
	}
}

func TestSearchPage_FormState(t *testing.T) {
	p := SearchPageParams{
		Species:   SpeciesSection{Common: `tiger" autofocus="`, Result: core.SearchResult{Prompt: true}},
		Specimens: SpecimenSection{Result: core.SpecimenResult{Prompt: true}},
	}
	got := render(t, SearchPage(p))

	if strings.Contains(got, `autofocus="`) {
		t.Errorf("attribute value escaped its quotes:\n%s", got)
	}
	if !strings.Contains(got, `value="tiger&#34; autofocus=&#34;"`) {
		t.Error("escaped common name not carried in the species form")
	}
	if !strings.Contains(got, `<input type="hidden" name="common" value="tiger&#34; autofocus=&#34;">`) {
		t.Error("common name not carried into the specimen form")
	}
	if strings.Contains(got, `type="hidden" name="q"`) {
		t.Error("empty specimen query should not render a hidden input")
	}
}

func TestAlert_Kinds(t *testing.T) {
	for _, kind := range []AlertKind{AlertInfo, AlertWarning, AlertSuccess, AlertError} {
		got := render(t, Alert(kind, "msg"))
		want := `<div class="alert alert-` + string(kind) + `" role="status">msg</div>`
		if got != want {
			t.Errorf("Alert(%s) = %q, want %q", kind, got, want)
		}
	}
}
