package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// resultJSON mirrors the web API body.
type resultJSON[T any] struct {
	Count    int      `json:"count"`
	Prompt   bool     `json:"prompt"`
	Records  []T      `json:"records"`
	Warnings []string `json:"warnings,omitempty"`
}

func printSpecies(w io.Writer, res core.SearchResult, warnings []string, asJSON bool) error {
	if asJSON {
		return writeJSON(w, resultJSON[core.Record]{
			Count: len(res.Records), Prompt: res.Prompt, Records: res.Records, Warnings: warnings,
		})
	}

	printWarnings(w, warnings)
	switch {
	case res.Prompt:
		fmt.Fprintln(w, infoStyle.Render("Enter a common name or scientific name to search (--common, --scientific)."))
		return nil
	case len(res.Records) == 0:
		fmt.Fprintln(w, warnStyle.Render("No species found matching your query."))
		return nil
	}

	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Found %d matching record(s).", len(res.Records))))
	t := newTable("Schedule", "Appendix", "Common name", "Scientific name")
	for _, r := range res.Records {
		t.Row(r.Schedule, r.Appendix, r.CommonName, r.ScientificName)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func printSpecimens(w io.Writer, res core.SpecimenResult, warnings []string, asJSON bool) error {
	if asJSON {
		return writeJSON(w, resultJSON[core.Specimen]{
			Count: len(res.Specimens), Prompt: res.Prompt, Records: res.Specimens, Warnings: warnings,
		})
	}

	printWarnings(w, warnings)
	switch {
	case res.Prompt:
		fmt.Fprintln(w, infoStyle.Render("Enter a scientific name, family name or any text to search."))
		return nil
	case len(res.Specimens) == 0:
		fmt.Fprintln(w, warnStyle.Render("No Scheduled Specimens found matching your query."))
		return nil
	}

	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Found %d Scheduled Specimen record(s).", len(res.Specimens))))
	t := newTable("Schedule", "Appendix", "Scientific name / family / notes")
	for _, s := range res.Specimens {
		t.Row(s.Schedule, s.Appendix, s.Text)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func printInfo(w io.Writer, stats core.Stats, asJSON bool) error {
	if asJSON {
		return writeJSON(w, stats)
	}

	t := newTable("Field", "Value")
	t.Row("Snapshot", stats.ID)
	t.Row("Loaded", stats.LoadedAt.Format("2006-01-02 15:04:05 MST"))
	t.Row("Species (Schedules I-III)", fmt.Sprint(stats.Species))
	t.Row("Scheduled specimens", fmt.Sprint(stats.Specimens))
	t.Row("Unified records", fmt.Sprint(stats.Unified))
	fmt.Fprintln(w, t.Render())
	printWarnings(w, stats.Warnings)
	return nil
}

func printWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintln(w, warnStyle.Render("Warning: "+warning))
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
