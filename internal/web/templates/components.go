// Package templates holds the HTML components of the species finder.
//
// Components are written in templ; run `templ generate` after editing a
// .templ file and commit the regenerated _templ.go next to it.
package templates

import "github.com/JonMunkholm/wlpa/internal/core"

// AlertKind selects the alert styling.
type AlertKind string

const (
	AlertInfo    AlertKind = "info"
	AlertWarning AlertKind = "warning"
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
)

func alertClass(kind AlertKind) string {
	return "alert-" + string(kind)
}

const snapshotTimeFormat = "2006-01-02 15:04 MST"

// SpeciesSection is the primary search state.
type SpeciesSection struct {
	Common     string
	Scientific string
	Result     core.SearchResult
}

// SpecimenSection is the Schedule IV search state.
type SpecimenSection struct {
	Query  string
	Result core.SpecimenResult
}

// SearchPageParams holds everything the search page renders.
type SearchPageParams struct {
	Species   SpeciesSection
	Specimens SpecimenSection
	// Warnings lists sources that loaded partially.
	Warnings []string
	// MaxRows caps rendered table rows; 0 renders all.
	MaxRows int
	Stats   core.Stats
}

func capRows[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
