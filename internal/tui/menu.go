package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func(m *Model) tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

// linkParents points every submenu at its parent and wires "Back" items.
func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func buildMenuTree(m *Model) *Menu {
	root := &Menu{
		Title: "WLPA Species Finder",
		Items: []MenuItem{
			{Label: "Search by common name", Action: startSearch(searchCommon)},
			{Label: "Search by scientific name", Action: startSearch(searchScientific)},
			{Label: "Search scheduled specimens (Schedule IV)", Action: startSearch(searchSpecimens)},
			{Label: "Snapshot ->", Submenu: loadSnapshotMenu(m)},
			{Label: "Quit", Action: func(*Model) tea.Cmd { return tea.Quit }},
		},
	}

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

// loadSnapshotMenu lists the snapshot counts and any load warnings.
// Its entries other than Back are informational.
func loadSnapshotMenu(m *Model) *Menu {
	stats := m.snap.Stats()

	items := []MenuItem{
		{Label: "Snapshot " + stats.ID},
		{Label: "Loaded " + stats.LoadedAt.Format("2006-01-02 15:04:05 MST")},
		{Label: fmt.Sprintf("Species (Schedules I-III): %d", stats.Species)},
		{Label: fmt.Sprintf("Scheduled specimens: %d", stats.Specimens)},
		{Label: fmt.Sprintf("Unified records: %d", stats.Unified)},
	}
	for _, w := range stats.Warnings {
		items = append(items, MenuItem{Label: "Warning: " + w})
	}
	items = append(items, MenuItem{Label: "Back"})

	return &Menu{Title: "Snapshot", Items: items}
}
