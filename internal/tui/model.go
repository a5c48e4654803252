// Package tui is the interactive terminal browser for a loaded snapshot.
package tui

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeMenu mode = iota
	modeInput
	modeResults
)

type searchKind int

const (
	searchCommon searchKind = iota
	searchScientific
	searchSpecimens
)

func (k searchKind) prompt() string {
	switch k {
	case searchCommon:
		return "Common name"
	case searchScientific:
		return "Scientific name"
	default:
		return "Scientific name, family or any text"
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Model is the bubbletea model of the browser.
type Model struct {
	snap   *core.Snapshot
	policy core.EmptyQueryPolicy

	menu   *Menu
	cursor int
	mode   mode
	kind   searchKind

	input  textinput.Model
	table  table.Model
	status string
	style  lipgloss.Style

	height int
}

// New returns a browser over snap. snap must not be nil.
func New(snap *core.Snapshot, policy core.EmptyQueryPolicy) *Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 48

	m := &Model{
		snap:   snap,
		policy: policy,
		input:  ti,
		table:  table.New(table.WithFocused(true), table.WithHeight(15)),
		height: 24,
	}
	m.menu = buildMenuTree(m)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-8, 5))
		m.input.Width = max(msg.Width-24, 20)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeInput:
			return m.updateInput(msg)
		case modeResults:
			return m.updateResults(msg)
		default:
			return m.updateMenu(msg)
		}
	}
	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
	case "esc", "backspace", "left", "h":
		if m.menu.Parent != nil {
			m.open(m.menu.Parent)
		}
	case "enter", "right", "l":
		item := m.menu.Items[m.cursor]
		switch {
		case item.Submenu != nil:
			m.open(item.Submenu)
		case item.Label == "Back" && m.menu.Parent != nil:
			m.open(m.menu.Parent)
		case item.Action != nil:
			return m, item.Action(m)
		}
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeMenu
		m.input.Blur()
		m.status = ""
		return m, nil
	case "enter":
		m.runSearch(m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.mode = modeMenu
		m.status = ""
		return m, nil
	case "/":
		return m, startSearch(m.kind)(m)
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) open(menu *Menu) {
	m.menu = menu
	m.cursor = 0
}

func startSearch(kind searchKind) func(m *Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		m.kind = kind
		m.mode = modeInput
		m.status = ""
		m.input.Placeholder = kind.prompt()
		m.input.SetValue("")
		return m.input.Focus()
	}
}

// runSearch filters the snapshot and shows the results table. An empty
// query under the prompt policy stays on the input.
func (m *Model) runSearch(text string) {
	var (
		columns []table.Column
		rows    []table.Row
		prompt  bool
		noun    string
	)

	switch m.kind {
	case searchSpecimens:
		res := m.snap.SearchSpecimens(text, m.policy)
		prompt = res.Prompt
		noun = "Scheduled Specimen"
		columns = []table.Column{
			{Title: "Schedule", Width: 12},
			{Title: "Appendix", Width: 8},
			{Title: "Scientific name / family / notes", Width: 56},
		}
		for _, s := range res.Specimens {
			rows = append(rows, table.Row{s.Schedule, s.Appendix, s.Text})
		}
	default:
		q := core.Query{CommonName: text}
		if m.kind == searchScientific {
			q = core.Query{ScientificName: text}
		}
		res := m.snap.Search(q, m.policy)
		prompt = res.Prompt
		noun = "matching"
		columns = []table.Column{
			{Title: "Schedule", Width: 12},
			{Title: "Appendix", Width: 8},
			{Title: "Common name", Width: 28},
			{Title: "Scientific name", Width: 32},
		}
		for _, r := range res.Records {
			rows = append(rows, table.Row{r.Schedule, r.Appendix, r.CommonName, r.ScientificName})
		}
	}

	switch {
	case prompt:
		m.status, m.style = "Enter a "+strings.ToLower(m.kind.prompt())+" to search.", infoStyle
		return
	case len(rows) == 0:
		m.status, m.style = "No records found matching your query.", warnStyle
	default:
		m.status, m.style = fmt.Sprintf("Found %d %s record(s).", len(rows), noun), successStyle
	}

	// Columns change between searches; clear rows first so the table never
	// holds rows wider than its columns.
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.GotoTop()
	m.input.Blur()
	m.mode = modeResults
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.menu.Title))
	b.WriteString("\n\n")

	switch m.mode {
	case modeInput:
		b.WriteString(m.kind.prompt() + ": ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		m.writeStatus(&b)
		b.WriteString(helpStyle.Render("\nenter search • esc back"))

	case modeResults:
		m.writeStatus(&b)
		b.WriteString(m.table.View())
		b.WriteString(helpStyle.Render("\n↑/↓ scroll • / new search • esc back"))

	default:
		for i, item := range m.menu.Items {
			label := item.Label
			switch {
			case i == m.cursor:
				b.WriteString(cursorStyle.Render("> " + label))
			case item.Submenu == nil && item.Action == nil && label != "Back":
				b.WriteString(disabledStyle.Render("  " + label))
			default:
				b.WriteString("  " + label)
			}
			b.WriteString("\n")
		}
		if m.snap.Degraded() && m.menu.Parent == nil {
			b.WriteString(warnStyle.Render("\nSome reference data could not be loaded. See Snapshot."))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("\n↑/↓ move • enter select • esc back • q quit"))
	}

	return b.String()
}

func (m *Model) writeStatus(b *strings.Builder) {
	if m.status == "" {
		return
	}
	b.WriteString(m.style.Render(m.status))
	b.WriteString("\n\n")
}

// Run starts the browser on the terminal and blocks until the user quits.
func Run(snap *core.Snapshot, policy core.EmptyQueryPolicy) error {
	_, err := tea.NewProgram(New(snap, policy), tea.WithAltScreen()).Run()
	return err
}
