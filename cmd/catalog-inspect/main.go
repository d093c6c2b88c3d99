// Command catalog-inspect is a read-only terminal browser over a Catalog's
// three meta-relations. It exists for a developer to check what a sequence
// of DDL statements actually left in _tables/_columns/_indices without
// writing SQL, the same role the teacher's catalogreader plays for a full
// on-disk catalog.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"relcore/pkg/catalog"
	"relcore/pkg/logging"
	"relcore/pkg/storage/memindex"
	"relcore/pkg/storage/memrel"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F4A900")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1)
)

var menuKeys = struct {
	Up, Down, Select, Back, Quit key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Back:   key.NewBinding(key.WithKeys("esc", "backspace")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

var relationNames = []string{catalog.TablesTable, catalog.ColumnsTable, catalog.IndicesTable}

// model holds the inspector's TUI state. The Catalog it browses is built
// fresh over the in-memory storage factories and bootstrapped by
// seedDemoCatalog, so the self-registered meta-rows are always there to
// look at.
type model struct {
	cat     *catalog.Catalog
	view    string // "menu" or one of relationNames
	cursor  int
	headers []string
	rows    [][]string
	err     error
}

func initialModel(cat *catalog.Catalog) model {
	return model{cat: cat, view: "menu"}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.view {
	case "menu":
		switch {
		case key.Matches(keyMsg, menuKeys.Quit):
			return m, tea.Quit
		case key.Matches(keyMsg, menuKeys.Up) && m.cursor > 0:
			m.cursor--
		case key.Matches(keyMsg, menuKeys.Down) && m.cursor < len(relationNames)-1:
			m.cursor++
		case key.Matches(keyMsg, menuKeys.Select):
			m.view = relationNames[m.cursor]
			m.headers, m.rows, m.err = loadRelation(m.cat, m.view)
			m.cursor = 0
		}
	default:
		switch {
		case key.Matches(keyMsg, menuKeys.Quit):
			return m, tea.Quit
		case key.Matches(keyMsg, menuKeys.Back):
			m.view = "menu"
			m.cursor = 0
			m.headers, m.rows, m.err = nil, nil, nil
		case key.Matches(keyMsg, menuKeys.Up) && m.cursor > 0:
			m.cursor--
		case key.Matches(keyMsg, menuKeys.Down) && m.cursor < len(m.rows)-1:
			m.cursor++
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("relcore catalog inspector"))
	b.WriteString("\n")

	if m.view == "menu" {
		for i, name := range relationNames {
			line := "  " + name
			if i == m.cursor {
				line = selectedStyle.Render("> " + name)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(helpStyle.Render("up/down: move  enter: open  q: quit"))
		return b.String()
	}

	if m.err != nil {
		return b.String() + fmt.Sprintf("error loading %s: %v\n", m.view, m.err)
	}

	b.WriteString(headerStyle.Render(strings.Join(m.headers, "  ")) + "\n")
	for i, row := range m.rows {
		line := strings.Join(row, "  ")
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d rows  esc: back  q: quit", len(m.rows))))
	return b.String()
}

// loadRelation reads every row of one of the catalog's meta-relations and
// renders it as a string grid, in the meta-relation's declared column order.
func loadRelation(cat *catalog.Catalog, name string) ([]string, [][]string, error) {
	rel, err := cat.GetTable(name)
	if err != nil {
		return nil, nil, err
	}
	schema := rel.Schema()
	handles, err := rel.Select(nil)
	if err != nil {
		return nil, nil, err
	}
	rows := make([][]string, len(handles))
	for i, h := range handles {
		row, err := rel.Project(h, nil)
		if err != nil {
			return nil, nil, err
		}
		cells := make([]string, len(schema.ColumnNames))
		for j, col := range schema.ColumnNames {
			cells[j] = row[col].String()
		}
		rows[i] = cells
	}
	return schema.ColumnNames, rows, nil
}

// seedDemoCatalog builds a catalog over fresh in-memory storage and
// bootstraps it with a single cat.Tables() call, so the inspector has
// meta-rows to show even with no executor wired in; that call alone runs
// the self-registration path for _tables/_columns/_indices.
func seedDemoCatalog() *catalog.Catalog {
	cat := catalog.New(memrel.NewFactory(), memindex.NewFactory())
	_, _ = cat.Tables()
	return cat
}

func main() {
	// The TUI owns stdout, so logs go to a file instead of the default
	// stdout destination GetLogger would otherwise fall back to.
	if err := logging.Init(logging.Config{Level: slog.LevelInfo, Output: "logs/catalog-inspect.log"}); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-inspect: logging init: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	cat := seedDemoCatalog()
	if _, err := cat.GetTable(catalog.TablesTable); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(cat), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-inspect: %v\n", err)
		os.Exit(1)
	}
}
