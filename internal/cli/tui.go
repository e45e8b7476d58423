package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/genogram/builder"
	"github.com/matzehuels/genogram/pkg/genogram/layout"
)

var (
	listTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// Person rows
// =============================================================================

// personRow is one person of a layout with the relatives read off its
// routes.
type personRow struct {
	Key      int
	Name     string
	Sex      family.Sex
	Hidden   bool
	Layer    int
	X, Y     float64
	Spouses  []int
	Parents  []int
	Children []int
}

// personRows lists the people of res ordered by generation, then position.
func personRows(res *layout.Result) []personRow {
	index := make(map[int]int)
	var rows []personRow
	for _, n := range res.People() {
		index[n.Key] = len(rows)
		rows = append(rows, personRow{
			Key:    n.Key,
			Name:   n.Name,
			Sex:    n.Sex,
			Hidden: n.Hidden,
			Layer:  n.Layer,
			X:      n.X,
			Y:      n.Y,
		})
	}

	spouses := make(map[int][2]int) // label -> spouses
	for _, r := range res.Routes {
		if r.Kind != builder.LinkMarriage {
			continue
		}
		spouses[r.Label] = [2]int{r.From, r.To}
		if i, ok := index[r.From]; ok {
			rows[i].Spouses = append(rows[i].Spouses, r.To)
		}
		if i, ok := index[r.To]; ok {
			rows[i].Spouses = append(rows[i].Spouses, r.From)
		}
	}
	for _, r := range res.Routes {
		if r.Kind != builder.LinkParent {
			continue
		}
		pair, ok := spouses[r.From]
		if !ok {
			continue
		}
		if i, ok := index[r.To]; ok && len(rows[i].Parents) == 0 {
			rows[i].Parents = pair[:]
		}
		for _, p := range pair {
			if i, ok := index[p]; ok {
				rows[i].Children = append(rows[i].Children, r.To)
			}
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Layer != rows[b].Layer {
			return rows[a].Layer < rows[b].Layer
		}
		return rows[a].X < rows[b].X
	})
	return rows
}

// =============================================================================
// InspectModel - Interactive person browser
// =============================================================================

// InspectModel is the bubbletea model of 'genogram inspect'.
type InspectModel struct {
	Title string
	Rows  []personRow

	names     map[int]string
	visible   []int // indexes into Rows
	query     string
	filtering bool
	Cursor    int
	Offset    int
	Height    int
}

// NewInspectModel creates a browser for the people of res.
func NewInspectModel(title string, res *layout.Result) InspectModel {
	m := InspectModel{
		Title:  title,
		Rows:   personRows(res),
		names:  make(map[int]string),
		Height: 15,
	}
	for _, r := range m.Rows {
		m.names[r.Key] = r.Name
	}
	m.applyFilter()
	return m
}

// applyFilter recomputes the visible rows. An empty query shows everyone in
// generation order; otherwise the best fuzzy matches come first.
func (m *InspectModel) applyFilter() {
	m.visible = m.visible[:0]
	if m.query == "" {
		for i := range m.Rows {
			m.visible = append(m.visible, i)
		}
	} else {
		targets := make([]string, len(m.Rows))
		for i, r := range m.Rows {
			targets[i] = r.Name
		}
		ranks := fuzzy.RankFindNormalizedFold(m.query, targets)
		sort.Sort(ranks)
		for _, rk := range ranks {
			m.visible = append(m.visible, rk.OriginalIndex)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

// Selected returns the row under the cursor.
func (m InspectModel) Selected() (personRow, bool) {
	if m.Cursor >= len(m.visible) {
		return personRow{}, false
	}
	return m.Rows[m.visible[m.Cursor]], true
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.filtering = true
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-14)
	}
	return m, nil
}

func (m InspectModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.filtering = false
		m.query = ""
		m.applyFilter()
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown:
		m.move(1)
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
			m.applyFilter()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.query += string(msg.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m *InspectModel) move(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.visible) {
		return
	}
	m.Cursor = next
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(listTitleStyle.Render(m.Title))
	b.WriteString("\n")
	switch {
	case m.filtering:
		b.WriteString("/" + m.query + styleDim.Render("▏"))
	case m.query != "":
		b.WriteString(listDimStyle.Render("filter: " + m.query + "  esc clear"))
	default:
		b.WriteString(listDimStyle.Render("↑/↓ navigate  / filter  q quit"))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	for i := m.Offset; i < end; i++ {
		r := m.Rows[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		name := sexStyle(r.Sex).Render(r.Name)
		if i == m.Cursor {
			name = listSelectedStyle.Render(r.Name)
		}
		line := fmt.Sprintf("%s%s %s", cursor, listDimStyle.Render(fmt.Sprintf("G%-2d", r.Layer)), name)
		if r.Hidden {
			line += listDimStyle.Render(" (hidden)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no match"))
		b.WriteString("\n")
	}

	if r, ok := m.Selected(); ok {
		b.WriteString("\n")
		b.WriteString(detailBoxStyle.Render(m.details(r)))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))

	return b.String()
}

// details formats the detail pane of one person.
func (m InspectModel) details(r personRow) string {
	lines := []string{
		styleValue.Bold(true).Render(r.Name) + listDimStyle.Render(fmt.Sprintf("  #%d  %s", r.Key, r.Sex)),
		fmt.Sprintf("generation %d  at (%.0f, %.0f)", r.Layer, r.X, r.Y),
		"spouses:  " + m.nameList(r.Spouses),
		"parents:  " + m.nameList(r.Parents),
		"children: " + m.nameList(r.Children),
	}
	return strings.Join(lines, "\n")
}

func (m InspectModel) nameList(keys []int) string {
	if len(keys) == 0 {
		return listDimStyle.Render("—")
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = m.names[k]
		if names[i] == "" {
			names[i] = fmt.Sprintf("#%d", k)
		}
	}
	return strings.Join(names, ", ")
}
