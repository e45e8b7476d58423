package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/genogram/layout"
)

func inspectFixture(t *testing.T) *layout.Result {
	t.Helper()
	fam := &family.Family{
		Name: "smiths",
		People: []family.Person{
			{Key: 1, Sex: family.SexMale, Name: "John"},
			{Key: 2, Sex: family.SexFemale, Name: "Jane"},
			{Key: 3, Sex: family.SexFemale, Name: "Ann", Mother: 2, Father: 1},
			{Key: 4, Sex: family.SexMale, Name: "Bob", Mother: 2, Father: 1},
		},
		Marriages: []family.Marriage{{One: 1, Two: 2}},
	}
	res, err := layout.FromFamily(fam, layout.DefaultOptions())
	require.NoError(t, err)
	return res
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m InspectModel, keys ...string) InspectModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(InspectModel)
	}
	return m
}

func TestPersonRows(t *testing.T) {
	rows := personRows(inspectFixture(t))
	require.Len(t, rows, 4)

	byKey := make(map[int]personRow)
	for _, r := range rows {
		byKey[r.Key] = r
	}
	assert.Equal(t, []int{2}, byKey[1].Spouses)
	assert.Equal(t, []int{1}, byKey[2].Spouses)
	assert.ElementsMatch(t, []int{3, 4}, byKey[1].Children)
	assert.ElementsMatch(t, []int{1, 2}, byKey[3].Parents)
	assert.Empty(t, byKey[1].Parents)

	// generation order
	assert.Equal(t, byKey[1].Layer, rows[0].Layer)
	assert.Greater(t, rows[3].Layer, rows[0].Layer)
}

func TestInspectFilter(t *testing.T) {
	m := NewInspectModel("smiths", inspectFixture(t))
	require.Len(t, m.visible, 4)

	m = update(m, "/", "a", "n")
	assert.True(t, m.filtering)
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Ann", sel.Name, "closest match first")
	for _, i := range m.visible {
		assert.Contains(t, strings.ToLower(m.Rows[i].Name), "n")
	}

	m = update(m, "backspace", "backspace", "enter")
	assert.False(t, m.filtering)
	assert.Len(t, m.visible, 4)

	m = update(m, "/", "z", "z", "z")
	assert.Empty(t, m.visible)
	_, ok = m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "no match")

	m = update(m, "esc")
	assert.False(t, m.filtering)
	assert.Empty(t, m.query)
	assert.Len(t, m.visible, 4)
}

func TestInspectNavigation(t *testing.T) {
	m := NewInspectModel("smiths", inspectFixture(t))
	m = update(m, "j", "j", "down", "down", "down")
	assert.Equal(t, 3, m.Cursor, "cursor stops at the last row")
	m = update(m, "k")
	assert.Equal(t, 2, m.Cursor)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestInspectView(t *testing.T) {
	m := NewInspectModel("smiths", inspectFixture(t))
	view := m.View()
	for _, want := range []string{"smiths", "John", "Jane", "Ann", "Bob", "spouses:", "[1/4]"} {
		assert.Contains(t, view, want)
	}
}
