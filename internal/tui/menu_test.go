package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posterbridge/eposter/internal/domain"
)

func menuFixture(titles ...string) Menu {
	m := NewMenu()
	m.SetSize(80, 24)
	var items []domain.SnapshotItem
	for i, title := range titles {
		items = append(items, domain.SnapshotItem{
			Record: domain.PosterRecord{ID: string(rune('a' + i)), Title: title},
		})
	}
	m.SetPosters(items)
	return m
}

func TestMenuRowsOrder(t *testing.T) {
	m := menuFixture("First", "Second")
	rows := m.rows()

	require.Len(t, rows, 4)
	assert.Equal(t, rowTimed, rows[0].kind)
	assert.Equal(t, "First", rows[1].title)
	assert.Equal(t, "Second", rows[2].title)
	assert.Equal(t, rowExit, rows[3].kind)
}

func TestMenuFilterNarrowsPosters(t *testing.T) {
	m := menuFixture("Protein Folding", "Dark Matter Survey", "Protein Synthesis")

	for _, r := range "protein" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	rows := m.rows()
	require.Len(t, rows, 4, "controls plus the two matching posters")
	assert.Equal(t, rowTimed, rows[0].kind)
	assert.ElementsMatch(t,
		[]string{"Protein Folding", "Protein Synthesis"},
		[]string{rows[1].title, rows[2].title})
	assert.Equal(t, rowExit, rows[3].kind)
}

func TestMenuFilterControlsAlwaysPresent(t *testing.T) {
	m := menuFixture("Alpha", "Beta")

	for _, r := range "zzzz" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	rows := m.rows()
	require.Len(t, rows, 2, "no poster matches, controls remain")
	assert.Equal(t, rowTimed, rows[0].kind)
	assert.Equal(t, rowExit, rows[1].kind)
}

func TestMenuEnterActivatesRow(t *testing.T) {
	m := menuFixture("Alpha", "Beta")

	action, id, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, MenuActionTimed, action, "cursor starts on the rotation control")
	assert.Empty(t, id)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	action, id, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, MenuActionPin, action)
	assert.Equal(t, "a", id)
}

func TestMenuEscReturnsToRotation(t *testing.T) {
	m := menuFixture("Alpha")
	action, _, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, MenuActionTimed, action)
}

func TestMenuClickMapsScreenLinesToRows(t *testing.T) {
	m := menuFixture("Alpha", "Beta")

	// Row i renders on screen line menuItemsTopLine+i while unscrolled.
	action, _, _ := m.Click(menuItemsTopLine)
	assert.Equal(t, MenuActionTimed, action)

	action, id, _ := m.Click(menuItemsTopLine + 2)
	assert.Equal(t, MenuActionPin, action)
	assert.Equal(t, "b", id)

	action, _, _ = m.Click(menuItemsTopLine + 3)
	assert.Equal(t, MenuActionExit, action)
}

func TestMenuClickOutsideRowsIsNoop(t *testing.T) {
	m := menuFixture("Alpha")

	action, _, _ := m.Click(0) // title line
	assert.Equal(t, MenuActionNone, action)

	action, _, _ = m.Click(menuItemsTopLine + 50)
	assert.Equal(t, MenuActionNone, action)
}

func TestMenuCursorClampsAtEdges(t *testing.T) {
	m := menuFixture("Alpha")

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 10; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 2, m.cursor, "cursor stops on the exit row")
}

func TestMenuScrollKeepsCursorVisible(t *testing.T) {
	m := menuFixture("A", "B", "C", "D", "E", "F", "G", "H")
	m.SetSize(80, menuItemsTopLine+4) // four visible rows

	for i := 0; i < 9; i++ {
		m.Scroll(false)
	}
	assert.Equal(t, 9, m.cursor, "Timed + 8 posters + Exit, last index")
	assert.Equal(t, 6, m.offset, "window slid to keep the cursor on screen")
}

func TestMenuSetPostersResetsFilter(t *testing.T) {
	m := menuFixture("Alpha", "Beta")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})

	m.SetPosters([]domain.SnapshotItem{
		{Record: domain.PosterRecord{ID: "z", Title: "Zeta"}},
	})

	assert.Equal(t, 0, m.cursor)
	rows := m.rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "Zeta", rows[1].title)
}
