package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/posterbridge/eposter/internal/domain"
	"github.com/posterbridge/eposter/internal/tui/styles"
)

// MenuAction is the outcome of a menu interaction.
type MenuAction int

const (
	MenuActionNone  MenuAction = iota
	MenuActionTimed            // return to the timed rotation
	MenuActionPin              // pin the selected poster
	MenuActionExit             // terminate the process
)

// menuRowKind distinguishes the fixed controls from poster rows.
type menuRowKind int

const (
	rowTimed menuRowKind = iota
	rowPoster
	rowExit
)

type menuRow struct {
	kind  menuRowKind
	id    string
	title string
}

// menuItemsTopLine is the first screen line occupied by menu rows:
// title, filter, and a separator line come before them.
const menuItemsTopLine = 3

// titleSource adapts poster rows to fuzzy.Source.
type titleSource []domain.SnapshotItem

func (s titleSource) String(i int) string {
	if s[i].Record.Title != "" {
		return s[i].Record.Title
	}
	return s[i].Record.ID
}
func (s titleSource) Len() int { return len(s) }

// Menu is the manual-override selector: the cached posters of the
// current snapshot plus the "Timed Rotation" and "Exit" controls, with
// a fuzzy type-to-filter over poster titles.
type Menu struct {
	posters titleSource

	filterInput textinput.Model
	cursor      int
	offset      int

	width  int
	height int
}

// NewMenu creates an empty menu.
func NewMenu() Menu {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle
	ti.Focus()
	return Menu{filterInput: ti}
}

// SetPosters replaces the selectable posters (call on open and whenever
// the snapshot changes while the menu is up) and resets the filter.
func (m *Menu) SetPosters(items []domain.SnapshotItem) {
	m.posters = titleSource(items)
	m.filterInput.SetValue("")
	m.cursor = 0
	m.offset = 0
}

// SetSize updates the drawable area.
func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// rows materializes the visible rows under the current filter. The
// controls are always present; only posters are filtered.
func (m *Menu) rows() []menuRow {
	rows := []menuRow{{kind: rowTimed, title: "Timed Rotation"}}

	query := strings.TrimSpace(m.filterInput.Value())
	if query == "" {
		for i := range m.posters {
			rows = append(rows, menuRow{kind: rowPoster, id: m.posters[i].Record.ID, title: m.posters.String(i)})
		}
	} else {
		for _, match := range fuzzy.FindFrom(query, m.posters) {
			i := match.Index
			rows = append(rows, menuRow{kind: rowPoster, id: m.posters[i].Record.ID, title: m.posters.String(i)})
		}
	}

	return append(rows, menuRow{kind: rowExit, title: "Exit"})
}

func (m *Menu) clampCursor(rows []menuRow) {
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	maxVisible := m.maxVisible()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+maxVisible {
		m.offset = m.cursor - maxVisible + 1
	}
}

func (m *Menu) maxVisible() int {
	if v := m.height - menuItemsTopLine; v > 0 {
		return v
	}
	return 1
}

// Update handles a key event. Returns the activated action (enter) and
// the selected poster id for MenuActionPin.
func (m *Menu) Update(msg tea.KeyMsg) (MenuAction, string, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.cursor--
		m.clampCursor(m.rows())
		return MenuActionNone, "", nil
	case tea.KeyDown:
		m.cursor++
		m.clampCursor(m.rows())
		return MenuActionNone, "", nil
	case tea.KeyEnter:
		return m.activate(m.cursor)
	case tea.KeyEsc:
		return MenuActionTimed, "", nil
	}

	// Everything else feeds the filter.
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.cursor = 0
	m.offset = 0
	return MenuActionNone, "", cmd
}

// Scroll moves the cursor from a mouse wheel event.
func (m *Menu) Scroll(up bool) {
	if up {
		m.cursor--
	} else {
		m.cursor++
	}
	m.clampCursor(m.rows())
}

// Click activates the row rendered on screen line y, if any.
func (m *Menu) Click(y int) (MenuAction, string, tea.Cmd) {
	idx := y - menuItemsTopLine + m.offset
	rows := m.rows()
	if idx < m.offset || idx >= len(rows) || idx >= m.offset+m.maxVisible() {
		return MenuActionNone, "", nil
	}
	m.cursor = idx
	return m.activate(idx)
}

func (m *Menu) activate(idx int) (MenuAction, string, tea.Cmd) {
	rows := m.rows()
	if idx < 0 || idx >= len(rows) {
		return MenuActionNone, "", nil
	}
	switch rows[idx].kind {
	case rowTimed:
		return MenuActionTimed, "", nil
	case rowExit:
		return MenuActionExit, "", nil
	default:
		return MenuActionPin, rows[idx].id, nil
	}
}

// View renders the menu full screen, top-left anchored so mouse rows map
// directly to screen lines.
func (m *Menu) View() string {
	var b strings.Builder

	rows := m.rows()
	m.clampCursor(rows)

	b.WriteString(styles.MenuTitleStyle.Render("ePoster — manual override"))
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  (%d posters cached)", len(m.posters))))
	b.WriteByte('\n')
	b.WriteString(m.filterInput.View())
	b.WriteByte('\n')
	b.WriteString(styles.DimStyle.Render(strings.Repeat("─", max(1, m.width))))
	b.WriteByte('\n')

	maxVisible := m.maxVisible()
	end := m.offset + maxVisible
	if end > len(rows) {
		end = len(rows)
	}
	for i := m.offset; i < end; i++ {
		row := rows[i]
		label := row.title
		switch row.kind {
		case rowTimed:
			label = "▶ " + label
		case rowExit:
			label = "✕ " + label
		default:
			label = "  " + label
		}
		if i == m.cursor {
			b.WriteString(styles.MenuCursorStyle.Render("› " + label))
		} else {
			b.WriteString(styles.MenuItemStyle.Render("  " + label))
		}
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}
