package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/posterbridge/eposter/internal/domain"
	"github.com/posterbridge/eposter/internal/tui/styles"
)

func (m Model) View() string {
	if !m.ready {
		return ""
	}

	if m.mode == ModeMenu {
		return m.menu.View()
	}

	if m.snap.Len() == 0 {
		return m.placeholderView("No poster data available\nWaiting for data...")
	}

	item, ok := m.currentItem()
	if !ok {
		return m.placeholderView("No poster selected")
	}

	surface := m.surfaces[item.Record.ID]
	if surface == nil {
		msg := "Loading poster..."
		if m.broken[item.Record.ID] {
			msg = "Poster image unavailable"
		}
		return m.placeholderView(msg)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		surface.View(),
		m.footerView(item),
	)
}

func (m Model) currentItem() (domain.SnapshotItem, bool) {
	switch m.mode {
	case ModePinned:
		return m.snap.Find(m.pinnedID)
	default:
		if m.snap.Len() == 0 {
			return domain.SnapshotItem{}, false
		}
		return m.snap.Items[m.index], true
	}
}

// placeholderView centers a message on an otherwise empty screen. This
// is the only thing an operator ever sees for a data-layer fault.
func (m Model) placeholderView(msg string) string {
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		styles.PlaceholderStyle.Render(msg))
}

// footerView is the single decoration line under the poster: title,
// presenter, schedule status, position in the rotation, event name.
func (m Model) footerView(item domain.SnapshotItem) string {
	var parts []string

	title := item.Record.Title
	if title == "" {
		title = item.Record.ID
	}
	parts = append(parts, styles.TitleStyle.Render(title))

	if item.Record.Presenter != "" {
		parts = append(parts, styles.SubtitleStyle.Render(item.Record.Presenter))
	}

	switch item.Record.ScheduleStatusAt(m.now()) {
	case domain.ScheduleActive:
		parts = append(parts, styles.ActiveStyle.Render("ACTIVE"))
	case domain.ScheduleUpcoming:
		parts = append(parts, styles.UpcomingStyle.Render("UPCOMING"))
	case domain.SchedulePast:
		parts = append(parts, styles.DimStyle.Render("PAST"))
	}

	switch m.mode {
	case ModePinned:
		parts = append(parts, styles.AccentStyle.Render("PINNED"))
	case ModeTimed:
		parts = append(parts, styles.DimStyle.Render(
			fmt.Sprintf("%d/%d", m.index+1, m.snap.Len())))
	}

	if m.eventName != "" {
		parts = append(parts, styles.DimStyle.Render(m.eventName))
	}

	line := strings.Join(parts, styles.DimStyle.Render("  ·  "))
	return styles.FooterStyle.Width(m.width).Render(line)
}
