// Package tui is the foreground display controller: a Bubble Tea model
// that renders the timed poster rotation fullscreen and handles the
// pointer-driven manual override. It shares nothing with the refresh
// scheduler except the snapshot handle and the cache's read surface, so
// a slow or failed refresh can never stall a frame.
package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/posterbridge/eposter/internal/domain"
	"github.com/posterbridge/eposter/internal/imaging"
)

// Mode is the display state. Exactly one mode is active at any instant;
// transitions happen atomically within a single Update call, so no frame
// ever renders a mixed state.
type Mode int

const (
	// ModeTimed rotates through the snapshot's posters on a timer.
	ModeTimed Mode = iota
	// ModeMenu shows the manual-override selector.
	ModeMenu
	// ModePinned shows one operator-selected poster until explicitly
	// returned to the menu or rotation. No idle timeout.
	ModePinned
)

func (m Mode) String() string {
	switch m {
	case ModeTimed:
		return "timed"
	case ModeMenu:
		return "menu"
	case ModePinned:
		return "pinned"
	default:
		return "unknown"
	}
}

// ImageReader is the display-side slice of the cache store.
type ImageReader interface {
	ReadImage(id string) ([]byte, error)
	LoadEventMetadata() (*domain.EventMetadata, error)
}

// Options configures the display controller.
type Options struct {
	Handle      *domain.SnapshotHandle
	Notify      <-chan struct{}
	Cache       ImageReader
	DisplayTime time.Duration
	Orientation domain.Orientation

	// FixedWidth/FixedHeight pin the canvas size in cells; 0 follows the
	// terminal.
	FixedWidth  int
	FixedHeight int

	Logger *slog.Logger
}

// Model is the Bubble Tea model for the kiosk display.
type Model struct {
	mode Mode

	// Shared read surfaces (never written here)
	handle *domain.SnapshotHandle
	notify <-chan struct{}
	cache  ImageReader

	// Rotation state
	snap        *domain.Snapshot
	index       int
	gen         int // rotation tick generation; stale ticks are dropped
	pinnedID    string
	displayTime time.Duration
	orientation domain.Orientation
	fixedWidth  int
	fixedHeight int

	// Prepared surfaces, keyed by poster id for the current geometry
	surfaces  map[string]*imaging.Surface
	preparing map[string]bool
	broken    map[string]bool

	menu      Menu
	eventName string

	width  int
	height int
	ready  bool

	logger *slog.Logger
	now    func() time.Time
}

// NewModel creates the display controller in the timed rotation state.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		mode:        ModeTimed,
		handle:      opts.Handle,
		notify:      opts.Notify,
		cache:       opts.Cache,
		displayTime: opts.DisplayTime,
		orientation: opts.Orientation,
		fixedWidth:  opts.FixedWidth,
		fixedHeight: opts.FixedHeight,
		surfaces:    make(map[string]*imaging.Surface),
		preparing:   make(map[string]bool),
		broken:      make(map[string]bool),
		menu:        NewMenu(),
		logger:      logger,
		now:         time.Now,
	}
}

// Mode returns the active display state.
func (m Model) Mode() Mode { return m.mode }

// CurrentPosterID returns the poster on screen, or "" when none.
func (m Model) CurrentPosterID() string {
	switch m.mode {
	case ModePinned:
		return m.pinnedID
	case ModeTimed:
		if m.snap.Len() == 0 {
			return ""
		}
		return m.snap.Items[m.index].Record.ID
	default:
		return ""
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForSnapshotCmd(m.notify),
		LoadEventMetadataCmd(m.cache),
		RotateTickCmd(m.rotateDelay(), m.gen),
	)
}

// rotateDelay is the per-poster display time, preferring the value the
// API dictated for this screen over the configured default.
func (m Model) rotateDelay() time.Duration {
	if m.snap != nil && m.snap.DisplayTime > 0 {
		return time.Duration(m.snap.DisplayTime) * time.Second
	}
	return m.displayTime
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case SnapshotUpdatedMsg:
		return m.adoptSnapshot()

	case RotateTickMsg:
		return m.handleRotateTick(msg)

	case SurfaceReadyMsg:
		delete(m.preparing, msg.ID)
		m.surfaces[msg.ID] = msg.Surface
		return m, nil

	case SurfaceFailedMsg:
		delete(m.preparing, msg.ID)
		m.broken[msg.ID] = true
		m.logger.Warn("poster surface preparation failed", "poster", msg.ID, "error", msg.Err)
		// Skip a broken poster without waiting out its display time.
		if m.mode == ModeTimed && m.CurrentPosterID() == msg.ID {
			m.advance()
			return m, m.ensureCurrentSurface()
		}
		return m, nil

	case EventMetadataMsg:
		m.eventName = msg.Name
		return m, nil
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	if m.fixedWidth > 0 {
		m.width = m.fixedWidth
	}
	if m.fixedHeight > 0 {
		m.height = m.fixedHeight
	}
	m.ready = true
	m.menu.SetSize(msg.Width, msg.Height)
	// Geometry changed: every prepared surface is for the old canvas.
	m.surfaces = make(map[string]*imaging.Surface)
	m.preparing = make(map[string]bool)
	return m, m.ensureCurrentSurface()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeMenu:
		action, id, cmd := m.menu.Update(msg)
		model, actionCmd := m.applyMenuAction(action, id)
		return model, tea.Batch(cmd, actionCmd)

	default:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "m":
			return m.enterMenu()
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeTimed, ModePinned:
		// Secondary click opens the manual-override menu immediately,
		// preempting the current poster's remaining display time.
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight {
			return m.enterMenu()
		}

	case ModeMenu:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.menu.Scroll(true)
		case msg.Button == tea.MouseButtonWheelDown:
			m.menu.Scroll(false)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			action, id, cmd := m.menu.Click(msg.Y)
			model, actionCmd := m.applyMenuAction(action, id)
			return model, tea.Batch(cmd, actionCmd)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
			model, cmd := m.applyMenuAction(MenuActionTimed, "")
			return model, cmd
		}
	}
	return m, nil
}

// adoptSnapshot picks up the latest published snapshot. The rotation
// position survives the swap: no restart-from-zero on refresh.
func (m Model) adoptSnapshot() (tea.Model, tea.Cmd) {
	m.snap = m.handle.Current()
	if n := m.snap.Len(); n > 0 {
		m.index = m.index % n
	} else {
		m.index = 0
	}

	// Drop state for posters that left the snapshot.
	for id := range m.surfaces {
		if !m.snap.Contains(id) {
			delete(m.surfaces, id)
		}
	}
	for id := range m.broken {
		if !m.snap.Contains(id) {
			delete(m.broken, id)
		}
	}

	// A pinned poster that aged out falls back to the rotation.
	if m.mode == ModePinned && !m.snap.Contains(m.pinnedID) {
		m.logger.Info("pinned poster left the snapshot, resuming rotation", "poster", m.pinnedID)
		m.pinnedID = ""
		m.mode = ModeTimed
		m.gen++
		return m, tea.Batch(
			WaitForSnapshotCmd(m.notify),
			LoadEventMetadataCmd(m.cache),
			RotateTickCmd(m.rotateDelay(), m.gen),
			m.ensureCurrentSurface(),
		)
	}

	if m.mode == ModeMenu {
		m.menu.SetPosters(m.snapshotItems())
	}

	return m, tea.Batch(
		WaitForSnapshotCmd(m.notify),
		LoadEventMetadataCmd(m.cache),
		m.ensureCurrentSurface(),
	)
}

func (m Model) handleRotateTick(msg RotateTickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil // stale tick from before a mode change
	}
	if m.mode != ModeTimed {
		return m, nil
	}
	m.advance()
	return m, tea.Batch(
		RotateTickCmd(m.rotateDelay(), m.gen),
		m.ensureCurrentSurface(),
	)
}

// advance moves to the next displayable poster, wrapping after the last
// and skipping posters marked broken this pass.
func (m *Model) advance() {
	n := m.snap.Len()
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		m.index = (m.index + 1) % n
		if !m.broken[m.snap.Items[m.index].Record.ID] {
			return
		}
	}
}

func (m Model) enterMenu() (tea.Model, tea.Cmd) {
	m.mode = ModeMenu
	m.gen++ // invalidate in-flight rotation ticks
	m.menu.SetPosters(m.snapshotItems())
	return m, nil
}

// applyMenuAction resolves a menu activation. Returning to the timed
// rotation resumes at the next poster with a fresh timer rather than
// with whatever time the interrupted poster had left.
func (m Model) applyMenuAction(action MenuAction, id string) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionTimed:
		m.mode = ModeTimed
		m.pinnedID = ""
		m.gen++
		m.advance()
		return m, tea.Batch(
			RotateTickCmd(m.rotateDelay(), m.gen),
			m.ensureCurrentSurface(),
		)

	case MenuActionPin:
		m.mode = ModePinned
		m.pinnedID = id
		m.gen++
		return m, m.ensureCurrentSurface()

	case MenuActionExit:
		m.logger.Info("operator exit")
		return m, tea.Quit
	}
	return m, nil
}

// snapshotItems returns the menu's selectable posters. Snapshot items
// are cached by construction, so the whole list is selectable.
func (m Model) snapshotItems() []domain.SnapshotItem {
	if m.snap == nil {
		return nil
	}
	return m.snap.Items
}

// posterGeometry is the canvas available to a poster: the full width,
// and all rows above the one-line footer.
func (m Model) posterGeometry() imaging.Geometry {
	return imaging.Geometry{
		Cols:        m.width,
		Rows:        max(1, m.height-1),
		Orientation: m.orientation,
	}
}

// ensureCurrentSurface kicks off preparation for the poster about to be
// rendered, unless it is ready, already in flight, or known broken.
func (m Model) ensureCurrentSurface() tea.Cmd {
	id := m.CurrentPosterID()
	if id == "" || !m.ready {
		return nil
	}
	if m.surfaces[id] != nil || m.preparing[id] || m.broken[id] {
		return nil
	}
	m.preparing[id] = true
	return PrepareSurfaceCmd(m.cache, id, m.posterGeometry())
}
