package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Amber     = lipgloss.Color("#E5A00D")
	SlateDark = lipgloss.Color("#1F2937")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	Blue      = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	ActiveStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	UpcomingStyle = lipgloss.NewStyle().
			Foreground(Blue)
)

// Menu styles
var (
	MenuFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber).
			Padding(1, 2)

	MenuTitleStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	MenuCursorStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(Amber).
			Bold(true)

	MenuItemStyle = lipgloss.NewStyle().
			Foreground(White)

	MenuDisabledStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Strikethrough(true)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Amber)

	FilterStyle = lipgloss.NewStyle().
			Foreground(White)
)

// Placeholder screen styles
var (
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Align(lipgloss.Center)

	FooterStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateDark)
)
