package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Half-block glyphs render two vertically stacked pixels per terminal
// cell: the upper pixel as the foreground of "▀", the lower as its
// background.
const (
	upperHalf = "▀"
	lowerHalf = "▄"
)

// Rows renders the surface to terminal rows of half-block cells.
// Canvas area outside the fitted image stays unstyled (terminal
// background), which gives the letterbox bars for free.
func (s *Surface) Rows() []string {
	rows := make([]string, 0, s.Canvas.Rows)
	img := s.Image
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	for row := 0; row < s.Canvas.Rows; row++ {
		var b strings.Builder
		for col := 0; col < s.Canvas.Cols; col++ {
			topY := row*2 - s.OffsetY
			botY := topY + 1
			x := col - s.OffsetX

			top, topOK := pixelColor(img, x, topY, w, h)
			bot, botOK := pixelColor(img, x, botY, w, h)

			switch {
			case !topOK && !botOK:
				b.WriteByte(' ')
			case topOK && botOK:
				b.WriteString(lipgloss.NewStyle().
					Foreground(top).Background(bot).Render(upperHalf))
			case topOK:
				b.WriteString(lipgloss.NewStyle().Foreground(top).Render(upperHalf))
			default:
				b.WriteString(lipgloss.NewStyle().Foreground(bot).Render(lowerHalf))
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}

// View renders the full surface as a single string.
func (s *Surface) View() string {
	return strings.Join(s.Rows(), "\n")
}

// pixelColor returns the color at (x, y), or ok=false when the point
// falls outside the fitted image or is fully transparent.
func pixelColor(img *image.NRGBA, x, y, w, h int) (lipgloss.Color, bool) {
	if x < 0 || y < 0 || x >= w || y >= h {
		return "", false
	}
	min := img.Bounds().Min
	c := img.NRGBAAt(min.X+x, min.Y+y)
	if c.A == 0 {
		return "", false
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), true
}
