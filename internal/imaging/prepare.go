// Package imaging converts raw poster bytes into display-ready surfaces
// sized and rotated for the kiosk's terminal canvas. Prepare is a pure
// function of its inputs; an undecodable poster is skipped, never fatal.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	dimg "github.com/disintegration/imaging"

	"github.com/posterbridge/eposter/internal/domain"
)

// ErrDecode indicates the poster bytes could not be decoded as an image.
var ErrDecode = errors.New("undecodable poster image")

// Geometry describes the target canvas in terminal cells. Each cell
// renders two vertical pixels (half-block glyphs), so the pixel canvas
// is Cols x Rows*2.
type Geometry struct {
	Cols        int
	Rows        int
	Orientation domain.Orientation
}

// PixelWidth returns the canvas width in pixels.
func (g Geometry) PixelWidth() int { return g.Cols }

// PixelHeight returns the canvas height in pixels.
func (g Geometry) PixelHeight() int { return g.Rows * 2 }

// Surface is a poster scaled to fit a canvas, with the centering offsets
// needed to place it.
type Surface struct {
	Image   *image.NRGBA
	Canvas  Geometry
	OffsetX int // pixels of left margin when centering
	OffsetY int // pixels of top margin when centering
}

// Prepare decodes raw poster bytes and produces a surface fitted within
// the target geometry: rotated a quarter turn when the configured
// orientation differs from the image's natural one, scaled to fit while
// preserving aspect ratio (never cropped), and centered.
func Prepare(raw []byte, geom Geometry) (*Surface, error) {
	if geom.Cols <= 0 || geom.Rows <= 0 {
		return nil, fmt.Errorf("invalid target geometry %dx%d", geom.Cols, geom.Rows)
	}

	img, err := dimg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	if geom.Orientation != "" && domain.OrientationOf(bounds.Dx(), bounds.Dy()) != geom.Orientation {
		img = dimg.Rotate90(img)
	}

	fitted := dimg.Fit(img, geom.PixelWidth(), geom.PixelHeight(), dimg.Lanczos)

	return &Surface{
		Image:   fitted,
		Canvas:  geom,
		OffsetX: (geom.PixelWidth() - fitted.Bounds().Dx()) / 2,
		OffsetY: (geom.PixelHeight() - fitted.Bounds().Dy()) / 2,
	}, nil
}
