package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posterbridge/eposter/internal/domain"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareFitsWithinCanvas(t *testing.T) {
	// 40 cols x 20 rows = 40 x 40 pixel canvas.
	geom := Geometry{Cols: 40, Rows: 20}

	tests := []struct {
		name      string
		w, h      int
		touchEdge bool
	}{
		{"oversized landscape", 400, 100, true},
		{"oversized portrait", 100, 400, true},
		{"exact fit", 40, 40, true},
		{"small image is never enlarged", 4, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Prepare(pngBytes(t, tt.w, tt.h), geom)
			require.NoError(t, err)

			b := s.Image.Bounds()
			assert.LessOrEqual(t, b.Dx(), geom.PixelWidth())
			assert.LessOrEqual(t, b.Dy(), geom.PixelHeight())
			if tt.touchEdge {
				assert.True(t, b.Dx() == geom.PixelWidth() || b.Dy() == geom.PixelHeight(),
					"downscale must touch at least one canvas edge")
			} else {
				assert.Equal(t, tt.w, b.Dx())
				assert.Equal(t, tt.h, b.Dy())
			}
		})
	}
}

func TestPreparePreservesAspectRatio(t *testing.T) {
	geom := Geometry{Cols: 40, Rows: 20} // 40x40 px
	s, err := Prepare(pngBytes(t, 200, 100), geom)
	require.NoError(t, err)

	b := s.Image.Bounds()
	assert.Equal(t, 40, b.Dx())
	assert.Equal(t, 20, b.Dy(), "2:1 source stays 2:1")
}

func TestPrepareCentersLetterbox(t *testing.T) {
	geom := Geometry{Cols: 40, Rows: 20} // 40x40 px
	s, err := Prepare(pngBytes(t, 200, 100), geom)
	require.NoError(t, err)

	assert.Equal(t, 0, s.OffsetX)
	assert.Equal(t, 10, s.OffsetY, "(40-20)/2 pixels of top margin")
}

func TestPrepareRotatesOnOrientationMismatch(t *testing.T) {
	geom := Geometry{Cols: 20, Rows: 20, Orientation: domain.OrientationPortrait}

	// A landscape source on a portrait display gets a quarter turn.
	s, err := Prepare(pngBytes(t, 300, 100), geom)
	require.NoError(t, err)
	b := s.Image.Bounds()
	assert.Greater(t, b.Dy(), b.Dx(), "rotated image must be taller than wide")

	// A portrait source on a portrait display does not.
	s, err = Prepare(pngBytes(t, 100, 300), geom)
	require.NoError(t, err)
	b = s.Image.Bounds()
	assert.Greater(t, b.Dy(), b.Dx())
}

func TestPrepareNoRotationWithoutOrientation(t *testing.T) {
	geom := Geometry{Cols: 40, Rows: 20}
	s, err := Prepare(pngBytes(t, 300, 100), geom)
	require.NoError(t, err)
	b := s.Image.Bounds()
	assert.Greater(t, b.Dx(), b.Dy(), "no configured orientation means no rotation")
}

func TestPrepareUndecodableBytes(t *testing.T) {
	_, err := Prepare([]byte("definitely not an image"), Geometry{Cols: 10, Rows: 10})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPrepareRejectsDegenerateGeometry(t *testing.T) {
	_, err := Prepare(pngBytes(t, 10, 10), Geometry{Cols: 0, Rows: 10})
	assert.Error(t, err)
	_, err = Prepare(pngBytes(t, 10, 10), Geometry{Cols: 10, Rows: -1})
	assert.Error(t, err)
}

func TestSurfaceRows(t *testing.T) {
	geom := Geometry{Cols: 10, Rows: 5} // 10x10 px
	s, err := Prepare(pngBytes(t, 10, 10), geom)
	require.NoError(t, err)

	rows := s.Rows()
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Contains(t, row, upperHalf, "full-coverage image renders half blocks everywhere")
	}
}

func TestSurfaceRowsLetterboxIsBlank(t *testing.T) {
	geom := Geometry{Cols: 10, Rows: 10} // 10x20 px canvas, 10x5 px image
	s, err := Prepare(pngBytes(t, 100, 50), geom)
	require.NoError(t, err)

	rows := s.Rows()
	require.Len(t, rows, 10)
	assert.Equal(t, "          ", rows[0], "letterbox rows stay unstyled")
	assert.Equal(t, "          ", rows[9])
}

func TestGeometryPixelDimensions(t *testing.T) {
	g := Geometry{Cols: 80, Rows: 24}
	assert.Equal(t, 80, g.PixelWidth())
	assert.Equal(t, 48, g.PixelHeight())
}
