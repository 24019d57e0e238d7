package backend

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/dshills/selshape/internal/renderer/layout"
	"github.com/dshills/selshape/internal/renderer/selection"
)

// bezierArc is the cubic control point distance for a quarter circle.
const bezierArc = 0.5522847498

// Image is a Backend that rasterises onto an RGBA image.
type Image struct {
	mu      sync.Mutex
	img     *image.RGBA
	metrics layout.Metrics
	palette Palette
	face    font.Face
}

// NewImage creates an image backend of the given pixel size.
func NewImage(width, height int, metrics layout.Metrics, palette Palette) *Image {
	b := &Image{
		img:     image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1))),
		metrics: metrics,
		palette: palette,
		face:    basicfont.Face7x13,
	}
	b.Clear()
	return b
}

// Size returns the image size in pixels.
func (b *Image) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.img.Bounds().Size()
	return s.X, s.Y
}

// Clear fills the image with the background color.
func (b *Image) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	bg := image.NewUniform(b.palette.Background.RGBA(color.RGBA{A: 0xff}))
	draw.Draw(b.img, b.img.Bounds(), bg, image.Point{}, draw.Src)
}

// DrawLine rasterises pieces onto row. Rounded corners use selection.CornerRadius.
func (b *Image) DrawLine(row int, pieces []selection.Piece) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rowTop := float64(row) * b.metrics.LineHeight
	for _, p := range pieces {
		c := b.palette.pieceColor(p.Kind).RGBA(color.RGBA{A: 0xff})
		b.fillRoundedRect(p.Left, rowTop+p.Top, p.Width, p.Height, p.Rounding, c)
	}
}

// fillRoundedRect fills a rectangle whose flagged corners are rounded
// (must hold lock).
func (b *Image) fillRoundedRect(x, y, w, h float64, round selection.Rounding, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}

	box := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	)
	if !box.Overlaps(b.img.Bounds()) {
		return
	}

	// Path coordinates are local to box.
	x0 := float32(x - float64(box.Min.X))
	y0 := float32(y - float64(box.Min.Y))
	x1, y1 := x0+float32(w), y0+float32(h)

	radius := float32(math.Min(selection.CornerRadius, math.Min(w, h)/2))
	corner := func(flag selection.Rounding) float32 {
		if round.Has(flag) {
			return radius
		}
		return 0
	}
	tl, tr := corner(selection.RoundTopLeft), corner(selection.RoundTopRight)
	bl, br := corner(selection.RoundBottomLeft), corner(selection.RoundBottomRight)
	const k = float32(bezierArc)

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	z.MoveTo(x0+tl, y0)
	z.LineTo(x1-tr, y0)
	if tr > 0 {
		z.CubeTo(x1-tr+k*tr, y0, x1, y0+tr-k*tr, x1, y0+tr)
	}
	z.LineTo(x1, y1-br)
	if br > 0 {
		z.CubeTo(x1, y1-br+k*br, x1-br+k*br, y1, x1-br, y1)
	}
	z.LineTo(x0+bl, y1)
	if bl > 0 {
		z.CubeTo(x0+bl-k*bl, y1, x0, y1-bl+k*bl, x0, y1-bl)
	}
	z.LineTo(x0, y0+tl)
	if tl > 0 {
		z.CubeTo(x0, y0+tl-k*tl, x0+tl-k*tl, y0, x0+tl, y0)
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(b.img, box, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// DrawText draws text on row with a fixed-width bitmap face, one column per
// Metrics.CharWidth.
func (b *Image) DrawText(row int, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	metrics := b.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	glyphHeight := ascent + metrics.Descent.Ceil()
	baseline := int(float64(row)*b.metrics.LineHeight) + (int(b.metrics.LineHeight)-glyphHeight)/2 + ascent

	d := &font.Drawer{
		Dst:  b.img,
		Src:  image.NewUniform(b.palette.Foreground.RGBA(color.RGBA{A: 0xff})),
		Face: b.face,
	}
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if r != ' ' {
			d.Dot = fixed.P(int(float64(col)*b.metrics.CharWidth), baseline)
			d.DrawString(string(r))
		}
		col += w
	}
}

// Show is a no-op; call EncodePNG to write the result.
func (b *Image) Show() error {
	return nil
}

// Image returns the underlying image.
func (b *Image) Image() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.img
}

// EncodePNG writes the image as PNG.
func (b *Image) EncodePNG(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return png.Encode(w, b.img)
}
