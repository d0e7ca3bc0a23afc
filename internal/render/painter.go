//go:build ebiten

package render

import (
	"image/color"
	"math"
	"strconv"

	"qdcad/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Painter draws the grid and the cells of one layer onto an ebiten image.
type Painter struct {
	face font.Face
}

// NewPainter constructs a Painter using the built-in bitmap font for labels.
func NewPainter() *Painter {
	return &Painter{face: basicfont.Face7x13}
}

// DrawGrid fills dst with the background and strokes the cell boundaries.
func (p *Painter) DrawGrid(dst *ebiten.Image, m Mapper) {
	dst.Fill(Background)
	b := dst.Bounds()
	size := float64(m.CellSize)
	half := m.halfCell()

	startX := math.Mod(m.Offset.DX-half, size)
	if startX > 0 {
		startX -= size
	}
	for x := startX; x <= float64(b.Dx()); x += size {
		vector.StrokeLine(dst, float32(x), 0, float32(x), float32(b.Dy()), 4, GridLine, false)
	}
	startY := math.Mod(m.Offset.DY-half, size)
	if startY > 0 {
		startY -= size
	}
	for y := startY; y <= float64(b.Dy()); y += size {
		vector.StrokeLine(dst, 0, float32(y), float32(b.Dx()), float32(y), 4, GridLine, false)
	}
}

// DrawCells draws every cell in cells that falls inside dst.
func (p *Painter) DrawCells(dst *ebiten.Image, m Mapper, cells []core.Cell) {
	b := dst.Bounds()
	minX, minY, maxX, maxY := m.Visible(b.Dx(), b.Dy())
	for _, c := range cells {
		if c.X() < minX || c.X() > maxX || c.Y() < minY || c.Y() > maxY {
			continue
		}
		p.DrawCell(dst, m, c)
	}
}

// DrawCell draws a single cell centred on its mapped position: the clock
// colour fills the square, the kind colour outlines it and the value marker
// sits in the middle. Electrodes are labelled with their id.
func (p *Painter) DrawCell(dst *ebiten.Image, m Mapper, c core.Cell) {
	cx, cy := m.ToPresentation(c.X(), c.Y())
	size := float64(m.CellSize)
	left, top := cx-m.halfCell(), cy-m.halfCell()
	scale := size / DefaultCellSize
	inset := 5 * scale
	x := float32(left + inset)
	y := float32(top + inset)
	w := float32(size - 2*inset)

	vector.DrawFilledRect(dst, x, y, w, w, ClockColor(c.Clock()), false)
	vector.StrokeRect(dst, x, y, w, w, float32(6*scale), KindColor(c.Kind()), false)

	if id, ok := c.ElectrodeID(); ok {
		text.Draw(dst, strconv.Itoa(id), p.face, int(x)+2, int(top+size-inset)-2, Label)
	}

	for _, d := range ValueDots(c.Value(), m.CellSize) {
		vector.DrawFilledCircle(dst, float32(cx+d.X), float32(cy+d.Y), float32(d.R), Marker, true)
	}
}

// DrawHover outlines the cell under the cursor.
func (p *Painter) DrawHover(dst *ebiten.Image, m Mapper, gx, gy int) {
	cx, cy := m.ToPresentation(gx, gy)
	size := float64(m.CellSize)
	col := color.RGBA{R: 40, G: 40, B: 48, A: 160}
	half := m.halfCell()
	vector.StrokeRect(dst, float32(cx-half), float32(cy-half), float32(size), float32(size), 2, col, false)
}
