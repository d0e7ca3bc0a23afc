package render

import (
	"fmt"
	"image/color"
	"math"

	"qdcad/internal/core"
)

var (
	// Background is the canvas colour behind the grid.
	Background = color.RGBA{R: 238, G: 238, B: 236, A: 255}
	// GridLine is the colour of the lines between cells.
	GridLine = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// Marker is the colour of value dots.
	Marker = color.RGBA{A: 255}
	// Label is the colour of electrode id labels.
	Label = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// ClockColor returns the fill colour for a clock phase.
func ClockColor(c core.Clock) color.RGBA {
	switch c {
	case core.ClockUndefined:
		return color.RGBA{R: 173, G: 127, B: 168, A: 255}
	case core.ClockSwitch:
		return color.RGBA{R: 252, G: 233, B: 79, A: 255}
	case core.ClockHold:
		return color.RGBA{R: 114, G: 159, B: 207, A: 255}
	case core.ClockRelease:
		return color.RGBA{R: 252, G: 175, B: 62, A: 255}
	case core.ClockRelax:
		return color.RGBA{R: 138, G: 226, B: 52, A: 255}
	}
	panic(fmt.Sprintf("render: invalid clock %d", uint8(c)))
}

// KindColor returns the outline colour for a cell kind.
func KindColor(k core.Kind) color.RGBA {
	switch k {
	case core.KindInternal:
		return color.RGBA{R: 238, G: 238, B: 236, A: 255}
	case core.KindDriver:
		return color.RGBA{R: 85, G: 85, B: 85, A: 255}
	case core.KindElectrode:
		return color.RGBA{R: 239, G: 41, B: 41, A: 255}
	case core.KindOutput:
		return color.RGBA{R: 117, G: 80, B: 123, A: 255}
	}
	panic(fmt.Sprintf("render: invalid kind %d", uint8(k)))
}

// ValueAngle returns the rotation of the two-dot polarisation marker for v.
// ok is false for ValueNone, which is drawn as a single centre dot.
func ValueAngle(v core.Value) (angle float64, ok bool) {
	switch v {
	case core.ValueNone:
		return 0, false
	case core.ValueA:
		return math.Pi / 4, true
	case core.ValueB:
		return math.Pi / 4 * 3, true
	case core.ValueC:
		return 0, true
	case core.ValueD:
		return math.Pi / 2, true
	}
	panic(fmt.Sprintf("render: invalid value %d", uint8(v)))
}

// Dot is a filled circle relative to a cell centre.
type Dot struct {
	X, Y, R float64
}

// ValueDots returns the marker dots for v in a cell of the given size.
func ValueDots(v core.Value, cellSize int) []Dot {
	scale := float64(cellSize) / DefaultCellSize
	angle, ok := ValueAngle(v)
	if !ok {
		return []Dot{{R: 3 * scale}}
	}
	dx := math.Cos(angle) * 10 * scale
	dy := math.Sin(angle) * 10 * scale
	r := 5 * scale
	return []Dot{{X: dx, Y: dy, R: r}, {X: -dx, Y: -dy, R: r}}
}

// fillCellRGBA paints a size*size RGBA buffer with the clock fill and a kind
// border of the given width, as used for swatches in the HUD.
func fillCellRGBA(buf []byte, size, border int, fill, edge color.RGBA) {
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			col := fill
			if x < border || y < border || x >= size-border || y >= size-border {
				col = edge
			}
			base := (y*size + x) * 4
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
		}
	}
}

// Swatch returns the RGBA pixels of a size*size preview of a cell with the
// given kind and clock.
func Swatch(kind core.Kind, clock core.Clock, size int) []byte {
	if size <= 0 {
		return nil
	}
	buf := make([]byte, 4*size*size)
	border := max(1, size/8)
	fillCellRGBA(buf, size, border, ClockColor(clock), KindColor(kind))
	return buf
}
