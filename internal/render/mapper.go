package render

import "math"

// DefaultCellSize is the edge length of a grid cell in screen pixels.
const DefaultCellSize = 50

// Offset is the pan offset of the view in screen pixels.
type Offset struct {
	DX, DY float64
}

// Mapper converts between integer grid coordinates and screen coordinates.
// A grid coordinate maps to the centre of its cell.
type Mapper struct {
	Offset   Offset
	CellSize int
}

// NewMapper returns a mapper whose origin cell is fully visible in the top
// left corner of the view.
func NewMapper(cellSize int) Mapper {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	half := float64(cellSize / 2)
	return Mapper{Offset: Offset{DX: half, DY: half}, CellSize: cellSize}
}

// ToGrid returns the grid cell containing the screen point (px, py). It
// floors, so points left of or above the origin map to negative cells. The
// half cell is rounded down for odd sizes.
func (m Mapper) ToGrid(px, py float64) (gx, gy int) {
	size := float64(m.CellSize)
	half := m.halfCell()
	gx = int(math.Floor((px - m.Offset.DX + half) / size))
	gy = int(math.Floor((py - m.Offset.DY + half) / size))
	return gx, gy
}

func (m Mapper) halfCell() float64 { return float64(m.CellSize / 2) }

// ToPresentation returns the screen position of the centre of cell (gx, gy).
func (m Mapper) ToPresentation(gx, gy int) (px, py float64) {
	size := float64(m.CellSize)
	return float64(gx)*size + m.Offset.DX, float64(gy)*size + m.Offset.DY
}

// Pan shifts the view by (dx, dy) screen pixels.
func (m *Mapper) Pan(dx, dy float64) {
	m.Offset.DX += dx
	m.Offset.DY += dy
}

// Visible returns the inclusive range of grid cells that intersect a view of
// the given size.
func (m Mapper) Visible(width, height int) (minX, minY, maxX, maxY int) {
	minX, minY = m.ToGrid(0, 0)
	maxX, maxY = m.ToGrid(float64(width), float64(height))
	return minX, minY, maxX, maxY
}
