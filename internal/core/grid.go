package core

import (
	"cmp"
	"errors"
	"slices"
	"sort"
)

// ErrForeignCell is returned by Put for a cell that was not built by the
// grid's own factory.
var ErrForeignCell = errors.New("core: cell was not built by this grid's factory")

// Box is an inclusive bounding rectangle in grid coordinates.
type Box struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Width returns the number of columns covered by the box.
func (b Box) Width() int { return b.MaxX - b.MinX + 1 }

// Height returns the number of rows covered by the box.
func (b Box) Height() int { return b.MaxY - b.MinY + 1 }

// Grid is a qdStruct document: a sparse set of cells keyed by (x, y, z) plus
// the opaque document fields passed through to the simulator.
//
// Cells iterate in insertion order. Replacing a cell keeps its slot, so a
// document that is loaded and saved again reproduces the same file.
type Grid struct {
	Architecture string
	Params       SimParams
	Inputs       []string

	cells   map[Key]Cell
	order   []Key
	factory *Factory
}

// NewGrid allocates an empty document with its own electrode id factory.
func NewGrid() *Grid {
	return &Grid{cells: make(map[Key]Cell), factory: NewFactory()}
}

// Factory returns the factory that numbers this document's electrodes.
func (g *Grid) Factory() *Factory { return g.factory }

// Place constructs a cell through the grid's factory and stores it.
func (g *Grid) Place(x, y, z int, kind Kind, clock Clock, value Value) Cell {
	c := g.factory.New(x, y, z, kind, clock, value)
	g.store(c)
	return c
}

// Put inserts c, replacing any cell already stored at its coordinates. c
// must come from g.Factory(); cells from another grid or the zero Cell are
// refused so electrode ids stay unique within the document.
func (g *Grid) Put(c Cell) error {
	if c.factory != g.factory {
		return ErrForeignCell
	}
	g.store(c)
	return nil
}

func (g *Grid) store(c Cell) {
	k := c.Key()
	if _, ok := g.cells[k]; !ok {
		g.order = append(g.order, k)
	}
	g.cells[k] = c
}

// Remove deletes the cell at (x, y, z) and reports whether one existed.
func (g *Grid) Remove(x, y, z int) bool {
	k := Key{X: x, Y: y, Z: z}
	if _, ok := g.cells[k]; !ok {
		return false
	}
	delete(g.cells, k)
	if i := slices.Index(g.order, k); i >= 0 {
		g.order = slices.Delete(g.order, i, i+1)
	}
	return true
}

// Get returns the cell at (x, y, z).
func (g *Grid) Get(x, y, z int) (Cell, bool) {
	c, ok := g.cells[Key{X: x, Y: y, Z: z}]
	return c, ok
}

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Cells returns every cell in insertion order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.cells[k])
	}
	return out
}

// Layer returns the cells on layer z in insertion order.
func (g *Grid) Layer(z int) []Cell {
	var out []Cell
	for _, k := range g.order {
		if k.Z == z {
			out = append(out, g.cells[k])
		}
	}
	return out
}

// Layers returns the distinct occupied z values in ascending order.
func (g *Grid) Layers() []int {
	seen := map[int]bool{}
	var zs []int
	for _, k := range g.order {
		if !seen[k.Z] {
			seen[k.Z] = true
			zs = append(zs, k.Z)
		}
	}
	sort.Ints(zs)
	return zs
}

// BoundingBox returns the inclusive (x, y) extent of all cells across every
// layer. ok is false for an empty grid.
func (g *Grid) BoundingBox() (box Box, ok bool) {
	for i, k := range g.order {
		if i == 0 {
			box = Box{MinX: k.X, MinY: k.Y, MaxX: k.X, MaxY: k.Y}
			continue
		}
		box.MinX = min(box.MinX, k.X)
		box.MinY = min(box.MinY, k.Y)
		box.MaxX = max(box.MaxX, k.X)
		box.MaxY = max(box.MaxY, k.Y)
	}
	return box, len(g.order) > 0
}

// ElectrodesByID returns the electrode cells in ascending id order.
func (g *Grid) ElectrodesByID() []Cell {
	var out []Cell
	for _, k := range g.order {
		if c := g.cells[k]; c.kind == KindElectrode {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b Cell) int { return cmp.Compare(a.electrodeID, b.electrodeID) })
	return out
}

// Others returns the non-electrode cells in insertion order.
func (g *Grid) Others() []Cell {
	var out []Cell
	for _, k := range g.order {
		if c := g.cells[k]; c.kind != KindElectrode {
			out = append(out, c)
		}
	}
	return out
}

// Clear removes every cell. Document fields and the id counter are kept.
func (g *Grid) Clear() {
	clear(g.cells)
	g.order = g.order[:0]
}
