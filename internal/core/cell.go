package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedCellLine reports a cell line that does not follow the
// "T kind x y z clock value" layout.
var ErrMalformedCellLine = errors.New("malformed cell line")

// Cell is one classified, clocked and valued grid site. Cells are built by a
// Factory and are immutable; edits replace them. A cell remembers the
// factory that built it so a Grid only stores cells numbered by its own
// counter.
type Cell struct {
	x, y, z int
	kind    Kind
	clock   Clock
	value   Value

	electrodeID int
	factory     *Factory
}

// X returns the column.
func (c Cell) X() int { return c.x }

// Y returns the row.
func (c Cell) Y() int { return c.y }

// Z returns the layer.
func (c Cell) Z() int { return c.z }

// Kind returns the cell kind.
func (c Cell) Kind() Kind { return c.kind }

// Clock returns the clock phase.
func (c Cell) Clock() Clock { return c.clock }

// Value returns the logical value.
func (c Cell) Value() Value { return c.value }

// Key returns the grid key of the cell.
func (c Cell) Key() Key { return Key{X: c.x, Y: c.y, Z: c.z} }

// ElectrodeID returns the electrode id. ok is false for non-electrode cells.
func (c Cell) ElectrodeID() (id int, ok bool) {
	if c.kind != KindElectrode || c.factory == nil {
		return 0, false
	}
	return c.electrodeID, true
}

// Line encodes the cell as a qdStruct cell line. The electrode id is not part
// of the encoding.
func (c Cell) Line() string {
	return fmt.Sprintf("T %s %d %d %d %s %s", c.kind.Code(), c.x, c.y, c.z, c.clock.Code(), c.value.Code())
}

func (c Cell) String() string {
	if id, ok := c.ElectrodeID(); ok {
		return fmt.Sprintf("%s#%d@%s[%s/%s]", c.kind, id, c.Key(), c.clock, c.value)
	}
	return fmt.Sprintf("%s@%s[%s/%s]", c.kind, c.Key(), c.clock, c.value)
}

// Factory constructs cells and hands out electrode ids in construction order.
// Each Grid owns one; a Factory is not safe for concurrent use.
type Factory struct {
	next int
}

// NewFactory returns a factory whose first electrode gets id 0.
func NewFactory() *Factory { return &Factory{} }

// Next reports the id the next electrode will receive.
func (f *Factory) Next() int { return f.next }

// New constructs a cell. Electrode cells consume the next id.
func (f *Factory) New(x, y, z int, kind Kind, clock Clock, value Value) Cell {
	c := Cell{x: x, y: y, z: z, kind: kind, clock: clock, value: value, factory: f}
	if kind == KindElectrode {
		c.electrodeID = f.next
		f.next++
	}
	return c
}

// ParseLine decodes a qdStruct cell line. The id counter is only advanced
// when the whole line parses.
func (f *Factory) ParseLine(line string) (Cell, error) {
	fields := strings.Fields(line)
	if len(fields) != 7 {
		return Cell{}, fmt.Errorf("%w: want 7 fields, got %d", ErrMalformedCellLine, len(fields))
	}
	if fields[0] != "T" {
		return Cell{}, fmt.Errorf("%w: leading token %q, want \"T\"", ErrMalformedCellLine, fields[0])
	}
	kind, ok := ParseKind(fields[1])
	if !ok {
		return Cell{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedCellLine, fields[1])
	}
	var coords [3]int
	for i := range coords {
		n, err := strconv.Atoi(fields[2+i])
		if err != nil {
			return Cell{}, fmt.Errorf("%w: coordinate %q", ErrMalformedCellLine, fields[2+i])
		}
		coords[i] = n
	}
	clock, ok := ParseClock(fields[5])
	if !ok {
		return Cell{}, fmt.Errorf("%w: unknown clock %q", ErrMalformedCellLine, fields[5])
	}
	value, ok := ParseValue(fields[6])
	if !ok {
		return Cell{}, fmt.Errorf("%w: unknown value %q", ErrMalformedCellLine, fields[6])
	}
	return f.New(coords[0], coords[1], coords[2], kind, clock, value), nil
}
