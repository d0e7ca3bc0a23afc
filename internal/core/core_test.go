package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodesRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.Code())
		require.True(t, ok, "kind %s", k)
		assert.Equal(t, k, got)
	}
	for _, c := range Clocks {
		got, ok := ParseClock(c.Code())
		require.True(t, ok, "clock %s", c)
		assert.Equal(t, c, got)
	}
	for _, v := range Values {
		got, ok := ParseValue(v.Code())
		require.True(t, ok, "value %s", v)
		assert.Equal(t, v, got)
	}
	_, ok := ParseKind("X")
	assert.False(t, ok)
	_, ok = ParseClock("s")
	assert.False(t, ok)
	_, ok = ParseValue("")
	assert.False(t, ok)
}

func TestInvalidEnumCodePanics(t *testing.T) {
	assert.Panics(t, func() { _ = Kind(9).Code() })
	assert.Panics(t, func() { _ = Clock(9).Code() })
	assert.Panics(t, func() { _ = Value(9).Code() })
}

func TestFactoryAssignsElectrodeIDsInOrder(t *testing.T) {
	f := NewFactory()
	a := f.New(0, 0, 0, KindElectrode, ClockSwitch, ValueA)
	b := f.New(1, 0, 0, KindInternal, ClockSwitch, ValueNone)
	c := f.New(2, 0, 0, KindElectrode, ClockHold, ValueB)

	id, ok := a.ElectrodeID()
	require.True(t, ok)
	assert.Equal(t, 0, id)

	_, ok = b.ElectrodeID()
	assert.False(t, ok, "non-electrodes carry no id")

	id, ok = c.ElectrodeID()
	require.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, 2, f.Next())
}

func TestFactoriesAreIndependent(t *testing.T) {
	f1, f2 := NewFactory(), NewFactory()
	f1.New(0, 0, 0, KindElectrode, ClockSwitch, ValueA)
	c := f2.New(0, 0, 0, KindElectrode, ClockSwitch, ValueA)
	id, _ := c.ElectrodeID()
	assert.Equal(t, 0, id)
}

func TestCellLine(t *testing.T) {
	f := NewFactory()
	c := f.New(-3, 4, 1, KindOutput, ClockRelax, ValueD)
	assert.Equal(t, "T O -3 4 1 L D", c.Line())

	e := f.New(0, 0, 0, KindElectrode, ClockSwitch, ValueA)
	assert.Equal(t, "T E 0 0 0 S A", e.Line())
}

func TestParseLine(t *testing.T) {
	f := NewFactory()
	c, err := f.ParseLine("  T   D 5 -6 2 H C ")
	require.NoError(t, err)
	assert.Equal(t, Key{X: 5, Y: -6, Z: 2}, c.Key())
	assert.Equal(t, KindDriver, c.Kind())
	assert.Equal(t, ClockHold, c.Clock())
	assert.Equal(t, ValueC, c.Value())
	assert.Equal(t, "T D 5 -6 2 H C", c.Line())
}

func TestParseLineRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"too few":     "T E 0 0 0 S",
		"too many":    "T E 0 0 0 S A extra",
		"empty":       "",
		"bad prefix":  "X E 0 0 0 S A",
		"bad kind":    "T Q 0 0 0 S A",
		"bad x":       "T E zero 0 0 S A",
		"bad z":       "T E 0 0 1.5 S A",
		"bad clock":   "T E 0 0 0 Z A",
		"bad value":   "T E 0 0 0 S Z",
		"lower codes": "T e 0 0 0 s a",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			f := NewFactory()
			_, err := f.ParseLine(line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedCellLine), "got %v", err)
			assert.Equal(t, 0, f.Next(), "failed parse must not consume an id")
		})
	}
}

func TestGridPutReplacesInPlace(t *testing.T) {
	g := NewGrid()
	g.Place(0, 0, 0, KindInternal, ClockSwitch, ValueNone)
	g.Place(1, 0, 0, KindDriver, ClockSwitch, ValueA)
	g.Place(0, 0, 0, KindOutput, ClockHold, ValueB)

	require.Equal(t, 2, g.Len())
	cells := g.Cells()
	assert.Equal(t, KindOutput, cells[0].Kind(), "replacement keeps the earlier slot")
	assert.Equal(t, KindDriver, cells[1].Kind())

	got, ok := g.Get(0, 0, 0)
	require.True(t, ok)
	assert.Equal(t, ClockHold, got.Clock())
}

func TestGridPutRefusesForeignCells(t *testing.T) {
	g := NewGrid()
	e := g.Place(0, 0, 0, KindElectrode, ClockSwitch, ValueA)

	assert.ErrorIs(t, g.Put(Cell{}), ErrForeignCell, "zero cell has no factory")
	_, ok := Cell{}.ElectrodeID()
	assert.False(t, ok)

	other := NewGrid()
	foreign := other.Place(1, 0, 0, KindElectrode, ClockSwitch, ValueA)
	assert.ErrorIs(t, g.Put(foreign), ErrForeignCell)
	assert.ErrorIs(t, g.Put(NewFactory().New(2, 0, 0, KindElectrode, ClockSwitch, ValueA)), ErrForeignCell)
	assert.Equal(t, 1, g.Len())

	require.NoError(t, g.Put(e), "re-putting an own cell is allowed")
	c, err := g.Factory().ParseLine("T E 3 0 0 S A")
	require.NoError(t, err)
	require.NoError(t, g.Put(c))

	var ids []int
	for _, cell := range g.ElectrodesByID() {
		id, ok := cell.ElectrodeID()
		require.True(t, ok)
		ids = append(ids, id)
	}
	assert.Equal(t, []int{0, 1}, ids)
}

func TestElectrodeIDFollowsKind(t *testing.T) {
	f := NewFactory()
	for _, k := range Kinds {
		c := f.New(0, 0, 0, k, ClockSwitch, ValueNone)
		_, ok := c.ElectrodeID()
		assert.Equal(t, k == KindElectrode, ok, "kind %s", k)
		assert.Equal(t, k, c.Kind())
	}
}

func TestGridRemove(t *testing.T) {
	g := NewGrid()
	g.Place(0, 0, 0, KindInternal, ClockSwitch, ValueNone)
	g.Place(0, 0, 1, KindInternal, ClockSwitch, ValueNone)

	assert.True(t, g.Remove(0, 0, 0))
	assert.False(t, g.Remove(0, 0, 0))
	assert.False(t, g.Remove(9, 9, 9))
	assert.Equal(t, 1, g.Len())
	_, ok := g.Get(0, 0, 1)
	assert.True(t, ok)
	for _, c := range g.Cells() {
		assert.Equal(t, c.Key(), Key{X: 0, Y: 0, Z: 1})
	}
}

func TestGridBoundingBox(t *testing.T) {
	g := NewGrid()
	_, ok := g.BoundingBox()
	assert.False(t, ok)

	g.Place(2, -1, 0, KindInternal, ClockSwitch, ValueNone)
	box, ok := g.BoundingBox()
	require.True(t, ok)
	assert.Equal(t, Box{MinX: 2, MinY: -1, MaxX: 2, MaxY: -1}, box)

	g.Place(-4, 3, 2, KindInternal, ClockSwitch, ValueNone)
	g.Place(0, 7, 1, KindInternal, ClockSwitch, ValueNone)
	box, ok = g.BoundingBox()
	require.True(t, ok)
	assert.Equal(t, Box{MinX: -4, MinY: -1, MaxX: 2, MaxY: 7}, box)
	assert.Equal(t, 7, box.Width())
	assert.Equal(t, 9, box.Height())
}

func TestGridElectrodesByIDAndOthers(t *testing.T) {
	g := NewGrid()
	g.Place(5, 0, 0, KindElectrode, ClockSwitch, ValueA)
	g.Place(1, 1, 0, KindInternal, ClockSwitch, ValueNone)
	g.Place(3, 0, 0, KindElectrode, ClockHold, ValueB)
	g.Place(2, 2, 0, KindOutput, ClockRelax, ValueNone)
	// Replacing the first electrode gives it a newer id.
	g.Place(5, 0, 0, KindElectrode, ClockRelease, ValueC)

	electrodes := g.ElectrodesByID()
	require.Len(t, electrodes, 2)
	assert.Equal(t, Key{X: 3}, electrodes[0].Key())
	assert.Equal(t, Key{X: 5}, electrodes[1].Key())
	id0, _ := electrodes[0].ElectrodeID()
	id1, _ := electrodes[1].ElectrodeID()
	assert.Equal(t, 1, id0)
	assert.Equal(t, 2, id1)

	others := g.Others()
	require.Len(t, others, 2)
	assert.Equal(t, KindInternal, others[0].Kind())
	assert.Equal(t, KindOutput, others[1].Kind())
}

func TestGridLayers(t *testing.T) {
	g := NewGrid()
	g.Place(0, 0, 2, KindInternal, ClockSwitch, ValueNone)
	g.Place(1, 0, 0, KindInternal, ClockSwitch, ValueNone)
	g.Place(2, 0, 2, KindInternal, ClockSwitch, ValueNone)

	assert.Equal(t, []int{0, 2}, g.Layers())
	assert.Len(t, g.Layer(2), 2)
	assert.Empty(t, g.Layer(1))

	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Layers())
}

func TestSimParams(t *testing.T) {
	var p SimParams
	p.FromMap(map[string]string{"eps": "0.001", "max_steps": "100", "bogus": "x"})
	assert.Equal(t, "0.001", p.Get(ParamEps))
	assert.Equal(t, "100", p.Get(ParamMaxSteps))
	assert.Equal(t, "", p.Get(ParamCycles))

	p.Set(ParamCycles, " 4 ")
	m := p.Map()
	assert.Equal(t, " 4 ", m["cycles"])
	assert.Len(t, m, len(SimParamOrder))
	for _, sp := range SimParamOrder {
		assert.NotEmpty(t, sp.Label())
		parsed, ok := ParseSimParam(sp.Key())
		assert.True(t, ok)
		assert.Equal(t, sp, parsed)
	}
	_, ok := ParseSimParam("speed")
	assert.False(t, ok)
}

func TestThrottle(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	th := NewThrottle(time.Second)

	assert.False(t, th.Ready(base), "first call only arms")
	assert.False(t, th.Ready(base.Add(500*time.Millisecond)))
	assert.True(t, th.Ready(base.Add(time.Second)))
	assert.False(t, th.Ready(base.Add(1500*time.Millisecond)))
	assert.True(t, th.Ready(base.Add(2*time.Second)))

	off := NewThrottle(0)
	off.Ready(base)
	assert.False(t, off.Ready(base.Add(time.Hour)))
}
