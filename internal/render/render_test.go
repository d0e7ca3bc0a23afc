package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qdcad/internal/core"
)

func TestMapperInverseLaw(t *testing.T) {
	offsets := []Offset{{}, {DX: 25, DY: 25}, {DX: -137.5, DY: 12.25}, {DX: 1e4 + 0.1, DY: -3.3}}
	for _, size := range []int{1, 2, 7, 50, 64} {
		for _, off := range offsets {
			m := Mapper{Offset: off, CellSize: size}
			for gx := -40; gx <= 40; gx += 3 {
				for gy := -40; gy <= 40; gy += 7 {
					px, py := m.ToPresentation(gx, gy)
					x, y := m.ToGrid(px, py)
					require.Equal(t, [2]int{gx, gy}, [2]int{x, y}, "size=%d offset=%+v", size, off)
				}
			}
		}
	}
}

func TestMapperFloorsNegativeCoordinates(t *testing.T) {
	m := Mapper{CellSize: 50}
	cases := []struct {
		px, py float64
		gx, gy int
	}{
		{0, 0, 0, 0},
		{24.9, 24.9, 0, 0},
		{25, 25, 1, 1},
		{-25, -25, 0, 0},
		{-25.1, -25.1, -1, -1},
		{-75, 10, -1, 0},
		{-75.5, 10, -2, 0},
	}
	for _, tc := range cases {
		gx, gy := m.ToGrid(tc.px, tc.py)
		assert.Equal(t, tc.gx, gx, "px=%v", tc.px)
		assert.Equal(t, tc.gy, gy, "py=%v", tc.py)
	}
}

func TestMapperOddCellSizeUsesWholeHalf(t *testing.T) {
	m := Mapper{CellSize: 51}
	cases := []struct {
		px float64
		gx int
	}{
		{-25, 0},
		{-25.2, -1},
		{25.9, 0},
		{26, 1},
		{76.9, 1},
		{77, 2},
	}
	for _, tc := range cases {
		gx, gy := m.ToGrid(tc.px, 0)
		assert.Equal(t, tc.gx, gx, "px=%v", tc.px)
		assert.Equal(t, 0, gy)
	}

	n := NewMapper(51)
	assert.Equal(t, Offset{DX: 25, DY: 25}, n.Offset)
	gx, gy := n.ToGrid(0, 0)
	assert.Equal(t, 0, gx)
	assert.Equal(t, 0, gy)
	gx, _ = n.ToGrid(-0.5, 0)
	assert.Equal(t, -1, gx)
}

func TestNewMapperAndPan(t *testing.T) {
	m := NewMapper(0)
	assert.Equal(t, DefaultCellSize, m.CellSize)
	assert.Equal(t, Offset{DX: 25, DY: 25}, m.Offset)

	px, py := m.ToPresentation(0, 0)
	assert.Equal(t, 25.0, px)
	assert.Equal(t, 25.0, py)

	m.Pan(100, -50)
	gx, gy := m.ToGrid(125, -25)
	assert.Equal(t, 0, gx)
	assert.Equal(t, 0, gy)

	minX, minY, maxX, maxY := m.Visible(200, 100)
	assert.Equal(t, -2, minX)
	assert.Equal(t, 1, minY)
	assert.Equal(t, 2, maxX)
	assert.Equal(t, 3, maxY)
}

func TestPaletteCoversEveryCode(t *testing.T) {
	for _, c := range core.Clocks {
		assert.Equal(t, uint8(255), ClockColor(c).A)
	}
	for _, k := range core.Kinds {
		assert.Equal(t, uint8(255), KindColor(k).A)
	}
	assert.NotEqual(t, ClockColor(core.ClockSwitch), ClockColor(core.ClockHold))
	assert.Panics(t, func() { ClockColor(core.Clock(99)) })
	assert.Panics(t, func() { KindColor(core.Kind(99)) })
}

func TestValueDots(t *testing.T) {
	_, ok := ValueAngle(core.ValueNone)
	assert.False(t, ok)
	dots := ValueDots(core.ValueNone, DefaultCellSize)
	require.Len(t, dots, 1)
	assert.Equal(t, Dot{R: 3}, dots[0])

	angle, ok := ValueAngle(core.ValueD)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, angle, 1e-12)

	dots = ValueDots(core.ValueC, 100)
	require.Len(t, dots, 2)
	assert.InDelta(t, 20, dots[0].X, 1e-9)
	assert.InDelta(t, -20, dots[1].X, 1e-9)
	assert.InDelta(t, 10, dots[0].R, 1e-9)
}

func TestSwatch(t *testing.T) {
	assert.Nil(t, Swatch(core.KindDriver, core.ClockHold, 0))

	buf := Swatch(core.KindElectrode, core.ClockSwitch, 16)
	require.Len(t, buf, 16*16*4)
	edge := KindColor(core.KindElectrode)
	fill := ClockColor(core.ClockSwitch)
	assert.Equal(t, []byte{edge.R, edge.G, edge.B, edge.A}, buf[0:4])
	centre := (8*16 + 8) * 4
	assert.Equal(t, []byte{fill.R, fill.G, fill.B, fill.A}, buf[centre:centre+4])
}
