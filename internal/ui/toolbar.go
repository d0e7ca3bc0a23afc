package ui

import (
	"image"

	"qdcad/internal/core"
	"qdcad/internal/editor"
)

const (
	panelPadding   = 12
	headerBaseline = 14
	lineHeight     = 18
	buttonSize     = 22
	buttonGap      = 6
	rowLabelWidth  = 52
	swatchSize     = 24
)

type buttonGroup int

const (
	groupKind buttonGroup = iota
	groupClock
	groupValue
)

func (g buttonGroup) label() string {
	switch g {
	case groupKind:
		return "Kind"
	case groupClock:
		return "Clock"
	default:
		return "Value"
	}
}

// toolButton selects one component of the active tool.
type toolButton struct {
	rect  image.Rectangle
	label string
	group buttonGroup
	kind  core.Kind
	clock core.Clock
	value core.Value
}

func (b toolButton) apply(s *editor.Session) {
	switch b.group {
	case groupKind:
		s.SetKind(b.kind)
	case groupClock:
		s.SetClock(b.clock)
	case groupValue:
		s.SetValue(b.value)
	}
}

func (b toolButton) active(t editor.Tool) bool {
	switch b.group {
	case groupKind:
		return t.Kind == b.kind
	case groupClock:
		return t.Clock == b.clock
	default:
		return t.Value == b.value
	}
}

// toolbar is the grid of tool buttons in panel coordinates.
type toolbar struct {
	buttons []toolButton
	rows    []int
	bottom  int
}

func newToolbar(top int) toolbar {
	var tb toolbar
	row := func(g buttonGroup, n int, fill func(i int, b *toolButton)) {
		y := top + len(tb.rows)*(buttonSize+buttonGap)
		tb.rows = append(tb.rows, y)
		for i := 0; i < n; i++ {
			x := panelPadding + rowLabelWidth + i*(buttonSize+buttonGap)
			b := toolButton{rect: image.Rect(x, y, x+buttonSize, y+buttonSize), group: g}
			fill(i, &b)
			tb.buttons = append(tb.buttons, b)
		}
		tb.bottom = y + buttonSize
	}
	row(groupKind, len(core.Kinds), func(i int, b *toolButton) {
		b.kind = core.Kinds[i]
		b.label = b.kind.Code()
	})
	row(groupClock, len(core.Clocks), func(i int, b *toolButton) {
		b.clock = core.Clocks[i]
		b.label = b.clock.Code()
	})
	row(groupValue, len(core.Values), func(i int, b *toolButton) {
		b.value = core.Values[i]
		b.label = b.value.Code()
	})
	return tb
}

// click applies the button under panel position (x, y), if any.
func (tb toolbar) click(s *editor.Session, x, y int) bool {
	for _, b := range tb.buttons {
		if pointInRect(x, y, b.rect) {
			b.apply(s)
			return true
		}
	}
	return false
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
