package ui

import (
	"fmt"
	"image"
	"strings"

	"qdcad/internal/core"
	"qdcad/internal/editor"
)

type fieldKind int

const (
	fieldArchitecture fieldKind = iota
	fieldParam
	fieldInputs
)

// docField is a clickable row of the panel showing one document field.
type docField struct {
	rect  image.Rectangle
	kind  fieldKind
	param core.SimParam
}

func (f docField) label() string {
	switch f.kind {
	case fieldArchitecture:
		return "Architecture"
	case fieldParam:
		return f.param.Label()
	default:
		return "Inputs"
	}
}

// summary is the text shown in the value column when the field is not being
// edited.
func (f docField) summary(g *core.Grid) string {
	switch f.kind {
	case fieldArchitecture:
		return g.Architecture
	case fieldParam:
		return g.Params.Get(f.param)
	default:
		return fmt.Sprint(len(g.Inputs))
	}
}

func (f docField) multiline() bool { return f.kind == fieldInputs }

// fieldRows lays out one row per document field starting at top: the
// architecture, the simulator parameters in file order, then the inputs.
func fieldRows(top, width int) []docField {
	var rows []docField
	add := func(f docField) {
		y := top + len(rows)*lineHeight
		f.rect = image.Rect(panelPadding, y, max(width-panelPadding, panelPadding), y+lineHeight)
		rows = append(rows, f)
	}
	add(docField{kind: fieldArchitecture})
	for _, p := range core.SimParamOrder {
		add(docField{kind: fieldParam, param: p})
	}
	add(docField{kind: fieldInputs})
	return rows
}

func fieldAt(rows []docField, x, y int) (docField, bool) {
	for _, f := range rows {
		if pointInRect(x, y, f.rect) {
			return f, true
		}
	}
	return docField{}, false
}

// fieldEditor holds the text of the field being edited. Nothing reaches the
// session until commit succeeds.
type fieldEditor struct {
	field  docField
	buf    []rune
	active bool
}

func (e *fieldEditor) begin(f docField, s *editor.Session) {
	e.field = f
	e.active = true
	switch f.kind {
	case fieldInputs:
		e.buf = []rune(strings.TrimSuffix(s.InputText(), "\n"))
	default:
		e.buf = []rune(f.summary(s.Grid()))
	}
}

func (e *fieldEditor) editing(f docField) bool {
	return e.active && e.field.kind == f.kind && e.field.param == f.param
}

// insert appends typed characters. Control characters are dropped.
func (e *fieldEditor) insert(rs []rune) {
	if !e.active {
		return
	}
	for _, r := range rs {
		if r < ' ' || r == 0x7f {
			continue
		}
		e.buf = append(e.buf, r)
	}
}

// newline starts a new line in a multi-line field. It reports false for
// single-line fields, where Enter commits instead.
func (e *fieldEditor) newline() bool {
	if !e.active || !e.field.multiline() {
		return false
	}
	e.buf = append(e.buf, '\n')
	return true
}

func (e *fieldEditor) backspace() {
	if e.active && len(e.buf) > 0 {
		e.buf = e.buf[:len(e.buf)-1]
	}
}

func (e *fieldEditor) text() string { return string(e.buf) }

// commit stores the buffer in the session. On error the editor stays open
// with the rejected text so it can be corrected.
func (e *fieldEditor) commit(s *editor.Session) error {
	if !e.active {
		return nil
	}
	var err error
	switch e.field.kind {
	case fieldArchitecture:
		err = s.SetArchitecture(e.text())
	case fieldParam:
		err = s.SetParam(e.field.param, e.text())
	case fieldInputs:
		err = s.SetInputText(e.text())
	}
	if err != nil {
		return err
	}
	e.cancel()
	return nil
}

func (e *fieldEditor) cancel() {
	e.active = false
	e.buf = nil
}
