package editor

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"qdcad/internal/core"
	"qdcad/internal/qdstruct"
	"qdcad/internal/render"
)

// DefaultLayers is the number of layers a layout can use.
const DefaultLayers = 3

// ErrNoPath is returned by Save when the document has never been named.
var ErrNoPath = errors.New("editor: document has no file name")

// ErrDirty is returned when an external reload would discard unsaved edits.
var ErrDirty = errors.New("editor: document has unsaved changes")

// Button identifies the pointer button of a gesture.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Tool is the cell template placed by a primary click.
type Tool struct {
	Kind  core.Kind
	Clock core.Clock
	Value core.Value
}

// DefaultTool matches the initial palette selection: an internal cell on the
// switch phase with no value.
func DefaultTool() Tool {
	return Tool{Kind: core.KindInternal, Clock: core.ClockSwitch, Value: core.ValueNone}
}

// Options configures a Session.
type Options struct {
	CellSize         int
	Layers           int
	AutosaveInterval time.Duration
	Logger           *slog.Logger
}

// Session is the editing state behind a window: the open document, the
// active tool and layer, and the view transform used for hit-testing.
// A Session is not safe for concurrent use.
type Session struct {
	grid   *core.Grid
	path   string
	dirty  bool
	tool   Tool
	layer  int
	layers int
	mapper render.Mapper

	pressX, pressY float64
	pressOffset    render.Offset
	pressed        bool
	dragged        bool

	autosave *core.Throttle
	log      *slog.Logger
}

// New returns a session editing grid. A nil grid starts an empty document
// with the default fields.
func New(grid *core.Grid, opts Options) *Session {
	if grid == nil {
		grid = core.NewDocument()
	}
	if opts.Layers <= 0 {
		opts.Layers = DefaultLayers
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		grid:     grid,
		tool:     DefaultTool(),
		layers:   opts.Layers,
		mapper:   render.NewMapper(opts.CellSize),
		autosave: core.NewThrottle(opts.AutosaveInterval),
		log:      logger,
	}
}

// Grid returns the open document.
func (s *Session) Grid() *core.Grid { return s.grid }

// Path returns the file the document was loaded from or last saved to.
func (s *Session) Path() string { return s.path }

// Dirty reports whether the document has unsaved edits.
func (s *Session) Dirty() bool { return s.dirty }

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SetTool replaces the active tool.
func (s *Session) SetTool(t Tool) { s.tool = t }

// SetKind changes the kind of the active tool.
func (s *Session) SetKind(k core.Kind) { s.tool.Kind = k }

// SetClock changes the clock of the active tool.
func (s *Session) SetClock(c core.Clock) { s.tool.Clock = c }

// SetValue changes the value of the active tool.
func (s *Session) SetValue(v core.Value) { s.tool.Value = v }

// Layer returns the active layer.
func (s *Session) Layer() int { return s.layer }

// Layers returns the number of editable layers.
func (s *Session) Layers() int { return s.layers }

// SetLayer selects layer z, clamped to the editable range.
func (s *Session) SetLayer(z int) {
	s.layer = min(max(z, 0), s.layers-1)
}

// Mapper returns the current view transform.
func (s *Session) Mapper() render.Mapper { return s.mapper }

// SetArchitecture updates the opaque architecture field. Surrounding
// whitespace is dropped; values a reader would skip are refused.
func (s *Session) SetArchitecture(arch string) error {
	arch = strings.TrimSpace(arch)
	if err := core.CheckField(arch); err != nil {
		return fmt.Errorf("architecture: %w", err)
	}
	if s.grid.Architecture == arch {
		return nil
	}
	s.grid.Architecture = arch
	s.dirty = true
	return nil
}

// SetParam updates one opaque simulator parameter under the same rules as
// SetArchitecture.
func (s *Session) SetParam(p core.SimParam, v string) error {
	v = strings.TrimSpace(v)
	if err := core.CheckField(v); err != nil {
		return fmt.Errorf("%s: %w", p.Key(), err)
	}
	if s.grid.Params.Get(p) == v {
		return nil
	}
	s.grid.Params.Set(p, v)
	s.dirty = true
	return nil
}

// SetInputText replaces the input block from free-form text, one input per
// line. Lines are trimmed and blank ones dropped. A line starting with '%'
// is refused and the block is left unchanged.
func (s *Session) SetInputText(text string) error {
	var inputs []string
	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := core.CheckField(line); err != nil {
			return fmt.Errorf("input line %d: %w", i+1, err)
		}
		inputs = append(inputs, line)
	}
	if slices.Equal(s.grid.Inputs, inputs) {
		return nil
	}
	s.grid.Inputs = inputs
	s.dirty = true
	return nil
}

// InputText returns the input block as newline-terminated text.
func (s *Session) InputText() string {
	var b strings.Builder
	for _, in := range s.grid.Inputs {
		b.WriteString(in)
		b.WriteByte('\n')
	}
	return b.String()
}

// Place puts a cell built from the active tool at grid (gx, gy) on the
// active layer.
func (s *Session) Place(gx, gy int) core.Cell {
	c := s.grid.Place(gx, gy, s.layer, s.tool.Kind, s.tool.Clock, s.tool.Value)
	s.dirty = true
	return c
}

// Erase removes the cell at grid (gx, gy) on the active layer.
func (s *Session) Erase(gx, gy int) bool {
	if !s.grid.Remove(gx, gy, s.layer) {
		return false
	}
	s.dirty = true
	return true
}

// Press records the start of a primary gesture at screen (px, py).
func (s *Session) Press(px, py float64) {
	s.pressX, s.pressY = px, py
	s.pressOffset = s.mapper.Offset
	s.pressed = true
	s.dragged = false
}

// Drag pans the view while the primary button is held. The offset follows
// the pointer relative to where it was pressed.
func (s *Session) Drag(px, py float64) {
	if !s.pressed {
		return
	}
	if px == s.pressX && py == s.pressY && !s.dragged {
		return
	}
	s.dragged = true
	s.mapper.Offset = render.Offset{
		DX: s.pressOffset.DX + (px - s.pressX),
		DY: s.pressOffset.DY + (py - s.pressY),
	}
}

// Release ends a gesture. A primary release that did not drag places a
// cell; a secondary release erases. It reports whether the document
// changed.
func (s *Session) Release(b Button, px, py float64) bool {
	gx, gy := s.mapper.ToGrid(px, py)
	switch b {
	case ButtonSecondary:
		return s.Erase(gx, gy)
	case ButtonPrimary:
		placed := s.pressed && !s.dragged
		s.pressed = false
		s.dragged = false
		if placed {
			s.Place(gx, gy)
		}
		return placed
	}
	return false
}

// Hover returns the grid cell under screen (px, py) on the active layer.
func (s *Session) Hover(px, py float64) (gx, gy int, cell core.Cell, ok bool) {
	gx, gy = s.mapper.ToGrid(px, py)
	cell, ok = s.grid.Get(gx, gy, s.layer)
	return gx, gy, cell, ok
}

// Load replaces the document with the one stored at path. On failure the
// current document is left untouched.
func (s *Session) Load(path string) error {
	g, err := qdstruct.LoadFile(path)
	if err != nil {
		s.log.Warn("load failed", "path", path, "err", err)
		return err
	}
	s.grid = g
	s.path = path
	s.dirty = false
	s.log.Info("document loaded", "path", path, "cells", g.Len(), "electrodes", len(g.ElectrodesByID()))
	return nil
}

// Reload re-reads the current file unless there are unsaved edits. A file
// whose contents match the open document, such as one just written by Save,
// is left alone. It reports whether the document was replaced.
func (s *Session) Reload() (bool, error) {
	if s.path == "" {
		return false, ErrNoPath
	}
	if s.dirty {
		s.log.Warn("reload skipped", "path", s.path, "err", ErrDirty)
		return false, ErrDirty
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false, fmt.Errorf("reload %s: %w", s.path, err)
	}
	if bytes.Equal(data, qdstruct.Encode(s.grid)) {
		return false, nil
	}
	g, err := qdstruct.Decode(data)
	if err != nil {
		s.log.Warn("reload failed", "path", s.path, "err", err)
		return false, fmt.Errorf("reload %s: %w", s.path, err)
	}
	s.grid = g
	s.log.Info("document reloaded", "path", s.path, "cells", g.Len())
	return true, nil
}

// Save writes the document to its current path.
func (s *Session) Save() error {
	if s.path == "" {
		return ErrNoPath
	}
	return s.SaveAs(s.path)
}

// SaveAs writes the document to path, adding the qdStruct extension when
// missing, and makes that the current path.
func (s *Session) SaveAs(path string) error {
	path = qdstruct.EnsureExt(path)
	if err := qdstruct.SaveFile(path, s.grid); err != nil {
		s.log.Error("save failed", "path", path, "err", err)
		return err
	}
	s.path = path
	s.dirty = false
	s.log.Info("document saved", "path", path, "cells", s.grid.Len())
	return nil
}

// Autosave saves the document when it is dirty, has a path and the
// autosave interval has elapsed. It reports whether a save happened.
func (s *Session) Autosave(now time.Time) (bool, error) {
	if !s.autosave.Ready(now) || !s.dirty || s.path == "" {
		return false, nil
	}
	if err := s.Save(); err != nil {
		return false, err
	}
	return true, nil
}
