//go:build ebiten

package app

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"qdcad/internal/core"
	"qdcad/internal/editor"
	"qdcad/internal/render"
	"qdcad/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var kindKeys = map[ebiten.Key]core.Kind{
	ebiten.KeyI: core.KindInternal,
	ebiten.KeyD: core.KindDriver,
	ebiten.KeyE: core.KindElectrode,
	ebiten.KeyO: core.KindOutput,
}

// Clock keys apply while shift is held.
var clockKeys = map[ebiten.Key]core.Clock{
	ebiten.KeyU: core.ClockUndefined,
	ebiten.KeyS: core.ClockSwitch,
	ebiten.KeyH: core.ClockHold,
	ebiten.KeyR: core.ClockRelease,
	ebiten.KeyL: core.ClockRelax,
}

var valueKeys = map[ebiten.Key]core.Value{
	ebiten.KeyDigit0: core.ValueNone,
	ebiten.KeyDigit1: core.ValueA,
	ebiten.KeyDigit2: core.ValueB,
	ebiten.KeyDigit3: core.ValueC,
	ebiten.KeyDigit4: core.ValueD,
}

// Options configures a Game.
type Options struct {
	PanelWidth int
	// Changes delivers paths reported by a file watcher. It is drained on
	// the game loop so the document is only replaced between frames.
	Changes <-chan string
	Logger  *slog.Logger
}

// Game adapts an editor session to the ebiten.Game interface.
type Game struct {
	session *editor.Session
	painter *render.Painter
	hud     *ui.HUD
	changes <-chan string
	log     *slog.Logger

	width, height int
	pressed       bool
	hover         image.Point
	hoverOK       bool
}

// New constructs a Game for the provided session.
func New(s *editor.Session, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		session: s,
		painter: render.NewPainter(),
		hud:     ui.NewHUD(s, opts.PanelWidth),
		changes: opts.Changes,
		log:     logger,
	}
}

// Update handles per-frame input, external reloads and autosave. While a
// panel field is being edited the keyboard goes to the panel and shortcuts
// are suspended.
func (g *Game) Update() error {
	if g.hud.Editing() {
		g.hud.UpdateEditing()
	} else {
		if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			return ebiten.Termination
		}
		g.handleKeys()
	}
	g.handleMouse()
	g.drainChanges()

	saved, err := g.session.Autosave(time.Now())
	switch {
	case err != nil:
		g.hud.SetStatus("autosave failed")
	case saved:
		g.hud.SetStatus("autosaved " + time.Now().Format("15:04:05"))
	}
	return nil
}

func (g *Game) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	if ctrl {
		if inpututil.IsKeyJustPressed(ebiten.KeyS) {
			g.save()
		}
		return
	}
	if shift {
		for key, c := range clockKeys {
			if inpututil.IsKeyJustPressed(key) {
				g.session.SetClock(c)
			}
		}
	} else {
		for key, k := range kindKeys {
			if inpututil.IsKeyJustPressed(key) {
				g.session.SetKind(k)
			}
		}
	}
	for key, v := range valueKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.session.SetValue(v)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.session.SetLayer(g.session.Layer() + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		g.session.SetLayer(g.session.Layer() - 1)
	}
	if _, dy := ebiten.Wheel(); dy > 0 {
		g.session.SetLayer(g.session.Layer() + 1)
	} else if dy < 0 {
		g.session.SetLayer(g.session.Layer() - 1)
	}
}

func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	px, py := float64(mx), float64(my)
	inView := mx >= 0 && my >= 0 && mx < g.viewWidth() && my < g.height

	g.hoverOK = inView && !g.pressed
	if g.hoverOK {
		gx, gy := g.session.Mapper().ToGrid(px, py)
		g.hover = image.Pt(gx, gy)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if g.hud.Click(mx, my, g.viewWidth()) {
			return
		}
		if inView {
			g.session.Press(px, py)
			g.pressed = true
		}
	}
	if g.pressed {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.session.Drag(px, py)
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			g.session.Release(editor.ButtonPrimary, px, py)
			g.pressed = false
		}
	}
	if inView && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		g.session.Release(editor.ButtonSecondary, px, py)
	}
}

func (g *Game) drainChanges() {
	for {
		select {
		case path := <-g.changes:
			replaced, err := g.session.Reload()
			switch {
			case errors.Is(err, editor.ErrDirty):
				g.hud.SetStatus("file changed on disk; unsaved edits kept")
			case err != nil:
				g.hud.SetStatus("reload failed")
			case replaced:
				g.log.Debug("reloaded after change", "path", path)
				g.hud.SetStatus("reloaded from disk")
			}
		default:
			return
		}
	}
}

func (g *Game) save() {
	var err error
	if g.session.Path() == "" {
		err = g.session.SaveAs("untitled")
	} else {
		err = g.session.Save()
	}
	if err != nil {
		g.hud.SetStatus("save failed")
		return
	}
	g.hud.SetStatus(fmt.Sprintf("saved %d cells", g.session.Grid().Len()))
}

func (g *Game) viewWidth() int {
	return max(g.width-g.hud.Width(), 0)
}

// Draw renders the grid, the cells of the active layer and the panel.
func (g *Game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	view := screen.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Min.X+g.viewWidth(), b.Max.Y)).(*ebiten.Image)
	m := g.session.Mapper()

	g.painter.DrawGrid(view, m)
	g.painter.DrawCells(view, m, g.session.Grid().Layer(g.session.Layer()))

	hover := ""
	if g.hoverOK {
		g.painter.DrawHover(view, m, g.hover.X, g.hover.Y)
		hover = fmt.Sprintf("(%d, %d, %d)", g.hover.X, g.hover.Y, g.session.Layer())
		if c, ok := g.session.Grid().Get(g.hover.X, g.hover.Y, g.session.Layer()); ok {
			hover += " " + c.Kind().String()
		}
	}
	g.hud.Draw(screen, g.viewWidth(), b.Dy(), hover)
}

// Layout follows the window size so resizing reveals more of the grid.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
