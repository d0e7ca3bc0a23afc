//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"qdcad/internal/editor"
	"qdcad/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	textColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	editColor   = color.RGBA{R: 140, G: 200, B: 255, A: 255}
	statusColor = color.RGBA{R: 240, G: 200, B: 120, A: 255}
)

// HUD renders the document panel to the right of the grid view: the file,
// the active tool with clickable selectors, the layer and the opaque
// document fields. Clicking a field row edits it in place.
type HUD struct {
	session *editor.Session
	width   int
	panel   *ebiten.Image
	pixel   *ebiten.Image
	tools   toolbar
	fields  []docField
	edit    fieldEditor
	status  string

	swatch     *ebiten.Image
	swatchTool editor.Tool
}

// NewHUD constructs a HUD for the session and panel width.
func NewHUD(s *editor.Session, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{session: s, width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.tools = newToolbar(panelPadding + headerBaseline + 3*lineHeight + swatchSize)
	h.fields = fieldRows(h.tools.bottom+lineHeight, width)
	return h
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// SetStatus replaces the message shown at the bottom of the panel.
func (h *HUD) SetStatus(msg string) {
	if h != nil {
		h.status = msg
	}
}

// Click handles a primary click at screen (x, y) with the panel anchored at
// offsetX. It reports whether the click landed on the panel.
func (h *HUD) Click(x, y, offsetX int) bool {
	if h == nil || h.width <= 0 || x < offsetX {
		return false
	}
	x -= offsetX
	if h.tools.click(h.session, x, y) {
		return true
	}
	if f, ok := fieldAt(h.fields, x, y); ok && !h.edit.editing(f) {
		h.edit.begin(f, h.session)
		if f.multiline() {
			h.SetStatus("Enter: new line, Ctrl+Enter: apply")
		} else {
			h.SetStatus("Enter: apply, Esc: cancel")
		}
	}
	return true
}

// Editing reports whether a document field is being edited. While it is,
// keyboard input belongs to UpdateEditing.
func (h *HUD) Editing() bool {
	return h != nil && h.edit.active
}

// UpdateEditing feeds this frame's keyboard input to the field editor.
func (h *HUD) UpdateEditing() {
	if !h.Editing() {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.edit.cancel()
		h.SetStatus("edit cancelled")
		return
	}
	h.edit.insert(ebiten.AppendInputChars(nil))
	if repeating(ebiten.KeyBackspace) {
		h.edit.backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
		if !ctrl && h.edit.newline() {
			return
		}
		label := h.edit.field.label()
		if err := h.edit.commit(h.session); err != nil {
			h.SetStatus(err.Error())
			return
		}
		h.SetStatus(label + " updated")
	}
}

// repeating reports a key press on its first frame and then at a steady
// rate while it is held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 30 && d%4 == 0)
}

// Draw paints the panel at offsetX. hover describes the cell under the
// cursor and may be empty.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int, hover string) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title(), face, panelPadding, y, titleColor)

	tool := h.session.Tool()
	y += lineHeight
	text.Draw(h.panel, fmt.Sprintf("Tool: %s %s %s", tool.Kind, tool.Clock, tool.Value), face, panelPadding, y, textColor)
	y += lineHeight
	text.Draw(h.panel, fmt.Sprintf("Layer: %d of %d", h.session.Layer()+1, h.session.Layers()), face, panelPadding, y, textColor)
	y += lineHeight / 2
	h.drawSwatch(tool, y)

	h.drawToolbar(tool)

	grid := h.session.Grid()
	for _, f := range h.fields {
		y = f.rect.Min.Y + headerBaseline
		text.Draw(h.panel, f.label(), face, panelPadding, y, dimColor)
		switch {
		case h.edit.editing(f) && !f.multiline():
			h.drawValueColor(h.edit.text()+"_", y, editColor)
		case h.edit.editing(f):
			h.drawValueColor(fmt.Sprint(strings.Count(h.edit.text(), "\n")+1)+" lines", y, editColor)
		default:
			h.drawValue(f.summary(grid), y)
		}
	}
	y += lineHeight
	text.Draw(h.panel, "Cells", face, panelPadding, y, dimColor)
	h.drawValue(fmt.Sprint(grid.Len()), y)

	if h.edit.active && h.edit.field.multiline() {
		lines := strings.Split(h.edit.text(), "\n")
		for i, line := range lines {
			y += lineHeight
			if i == len(lines)-1 {
				line += "_"
			}
			text.Draw(h.panel, line, face, panelPadding, y, editColor)
		}
	}

	if hover != "" {
		y += 2 * lineHeight
		text.Draw(h.panel, hover, face, panelPadding, y, textColor)
	}
	if h.status != "" {
		text.Draw(h.panel, h.status, face, panelPadding, height-panelPadding, statusColor)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) title() string {
	name := "untitled"
	if p := h.session.Path(); p != "" {
		name = filepath.Base(p)
	}
	if h.session.Dirty() {
		name += " *"
	}
	return name
}

func (h *HUD) drawValue(value string, y int) {
	if value == "" {
		value = "--"
	}
	h.drawValueColor(value, y, textColor)
}

func (h *HUD) drawValueColor(value string, y int, clr color.Color) {
	face := basicfont.Face7x13
	bounds := text.BoundString(face, value)
	text.Draw(h.panel, value, face, h.width-panelPadding-bounds.Dx(), y, clr)
}

func (h *HUD) drawSwatch(tool editor.Tool, y int) {
	if h.swatch == nil || h.swatchTool != tool {
		if h.swatch == nil {
			h.swatch = ebiten.NewImage(swatchSize, swatchSize)
		}
		h.swatch.WritePixels(render.Swatch(tool.Kind, tool.Clock, swatchSize))
		h.swatchTool = tool
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(h.width-panelPadding-swatchSize), float64(y-swatchSize/2))
	h.panel.DrawImage(h.swatch, op)
}

func (h *HUD) drawToolbar(tool editor.Tool) {
	face := basicfont.Face7x13
	groups := []buttonGroup{groupKind, groupClock, groupValue}
	for i, top := range h.tools.rows {
		text.Draw(h.panel, groups[i].label(), face, panelPadding, top+(buttonSize+headerBaseline)/2-2, dimColor)
	}
	for _, b := range h.tools.buttons {
		h.drawButton(b.rect, b.label, b.active(tool))
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, active bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if active {
		bg = color.RGBA{R: 90, G: 120, B: 200, A: 255}
		fg = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	textWidth := bounds.Dx()
	textHeight := bounds.Dy()
	x := rect.Min.X + (rect.Dx()-textWidth)/2
	y := rect.Min.Y + (rect.Dy()-textHeight)/2 + textHeight
	text.Draw(h.panel, label, face, x, y, fg)
}
