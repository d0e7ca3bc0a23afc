//go:build !ebiten

package ui

import "qdcad/internal/editor"

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(*editor.Session, int) *HUD { return nil }

// Width is zero in the headless build.
func (h *HUD) Width() int { return 0 }

// SetStatus is a no-op in the headless build.
func (h *HUD) SetStatus(string) {}

// Click never consumes input in the headless build.
func (h *HUD) Click(int, int, int) bool { return false }

// Editing is always false in the headless build.
func (h *HUD) Editing() bool { return false }

// UpdateEditing is a no-op in the headless build.
func (h *HUD) UpdateEditing() {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int, string) {}
