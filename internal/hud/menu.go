package hud

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"studio-emulator/internal/interact"
)

const (
	menuFontSize = 18
	menuItemH    = 28
	menuWidth    = 140
	menuPadding  = 8
)

var (
	menuBgColor    = rl.NewColor(36, 36, 42, 240)
	menuHoverColor = rl.NewColor(74, 158, 255, 255)
	menuBorder     = rl.NewColor(90, 90, 100, 255)
)

// Menu is the per-item context menu, opened at the pointer on a secondary click.
// OnEdit and OnDelete receive the id of the item the menu was opened on.
type Menu struct {
	OnEdit   func(id string)
	OnDelete func(id string)

	open   bool
	target interact.ContextMenu
}

type menuEntry struct {
	label string
	run   func(id string)
}

func (m *Menu) entries() []menuEntry {
	return []menuEntry{{"Edit", m.OnEdit}, {"Delete", m.OnDelete}}
}

// Open shows the menu for cm at its screen position.
func (m *Menu) Open(cm interact.ContextMenu) {
	m.open = true
	m.target = cm
}

// Close hides the menu.
func (m *Menu) Close() {
	m.open = false
}

// IsOpen reports whether the menu is shown.
func (m *Menu) IsOpen() bool {
	return m.open
}

func (m *Menu) bounds() rl.Rectangle {
	n := len(m.entries())
	return rl.NewRectangle(m.target.X, m.target.Y, menuWidth, float32(n*menuItemH))
}

func (m *Menu) entryRect(i int) rl.Rectangle {
	return rl.NewRectangle(m.target.X, m.target.Y+float32(i*menuItemH), menuWidth, menuItemH)
}

// Update runs the clicked entry, or closes the menu on a click elsewhere. It reports
// whether the primary click this frame was consumed.
func (m *Menu) Update() bool {
	if !m.open {
		return false
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return false
	}
	m.open = false
	p := rl.GetMousePosition()
	if !rl.CheckCollisionPointRec(p, m.bounds()) {
		return false
	}
	for i, e := range m.entries() {
		if rl.CheckCollisionPointRec(p, m.entryRect(i)) && e.run != nil {
			e.run(m.target.ID)
		}
	}
	return true
}

// Draw renders the menu when open.
func (m *Menu) Draw() {
	if !m.open {
		return
	}
	rl.DrawRectangleRec(m.bounds(), menuBgColor)
	rl.DrawRectangleLinesEx(m.bounds(), 1, menuBorder)
	p := rl.GetMousePosition()
	for i, e := range m.entries() {
		r := m.entryRect(i)
		if rl.CheckCollisionPointRec(p, r) {
			rl.DrawRectangleRec(r, menuHoverColor)
		}
		rl.DrawText(e.label, int32(r.X)+menuPadding, int32(r.Y)+(menuItemH-menuFontSize)/2, menuFontSize, rl.White)
	}
}
