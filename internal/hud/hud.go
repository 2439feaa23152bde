// Package hud draws the 2D overlays on top of the 3D view: counters, the studio stats panel, the
// selection inspector and the item context menu.
package hud

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30

	panelFontSize   = 18
	panelPadding    = 10
	panelLineHeight = panelFontSize + 6
	panelWidth      = 260
)

var (
	panelBgColor    = rl.NewColor(20, 20, 24, 200)
	panelTitleColor = rl.NewColor(74, 158, 255, 255)
	panelTextColor  = rl.NewColor(220, 220, 220, 255)
)

// HUD holds the overlay state. Counters are off by default; the stats panel is on.
type HUD struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool

	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats

	stats     []string
	inspector []string

	Menu *Menu
}

// New returns a HUD with the stats panel shown and the context menu closed.
func New() *HUD {
	return &HUD{ShowStats: true, Menu: &Menu{}}
}

// SetStats sets the lines of the stats panel, e.g. from studio.Report.Lines.
func (h *HUD) SetStats(lines []string) {
	h.stats = lines
}

// SetInspector sets the lines describing the selected item. Nil hides the inspector.
func (h *HUD) SetInspector(lines []string) {
	h.inspector = lines
}

// Update handles overlay input and reports whether it consumed this frame's click.
func (h *HUD) Update() bool {
	return h.Menu.Update()
}

// Draw renders the enabled overlays. Call after the 3D scene and before the console.
// Counter text is only recomputed every updateInterval frames to limit allocations.
func (h *HUD) Draw() {
	h.drawCounters()
	y := int32(panelPadding)
	if h.ShowStats && len(h.stats) > 0 {
		y = drawPanel("Studio", h.stats, y) + panelPadding
	}
	if len(h.inspector) > 0 {
		drawPanel("Selection", h.inspector, y)
	}
	h.Menu.Draw()
}

func (h *HUD) drawCounters() {
	h.frameCount++
	update := (h.frameCount % updateInterval) == 0
	if h.ShowFPS && h.lastFpsText == "" {
		update = true
	}
	if h.ShowMemAlloc && h.lastMemText == "" {
		update = true
	}

	screenW := int32(rl.GetScreenWidth())
	y := int32(fpsPadding)

	if h.ShowFPS {
		if update {
			h.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		drawRightAligned(h.lastFpsText, screenW, y)
		y += fpsLineHeight
	}
	if h.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&h.lastMemStats)
			mb := float64(h.lastMemStats.Alloc) / (1024 * 1024)
			h.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		drawRightAligned(h.lastMemText, screenW, y)
	}
}

func drawRightAligned(text string, screenW, y int32) {
	if text == "" {
		return
	}
	w := rl.MeasureText(text, fpsFontSize)
	rl.DrawText(text, screenW-w-fpsPadding, y, fpsFontSize, rl.Green)
}

// drawPanel draws a titled panel at the top left starting at y and returns its bottom edge.
func drawPanel(title string, lines []string, y int32) int32 {
	h := int32(panelPadding*2 + panelLineHeight*(len(lines)+1))
	rl.DrawRectangle(panelPadding, y, panelWidth, h, panelBgColor)
	ty := y + panelPadding
	rl.DrawText(title, panelPadding*2, ty, panelFontSize, panelTitleColor)
	for _, line := range lines {
		ty += panelLineHeight
		rl.DrawText(line, panelPadding*2, ty, panelFontSize, panelTextColor)
	}
	return y + h
}
