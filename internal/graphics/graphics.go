package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"studio-emulator/internal/interact"
)

// Options configures the window.
type Options struct {
	Width      int
	Height     int
	Fullscreen bool
	TargetFPS  int
	Title      string
}

// Window is the raylib window. It satisfies engine.Display.
// ESC toggles the console, so the window closes only via its close button.
type Window struct {
	closed bool
	cursor interact.Cursor
}

// Open creates the window and GL context. Call from the main goroutine only.
func Open(o Options) *Window {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if o.Fullscreen {
		flags |= rl.FlagFullscreenMode
		o.Width, o.Height = 0, 0
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(o.Width), int32(o.Height), o.Title)
	if o.Fullscreen {
		m := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(m), rl.GetMonitorHeight(m))
	}
	rl.SetExitKey(rl.KeyNull)
	if o.TargetFPS > 0 {
		rl.SetTargetFPS(int32(o.TargetFPS))
	}
	return &Window{}
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return w.closed || rl.WindowShouldClose()
}

// BeginFrame starts drawing a frame.
func (w *Window) BeginFrame() {
	rl.BeginDrawing()
}

// EndFrame presents the frame and polls window events.
func (w *Window) EndFrame() {
	rl.EndDrawing()
}

// Size returns the render size in pixels.
func (w *Window) Size() (width, height int) {
	return int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
}

// SetCursor shows the pointer shape for c. Unchanged cursors are not resent.
func (w *Window) SetCursor(c interact.Cursor) {
	if c == w.cursor {
		return
	}
	w.cursor = c
	switch c {
	case interact.CursorPointer:
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
	case interact.CursorGrab:
		rl.SetMouseCursor(rl.MouseCursorResizeAll)
	default:
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
}

// Close destroys the window. It is safe to call more than once.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	rl.CloseWindow()
}
