package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"studio-emulator/internal/input"
)

// wheelScale converts raylib wheel notches into pixel-like deltas. raylib reports scrolling up as
// positive; the engine treats positive deltas as zooming out.
const wheelScale = -100

// Poller turns raylib's per-frame input state into input events.
type Poller struct {
	width, height int
	last          mgl32.Vec2
	started       bool
}

// Filter limits what Poll publishes this frame.
type Filter struct {
	// BlockPointer drops button presses, e.g. while an overlay consumes the click. Moves and
	// releases are still published so gestures always end.
	BlockPointer bool
	// BlockKeys drops editor key bindings, e.g. while the console has focus.
	BlockKeys bool
}

// Poll publishes the events that happened since the previous frame.
func (p *Poller) Poll(bus *input.Bus, f Filter) {
	w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	if w != p.width || h != p.height {
		p.width, p.height = w, h
		bus.Publish(input.Event{Kind: input.Resize, Width: w, Height: h})
	}

	mp := rl.GetMousePosition()
	pos := mgl32.Vec2{mp.X, mp.Y}
	held := buttons()

	if pos != p.last || !p.started {
		p.last = pos
		p.started = true
		bus.Publish(input.Event{Kind: input.PointerMove, Pos: pos, Buttons: held})
	}
	if !f.BlockPointer {
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			bus.Publish(input.Event{Kind: input.PointerDown, Pos: pos, Buttons: held})
		}
		if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
			bus.Publish(input.Event{Kind: input.ContextMenu, Pos: pos, Buttons: held})
		}
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		bus.Publish(input.Event{Kind: input.PointerUp, Pos: pos, Buttons: held})
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		bus.Publish(input.Event{Kind: input.Wheel, Pos: pos, Delta: wheel * wheelScale})
	}

	if f.BlockKeys {
		return
	}
	for _, k := range []struct {
		code int32
		key  input.Key
	}{
		{rl.KeyQ, input.KeyRotateLeft},
		{rl.KeyE, input.KeyRotateRight},
		{rl.KeyDelete, input.KeyDelete},
	} {
		if rl.IsKeyPressed(k.code) {
			bus.Publish(input.Event{Kind: input.KeyPress, Pos: pos, Key: k.key})
		}
	}
}

func buttons() input.Buttons {
	var b input.Buttons
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		b |= input.ButtonPrimary
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		b |= input.ButtonSecondary
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		b |= input.ButtonMiddle
	}
	return b
}
