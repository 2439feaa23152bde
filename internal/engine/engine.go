// Package engine ties the scene, orbit camera and interaction machine to an input bus and
// exposes them to the frame loop.
package engine

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"studio-emulator/internal/camera"
	"studio-emulator/internal/catalog"
	"studio-emulator/internal/input"
	"studio-emulator/internal/interact"
	"studio-emulator/internal/scene"
	"studio-emulator/internal/studio"
)

// RotateStep is how far one rotate key press turns the selected item.
const RotateStep = 15 * math.Pi / 180

// Options configures New.
type Options struct {
	Catalog     *catalog.Catalog
	Bus         *input.Bus
	Callbacks   interact.Callbacks
	Width       int
	Height      int
	CameraStart mgl32.Vec3
	Logger      zerolog.Logger
}

// Engine owns the renderable scene and routes input into it. It is driven from the frame thread.
type Engine struct {
	scene  *scene.Scene
	sync   *scene.Synchronizer
	orbit  *camera.Orbit
	fsm    *interact.Machine
	ictx   interact.Context
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	unsub  func()
	closed bool
}

// New builds an engine subscribed to o.Bus. The returned engine's Context is cancelled by Close.
func New(parent context.Context, o Options) *Engine {
	if o.Catalog == nil {
		o.Catalog = catalog.Default()
	}
	if o.CameraStart == (mgl32.Vec3{}) {
		o.CameraStart = camera.DefaultStart
	}
	log := o.Logger.With().Str("component", "engine").Logger()
	sc := scene.New()
	orbit := camera.NewOrbit(o.CameraStart, o.Width, o.Height)
	ctx, cancel := context.WithCancel(parent)
	e := &Engine{
		scene:  sc,
		sync:   scene.NewSynchronizer(sc, o.Catalog, o.Logger),
		orbit:  orbit,
		fsm:    interact.New(sc, orbit, o.Callbacks, o.Logger),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	if o.Bus != nil {
		e.unsub = o.Bus.Subscribe(e.HandleEvent)
	}
	log.Debug().Int("width", o.Width).Int("height", o.Height).Msg("engine started")
	return e
}

// Context is cancelled when the engine is closed.
func (e *Engine) Context() context.Context { return e.ctx }

// Scene returns the scene graph for drawing.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Camera returns the orbit camera.
func (e *Engine) Camera() *camera.Orbit { return e.orbit }

// Machine returns the interaction state machine.
func (e *Engine) Machine() *interact.Machine { return e.fsm }

// Snapshot returns the last snapshot passed to Apply.
func (e *Engine) Snapshot() studio.Snapshot { return e.ictx.Snapshot }

// Apply rebuilds the dirty parts of the scene from snap.
func (e *Engine) Apply(snap studio.Snapshot, dirty studio.Dirty) {
	if e.closed {
		return
	}
	e.ictx.Snapshot = snap
	if dirty == 0 {
		return
	}
	e.sync.Apply(snap, dirty)
	e.log.Debug().Stringer("dirty", dirty).Msg("scene synced")
}

// HandleEvent routes one input event. Events after Close are dropped.
func (e *Engine) HandleEvent(ev input.Event) {
	if e.closed {
		return
	}
	ctx := &e.ictx
	switch ev.Kind {
	case input.PointerDown:
		if ev.Buttons&input.ButtonPrimary != 0 {
			e.fsm.PointerDown(ctx, ev.Pos)
		}
	case input.PointerMove:
		e.fsm.PointerMove(ctx, ev.Pos, ev.Buttons&input.ButtonPrimary != 0)
	case input.PointerUp:
		e.fsm.PointerUp(ctx, ev.Pos)
	case input.ContextMenu:
		e.fsm.ContextMenu(ctx, ev.Pos)
	case input.Wheel:
		e.orbit.Zoom(ev.Delta)
	case input.Resize:
		e.orbit.Resize(ev.Width, ev.Height)
	case input.KeyPress:
		switch ev.Key {
		case input.KeyRotateLeft:
			e.fsm.Rotate(ctx, -RotateStep)
		case input.KeyRotateRight:
			e.fsm.Rotate(ctx, RotateStep)
		}
	}
}

// Close unsubscribes from the input bus and cancels the engine context. It is safe to call
// more than once.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if e.unsub != nil {
		e.unsub()
	}
	e.cancel()
	e.log.Debug().Msg("engine closed")
	return nil
}
