// Package interact turns pointer gestures into orbit, pick and drag actions on the studio.
package interact

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"studio-emulator/internal/raycast"
	"studio-emulator/internal/scene"
	"studio-emulator/internal/studio"
)

// Mode is the gesture currently in progress.
type Mode int

const (
	Idle Mode = iota
	Rotating
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Rotating:
		return "rotating"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Cursor is the pointer affordance the display should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorGrab
)

// Picker finds the equipment under a ray.
type Picker interface {
	PickEquipment(r raycast.Ray) (scene.Hit, bool)
}

// Camera is the part of the orbit camera the machine drives.
type Camera interface {
	ScreenRay(p mgl32.Vec2) (raycast.Ray, bool)
	BeginDrag(p mgl32.Vec2)
	ContinueDrag(p mgl32.Vec2)
	EndDrag()
}

// Context carries the state a handler reads. The machine never keeps it past the call.
type Context struct {
	Snapshot studio.Snapshot
}

// ContextMenu asks the UI to show item actions at a screen position.
type ContextMenu struct {
	ID   string
	Type string
	X, Y float32
}

// Callbacks report decisions back to whoever owns the studio state. Nil funcs are skipped.
type Callbacks struct {
	OnSelect              func(id string)
	OnHover               func(id string)
	OnItemPositionChanged func(id string, p studio.PositionPatch)
	OnItemRotationChanged func(id string, radians float64)
	OnContextMenu         func(m ContextMenu)
	// OnContextMenuMiss reports a secondary click on empty space, so an open menu can close.
	OnContextMenuMiss     func()
}

// ground is the drag plane, at floor level.
var ground = raycast.HorizontalPlane(0)

// Machine is the pointer state machine. It holds at most one gesture at a time.
type Machine struct {
	picker Picker
	camera Camera
	cb     Callbacks
	log    zerolog.Logger

	mode    Mode
	dragID  string
	offset  mgl32.Vec3
	hovered string
	cursor  Cursor
}

// New returns an idle machine.
func New(p Picker, c Camera, cb Callbacks, log zerolog.Logger) *Machine {
	return &Machine{picker: p, camera: c, cb: cb, log: log.With().Str("component", "interact").Logger()}
}

// Mode returns the current gesture.
func (m *Machine) Mode() Mode { return m.mode }

// Cursor returns the pointer affordance for the current state.
func (m *Machine) Cursor() Cursor { return m.cursor }

// Hovered returns the id of the equipment under the pointer, if any.
func (m *Machine) Hovered() string { return m.hovered }

// DragTarget returns the id of the item being dragged.
func (m *Machine) DragTarget() (string, bool) {
	return m.dragID, m.mode == Dragging
}

func (m *Machine) pick(p mgl32.Vec2) (raycast.Ray, scene.Hit, bool) {
	r, ok := m.camera.ScreenRay(p)
	if !ok {
		return r, scene.Hit{}, false
	}
	h, ok := m.picker.PickEquipment(r)
	return r, h, ok
}

// PointerDown starts a gesture: dragging the equipment under p, or orbiting when there is none.
func (m *Machine) PointerDown(ctx *Context, p mgl32.Vec2) {
	if m.mode != Idle {
		m.reset()
	}
	r, hit, ok := m.pick(p)
	if !ok {
		m.mode = Rotating
		m.camera.BeginDrag(p)
		return
	}

	if m.cb.OnSelect != nil {
		m.cb.OnSelect(hit.ID)
	}
	m.offset = mgl32.Vec3{}
	if item, found := ctx.Snapshot.FindEquipment(hit.ID); found {
		if at, _, ok := r.IntersectPlane(ground); ok {
			m.offset = at.Sub(mgl32.Vec3{float32(item.X), float32(item.Y), float32(item.Z)})
		}
	}
	m.mode = Dragging
	m.dragID = hit.ID
	m.cursor = CursorGrab
	m.log.Debug().Str("id", hit.ID).Msg("drag started")
}

// PointerMove continues the current gesture. With no button held it only updates hover.
func (m *Machine) PointerMove(ctx *Context, p mgl32.Vec2, buttonHeld bool) {
	switch {
	case m.mode == Dragging:
		m.drag(p)
	case m.mode == Rotating && buttonHeld:
		m.camera.ContinueDrag(p)
	case !buttonHeld:
		m.hover(p)
	}
}

func (m *Machine) drag(p mgl32.Vec2) {
	r, ok := m.camera.ScreenRay(p)
	if !ok {
		return
	}
	at, _, ok := r.IntersectPlane(ground)
	if !ok {
		return
	}
	if m.cb.OnItemPositionChanged == nil {
		return
	}
	x := float64(at.X() - m.offset.X())
	z := float64(at.Z() - m.offset.Z())
	m.cb.OnItemPositionChanged(m.dragID, studio.PositionPatch{X: &x, Z: &z})
}

func (m *Machine) hover(p mgl32.Vec2) {
	_, hit, ok := m.pick(p)
	id := ""
	if ok {
		id = hit.ID
	}
	if id != "" {
		m.cursor = CursorPointer
	} else {
		m.cursor = CursorDefault
	}
	if id == m.hovered {
		return
	}
	m.hovered = id
	if m.cb.OnHover != nil {
		m.cb.OnHover(id)
	}
}

// PointerUp ends any gesture.
func (m *Machine) PointerUp(ctx *Context, p mgl32.Vec2) {
	m.reset()
}

func (m *Machine) reset() {
	if m.mode == Rotating {
		m.camera.EndDrag()
	}
	if m.mode == Dragging {
		m.log.Debug().Str("id", m.dragID).Msg("drag ended")
	}
	m.mode = Idle
	m.dragID = ""
	m.offset = mgl32.Vec3{}
	if m.hovered != "" {
		m.cursor = CursorPointer
	} else {
		m.cursor = CursorDefault
	}
}

// ContextMenu reports the equipment under p, with the raw screen position, for an action menu.
// It does not change the gesture state.
func (m *Machine) ContextMenu(ctx *Context, p mgl32.Vec2) bool {
	_, hit, ok := m.pick(p)
	if !ok {
		if m.cb.OnContextMenuMiss != nil {
			m.cb.OnContextMenuMiss()
		}
		return false
	}
	if m.cb.OnContextMenu != nil {
		m.cb.OnContextMenu(ContextMenu{ID: hit.ID, Type: hit.Type, X: p.X(), Y: p.Y()})
	}
	return true
}

// Rotate turns the selected item about the vertical axis by delta radians.
func (m *Machine) Rotate(ctx *Context, delta float64) bool {
	id := ctx.Snapshot.Selection.SelectedID
	item, ok := ctx.Snapshot.FindEquipment(id)
	if !ok {
		return false
	}
	if m.cb.OnItemRotationChanged != nil {
		m.cb.OnItemRotationChanged(id, studio.NormalizeAngle(item.Rotation+delta))
	}
	return true
}
