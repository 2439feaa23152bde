// Package camera implements the orbit camera that circles the studio origin.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"studio-emulator/internal/raycast"
)

const (
	// Sensitivity is the orbit angle in radians per pixel of pointer motion.
	Sensitivity = 0.005
	// ZoomSpeed scales wheel deltas relative to the current radius.
	ZoomSpeed = 0.001
	// PitchMargin keeps the camera this far (radians) from the poles.
	PitchMargin = 0.1

	MinRadius = 5
	MaxRadius = 20

	DefaultFov  = 75
	DefaultNear = 0.1
	DefaultFar  = 1000
)

// DefaultStart is where the camera sits before any input.
var DefaultStart = mgl32.Vec3{8, 6, 8}

// Pose is a camera placement looking at Target.
type Pose struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
}

// Orbit keeps the camera on a sphere around the origin. Yaw is measured from +Z toward +X,
// pitch upward from the horizontal plane. It is driven from the frame thread only.
type Orbit struct {
	radius float32
	yaw    float32
	pitch  float32

	last     mgl32.Vec2
	dragging bool

	width, height float32

	// Fov is the vertical field of view in degrees.
	Fov       float32
	Near, Far float32
}

// NewOrbit returns an orbit camera at start, with radius and angles derived from it so the
// first drag continues from the start position.
func NewOrbit(start mgl32.Vec3, width, height int) *Orbit {
	o := &Orbit{Fov: DefaultFov, Near: DefaultNear, Far: DefaultFar}
	o.Resize(width, height)
	r := start.Len()
	if r == 0 {
		start, r = DefaultStart, DefaultStart.Len()
	}
	o.radius = mgl32.Clamp(r, MinRadius, MaxRadius)
	o.yaw = math32.Atan2(start.X(), start.Z())
	o.pitch = clampPitch(math32.Asin(mgl32.Clamp(start.Y()/r, -1, 1)))
	return o
}

func clampPitch(p float32) float32 {
	limit := math32.Pi/2 - PitchMargin
	return mgl32.Clamp(p, -limit, limit)
}

// Radius returns the distance from the origin.
func (o *Orbit) Radius() float32 { return o.radius }

// Yaw returns the horizontal angle in radians.
func (o *Orbit) Yaw() float32 { return o.yaw }

// Pitch returns the vertical angle in radians.
func (o *Orbit) Pitch() float32 { return o.pitch }

// BeginDrag records the pointer position an orbit gesture starts from.
func (o *Orbit) BeginDrag(p mgl32.Vec2) {
	o.last = p
	o.dragging = true
}

// ContinueDrag orbits by the pointer motion since the previous call. It is a no-op without a
// preceding BeginDrag.
func (o *Orbit) ContinueDrag(p mgl32.Vec2) {
	if !o.dragging {
		return
	}
	d := p.Sub(o.last)
	o.last = p
	o.yaw += d.X() * Sensitivity
	o.pitch = clampPitch(o.pitch + d.Y()*Sensitivity)
}

// EndDrag ends the orbit gesture.
func (o *Orbit) EndDrag() {
	o.dragging = false
}

// Dragging reports whether an orbit gesture is in progress.
func (o *Orbit) Dragging() bool {
	return o.dragging
}

// Zoom moves the camera along its view ray by a wheel delta. Positive deltas move away.
func (o *Orbit) Zoom(delta float32) {
	o.radius = mgl32.Clamp(o.radius+delta*ZoomSpeed*o.radius, MinRadius, MaxRadius)
}

// Position returns the camera position in world space.
func (o *Orbit) Position() mgl32.Vec3 {
	cp := math32.Cos(o.pitch)
	return mgl32.Vec3{
		o.radius * math32.Sin(o.yaw) * cp,
		o.radius * math32.Sin(o.pitch),
		o.radius * math32.Cos(o.yaw) * cp,
	}
}

// Pose returns the current placement, always looking at the origin.
func (o *Orbit) Pose() Pose {
	return Pose{Position: o.Position(), Up: mgl32.Vec3{0, 1, 0}}
}

// Resize sets the viewport size. Non-positive sizes are ignored.
func (o *Orbit) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	o.width, o.height = float32(width), float32(height)
}

// Viewport returns the viewport size in pixels.
func (o *Orbit) Viewport() (width, height int) {
	return int(o.width), int(o.height)
}

// Aspect returns width over height, or 1 before the first Resize.
func (o *Orbit) Aspect() float32 {
	if o.height == 0 {
		return 1
	}
	return o.width / o.height
}

// View returns the world-to-camera matrix.
func (o *Orbit) View() mgl32.Mat4 {
	p := o.Pose()
	return mgl32.LookAtV(p.Position, p.Target, p.Up)
}

// Projection returns the perspective matrix for the current viewport.
func (o *Orbit) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(o.Fov), o.Aspect(), o.Near, o.Far)
}

// ScreenRay returns the world ray through the pixel p, with the origin at the top left of the
// viewport. ok is false before the viewport has a size.
func (o *Orbit) ScreenRay(p mgl32.Vec2) (raycast.Ray, bool) {
	if o.width == 0 || o.height == 0 {
		return raycast.Ray{}, false
	}
	view, proj := o.View(), o.Projection()
	w, h := int(o.width), int(o.height)
	winY := o.height - p.Y()
	near, err := mgl32.UnProject(mgl32.Vec3{p.X(), winY, 0}, view, proj, 0, 0, w, h)
	if err != nil {
		return raycast.Ray{}, false
	}
	far, err := mgl32.UnProject(mgl32.Vec3{p.X(), winY, 1}, view, proj, 0, 0, w, h)
	if err != nil {
		return raycast.Ray{}, false
	}
	return raycast.Through(near, far), true
}
