// Package raycast holds the ray, plane and box intersection math used for picking and dragging.
package raycast

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance below which a ray is treated as parallel to a plane or slab.
const Epsilon = 1e-6

// Ray is a half line. Direction is kept unit length by NewRay.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay returns a ray from origin in the (normalized) direction dir.
func NewRay(origin, dir mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// Through returns the ray from a toward b.
func Through(a, b mgl32.Vec3) Ray {
	return NewRay(a, b.Sub(a))
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Plane is the set of points p with Normal·p == D.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// HorizontalPlane returns the plane y == height, facing up.
func HorizontalPlane(height float32) Plane {
	return Plane{Normal: mgl32.Vec3{0, 1, 0}, D: height}
}

// IntersectPlane returns where the ray meets the plane. ok is false when the ray is parallel to
// the plane or the plane is behind the origin.
func (r Ray) IntersectPlane(p Plane) (point mgl32.Vec3, t float32, ok bool) {
	denom := p.Normal.Dot(r.Direction)
	if math32.Abs(denom) < Epsilon {
		return mgl32.Vec3{}, 0, false
	}
	t = (p.D - p.Normal.Dot(r.Origin)) / denom
	if t < 0 {
		return mgl32.Vec3{}, 0, false
	}
	return r.At(t), t, true
}

// IntersectAABB runs a slab test against the axis-aligned box [lo, hi]. It returns the entry
// parameter, or the exit parameter when the origin is inside the box.
func (r Ray) IntersectAABB(lo, hi mgl32.Vec3) (float32, bool) {
	tmin := math32.Inf(-1)
	tmax := math32.Inf(1)
	for i := range 3 {
		o, d := r.Origin[i], r.Direction[i]
		if math32.Abs(d) < Epsilon {
			if o < lo[i] || o > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o) / d
		t2 := (hi[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectBox tests the ray against a box of the given half extents centered at the origin of
// model space. The returned parameter is in world units along this ray.
func (r Ray) IntersectBox(model mgl32.Mat4, half mgl32.Vec3) (float32, bool) {
	inv := model.Inv()
	if inv == (mgl32.Mat4{}) {
		return 0, false
	}
	// Transforming without renormalizing keeps t comparable with the world ray.
	local := Ray{
		Origin:    inv.Mul4x1(r.Origin.Vec4(1)).Vec3(),
		Direction: inv.Mul4x1(r.Direction.Vec4(0)).Vec3(),
	}
	return local.IntersectAABB(half.Mul(-1), half)
}
