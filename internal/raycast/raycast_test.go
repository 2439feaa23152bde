package raycast

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestIntersectPlane(t *testing.T) {
	r := Through(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{1, 9, 1})
	p, dist, ok := r.IntersectPlane(HorizontalPlane(0))
	assert.True(t, ok)
	assert.InDelta(t, 10, p.X(), 1e-4)
	assert.InDelta(t, 0, p.Y(), 1e-4)
	assert.InDelta(t, 10, p.Z(), 1e-4)
	assert.Greater(t, dist, float32(0))

	// Parallel and pointing away both miss.
	_, _, ok = NewRay(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}).IntersectPlane(HorizontalPlane(0))
	assert.False(t, ok)
	_, _, ok = NewRay(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0}).IntersectPlane(HorizontalPlane(0))
	assert.False(t, ok)
}

func TestIntersectAABB(t *testing.T) {
	lo, hi := mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}

	d, ok := NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{1, 0, 0}).IntersectAABB(lo, hi)
	assert.True(t, ok)
	assert.InDelta(t, 4, d, 1e-5)

	_, ok = NewRay(mgl32.Vec3{-5, 2, 0}, mgl32.Vec3{1, 0, 0}).IntersectAABB(lo, hi)
	assert.False(t, ok)

	_, ok = NewRay(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{1, 0, 0}).IntersectAABB(lo, hi)
	assert.False(t, ok, "box behind the ray")

	d, ok = NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}).IntersectAABB(lo, hi)
	assert.True(t, ok, "origin inside")
	assert.InDelta(t, 1, d, 1e-5)
}

func TestIntersectRotatedBox(t *testing.T) {
	// A 2 × 1 × 0.2 slab rotated 90° about Y now spans z in [-1, 1] and x in [-0.1, 0.1].
	model := mgl32.Translate3D(3, 0.5, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	half := mgl32.Vec3{1, 0.5, 0.1}

	d, ok := NewRay(mgl32.Vec3{3, 0.5, 10}, mgl32.Vec3{0, 0, -1}).IntersectBox(model, half)
	assert.True(t, ok)
	assert.InDelta(t, 9, d, 1e-4)

	_, ok = NewRay(mgl32.Vec3{3.5, 0.5, 10}, mgl32.Vec3{0, 0, -1}).IntersectBox(model, half)
	assert.False(t, ok, "would hit the unrotated slab")

	_, ok = NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}).IntersectBox(mgl32.Mat4{}, half)
	assert.False(t, ok, "singular transform")
}
