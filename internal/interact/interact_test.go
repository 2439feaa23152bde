package interact

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-emulator/internal/catalog"
	"studio-emulator/internal/raycast"
	"studio-emulator/internal/scene"
	"studio-emulator/internal/studio"
)

// slantCamera maps screen point (u, v) to a 45° ray that meets the floor at (u, 0, v).
type slantCamera struct {
	begins, moves, ends int
}

func (c *slantCamera) ScreenRay(p mgl32.Vec2) (raycast.Ray, bool) {
	return raycast.NewRay(mgl32.Vec3{p.X(), 10, p.Y() + 10}, mgl32.Vec3{0, -1, -1}), true
}
func (c *slantCamera) BeginDrag(mgl32.Vec2)    { c.begins++ }
func (c *slantCamera) ContinueDrag(mgl32.Vec2) { c.moves++ }
func (c *slantCamera) EndDrag()                { c.ends++ }

type recorder struct {
	selected  []string
	hovered   []string
	positions map[string][2]float64
	rotations map[string]float64
	menus     []ContextMenu
	misses    int
}

func (r *recorder) callbacks() Callbacks {
	r.positions = map[string][2]float64{}
	r.rotations = map[string]float64{}
	return Callbacks{
		OnSelect: func(id string) { r.selected = append(r.selected, id) },
		OnHover:  func(id string) { r.hovered = append(r.hovered, id) },
		OnItemPositionChanged: func(id string, p studio.PositionPatch) {
			if p.Y != nil {
				panic("drag must not write y")
			}
			r.positions[id] = [2]float64{*p.X, *p.Z}
		},
		OnItemRotationChanged: func(id string, rad float64) { r.rotations[id] = rad },
		OnContextMenu:         func(m ContextMenu) { r.menus = append(r.menus, m) },
		OnContextMenuMiss:     func() { r.misses++ },
	}
}

func setup(t *testing.T, items ...studio.EquipmentItem) (*Machine, *slantCamera, *recorder, *Context) {
	t.Helper()
	snap := studio.Snapshot{Room: studio.DefaultRoom(), Equipment: items}
	sc := scene.New()
	scene.NewSynchronizer(sc, catalog.Default(), zerolog.Nop()).SyncAll(snap)
	cam := &slantCamera{}
	rec := &recorder{}
	m := New(sc, cam, rec.callbacks(), zerolog.Nop())
	return m, cam, rec, &Context{Snapshot: snap}
}

func TestMissStartsOrbit(t *testing.T) {
	m, cam, rec, ctx := setup(t, studio.EquipmentItem{ID: "desk", Type: "studio-desk", X: 1, Z: 2})

	m.PointerDown(ctx, mgl32.Vec2{-8, -8})
	assert.Equal(t, Rotating, m.Mode())
	assert.Equal(t, 1, cam.begins)
	assert.Empty(t, rec.selected)

	m.PointerMove(ctx, mgl32.Vec2{-7, -8}, true)
	m.PointerMove(ctx, mgl32.Vec2{-6, -8}, true)
	assert.Equal(t, 2, cam.moves)

	m.PointerUp(ctx, mgl32.Vec2{-6, -8})
	assert.Equal(t, Idle, m.Mode())
	assert.Equal(t, 1, cam.ends)
}

func TestDragKeepsGrabOffset(t *testing.T) {
	m, cam, rec, ctx := setup(t, studio.EquipmentItem{ID: "desk", Type: "studio-desk", X: 1, Y: 0.3, Z: 2})

	m.PointerDown(ctx, mgl32.Vec2{1, 1.9})
	require.Equal(t, Dragging, m.Mode())
	assert.Equal(t, []string{"desk"}, rec.selected)
	assert.Equal(t, CursorGrab, m.Cursor())
	assert.Zero(t, cam.begins)
	id, ok := m.DragTarget()
	assert.True(t, ok)
	assert.Equal(t, "desk", id)

	// The floor point under the grab moved from (1, 1.9) to (3, -1); the item keeps its -0.1 offset in z.
	m.PointerMove(ctx, mgl32.Vec2{3, -1}, true)
	got := rec.positions["desk"]
	assert.InDelta(t, 3, got[0], 1e-4)
	assert.InDelta(t, -0.9, got[1], 1e-4)

	m.PointerUp(ctx, mgl32.Vec2{3, -1})
	assert.Equal(t, Idle, m.Mode())
	_, ok = m.DragTarget()
	assert.False(t, ok)
}

func TestDragCannotBeStolen(t *testing.T) {
	m, _, rec, ctx := setup(t,
		studio.EquipmentItem{ID: "a", Type: "studio-desk", X: 1, Z: 2},
		studio.EquipmentItem{ID: "b", Type: "studio-desk", X: 5, Z: 2},
	)
	m.PointerDown(ctx, mgl32.Vec2{1, 2.2})
	m.PointerMove(ctx, mgl32.Vec2{5, 2.2}, true)
	m.PointerMove(ctx, mgl32.Vec2{5, 2.2}, false)

	assert.Equal(t, []string{"a"}, rec.selected)
	assert.Empty(t, rec.hovered)
	assert.Contains(t, rec.positions, "a")
	assert.NotContains(t, rec.positions, "b")
}

func TestHoverReportsChangesOnly(t *testing.T) {
	m, _, rec, ctx := setup(t, studio.EquipmentItem{ID: "desk", Type: "studio-desk", X: 1, Z: 2})

	m.PointerMove(ctx, mgl32.Vec2{1, 2.2}, false)
	m.PointerMove(ctx, mgl32.Vec2{1.1, 2.2}, false)
	assert.Equal(t, []string{"desk"}, rec.hovered)
	assert.Equal(t, CursorPointer, m.Cursor())
	assert.Equal(t, "desk", m.Hovered())

	m.PointerMove(ctx, mgl32.Vec2{-8, -8}, false)
	m.PointerMove(ctx, mgl32.Vec2{-9, -8}, false)
	assert.Equal(t, []string{"desk", ""}, rec.hovered)
	assert.Equal(t, CursorDefault, m.Cursor())
	assert.Equal(t, Idle, m.Mode())
}

func TestContextMenuUsesScreenCoords(t *testing.T) {
	m, _, rec, ctx := setup(t, studio.EquipmentItem{ID: "desk", Type: "studio-desk", X: 1, Z: 2})

	assert.True(t, m.ContextMenu(ctx, mgl32.Vec2{1, 2.2}))
	require.Len(t, rec.menus, 1)
	assert.Equal(t, ContextMenu{ID: "desk", Type: "studio-desk", X: 1, Y: 2.2}, rec.menus[0])
	assert.Equal(t, Idle, m.Mode())

	assert.Equal(t, 0, rec.misses)
	assert.False(t, m.ContextMenu(ctx, mgl32.Vec2{-8, -8}))
	assert.Len(t, rec.menus, 1)
	assert.Equal(t, 1, rec.misses, "empty-space click dismisses the open menu")
}

func TestRotateSelected(t *testing.T) {
	m, _, rec, ctx := setup(t, studio.EquipmentItem{ID: "desk", Type: "studio-desk", Rotation: 350 * math.Pi / 180})

	assert.False(t, m.Rotate(ctx, 1), "nothing selected")

	ctx.Snapshot.Selection.SelectedID = "desk"
	assert.True(t, m.Rotate(ctx, 15*math.Pi/180))
	assert.InDelta(t, 5*math.Pi/180, rec.rotations["desk"], 1e-5)
}

func TestNilCallbacksAreSkipped(t *testing.T) {
	snap := studio.Snapshot{Equipment: []studio.EquipmentItem{{ID: "desk", Type: "studio-desk", X: 1, Z: 2}}}
	sc := scene.New()
	scene.NewSynchronizer(sc, catalog.Default(), zerolog.Nop()).SyncAll(snap)
	m := New(sc, &slantCamera{}, Callbacks{}, zerolog.Nop())
	ctx := &Context{Snapshot: snap}

	assert.NotPanics(t, func() {
		m.PointerDown(ctx, mgl32.Vec2{1, 2.2})
		m.PointerMove(ctx, mgl32.Vec2{2, 2.2}, true)
		m.PointerUp(ctx, mgl32.Vec2{2, 2.2})
		m.PointerMove(ctx, mgl32.Vec2{1, 2.2}, false)
		m.ContextMenu(ctx, mgl32.Vec2{1, 2.2})
	})
}
