package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-emulator/internal/input"
	"studio-emulator/internal/interact"
	"studio-emulator/internal/studio"
)

func newTestEngine(t *testing.T, cb interact.Callbacks) (*Engine, *input.Bus) {
	t.Helper()
	bus := input.NewBus()
	e := New(context.Background(), Options{Bus: bus, Callbacks: cb, Width: 800, Height: 600, Logger: zerolog.Nop()})
	t.Cleanup(func() { _ = e.Close() })
	return e, bus
}

func TestApplyBuildsDirtyParts(t *testing.T) {
	e, _ := newTestEngine(t, interact.Callbacks{})
	snap := studio.Snapshot{
		Room:      studio.DefaultRoom(),
		Equipment: []studio.EquipmentItem{{ID: "desk", Type: "studio-desk"}},
	}

	e.Apply(snap, studio.DirtyEquipment)
	assert.Nil(t, e.Scene().Room)
	require.NotNil(t, e.Scene().Equipment)
	assert.Len(t, e.Scene().Equipment.Children, 1)

	e.Apply(snap, studio.DirtyAll)
	assert.NotNil(t, e.Scene().Room)
	assert.Equal(t, snap.Room, e.Snapshot().Room)
}

func TestPointerRoutingSelectsAndDrags(t *testing.T) {
	var selected string
	moved := 0
	e, bus := newTestEngine(t, interact.Callbacks{
		OnSelect:              func(id string) { selected = id },
		OnItemPositionChanged: func(string, studio.PositionPatch) { moved++ },
	})
	e.Apply(studio.Snapshot{Equipment: []studio.EquipmentItem{{ID: "desk", Type: "studio-desk"}}}, studio.DirtyAll)

	// The camera looks at the origin, so the viewport center is over the desk.
	center := mgl32.Vec2{400, 300}
	bus.Publish(input.Event{Kind: input.PointerDown, Pos: center, Buttons: input.ButtonPrimary})
	assert.Equal(t, "desk", selected)
	assert.Equal(t, interact.Dragging, e.Machine().Mode())

	bus.Publish(input.Event{Kind: input.PointerMove, Pos: center.Add(mgl32.Vec2{20, 0}), Buttons: input.ButtonPrimary})
	assert.Equal(t, 1, moved)

	bus.Publish(input.Event{Kind: input.PointerUp, Pos: center})
	assert.Equal(t, interact.Idle, e.Machine().Mode())

	// Secondary presses are not gestures.
	bus.Publish(input.Event{Kind: input.PointerDown, Pos: mgl32.Vec2{5, 5}, Buttons: input.ButtonSecondary})
	assert.Equal(t, interact.Idle, e.Machine().Mode())
}

func TestWheelResizeAndKeys(t *testing.T) {
	var rotated float64
	e, bus := newTestEngine(t, interact.Callbacks{
		OnItemRotationChanged: func(_ string, rad float64) { rotated = rad },
	})
	r := e.Camera().Radius()
	bus.Publish(input.Event{Kind: input.Wheel, Delta: 100})
	assert.InDelta(t, r*1.1, e.Camera().Radius(), 1e-4)

	bus.Publish(input.Event{Kind: input.Resize, Width: 1000, Height: 500})
	assert.Equal(t, float32(2), e.Camera().Aspect())

	snap := studio.Snapshot{
		Equipment: []studio.EquipmentItem{{ID: "desk", Type: "studio-desk"}},
		Selection: studio.Selection{SelectedID: "desk"},
	}
	e.Apply(snap, studio.DirtyAll)
	bus.Publish(input.Event{Kind: input.KeyPress, Key: input.KeyRotateRight})
	assert.InDelta(t, RotateStep, rotated, 1e-9)
	bus.Publish(input.Event{Kind: input.KeyPress, Key: input.KeyRotateLeft})
	assert.InDelta(t, studio.NormalizeAngle(-RotateStep), rotated, 1e-9)
}

func TestCloseIsIdempotent(t *testing.T) {
	bus := input.NewBus()
	e := New(context.Background(), Options{Bus: bus, Width: 800, Height: 600, Logger: zerolog.Nop()})
	require.Equal(t, 1, bus.Len())

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.Zero(t, bus.Len())
	assert.ErrorIs(t, e.Context().Err(), context.Canceled)

	r := e.Camera().Radius()
	e.HandleEvent(input.Event{Kind: input.Wheel, Delta: 100})
	assert.Equal(t, r, e.Camera().Radius())
	e.Apply(studio.Snapshot{}, studio.DirtyAll)
	assert.Nil(t, e.Scene().Room)
}

type fakeDisplay struct {
	closeAfter int
	begins     int
	ends       int
}

func (d *fakeDisplay) ShouldClose() bool { return d.begins >= d.closeAfter }
func (d *fakeDisplay) BeginFrame()       { d.begins++ }
func (d *fakeDisplay) EndFrame()         { d.ends++ }

func TestLoopRunsUntilDisplayCloses(t *testing.T) {
	d := &fakeDisplay{closeAfter: 3}
	frames := 0
	err := Loop{Display: d, Frame: func(context.Context) error { frames++; return nil }}.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, frames)
	assert.Equal(t, d.begins, d.ends)
}

func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &fakeDisplay{closeAfter: 100}
	frames := 0
	err := Loop{Display: d, Frame: func(context.Context) error {
		frames++
		if frames == 2 {
			cancel()
		}
		return nil
	}}.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, frames)
}

func TestLoopReturnsFrameError(t *testing.T) {
	boom := errors.New("boom")
	d := &fakeDisplay{closeAfter: 100}
	err := Loop{Display: d, Frame: func(context.Context) error { return boom }}.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, d.ends)
}
