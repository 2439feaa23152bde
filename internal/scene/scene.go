// Package scene holds the renderable scene graph of the studio and keeps it in step with the
// studio state. It has no graphics dependency; internal/render draws it.
package scene

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"studio-emulator/internal/raycast"
)

// Names of the managed subtrees, usable with Scene.Find.
const (
	RoomName       = "room"
	EquipmentName  = "equipment-group"
	TreatmentsName = "treatments-group"
	OutlineName    = "selection-outline"
)

// Environment is the scene-wide state that is updated in place rather than rebuilt.
type Environment struct {
	Background color.RGBA
	Fog        color.RGBA
	FogNear    float32
	FogFar     float32

	// Ambient is the effective ambient intensity in [0, 1].
	Ambient float32

	LightPosition  mgl32.Vec3
	LightIntensity float32

	GridVisible   bool
	GridSize      float32
	GridDivisions int
	GridCenter    color.RGBA
	GridLines     color.RGBA
}

// Scene is the root of the graph plus typed handles on the managed subtrees. A handle is nil
// until its subtree has been synced once.
type Scene struct {
	Root       *Node
	Env        Environment
	Room       *Node
	Equipment  *Node
	Treatments *Node
}

// New returns an empty scene with the default environment.
func New() *Scene {
	return &Scene{
		Root: NewGroup("scene"),
		Env: Environment{
			FogNear:        10,
			FogFar:         50,
			LightPosition:  mgl32.Vec3{5, 10, 5},
			LightIntensity: 0.8,
			GridVisible:    true,
			GridSize:       20,
			GridDivisions:  20,
		},
	}
}

// Find returns the first node with the given name, or nil.
func (s *Scene) Find(name string) *Node {
	return s.Root.Find(name)
}

// Hit is the result of a successful pick.
type Hit struct {
	ID       string
	Type     string
	Distance float32
	Point    mgl32.Vec3
}

// PickEquipment casts r against the equipment subtree only and returns the nearest tagged box.
func (s *Scene) PickEquipment(r raycast.Ray) (Hit, bool) {
	if s.Equipment == nil {
		return Hit{}, false
	}
	best := Hit{Distance: float32(math.Inf(1))}
	found := false
	s.Equipment.Walk(func(n *Node, world mgl32.Mat4) bool {
		if !n.Pickable || n.Shape != ShapeBox {
			return true
		}
		d, ok := r.IntersectBox(world, n.Size.Mul(0.5))
		if ok && d < best.Distance {
			best = Hit{ID: n.ItemID, Type: n.ItemType, Distance: d, Point: r.At(d)}
			found = true
		}
		return true
	})
	if !found {
		return Hit{}, false
	}
	return best, true
}

// Outlines returns every outline node in the scene.
func (s *Scene) Outlines() []*Node {
	var out []*Node
	s.Root.Walk(func(n *Node, _ mgl32.Mat4) bool {
		if n.Shape == ShapeOutline {
			out = append(out, n)
		}
		return true
	})
	return out
}
