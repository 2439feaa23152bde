package scene

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"studio-emulator/internal/catalog"
	"studio-emulator/internal/studio"
	"studio-emulator/internal/theme"
)

// Kind names one reconciled part of the scene.
type Kind int

const (
	KindRoom Kind = iota
	KindEquipment
	KindTreatments
	KindEnvironment
)

func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindEquipment:
		return "equipment"
	case KindTreatments:
		return "treatments"
	case KindEnvironment:
		return "environment"
	}
	return "unknown"
}

const (
	panelThickness = 0.1
	outlineScale   = 1.05

	selectedEmissiveIntensity = 0.5
	hoveredEmissiveIntensity  = 0.2
)

var (
	selectedEmissive = color.RGBA{R: 0x4a, G: 0x9e, B: 0xff, A: 255}
	hoveredEmissive  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 255}
	outlineColor     = color.RGBA{R: 0x4a, G: 0x9e, B: 0xff, A: 255}
)

// Synchronizer rebuilds the scene's managed subtrees from studio snapshots. Room, equipment and
// treatments are replaced wholesale; the environment is updated in place.
type Synchronizer struct {
	scene   *Scene
	catalog *catalog.Catalog
	log     zerolog.Logger
}

// NewSynchronizer returns a synchronizer writing into s and resolving types against c.
func NewSynchronizer(s *Scene, c *catalog.Catalog, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{scene: s, catalog: c, log: log.With().Str("component", "scene").Logger()}
}

// Scene returns the scene being synchronized.
func (y *Synchronizer) Scene() *Scene {
	return y.scene
}

// Sync reconciles one part of the scene with snap.
func (y *Synchronizer) Sync(k Kind, snap studio.Snapshot) {
	switch k {
	case KindRoom:
		y.scene.Room = y.replace(y.scene.Room, buildRoom(snap.Room, theme.Resolve(snap.Theme)))
	case KindEquipment:
		y.scene.Equipment = y.replace(y.scene.Equipment, y.buildEquipment(snap))
	case KindTreatments:
		y.scene.Treatments = y.replace(y.scene.Treatments, y.buildTreatments(snap))
	case KindEnvironment:
		y.syncEnvironment(snap)
	}
}

// SyncAll reconciles every part of the scene.
func (y *Synchronizer) SyncAll(snap studio.Snapshot) {
	y.Apply(snap, studio.DirtyAll)
}

// Apply reconciles the parts flagged in dirty.
func (y *Synchronizer) Apply(snap studio.Snapshot, dirty studio.Dirty) {
	if dirty.Has(studio.DirtyRoom) {
		y.Sync(KindRoom, snap)
	}
	if dirty.Has(studio.DirtyEquipment) {
		y.Sync(KindEquipment, snap)
	}
	if dirty.Has(studio.DirtyTreatments) {
		y.Sync(KindTreatments, snap)
	}
	if dirty.Has(studio.DirtyEnvironment) {
		y.Sync(KindEnvironment, snap)
	}
}

func (y *Synchronizer) replace(old, next *Node) *Node {
	if old != nil {
		y.scene.Root.Remove(old)
	}
	y.scene.Root.Add(next)
	return next
}

func buildRoom(r studio.RoomDimensions, p theme.Palette) *Node {
	w, l, h := float32(r.Width), float32(r.Length), float32(r.Height)
	const half = math.Pi / 2

	plane := func(name string, size, pos, rot mgl32.Vec3, c color.RGBA, doubleSided bool) *Node {
		return &Node{Name: name, Shape: ShapePlane, Size: size, Position: pos, Rotation: rot, Color: c, DoubleSided: doubleSided}
	}

	g := NewGroup(RoomName)
	g.Add(plane("floor", mgl32.Vec3{w, l, 0}, mgl32.Vec3{}, mgl32.Vec3{-half, 0, 0}, p.Floor, false))
	g.Add(plane("wall-back", mgl32.Vec3{w, h, 0}, mgl32.Vec3{0, h / 2, -l / 2}, mgl32.Vec3{}, p.Wall, true))
	g.Add(plane("wall-front", mgl32.Vec3{w, h, 0}, mgl32.Vec3{0, h / 2, l / 2}, mgl32.Vec3{0, math.Pi, 0}, p.Wall, true))
	g.Add(plane("wall-left", mgl32.Vec3{l, h, 0}, mgl32.Vec3{-w / 2, h / 2, 0}, mgl32.Vec3{0, half, 0}, p.Wall, true))
	g.Add(plane("wall-right", mgl32.Vec3{l, h, 0}, mgl32.Vec3{w / 2, h / 2, 0}, mgl32.Vec3{0, -half, 0}, p.Wall, true))
	g.Add(plane("ceiling", mgl32.Vec3{w, l, 0}, mgl32.Vec3{0, h, 0}, mgl32.Vec3{half, 0, 0}, p.Wall, true))
	return g
}

func (y *Synchronizer) buildEquipment(snap studio.Snapshot) *Node {
	g := NewGroup(EquipmentName)
	sel := snap.Selection
	for _, it := range snap.Equipment {
		a, ok := y.catalog.Equipment(it.Type)
		if !ok {
			y.log.Debug().Str("id", it.ID).Str("type", it.Type).Msg("skipping equipment of unknown type")
			continue
		}
		box := &Node{
			Name:     it.ID,
			Shape:    ShapeBox,
			Size:     mgl32.Vec3{float32(a.Width), float32(a.Height), float32(a.Depth)},
			Position: mgl32.Vec3{float32(it.X), float32(it.Y + a.Height/2), float32(it.Z)},
			Rotation: mgl32.Vec3{0, float32(it.Rotation), 0},
			Color:    a.Color.RGBA(),
			Pickable: true,
			ItemID:   it.ID,
			ItemType: it.Type,
		}
		switch it.ID {
		case sel.SelectedID:
			box.Emissive, box.EmissiveIntensity = selectedEmissive, selectedEmissiveIntensity
			g.Add(box)
			g.Add(&Node{
				Name:     OutlineName,
				Shape:    ShapeOutline,
				Size:     box.Size.Mul(outlineScale),
				Position: box.Position,
				Rotation: box.Rotation,
				Color:    outlineColor,
				ItemID:   it.ID,
				ItemType: it.Type,
			})
			continue
		case sel.HoveredID:
			box.Emissive, box.EmissiveIntensity = hoveredEmissive, hoveredEmissiveIntensity
		}
		g.Add(box)
	}
	return g
}

func (y *Synchronizer) buildTreatments(snap studio.Snapshot) *Node {
	g := NewGroup(TreatmentsName)
	for _, it := range snap.Treatments {
		a, ok := y.catalog.Treatment(it.Type)
		if !ok {
			y.log.Debug().Str("id", it.ID).Str("type", it.Type).Msg("skipping treatment of unknown type")
			continue
		}
		s := float32(a.Size)
		size := mgl32.Vec3{s, s, panelThickness}
		if a.MountsOnCeiling {
			size = mgl32.Vec3{s, panelThickness, s}
		}
		g.Add(&Node{
			Name:     it.ID,
			Shape:    ShapeBox,
			Size:     size,
			Position: mgl32.Vec3{float32(it.X), float32(it.Y), float32(it.Z)},
			Color:    a.Color.RGBA(),
			ItemID:   it.ID,
			ItemType: it.Type,
		})
	}
	return g
}

func (y *Synchronizer) syncEnvironment(snap studio.Snapshot) {
	p := theme.Resolve(snap.Theme)
	if p.Name != snap.Theme {
		y.log.Debug().Str("theme", snap.Theme).Str("using", p.Name).Msg("unknown theme")
	}
	env := &y.scene.Env
	env.Background = p.Background
	env.Fog = p.Fog
	env.GridCenter = p.GridCenter
	env.GridLines = p.GridLines
	env.Ambient = mgl32.Clamp(float32(snap.Lighting.Ambient)*p.AmbientScale, 0, 1)
}
