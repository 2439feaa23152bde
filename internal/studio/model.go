package studio

import (
	"errors"
	"fmt"
	"math"
)

// SpeedOfSound is the speed of sound in air at room temperature, in m/s.
const SpeedOfSound = 343.0

// Room bounds accepted at the input boundary. The engine itself never checks them.
const (
	MinRoomSide   = 3.0
	MaxRoomSide   = 20.0
	MinRoomHeight = 2.4
	MaxRoomHeight = 6.0
)

var (
	// ErrRoomBounds is returned when a room dimension is outside the accepted range.
	ErrRoomBounds = errors.New("room dimension out of range")
	// ErrAmbientBounds is returned when an ambient intensity is outside [0,1].
	ErrAmbientBounds = errors.New("ambient intensity out of range")
	// ErrUnknownItem is returned when an id does not name a placed item.
	ErrUnknownItem = errors.New("unknown item")
	// ErrUnknownType is returned when a type key is not in the catalog.
	ErrUnknownType = errors.New("unknown catalog type")
)

// RoomDimensions is the parametric room, in meters.
type RoomDimensions struct {
	Width  float64
	Length float64
	Height float64
}

// DefaultRoom returns the 6 × 8 × 3 m room a new studio starts with.
func DefaultRoom() RoomDimensions {
	return RoomDimensions{Width: 6, Length: 8, Height: 3}
}

// Volume returns width*length*height in cubic meters.
func (r RoomDimensions) Volume() float64 {
	return r.Width * r.Length * r.Height
}

// FundamentalFrequency estimates the lowest axial room mode in Hz from the longest room dimension.
func (r RoomDimensions) FundamentalFrequency() float64 {
	longest := math.Max(r.Width, math.Max(r.Length, r.Height))
	if longest <= 0 {
		return 0
	}
	return SpeedOfSound / (2 * longest)
}

// Validate rejects non-finite values and dimensions outside the accepted bounds.
func (r RoomDimensions) Validate() error {
	check := func(name string, v, lo, hi float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
			return fmt.Errorf("%s %v not in [%v, %v]: %w", name, v, lo, hi, ErrRoomBounds)
		}
		return nil
	}
	if err := check("width", r.Width, MinRoomSide, MaxRoomSide); err != nil {
		return err
	}
	if err := check("length", r.Length, MinRoomSide, MaxRoomSide); err != nil {
		return err
	}
	return check("height", r.Height, MinRoomHeight, MaxRoomHeight)
}

// EquipmentItem is a placed piece of equipment. Y is the elevation of the item's base above the floor
// and Rotation is in radians about the vertical axis.
type EquipmentItem struct {
	ID       string
	Type     string
	X        float64
	Y        float64
	Z        float64
	Rotation float64
}

// TreatmentItem is a placed acoustic treatment. Its position is the center of the panel.
type TreatmentItem struct {
	ID   string
	Type string
	X    float64
	Y    float64
	Z    float64
}

// DefaultTreatmentPosition is where a new treatment is mounted: on the right wall, half way up.
func DefaultTreatmentPosition(r RoomDimensions) (x, y, z float64) {
	return r.Width/2 - 0.5, r.Height / 2, 0
}

// LightingConfig holds user-controlled lighting.
type LightingConfig struct {
	Ambient float64
}

// DefaultLighting returns the starting ambient intensity.
func DefaultLighting() LightingConfig {
	return LightingConfig{Ambient: 0.4}
}

// Validate rejects an ambient intensity outside [0,1].
func (l LightingConfig) Validate() error {
	if math.IsNaN(l.Ambient) || l.Ambient < 0 || l.Ambient > 1 {
		return fmt.Errorf("ambient %v: %w", l.Ambient, ErrAmbientBounds)
	}
	return nil
}

// Selection is the single selected item and the item under the pointer. Empty means none.
type Selection struct {
	SelectedID string
	HoveredID  string
}

// PositionPatch names the axes of an item position that change. Nil axes keep their value.
type PositionPatch struct {
	X *float64
	Y *float64
	Z *float64
}

// Apply returns item with the patched axes replaced.
func (p PositionPatch) Apply(item EquipmentItem) EquipmentItem {
	if p.X != nil {
		item.X = *p.X
	}
	if p.Y != nil {
		item.Y = *p.Y
	}
	if p.Z != nil {
		item.Z = *p.Z
	}
	return item
}

// Snapshot is one immutable view of the studio. Slices are never mutated after a snapshot is published.
type Snapshot struct {
	Room       RoomDimensions
	Equipment  []EquipmentItem
	Treatments []TreatmentItem
	Theme      string
	Lighting   LightingConfig
	Selection  Selection
}

// FindEquipment returns the equipment item with the given id.
func (s Snapshot) FindEquipment(id string) (EquipmentItem, bool) {
	for _, it := range s.Equipment {
		if it.ID == id {
			return it, true
		}
	}
	return EquipmentItem{}, false
}

// FindTreatment returns the treatment with the given id.
func (s Snapshot) FindTreatment(id string) (TreatmentItem, bool) {
	for _, it := range s.Treatments {
		if it.ID == id {
			return it, true
		}
	}
	return TreatmentItem{}, false
}

// NormalizeAngle wraps radians into [0, 2π).
func NormalizeAngle(rad float64) float64 {
	a := math.Mod(rad, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
