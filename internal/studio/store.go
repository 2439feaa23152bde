package studio

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Dirty is a set of snapshot parts that changed since the last Flush.
type Dirty uint8

const (
	DirtyRoom Dirty = 1 << iota
	DirtyEquipment
	DirtyTreatments
	DirtyEnvironment

	DirtyAll = DirtyRoom | DirtyEquipment | DirtyTreatments | DirtyEnvironment
)

// Has reports whether every bit of k is set in d.
func (d Dirty) Has(k Dirty) bool {
	return d&k == k && k != 0
}

func (d Dirty) String() string {
	if d == 0 {
		return "none"
	}
	var parts []string
	for _, p := range []struct {
		bit  Dirty
		name string
	}{{DirtyRoom, "room"}, {DirtyEquipment, "equipment"}, {DirtyTreatments, "treatments"}, {DirtyEnvironment, "environment"}} {
		if d&p.bit != 0 {
			parts = append(parts, p.name)
		}
	}
	return fmt.Sprint(parts)
}

// Store owns the studio state. Every mutation publishes a new Snapshot and records which parts
// changed; the frame loop drains those with Flush so several edits in one frame cost one rebuild.
// A Store is not safe for concurrent use: mutate it from the frame thread only.
type Store struct {
	snap  Snapshot
	dirty Dirty

	// NewID generates item ids. Defaults to random UUIDs.
	NewID func() string
	// KnownEquipment, KnownTreatment and KnownTheme, when set, reject keys the catalogs do not have.
	KnownEquipment func(typ string) bool
	KnownTreatment func(typ string) bool
	KnownTheme     func(name string) bool
}

// NewStore returns a store holding an empty studio with the given room, theme and lighting.
// The first Flush reports everything dirty so the initial scene gets built.
func NewStore(room RoomDimensions, theme string, lighting LightingConfig) *Store {
	return &Store{
		snap: Snapshot{
			Room:     room,
			Theme:    theme,
			Lighting: lighting,
		},
		dirty: DirtyAll,
		NewID: uuid.NewString,
	}
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot {
	return s.snap
}

// Pending returns the parts changed since the last Flush without clearing them.
func (s *Store) Pending() Dirty {
	return s.dirty
}

// Flush returns the current snapshot and the parts changed since the previous Flush, then clears them.
func (s *Store) Flush() (Snapshot, Dirty) {
	d := s.dirty
	s.dirty = 0
	return s.snap, d
}

// SetRoom replaces the room dimensions after validating them.
func (s *Store) SetRoom(r RoomDimensions) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("studio: set room: %w", err)
	}
	if r == s.snap.Room {
		return nil
	}
	s.snap.Room = r
	s.dirty |= DirtyRoom
	return nil
}

// AddEquipment places a new item of type typ at the origin with no rotation.
func (s *Store) AddEquipment(typ string) (EquipmentItem, error) {
	if s.KnownEquipment != nil && !s.KnownEquipment(typ) {
		return EquipmentItem{}, fmt.Errorf("studio: add equipment %q: %w", typ, ErrUnknownType)
	}
	item := EquipmentItem{ID: s.NewID(), Type: typ}
	s.snap.Equipment = append(slices.Clip(s.snap.Equipment), item)
	s.dirty |= DirtyEquipment
	return item, nil
}

// RemoveEquipment deletes the item with the given id and clears it from the selection.
func (s *Store) RemoveEquipment(id string) error {
	i := s.equipmentIndex(id)
	if i < 0 {
		return fmt.Errorf("studio: remove equipment %q: %w", id, ErrUnknownItem)
	}
	s.snap.Equipment = slices.Delete(slices.Clone(s.snap.Equipment), i, i+1)
	if s.snap.Selection.SelectedID == id {
		s.snap.Selection.SelectedID = ""
	}
	if s.snap.Selection.HoveredID == id {
		s.snap.Selection.HoveredID = ""
	}
	s.dirty |= DirtyEquipment
	return nil
}

// UpdateEquipmentPosition changes the patched axes of one item.
func (s *Store) UpdateEquipmentPosition(id string, p PositionPatch) error {
	i := s.equipmentIndex(id)
	if i < 0 {
		return fmt.Errorf("studio: move equipment %q: %w", id, ErrUnknownItem)
	}
	next := p.Apply(s.snap.Equipment[i])
	if next == s.snap.Equipment[i] {
		return nil
	}
	s.replaceEquipment(i, next)
	return nil
}

// UpdateEquipmentRotation sets the rotation of one item, wrapped into [0, 2π).
func (s *Store) UpdateEquipmentRotation(id string, radians float64) error {
	i := s.equipmentIndex(id)
	if i < 0 {
		return fmt.Errorf("studio: rotate equipment %q: %w", id, ErrUnknownItem)
	}
	next := s.snap.Equipment[i]
	next.Rotation = NormalizeAngle(radians)
	if next == s.snap.Equipment[i] {
		return nil
	}
	s.replaceEquipment(i, next)
	return nil
}

// AddTreatment mounts a new treatment of type typ at the default wall position for the current room.
func (s *Store) AddTreatment(typ string) (TreatmentItem, error) {
	if s.KnownTreatment != nil && !s.KnownTreatment(typ) {
		return TreatmentItem{}, fmt.Errorf("studio: add treatment %q: %w", typ, ErrUnknownType)
	}
	x, y, z := DefaultTreatmentPosition(s.snap.Room)
	item := TreatmentItem{ID: s.NewID(), Type: typ, X: x, Y: y, Z: z}
	s.snap.Treatments = append(slices.Clip(s.snap.Treatments), item)
	s.dirty |= DirtyTreatments
	return item, nil
}

// RemoveTreatment deletes the treatment with the given id.
func (s *Store) RemoveTreatment(id string) error {
	i := slices.IndexFunc(s.snap.Treatments, func(t TreatmentItem) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("studio: remove treatment %q: %w", id, ErrUnknownItem)
	}
	s.snap.Treatments = slices.Delete(slices.Clone(s.snap.Treatments), i, i+1)
	s.dirty |= DirtyTreatments
	return nil
}

// SetTheme switches the active palette.
func (s *Store) SetTheme(name string) error {
	if s.KnownTheme != nil && !s.KnownTheme(name) {
		return fmt.Errorf("studio: set theme %q: %w", name, ErrUnknownType)
	}
	if name == s.snap.Theme {
		return nil
	}
	s.snap.Theme = name
	// Room and grid colors come from the palette too.
	s.dirty |= DirtyEnvironment | DirtyRoom
	return nil
}

// SetAmbient sets the ambient light intensity.
func (s *Store) SetAmbient(v float64) error {
	l := LightingConfig{Ambient: v}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("studio: set ambient: %w", err)
	}
	if l == s.snap.Lighting {
		return nil
	}
	s.snap.Lighting = l
	s.dirty |= DirtyEnvironment
	return nil
}

// Select makes id the selected item. An empty id clears the selection.
func (s *Store) Select(id string) error {
	if id != "" && s.equipmentIndex(id) < 0 {
		return fmt.Errorf("studio: select %q: %w", id, ErrUnknownItem)
	}
	if id == s.snap.Selection.SelectedID {
		return nil
	}
	s.snap.Selection.SelectedID = id
	s.dirty |= DirtyEquipment
	return nil
}

// Hover records the item under the pointer. An empty id clears it.
func (s *Store) Hover(id string) {
	if id != "" && s.equipmentIndex(id) < 0 {
		id = ""
	}
	if id == s.snap.Selection.HoveredID {
		return
	}
	s.snap.Selection.HoveredID = id
	s.dirty |= DirtyEquipment
}

func (s *Store) equipmentIndex(id string) int {
	return slices.IndexFunc(s.snap.Equipment, func(it EquipmentItem) bool { return it.ID == id })
}

// replaceEquipment copies the slice before writing so published snapshots stay untouched.
func (s *Store) replaceEquipment(i int, item EquipmentItem) {
	next := slices.Clone(s.snap.Equipment)
	next[i] = item
	s.snap.Equipment = next
	s.dirty |= DirtyEquipment
}
