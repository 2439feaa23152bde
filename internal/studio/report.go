package studio

import (
	"fmt"
	"math"
)

// Report is the summary shown next to the room.
type Report struct {
	Volume     float64
	Frequency  float64
	Equipment  int
	Treatments int
}

// Report summarizes the snapshot.
func (s Snapshot) Report() Report {
	return Report{
		Volume:     s.Room.Volume(),
		Frequency:  s.Room.FundamentalFrequency(),
		Equipment:  len(s.Equipment),
		Treatments: len(s.Treatments),
	}
}

// Lines renders the report for display.
func (r Report) Lines() []string {
	return []string{
		fmt.Sprintf("Volume: %.2f m³", r.Volume),
		fmt.Sprintf("Fund. freq: %.1f Hz", r.Frequency),
		fmt.Sprintf("Equipment: %d", r.Equipment),
		fmt.Sprintf("Treatments: %d", r.Treatments),
	}
}

// Degrees returns the item's rotation in degrees.
func (it EquipmentItem) Degrees() float64 {
	return it.Rotation * 180 / math.Pi
}

// Describe renders the inspector readout for the item. name is its catalog display name.
func (it EquipmentItem) Describe(name string) []string {
	return []string{
		fmt.Sprintf("%s (%s)", name, it.Type),
		fmt.Sprintf("X %.2f  Y %.2f  Z %.2f", it.X, it.Y, it.Z),
		fmt.Sprintf("Rotation %.0f°", it.Degrees()),
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
