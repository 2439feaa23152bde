package studio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportLines(t *testing.T) {
	s := Snapshot{
		Room:       DefaultRoom(),
		Equipment:  []EquipmentItem{{ID: "a"}, {ID: "b"}},
		Treatments: []TreatmentItem{{ID: "c"}},
	}
	assert.Equal(t, []string{
		"Volume: 144.00 m³",
		"Fund. freq: 21.4 Hz",
		"Equipment: 2",
		"Treatments: 1",
	}, s.Report().Lines())
}

func TestDescribe(t *testing.T) {
	it := EquipmentItem{ID: "a", Type: "studio-desk", X: 1, Y: 0, Z: -2.346, Rotation: math.Pi / 2}
	assert.Equal(t, []string{
		"Studio Desk (studio-desk)",
		"X 1.00  Y 0.00  Z -2.35",
		"Rotation 90°",
	}, it.Describe("Studio Desk"))
	assert.InDelta(t, math.Pi/4, Radians(45), 1e-12)
}
