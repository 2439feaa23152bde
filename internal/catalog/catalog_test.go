package catalog

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Len(t, c.EquipmentKeys(), 8)
	assert.Equal(t, []string{"absorber", "bass-trap", "cloud", "diffuser"}, c.TreatmentKeys())

	mon, ok := c.Equipment("studio-monitor")
	require.True(t, ok)
	assert.Equal(t, Equipment{Name: "Studio Monitor", Width: 0.3, Depth: 0.25, Height: 0.4, Color: Color{R: 0x1a, G: 0x1a, B: 0x1a, A: 255}}, mon)

	cloud, ok := c.Treatment("cloud")
	require.True(t, ok)
	assert.True(t, cloud.MountsOnCeiling)
	assert.Equal(t, 1.2, cloud.Size)

	trap, _ := c.Treatment("bass-trap")
	assert.False(t, trap.MountsOnCeiling)

	_, ok = c.Equipment("theremin")
	assert.False(t, ok)
	assert.False(t, c.HasTreatment("carpet"))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#8b4513")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x8b, G: 0x45, B: 0x13, A: 255}, c.RGBA())

	c, err = ParseColor("0x0a0a0a")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x0a), c.G)

	c, err = ParseColor("#fa0")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0xff, G: 0xaa, B: 0x00, A: 255}, c)

	for _, bad := range []string{"8b4513", "#12345", "#zzzzzz", ""} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrBadColor, bad)
	}
}

func TestColorYAMLRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(Equipment{Name: "Desk", Width: 1, Depth: 1, Height: 1, Color: Color{R: 0x12, G: 0x34, B: 0x56, A: 255}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "#123456")

	var back Equipment
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, Color{R: 0x12, G: 0x34, B: 0x56, A: 255}, back.Color)
}

func TestParseRejectsBadColor(t *testing.T) {
	_, err := Parse([]byte("equipment:\n  x:\n    color: red\n"))
	assert.ErrorIs(t, err, ErrBadColor)
}

func TestLoadOverlaysDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	doc := `
equipment:
  studio-monitor:
    name: Big Monitor
    width: 0.5
    depth: 0.4
    height: 0.7
    color: "#000000"
  synth:
    name: Modular Synth
    width: 1.2
    depth: 0.3
    height: 0.6
    color: "#445566"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.EquipmentKeys(), 9)
	mon, _ := c.Equipment("studio-monitor")
	assert.Equal(t, "Big Monitor", mon.Name)
	assert.True(t, c.HasEquipment("synth"))
	assert.True(t, c.HasTreatment("cloud"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	c, err := Load("")
	require.NoError(t, err)
	assert.True(t, c.HasEquipment("mixing-console"))
}
