package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// ErrBadColor is returned when a catalog color is not #RGB or #RRGGBB.
var ErrBadColor = errors.New("bad color")

// Color is an opaque RGB color written as "#RRGGBB" (or "#RGB") in catalog files.
type Color color.RGBA

// ParseColor parses #RGB or #RRGGBB; a leading "0x" is accepted in place of '#'.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		s = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
	default:
		return Color{}, fmt.Errorf("catalog: %q: %w", s, ErrBadColor)
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("catalog: %q: %w", s, ErrBadColor)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("catalog: %q: %w", s, ErrBadColor)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// UnmarshalYAML decodes a hex color scalar.
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the color as "#rrggbb".
func (c Color) MarshalYAML() (any, error) {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
}

// RGBA returns the color as an image/color value.
func (c Color) RGBA() color.RGBA {
	return color.RGBA(c)
}

// Equipment is the shape and color template of an equipment type. Width runs along X, depth along Z.
type Equipment struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Depth  float64 `yaml:"depth"`
	Height float64 `yaml:"height"`
	Color  Color   `yaml:"color"`
}

// Treatment is the template of an acoustic panel. Size is the edge of the square face.
type Treatment struct {
	Name            string  `yaml:"name"`
	Size            float64 `yaml:"size"`
	Color           Color   `yaml:"color"`
	MountsOnCeiling bool    `yaml:"ceiling,omitempty"`
}

// Catalog is a read-only lookup of archetypes by type key.
type Catalog struct {
	EquipmentTypes map[string]Equipment `yaml:"equipment"`
	TreatmentTypes map[string]Treatment `yaml:"treatments"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic("catalog: embedded catalog.yaml: " + err.Error())
	}
	return c
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if c.EquipmentTypes == nil {
		c.EquipmentTypes = make(map[string]Equipment)
	}
	if c.TreatmentTypes == nil {
		c.TreatmentTypes = make(map[string]Treatment)
	}
	return &c, nil
}

// Load reads a catalog file and layers it over the built-in catalog, so a file only needs the
// types it adds or overrides. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	base := Default()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	extra, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for k, v := range extra.EquipmentTypes {
		base.EquipmentTypes[k] = v
	}
	for k, v := range extra.TreatmentTypes {
		base.TreatmentTypes[k] = v
	}
	return base, nil
}

// Equipment looks up an equipment archetype. ok is false for unknown types.
func (c *Catalog) Equipment(typ string) (Equipment, bool) {
	e, ok := c.EquipmentTypes[typ]
	return e, ok
}

// Treatment looks up a treatment archetype. ok is false for unknown types.
func (c *Catalog) Treatment(typ string) (Treatment, bool) {
	t, ok := c.TreatmentTypes[typ]
	return t, ok
}

// HasEquipment reports whether typ is a known equipment type.
func (c *Catalog) HasEquipment(typ string) bool {
	_, ok := c.EquipmentTypes[typ]
	return ok
}

// HasTreatment reports whether typ is a known treatment type.
func (c *Catalog) HasTreatment(typ string) bool {
	_, ok := c.TreatmentTypes[typ]
	return ok
}

// EquipmentKeys returns the equipment type keys in sorted order.
func (c *Catalog) EquipmentKeys() []string {
	return sortedKeys(c.EquipmentTypes)
}

// TreatmentKeys returns the treatment type keys in sorted order.
func (c *Catalog) TreatmentKeys() []string {
	return sortedKeys(c.TreatmentTypes)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
