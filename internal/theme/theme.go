package theme

import (
	"image/color"
	"slices"
)

// Default is the palette used when none is configured or the configured one is unknown.
const Default = "studio-dark"

// Palette is the set of render colors a theme supplies.
type Palette struct {
	Name       string
	Background color.RGBA
	Fog        color.RGBA
	Floor      color.RGBA
	Wall       color.RGBA
	GridCenter color.RGBA
	GridLines  color.RGBA
	// AmbientScale multiplies the user's ambient intensity.
	AmbientScale float32
}

func hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

var palettes = map[string]Palette{
	"studio-dark": {
		Name:         "studio-dark",
		Background:   hex(0x0a0a0a),
		Fog:          hex(0x0a0a0a),
		Floor:        hex(0x1a1a1a),
		Wall:         hex(0x2a2a2a),
		GridCenter:   hex(0x444444),
		GridLines:    hex(0x222222),
		AmbientScale: 1,
	},
	"studio-light": {
		Name:         "studio-light",
		Background:   hex(0xeceff1),
		Fog:          hex(0xeceff1),
		Floor:        hex(0xb0a89a),
		Wall:         hex(0xe0ddd5),
		GridCenter:   hex(0x888888),
		GridLines:    hex(0xbbbbbb),
		AmbientScale: 1.25,
	},
	"control-room": {
		Name:         "control-room",
		Background:   hex(0x0b1320),
		Fog:          hex(0x0b1320),
		Floor:        hex(0x2b1d14),
		Wall:         hex(0x1d2a3a),
		GridCenter:   hex(0x3d5a80),
		GridLines:    hex(0x1b2a40),
		AmbientScale: 0.9,
	},
}

// Lookup returns the named palette.
func Lookup(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// Resolve returns the named palette, or the default one when the name is unknown.
func Resolve(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[Default]
}

// Known reports whether name is a palette.
func Known(name string) bool {
	_, ok := palettes[name]
	return ok
}

// Names returns all palette names, sorted.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
