package theme

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFallsBackToDefault(t *testing.T) {
	p := Resolve("no-such-theme")
	assert.Equal(t, Default, p.Name)
	assert.Equal(t, color.RGBA{R: 0x0a, G: 0x0a, B: 0x0a, A: 255}, p.Background)

	_, ok := Lookup("no-such-theme")
	assert.False(t, ok)
}

func TestPalettesAreComplete(t *testing.T) {
	assert.Equal(t, []string{"control-room", "studio-dark", "studio-light"}, Names())
	for _, n := range Names() {
		p, ok := Lookup(n)
		assert.True(t, ok)
		assert.True(t, Known(n))
		assert.Equal(t, n, p.Name)
		assert.Positive(t, p.AmbientScale, n)
		for _, c := range []color.RGBA{p.Background, p.Fog, p.Floor, p.Wall, p.GridCenter, p.GridLines} {
			assert.Equal(t, uint8(255), c.A, n)
		}
	}
}
