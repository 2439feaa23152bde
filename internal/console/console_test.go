package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-emulator/internal/catalog"
	"studio-emulator/internal/commands"
	"studio-emulator/internal/studio"
	"studio-emulator/internal/theme"
)

type view struct {
	grid     bool
	fps, mem bool
	saved    int
}

func newConsole(t *testing.T) (*commands.Registry, *studio.Store, *view) {
	t.Helper()
	cat := catalog.Default()
	s := studio.NewStore(studio.DefaultRoom(), theme.Default, studio.DefaultLighting())
	s.KnownEquipment = cat.HasEquipment
	s.KnownTreatment = cat.HasTreatment
	s.KnownTheme = theme.Known
	ids := []string{"aaaa1111", "aaaa2222", "bbbb3333", "cccc4444"}
	s.NewID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	s.Flush()

	v := &view{}
	reg := commands.NewRegistry()
	Register(reg, Deps{
		Store:   s,
		Catalog: cat,
		SetGrid: func(on bool) { v.grid = on },
		SetFPS:  func(fps, mem bool) { v.fps, v.mem = fps, mem },
		SavePrefs: func() (string, error) {
			v.saved++
			return "config/studio.yaml", nil
		},
	})
	return reg, s, v
}

func run(t *testing.T, reg *commands.Registry, line string) (string, error) {
	t.Helper()
	args, ok := commands.Parse(line)
	require.True(t, ok)
	return reg.Execute(args)
}

func TestAddMoveRotateRemove(t *testing.T) {
	reg, s, _ := newConsole(t)

	out, err := run(t, reg, "add studio-desk")
	require.NoError(t, err)
	assert.Equal(t, "added studio-desk aaaa1111", out)
	_, d := s.Flush()
	assert.True(t, d.Has(studio.DirtyEquipment))

	_, err = run(t, reg, "add spaceship")
	assert.ErrorIs(t, err, studio.ErrUnknownType)

	out, err = run(t, reg, "move aaaa1111 1.5 -2")
	require.NoError(t, err)
	assert.Equal(t, "moved aaaa1111 to 1.50 0.00 -2.00", out)

	out, err = run(t, reg, "move -y 0.75 aaaa1111 1 1")
	require.NoError(t, err)
	assert.Equal(t, "moved aaaa1111 to 1.00 0.75 1.00", out)

	// -y does not stick to the next run.
	out, err = run(t, reg, "move aaaa1111 2 2")
	require.NoError(t, err)
	assert.Equal(t, "moved aaaa1111 to 2.00 0.75 2.00", out)

	out, err = run(t, reg, "rotate aaaa1111 -90")
	require.NoError(t, err)
	assert.Equal(t, "rotated aaaa1111 to 270°", out)

	_, err = run(t, reg, "rotate aaaa1111 left")
	assert.ErrorIs(t, err, commands.ErrUsage)

	_, err = run(t, reg, "remove aaaa1111")
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Equipment)

	_, err = run(t, reg, "remove aaaa1111")
	assert.ErrorIs(t, err, studio.ErrUnknownItem)
}

func TestIDPrefixes(t *testing.T) {
	reg, s, _ := newConsole(t)
	for range 3 {
		_, err := run(t, reg, "add mic-stand")
		require.NoError(t, err)
	}

	out, err := run(t, reg, "select bbbb")
	require.NoError(t, err)
	assert.Equal(t, "Microphone Stand (mic-stand)  X 0.00  Y 0.00  Z 0.00  Rotation 0°", out)
	assert.Equal(t, "bbbb3333", s.Snapshot().Selection.SelectedID)

	_, err = run(t, reg, "select aaaa")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = run(t, reg, "select aaa")
	assert.ErrorIs(t, err, studio.ErrUnknownItem)

	_, err = run(t, reg, "select none")
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Selection.SelectedID)
}

func TestRoomThemeAmbient(t *testing.T) {
	reg, s, _ := newConsole(t)

	out, err := run(t, reg, "room 5 7 3.5")
	require.NoError(t, err)
	assert.Equal(t, "room 5.00 x 7.00 x 3.50 m", out)
	assert.Equal(t, studio.RoomDimensions{Width: 5, Length: 7, Height: 3.5}, s.Snapshot().Room)

	_, err = run(t, reg, "room 5 7")
	assert.ErrorIs(t, err, commands.ErrUsage)
	_, err = run(t, reg, "room 50 7 3")
	assert.ErrorIs(t, err, studio.ErrRoomBounds)

	_, err = run(t, reg, "theme control-room")
	require.NoError(t, err)
	assert.Equal(t, "control-room", s.Snapshot().Theme)
	out, err = run(t, reg, "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "(current control-room)")

	_, err = run(t, reg, "ambient 0.6")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, s.Snapshot().Lighting.Ambient, 1e-12)
	_, err = run(t, reg, "ambient 2")
	assert.ErrorIs(t, err, studio.ErrAmbientBounds)
}

func TestTreatments(t *testing.T) {
	reg, s, _ := newConsole(t)

	out, err := run(t, reg, "treat absorber")
	require.NoError(t, err)
	assert.Equal(t, "added absorber aaaa1111", out)

	out, err = run(t, reg, "list treatments")
	require.NoError(t, err)
	assert.Equal(t, "aaaa1111 absorber (2.50, 1.50, 0.00)", out)

	_, err = run(t, reg, "untreat aaaa1111")
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Treatments)
}

func TestViewCommands(t *testing.T) {
	reg, _, v := newConsole(t)

	_, err := run(t, reg, "grid on")
	require.NoError(t, err)
	assert.True(t, v.grid)

	_, err = run(t, reg, "fps -mem on")
	require.NoError(t, err)
	assert.True(t, v.fps)
	assert.True(t, v.mem)

	_, err = run(t, reg, "fps on")
	require.NoError(t, err)
	assert.False(t, v.mem)

	out, err := run(t, reg, "save-prefs")
	require.NoError(t, err)
	assert.Equal(t, "saved config/studio.yaml", out)
	assert.Equal(t, 1, v.saved)

	out, err = run(t, reg, "list")
	require.NoError(t, err)
	assert.Equal(t, "(none)", out)

	_, err = run(t, reg, "list planets")
	assert.ErrorIs(t, err, commands.ErrUsage)
}
