package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-gl/mathgl/mgl32"

	"studio-emulator/internal/catalog"
	"studio-emulator/internal/commands"
	"studio-emulator/internal/console"
	"studio-emulator/internal/engine"
	"studio-emulator/internal/engineconfig"
	"studio-emulator/internal/graphics"
	"studio-emulator/internal/hud"
	"studio-emulator/internal/input"
	"studio-emulator/internal/interact"
	"studio-emulator/internal/logger"
	"studio-emulator/internal/render"
	"studio-emulator/internal/studio"
	"studio-emulator/internal/terminal"
	"studio-emulator/internal/theme"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "studio:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := engineconfig.Load(engineconfig.ConfigPath)
	if err != nil {
		return err
	}
	defer cfg.Close()
	prefs, err := cfg.Prefs()
	if err != nil {
		return err
	}
	log, err := logger.New(prefs.LogLevel, prefs.LogFile)
	if err != nil {
		return err
	}
	defer log.Close()
	zl := log.Zerolog()
	if err := prefs.Validate(); err != nil {
		zl.Warn().Err(err).Msg("studio prefs rejected, starting from the default studio")
		prefs.Studio = engineconfig.Default().Studio
	}

	cat, err := catalog.Load(prefs.CatalogPath)
	if err != nil {
		return err
	}

	store := studio.NewStore(prefs.Room(), prefs.Studio.Theme, studio.LightingConfig{Ambient: prefs.Studio.Ambient})
	store.KnownEquipment = cat.HasEquipment
	store.KnownTreatment = cat.HasTreatment
	store.KnownTheme = theme.Known

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	win := graphics.Open(graphics.Options{
		Width:      prefs.Window.Width,
		Height:     prefs.Window.Height,
		Fullscreen: prefs.Window.Fullscreen,
		TargetFPS:  prefs.Window.TargetFPS,
		Title:      prefs.Window.Title,
	})
	defer win.Close()
	width, height := win.Size()

	overlay := hud.New()
	bus := input.NewBus()
	report := func(action string) func(error) {
		return func(err error) {
			if err != nil {
				zl.Warn().Err(err).Str("action", action).Msg("studio update rejected")
			}
		}
	}
	eng := engine.New(ctx, engine.Options{
		Catalog: cat,
		Bus:     bus,
		Callbacks: interact.Callbacks{
			OnSelect: func(id string) { report("select")(store.Select(id)) },
			OnHover:  store.Hover,
			OnItemPositionChanged: func(id string, p studio.PositionPatch) {
				report("move")(store.UpdateEquipmentPosition(id, p))
			},
			OnItemRotationChanged: func(id string, rad float64) {
				report("rotate")(store.UpdateEquipmentRotation(id, rad))
			},
			OnContextMenu:     overlay.Menu.Open,
			OnContextMenuMiss: overlay.Menu.Close,
		},
		Width:       width,
		Height:      height,
		CameraStart: mgl32.Vec3{prefs.Camera.StartX, prefs.Camera.StartY, prefs.Camera.StartZ},
		Logger:      zl,
	})
	defer eng.Close()

	overlay.Menu.OnEdit = func(id string) { report("select")(store.Select(id)) }
	overlay.Menu.OnDelete = func(id string) { report("remove")(store.RemoveEquipment(id)) }
	bus.Subscribe(func(ev input.Event) {
		if ev.Kind != input.KeyPress || ev.Key != input.KeyDelete {
			return
		}
		if id := store.Snapshot().Selection.SelectedID; id != "" {
			report("remove")(store.RemoveEquipment(id))
		}
	})

	v := &view{prefs: prefs, overlay: overlay, eng: eng, log: log, store: store}
	v.apply(prefs)

	reg := commands.NewRegistry()
	console.Register(reg, console.Deps{
		Store:   store,
		Catalog: cat,
		SetGrid: v.setGrid,
		SetFPS:  v.setFPS,
		SavePrefs: func() (string, error) {
			return cfg.Path(), cfg.Save(v.current())
		},
	})
	term := terminal.New(log, reg)

	changes := make(chan engineconfig.Prefs, 1)
	err = cfg.Watch(func(p engineconfig.Prefs, err error) {
		if err != nil {
			zl.Warn().Err(err).Msg("config reload failed")
			return
		}
		// Keep only the newest; this is the sole sender.
		select {
		case <-changes:
		default:
		}
		changes <- p
	})
	if err != nil {
		zl.Warn().Err(err).Msg("config changes will not be picked up")
	}

	renderer := render.New()
	defer renderer.Close()
	var poller graphics.Poller

	zl.Info().Str("theme", prefs.Studio.Theme).Int("catalog", len(cat.EquipmentKeys())).Msg("studio ready")
	err = engine.Loop{
		Display: win,
		Frame: func(context.Context) error {
			select {
			case p := <-changes:
				v.reload(p)
			default:
			}
			consumed := overlay.Update()
			term.Update()
			poller.Poll(bus, graphics.Filter{BlockPointer: consumed, BlockKeys: term.IsOpen()})

			snap, dirty := store.Flush()
			eng.Apply(snap, dirty)
			if dirty != 0 {
				overlay.SetStats(snap.Report().Lines())
				overlay.SetInspector(inspect(snap, cat))
			}
			win.SetCursor(eng.Machine().Cursor())

			renderer.Draw(eng.Scene(), eng.Camera().Pose(), eng.Camera().Fov)
			overlay.Draw()
			term.Draw()
			return nil
		},
	}.Run(eng.Context())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zl.Info().Msg("studio closed")
	return nil
}

// inspect describes the selected item, or returns nil when nothing is selected.
func inspect(snap studio.Snapshot, cat *catalog.Catalog) []string {
	it, ok := snap.FindEquipment(snap.Selection.SelectedID)
	if !ok {
		return nil
	}
	name := it.Type
	if a, ok := cat.Equipment(it.Type); ok {
		name = a.Name
	}
	return it.Describe(name)
}

// view applies the view preferences to the running app and tracks them for save-prefs.
type view struct {
	prefs   engineconfig.Prefs
	overlay *hud.HUD
	eng     *engine.Engine
	log     *logger.Logger
	store   *studio.Store
}

func (v *view) apply(p engineconfig.Prefs) {
	v.prefs = p
	v.overlay.ShowFPS = p.ShowFPS
	v.overlay.ShowMemAlloc = p.ShowMemAlloc
	v.overlay.ShowStats = p.ShowStats
	v.eng.Scene().Env.GridVisible = p.GridVisible
	v.log.SetLevel(p.LogLevel)
}

// reload applies an edited config file. Theme and ambient go through the store so the scene
// picks them up; the room and window keep their running values.
func (v *view) reload(p engineconfig.Prefs) {
	zl := v.log.Zerolog()
	old := v.prefs
	v.apply(p)
	if p.Studio.Theme != old.Studio.Theme {
		if err := v.store.SetTheme(p.Studio.Theme); err != nil {
			zl.Warn().Err(err).Msg("config theme rejected")
		}
	}
	if p.Studio.Ambient != old.Studio.Ambient {
		if err := v.store.SetAmbient(p.Studio.Ambient); err != nil {
			zl.Warn().Err(err).Msg("config ambient rejected")
		}
	}
	zl.Info().Msg("config reloaded")
}

func (v *view) setGrid(on bool) {
	v.prefs.GridVisible = on
	v.eng.Scene().Env.GridVisible = on
}

func (v *view) setFPS(fps, mem bool) {
	v.prefs.ShowFPS, v.prefs.ShowMemAlloc = fps, mem
	v.overlay.ShowFPS, v.overlay.ShowMemAlloc = fps, mem
}

// current returns the preferences with the studio's live theme, ambient and room folded in.
func (v *view) current() engineconfig.Prefs {
	p := v.prefs
	snap := v.store.Snapshot()
	p.Studio.Theme = snap.Theme
	p.Studio.Ambient = snap.Lighting.Ambient
	p.Studio.Width, p.Studio.Length, p.Studio.Height = snap.Room.Width, snap.Room.Length, snap.Room.Height
	return p
}
