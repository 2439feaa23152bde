// Package console registers the studio editing commands typed into the in-app terminal.
package console

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"strings"

	"studio-emulator/internal/catalog"
	"studio-emulator/internal/commands"
	"studio-emulator/internal/studio"
	"studio-emulator/internal/theme"
)

// ErrAmbiguousID is returned when an id prefix matches more than one item.
var ErrAmbiguousID = errors.New("ambiguous id")

// minPrefix is the shortest id prefix accepted in place of a full id.
const minPrefix = 4

// Deps are what the commands act on. View hooks may be nil, in which case their commands
// report that the feature is unavailable.
type Deps struct {
	Store   *studio.Store
	Catalog *catalog.Catalog

	SetGrid   func(visible bool)
	SetFPS    func(fps, mem bool)
	SavePrefs func() (path string, err error)
}

type console struct{ Deps }

// Register adds the studio commands to reg.
func Register(reg *commands.Registry, d Deps) {
	c := console{d}
	reg.Register("room", "room <width> <length> <height>", nil, c.room)
	reg.Register("add", "add <equipment-type>", nil, c.add)
	reg.Register("treat", "treat <treatment-type>", nil, c.treat)
	reg.Register("remove", "remove <id>", nil, c.remove)
	reg.Register("untreat", "untreat <id>", nil, c.untreat)
	reg.Register("rotate", "rotate <id> <degrees>", nil, c.rotate)
	reg.Register("select", "select <id|none>", nil, c.sel)
	reg.Register("theme", "theme [name]", nil, c.theme)
	reg.Register("ambient", "ambient <0..1>", nil, c.ambient)
	reg.Register("grid", "grid on|off", nil, c.grid)
	reg.Register("list", "list [equipment|treatments|types]", nil, c.list)
	reg.Register("save-prefs", "save-prefs", nil, c.savePrefs)

	moveFlags := flag.NewFlagSet("move", flag.ContinueOnError)
	// NaN means -y was not given, so the elevation is left alone.
	moveY := moveFlags.Float64("y", math.NaN(), "elevation in meters")
	reg.Register("move", "move [-y height] <id> <x> <z>", moveFlags, func(args []string) (string, error) {
		return c.move(args, *moveY)
	})

	fpsFlags := flag.NewFlagSet("fps", flag.ContinueOnError)
	withMem := fpsFlags.Bool("mem", false, "also show heap allocation")
	reg.Register("fps", "fps [-mem] on|off", fpsFlags, func(args []string) (string, error) {
		return c.fps(args, *withMem)
	})
}

func (c console) room(args []string) (string, error) {
	var dims [3]float64
	for i, name := range []string{"width", "length", "height"} {
		v, err := commands.Float(args, i, name)
		if err != nil {
			return "", err
		}
		dims[i] = v
	}
	r := studio.RoomDimensions{Width: dims[0], Length: dims[1], Height: dims[2]}
	if err := c.Store.SetRoom(r); err != nil {
		return "", err
	}
	return fmt.Sprintf("room %.2f x %.2f x %.2f m", r.Width, r.Length, r.Height), nil
}

func (c console) add(args []string) (string, error) {
	typ, err := commands.Arg(args, 0, "equipment-type")
	if err != nil {
		return "", err
	}
	it, err := c.Store.AddEquipment(typ)
	if err != nil {
		return "", err
	}
	return "added " + it.Type + " " + it.ID, nil
}

func (c console) treat(args []string) (string, error) {
	typ, err := commands.Arg(args, 0, "treatment-type")
	if err != nil {
		return "", err
	}
	it, err := c.Store.AddTreatment(typ)
	if err != nil {
		return "", err
	}
	return "added " + it.Type + " " + it.ID, nil
}

func (c console) remove(args []string) (string, error) {
	id, err := c.equipmentID(args)
	if err != nil {
		return "", err
	}
	if err := c.Store.RemoveEquipment(id); err != nil {
		return "", err
	}
	return "removed " + id, nil
}

func (c console) untreat(args []string) (string, error) {
	prefix, err := commands.Arg(args, 0, "id")
	if err != nil {
		return "", err
	}
	var ids []string
	for _, it := range c.Store.Snapshot().Treatments {
		ids = append(ids, it.ID)
	}
	id, err := resolve(prefix, ids)
	if err != nil {
		return "", err
	}
	if err := c.Store.RemoveTreatment(id); err != nil {
		return "", err
	}
	return "removed " + id, nil
}

func (c console) move(args []string, y float64) (string, error) {
	id, err := c.equipmentID(args)
	if err != nil {
		return "", err
	}
	x, err := commands.Float(args, 1, "x")
	if err != nil {
		return "", err
	}
	z, err := commands.Float(args, 2, "z")
	if err != nil {
		return "", err
	}
	p := studio.PositionPatch{X: &x, Z: &z}
	if !math.IsNaN(y) {
		p.Y = &y
	}
	if err := c.Store.UpdateEquipmentPosition(id, p); err != nil {
		return "", err
	}
	it, _ := c.Store.Snapshot().FindEquipment(id)
	return fmt.Sprintf("moved %s to %.2f %.2f %.2f", id, it.X, it.Y, it.Z), nil
}

func (c console) rotate(args []string) (string, error) {
	id, err := c.equipmentID(args)
	if err != nil {
		return "", err
	}
	deg, err := commands.Float(args, 1, "degrees")
	if err != nil {
		return "", err
	}
	if err := c.Store.UpdateEquipmentRotation(id, studio.Radians(deg)); err != nil {
		return "", err
	}
	it, _ := c.Store.Snapshot().FindEquipment(id)
	return fmt.Sprintf("rotated %s to %.0f°", id, it.Degrees()), nil
}

func (c console) sel(args []string) (string, error) {
	arg, err := commands.Arg(args, 0, "id")
	if err != nil {
		return "", err
	}
	if arg == "none" {
		return "selection cleared", c.Store.Select("")
	}
	id, err := c.equipmentID(args)
	if err != nil {
		return "", err
	}
	if err := c.Store.Select(id); err != nil {
		return "", err
	}
	it, _ := c.Store.Snapshot().FindEquipment(id)
	return strings.Join(it.Describe(c.equipmentName(it.Type)), "  "), nil
}

func (c console) theme(args []string) (string, error) {
	if len(args) == 0 {
		return "themes: " + strings.Join(theme.Names(), " ") + " (current " + c.Store.Snapshot().Theme + ")", nil
	}
	if err := c.Store.SetTheme(args[0]); err != nil {
		return "", err
	}
	return "theme " + args[0], nil
}

func (c console) ambient(args []string) (string, error) {
	v, err := commands.Float(args, 0, "intensity")
	if err != nil {
		return "", err
	}
	if err := c.Store.SetAmbient(v); err != nil {
		return "", err
	}
	return fmt.Sprintf("ambient %.2f", v), nil
}

func (c console) grid(args []string) (string, error) {
	on, err := commands.Bool(args, 0, "state")
	if err != nil {
		return "", err
	}
	if c.SetGrid == nil {
		return "grid unavailable", nil
	}
	c.SetGrid(on)
	return fmt.Sprintf("grid %s", onOff(on)), nil
}

func (c console) fps(args []string, mem bool) (string, error) {
	on, err := commands.Bool(args, 0, "state")
	if err != nil {
		return "", err
	}
	if c.SetFPS == nil {
		return "fps unavailable", nil
	}
	c.SetFPS(on, on && mem)
	return fmt.Sprintf("fps %s", onOff(on)), nil
}

func (c console) list(args []string) (string, error) {
	what := "equipment"
	if len(args) > 0 {
		what = args[0]
	}
	snap := c.Store.Snapshot()
	var lines []string
	switch what {
	case "equipment":
		for _, it := range snap.Equipment {
			lines = append(lines, fmt.Sprintf("%s %s (%.2f, %.2f, %.2f) %.0f°", short(it.ID), it.Type, it.X, it.Y, it.Z, it.Degrees()))
		}
	case "treatments":
		for _, it := range snap.Treatments {
			lines = append(lines, fmt.Sprintf("%s %s (%.2f, %.2f, %.2f)", short(it.ID), it.Type, it.X, it.Y, it.Z))
		}
	case "types":
		lines = append(lines,
			"equipment: "+strings.Join(c.Catalog.EquipmentKeys(), " "),
			"treatments: "+strings.Join(c.Catalog.TreatmentKeys(), " "))
	default:
		return "", fmt.Errorf("unknown list %q: %w", what, commands.ErrUsage)
	}
	if len(lines) == 0 {
		return "(none)", nil
	}
	return strings.Join(lines, "\n"), nil
}

func (c console) savePrefs([]string) (string, error) {
	if c.SavePrefs == nil {
		return "saving unavailable", nil
	}
	path, err := c.SavePrefs()
	if err != nil {
		return "", err
	}
	return "saved " + path, nil
}

func (c console) equipmentID(args []string) (string, error) {
	prefix, err := commands.Arg(args, 0, "id")
	if err != nil {
		return "", err
	}
	snap := c.Store.Snapshot()
	ids := make([]string, 0, len(snap.Equipment))
	for _, it := range snap.Equipment {
		ids = append(ids, it.ID)
	}
	return resolve(prefix, ids)
}

func (c console) equipmentName(typ string) string {
	if a, ok := c.Catalog.Equipment(typ); ok {
		return a.Name
	}
	return typ
}

// resolve returns the id equal to s, or the only id starting with s when s is long enough.
func resolve(s string, ids []string) (string, error) {
	var match string
	for _, id := range ids {
		if id == s {
			return id, nil
		}
		if len(s) >= minPrefix && strings.HasPrefix(id, s) {
			if match != "" {
				return "", fmt.Errorf("console: %q: %w", s, ErrAmbiguousID)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("console: %q: %w", s, studio.ErrUnknownItem)
	}
	return match, nil
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
