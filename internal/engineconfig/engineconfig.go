package engineconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"studio-emulator/internal/logger"
	"studio-emulator/internal/studio"
	"studio-emulator/internal/theme"
)

// ConfigPath is the default preferences file, relative to the process working directory.
const ConfigPath = "config/studio.yaml"

// EnvPrefix prefixes environment overrides, e.g. STUDIO_STUDIO_THEME=control-room.
const EnvPrefix = "STUDIO"

// Window holds display preferences.
type Window struct {
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	Fullscreen bool   `mapstructure:"fullscreen"`
	TargetFPS  int    `mapstructure:"target_fps"`
	Title      string `mapstructure:"title"`
}

// Camera holds the orbit camera start.
type Camera struct {
	StartX float32 `mapstructure:"start_x"`
	StartY float32 `mapstructure:"start_y"`
	StartZ float32 `mapstructure:"start_z"`
}

// Studio holds the initial studio state.
type Studio struct {
	Width   float64 `mapstructure:"width"`
	Length  float64 `mapstructure:"length"`
	Height  float64 `mapstructure:"height"`
	Theme   string  `mapstructure:"theme"`
	Ambient float64 `mapstructure:"ambient"`
}

// Prefs are the editor preferences persisted across runs. The studio layout itself is not saved.
type Prefs struct {
	Window       Window `mapstructure:"window"`
	Camera       Camera `mapstructure:"camera"`
	Studio       Studio `mapstructure:"studio"`
	CatalogPath  string `mapstructure:"catalog_path"`
	LogLevel     string `mapstructure:"log_level"`
	LogFile      string `mapstructure:"log_file"`
	ShowFPS      bool   `mapstructure:"show_fps"`
	ShowMemAlloc bool   `mapstructure:"show_memalloc"`
	ShowStats    bool   `mapstructure:"show_stats"`
	GridVisible  bool   `mapstructure:"grid_visible"`
}

// Default returns the built-in preferences.
func Default() Prefs {
	room := studio.DefaultRoom()
	return Prefs{
		Window:      Window{Width: 1280, Height: 800, TargetFPS: 60, Title: "Studio Emulator"},
		Camera:      Camera{StartX: 8, StartY: 6, StartZ: 8},
		Studio:      Studio{Width: room.Width, Length: room.Length, Height: room.Height, Theme: theme.Default, Ambient: studio.DefaultLighting().Ambient},
		LogLevel:    "info",
		LogFile:     logger.LogFilePath,
		ShowStats:   true,
		GridVisible: true,
	}
}

// Room returns the configured room dimensions.
func (p Prefs) Room() studio.RoomDimensions {
	return studio.RoomDimensions{Width: p.Studio.Width, Length: p.Studio.Length, Height: p.Studio.Height}
}

// settings flattens p into viper keys.
func (p Prefs) settings() map[string]any {
	return map[string]any{
		"window.width":      p.Window.Width,
		"window.height":     p.Window.Height,
		"window.fullscreen": p.Window.Fullscreen,
		"window.target_fps": p.Window.TargetFPS,
		"window.title":      p.Window.Title,
		"camera.start_x":    p.Camera.StartX,
		"camera.start_y":    p.Camera.StartY,
		"camera.start_z":    p.Camera.StartZ,
		"studio.width":      p.Studio.Width,
		"studio.length":     p.Studio.Length,
		"studio.height":     p.Studio.Height,
		"studio.theme":      p.Studio.Theme,
		"studio.ambient":    p.Studio.Ambient,
		"catalog_path":      p.CatalogPath,
		"log_level":         p.LogLevel,
		"log_file":          p.LogFile,
		"show_fps":          p.ShowFPS,
		"show_memalloc":     p.ShowMemAlloc,
		"show_stats":        p.ShowStats,
		"grid_visible":      p.GridVisible,
	}
}

// ErrInvalid is returned by Validate for preferences the studio cannot start from.
var ErrInvalid = errors.New("invalid preferences")

// Validate checks the studio section with the same bounds the store enforces.
func (p Prefs) Validate() error {
	var errs []error
	if err := p.Room().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := (studio.LightingConfig{Ambient: p.Studio.Ambient}).Validate(); err != nil {
		errs = append(errs, err)
	}
	if !theme.Known(p.Studio.Theme) {
		errs = append(errs, fmt.Errorf("theme %q: %w", p.Studio.Theme, studio.ErrUnknownType))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("engineconfig: %w: %w", ErrInvalid, errors.Join(errs...))
}

// Config reads preferences from one file plus STUDIO_* environment overrides. It is safe for
// concurrent use: the watcher re-reads on its own goroutine while the frame thread saves.
type Config struct {
	mu      sync.Mutex
	v       *viper.Viper
	path    string
	watcher *fsnotify.Watcher
}

// Load reads the preferences file at path. A missing file is not an error: defaults apply and
// Save will create it.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range Default().settings() {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	c := &Config{v: v, path: path}
	if err := c.read(); err != nil {
		return nil, err
	}
	return c, nil
}

// read re-reads the file into the live instance. Callers hold c.mu, except Load.
func (c *Config) read() error {
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("engineconfig: read %s: %w", c.path, err)
	}
	return nil
}

// Path returns the file the config reads and saves.
func (c *Config) Path() string {
	return c.path
}

// Prefs decodes the current preferences.
func (c *Config) Prefs() (Prefs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs()
}

func (c *Config) prefs() (Prefs, error) {
	var p Prefs
	if err := c.v.Unmarshal(&p); err != nil {
		return Default(), fmt.Errorf("engineconfig: decode: %w", err)
	}
	return p, nil
}

// Save writes p to the config file, creating its directory if needed. The file is written from
// a scratch instance so later edits to it still win over what was saved.
func (c *Config) Save(p Prefs) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("engineconfig: create config dir: %w", err)
	}
	out := viper.New()
	out.SetConfigType("yaml")
	for k, val := range p.settings() {
		out.Set(k, val)
	}
	if err := out.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("engineconfig: write %s: %w", c.path, err)
	}
	return c.read()
}

// reload re-reads the file and decodes it under the lock.
func (c *Config) reload() (Prefs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.read(); err != nil {
		return Default(), err
	}
	return c.prefs()
}

// Watch calls fn with the re-read preferences whenever the file is written. fn runs on the
// watcher's goroutine; hand the value to the frame thread before touching engine state.
// The directory is watched rather than the file so editors that replace the file are seen.
func (c *Config) Watch(fn func(Prefs, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher != nil {
		return nil
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("engineconfig: create config dir: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("engineconfig: watch: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("engineconfig: watch %s: %w", dir, err)
	}
	c.watcher = w
	target := filepath.Clean(c.path)
	go func() {
		for {
			select {
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(e.Name) != target || !(e.Has(fsnotify.Write) || e.Has(fsnotify.Create)) {
					continue
				}
				fn(c.reload())
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				fn(Default(), fmt.Errorf("engineconfig: watch: %w", err))
			}
		}
	}()
	return nil
}

// Close stops watching. It is safe to call more than once.
func (c *Config) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	c.watcher = nil
	return err
}
