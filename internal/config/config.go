// Package config holds the settings shared by the qdcad editor and the
// qdstruct command line tool.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"qdcad/internal/core"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "QDCAD_"

// Window is the initial editor window size in pixels.
type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Document holds the field values given to newly created documents.
type Document struct {
	Architecture string            `yaml:"architecture"`
	SimParams    map[string]string `yaml:"sim_params"`
}

// Config represents the editor and tool settings.
type Config struct {
	CellSize         int           `yaml:"cell_size"`
	Layers           int           `yaml:"layers"`
	Window           Window        `yaml:"window"`
	PanelWidth       int           `yaml:"panel_width"`
	TPS              int           `yaml:"tps"`
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
	Watch            bool          `yaml:"watch"`
	Debounce         time.Duration `yaml:"debounce"`
	LogLevel         string        `yaml:"log_level"`
	Document         Document      `yaml:"document"`
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		CellSize:   50,
		Layers:     3,
		Window:     Window{Width: 1024, Height: 768},
		PanelWidth: 220,
		TPS:        60,
		Watch:      true,
		Debounce:   150 * time.Millisecond,
		LogLevel:   "info",
		Document: Document{
			Architecture: core.DefaultArchitecture,
			SimParams:    core.DefaultSimParams().Map(),
		},
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.CellSize, "cell-size", c.CellSize, "grid cell size in pixels")
	fs.IntVar(&c.Layers, "layers", c.Layers, "number of editable layers")
	fs.IntVar(&c.Window.Width, "width", c.Window.Width, "initial window width")
	fs.IntVar(&c.Window.Height, "height", c.Window.Height, "initial window height")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.DurationVar(&c.AutosaveInterval, "autosave", c.AutosaveInterval, "autosave interval (0 disables)")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "reload the document when it changes on disk")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.Document.Architecture, "arch", c.Document.Architecture, "architecture of new documents")
}

// LoadFile overlays the YAML file at path onto c. Keys missing from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read the config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	return nil
}

// WriteFile stores c as YAML at path.
func (c Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadEnv loads variables from dotenv files into the process environment.
// Missing files are skipped; variables already set are not overridden.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from QDCAD_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"CELL_SIZE": &c.CellSize,
		"LAYERS":    &c.Layers,
		"TPS":       &c.TPS,
	}
	for name, dst := range ints {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
	}
	if v, ok := lookup(EnvPrefix + "AUTOSAVE"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sAUTOSAVE: %w", EnvPrefix, err)
		}
		c.AutosaveInterval = d
	}
	if v, ok := lookup(EnvPrefix + "WATCH"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sWATCH: %w", EnvPrefix, err)
		}
		c.Watch = b
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "ARCH"); ok {
		c.Document.Architecture = v
	}
	return nil
}

// Changed returns the flags explicitly set on a parsed FlagSet, keyed by name.
func Changed(fs *flag.FlagSet) map[string]string {
	out := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		out[f.Name] = f.Value.String()
	})
	return out
}

// Resolve builds the effective configuration: defaults, then the YAML file
// at path (or $QDCAD_CONFIG), then the environment, then the explicitly set
// flags in changed, which use the names registered by Bind.
func Resolve(path string, changed map[string]string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	overlay := flag.NewFlagSet("overlay", flag.ContinueOnError)
	cfg.Bind(overlay)
	for name, value := range changed {
		if overlay.Lookup(name) == nil {
			continue
		}
		if err := overlay.Set(name, value); err != nil {
			return cfg, fmt.Errorf("flag -%s: %w", name, err)
		}
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if c.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("cell_size must be positive, got %d", c.CellSize))
	}
	if c.Layers <= 0 {
		errs = append(errs, fmt.Errorf("layers must be positive, got %d", c.Layers))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps must be positive, got %d", c.TPS))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.AutosaveInterval < 0 {
		errs = append(errs, fmt.Errorf("autosave_interval must not be negative, got %s", c.AutosaveInterval))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if err := core.CheckField(c.Document.Architecture); err != nil {
		errs = append(errs, fmt.Errorf("document.architecture: %w", err))
	}
	for key, value := range c.Document.SimParams {
		if _, ok := core.ParseSimParam(key); !ok {
			errs = append(errs, fmt.Errorf("unknown sim param %q", key))
			continue
		}
		if err := core.CheckField(value); err != nil {
			errs = append(errs, fmt.Errorf("sim param %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// NewDocument returns an empty document carrying the configured defaults.
// Parameters missing from the configuration keep the built-in values.
func (c Config) NewDocument() *core.Grid {
	g := core.NewDocument()
	g.Architecture = c.Document.Architecture
	g.Params.FromMap(c.Document.SimParams)
	return g
}
