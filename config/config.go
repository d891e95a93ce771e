// Package config loads the barview TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/xqrs/barview"
)

const appName = "barview"

// Config is the decoded configuration file.
type Config struct {
	Bar  BarConfig  `koanf:"bar"`
	Keys KeysConfig `koanf:"keys"`
}

// BarConfig holds the header bar geometry and behaviour. Heights are in
// terminal rows; a zero expanded or compact height disables that anchor.
type BarConfig struct {
	NormalHeight    float64       `koanf:"normal_height"`    // default: 3
	ExpandedHeight  float64       `koanf:"expanded_height"`  // default: 8
	CompactHeight   float64       `koanf:"compact_height"`   // default: 1
	InitialState    string        `koanf:"initial_state"`    // "compact", "normal" or "expanded"
	Animation       time.Duration `koanf:"animation"`        // e.g. "250ms"
	OverscrollSlack float64       `koanf:"overscroll_slack"` // rows ignored past the content end
	Colors          ColorsConfig  `koanf:"colors"`
}

// ColorsConfig holds "#rrggbb" header backgrounds. Empty values use the theme.
type ColorsConfig struct {
	Compact  string `koanf:"compact"`
	Normal   string `koanf:"normal"`
	Expanded string `koanf:"expanded"`
}

// KeysConfig lists the keys bound to each action, e.g. ["ctrl+e", "E"]. An
// empty list unbinds the action.
type KeysConfig struct {
	Expand   []string `koanf:"expand"`
	Collapse []string `koanf:"collapse"`
	Help     []string `koanf:"help"`
	Quit     []string `koanf:"quit"`
	Up       []string `koanf:"up"`
	Down     []string `koanf:"down"`
	PageUp   []string `koanf:"page_up"`
	PageDown []string `koanf:"page_down"`
	Top      []string `koanf:"top"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Bar: BarConfig{
			NormalHeight:    3,
			ExpandedHeight:  8,
			CompactHeight:   1,
			InitialState:    "normal",
			Animation:       barview.DefaultAnimationDuration,
			OverscrollSlack: barview.DefaultOverscrollSlack,
		},
	}
}

// Load reads the given files in order, later files overriding earlier ones.
// Missing files are skipped. Without paths, DefaultPaths is used.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = DefaultPaths()
	}

	k := koanf.New(".")
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Bar.InitialState = strings.ToLower(strings.TrimSpace(cfg.Bar.InitialState))
	if _, err := cfg.Bar.Configuration(); err != nil {
		return nil, err
	}
	if _, _, _, err := cfg.Bar.Colors.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPaths returns the config file locations in increasing priority.
func DefaultPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		appName + ".toml",
	}
}

// Configuration converts the bar section into a validated controller
// configuration.
func (b BarConfig) Configuration() (barview.Configuration, error) {
	state, ok := barview.ParseState(b.InitialState)
	if !ok {
		return barview.Configuration{}, fmt.Errorf("%w: unknown initial_state %q", barview.ErrInvalidConfiguration, b.InitialState)
	}

	opts := []barview.ConfigOption{
		barview.WithInitialState(state),
		barview.WithAnimationDuration(b.Animation),
		barview.WithOverscrollSlack(b.OverscrollSlack),
	}
	if b.ExpandedHeight != 0 {
		opts = append(opts, barview.WithExpandedHeight(b.ExpandedHeight))
	}
	if b.CompactHeight != 0 {
		opts = append(opts, barview.WithCompactHeight(b.CompactHeight))
	}
	return barview.NewConfiguration(b.NormalHeight, opts...)
}

// Resolve returns the header backgrounds, falling back to the theme for
// unset entries.
func (c ColorsConfig) Resolve() (compact, normal, expanded colorful.Color) {
	compact, normal, expanded, _ = c.resolve()
	return
}

func (c ColorsConfig) resolve() (compact, normal, expanded colorful.Color, err error) {
	parse := func(name, hex string, fallback colorful.Color) colorful.Color {
		if hex == "" || err != nil {
			return fallback
		}
		parsed, parseErr := colorful.Hex(hex)
		if parseErr != nil {
			err = fmt.Errorf("bar.colors.%s: %w", name, parseErr)
			return fallback
		}
		return parsed
	}
	compact = parse("compact", c.Compact, barview.Styles.BarCompactColor)
	normal = parse("normal", c.Normal, barview.Styles.BarNormalColor)
	expanded = parse("expanded", c.Expanded, barview.Styles.BarExpandedColor)
	return
}
