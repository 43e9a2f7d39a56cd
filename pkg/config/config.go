// Package config loads explorer settings from TOML or YAML files.
//
// Every section has working defaults, so a file only needs the keys it
// changes:
//
//	[simulation]
//	settle_ticks = 15
//	anchor_root = true
//
//	[simulation.physics]
//	charge = 60
//
//	[interaction]
//	release = "float"
//
// The defaults are tuned for a terminal, where one screen unit is one
// character cell and cells are about twice as tall as they are wide.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depscope/pkg/errors"
	"github.com/matzehuels/depscope/pkg/graph"
	"github.com/matzehuels/depscope/pkg/interact"
	"github.com/matzehuels/depscope/pkg/physics"
	"github.com/matzehuels/depscope/pkg/sim"
	"github.com/matzehuels/depscope/pkg/viewport"
)

// Config is the complete explorer configuration.
type Config struct {
	Simulation  sim.Options      `toml:"simulation" yaml:"simulation"`
	Camera      viewport.Options `toml:"camera" yaml:"camera"`
	Interaction interact.Options `toml:"interaction" yaml:"interaction"`
	Render      Render           `toml:"render" yaml:"render"`
	Graph       Graph            `toml:"graph" yaml:"graph"`
}

// Render controls the terminal view.
type Render struct {
	FPS        int     `toml:"fps" yaml:"fps" validate:"gte=1,lte=240"`
	Labels     bool    `toml:"labels" yaml:"labels"`
	Margin     float64 `toml:"margin" yaml:"margin" validate:"gte=0"`
	FitPadding float64 `toml:"fit_padding" yaml:"fit_padding" validate:"gte=0"`
}

// FrameInterval is the delay between animation frames.
func (r Render) FrameInterval() time.Duration {
	if r.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(r.FPS)
}

// Graph controls local resolution of the dependency tree.
type Graph struct {
	DBPath    string `toml:"db_path" yaml:"db_path"`
	Depth     int    `toml:"depth" yaml:"depth" validate:"gte=1,lte=16"`
	Direction string `toml:"direction" yaml:"direction" validate:"oneof=forward reverse both"`
	MaxNodes  int    `toml:"max_nodes" yaml:"max_nodes" validate:"gte=1"`
}

// Default returns the terminal defaults.
func Default() *Config {
	p := physics.DefaultParams()
	p.LinkDistance = 12
	p.Charge = 32
	p.MinDistance = 1.2
	p.MaxVelocity = 15

	s := sim.DefaultOptions()
	s.Params = p
	s.EnergyThreshold = 0.001

	return &Config{
		Simulation: s,
		Camera:     viewport.Options{MinScale: 0.1, MaxScale: 6, AspectY: 0.5},
		Interaction: interact.Options{
			DragThreshold:       0.5,
			DoubleClickWindow:   400 * time.Millisecond,
			DoubleClickDistance: 1,
			HitRadius:           1.5,
			ReleasePolicy:       interact.KeepPinned,
		},
		Render: Render{FPS: 30, Margin: 2, FitPadding: 2},
		Graph: Graph{
			DBPath:    graph.DefaultDBPath,
			Depth:     graph.DefaultDepth,
			Direction: string(graph.Forward),
			MaxNodes:  graph.DefaultMaxNodes,
		},
	}
}

// Load reads path over the defaults and validates the result. The format
// follows the extension: .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext over the defaults and
// validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		if err != nil {
			return nil, err
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %s", keys[0])
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (want toml or yaml)", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Direction returns the configured traversal direction.
func (c *Config) Direction() graph.Direction {
	d, err := graph.ParseDirection(c.Graph.Direction)
	if err != nil {
		return graph.Forward
	}
	return d
}
