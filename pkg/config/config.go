// Package config loads the YAML configuration shared by the viewer and the preview
// exporter.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the world, asset and display settings
type Config struct {
	// Assets is a resource-pack directory layered over the built-in pack. Empty uses the
	// built-in pack alone.
	Assets  string `yaml:"assets"`
	Seed    int64  `yaml:"seed"`
	Workers int    `yaml:"workers"`

	World  World  `yaml:"world"`
	Window Window `yaml:"window"`
	Camera Camera `yaml:"camera"`

	// Blocks maps block-state ids to block names. Id 0 is always air.
	Blocks map[uint16]string `yaml:"blocks"`
	// Descriptors declares block types beyond the built-in ones, or replaces them
	Descriptors []Descriptor `yaml:"descriptors"`
	// Preload lists models and block states to load before the world is meshed
	Preload Preload `yaml:"preload"`
}

// World sets the size of the generated world in chunks
type World struct {
	// Radius is the number of columns generated on each side of the origin column
	Radius int `yaml:"radius"`
	// Height is the number of chunks per column
	Height int `yaml:"height"`
}

// Window configures the viewer window
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// Camera configures the viewer's fly camera
type Camera struct {
	Position    [3]float32 `yaml:"position"`
	LookAt      [3]float32 `yaml:"look_at"`
	FOV         float32    `yaml:"fov"`
	MoveSpeed   float32    `yaml:"move_speed"`
	RotateSpeed float32    `yaml:"rotate_speed"`
}

// Descriptor is a block type: default properties, tint palette and render flags
type Descriptor struct {
	Name        string            `yaml:"name"`
	Properties  map[string]string `yaml:"properties"`
	Tints       []uint32          `yaml:"tints"`
	OpaqueCube  bool              `yaml:"opaque_cube"`
	Translucent bool              `yaml:"translucent"`
}

// Preload names assets loaded eagerly at startup
type Preload struct {
	Models      []string `yaml:"models"`
	BlockStates []string `yaml:"blockstates"`
}

// Default returns the configuration used when no file is given: a single column of
// grass over dirt
func Default() *Config {
	return &Config{
		Seed:    0xFF0FE0,
		Workers: runtime.NumCPU(),
		World: World{
			Radius: 0,
			Height: 1,
		},
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "Block Models",
			VSync:  true,
		},
		Camera: Camera{
			Position:    [3]float32{-8, 28, -8},
			LookAt:      [3]float32{8, 8, 8},
			FOV:         45,
			MoveSpeed:   10,
			RotateSpeed: 0.1,
		},
		Blocks: map[uint16]string{
			0: "air",
			1: "dirt",
			2: "grass_block",
		},
		Preload: Preload{
			Models: []string{
				"block/dirt",
				"block/grass_block",
				"block/glass",
				"block/black_stained_glass",
				"block/crafting_table",
			},
			BlockStates: []string{"dirt", "grass_block", "black_stained_glass"},
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail deep inside world setup
func (c *Config) Validate() error {
	if c.World.Radius < 0 {
		return errors.New("world radius must not be negative")
	}
	if c.World.Height < 1 {
		return errors.New("world height must be at least one chunk")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if name, ok := c.Blocks[0]; ok && name != "air" && name != "minecraft:air" {
		return fmt.Errorf("block id 0 is reserved for air, found %q", name)
	}
	for i, d := range c.Descriptors {
		if d.Name == "" {
			return fmt.Errorf("descriptor %d has no name", i)
		}
		if d.OpaqueCube && d.Translucent {
			return fmt.Errorf("descriptor %s cannot be both an opaque cube and translucent", d.Name)
		}
	}
	return nil
}

// Flags holds command line values that override the file
type Flags struct {
	Config  string
	Assets  string
	Seed    int64
	Workers int
	Radius  int
}

// RegisterFlags declares the shared command line flags on fs
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "YAML configuration file")
	fs.StringVar(&f.Assets, "assets", "", "resource pack directory layered over the built-in assets")
	fs.Int64Var(&f.Seed, "seed", 0, "world seed (0 keeps the configured seed)")
	fs.IntVar(&f.Workers, "workers", 0, "meshing workers (0 keeps the configured count)")
	fs.IntVar(&f.Radius, "radius", -1, "world radius in columns (-1 keeps the configured radius)")
	return f
}

// FromFlags loads the file named by f, or the defaults, and applies the overrides
func FromFlags(f *Flags) (*Config, error) {
	cfg := Default()
	if f.Config != "" {
		var err error
		if cfg, err = Load(f.Config); err != nil {
			return nil, err
		}
	}
	cfg.Apply(f)
	return cfg, cfg.Validate()
}

// Apply overrides file values with the non-zero flags
func (c *Config) Apply(f *Flags) {
	if f.Assets != "" {
		c.Assets = f.Assets
	}
	if f.Seed != 0 {
		c.Seed = f.Seed
	}
	if f.Workers > 0 {
		c.Workers = f.Workers
	}
	if f.Radius >= 0 {
		c.World.Radius = f.Radius
	}
}
