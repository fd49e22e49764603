package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"worldstream/internal/noise"
)

// Duration is a JSON and YAML friendly wrapper around time.Duration that
// accepts human readable strings such as "16ms" in configuration files while
// still allowing numeric representations when necessary.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalYAML encodes the duration as its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration: expected scalar, got kind %d", value.Kind)
	}
	if value.Tag == "!!int" {
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("duration: decode int: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	}
	return d.parse(value.Value)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config captures every tunable of the terrain streaming core.
type Config struct {
	World   WorldConfig   `json:"world" yaml:"world"`
	Terrain TerrainConfig `json:"terrain" yaml:"terrain"`
	Scatter ScatterConfig `json:"scatter" yaml:"scatter"`
	Health  HealthConfig  `json:"health" yaml:"health"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Assets  AssetsConfig  `json:"assets" yaml:"assets"`
	Session SessionConfig `json:"session" yaml:"session"`
}

type WorldConfig struct {
	Seed            int64   `json:"seed" yaml:"seed"`
	ChunkSize       int     `json:"chunkSize" yaml:"chunkSize"`             // world units per chunk edge
	DrawDistance    float64 `json:"drawDistance" yaml:"drawDistance"`       // entity visibility radius
	MoveThreshold   float64 `json:"moveThreshold" yaml:"moveThreshold"`     // movement before chunks reload
	MaxCachedChunks int     `json:"maxCachedChunks" yaml:"maxCachedChunks"` // 0 keeps every chunk
}

// TerrainConfig parameterises the fractal height synthesizer.
type TerrainConfig struct {
	Noise         string  `json:"noise" yaml:"noise"` // simplex, perlin, opensimplex, value
	Zoom          float64 `json:"zoom" yaml:"zoom"`
	Octaves       int     `json:"octaves" yaml:"octaves"`
	Lacunarity    float64 `json:"lacunarity" yaml:"lacunarity"`
	NoiseStrength float64 `json:"noiseStrength" yaml:"noiseStrength"`
	HeightOffset  float64 `json:"heightOffset" yaml:"heightOffset"`
	Exaggeration  float64 `json:"exaggeration" yaml:"exaggeration"`
	HurstExponent float64 `json:"hurstExponent" yaml:"hurstExponent"`
}

type ScatterConfig struct {
	Categories []CategoryConfig `json:"categories" yaml:"categories"`
}

// Range is a half-open [Min, Max) interval for random draws.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// CategoryConfig describes one scattered entity kind.
type CategoryConfig struct {
	Name       string   `json:"name" yaml:"name"`
	Category   string   `json:"category" yaml:"category"`     // tree, flower, critter, litter
	Prevalence float64  `json:"prevalence" yaml:"prevalence"` // percent of eligible vertices
	MinHeight  float64  `json:"minHeight" yaml:"minHeight"`   // exclusive
	MaxHeight  float64  `json:"maxHeight" yaml:"maxHeight"`   // exclusive
	Scale      Range    `json:"scale" yaml:"scale"`
	HealthMin  Range    `json:"healthMin" yaml:"healthMin"`
	HealthMax  Range    `json:"healthMax" yaml:"healthMax"`
	Influence  Range    `json:"influence" yaml:"influence"` // litter only
	Templates  []string `json:"templates" yaml:"templates"`
}

type HealthConfig struct {
	Initial float64 `json:"initial" yaml:"initial"`
}

type StorageConfig struct {
	Backend string `json:"backend" yaml:"backend"` // memory or leveldb
	Path    string `json:"path" yaml:"path"`
}

type AssetsConfig struct {
	Source   string `json:"source" yaml:"source"` // go-getter source, empty uses built-in templates
	Dir      string `json:"dir" yaml:"dir"`
	Manifest string `json:"manifest" yaml:"manifest"`
}

type SessionConfig struct {
	TickRate Duration `json:"tickRate" yaml:"tickRate"`
	Ticks    int      `json:"ticks" yaml:"ticks"`
	Speed    float64  `json:"speed" yaml:"speed"` // viewpoint units per second
}

var categoryKinds = map[string]struct{}{
	"tree":    {},
	"flower":  {},
	"critter": {},
	"litter":  {},
}

// Load reads configuration from a JSON or YAML file if provided. An empty path
// returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:            1337,
			ChunkSize:       64,
			DrawDistance:    96,
			MoveThreshold:   0.5,
			MaxCachedChunks: 64,
		},
		Terrain: DefaultTerrain(),
		Scatter: ScatterConfig{
			Categories: []CategoryConfig{
				{
					Name:       "tree",
					Category:   "tree",
					Prevalence: 1.5,
					MinHeight:  1,
					MaxHeight:  28,
					Scale:      Range{Min: 0.8, Max: 1.6},
					HealthMin:  Range{Min: 0.05, Max: 0.4},
					HealthMax:  Range{Min: 1, Max: 1},
					Templates:  []string{"pine", "oak", "birch"},
				},
				{
					Name:       "flower",
					Category:   "flower",
					Prevalence: 2,
					MinHeight:  1,
					MaxHeight:  16,
					Scale:      Range{Min: 0.5, Max: 1.1},
					HealthMin:  Range{Min: 0.5, Max: 0.8},
					HealthMax:  Range{Min: 1, Max: 1},
					Templates:  []string{"daisy", "lupine"},
				},
				{
					Name:       "critter",
					Category:   "critter",
					Prevalence: 0.2,
					MinHeight:  2,
					MaxHeight:  30,
					Scale:      Range{Min: 0.9, Max: 1.2},
					HealthMin:  Range{Min: 0.4, Max: 0.7},
					HealthMax:  Range{Min: 1, Max: 1},
					Templates:  []string{"deer", "fox"},
				},
				{
					Name:       "litter",
					Category:   "litter",
					Prevalence: 0.8,
					MinHeight:  0.5,
					MaxHeight:  20,
					Scale:      Range{Min: 0.6, Max: 1.0},
					HealthMin:  Range{Min: 0, Max: 0},
					HealthMax:  Range{Min: 0.6, Max: 1},
					Influence:  Range{Min: -0.05, Max: -0.01},
					Templates:  []string{"bottle", "can", "bag"},
				},
			},
		},
		Health: HealthConfig{
			Initial: 0.5,
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
		Assets: AssetsConfig{
			Dir:      "./assets",
			Manifest: "manifest.yaml",
		},
		Session: SessionConfig{
			TickRate: Duration(16 * time.Millisecond),
			Ticks:    600,
			Speed:    12,
		},
	}
}

// DefaultTerrain is the height-map configuration used by Default and by a
// regenerate request that does not supply one.
func DefaultTerrain() TerrainConfig {
	return TerrainConfig{
		Noise:         "simplex",
		Zoom:          120,
		Octaves:       5,
		Lacunarity:    2,
		NoiseStrength: 1,
		HeightOffset:  4,
		Exaggeration:  18,
		HurstExponent: 1,
	}
}

func (c *Config) Validate() error {
	if c.World.ChunkSize <= 0 || c.World.ChunkSize%2 != 0 {
		return errors.New("world.chunkSize must be positive and even")
	}
	if c.World.DrawDistance <= 0 {
		return errors.New("world.drawDistance must be positive")
	}
	if c.World.MoveThreshold < 0 {
		return errors.New("world.moveThreshold cannot be negative")
	}
	if c.World.MaxCachedChunks < 0 {
		return errors.New("world.maxCachedChunks cannot be negative")
	}
	if c.World.MaxCachedChunks > 0 && c.World.MaxCachedChunks < 9 {
		return errors.New("world.maxCachedChunks must be 0 or at least 9")
	}
	if err := c.Terrain.Validate(); err != nil {
		return err
	}
	names := make(map[string]struct{}, len(c.Scatter.Categories))
	for i, cat := range c.Scatter.Categories {
		if err := cat.validate(i); err != nil {
			return err
		}
		if _, dup := names[cat.Name]; dup {
			return fmt.Errorf("scatter.categories[%d].name %q is duplicated", i, cat.Name)
		}
		names[cat.Name] = struct{}{}
	}
	if c.Health.Initial < 0 || c.Health.Initial > 1 {
		return errors.New("health.initial must be within [0,1]")
	}
	switch c.Storage.Backend {
	case "", "memory", "leveldb":
	default:
		return fmt.Errorf("storage.backend %q is not supported", c.Storage.Backend)
	}
	if c.Session.Ticks < 0 {
		return errors.New("session.ticks cannot be negative")
	}
	return nil
}

// Validate checks the height-map parameters on their own so a regenerate
// request can be rejected before the current world is discarded.
func (t TerrainConfig) Validate() error {
	if t.Noise != "" && !slices.Contains(noise.Kinds, t.Noise) {
		return fmt.Errorf("terrain.noise %q is not supported", t.Noise)
	}
	if t.Zoom <= 0 {
		return errors.New("terrain.zoom must be positive")
	}
	if t.Octaves < 1 {
		return errors.New("terrain.octaves must be at least 1")
	}
	if t.Lacunarity <= 0 {
		return errors.New("terrain.lacunarity must be positive")
	}
	return nil
}

func (c CategoryConfig) validate(i int) error {
	if c.Name == "" {
		return fmt.Errorf("scatter.categories[%d].name must be set", i)
	}
	if _, ok := categoryKinds[c.Category]; !ok {
		return fmt.Errorf("scatter.categories[%d].category %q is not supported", i, c.Category)
	}
	if c.Prevalence < 0 || c.Prevalence > 100 {
		return fmt.Errorf("scatter.categories[%d].prevalence must be within [0,100]", i)
	}
	if c.MaxHeight <= c.MinHeight {
		return fmt.Errorf("scatter.categories[%d].maxHeight must exceed minHeight", i)
	}
	if len(c.Templates) == 0 {
		return fmt.Errorf("scatter.categories[%d].templates must not be empty", i)
	}
	for _, r := range []Range{c.Scale, c.HealthMin, c.HealthMax, c.Influence} {
		if r.Max < r.Min {
			return fmt.Errorf("scatter.categories[%d] has a range with max below min", i)
		}
	}
	if c.HealthMin.Min < 0 || c.HealthMax.Max > 1 {
		return fmt.Errorf("scatter.categories[%d] health ranges must stay within [0,1]", i)
	}
	return nil
}
