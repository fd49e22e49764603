// Package assets is the explicit registry of renderable templates the chunk
// builder scatters. It replaces any process-wide texture or model cache.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	getter "github.com/hashicorp/go-getter"
	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindModel   Kind = "model"
	KindTexture Kind = "texture"
)

// Template is a pre-loaded renderable referenced by a stable name.
type Template struct {
	Name       string   `yaml:"name"`
	Kind       Kind     `yaml:"kind"`
	Path       string   `yaml:"path"`
	Animations []string `yaml:"animations,omitempty"`
}

// Animated reports whether the template carries animation clips.
func (t Template) Animated() bool {
	return len(t.Animations) > 0
}

// Manifest is the on-disk description of an asset pack.
type Manifest struct {
	Ground    string     `yaml:"ground"`
	Templates []Template `yaml:"templates"`
}

type Registry struct {
	templates map[string]Template
	ground    string
}

// NewRegistry indexes manifest templates by name. The ground entry must name a
// texture template.
func NewRegistry(manifest Manifest) (*Registry, error) {
	r := &Registry{templates: make(map[string]Template, len(manifest.Templates))}
	for i, tpl := range manifest.Templates {
		if tpl.Name == "" {
			return nil, fmt.Errorf("templates[%d]: name must be set", i)
		}
		if tpl.Kind != KindModel && tpl.Kind != KindTexture {
			return nil, fmt.Errorf("template %q: unsupported kind %q", tpl.Name, tpl.Kind)
		}
		if _, dup := r.templates[tpl.Name]; dup {
			return nil, fmt.Errorf("template %q declared twice", tpl.Name)
		}
		r.templates[tpl.Name] = tpl
	}
	if manifest.Ground == "" {
		return nil, errors.New("ground texture must be set")
	}
	ground, ok := r.templates[manifest.Ground]
	if !ok || ground.Kind != KindTexture {
		return nil, fmt.Errorf("ground %q is not a registered texture", manifest.Ground)
	}
	r.ground = manifest.Ground
	return r, nil
}

// Template looks up a template by name.
func (r *Registry) Template(name string) (Template, bool) {
	tpl, ok := r.templates[name]
	return tpl, ok
}

// Ground returns the ground texture template.
func (r *Registry) Ground() Template {
	return r.templates[r.ground]
}

// Require fails on the first name that is not a registered model.
func (r *Registry) Require(names ...string) error {
	for _, name := range names {
		tpl, ok := r.templates[name]
		if !ok {
			return fmt.Errorf("asset %q is not registered", name)
		}
		if tpl.Kind != KindModel {
			return fmt.Errorf("asset %q is a %s, not a model", name, tpl.Kind)
		}
	}
	return nil
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the built-in registry matching the default scatter config.
func Default() *Registry {
	r, err := NewRegistry(DefaultManifest())
	if err != nil {
		panic(fmt.Sprintf("assets: default manifest invalid: %v", err))
	}
	return r
}

func DefaultManifest() Manifest {
	model := func(name string, clips ...string) Template {
		return Template{Name: name, Kind: KindModel, Path: "models/" + name + ".glb", Animations: clips}
	}
	return Manifest{
		Ground: "grass",
		Templates: []Template{
			{Name: "grass", Kind: KindTexture, Path: "textures/grass.jpg"},
			{Name: "sand", Kind: KindTexture, Path: "textures/sand.jpg"},
			model("pine"),
			model("oak"),
			model("birch"),
			model("daisy"),
			model("lupine"),
			model("deer", "idle", "graze", "walk"),
			model("fox", "idle", "sniff"),
			model("bottle"),
			model("can"),
			model("bag"),
		},
	}
}

// LoadManifest decodes a YAML manifest from path.
func LoadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	return manifest, nil
}

// Load reads dir/file and builds a registry from it.
func Load(dir, file string) (*Registry, error) {
	manifest, err := LoadManifest(filepath.Join(dir, file))
	if err != nil {
		return nil, err
	}
	r, err := NewRegistry(manifest)
	if err != nil {
		return nil, fmt.Errorf("asset manifest %s: %w", file, err)
	}
	return r, nil
}

// Fetch downloads an asset pack from src (any go-getter source: local path,
// git::, http, s3) into the directory dst.
func Fetch(ctx context.Context, src, dst string) error {
	if src == "" {
		return errors.New("asset source is empty")
	}
	pwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		return fmt.Errorf("fetch assets from %s: %w", src, err)
	}
	return nil
}
