package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"worldstream/internal/assets"
	"worldstream/internal/config"
)

const (
	envConfigJSON   = "WORLDSTREAM_CONFIG_JSON"
	envConfigYAML64 = "WORLDSTREAM_CONFIG_YAML_B64"
)

// writeConfigFromEnv materialises a configuration passed through the
// environment at cfgPath. Fields missing from the payload keep their
// defaults. Nothing is written unless the configuration validates and its
// scatter templates resolve against the local asset registry.
func writeConfigFromEnv(cfgPath string) (bool, error) {
	cfg, err := configFromEnv()
	if err != nil || cfg == nil {
		return false, err
	}
	if cfgPath == "" {
		return false, errors.New("configuration provided through the environment but no -config path supplied")
	}
	if err := cfg.Validate(); err != nil {
		return false, fmt.Errorf("validate config: %w", err)
	}
	if err := checkTemplates(cfg); err != nil {
		return false, fmt.Errorf("check assets: %w", err)
	}
	if err := writeConfigFile(cfgPath, cfg); err != nil {
		return false, err
	}
	return true, nil
}

// configFromEnv returns nil when neither variable is set. JSON wins over YAML.
func configFromEnv() (*config.Config, error) {
	cfg := config.Default()
	if payload := os.Getenv(envConfigJSON); payload != "" {
		if err := json.Unmarshal([]byte(payload), cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", envConfigJSON, err)
		}
		return cfg, nil
	}
	if payload := os.Getenv(envConfigYAML64); payload != "" {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", envConfigYAML64, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", envConfigYAML64, err)
		}
		return cfg, nil
	}
	return nil, nil
}

// checkTemplates resolves every scatter template against the manifest in the
// asset directory, or the built-in templates when there is none. Packs that
// are fetched at startup cannot be checked yet and are skipped.
func checkTemplates(cfg *config.Config) error {
	if cfg.Assets.Source != "" {
		return nil
	}
	registry := assets.Default()
	manifest := filepath.Join(cfg.Assets.Dir, cfg.Assets.Manifest)
	if _, err := os.Stat(manifest); err == nil {
		if registry, err = assets.Load(cfg.Assets.Dir, cfg.Assets.Manifest); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat asset manifest: %w", err)
	}
	for _, cat := range cfg.Scatter.Categories {
		if err := registry.Require(cat.Templates...); err != nil {
			return fmt.Errorf("scatter %q: %w", cat.Name, err)
		}
	}
	return nil
}

// writeConfigFile replaces path through a temporary file in the same
// directory so readers never observe a partial config.
func writeConfigFile(path string, cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config json: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("install config file: %w", err)
	}
	return nil
}
