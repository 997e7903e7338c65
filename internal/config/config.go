// Package config provides loading and validation for .checkrun.yaml.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/checkrun/internal/schema"
)

// Config represents the complete .checkrun.yaml configuration.
// Command-line flags and environment variables override every field.
type Config struct {
	Compiler         string   `yaml:"compiler,omitempty"`
	FileCheck        string   `yaml:"filecheck,omitempty"`
	TestDir          string   `yaml:"test_dir,omitempty"`
	Suffix           string   `yaml:"suffix,omitempty"`
	Markers          []string `yaml:"markers,omitempty"`
	FileCheckArgs    []string `yaml:"filecheck_args,omitempty"`
	CompilerTimeout  string   `yaml:"compiler_timeout,omitempty"`
	FileCheckTimeout string   `yaml:"filecheck_timeout,omitempty"`
	TempDir          string   `yaml:"temp_dir,omitempty"`
}

// Load reads, schema-checks and parses a YAML configuration file.
// Defaults are not applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse schema-checks and decodes YAML configuration data.
func Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Config{}, nil
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw == nil {
		return &Config{}, nil
	}

	// The schema is JSON Schema, so validate the JSON rendering of the document.
	doc, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config file: %w", err)
	}
	if err := schema.ValidateConfig(doc); err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// LoadWithDefaults reads a config file and applies default values.
// When required is false a missing file yields the defaults alone.
func LoadWithDefaults(path string, required bool) (*Config, error) {
	cfg, err := Load(path)
	switch {
	case err == nil:
	case !required && errors.Is(err, fs.ErrNotExist):
		cfg = &Config{}
	default:
		return nil, err
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
