package generate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML file consumed by the CLI. Explicit flags override the
// file; see Merge.
type Config struct {
	// Schema is the path to the TL schema file.
	Schema string `yaml:"schema"`
	// Errors is the directory holding CODE_NAME.tsv error-table sources.
	Errors string `yaml:"errors"`
	// Output is the published output tree.
	Output string `yaml:"output"`
	// Renderer names the renderer to use.
	Renderer string `yaml:"renderer"`
	// Package is the Go package name stamped on generated files.
	Package string `yaml:"package"`
	// RuntimeImport is the import path of the tl runtime package.
	RuntimeImport string `yaml:"runtime_import"`
	// ErrorsImport is the import path of the errtable runtime package.
	ErrorsImport string `yaml:"errors_import"`
}

// LoadConfig reads and decodes a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("generate: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("generate: decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge overlays non-empty fields of other on top of the receiver and
// returns the result. The receiver supplies defaults; other wins.
func (c Config) Merge(other Config) Config {
	if other.Schema != "" {
		c.Schema = other.Schema
	}
	if other.Errors != "" {
		c.Errors = other.Errors
	}
	if other.Output != "" {
		c.Output = other.Output
	}
	if other.Renderer != "" {
		c.Renderer = other.Renderer
	}
	if other.Package != "" {
		c.Package = other.Package
	}
	if other.RuntimeImport != "" {
		c.RuntimeImport = other.RuntimeImport
	}
	if other.ErrorsImport != "" {
		c.ErrorsImport = other.ErrorsImport
	}
	return c
}
