// Package config loads and validates the cankit.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cankit/cankit/internal/version"
)

// FileName is the project configuration file cankit looks for.
const FileName = "cankit.yaml"

// DefaultOutputDir is the build output directory relative to the project
// root when the configuration does not specify one.
const DefaultOutputDir = "build/"

// Config represents a project configuration.
type Config struct {
	Canisters map[string]Canister `yaml:"canisters"`
	Defaults  Defaults            `yaml:"defaults,omitempty"`
	Toolchain ToolchainConfig     `yaml:"toolchain,omitempty"`

	// path is the absolute location of the loaded configuration file.
	path string
}

// Canister describes one buildable unit.
type Canister struct {
	// Main is the canister's main source file, relative to the project root.
	// Canisters without a main file are skipped by build and watch.
	Main string `yaml:"main,omitempty"`
}

// Defaults holds per-project default settings.
type Defaults struct {
	Build BuildDefaults `yaml:"build,omitempty"`
}

// BuildDefaults configures the build output location.
type BuildDefaults struct {
	Output string `yaml:"output,omitempty"`
}

// ToolchainConfig pins the toolchain version for a project.
type ToolchainConfig struct {
	Version string `yaml:"version,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", abs)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.path = abs

	// Apply defaults
	if config.Defaults.Build.Output == "" {
		config.Defaults.Build.Output = DefaultOutputDir
	}
	if config.Toolchain.Version == "" {
		config.Toolchain.Version = version.ToolchainDefault()
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// FromCurrentDir walks up from the working directory until it finds a
// cankit.yaml, mirroring how the tool is invoked from anywhere inside a
// project tree.
func FromCurrentDir() (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no %s found in %s or any parent directory", FileName, dir)
		}
		dir = parent
	}
}

// Path returns the absolute location of the loaded configuration file.
func (c *Config) Path() string {
	return c.path
}

// ProjectRoot returns the directory containing the configuration file.
func (c *Config) ProjectRoot() string {
	return filepath.Dir(c.path)
}

// OutputRoot returns the absolute build output directory.
func (c *Config) OutputRoot() string {
	return filepath.Join(c.ProjectRoot(), c.Defaults.Build.Output)
}

// CanisterNames returns the configured canister names in stable order.
func (c *Config) CanisterNames() []string {
	names := make([]string, 0, len(c.Canisters))
	for name := range c.Canisters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MainPath returns the absolute main source path for a canister, or false
// if the canister has no main file configured.
func (c *Config) MainPath(name string) (string, bool) {
	can, ok := c.Canisters[name]
	if !ok || can.Main == "" {
		return "", false
	}
	return filepath.Join(c.ProjectRoot(), can.Main), true
}

// OutputStem returns the absolute output path for a canister without an
// artifact extension. The three build artifacts are derived from it by
// extension substitution.
func (c *Config) OutputStem(name string) (string, bool) {
	can, ok := c.Canisters[name]
	if !ok || can.Main == "" {
		return "", false
	}
	stem := strings.TrimSuffix(can.Main, filepath.Ext(can.Main))
	return filepath.Join(c.OutputRoot(), stem), true
}

// validate rejects main paths that are absolute or escape the project root.
func (c *Config) validate() error {
	for name, can := range c.Canisters {
		if can.Main == "" {
			continue
		}
		if filepath.IsAbs(can.Main) {
			return fmt.Errorf("canister %s: main must be relative to the project root, got %s", name, can.Main)
		}
		clean := filepath.Clean(can.Main)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return fmt.Errorf("canister %s: main escapes the project root: %s", name, can.Main)
		}
	}
	return nil
}
