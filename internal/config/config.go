// Package config reads the optional .mdcheck.yaml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up next to the Markdown file and
// in the working directory.
const FileName = ".mdcheck.yaml"

// Config holds defaults for command-line flags.
type Config struct {
	// Lang is the fence tag of the checked blocks.
	Lang string `yaml:"lang"`

	// Ext overrides the extension of extracted files.
	Ext string `yaml:"ext"`

	// Header is the header file, relative to the configuration file.
	Header string `yaml:"header"`

	// Run is a command template for the command executor, e.g. "node {}".
	Run string `yaml:"run"`

	// Jobs limits concurrent executions (0 = unlimited).
	Jobs int `yaml:"jobs"`

	// Mark introduces output assertions in shell comments. Nil keeps the
	// default; an empty string disables assertions.
	Mark *string `yaml:"mark"`

	// Keep leaves extracted files in place after a check.
	Keep bool `yaml:"keep"`

	// Timeout bounds the execution of a single block.
	Timeout time.Duration `yaml:"timeout"`

	// Args are passed to every block as positional parameters.
	Args []string `yaml:"args"`

	// path is the file the configuration was read from.
	path string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Lang: "sh"}
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// Resolve makes a path from the configuration file absolute with respect to
// the file's directory.
func (c *Config) Resolve(path string) string {
	if len(path) == 0 || filepath.IsAbs(path) || len(c.path) == 0 {
		return path
	}

	return filepath.Join(filepath.Dir(c.path), path)
}

// Load reads the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.path = path

	return cfg, nil
}

// Find loads the first configuration file found next to mdFile or in the
// working directory. It returns the default configuration when there is
// none.
func Find(mdFile string) (*Config, error) {
	candidates := []string{filepath.Join(filepath.Dir(mdFile), FileName), FileName}

	for _, path := range candidates {
		cfg, err := Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		return cfg, err
	}

	return Default(), nil
}

func (c *Config) validate() error {
	if len(c.Lang) == 0 {
		return ErrMissingLang
	}

	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative: %d", c.Jobs)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}

	return nil
}

// ErrMissingLang is returned for a configuration with an empty lang.
var ErrMissingLang = errors.New("lang must not be empty")
