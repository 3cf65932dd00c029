// Package config loads the imgconv command configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/imgconv/codec"
	"github.com/gogpu/imgconv/surface"
)

// Config represents the command configuration.
type Config struct {
	Format    string      `yaml:"format"`
	Quality   int         `yaml:"quality"`
	Backend   string      `yaml:"backend"`
	MaxPixels int64       `yaml:"max_pixels"`
	OutputDir string      `yaml:"output_dir"`
	LogLevel  string      `yaml:"log_level"`
	Watch     WatchConfig `yaml:"watch"`
}

// WatchConfig configures directory watch mode.
type WatchConfig struct {
	Dir        string        `yaml:"dir"`
	Extensions []string      `yaml:"extensions"`
	Debounce   time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format:   string(codec.DefaultFormat),
		Quality:  codec.DefaultJPEGQuality,
		LogLevel: "info",
		Watch: WatchConfig{
			Extensions: []string{".b64", ".datauri", ".txt"},
			Debounce:   500 * time.Millisecond,
		},
	}
}

// Load reads and parses the configuration file at path. Fields missing from
// the file keep their Default values. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration and normalizes watch extensions to
// lower case with a leading dot.
func (c *Config) Validate() error {
	f, err := codec.ParseFormat(c.Format)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if !f.CanEncode() {
		return fmt.Errorf("format: %s cannot be encoded", f)
	}
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %d", c.Quality)
	}
	if c.Backend != "" {
		if _, ok := surface.Get(c.Backend); !ok {
			return fmt.Errorf("backend: unknown surface backend %q", c.Backend)
		}
	}
	if c.Watch.Debounce < 0 {
		return errors.New("watch.debounce must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	for i, ext := range c.Watch.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			return fmt.Errorf("watch.extensions[%d] is empty", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Watch.Extensions[i] = ext
	}

	if c.Watch.Dir != "" && c.watchesOwnOutput(f) {
		return fmt.Errorf("watch.extensions include output extension %s and output_dir is the watched folder", f.Extension())
	}
	return nil
}

// OutputDirectory returns the directory watch mode writes to. It defaults
// to the watched folder.
func (c *Config) OutputDirectory() string {
	if c.OutputDir == "" {
		return c.Watch.Dir
	}
	return c.OutputDir
}

// watchesOwnOutput reports whether files written in watch mode would be
// picked up again by the watcher.
func (c *Config) watchesOwnOutput(f codec.Format) bool {
	if filepath.Clean(c.OutputDirectory()) != filepath.Clean(c.Watch.Dir) {
		return false
	}
	if len(c.Watch.Extensions) == 0 {
		return true
	}
	return slices.Contains(c.Watch.Extensions, f.Extension())
}

// OutputFormat returns the parsed output format.
func (c *Config) OutputFormat() codec.Format {
	f, err := codec.ParseFormat(c.Format)
	if err != nil {
		return codec.DefaultFormat
	}
	return f
}
