// Package config loads meshkit settings from TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/polymesh/pkg/format"
	"github.com/chazu/polymesh/pkg/logging"
	"github.com/chazu/polymesh/pkg/mesh"
)

// Config holds all meshkit configuration.
type Config struct {
	Log        LogConfig        `toml:"log"`
	Kernel     KernelConfig     `toml:"kernel"`
	Engine     EngineConfig     `toml:"engine"`
	Tessellate TessellateConfig `toml:"tessellate"`
	Format     FormatConfig     `toml:"format"`
}

// LogConfig configures the shared logger.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// KernelConfig configures the mesh kernel.
type KernelConfig struct {
	// Assertions selects the contract violation handler: "panic" aborts the
	// operation, "log" only reports it.
	Assertions string `toml:"assertions"`
}

// EngineConfig configures the scripting engine.
type EngineConfig struct {
	Timeout string `toml:"timeout"`
}

// TessellateConfig configures SDF meshing.
type TessellateConfig struct {
	Cells int `toml:"cells"`
	// WeldEpsilon is the position tolerance for merging soup corners. Zero
	// derives it from the cell size.
	WeldEpsilon float64 `toml:"weld_epsilon"`
}

// FormatConfig configures the binary mesh format.
type FormatConfig struct {
	Compression string `toml:"compression"` // none, lz4, zstd
}

const (
	AssertPanic = "panic"
	AssertLog   = "log"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:        LogConfig{Level: "info"},
		Kernel:     KernelConfig{Assertions: AssertPanic},
		Engine:     EngineConfig{Timeout: "5s"},
		Tessellate: TessellateConfig{Cells: 200},
		Format:     FormatConfig{Compression: "none"},
	}
}

// Load reads the configuration at path on top of the defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug("config file not found, using defaults", "path", path)
			return Default(), nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown setting: %s", strict.String())
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	switch c.Kernel.Assertions {
	case AssertPanic, AssertLog:
	default:
		return fmt.Errorf("invalid assertion mode: %q (valid: %s, %s)", c.Kernel.Assertions, AssertPanic, AssertLog)
	}
	if d, err := time.ParseDuration(c.Engine.Timeout); err != nil {
		return fmt.Errorf("invalid engine timeout: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("engine timeout must be positive, got %s", d)
	}
	if c.Tessellate.Cells <= 0 {
		return fmt.Errorf("tessellate cells must be positive, got %d", c.Tessellate.Cells)
	}
	if c.Tessellate.WeldEpsilon < 0 {
		return fmt.Errorf("weld epsilon must not be negative, got %g", c.Tessellate.WeldEpsilon)
	}
	if _, err := format.ParseCompression(c.Format.Compression); err != nil {
		return err
	}
	return nil
}

// EngineTimeout returns the parsed evaluation time limit.
func (c *Config) EngineTimeout() time.Duration {
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Compression returns the parsed codec for written meshes.
func (c *Config) Compression() format.Compression {
	comp, err := format.ParseCompression(c.Format.Compression)
	if err != nil {
		return format.CompressionNone
	}
	return comp
}

// Apply installs the log level and the assertion handler process-wide.
func (c *Config) Apply() error {
	if err := logging.SetLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Kernel.Assertions == AssertLog {
		mesh.SetAssertHandler(mesh.LogAssertHandler)
	} else {
		mesh.SetAssertHandler(mesh.PanicAssertHandler)
	}
	return nil
}
