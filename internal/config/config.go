// Package config provides configuration management for gdbmi.
//
// Configuration controls:
//   - Output: render format, semantic mapping and pretty-printer indent
//   - Line policy: whether unknown classes and mapping failures are skipped
//   - Logging: slog level and handler format
//   - Sessions: maximum tracked sessions and idle timeout
//   - GDB: the debugger binary used by live mode
//
// Configuration can be loaded from a JSON, YAML or TOML file or use
// sensible defaults. Command line flags override file values.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ctagard/gdbmi/pkg/errors"
	"github.com/ctagard/gdbmi/pkg/types"
)

// Config holds the gdbmi configuration
type Config struct {
	// Rendering
	Format   types.OutputFormat `json:"format" yaml:"format" toml:"format"`
	Semantic bool               `json:"semantic" yaml:"semantic" toml:"semantic"`
	Indent   string             `json:"indent" yaml:"indent" toml:"indent"`

	// Per-line policy
	SkipUnknownClasses bool `json:"skipUnknownClasses" yaml:"skipUnknownClasses" toml:"skipUnknownClasses"`
	StrictSemantic     bool `json:"strictSemantic" yaml:"strictSemantic" toml:"strictSemantic"`

	// Logging
	LogLevel  string `json:"logLevel" yaml:"logLevel" toml:"logLevel"`
	LogFormat string `json:"logFormat" yaml:"logFormat" toml:"logFormat"`

	// Limits for the session tracker
	MaxSessions    int      `json:"maxSessions" yaml:"maxSessions" toml:"maxSessions"`
	SessionTimeout Duration `json:"sessionTimeout" yaml:"sessionTimeout" toml:"sessionTimeout"`

	// REPL history file; empty means ~/.gdbmi_history
	HistoryFile string `json:"historyFile" yaml:"historyFile" toml:"historyFile"`

	GDB GDBConfig `json:"gdb" yaml:"gdb" toml:"gdb"`
}

// GDBConfig holds settings for spawning a live debugger
type GDBConfig struct {
	Path string `json:"path" yaml:"path" toml:"path"`
	// Interpreter forces an MI version ("mi2", "mi3"); empty selects one
	// from the installed GDB's version.
	Interpreter string   `json:"interpreter" yaml:"interpreter" toml:"interpreter"`
	Args        []string `json:"args" yaml:"args" toml:"args"`
}

// Duration is a time.Duration that decodes from strings like "30m"
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Format:         types.FormatPretty,
		Semantic:       false,
		Indent:         "  ",
		LogLevel:       "info",
		LogFormat:      "text",
		MaxSessions:    10,
		SessionTimeout: Duration(30 * time.Minute),
		GDB: GDBConfig{
			Path: "gdb",
		},
	}
}

// LoadConfig loads configuration from a file. The decoder is chosen by
// extension: .json, .yaml/.yml or .toml. An empty path returns defaults.
// Path fields may use ${...} variables (see ExpandVariables).
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigInvalid(path, "cannot read file").WithCause(err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, errors.ConfigInvalid(path, fmt.Sprintf("unsupported extension %q (use .json, .yaml, .yml or .toml)", ext))
	}
	if err != nil {
		return nil, errors.ConfigInvalid(path, "cannot decode file").WithCause(err)
	}

	if err := cfg.expandPaths(path); err != nil {
		return nil, errors.ConfigInvalid(path, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values
func (c *Config) Validate() error {
	if !c.Format.Valid() {
		return errors.ConfigInvalid("format", fmt.Sprintf("unknown format %q", c.Format))
	}
	if _, err := c.SlogLevel(); err != nil {
		return errors.ConfigInvalid("logLevel", err.Error())
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.ConfigInvalid("logFormat", fmt.Sprintf("unknown log format %q (use text or json)", c.LogFormat))
	}
	if c.MaxSessions < 1 {
		return errors.ConfigInvalid("maxSessions", "must be at least 1")
	}
	if c.SessionTimeout <= 0 {
		return errors.ConfigInvalid("sessionTimeout", "must be positive")
	}
	switch c.GDB.Interpreter {
	case "", "mi", "mi2", "mi3", "mi4":
	default:
		return errors.ConfigInvalid("gdb.interpreter", fmt.Sprintf("unknown interpreter %q", c.GDB.Interpreter))
	}
	return nil
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(c.LogLevel))
	return lvl, err
}

// NewLogger builds the process logger on stderr
func (c *Config) NewLogger() *slog.Logger {
	lvl, err := c.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
