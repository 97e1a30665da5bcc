package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Paths    PathsConfig    `toml:"paths"`
	Run      RunConfig      `toml:"run"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Watch    WatchConfig    `toml:"watch"`
}

// PathsConfig locates the index file and the directory trees a run touches.
type PathsConfig struct {
	Index  string `toml:"index"`
	Backup string `toml:"backup"`
	Parts  string `toml:"parts"`
	Songs  string `toml:"songs"`
}

// RunConfig tunes song processing.
type RunConfig struct {
	Workers    int      `toml:"workers"`
	VerifyCopy bool     `toml:"verify_copy"`
	VerifyPDF  bool     `toml:"verify_pdf"`
	Lock       bool     `toml:"lock"`
	Ignore     []string `toml:"ignore"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Enabled      bool   `toml:"enabled"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// WatchConfig contains settings for the watch command.
type WatchConfig struct {
	Interval Duration `toml:"interval"`
}

// Duration wraps [time.Duration] so it can be decoded from TOML strings like "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults, and relative paths are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Resolve(filepath.Dir(path))
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports configuration values no run can work with.
func (c *Config) Validate() error {
	switch {
	case c.Paths.Index == "":
		return fmt.Errorf("%w: paths.index is required", ErrInvalidConfig)
	case c.Paths.Parts == "":
		return fmt.Errorf("%w: paths.parts is required", ErrInvalidConfig)
	case c.Paths.Songs == "":
		return fmt.Errorf("%w: paths.songs is required", ErrInvalidConfig)
	case c.Run.Workers < 0:
		return fmt.Errorf("%w: run.workers must not be negative", ErrInvalidConfig)
	case c.Watch.Interval.Duration < 0:
		return fmt.Errorf("%w: watch.interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Resolve makes every relative path absolute against base.
func (c *Config) Resolve(base string) {
	for _, p := range []*string{&c.Paths.Index, &c.Paths.Backup, &c.Paths.Parts, &c.Paths.Songs, &c.Database.Path} {
		if *p == "" || *p == ":memory:" || filepath.IsAbs(*p) {
			continue
		}
		*p = filepath.Join(base, *p)
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, os.ErrExist)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
