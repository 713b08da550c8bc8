package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"javabrowser/internal/artifacts"
	"javabrowser/internal/diff"
	"javabrowser/internal/paths"
)

// CurrentVersion is the config schema version written by this build.
const CurrentVersion = 1

// Config represents the complete javabrowser configuration
type Config struct {
	Version       int    `json:"version" mapstructure:"version"`
	ArtifactsFile string `json:"artifactsFile" mapstructure:"artifactsFile"`

	Database DatabaseConfig `json:"database" mapstructure:"database"`
	Publish  PublishConfig  `json:"publish" mapstructure:"publish"`
	Render   RenderConfig   `json:"render" mapstructure:"render"`
	Diff     DiffConfig     `json:"diff" mapstructure:"diff"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// DatabaseConfig locates the sqlite store
type DatabaseConfig struct {
	// Path is relative to the workspace root unless absolute. Empty means
	// the default under .javabrowser.
	Path string `json:"path" mapstructure:"path"`
}

// PublishConfig contains static publishing settings
type PublishConfig struct {
	OutputDir string `json:"outputDir" mapstructure:"outputDir"`
	Workers   int    `json:"workers" mapstructure:"workers"`
	Gzip      bool   `json:"gzip" mapstructure:"gzip"`
}

// RenderConfig contains defaults for dynamic rendering
type RenderConfig struct {
	HasOverlay       bool `json:"hasOverlay" mapstructure:"hasOverlay"`
	ReferenceThisURL bool `json:"referenceThisUrl" mapstructure:"referenceThisUrl"`
}

// DiffConfig bounds the diff aligner
type DiffConfig struct {
	MaxCells int `json:"maxCells" mapstructure:"maxCells"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:       CurrentVersion,
		ArtifactsFile: artifacts.DefaultFile,
		Publish: PublishConfig{
			Workers: runtime.NumCPU(),
		},
		Render: RenderConfig{
			HasOverlay:       true,
			ReferenceThisURL: true,
		},
		Diff: DiffConfig{
			MaxCells: diff.DefaultMaxCells,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .javabrowser/config.json, falling back
// to the defaults for the file as a whole and for every key it omits.
func LoadConfig(root string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("version", def.Version)
	v.SetDefault("artifactsFile", def.ArtifactsFile)
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("publish.outputDir", def.Publish.OutputDir)
	v.SetDefault("publish.workers", def.Publish.Workers)
	v.SetDefault("publish.gzip", def.Publish.Gzip)
	v.SetDefault("render.hasOverlay", def.Render.HasOverlay)
	v.SetDefault("render.referenceThisUrl", def.Render.ReferenceThisURL)
	v.SetDefault("diff.maxCells", def.Diff.MaxCells)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(paths.StateDir(root))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to .javabrowser/config.json
func (c *Config) Save(root string) error {
	if _, err := paths.EnsureStateDir(root); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(paths.ConfigPath(root), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Publish.Workers < 1 {
		return &ConfigError{Field: "publish.workers", Message: "must be at least 1"}
	}
	if c.Diff.MaxCells < 0 {
		return &ConfigError{Field: "diff.maxCells", Message: "must not be negative"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	return nil
}

// DatabasePath returns the effective database path for a workspace root.
func (c *Config) DatabasePath(root string) string {
	if c.Database.Path == "" {
		return paths.DatabasePath(root)
	}
	return paths.Resolve(root, c.Database.Path)
}

// OutputDir returns the effective static publishing directory.
func (c *Config) OutputDir(root string) string {
	if c.Publish.OutputDir == "" {
		return paths.DefaultSiteDir(root)
	}
	return paths.Resolve(root, c.Publish.OutputDir)
}

// ArtifactsPath returns the effective batch definition path.
func (c *Config) ArtifactsPath(root string) string {
	if c.ArtifactsFile == "" {
		return filepath.Join(root, artifacts.DefaultFile)
	}
	return paths.Resolve(root, c.ArtifactsFile)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
