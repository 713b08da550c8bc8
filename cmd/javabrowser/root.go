package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"javabrowser/internal/binding"
	"javabrowser/internal/config"
	"javabrowser/internal/errors"
	"javabrowser/internal/logging"
	"javabrowser/internal/storage"
	"javabrowser/internal/version"
)

var (
	rootFlag      string
	logFormatFlag string
	logLevelFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "javabrowser",
	Short: "Browse Java sources with resolved cross references",
	Long: `javabrowser ingests SCIP indexes of JDK, Android and Maven artifacts, renders
their sources as linked HTML with declaration outlines and line diffs, and
publishes static sites per artifact.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("javabrowser version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Workspace root holding .javabrowser (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: human or json (default: from config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error (default: from config)")
}

// workspace is the state shared by every command: the root, its
// configuration and a logger configured from both.
type workspace struct {
	root   string
	cfg    *config.Config
	logger *logging.Logger
}

func getRoot() (string, error) {
	if rootFlag != "" {
		return filepath.Abs(rootFlag)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.New(errors.InternalError, "Failed to get current directory", err)
	}
	return cwd, nil
}

func loadWorkspace() (*workspace, error) {
	root, err := getRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, errors.New(errors.InvalidConfig, "Failed to load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.New(errors.InvalidConfig, "Invalid config", err)
	}
	return &workspace{root: root, cfg: cfg, logger: newLogger(cfg)}, nil
}

// newLogger applies the --log-format and --log-level overrides to the
// configured logging section.
func newLogger(cfg *config.Config) *logging.Logger {
	format, level := cfg.Logging.Format, cfg.Logging.Level
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.ParseLevel(level),
	})
}

func (w *workspace) openDB() (*storage.DB, error) {
	return storage.Open(w.cfg.DatabasePath(w.root), w.logger)
}

// resolverTable loads the binding table of every ingested artifact.
func resolverTable(db *storage.DB) (*binding.Table, error) {
	return storage.NewBindingRepository(db).LoadTable()
}

func newContext() context.Context {
	return context.Background()
}
