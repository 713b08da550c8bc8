package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"javabrowser/internal/config"
	"javabrowser/internal/errors"
	"javabrowser/internal/paths"
)

var (
	configFormat   string
	configShowDiff bool
	configForce    bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage javabrowser configuration",
	Long:  "View and manage the configuration stored in .javabrowser/config.json",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long:  "Creates .javabrowser/config.json with default values in the workspace root",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration.

Examples:
  javabrowser config show                 # Pretty-print current config
  javabrowser config show --format json   # Raw JSON output
  javabrowser config show --diff          # Only show non-default values`,
	RunE: runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing config.json")
	configShowCmd.Flags().StringVar(&configFormat, "format", "human", "Output format (json, human)")
	configShowCmd.Flags().BoolVar(&configShowDiff, "diff", false, "Only show non-default values")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	root, err := getRoot()
	if err != nil {
		return err
	}

	configPath := paths.ConfigPath(root)
	if _, statErr := os.Stat(configPath); statErr == nil && !configForce {
		// Already initialized is success.
		fmt.Println("javabrowser already initialized.")
		fmt.Printf("Configuration at: %s\n", configPath)
		fmt.Println("\nRun 'javabrowser config init --force' to overwrite it.")
		return nil
	}

	if err := config.DefaultConfig().Save(root); err != nil {
		return errors.New(errors.InternalError, "Failed to write config file", err)
	}
	fmt.Printf("Wrote default configuration to %s\n", configPath)
	return nil
}

// ConfigShowResponse is the response format for config show
type ConfigShowResponse struct {
	ConfigPath   string                 `json:"configPath"`
	UsedDefaults bool                   `json:"usedDefaults"`
	Config       map[string]interface{} `json:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	current, err := toMap(ws.cfg)
	if err != nil {
		return err
	}
	if configShowDiff {
		defaults, err := toMap(config.DefaultConfig())
		if err != nil {
			return err
		}
		current = computeDiff(current, defaults)
	}

	configPath := paths.ConfigPath(ws.root)
	_, statErr := os.Stat(configPath)
	resp := ConfigShowResponse{
		ConfigPath:   configPath,
		UsedDefaults: statErr != nil,
		Config:       current,
	}

	if OutputFormat(configFormat) == FormatJSON {
		return printJSON(resp)
	}
	fmt.Print(formatConfigHuman(resp))
	return nil
}

func toMap(cfg *config.Config) (map[string]interface{}, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func formatConfigHuman(resp ConfigShowResponse) string {
	var b strings.Builder
	b.WriteString("javabrowser configuration\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	if resp.UsedDefaults {
		b.WriteString("Source: defaults (no config file found)\n\n")
	} else {
		fmt.Fprintf(&b, "Source: %s\n\n", resp.ConfigPath)
	}
	if len(resp.Config) == 0 {
		b.WriteString("  (no modifications - using all defaults)\n")
		return b.String()
	}
	writeConfigLines(&b, resp.Config, "")
	return b.String()
}

func writeConfigLines(b *strings.Builder, m map[string]interface{}, prefix string) {
	for _, key := range sortedConfigKeys(m) {
		if nested, ok := m[key].(map[string]interface{}); ok {
			writeConfigLines(b, nested, prefix+key+".")
			continue
		}
		fmt.Fprintf(b, "%s%s: %v\n", prefix, key, m[key])
	}
}

func sortedConfigKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isEqual(a, b interface{}) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func computeDiff(current, defaults map[string]interface{}) map[string]interface{} {
	diff := make(map[string]interface{})
	for key, currentVal := range current {
		defaultVal, exists := defaults[key]
		if !exists {
			diff[key] = currentVal
			continue
		}

		currentMap, currentIsMap := currentVal.(map[string]interface{})
		defaultMap, defaultIsMap := defaultVal.(map[string]interface{})
		if currentIsMap && defaultIsMap {
			if nested := computeDiff(currentMap, defaultMap); len(nested) > 0 {
				diff[key] = nested
			}
		} else if !isEqual(currentVal, defaultVal) {
			diff[key] = currentVal
		}
	}
	return diff
}
