package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/tabhound/internal/ai"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Tabhound configuration",
	Long: `Manage Tabhound configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (TABHOUND_*, AI_ENABLED, AI_MODEL, OPENAI_API_KEY)
3. Config file (~/.tabhound/config.yaml)
4. Defaults`,
}

// effectiveConfig is the runtime view printed by 'config show'.
type effectiveConfig struct {
	AIEnabled bool   `yaml:"ai_enabled"`
	AIModel   string `yaml:"ai_model"`
	HasAPIKey bool   `yaml:"openai_api_key_present"`
	CacheDir  string `yaml:"cache_dir"`
	ConfigDir string `yaml:"config_dir"`
	MaxTokens int    `yaml:"max_tokens"`
	Workers   int    `yaml:"workers"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration from all sources (defaults, config file, env vars).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		defaults := ai.DefaultConfig()
		cfg := effectiveConfig{
			AIEnabled: viper.GetBool("ai_enabled"),
			AIModel:   defaults.Model,
			HasAPIKey: os.Getenv("OPENAI_API_KEY") != "",
			CacheDir:  filepath.Join(defaultDataDir(), "ai-cache"),
			ConfigDir: filepath.Join(defaultDataDir(), "configs"),
			MaxTokens: defaults.MaxTokens,
			Workers:   defaults.Workers,
		}
		if m := viper.GetString("ai_model"); m != "" {
			cfg.AIModel = m
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))

		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (TABHOUND_*, AI_ENABLED, AI_MODEL, OPENAI_API_KEY)")
		fmt.Println("  3. Config file (~/.tabhound/config.yaml)")
		fmt.Println("  4. Defaults")
		fmt.Println()

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.tabhound/config.yaml with the available options documented.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir := defaultDataDir()
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'tabhound config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		defaults := ai.DefaultConfig()
		content := fmt.Sprintf(`# Tabhound Configuration File
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (TABHOUND_*)
#   3. This config file
#   4. Built-in defaults

# Enable the external AI rule (also via AI_ENABLED env var)
ai_enabled: false

# Scoring model (also via AI_MODEL env var)
ai_model: %s

# The access credential is read from the environment only:
#   export OPENAI_API_KEY=sk-...
`, defaults.Model)

		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  tabhound config show\n\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
