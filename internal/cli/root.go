package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tabhound",
	Short: "Tabhound - rule-based mistake auditing for tabular datasets",
	Long: `Tabhound classifies rows of a tabular dataset against per-column
target rules and keeps only the rows that trip at least one rule,
attaching a human-readable diagnostic per target.

Rules cover word-count minimums, keyword detection, value and text
filter gating, and an optional externally scored check backed by a
content-addressed response cache.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Tabhound.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tabhound v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.tabhound/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".tabhound"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match TABHOUND_*
	viper.SetEnvPrefix("TABHOUND")
	viper.AutomaticEnv()

	// The scoring switches keep their historical unprefixed names.
	_ = viper.BindEnv("ai_enabled", "AI_ENABLED")
	_ = viper.BindEnv("ai_model", "AI_MODEL")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger: human-readable development output when
// verbose, terse production output otherwise.
func newLogger() *zap.Logger {
	var log *zap.Logger
	var err error
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// defaultDataDir is the root for the cache and the config store.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tabhound"
	}
	return filepath.Join(home, ".tabhound")
}
