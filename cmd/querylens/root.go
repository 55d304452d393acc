package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "querylens",
	Short: "querylens answers plain-English questions about tabular files",
	Long: `querylens loads a spreadsheet-like file (CSV, XLSX or Parquet),
translates a plain-English question into a structured query and executes it,
printing the result table together with the query that was actually run.`,
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.querylens.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig wires viper to the config file and environment. Flags override
// config values; config values override the built-in defaults.
func loadConfig() {
	viper.SetDefault("format", "table")
	viper.SetDefault("top", 0)
	viper.SetDefault("domain", "")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".querylens")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("QUERYLENS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config is fine; a malformed one is worth a warning.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config: %v\n", err)
		}
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
