package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ossyrian/pkparse/internal/config"
	"github.com/ossyrian/pkparse/internal/logging"
	"github.com/ossyrian/pkparse/internal/parser"
	"github.com/ossyrian/pkparse/internal/source"
)

var (
	cfgFile string
	cfg     *config.Config
	logFile io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pkparse",
	Short: "Inspect ZIP archives and extract stored entry payloads",

	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"input":          "input",
	"output":         "output",
	"entry":          "entry",
	"raw":            "raw",
	"aws-profile":    "aws_profile",
	"dry-run":        "dry_run",
	"log-level":      "log_level",
	"log-output-dir": "log_output_dir",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")

	// i/o
	rootCmd.PersistentFlags().StringP("input", "i", "", "path or s3://bucket/key of the archive to read (required)")
	rootCmd.PersistentFlags().String("aws-profile", "", "AWS shared config profile for s3:// inputs")

	// other opts
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-output-dir", "", "directory to write log files (if set, logs are written to both stderr and file)")
	rootCmd.PersistentFlags().Bool("dry-run", false, "parse without writing output (validation)")

	rootCmd.AddCommand(listCmd, extractCmd, eocdCmd)
}

// initConfig reads in config file and environment variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pkparse"))
		}
		viper.AddConfigPath("/etc/pkparse")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("PKPARSE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setup binds the flags of the command being run, then loads the config
// and configures logging
func setup(cmd *cobra.Command, args []string) error {
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var err error
	if logFile, err = logging.Setup(cfg.LogLevel, cfg.LogOutputDir); err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}

	if cfg.InputFile == "" {
		return fmt.Errorf("an input archive is required (--input or PKPARSE_INPUT)")
	}

	return nil
}

// openArchive opens the configured input and reads its central directory.
// The returned closer releases the input on every path.
func openArchive(cmd *cobra.Command) (*parser.Archive, io.Closer, error) {
	slog.Info("opening archive", "input", cfg.InputFile)

	src, closer, err := source.Open(cmd.Context(), cfg.InputFile, func(opts *source.Options) {
		opts.AWSProfile = cfg.AWSProfile
	})
	if err != nil {
		return nil, nil, err
	}

	archive, err := parser.Open(src, slog.With("input", cfg.InputFile))
	if err != nil {
		_ = closer.Close()
		return nil, nil, fmt.Errorf("error parsing %s: %w", cfg.InputFile, err)
	}

	return archive, closer, nil
}

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		_ = logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
