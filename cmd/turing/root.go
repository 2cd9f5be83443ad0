package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/logging"
	"github.com/spf13/cobra"
)

var (
	settings  = config.Default()
	logger    = logging.NewNop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a deterministic Turing machine engine",
	Long: `Turing parses machine programs written in a small line-oriented DSL,
runs them on an unbounded tape and stores them in a compact binary form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		logFile, _ := cmd.Flags().GetString("log-file")

		s, err := config.Load(path, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if logFile != "" {
			s.Log.File = logFile
		}
		if debug {
			s.Log.Level = "debug"
		}
		settings = s

		level, err := s.LogLevel()
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", s.Log.Level, err)
		}
		if s.Log.File == "" {
			logger = logging.New(level)
		} else {
			logger, logCloser, err = logging.NewWithFile(level, s.Log.File)
			if err != nil {
				return err
			}
		}
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit(1)
	}
}

// exit flushes the log file before leaving.
func exit(code int) {
	closeLog()
	os.Exit(code)
}

func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

// fail reports err on stderr and exits with status 1.
func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	exit(1)
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Settings file (YAML)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
}
