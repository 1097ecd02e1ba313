package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dynbind/internal/config"
	"github.com/vango-dev/dynbind/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "dynbind",
		Short: "Replay and inspect dynamic property bindings",
		Long: `dynbind drives a binding coordinator through recorded scenarios.

A scenario mounts targets in an outlet or an injector, changes the
bound inputs between passes and checks what each target received:

  • input assignments and change batches
  • output subscriptions and their lifetimes
  • the outcome of every pass`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to "+config.ConfigFileName)

	load := func() (*config.Config, error) {
		return config.LoadOrDefault(configPath)
	}

	rootCmd.AddCommand(
		replayCmd(load),
		serveCmd(load),
		versionCmd(),
	)
	return rootCmd
}

// setupLogger builds the process logger from cfg and installs it as the
// slog default.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := cfg.Logger(w)
	slog.SetDefault(logger)
	return logger
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// failure prints a failure message.
func failure(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an indented info line.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "    %s\n", fmt.Sprintf(format, args...))
}
