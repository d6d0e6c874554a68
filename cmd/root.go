package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mj1618/findui/internal/config"
	"github.com/mj1618/findui/internal/finder"
	"github.com/mj1618/findui/internal/logging"
	"github.com/mj1618/findui/internal/output"
	"github.com/mj1618/findui/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "findui",
	Short: "Locate desktop UI elements through the accessibility tree",
	Long: `findui finds a window, picks an anchor element inside it (by attributes, by
the mouse cursor, or the window itself) and lists the accessibility tree below
that anchor as a flat, depth-bounded list of elements.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Settings resolved by PersistentPreRunE for the running command.
var (
	appConfig    = config.Default()
	logger       = logging.Discard()
	outputFormat = output.FormatText
	colorOutput  bool
)

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return finder.ExitOK
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	var ue *usageError
	if errors.As(err, &ue) {
		return finder.ExitInvalidArgument
	}
	return finder.ExitCode(err)
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	pf := rootCmd.PersistentFlags()
	pf.String("format", "", "Output format: text, json, yaml, selector, native (default from config, else text)")
	pf.BoolP("verbose", "v", false, "Log diagnostics to stderr")
	pf.String("config", "", "Config file (default $XDG_CONFIG_HOME/findui/config.yaml)")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("backend", "", "Accessibility backend (default: platform default)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})
	rootCmd.PersistentPreRunE = setupRun
}

// setupRun loads the config file and applies the persistent flags over it.
func setupRun(cmd *cobra.Command, args []string) error {
	pf := rootCmd.PersistentFlags()

	cfg, err := loadConfig()
	if err != nil {
		return &usageError{err}
	}
	if pf.Changed("backend") {
		cfg.Backend, _ = pf.GetString("backend")
	}

	noColor := cfg.NoColor || os.Getenv("NO_COLOR") != ""
	if pf.Changed("no-color") {
		noColor, _ = pf.GetBool("no-color")
	}
	verbose, _ := pf.GetBool("verbose")

	logger = logging.New(os.Stderr, logging.Options{
		Verbose: verbose,
		Color:   !noColor && logging.IsTerminal(os.Stderr),
	})
	colorOutput = !noColor && logging.IsTerminal(os.Stdout)

	// Use the root persistent flag directly so subcommand flags cannot shadow it.
	format := cfg.Format
	if pf.Changed("format") {
		format, _ = pf.GetString("format")
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return &finder.InvalidArgumentError{Name: "format", Value: format, Expected: formatNames()}
	}
	outputFormat = f
	appConfig = cfg

	logger.Debug("configuration loaded", slog.String("command", cmd.Name()), slog.String("format", string(f)), slog.String("backend", cfg.Backend))
	return nil
}

func loadConfig() (config.Config, error) {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	if path != "" {
		return config.Load(path, true)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path, false)
}

func formatNames() string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return "one of " + strings.Join(names, ", ")
}
