package cmd

import (
	"fmt"
	"log/slog"

	"github.com/mj1618/findui/internal/finder"
	"github.com/mj1618/findui/internal/model"
	"github.com/mj1618/findui/internal/output"
	"github.com/mj1618/findui/internal/platform"
	"github.com/spf13/cobra"
)

var windowsCmd = &cobra.Command{
	Use:   "windows [TITLE_PATTERN]",
	Short: "List top-level windows",
	Long: `List top-level windows in stacking order with their title, class, owning
process and rectangle. Pass a pattern to list only matching windows; by default
it must equal the title, --title-re and --title-glob change that.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	},
	RunE: runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	windowsCmd.Flags().Bool("title-re", false, "Treat TITLE_PATTERN as a regular expression")
	windowsCmd.Flags().Bool("title-glob", false, "Treat TITLE_PATTERN as a shell-style glob")
	windowsCmd.Flags().String("fixture", "", "Read windows from a YAML fixture instead of the desktop")
}

func runWindows(cmd *cobra.Command, args []string) error {
	titleRe, _ := cmd.Flags().GetBool("title-re")
	titleGlob, _ := cmd.Flags().GetBool("title-glob")
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}
	spec, err := windowsTitleSpec(pattern, titleRe, titleGlob)
	if err != nil {
		return err
	}

	fixture, _ := cmd.Flags().GetString("fixture")
	sess, err := openSession(fixture, appConfig.Backend, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	windows, err := listWindows(sess.provider, spec, logger)
	if err != nil {
		return err
	}
	return output.WriteWindows(cmd.OutOrStdout(), outputFormat, windows, colorOutput)
}

// windowsTitleSpec builds the listing filter; an empty pattern lists every window.
func windowsTitleSpec(pattern string, titleRe, titleGlob bool) (platform.TitleSpec, error) {
	if pattern == "" {
		return platform.TitleSpec{Mode: platform.TitleAny}, nil
	}
	req := findRequest{Title: pattern, TitleRegex: titleRe, TitleGlob: titleGlob}
	return req.titleSpec()
}

// listWindows describes the top-level windows matching spec. Windows whose
// attributes cannot be read are skipped; process details are best effort.
func listWindows(p platform.Provider, spec platform.TitleSpec, log *slog.Logger) ([]model.Window, error) {
	match, err := spec.Compile()
	if err != nil {
		return nil, &finder.InvalidArgumentError{Name: "window-title", Value: spec.Pattern, Expected: fmt.Sprintf("a valid %s pattern", spec.Mode)}
	}
	handles, err := p.FindTopLevelWindows(match)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	reporter, _ := p.(platform.ProcessReporter)

	windows := make([]model.Window, 0, len(handles))
	for _, h := range handles {
		attrs, err := p.Attributes(h)
		if err != nil {
			log.Debug("skipping unreadable window", "handle", h.Key(), "error", err)
			continue
		}
		win := model.Window{
			Handle:    h.Key(),
			Title:     attrs.DisplayName(),
			ClassName: attrs.ClassName,
			Visible:   attrs.Visible,
		}
		if attrs.Rect != nil {
			rect := attrs.Rect.Array()
			win.Rectangle = &rect
		}
		if reporter != nil {
			if info, err := reporter.Process(h); err == nil {
				win.PID = info.PID
				win.Process = info.Name
			} else {
				log.Debug("process unavailable", "handle", h.Key(), "error", err)
			}
		}
		windows = append(windows, win)
	}
	return windows, nil
}
