package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/findui/internal/finder"
	"github.com/mj1618/findui/internal/model"
	"github.com/mj1618/findui/internal/output"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find [WINDOW_TITLE]",
	Short: "List the elements below an anchor in a window",
	Long: `Wait for a window with the given title, resolve an anchor element inside it
and list the accessibility tree below the anchor.

The anchor is the element under the mouse cursor (--cursor), else the element
matching the --anchor-* predicates, else the window itself. The window title is
optional only with --cursor.

Examples:
  findui find "Untitled - Notepad" --depth 2
  findui find "^Calc" --title-re --anchor-control-type Button --anchor-title OK
  findui find --cursor --cursor-delay 3 --format selector
  findui find Settings --format json --fields index,control_type,name,path`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	},
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().Bool("title-re", false, "Treat WINDOW_TITLE as a regular expression matched at the start of the title")
	findCmd.Flags().Bool("title-glob", false, "Treat WINDOW_TITLE as a shell-style glob")
	findCmd.Flags().String("depth", "3", `Levels below the anchor to list: integer >= 0 or "max"`)
	findCmd.Flags().Float64("timeout", 5, "Seconds to wait for the window")
	addAnchorFlags(findCmd)
	findCmd.Flags().Bool("cursor", false, "Anchor on the element under the mouse cursor")
	findCmd.Flags().Float64("cursor-delay", 5, "Seconds to wait before sampling the cursor")
	findCmd.Flags().Bool("promote", false, "With --cursor, move a hit outside the window to its nearest element inside it")
	findCmd.Flags().Bool("only-visible", false, "Only list visible and enabled elements")
	findCmd.Flags().Int("max-items", 0, "Stop after this many elements (default unlimited)")
	findCmd.Flags().String("fields", "", "Comma-separated fields to output (json and yaml formats)")
	findCmd.Flags().Bool("emit-selector", false, "Add a selector line under each element (text and selector formats)")
	findCmd.Flags().String("outline", "", "Also write a PNG map of element rectangles to this file")
	findCmd.Flags().String("fixture", "", "Read the tree from a YAML fixture instead of the desktop")
}

func runFind(cmd *cobra.Command, args []string) error {
	req, err := findRequestFromFlags(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := req.finderConfig(appConfig.PollInterval)
	if err != nil {
		return err
	}

	fieldsStr, _ := cmd.Flags().GetString("fields")
	fields := output.ParseFields(fieldsStr)
	if len(fields) > 0 && outputFormat != output.FormatJSON && outputFormat != output.FormatYAML {
		return &finder.InvalidArgumentError{Name: "fields", Value: fieldsStr, Expected: "--format json or yaml"}
	}
	emitSelector, _ := cmd.Flags().GetBool("emit-selector")
	formatter, err := output.New(outputFormat, output.Options{
		Fields:       fields,
		EmitSelector: emitSelector,
		Color:        colorOutput,
		Depth:        cfg.Depth,
	})
	if err != nil {
		return &usageError{err}
	}

	fixture, _ := cmd.Flags().GetString("fixture")
	sess, err := openSession(fixture, appConfig.Backend, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	f := &finder.Finder{Provider: sess.provider, Sampler: sess.sampler, Logger: logger}
	records, anchor, err := f.FindWithAnchor(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if err := writeRecords(cmd.OutOrStdout(), formatter, records, sess, anchor); err != nil {
		return err
	}

	outlinePath, _ := cmd.Flags().GetString("outline")
	if outlinePath != "" {
		if err := writeOutlineFile(outlinePath, records); err != nil {
			return err
		}
		logger.Info("outline written", "path", outlinePath)
	}
	return nil
}

// findRequestFromFlags reads the find flags, falling back to the config file
// for flags not given explicitly.
func findRequestFromFlags(cmd *cobra.Command, args []string) (findRequest, error) {
	flags := cmd.Flags()
	req := newFindRequest(appConfig)
	if len(args) > 0 {
		req.Title = args[0]
	}
	req.TitleRegex, _ = flags.GetBool("title-re")
	req.TitleGlob, _ = flags.GetBool("title-glob")
	if flags.Changed("depth") {
		req.Depth, _ = flags.GetString("depth")
	}
	if flags.Changed("timeout") {
		req.Timeout, _ = flags.GetFloat64("timeout")
	}
	if flags.Changed("cursor-delay") {
		req.CursorDelay, _ = flags.GetFloat64("cursor-delay")
	}
	if flags.Changed("only-visible") {
		req.OnlyVisible, _ = flags.GetBool("only-visible")
	}
	req.Predicates = getAnchorPredicates(cmd)
	req.FoundIndex, _ = flags.GetInt("anchor-found-index")
	req.Cursor, _ = flags.GetBool("cursor")
	req.Promote, _ = flags.GetBool("promote")

	maxItems, _ := flags.GetInt("max-items")
	if flags.Changed("max-items") && maxItems < 1 {
		return req, &finder.InvalidArgumentError{Name: "max-items", Value: fmt.Sprint(maxItems), Expected: "an integer >= 1"}
	}
	req.MaxItems = maxItems
	return req, nil
}

// writeRecords formats records, letting a passthrough formatter read the
// provider from the anchor while the session is still open.
func writeRecords(w io.Writer, f output.Formatter, records []model.ElementRecord, sess *session, anchor finder.ResolvedAnchor) error {
	if af, ok := f.(output.AnchorFormatter); ok {
		return af.FormatAnchor(w, records, sess.provider, anchor.Node)
	}
	return f.Format(w, records)
}

func writeOutlineFile(path string, records []model.ElementRecord) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create outline: %w", err)
	}
	if err := output.WriteOutline(out, records); err != nil {
		out.Close()
		return fmt.Errorf("write outline: %w", err)
	}
	return out.Close()
}
