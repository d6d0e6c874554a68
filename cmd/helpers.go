package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/findui/internal/config"
	"github.com/mj1618/findui/internal/finder"
	"github.com/mj1618/findui/internal/model"
	"github.com/mj1618/findui/internal/platform"
	"github.com/mj1618/findui/internal/platform/memtree"
	"github.com/spf13/cobra"
)

// session is an open provider plus its pointer sampler, when it has one.
type session struct {
	provider platform.Provider
	sampler  platform.PointSampler
}

// openSession loads a fixture tree when one is given, otherwise the
// platform provider for backend.
func openSession(fixture, backend string, log *slog.Logger) (*session, error) {
	var p platform.Provider
	if fixture != "" {
		tree, err := memtree.LoadFile(fixture)
		if err != nil {
			return nil, fmt.Errorf("load fixture %s: %w", fixture, err)
		}
		log.Debug("using fixture provider", "path", fixture)
		p = tree
	} else {
		var err error
		p, err = platform.NewProvider(platform.Options{Backend: backend, Logger: log})
		if err != nil {
			return nil, err
		}
	}
	s := &session{provider: p}
	s.sampler, _ = p.(platform.PointSampler)
	return s, nil
}

func (s *session) Close() error {
	return s.provider.Close()
}

// anchorFlags maps anchor predicate flags to condition keys.
var anchorFlags = []struct {
	flag string
	key  string
	help string
}{
	{"anchor-control-type", finder.KeyControlType, "Anchor control type, e.g. Button"},
	{"anchor-title", finder.KeyTitle, "Anchor title"},
	{"anchor-name", finder.KeyName, "Anchor name (same predicate as --anchor-title)"},
	{"anchor-class-name", finder.KeyClassName, "Anchor class name"},
	{"anchor-auto-id", finder.KeyAutoID, "Anchor automation id"},
}

// addAnchorFlags registers the anchor predicate flags on cmd.
func addAnchorFlags(cmd *cobra.Command) {
	for _, f := range anchorFlags {
		cmd.Flags().String(f.flag, "", f.help)
	}
	cmd.Flags().Int("anchor-found-index", 0, "Which match to anchor on when several match (0-based)")
}

// getAnchorPredicates returns the non-empty anchor predicates given on cmd.
func getAnchorPredicates(cmd *cobra.Command) map[string]string {
	preds := make(map[string]string)
	for _, f := range anchorFlags {
		if v, _ := cmd.Flags().GetString(f.flag); v != "" {
			preds[f.key] = v
		}
	}
	return preds
}

// findRequest is an unvalidated find invocation, shared by the find command
// and the find_elements tool.
type findRequest struct {
	Title       string
	TitleRegex  bool
	TitleGlob   bool
	Depth       string
	Timeout     float64 // seconds
	Predicates  map[string]string
	FoundIndex  int
	Cursor      bool
	CursorDelay float64 // seconds
	Promote     bool
	OnlyVisible bool
	MaxItems    int // 0 = unlimited
}

// newFindRequest returns a request filled with the defaults from cfg.
func newFindRequest(cfg config.Config) findRequest {
	return findRequest{
		Depth:       cfg.Depth,
		Timeout:     cfg.Timeout.Seconds(),
		CursorDelay: cfg.CursorDelay.Seconds(),
		OnlyVisible: cfg.OnlyVisible,
	}
}

// finderConfig validates r into a finder.Config.
func (r findRequest) finderConfig(pollInterval time.Duration) (finder.Config, error) {
	var cfg finder.Config

	title, err := r.titleSpec()
	if err != nil {
		return cfg, err
	}
	depth, err := parseDepth(r.Depth)
	if err != nil {
		return cfg, err
	}
	if r.Timeout < 1 {
		return cfg, &finder.InvalidArgumentError{Name: "timeout", Value: formatSeconds(r.Timeout), Expected: "a number of seconds >= 1"}
	}
	if r.CursorDelay < 0 {
		return cfg, &finder.InvalidArgumentError{Name: "cursor-delay", Value: formatSeconds(r.CursorDelay), Expected: "a number of seconds >= 0"}
	}
	if r.FoundIndex < 0 {
		return cfg, &finder.InvalidArgumentError{Name: "anchor-found-index", Value: strconv.Itoa(r.FoundIndex), Expected: "an integer >= 0"}
	}
	if r.MaxItems < 0 {
		return cfg, &finder.InvalidArgumentError{Name: "max-items", Value: strconv.Itoa(r.MaxItems), Expected: "an integer >= 1"}
	}
	if r.Promote && !r.Cursor {
		return cfg, &finder.InvalidArgumentError{Name: "promote", Value: "true", Expected: "--cursor to be set"}
	}
	if r.Promote && r.Title == "" {
		return cfg, &finder.InvalidArgumentError{Name: "promote", Value: "true", Expected: "a window title to promote into"}
	}

	cfg = finder.Config{
		Title:        title,
		Timeout:      seconds(r.Timeout),
		PollInterval: pollInterval,
		Depth:        depth,
		Filter:       model.Filter{OnlyVisible: r.OnlyVisible, MaxItems: r.MaxItems},
	}
	if r.Cursor {
		cfg.Anchor.Cursor = &finder.CursorAnchor{Delay: seconds(r.CursorDelay), Promote: r.Promote}
	}
	if len(r.Predicates) > 0 {
		cfg.Anchor.Condition = &finder.ConditionAnchor{Predicates: r.Predicates, FoundIndex: r.FoundIndex}
	}
	return cfg, nil
}

func (r findRequest) titleSpec() (platform.TitleSpec, error) {
	if r.TitleRegex && r.TitleGlob {
		return platform.TitleSpec{}, &finder.InvalidArgumentError{Name: "title-glob", Value: "true", Expected: "at most one of --title-re and --title-glob"}
	}
	if r.Title == "" {
		if !r.Cursor {
			return platform.TitleSpec{}, &finder.InvalidArgumentError{Name: "window-title", Value: "", Expected: "a window title (optional only with --cursor)"}
		}
		return platform.TitleSpec{}, nil
	}
	spec := platform.TitleSpec{Pattern: r.Title, Mode: platform.TitleExact}
	switch {
	case r.TitleRegex:
		spec.Mode = platform.TitleRegex
	case r.TitleGlob:
		spec.Mode = platform.TitleGlob
	}
	if _, err := spec.Compile(); err != nil {
		return platform.TitleSpec{}, &finder.InvalidArgumentError{Name: "window-title", Value: r.Title, Expected: fmt.Sprintf("a valid %s pattern (%v)", spec.Mode, err)}
	}
	return spec, nil
}

// parseDepth parses a --depth value: a non-negative integer, or "max" for
// an unbounded walk (nil).
func parseDepth(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "max") {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, &finder.InvalidArgumentError{Name: "depth", Value: s, Expected: `an integer >= 0 or "max"`}
	}
	return &n, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
