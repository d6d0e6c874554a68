// Package finder locates a window, resolves an anchor element inside it and
// enumerates the accessibility tree below that anchor.
package finder

import (
	"context"
	"log/slog"
	"time"

	"github.com/mj1618/findui/internal/logging"
	"github.com/mj1618/findui/internal/model"
	"github.com/mj1618/findui/internal/platform"
)

// DefaultTimeout is how long Find waits for the window by default.
const DefaultTimeout = 5 * time.Second

// Config is a validated find request.
type Config struct {
	Title        platform.TitleSpec
	Timeout      time.Duration
	PollInterval time.Duration
	Anchor       AnchorSpec
	Depth        *int // nil = unbounded
	Filter       model.Filter
}

// NeedsWindow reports whether the request has to locate a window. Only a
// cursor anchor without promotion works without one.
func (c Config) NeedsWindow() bool {
	if c.Anchor.Cursor != nil && !c.Anchor.Cursor.Promote {
		return c.Title.Pattern != ""
	}
	return true
}

// Finder runs one find request against a provider.
type Finder struct {
	Provider platform.Provider
	Sampler  platform.PointSampler // may be nil when no cursor anchor is used
	Logger   *slog.Logger
}

// Find returns the records for cfg.
func (f *Finder) Find(ctx context.Context, cfg Config) ([]model.ElementRecord, error) {
	records, _, err := f.FindWithAnchor(ctx, cfg)
	return records, err
}

// FindWithAnchor is Find that also returns the resolved anchor, for output
// that needs to read the provider directly. The anchor is only valid until
// the provider is closed.
func (f *Finder) FindWithAnchor(ctx context.Context, cfg Config) ([]model.ElementRecord, ResolvedAnchor, error) {
	log := logging.OrDiscard(f.Logger)
	start := time.Now()

	var window platform.Handle
	if cfg.NeedsWindow() {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		loc := &Locator{Provider: f.Provider, Logger: f.Logger, PollInterval: cfg.PollInterval}
		w, err := loc.Locate(ctx, cfg.Title, timeout)
		if err != nil {
			return nil, ResolvedAnchor{}, err
		}
		window = w
	}

	res := &Resolver{Provider: f.Provider, Sampler: f.Sampler, Logger: f.Logger}
	anchor, err := res.Resolve(ctx, cfg.Anchor, window)
	if err != nil {
		return nil, ResolvedAnchor{}, err
	}

	en := &Enumerator{Provider: f.Provider, Logger: f.Logger}
	records, err := en.Enumerate(anchor.Node, cfg.Depth, cfg.Filter)
	if err != nil {
		return nil, anchor, err
	}
	log.Info("elements found", "count", len(records), "strategy", string(cfg.Anchor.Strategy()), "elapsed", time.Since(start).Round(time.Millisecond))
	return records, anchor, nil
}
