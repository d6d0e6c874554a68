package finder

import (
	"context"
	"log/slog"
	"time"

	"github.com/mj1618/findui/internal/logging"
	"github.com/mj1618/findui/internal/platform"
)

// DefaultPollInterval is the delay between window lookups.
const DefaultPollInterval = 500 * time.Millisecond

// Locator waits for a top-level window to appear.
type Locator struct {
	Provider     platform.Provider
	Logger       *slog.Logger
	PollInterval time.Duration // 0 = DefaultPollInterval
}

// Locate polls the provider until a live window matching spec is found or
// timeout elapses. The provider is queried at least once, and once more at
// the deadline. Failed polls are retried silently; only the final timeout
// is reported, as a *WindowNotFoundError.
func (l *Locator) Locate(ctx context.Context, spec platform.TitleSpec, timeout time.Duration) (platform.Handle, error) {
	log := logging.OrDiscard(l.Logger)
	match, err := spec.Compile()
	if err != nil {
		return nil, &InvalidArgumentError{Name: "window-title", Value: spec.Pattern, Expected: err.Error()}
	}

	interval := l.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	start := time.Now()
	deadline := start.Add(timeout)
	log.Info("searching for window", "title", spec.String(), "timeout", timeout)

	for attempt := 1; ; attempt++ {
		win, err := l.findLive(match, log)
		if err != nil {
			log.Debug("window lookup failed", "attempt", attempt, "err", err)
		}
		if win != nil {
			log.Info("window found", "window", win.Key(), "attempts", attempt, "elapsed", time.Since(start).Round(time.Millisecond))
			return win, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			log.Debug("window search timed out", "attempts", attempt)
			return nil, &WindowNotFoundError{Title: spec, Timeout: timeout}
		}
		if err := sleepContext(ctx, min(interval, remaining)); err != nil {
			return nil, err
		}
	}
}

// findLive returns the first candidate that answers an attribute read.
// Providers may report windows that are already gone.
func (l *Locator) findLive(match platform.TitleMatcher, log *slog.Logger) (platform.Handle, error) {
	candidates, err := l.Provider.FindTopLevelWindows(match)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		if _, err := l.Provider.Attributes(c); err != nil {
			log.Debug("skipping stale window", "window", c.Key(), "err", err)
			continue
		}
		return c, nil
	}
	return nil, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
