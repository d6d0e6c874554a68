package finder

import (
	"log/slog"
	"time"
)

// Progress logging kicks in once a walk passes progressThreshold nodes and
// then reports every progressEvery nodes.
const (
	progressThreshold = 1000
	progressEvery     = 100
)

type progress struct {
	log       *slog.Logger
	threshold int
	every     int
	seen      int
	started   time.Time
	active    bool
}

func newProgress(log *slog.Logger) *progress {
	return &progress{log: log, threshold: progressThreshold, every: progressEvery, started: time.Now()}
}

// tick records one visited node.
func (p *progress) tick() {
	p.seen++
	if !p.active {
		if p.seen < p.threshold {
			return
		}
		p.active = true
		p.log.Info("large element tree, reporting progress", "nodes", p.seen)
		return
	}
	if p.seen%p.every == 0 {
		p.log.Info("enumerating elements", "nodes", p.seen, "elapsed", time.Since(p.started).Round(time.Millisecond))
	}
}

func (p *progress) done(emitted int) {
	if p.active {
		p.log.Info("enumeration complete", "nodes", p.seen, "emitted", emitted, "elapsed", time.Since(p.started).Round(time.Millisecond))
	}
}
