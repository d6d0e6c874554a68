package model

import (
	"fmt"
	"strings"
)

// Filter selects which records are emitted. It is applied while records are
// produced, so MaxItems cuts off emission rather than the underlying fetch.
type Filter struct {
	OnlyVisible bool // Drop records that are explicitly invisible or disabled
	MaxItems    int  // Stop after this many emitted records (0 = unlimited)
}

// Include reports whether r passes the visibility filter.
func (f Filter) Include(r ElementRecord) bool {
	if !f.OnlyVisible {
		return true
	}
	if r.Visible != nil && !*r.Visible {
		return false
	}
	if r.Enabled != nil && !*r.Enabled {
		return false
	}
	return true
}

// Describe returns a human-readable summary of the active filters.
func (f Filter) Describe() string {
	var parts []string
	if f.OnlyVisible {
		parts = append(parts, "only visible and enabled elements")
	}
	if f.MaxItems > 0 {
		parts = append(parts, fmt.Sprintf("at most %d items", f.MaxItems))
	}
	if len(parts) == 0 {
		return "all elements"
	}
	return strings.Join(parts, ", ")
}

// Collector applies a Filter to a stream of candidate records and assigns
// gapless indices to the ones it keeps.
type Collector struct {
	filter  Filter
	records []ElementRecord
	offered int
}

// NewCollector returns an empty collector for f.
func NewCollector(f Filter) *Collector {
	return &Collector{filter: f}
}

// Offer keeps r if it passes the filter and the limit has not been reached.
// The kept record's Index is overwritten with its emission position.
func (c *Collector) Offer(r ElementRecord) bool {
	c.offered++
	if c.Full() || !c.filter.Include(r) {
		return false
	}
	r.Index = len(c.records)
	c.records = append(c.records, r)
	return true
}

// Full reports whether MaxItems records have been kept.
func (c *Collector) Full() bool {
	return c.filter.MaxItems > 0 && len(c.records) >= c.filter.MaxItems
}

// Offered returns how many candidates were offered, kept or not.
func (c *Collector) Offered() int { return c.offered }

// Records returns the kept records in emission order.
func (c *Collector) Records() []ElementRecord {
	return c.records
}
