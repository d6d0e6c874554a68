package finder

import (
	"log/slog"
	"strconv"

	"github.com/mj1618/findui/internal/logging"
	"github.com/mj1618/findui/internal/model"
	"github.com/mj1618/findui/internal/platform"
)

// Bounds of the related-node fallback.
const (
	fallbackMaxUncles          = 5
	fallbackChildrenPerUncle   = 3
	fallbackUnknownAncestryTag = "~"
)

// fallbackDepthBuckets maps fallback emission positions to approximate
// depths: the first 5 nodes are depth 1, the next 15 depth 2, the next 30
// depth 3 and the rest depth 4.
var fallbackDepthBuckets = []struct{ upTo, depth int }{
	{5, 1},
	{20, 2},
	{50, 3},
}

// Enumerator walks the tree below an anchor and produces ElementRecords.
type Enumerator struct {
	Provider platform.Provider
	Logger   *slog.Logger
}

// Enumerate emits the anchor followed by its descendants, in pre-order.
//
// depth nil walks the whole subtree, depth <= 0 emits only the anchor and
// depth n emits nodes at most n levels below it. Nodes whose attributes
// cannot be read are skipped. When the descendant fetch fails or is empty,
// related nodes around the anchor are emitted instead. An empty result is
// reported as *NoElementsFoundError.
func (e *Enumerator) Enumerate(anchor platform.Handle, depth *int, filter model.Filter) ([]model.ElementRecord, error) {
	log := logging.OrDiscard(e.Logger)
	c := model.NewCollector(filter)

	log.Debug("enumerating elements", "anchor", anchor.Key(), "depth", describeDepth(depth), "filter", filter.Describe())

	anchorLabel := "Element"
	if attrs, err := e.Provider.Attributes(anchor); err != nil {
		log.Debug("anchor attributes unreadable, skipping anchor record", "node", anchor.Key(), "err", err)
	} else {
		anchorLabel = attrs.Label()
		c.Offer(model.NewRecord(attrs, 0, anchorLabel))
	}

	if depth != nil && *depth <= 0 {
		return finish(c, filter, log)
	}

	nodes, err := e.fetch(anchor, depth)
	if err != nil {
		log.Debug("descendant fetch failed, searching related elements", "node", anchor.Key(), "err", err)
	}
	if err != nil || len(nodes) == 0 {
		e.fallback(c, anchor, depth, log)
		return finish(c, filter, log)
	}

	p := newProgress(log)
	labels := []string{anchorLabel}
	for _, d := range nodes {
		if c.Full() {
			log.Debug("max items reached", "max_items", filter.MaxItems)
			break
		}
		p.tick()

		// Keep labels[i] as the label of the current ancestor at depth i.
		level := d.Depth
		if level > len(labels) {
			level = len(labels)
		}
		labels = labels[:level]

		attrs, err := e.Provider.Attributes(d.Node)
		if err != nil {
			log.Debug("skipping unreadable element", "node", d.Node.Key(), "err", err)
			labels = append(labels, "Element")
			continue
		}
		label := attrs.Label()
		path := model.JoinPath(joinLabels(labels), label)
		labels = append(labels, label)
		c.Offer(model.NewRecord(attrs, d.Depth, path))
	}
	p.done(len(c.Records()))
	return finish(c, filter, log)
}

func (e *Enumerator) fetch(anchor platform.Handle, depth *int) ([]platform.Descendant, error) {
	switch {
	case depth == nil:
		return e.Provider.Descendants(anchor, -1)
	case *depth == 1:
		children, err := e.Provider.Children(anchor)
		if err != nil {
			return nil, err
		}
		out := make([]platform.Descendant, 0, len(children))
		for _, ch := range children {
			out = append(out, platform.Descendant{Node: ch, Depth: 1})
		}
		return out, nil
	default:
		return e.Provider.Descendants(anchor, *depth-1)
	}
}

// fallback emits the anchor's siblings and a few children of its parent's
// siblings. Their depths are estimated from their position among the
// fallback records actually emitted.
func (e *Enumerator) fallback(c *model.Collector, anchor platform.Handle, depth *int, log *slog.Logger) {
	related := e.related(anchor, log)
	log.Debug("related elements found", "count", len(related))

	emitted := 0
	for _, node := range related {
		if c.Full() {
			break
		}
		attrs, err := e.Provider.Attributes(node)
		if err != nil {
			log.Debug("skipping unreadable related element", "node", node.Key(), "err", err)
			continue
		}
		d := fallbackDepth(emitted)
		if depth != nil && d > *depth {
			d = *depth
		}
		label := attrs.Label()
		if c.Offer(model.NewRecord(attrs, d, model.JoinPath(fallbackUnknownAncestryTag, label))) {
			emitted++
		}
	}
}

// related collects nodes near anchor, excluding anchor itself which is
// already emitted. Duplicates are dropped by handle identity.
func (e *Enumerator) related(anchor platform.Handle, log *slog.Logger) []platform.Handle {
	seen := []platform.Handle{anchor}
	var out []platform.Handle
	add := func(h platform.Handle) {
		for _, s := range seen {
			if e.Provider.Equal(s, h) {
				return
			}
		}
		seen = append(seen, h)
		out = append(out, h)
	}

	parent, err := e.Provider.Parent(anchor)
	if err != nil || parent == nil || e.Provider.Equal(parent, anchor) {
		log.Debug("anchor has no usable parent", "err", err)
		return out
	}
	siblings, err := e.Provider.Children(parent)
	if err != nil {
		log.Debug("cannot list siblings", "err", err)
	}
	for _, s := range siblings {
		add(s)
	}

	grandparent, err := e.Provider.Parent(parent)
	if err != nil || grandparent == nil || e.Provider.Equal(grandparent, parent) {
		return out
	}
	uncles, err := e.Provider.Children(grandparent)
	if err != nil {
		log.Debug("cannot list parent siblings", "err", err)
		return out
	}
	taken := 0
	for _, u := range uncles {
		if taken == fallbackMaxUncles {
			break
		}
		if e.Provider.Equal(u, parent) {
			continue
		}
		taken++
		children, err := e.Provider.Children(u)
		if err != nil {
			log.Debug("cannot list children", "node", u.Key(), "err", err)
			continue
		}
		if len(children) > fallbackChildrenPerUncle {
			children = children[:fallbackChildrenPerUncle]
		}
		for _, ch := range children {
			add(ch)
		}
	}
	return out
}

func fallbackDepth(position int) int {
	for _, b := range fallbackDepthBuckets {
		if position < b.upTo {
			return b.depth
		}
	}
	return 4
}

func finish(c *model.Collector, filter model.Filter, log *slog.Logger) ([]model.ElementRecord, error) {
	records := c.Records()
	log.Debug("enumeration finished", "candidates", c.Offered(), "emitted", len(records))
	if len(records) == 0 {
		return nil, &NoElementsFoundError{Filter: filter.Describe()}
	}
	return records, nil
}

func joinLabels(labels []string) string {
	path := ""
	for _, l := range labels {
		path = model.JoinPath(path, l)
	}
	return path
}

func describeDepth(depth *int) string {
	if depth == nil {
		return "max"
	}
	return strconv.Itoa(*depth)
}
