package finder

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mj1618/findui/internal/logging"
	"github.com/mj1618/findui/internal/platform"
)

// MaxAncestorHops bounds every walk up a parent chain.
const MaxAncestorHops = 20

// CursorPromoter resolves the node under the pointer.
type CursorPromoter struct {
	Provider platform.Provider
	Sampler  platform.PointSampler
	Logger   *slog.Logger
}

// Resolve waits for delay, hit-tests the pointer position and returns the
// node found there.
//
// When target is non-nil and the hit node is not inside target's subtree,
// the node of target's subtree whose rectangle center is nearest to the hit
// node's center is returned instead. Promotion failures are soft: the hit
// node is returned unchanged.
func (c *CursorPromoter) Resolve(ctx context.Context, delay time.Duration, target platform.Handle) (platform.Handle, error) {
	log := logging.OrDiscard(c.Logger)

	if delay > 0 {
		log.Info("waiting before reading cursor position", "delay", delay)
		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
	}

	if c.Sampler == nil {
		return nil, &CursorError{Msg: "pointer position not available on this provider"}
	}
	pt, err := c.Sampler.CursorPosition()
	if err != nil {
		return nil, &CursorError{Msg: "cannot read pointer position", Err: err}
	}
	log.Debug("cursor position", "x", pt.X, "y", pt.Y)

	hit, err := c.Provider.PointHitTest(pt.X, pt.Y)
	if err != nil {
		return nil, &CursorError{Msg: fmt.Sprintf("hit test at (%d, %d) failed", pt.X, pt.Y), Err: err}
	}
	if hit == nil {
		return nil, &CursorError{Msg: fmt.Sprintf("no element at (%d, %d)", pt.X, pt.Y)}
	}
	log.Debug("element under cursor", "node", hit.Key())

	if target == nil {
		return hit, nil
	}
	if c.within(hit, target) {
		log.Debug("cursor element already inside target window")
		return hit, nil
	}
	if promoted := c.nearest(hit, target, log); promoted != nil {
		log.Info("promoted cursor element into target window", "from", hit.Key(), "to", promoted.Key())
		return promoted, nil
	}
	log.Warn("promotion skipped, using element under cursor", "node", hit.Key())
	return hit, nil
}

// within reports whether target is node itself or one of its first
// MaxAncestorHops ancestors.
func (c *CursorPromoter) within(node, target platform.Handle) bool {
	if c.Provider.Equal(node, target) {
		return true
	}
	for _, a := range Ancestors(c.Provider, node, MaxAncestorHops) {
		if c.Provider.Equal(a, target) {
			return true
		}
	}
	return false
}

// nearest returns the descendant of target whose rectangle center is closest
// to node's, or nil when it cannot be determined. Ties go to the first node
// in provider order.
func (c *CursorPromoter) nearest(node, target platform.Handle, log *slog.Logger) platform.Handle {
	attrs, err := c.Provider.Attributes(node)
	if err != nil || attrs.Rect == nil {
		log.Debug("cursor element has no rectangle", "err", err)
		return nil
	}
	origin := *attrs.Rect

	candidates, err := c.Provider.Descendants(target, -1)
	if err != nil {
		log.Debug("cannot list target window descendants", "err", err)
		return nil
	}

	var best platform.Handle
	bestDist := math.Inf(1)
	for _, d := range candidates {
		a, err := c.Provider.Attributes(d.Node)
		if err != nil || a.Rect == nil {
			continue
		}
		if dist := platform.CenterDistance(origin, *a.Rect); dist < bestDist {
			best, bestDist = d.Node, dist
		}
	}
	if best != nil {
		log.Debug("nearest element in target window", "node", best.Key(), "distance", bestDist)
	}
	return best
}

// Ancestors returns up to max ancestors of node, nearest first. The walk
// stops at the first missing, unreadable, self-referential or repeated
// parent, so cyclic parent chains terminate.
func Ancestors(p platform.Provider, node platform.Handle, max int) []platform.Handle {
	var out []platform.Handle
	visited := []platform.Handle{node}
	current := node
	for hop := 0; hop < max; hop++ {
		parent, err := p.Parent(current)
		if err != nil || parent == nil {
			break
		}
		for _, v := range visited {
			if p.Equal(v, parent) {
				return out
			}
		}
		out = append(out, parent)
		visited = append(visited, parent)
		current = parent
	}
	return out
}
