package finder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mj1618/findui/internal/logging"
	"github.com/mj1618/findui/internal/platform"
)

// CursorAnchor anchors on the element under the pointer.
type CursorAnchor struct {
	Delay   time.Duration // wait before sampling the pointer
	Promote bool          // move the hit node into the located window when it lies outside
}

// ConditionAnchor anchors on the FoundIndex-th element matching Predicates.
type ConditionAnchor struct {
	Predicates map[string]string
	FoundIndex int
}

// AnchorSpec selects how the enumeration root is chosen. When both Cursor and
// Condition are set, Cursor wins. When neither is set the window itself is
// the anchor.
type AnchorSpec struct {
	Cursor    *CursorAnchor
	Condition *ConditionAnchor
}

// Strategy names an anchor resolution strategy.
type Strategy string

const (
	StrategyCursor      Strategy = "cursor"
	StrategyCondition   Strategy = "condition"
	StrategyWholeWindow Strategy = "window"
)

// Strategy returns the variant that resolution will use.
func (s AnchorSpec) Strategy() Strategy {
	switch {
	case s.Cursor != nil:
		return StrategyCursor
	case s.Condition != nil && len(s.Condition.Predicates) > 0:
		return StrategyCondition
	default:
		return StrategyWholeWindow
	}
}

// ResolvedAnchor is the enumeration root and the window it was resolved
// from. It is only valid until the provider that produced it is closed.
type ResolvedAnchor struct {
	Node   platform.Handle
	Window platform.Handle
}

// ResolverState tracks a Resolver through one resolution.
type ResolverState int

const (
	StateIdle ResolverState = iota
	StateResolving
	StateResolved
	StateFailed
)

func (s ResolverState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("ResolverState(%d)", int(s))
}

// Resolver turns an AnchorSpec into a node handle.
type Resolver struct {
	Provider platform.Provider
	Sampler  platform.PointSampler
	Logger   *slog.Logger

	state ResolverState
}

// State returns the resolver's current state.
func (r *Resolver) State() ResolverState { return r.state }

// Resolve picks the anchor for spec inside window. window may be nil only
// for the cursor strategy without promotion.
func (r *Resolver) Resolve(ctx context.Context, spec AnchorSpec, window platform.Handle) (ResolvedAnchor, error) {
	r.state = StateResolving
	node, err := r.resolve(ctx, spec, window)
	if err != nil {
		r.state = StateFailed
		return ResolvedAnchor{}, err
	}
	r.state = StateResolved
	return ResolvedAnchor{Node: node, Window: window}, nil
}

func (r *Resolver) resolve(ctx context.Context, spec AnchorSpec, window platform.Handle) (platform.Handle, error) {
	log := logging.OrDiscard(r.Logger)
	strategy := spec.Strategy()
	log.Debug("resolving anchor", "strategy", string(strategy))

	switch strategy {
	case StrategyCursor:
		if spec.Condition != nil && len(spec.Condition.Predicates) > 0 {
			log.Debug("cursor anchor takes precedence, ignoring predicates", "predicates", FormatPredicates(spec.Condition.Predicates))
		}
		var target platform.Handle
		if spec.Cursor.Promote {
			target = window
		}
		p := &CursorPromoter{Provider: r.Provider, Sampler: r.Sampler, Logger: r.Logger}
		return p.Resolve(ctx, spec.Cursor.Delay, target)

	case StrategyCondition:
		if window == nil {
			return nil, fmt.Errorf("condition anchor requires a window")
		}
		m := &ConditionMatcher{Provider: r.Provider, Logger: r.Logger}
		return m.Resolve(window, spec.Condition.Predicates, spec.Condition.FoundIndex)

	default:
		if window == nil {
			return nil, fmt.Errorf("window anchor requires a window")
		}
		return window, nil
	}
}
