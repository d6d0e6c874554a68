package finder

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mj1618/findui/internal/logging"
	"github.com/mj1618/findui/internal/platform"
)

// Predicate keys accepted by ConditionMatcher. "title" and "name" are
// synonyms for the same predicate.
const (
	KeyControlType = "control_type"
	KeyTitle       = "title"
	KeyName        = "name"
	KeyClassName   = "class_name"
	KeyAutoID      = "auto_id"
)

// PredicateKeys lists the supported predicate keys.
var PredicateKeys = []string{KeyControlType, KeyTitle, KeyName, KeyClassName, KeyAutoID}

// ConditionMatcher selects a node inside a window by exact attribute match.
type ConditionMatcher struct {
	Provider platform.Provider
	Logger   *slog.Logger
}

// Resolve returns the foundIndex-th (0-based) node under window, in pre-order,
// whose attributes satisfy every predicate.
func (m *ConditionMatcher) Resolve(window platform.Handle, predicates map[string]string, foundIndex int) (platform.Handle, error) {
	log := logging.OrDiscard(m.Logger)

	if foundIndex < 0 {
		return nil, &InvalidArgumentError{Name: "anchor-found-index", Value: fmt.Sprint(foundIndex), Expected: "integer >= 0"}
	}
	cond, err := compileCondition(predicates)
	if err != nil {
		return nil, err
	}

	nodes, err := m.candidates(window, log)
	if err != nil {
		return nil, &AnchorNotFoundError{Predicates: predicates, FoundIndex: foundIndex, Err: err}
	}

	matches := 0
	for _, node := range nodes {
		attrs, err := m.Provider.Attributes(node)
		if err != nil {
			log.Debug("skipping unreadable element", "node", node.Key(), "err", err)
			continue
		}
		if !cond.match(attrs) {
			continue
		}
		if matches == foundIndex {
			log.Debug("anchor resolved", "predicates", FormatPredicates(predicates), "index", foundIndex, "node", node.Key())
			return node, nil
		}
		matches++
	}
	return nil, &AnchorNotFoundError{Predicates: predicates, FoundIndex: foundIndex, Matches: matches}
}

// candidates lists the nodes searched for a match: every descendant of
// window in pre-order, or only its direct children when the full walk fails.
func (m *ConditionMatcher) candidates(window platform.Handle, log *slog.Logger) ([]platform.Handle, error) {
	descendants, err := m.Provider.Descendants(window, -1)
	if err == nil {
		out := make([]platform.Handle, 0, len(descendants))
		for _, d := range descendants {
			out = append(out, d.Node)
		}
		return out, nil
	}
	log.Debug("descendant fetch failed, searching window children", "window", window.Key(), "err", err)

	children, childErr := m.Provider.Children(window)
	if childErr != nil {
		return nil, fmt.Errorf("list elements of window %s: %w", window.Key(), errors.Join(err, childErr))
	}
	return children, nil
}

type condition struct {
	title       *string
	controlType *string
	className   *string
	autoID      *string
	conflict    bool // title and name given with different values
}

func compileCondition(predicates map[string]string) (condition, error) {
	var c condition
	if len(predicates) == 0 {
		return c, &InvalidArgumentError{Name: "anchor", Value: "", Expected: "at least one of " + strings.Join(PredicateKeys, ", ")}
	}
	for k, v := range predicates {
		v := v
		switch k {
		case KeyTitle, KeyName:
			if c.title != nil && *c.title != v {
				c.conflict = true
			}
			c.title = &v
		case KeyControlType:
			c.controlType = &v
		case KeyClassName:
			c.className = &v
		case KeyAutoID:
			c.autoID = &v
		default:
			return c, &InvalidArgumentError{Name: "anchor-" + strings.ReplaceAll(k, "_", "-"), Value: v, Expected: "one of " + strings.Join(PredicateKeys, ", ")}
		}
	}
	return c, nil
}

func (c condition) match(a platform.Attributes) bool {
	if c.conflict {
		return false
	}
	if c.title != nil && !equalPtr(a.Title, *c.title) && !equalPtr(a.Name, *c.title) {
		return false
	}
	if c.controlType != nil && !equalPtr(a.ControlType, *c.controlType) {
		return false
	}
	if c.className != nil && !equalPtr(a.ClassName, *c.className) {
		return false
	}
	if c.autoID != nil && !equalPtr(a.AutomationID, *c.autoID) {
		return false
	}
	return true
}

func equalPtr(p *string, v string) bool {
	return p != nil && *p == v
}
