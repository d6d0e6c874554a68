package platform

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/gobwas/glob"
)

// TitleMode selects how a window title pattern is interpreted.
type TitleMode int

const (
	TitleExact TitleMode = iota // Title must equal the pattern
	TitleRegex                  // Pattern must match at the start of the title
	TitleGlob                   // Shell-style glob over the whole title
	TitleAny                    // Every window matches
)

func (m TitleMode) String() string {
	switch m {
	case TitleExact:
		return "exact"
	case TitleRegex:
		return "regex"
	case TitleGlob:
		return "glob"
	case TitleAny:
		return "any"
	default:
		return fmt.Sprintf("TitleMode(%d)", int(m))
	}
}

// TitleSpec describes the window title to search for.
type TitleSpec struct {
	Pattern string
	Mode    TitleMode
}

func (s TitleSpec) String() string {
	if s.Mode == TitleAny {
		return "*"
	}
	return fmt.Sprintf("%q (%s)", s.Pattern, s.Mode)
}

// TitleMatcher decides whether a window title is a match.
type TitleMatcher interface {
	Match(title string) bool
	Spec() TitleSpec
}

// regexMatchTimeout bounds a single regex evaluation against a title.
const regexMatchTimeout = time.Second

// Compile validates the pattern and returns a matcher for it.
func (s TitleSpec) Compile() (TitleMatcher, error) {
	switch s.Mode {
	case TitleExact:
		return exactMatcher{spec: s}, nil
	case TitleAny:
		return anyMatcher{spec: s}, nil
	case TitleRegex:
		// Anchored at the start only, like Python's re.match.
		re, err := regexp2.Compile(`\A(?:`+s.Pattern+`)`, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("invalid title regex %q: %w", s.Pattern, err)
		}
		re.MatchTimeout = regexMatchTimeout
		return regexMatcher{spec: s, re: re}, nil
	case TitleGlob:
		g, err := glob.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid title glob %q: %w", s.Pattern, err)
		}
		return globMatcher{spec: s, g: g}, nil
	default:
		return nil, fmt.Errorf("unknown title mode %d", int(s.Mode))
	}
}

type exactMatcher struct{ spec TitleSpec }

func (m exactMatcher) Match(title string) bool { return title == m.spec.Pattern }
func (m exactMatcher) Spec() TitleSpec         { return m.spec }

type anyMatcher struct{ spec TitleSpec }

func (m anyMatcher) Match(string) bool { return true }
func (m anyMatcher) Spec() TitleSpec   { return m.spec }

type regexMatcher struct {
	spec TitleSpec
	re   *regexp2.Regexp
}

func (m regexMatcher) Match(title string) bool {
	ok, err := m.re.MatchString(title)
	return err == nil && ok
}
func (m regexMatcher) Spec() TitleSpec { return m.spec }

type globMatcher struct {
	spec TitleSpec
	g    glob.Glob
}

func (m globMatcher) Match(title string) bool { return m.g.Match(title) }
func (m globMatcher) Spec() TitleSpec         { return m.spec }
