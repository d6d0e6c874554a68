package finder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mj1618/findui/internal/platform"
)

// Process exit codes for each error kind.
const (
	ExitOK              = 0
	ExitWindowNotFound  = 1
	ExitAnchorNotFound  = 2
	ExitCursor          = 3
	ExitNoElements      = 4
	ExitInvalidArgument = 5
	ExitUnexpected      = 100
	ExitInterrupted     = 130
)

// WindowNotFoundError means no live window matched within the timeout.
type WindowNotFoundError struct {
	Title   platform.TitleSpec
	Timeout time.Duration
}

func (e *WindowNotFoundError) Error() string {
	return fmt.Sprintf("window not found: %s (timeout: %s)", e.Title, e.Timeout)
}

// AnchorNotFoundError means fewer than FoundIndex+1 nodes matched the
// predicates. Err is set when the window's elements could not be listed.
type AnchorNotFoundError struct {
	Predicates map[string]string
	FoundIndex int
	Matches    int
	Err        error
}

func (e *AnchorNotFoundError) Error() string {
	msg := fmt.Sprintf("anchor not found: %s (found index: %d, matches: %d)",
		FormatPredicates(e.Predicates), e.FoundIndex, e.Matches)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AnchorNotFoundError) Unwrap() error { return e.Err }

// CursorError means the pointer position or the node under it could not be read.
type CursorError struct {
	Msg string
	Err error
}

func (e *CursorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cursor: %s: %v", e.Msg, e.Err)
	}
	return "cursor: " + e.Msg
}

func (e *CursorError) Unwrap() error { return e.Err }

// NoElementsFoundError means the filtered result set is empty.
type NoElementsFoundError struct {
	Filter string
}

func (e *NoElementsFoundError) Error() string {
	return fmt.Sprintf("no elements found: 0 results for %s", e.Filter)
}

// InvalidArgumentError reports a configuration value that failed validation.
type InvalidArgumentError struct {
	Name     string
	Value    string
	Expected string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: --%s=%s (expected: %s)", e.Name, e.Value, e.Expected)
}

// ExitCode maps an error returned by this package to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		windowErr *WindowNotFoundError
		anchorErr *AnchorNotFoundError
		cursorErr *CursorError
		emptyErr  *NoElementsFoundError
		argErr    *InvalidArgumentError
	)
	switch {
	case errors.As(err, &windowErr):
		return ExitWindowNotFound
	case errors.As(err, &anchorErr):
		return ExitAnchorNotFound
	case errors.As(err, &cursorErr):
		return ExitCursor
	case errors.As(err, &emptyErr):
		return ExitNoElements
	case errors.As(err, &argErr):
		return ExitInvalidArgument
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitUnexpected
	}
}

// FormatPredicates renders predicates as "key='value'" pairs in key order.
func FormatPredicates(p map[string]string) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s='%s'", k, p[k]))
	}
	return strings.Join(parts, ", ")
}
