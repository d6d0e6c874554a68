package finder

import (
	"context"
	"testing"
	"time"

	"github.com/mj1618/findui/internal/platform"
	"github.com/mj1618/findui/internal/platform/memtree"
	"github.com/stretchr/testify/require"
)

func TestLocator_FindsWindow(t *testing.T) {
	tree := calcTree()
	l := &Locator{Provider: tree}

	got, err := l.Locate(context.Background(), platform.TitleSpec{Pattern: "Calc"}, time.Second)
	require.NoError(t, err)
	require.Equal(t, "calc", got.Key())
	require.Equal(t, 1, tree.TopLevelSearches)

	got, err = l.Locate(context.Background(), platform.TitleSpec{Pattern: "Untitled", Mode: platform.TitleRegex}, time.Second)
	require.NoError(t, err)
	require.Equal(t, "notes", got.Key())
}

func TestLocator_Timeout(t *testing.T) {
	tree := calcTree()
	l := &Locator{Provider: tree, PollInterval: 10 * time.Millisecond}
	spec := platform.TitleSpec{Pattern: "Paint"}

	start := time.Now()
	_, err := l.Locate(context.Background(), spec, 50*time.Millisecond)
	var notFound *WindowNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, spec, notFound.Title)
	require.Equal(t, 50*time.Millisecond, notFound.Timeout)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.GreaterOrEqual(t, tree.TopLevelSearches, 2)
	require.Contains(t, err.Error(), "Paint")
	require.Equal(t, ExitWindowNotFound, ExitCode(err))
}

func TestLocator_ZeroTimeoutPollsOnce(t *testing.T) {
	tree := calcTree()
	l := &Locator{Provider: tree}

	_, err := l.Locate(context.Background(), platform.TitleSpec{Pattern: "Paint"}, 0)
	require.ErrorAs(t, err, new(*WindowNotFoundError))
	require.Equal(t, 1, tree.TopLevelSearches)
}

func TestLocator_SkipsStaleWindows(t *testing.T) {
	stale := titled(el("stale", "Window", [4]int{0, 0, 1, 1}), "Calc")
	stale.FailAttributes = true
	live := titled(el("live", "Window", [4]int{0, 0, 1, 1}), "Calc")
	tree := memtree.New(stale, live)
	l := &Locator{Provider: tree}

	got, err := l.Locate(context.Background(), platform.TitleSpec{Pattern: "Calc"}, time.Second)
	require.NoError(t, err)
	require.Equal(t, "live", got.Key())

	tree2 := memtree.New(stale)
	l2 := &Locator{Provider: tree2, PollInterval: 5 * time.Millisecond}
	_, err = l2.Locate(context.Background(), platform.TitleSpec{Pattern: "Calc"}, 20*time.Millisecond)
	require.ErrorAs(t, err, new(*WindowNotFoundError))
}

func TestLocator_Cancelled(t *testing.T) {
	tree := calcTree()
	l := &Locator{Provider: tree}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Locate(ctx, platform.TitleSpec{Pattern: "Paint"}, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, ExitInterrupted, ExitCode(err))
}

func TestLocator_InvalidPattern(t *testing.T) {
	l := &Locator{Provider: calcTree()}
	_, err := l.Locate(context.Background(), platform.TitleSpec{Pattern: "(unclosed", Mode: platform.TitleRegex}, time.Second)
	require.ErrorAs(t, err, new(*InvalidArgumentError))
}
