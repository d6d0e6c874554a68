package finder

import (
	"context"
	"testing"
	"time"

	"github.com/mj1618/findui/internal/platform/memtree"
	"github.com/stretchr/testify/require"
)

// promotionTree has a palette window on top of an editor window. The cursor
// rests on the palette's swatch, whose center is (525, 25).
func promotionTree() *memtree.Tree {
	palette := titled(el("palette", "Window", [4]int{500, 0, 700, 200},
		el("swatch", "Button", [4]int{500, 0, 550, 50}),
	), "Palette")
	editor := titled(el("editor", "Window", [4]int{0, 0, 800, 600},
		el("left", "Button", [4]int{400, 0, 450, 50}),     // center (425, 25), distance 100
		el("below", "Button", [4]int{500, 100, 550, 150}), // center (525, 125), distance 100
		el("far", "Button", [4]int{0, 500, 50, 550}),
	), "Editor")
	tree := memtree.New(palette, editor)
	tree.Cursor = &[2]int{510, 10}
	return tree
}

func TestCursorPromoter_NoTargetReturnsHit(t *testing.T) {
	tree := promotionTree()
	p := &CursorPromoter{Provider: tree, Sampler: tree}

	got, err := p.Resolve(context.Background(), 0, nil)
	require.NoError(t, err)
	require.Equal(t, "swatch", got.Key())
	require.Zero(t, tree.ParentCalls, "no ancestor walk without a target")
	require.Zero(t, tree.DescendantCalls, "no distance search without a target")
	require.Zero(t, tree.AttributeCalls)
}

func TestCursorPromoter_HitInsideTarget(t *testing.T) {
	tree := promotionTree()
	p := &CursorPromoter{Provider: tree, Sampler: tree}

	got, err := p.Resolve(context.Background(), 0, tree.Windows[0])
	require.NoError(t, err)
	require.Equal(t, "swatch", got.Key())
	require.Zero(t, tree.DescendantCalls)

	// The target itself counts as inside.
	tree.Cursor = &[2]int{650, 150}
	got, err = p.Resolve(context.Background(), 0, tree.Windows[0])
	require.NoError(t, err)
	require.Equal(t, "palette", got.Key())
}

func TestCursorPromoter_PromotesNearestFirstOnTie(t *testing.T) {
	tree := promotionTree()
	p := &CursorPromoter{Provider: tree, Sampler: tree}

	got, err := p.Resolve(context.Background(), 0, tree.Windows[1])
	require.NoError(t, err)
	require.Equal(t, "left", got.Key())
}

func TestCursorPromoter_SoftFailure(t *testing.T) {
	tree := promotionTree()
	tree.Windows[1].FailDescendants = true
	p := &CursorPromoter{Provider: tree, Sampler: tree}

	got, err := p.Resolve(context.Background(), 0, tree.Windows[1])
	require.NoError(t, err)
	require.Equal(t, "swatch", got.Key())

	empty := titled(el("empty", "Window", [4]int{0, 0, 10, 10}), "Empty")
	tree2 := promotionTree()
	tree2.Windows = append(tree2.Windows, empty)
	p2 := &CursorPromoter{Provider: tree2, Sampler: tree2}
	got, err = p2.Resolve(context.Background(), 0, empty)
	require.NoError(t, err)
	require.Equal(t, "swatch", got.Key())
}

func TestCursorPromoter_Errors(t *testing.T) {
	tree := promotionTree()
	tree.Cursor = nil
	p := &CursorPromoter{Provider: tree, Sampler: tree}
	_, err := p.Resolve(context.Background(), 0, nil)
	require.ErrorAs(t, err, new(*CursorError))
	require.Equal(t, ExitCursor, ExitCode(err))

	tree.Cursor = &[2]int{5000, 5000}
	_, err = p.Resolve(context.Background(), 0, nil)
	require.ErrorAs(t, err, new(*CursorError))
	require.Contains(t, err.Error(), "(5000, 5000)")

	p.Sampler = nil
	_, err = p.Resolve(context.Background(), 0, nil)
	require.ErrorAs(t, err, new(*CursorError))
}

func TestCursorPromoter_DelayHonoursContext(t *testing.T) {
	tree := promotionTree()
	p := &CursorPromoter{Provider: tree, Sampler: tree}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Resolve(ctx, time.Hour, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, tree.HitTests)
}

func TestAncestors_CycleGuard(t *testing.T) {
	tree := promotionTree()
	swatch := find(tree, "swatch")
	palette := tree.Windows[0]

	// swatch -> palette -> swatch -> ...
	tree.ParentFunc = func(n *memtree.Node) *memtree.Node {
		if n == swatch {
			return palette
		}
		return swatch
	}
	got := Ancestors(tree, swatch, MaxAncestorHops)
	require.Len(t, got, 1)
	require.Equal(t, "palette", got[0].Key())

	// Self-referential parent.
	tree.ParentFunc = func(n *memtree.Node) *memtree.Node { return n }
	require.Empty(t, Ancestors(tree, swatch, MaxAncestorHops))
}

func TestAncestors_Bounded(t *testing.T) {
	// A chain deeper than the hop limit.
	leaf := el("n0", "Pane", [4]int{0, 0, 1, 1})
	top := leaf
	for i := 1; i <= 30; i++ {
		top = el("n", "Pane", [4]int{0, 0, 1, 1}, top)
	}
	tree := memtree.New(top)

	got := Ancestors(tree, leaf, MaxAncestorHops)
	require.Len(t, got, MaxAncestorHops)
	require.LessOrEqual(t, tree.ParentCalls, MaxAncestorHops)
}

func TestCursorPromoter_TargetBeyondHopLimitIsPromoted(t *testing.T) {
	leaf := el("leaf", "Button", [4]int{0, 0, 10, 10})
	top := leaf
	for i := 0; i < 25; i++ {
		top = el("pane", "Pane", [4]int{0, 0, 10, 10}, top)
	}
	tree := memtree.New(top)
	tree.Cursor = &[2]int{5, 5}
	p := &CursorPromoter{Provider: tree, Sampler: tree}

	got, err := p.Resolve(context.Background(), 0, top)
	require.NoError(t, err)
	// The walk gives up before reaching top, so the nearest descendant of top
	// is chosen; every rectangle is identical and the first one wins.
	require.Equal(t, top.Children[0], got)
}
