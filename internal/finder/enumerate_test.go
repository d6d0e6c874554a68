package finder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mj1618/findui/internal/model"
	"github.com/mj1618/findui/internal/platform/memtree"
	"github.com/stretchr/testify/require"
)

func requireGapless(t *testing.T, records []model.ElementRecord) {
	t.Helper()
	for i, r := range records {
		require.Equal(t, i, r.Index, "index sequence has a gap at %d", i)
	}
}

func TestEnumerate_NonPositiveDepthYieldsAnchorOnly(t *testing.T) {
	for _, depth := range []int{0, -1, -10} {
		t.Run(fmt.Sprint(depth), func(t *testing.T) {
			tree := calcTree()
			e := &Enumerator{Provider: tree}

			got, err := e.Enumerate(tree.Windows[0], intPtr(depth), model.Filter{})
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.Equal(t, 0, got[0].Depth)
			require.Equal(t, 0, got[0].Index)
			require.Equal(t, "Calc", got[0].Title)
			require.Equal(t, "Window", got[0].Path)
			require.Zero(t, tree.DescendantCalls)
		})
	}
}

func TestEnumerate_DepthOne(t *testing.T) {
	tree := calcTree()
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(tree.Windows[0], intPtr(1), model.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 4)
	for _, r := range got[1:] {
		require.Equal(t, 1, r.Depth)
	}
	require.Equal(t, []string{"Window", "Window > Text", "Window > Pane", "Window > StatusBar"}, paths(got))
	requireGapless(t, got)
}

func TestEnumerate_DepthLimits(t *testing.T) {
	tests := []struct {
		depth    *int
		want     int
		maxDepth int
	}{
		{intPtr(2), 1 + 3 + 21, 2},
		{intPtr(3), 1 + 3 + 21 + 2, 3},
		{intPtr(50), 1 + 3 + 21 + 2, 3},
		{nil, 1 + 3 + 21 + 2, 3},
	}
	for _, tt := range tests {
		tree := calcTree()
		e := &Enumerator{Provider: tree}
		got, err := e.Enumerate(tree.Windows[0], tt.depth, model.Filter{})
		require.NoError(t, err)
		require.Len(t, got, tt.want)
		for _, r := range got {
			require.LessOrEqual(t, r.Depth, tt.maxDepth)
		}
		requireGapless(t, got)
	}
}

func TestEnumerate_RecordFields(t *testing.T) {
	tree := calcTree()
	find(tree, "ok").AutoID = stringPtr("btnOK")
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(tree.Windows[0], nil, model.Filter{})
	require.NoError(t, err)

	var ok *model.ElementRecord
	for i := range got {
		if got[i].Title == "OK" {
			ok = &got[i]
		}
	}
	require.NotNil(t, ok)
	require.Equal(t, 3, ok.Depth)
	require.Equal(t, "Window > Pane > Group > Button", ok.Path)
	require.Equal(t, "btnOK", *ok.AutoID)
	require.Equal(t, [4]int{200, 100, 300, 150}, *ok.Rectangle)
	require.Nil(t, ok.ClassName)
	require.Nil(t, ok.Visible)

	display := got[1]
	require.Equal(t, "0", display.Name)
	require.Equal(t, "0", display.Title)
}

func TestEnumerate_SkipsUnreadableNodes(t *testing.T) {
	tree := calcTree()
	find(tree, "memory").FailAttributes = true
	find(tree, "key0").FailFields = []string{"rect", "control_type"}
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(tree.Windows[0], nil, model.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1+3+20+2)
	requireGapless(t, got)

	for _, r := range got {
		require.NotEqual(t, "Group", r.Label())
	}
	// Children of the skipped group keep a placeholder segment.
	require.Contains(t, paths(got), "Window > Pane > Element > Button")

	key0 := got[3]
	require.Equal(t, "0", key0.Title)
	require.Nil(t, key0.Rectangle)
	require.Nil(t, key0.ControlType)
	require.Equal(t, "Window > Pane > Element", key0.Path)
}

func TestEnumerate_UnreadableAnchor(t *testing.T) {
	tree := calcTree()
	tree.Windows[0].FailAttributes = true
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(tree.Windows[0], intPtr(1), model.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 0, got[0].Index)
	require.Equal(t, "Element > Text", got[0].Path)
}

func TestEnumerate_OnlyVisible(t *testing.T) {
	tree := calcTree()
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(tree.Windows[0], nil, model.Filter{OnlyVisible: true})
	require.NoError(t, err)
	require.Len(t, got, 1+3+21+2-2)
	for _, r := range got {
		require.False(t, r.Visible != nil && !*r.Visible)
		require.False(t, r.Enabled != nil && !*r.Enabled)
	}
	requireGapless(t, got)
}

func TestEnumerate_MaxItems(t *testing.T) {
	for _, n := range []int{1, 2, 10, 1000} {
		tree := calcTree()
		e := &Enumerator{Provider: tree}
		got, err := e.Enumerate(tree.Windows[0], nil, model.Filter{MaxItems: n})
		require.NoError(t, err)
		require.LessOrEqual(t, len(got), n)
		requireGapless(t, got)
	}
}

func TestEnumerate_NoElementsFound(t *testing.T) {
	win := hidden(titled(el("w", "Window", [4]int{0, 0, 10, 10},
		hidden(el("a", "Button", [4]int{0, 0, 5, 5})),
		disabled(el("b", "Button", [4]int{5, 0, 10, 5})),
	), "W"))
	tree := memtree.New(win)
	e := &Enumerator{Provider: tree}

	_, err := e.Enumerate(win, nil, model.Filter{OnlyVisible: true, MaxItems: 10})
	var empty *NoElementsFoundError
	require.ErrorAs(t, err, &empty)
	require.Equal(t, "only visible and enabled elements, at most 10 items", empty.Filter)
	require.Equal(t, ExitNoElements, ExitCode(err))
}

// familyTree places the anchor in a pane that has siblings and cousins.
func familyTree(uncles, cousinsPerUncle int) *memtree.Tree {
	anchor := el("anchor", "List", [4]int{0, 0, 10, 10}, el("item", "ListItem", [4]int{0, 0, 5, 5}))
	parent := el("parent", "Pane", [4]int{0, 0, 100, 100},
		el("before", "Button", [4]int{0, 0, 10, 10}),
		anchor,
		el("after", "Button", [4]int{0, 0, 10, 10}),
	)
	root := []*memtree.Node{parent}
	for u := 0; u < uncles; u++ {
		var cousins []*memtree.Node
		for c := 0; c < cousinsPerUncle; c++ {
			cousins = append(cousins, el(fmt.Sprintf("cousin%d.%d", u, c), "Edit", [4]int{0, 0, 1, 1}))
		}
		root = append(root, el(fmt.Sprintf("uncle%d", u), "Group", [4]int{0, 0, 1, 1}, cousins...))
	}
	return memtree.New(titled(el("win", "Window", [4]int{0, 0, 800, 600}, root...), "Family"))
}

func TestEnumerate_FallbackWhenDescendantsFail(t *testing.T) {
	tree := familyTree(2, 2)
	anchor := find(tree, "anchor")
	anchor.FailDescendants = true
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(anchor, intPtr(2), model.Filter{})
	require.NoError(t, err)
	requireGapless(t, got)

	require.Equal(t, "List", got[0].Path)
	require.Equal(t, 0, got[0].Depth)
	require.Equal(t, []string{"List", "~ > Button", "~ > Button", "~ > Edit", "~ > Edit", "~ > Edit", "~ > Edit"}, paths(got))
	for _, r := range got[1:] {
		require.GreaterOrEqual(t, r.Depth, 1)
		require.LessOrEqual(t, r.Depth, 2)
	}
}

func TestEnumerate_FallbackWhenEmpty(t *testing.T) {
	tree := familyTree(0, 0)
	anchor := find(tree, "before")
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(anchor, nil, model.Filter{})
	require.NoError(t, err)
	// Anchor, then the two other children of its parent.
	require.Len(t, got, 3)
	require.Equal(t, "~ > List", got[1].Path)
}

func TestEnumerate_FallbackBounds(t *testing.T) {
	tree := familyTree(8, 6)
	anchor := find(tree, "anchor")
	anchor.FailDescendants = true
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(anchor, nil, model.Filter{})
	require.NoError(t, err)

	var cousins []string
	for _, r := range got {
		if strings.HasSuffix(r.Path, "Edit") {
			cousins = append(cousins, r.Path)
		}
	}
	require.Len(t, cousins, 5*3)
	// anchor + 2 siblings + 15 cousins
	require.Len(t, got, 18)

	// Depth estimate by position among related nodes.
	wantDepths := []int{0, 1, 1, 1, 1, 1}
	for i := 6; i < 18; i++ {
		wantDepths = append(wantDepths, 2)
	}
	var gotDepths []int
	for _, r := range got {
		gotDepths = append(gotDepths, r.Depth)
	}
	require.Equal(t, wantDepths, gotDepths)
}

func TestEnumerate_FallbackDedup(t *testing.T) {
	tree := familyTree(1, 1)
	anchor := find(tree, "anchor")
	anchor.FailDescendants = true
	// Every uncle's children resolve to the anchor's siblings.
	find(tree, "uncle0").Children = []*memtree.Node{find(tree, "before"), anchor}
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(anchor, intPtr(5), model.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestEnumerate_FallbackWithoutParent(t *testing.T) {
	win := titled(el("lonely", "Window", [4]int{0, 0, 10, 10}), "Lonely")
	tree := memtree.New(win)
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(win, nil, model.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = e.Enumerate(win, nil, model.Filter{OnlyVisible: true, MaxItems: 1})
	require.NoError(t, err)

	hidden(win)
	_, err = e.Enumerate(win, nil, model.Filter{OnlyVisible: true})
	require.ErrorAs(t, err, new(*NoElementsFoundError))
}

func TestEnumerate_FallbackDepthFollowsEmittedRecords(t *testing.T) {
	anchor := el("anchor", "List", [4]int{0, 0, 10, 10})
	anchor.FailDescendants = true
	siblings := []*memtree.Node{anchor}
	for i := 0; i < 10; i++ {
		b := el(fmt.Sprintf("sibling%d", i), "Button", [4]int{0, 0, 10, 10})
		if i < 5 {
			hidden(b)
		}
		siblings = append(siblings, b)
	}
	siblings[1].FailAttributes = true
	tree := memtree.New(titled(el("win", "Window", [4]int{0, 0, 800, 600},
		el("parent", "Pane", [4]int{0, 0, 100, 100}, siblings...),
	), "Siblings"))
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(anchor, nil, model.Filter{OnlyVisible: true})
	require.NoError(t, err)
	requireGapless(t, got)
	require.Len(t, got, 6)
	require.Equal(t, 0, got[0].Depth)
	// Hidden and unreadable siblings do not use up depth-1 slots.
	for _, r := range got[1:] {
		require.Equal(t, 1, r.Depth, "record %d", r.Index)
		require.Equal(t, "~ > Button", r.Path)
	}
}

func TestFallbackDepth(t *testing.T) {
	tests := []struct{ pos, want int }{
		{0, 1}, {4, 1}, {5, 2}, {19, 2}, {20, 3}, {49, 3}, {50, 4}, {500, 4},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, fallbackDepth(tt.pos), "position %d", tt.pos)
	}
}

func TestEnumerate_LargeTreeProgress(t *testing.T) {
	var panes []*memtree.Node
	for i := 0; i < 60; i++ {
		var items []*memtree.Node
		for j := 0; j < 40; j++ {
			items = append(items, el(fmt.Sprintf("i%d.%d", i, j), "ListItem", [4]int{0, 0, 1, 1}))
		}
		panes = append(panes, el(fmt.Sprintf("p%d", i), "List", [4]int{0, 0, 1, 1}, items...))
	}
	win := titled(el("big", "Window", [4]int{0, 0, 1, 1}, panes...), "Big")
	tree := memtree.New(win)
	e := &Enumerator{Provider: tree}

	got, err := e.Enumerate(win, nil, model.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1+60+60*40)
	requireGapless(t, got)
	require.Equal(t, "Window > List > ListItem", got[2].Path)
}

func stringPtr(s string) *string { return &s }
