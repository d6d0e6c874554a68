package finder

import (
	"fmt"

	"github.com/mj1618/findui/internal/model"
	"github.com/mj1618/findui/internal/platform"
	"github.com/mj1618/findui/internal/platform/memtree"
)

func el(id, controlType string, rect [4]int, children ...*memtree.Node) *memtree.Node {
	r := rect
	return &memtree.Node{
		ID:          id,
		ControlType: platform.String(controlType),
		Rect:        &r,
		Children:    children,
	}
}

func titled(n *memtree.Node, title string) *memtree.Node {
	n.Title = platform.String(title)
	return n
}

func hidden(n *memtree.Node) *memtree.Node {
	n.Visible = platform.Bool(false)
	return n
}

func disabled(n *memtree.Node) *memtree.Node {
	n.Enabled = platform.Bool(false)
	return n
}

// calcTree is a calculator window with a display, a keypad of twenty
// buttons (one hidden, one disabled), a nested group and a status bar.
func calcTree() *memtree.Tree {
	var keys []*memtree.Node
	for i := 0; i < 20; i++ {
		x := (i % 4) * 50
		y := 100 + (i/4)*50
		b := titled(el(fmt.Sprintf("key%d", i), "Button", [4]int{x, y, x + 50, y + 50}), fmt.Sprint(i))
		keys = append(keys, b)
	}
	hidden(keys[2])
	disabled(keys[3])

	group := el("memory", "Group", [4]int{200, 100, 400, 200},
		titled(el("ok", "Button", [4]int{200, 100, 300, 150}), "OK"),
		titled(el("ms", "Button", [4]int{300, 100, 400, 150}), "MS"),
	)
	keypad := el("keypad", "Pane", [4]int{0, 100, 400, 400}, append(keys, group)...)

	window := titled(el("calc", "Window", [4]int{0, 0, 400, 450},
		el("display", "Text", [4]int{0, 0, 400, 100}),
		keypad,
		el("status", "StatusBar", [4]int{0, 400, 400, 450}),
	), "Calc")
	window.Children[0].Name = platform.String("0")

	notes := titled(el("notes", "Window", [4]int{500, 0, 900, 400}), "Untitled - Notes")
	return memtree.New(window, notes)
}

func find(t *memtree.Tree, id string) *memtree.Node {
	var found *memtree.Node
	var walk func(nodes []*memtree.Node)
	walk = func(nodes []*memtree.Node) {
		for _, n := range nodes {
			if n.ID == id {
				found = n
			}
			walk(n.Children)
		}
	}
	walk(t.Windows)
	if found == nil {
		panic("no node " + id)
	}
	return found
}

func intPtr(n int) *int { return &n }

func paths(records []model.ElementRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Path)
	}
	return out
}
