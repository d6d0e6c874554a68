// Package memtree provides an in-memory accessibility tree provider.
// Trees are built in code or loaded from a YAML fixture, and nodes can be
// marked to fail specific reads so callers' fault handling can be exercised.
package memtree

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/findui/internal/platform"
	"gopkg.in/yaml.v3"
)

// Node is one element of the tree.
type Node struct {
	ID          string   `yaml:"id"`
	Title       *string  `yaml:"title,omitempty"`
	Name        *string  `yaml:"name,omitempty"`
	ControlType *string  `yaml:"control_type,omitempty"`
	ClassName   *string  `yaml:"class_name,omitempty"`
	AutoID      *string  `yaml:"auto_id,omitempty"`
	Rect        *[4]int  `yaml:"rect,omitempty"` // left, top, right, bottom
	Visible     *bool    `yaml:"visible,omitempty"`
	Enabled     *bool    `yaml:"enabled,omitempty"`
	Children    []*Node  `yaml:"children,omitempty"`
	FailFields  []string `yaml:"fail_fields,omitempty"` // attribute names whose read fails
	PID         int      `yaml:"pid,omitempty"`
	Process     string   `yaml:"process,omitempty"`

	FailAttributes  bool `yaml:"fail_attributes,omitempty"`  // whole attribute read fails
	FailChildren    bool `yaml:"fail_children,omitempty"`    // Children(node) fails
	FailDescendants bool `yaml:"fail_descendants,omitempty"` // Descendants(node) fails

	parent *Node
}

// Key implements platform.Handle.
func (n *Node) Key() string { return n.ID }

// Tree is an in-memory platform.Provider and platform.PointSampler.
type Tree struct {
	Windows []*Node `yaml:"windows"` // top-level windows, topmost first
	Cursor  *[2]int `yaml:"cursor,omitempty"`

	// ParentFunc overrides parent lookup, e.g. to model cyclic parent chains.
	ParentFunc func(n *Node) *Node `yaml:"-"`

	// Call counters, for asserting which provider operations ran.
	HitTests         int `yaml:"-"`
	ParentCalls      int `yaml:"-"`
	DescendantCalls  int `yaml:"-"`
	AttributeCalls   int `yaml:"-"`
	TopLevelSearches int `yaml:"-"`

	closed bool
}

var (
	_ platform.Provider        = (*Tree)(nil)
	_ platform.PointSampler    = (*Tree)(nil)
	_ platform.ProcessReporter = (*Tree)(nil)
)

// New builds a tree from top-level windows and links parent pointers.
func New(windows ...*Node) *Tree {
	t := &Tree{Windows: windows}
	t.link()
	return t
}

// Load decodes a YAML fixture.
func Load(r io.Reader) (*Tree, error) {
	var t Tree
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if len(t.Windows) == 0 {
		return nil, fmt.Errorf("decode fixture: no windows defined")
	}
	t.link()
	return &t, nil
}

// LoadFile decodes a YAML fixture from path.
func LoadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (t *Tree) link() {
	var walk func(parent *Node, nodes []*Node)
	walk = func(parent *Node, nodes []*Node) {
		for _, n := range nodes {
			n.parent = parent
			walk(n, n.Children)
		}
	}
	walk(nil, t.Windows)
}

// Closed reports whether Close was called.
func (t *Tree) Closed() bool { return t.closed }

func (t *Tree) node(h platform.Handle) (*Node, error) {
	if t.closed {
		return nil, fmt.Errorf("memtree: provider closed")
	}
	n, ok := h.(*Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("memtree: foreign handle %v", h)
	}
	return n, nil
}

func (t *Tree) FindTopLevelWindows(match platform.TitleMatcher) ([]platform.Handle, error) {
	t.TopLevelSearches++
	var out []platform.Handle
	for _, w := range t.Windows {
		title := ""
		if w.Title != nil {
			title = *w.Title
		} else if w.Name != nil {
			title = *w.Name
		}
		if match.Match(title) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (t *Tree) PointHitTest(x, y int) (platform.Handle, error) {
	t.HitTests++
	for _, w := range t.Windows {
		if hit := deepestAt(w, x, y); hit != nil {
			return hit, nil
		}
	}
	return nil, nil
}

func deepestAt(n *Node, x, y int) *Node {
	if n.Visible != nil && !*n.Visible {
		return nil
	}
	if n.Rect == nil || x < n.Rect[0] || x >= n.Rect[2] || y < n.Rect[1] || y >= n.Rect[3] {
		return nil
	}
	// Later siblings are drawn on top.
	for i := len(n.Children) - 1; i >= 0; i-- {
		if hit := deepestAt(n.Children[i], x, y); hit != nil {
			return hit
		}
	}
	return n
}

func (t *Tree) Parent(h platform.Handle) (platform.Handle, error) {
	t.ParentCalls++
	n, err := t.node(h)
	if err != nil {
		return nil, err
	}
	p := n.parent
	if t.ParentFunc != nil {
		p = t.ParentFunc(n)
	}
	if p == nil {
		return nil, nil
	}
	return p, nil
}

func (t *Tree) Children(h platform.Handle) ([]platform.Handle, error) {
	n, err := t.node(h)
	if err != nil {
		return nil, err
	}
	if n.FailChildren {
		return nil, fmt.Errorf("memtree: children of %s unavailable", n.ID)
	}
	out := make([]platform.Handle, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c)
	}
	return out, nil
}

func (t *Tree) Descendants(h platform.Handle, maxDepth int) ([]platform.Descendant, error) {
	t.DescendantCalls++
	n, err := t.node(h)
	if err != nil {
		return nil, err
	}
	if n.FailDescendants {
		return nil, fmt.Errorf("memtree: descendants of %s unavailable", n.ID)
	}
	var out []platform.Descendant
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if maxDepth >= 0 && depth > maxDepth+1 {
			return
		}
		for _, c := range n.Children {
			out = append(out, platform.Descendant{Node: c, Depth: depth})
			walk(c, depth+1)
		}
	}
	walk(n, 1)
	return out, nil
}

func (t *Tree) Attributes(h platform.Handle) (platform.Attributes, error) {
	t.AttributeCalls++
	n, err := t.node(h)
	if err != nil {
		return platform.Attributes{}, err
	}
	if n.FailAttributes {
		return platform.Attributes{}, fmt.Errorf("memtree: attributes of %s unavailable", n.ID)
	}
	failed := make(map[string]bool, len(n.FailFields))
	for _, f := range n.FailFields {
		failed[f] = true
	}
	var a platform.Attributes
	if !failed["title"] {
		a.Title = n.Title
	}
	if !failed["name"] {
		a.Name = n.Name
	}
	if !failed["control_type"] {
		a.ControlType = n.ControlType
	}
	if !failed["class_name"] {
		a.ClassName = n.ClassName
	}
	if !failed["auto_id"] {
		a.AutomationID = n.AutoID
	}
	if !failed["rect"] && n.Rect != nil {
		a.Rect = &platform.Rect{Left: n.Rect[0], Top: n.Rect[1], Right: n.Rect[2], Bottom: n.Rect[3]}
	}
	if !failed["visible"] {
		a.Visible = n.Visible
	}
	if !failed["enabled"] {
		a.Enabled = n.Enabled
	}
	return a, nil
}

func (t *Tree) Equal(a, b platform.Handle) bool {
	an, ok := a.(*Node)
	if !ok {
		return false
	}
	bn, ok := b.(*Node)
	return ok && an == bn
}

func (t *Tree) CursorPosition() (platform.Point, error) {
	if t.Cursor == nil {
		return platform.Point{}, fmt.Errorf("memtree: no cursor position configured")
	}
	return platform.Point{X: t.Cursor[0], Y: t.Cursor[1]}, nil
}

func (t *Tree) Process(h platform.Handle) (platform.ProcessInfo, error) {
	n, err := t.node(h)
	if err != nil {
		return platform.ProcessInfo{}, err
	}
	if n.PID == 0 && n.Process == "" {
		return platform.ProcessInfo{}, fmt.Errorf("memtree: no process recorded for %s", n.ID)
	}
	return platform.ProcessInfo{PID: n.PID, Name: n.Process}, nil
}

func (t *Tree) Close() error {
	t.closed = true
	return nil
}
