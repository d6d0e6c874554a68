package platform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Handle is an opaque reference to a node in the accessibility tree.
type Handle interface {
	// Key identifies the node within its provider. Used for logs and
	// native output only; compare handles with Provider.Equal.
	Key() string
}

// Descendant is a node returned by Provider.Descendants together with its
// depth below the node the walk started from (direct children are 1).
type Descendant struct {
	Node  Handle
	Depth int
}

// Point is a screen coordinate.
type Point struct {
	X, Y int
}

// Rect is a screen rectangle in left/top/right/bottom form.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return float64(r.Left+r.Right) / 2, float64(r.Top+r.Bottom) / 2
}

// CenterDistance returns the Euclidean distance between the centers of a and b.
func CenterDistance(a, b Rect) float64 {
	ax, ay := a.Center()
	bx, by := b.Center()
	return math.Hypot(ax-bx, ay-by)
}

// Array returns r as [left, top, right, bottom].
func (r Rect) Array() [4]int {
	return [4]int{r.Left, r.Top, r.Right, r.Bottom}
}

// ParseRect parses a "left,top,right,bottom" string into a Rect.
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("invalid rect %q: expected left,top,right,bottom", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, fmt.Errorf("invalid rect %q: %w", s, err)
		}
		vals[i] = v
	}
	return Rect{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}, nil
}

// Attributes are the descriptive properties of a node. Each field is nil
// when the provider could not read it.
type Attributes struct {
	Title        *string
	Name         *string
	ControlType  *string
	ClassName    *string
	AutomationID *string
	Rect         *Rect
	Visible      *bool
	Enabled      *bool
}

// DisplayName returns the title, falling back to the name, or "".
func (a Attributes) DisplayName() string {
	if a.Title != nil && *a.Title != "" {
		return *a.Title
	}
	if a.Name != nil {
		return *a.Name
	}
	return ""
}

// Label returns a short type label: control type, else class name, else "Element".
func (a Attributes) Label() string {
	if a.ControlType != nil && *a.ControlType != "" {
		return *a.ControlType
	}
	if a.ClassName != nil && *a.ClassName != "" {
		return *a.ClassName
	}
	return "Element"
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
