package platform

// Provider exposes an accessibility tree: top-level window lookup, point
// hit-testing, parent/children/descendant traversal and attribute reads.
//
// Handles returned by a Provider are only valid until Close is called.
type Provider interface {
	// FindTopLevelWindows returns the top-level windows whose title matches,
	// in stacking order (topmost first). No match is an empty slice, not an error.
	FindTopLevelWindows(match TitleMatcher) ([]Handle, error)

	// PointHitTest returns the deepest node at the given screen point, or nil.
	PointHitTest(x, y int) (Handle, error)

	// Parent returns the parent of h, or nil when h has none.
	Parent(h Handle) (Handle, error)

	// Children returns the direct children of h.
	Children(h Handle) ([]Handle, error)

	// Descendants returns the subtree below h in pre-order. maxDepth limits
	// the walk to nodes at most maxDepth levels below the direct children
	// (0 = children only); a negative maxDepth walks the whole subtree.
	Descendants(h Handle, maxDepth int) ([]Descendant, error)

	// Attributes reads the descriptive attributes of h. Individual fields are
	// nil when that read failed; an error means the node could not be read at all.
	Attributes(h Handle) (Attributes, error)

	// Equal reports whether two handles refer to the same node.
	Equal(a, b Handle) bool

	// Close releases every handle obtained from the provider.
	Close() error
}

// PointSampler reports the current pointer position in screen coordinates.
type PointSampler interface {
	CursorPosition() (Point, error)
}

// ProcessInfo identifies the process that owns a window.
type ProcessInfo struct {
	PID  int
	Name string
}

// ProcessReporter is implemented by providers that can tell which process
// owns a top-level window.
type ProcessReporter interface {
	Process(h Handle) (ProcessInfo, error)
}
