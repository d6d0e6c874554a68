package output

import (
	"fmt"
	"io"

	"github.com/mj1618/findui/internal/model"
	"github.com/mj1618/findui/internal/platform"
)

// nativeMaxDepth bounds an unbounded native walk.
const nativeMaxDepth = 64

// NativeFormatter prints the control identifiers of the live tree below the
// anchor, read straight from the provider rather than from the records.
type NativeFormatter struct {
	Depth *int // Levels below the anchor (nil = unbounded)
}

var _ AnchorFormatter = (*NativeFormatter)(nil)

// Format falls back to the record list when no provider is available.
func (f *NativeFormatter) Format(w io.Writer, records []model.ElementRecord) error {
	if _, err := fmt.Fprint(w, "Control Identifiers:\n\n"); err != nil {
		return err
	}
	return (&SelectorFormatter{EmitSelector: true}).Format(w, records)
}

func (f *NativeFormatter) FormatAnchor(w io.Writer, records []model.ElementRecord, p platform.Provider, anchor platform.Handle) error {
	if p == nil || anchor == nil {
		return f.Format(w, records)
	}
	if _, err := fmt.Fprint(w, "Control Identifiers:\n\n"); err != nil {
		return err
	}
	limit := nativeMaxDepth
	if f.Depth != nil && *f.Depth < limit {
		limit = *f.Depth
	}

	counts := map[string]int{}
	var walk func(h platform.Handle, depth int) error
	walk = func(h platform.Handle, depth int) error {
		prefix := ""
		for i := 0; i < depth; i++ {
			prefix += "   | "
		}
		attrs, err := p.Attributes(h)
		if err != nil {
			_, err := fmt.Fprintf(w, "%s<unreadable %s: %v>\n", prefix, h.Key(), err)
			return err
		}
		r := model.NewRecord(attrs, depth, "")

		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, header(r)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, nameList(bestMatchNames(r, counts))); err != nil {
			return err
		}
		if sel := Selector(r); sel != "" {
			if _, err := fmt.Fprintf(w, "%s%s\n", prefix, sel); err != nil {
				return err
			}
		}

		if depth >= limit {
			return nil
		}
		children, err := p.Children(h)
		if err != nil {
			_, err := fmt.Fprintf(w, "%s   | <children unavailable: %v>\n", prefix, err)
			return err
		}
		for _, c := range children {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(anchor, 0)
}
