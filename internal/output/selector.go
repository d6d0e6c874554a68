package output

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/mj1618/findui/internal/model"
)

// Selector returns a pywinauto child_window(...) expression that finds r,
// or "" when the record has nothing to select on. auto_id is preferred;
// the title is used only without it and the class name only as a last
// resort.
func Selector(r model.ElementRecord) string {
	var conds []string
	if r.AutoID != nil && *r.AutoID != "" {
		conds = append(conds, fmt.Sprintf("auto_id=%q", *r.AutoID))
	}
	if r.ControlType != nil && *r.ControlType != "" {
		conds = append(conds, fmt.Sprintf("control_type=%q", *r.ControlType))
	}
	if (r.AutoID == nil || *r.AutoID == "") && r.Name != "" {
		conds = append(conds, fmt.Sprintf("title=%q", r.Name))
	}
	if len(conds) == 0 && r.ClassName != nil && *r.ClassName != "" {
		conds = append(conds, fmt.Sprintf("class_name=%q", *r.ClassName))
	}
	if len(conds) == 0 {
		return ""
	}
	return "child_window(" + strings.Join(conds, ", ") + ")"
}

// SelectorFormatter writes pywinauto-style control identifiers: a header
// line, the alternative best-match names and optionally the selector.
type SelectorFormatter struct {
	EmitSelector bool
}

func (f *SelectorFormatter) Format(w io.Writer, records []model.ElementRecord) error {
	counts := map[string]int{}
	for _, r := range records {
		prefix := strings.Repeat("   | ", r.Depth)
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, header(r)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, nameList(bestMatchNames(r, counts))); err != nil {
			return err
		}
		if f.EmitSelector {
			if sel := Selector(r); sel != "" {
				if _, err := fmt.Fprintf(w, "%s%s\n", prefix, sel); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(prefix, " ")); err != nil {
			return err
		}
	}
	return nil
}

// header renders "Label - 'name'    (L0, T0, R10, B10)".
func header(r model.ElementRecord) string {
	s := fmt.Sprintf("%s - '%s'", r.Label(), r.Name)
	if r.Rectangle != nil {
		rect := r.Rectangle
		s += fmt.Sprintf("    (L%d, T%d, R%d, B%d)", rect[0], rect[1], rect[2], rect[3])
	}
	return s
}

// bestMatchNames returns the names pywinauto accepts as attribute lookups
// for r: the name, the name followed by the label, and the label. Repeated
// labels get a running number so every entry stays unique.
func bestMatchNames(r model.ElementRecord, counts map[string]int) []string {
	label := r.Label()
	name := identifier(r.Name)
	var out []string
	if name != "" {
		out = append(out, name, name+label)
	}
	n := counts[label]
	counts[label] = n + 1
	if n == 0 {
		out = append(out, label)
	} else {
		out = append(out, fmt.Sprintf("%s%d", label, n))
	}
	return out
}

// nameList renders names as a Python list literal.
func nameList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("'%s'", n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// identifier drops characters that cannot appear in a Python attribute name.
func identifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
