package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mj1618/findui/internal/model"
)

var (
	indexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	typeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	hiddenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// TextFormatter writes one line per record, indented by depth.
type TextFormatter struct {
	EmitSelector bool // Add a "selector:" line under each record
	Color        bool
}

func (f *TextFormatter) Format(w io.Writer, records []model.ElementRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No elements found.")
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintln(w, f.line(r)); err != nil {
			return err
		}
		if !f.EmitSelector {
			continue
		}
		if sel := Selector(r); sel != "" {
			if _, err := fmt.Fprintf(w, "  selector: %s\n", f.style(selectorStyle, sel)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *TextFormatter) line(r model.ElementRecord) string {
	indent := ""
	if r.Depth > 1 {
		indent = strings.Repeat("  ", r.Depth-1)
	}

	parts := []string{
		f.style(indexStyle, fmt.Sprintf("[%d]", r.Index)),
		f.style(typeStyle, r.Label()),
	}
	if r.Name != "" {
		parts = append(parts, f.style(nameStyle, fmt.Sprintf("name='%s'", r.Name)))
	}
	if r.AutoID != nil && *r.AutoID != "" {
		parts = append(parts, fmt.Sprintf("auto_id='%s'", *r.AutoID))
	}
	if r.ClassName != nil && *r.ClassName != "" && (r.ControlType == nil || *r.ClassName != *r.ControlType) {
		parts = append(parts, fmt.Sprintf("class='%s'", *r.ClassName))
	}
	if r.Visible != nil {
		s := fmt.Sprintf("visible=%t", *r.Visible)
		if !*r.Visible {
			s = f.style(hiddenStyle, s)
		}
		parts = append(parts, s)
	}
	if r.Enabled != nil {
		s := fmt.Sprintf("enabled=%t", *r.Enabled)
		if !*r.Enabled {
			s = f.style(hiddenStyle, s)
		}
		parts = append(parts, s)
	}
	if r.Rectangle != nil {
		rect := r.Rectangle
		parts = append(parts, fmt.Sprintf("rect=(%d,%d,%d,%d)", rect[0], rect[1], rect[2], rect[3]))
	}
	return indent + strings.Join(parts, " ")
}

func (f *TextFormatter) style(s lipgloss.Style, text string) string {
	if !f.Color {
		return text
	}
	return s.Render(text)
}
