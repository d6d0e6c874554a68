package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mj1618/findui/internal/model"
)

var handleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// WriteWindows writes a window listing. JSON and YAML are structured; every
// other format gets one text line per window.
func WriteWindows(w io.Writer, f Format, windows []model.Window, color bool) error {
	if windows == nil {
		windows = []model.Window{}
	}
	switch f {
	case FormatJSON:
		return WriteJSON(w, windows, true)
	case FormatYAML:
		return WriteYAML(w, windows)
	}
	if len(windows) == 0 {
		_, err := fmt.Fprintln(w, "No windows found.")
		return err
	}
	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}
	for _, win := range windows {
		line := fmt.Sprintf("%s %s", style(handleStyle, win.Handle), style(nameStyle, fmt.Sprintf("'%s'", win.Title)))
		if win.ClassName != nil {
			line += fmt.Sprintf(" class='%s'", *win.ClassName)
		}
		if win.Process != "" || win.PID != 0 {
			line += fmt.Sprintf(" process=%s[%d]", win.Process, win.PID)
		}
		if win.Visible != nil && !*win.Visible {
			line += " " + style(hiddenStyle, "hidden")
		}
		if r := win.Rectangle; r != nil {
			line += fmt.Sprintf(" rect=(%d,%d,%d,%d)", r[0], r[1], r[2], r[3])
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
