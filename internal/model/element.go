package model

import "github.com/mj1618/findui/internal/platform"

// ElementRecord describes one node emitted by an enumeration.
//
// Optional attributes are pointers: an attribute the provider could not read
// stays nil and serializes as null, never as a zero value.
type ElementRecord struct {
	Index       int     `yaml:"index"        json:"index"`        // Emission order, gapless from 0
	Depth       int     `yaml:"depth"        json:"depth"`        // 0 = anchor
	Name        string  `yaml:"name"         json:"name"`         // Accessible name
	Title       string  `yaml:"title"        json:"title"`        // Window text / title
	AutoID      *string `yaml:"auto_id"      json:"auto_id"`      // Automation id
	ControlType *string `yaml:"control_type" json:"control_type"` // Control type
	ClassName   *string `yaml:"class_name"   json:"class_name"`   // Native class name
	Rectangle   *[4]int `yaml:"rectangle"    json:"rectangle"`    // [left, top, right, bottom]
	Visible     *bool   `yaml:"visible"      json:"visible"`
	Enabled     *bool   `yaml:"enabled"      json:"enabled"`
	Path        string  `yaml:"path"         json:"path"` // Breadcrumb of labels, e.g. "Window > Pane > Button"
}

// NewRecord builds the record for a node from its attributes. Name and
// title fall back to each other.
func NewRecord(a platform.Attributes, depth int, path string) ElementRecord {
	r := ElementRecord{
		Depth:       depth,
		Name:        firstOf(a.Name, a.Title),
		Title:       firstOf(a.Title, a.Name),
		AutoID:      a.AutomationID,
		ControlType: a.ControlType,
		ClassName:   a.ClassName,
		Visible:     a.Visible,
		Enabled:     a.Enabled,
		Path:        path,
	}
	if a.Rect != nil {
		rect := a.Rect.Array()
		r.Rectangle = &rect
	}
	return r
}

func firstOf(vals ...*string) string {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return ""
}

// Label returns the short type label of the record: control type, else
// class name, else "Element".
func (r ElementRecord) Label() string {
	if r.ControlType != nil && *r.ControlType != "" {
		return *r.ControlType
	}
	if r.ClassName != nil && *r.ClassName != "" {
		return *r.ClassName
	}
	return "Element"
}

// PathSeparator joins breadcrumb segments.
const PathSeparator = " > "

// JoinPath appends label to a parent breadcrumb.
func JoinPath(parent, label string) string {
	if parent == "" {
		return label
	}
	return parent + PathSeparator + label
}

// FieldNames lists the serialized record fields in output order.
var FieldNames = []string{
	"index", "depth", "name", "title", "auto_id", "control_type",
	"class_name", "rectangle", "visible", "enabled", "path",
}

// Field returns the value of the named field, or false for an unknown name.
// Unset optional fields are returned as untyped nil.
func (r ElementRecord) Field(name string) (interface{}, bool) {
	switch name {
	case "index":
		return r.Index, true
	case "depth":
		return r.Depth, true
	case "name":
		return r.Name, true
	case "title":
		return r.Title, true
	case "auto_id":
		return derefString(r.AutoID), true
	case "control_type":
		return derefString(r.ControlType), true
	case "class_name":
		return derefString(r.ClassName), true
	case "rectangle":
		if r.Rectangle == nil {
			return nil, true
		}
		return *r.Rectangle, true
	case "visible":
		return derefBool(r.Visible), true
	case "enabled":
		return derefBool(r.Enabled), true
	case "path":
		return r.Path, true
	default:
		return nil, false
	}
}

func derefString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func derefBool(b *bool) interface{} {
	if b == nil {
		return nil
	}
	return *b
}
