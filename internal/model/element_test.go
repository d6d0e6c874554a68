package model

import (
	"encoding/json"
	"testing"

	"github.com/mj1618/findui/internal/platform"
	"gopkg.in/yaml.v3"
)

func strPtr(s string) *string { return &s }

func TestElementRecord_JSONUnsetIsNull(t *testing.T) {
	r := ElementRecord{Index: 0, Depth: 0, Name: "Calc", Title: "Calc", Path: "Window"}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"auto_id", "control_type", "class_name", "rectangle", "visible", "enabled"} {
		v, ok := m[key]
		if !ok {
			t.Errorf("%s should be present", key)
			continue
		}
		if v != nil {
			t.Errorf("%s should be null, got %v", key, v)
		}
	}
}

func TestElementRecord_JSONRoundTripKeepsAbsence(t *testing.T) {
	in := ElementRecord{
		Index:       3,
		Depth:       2,
		Name:        "OK",
		ControlType: strPtr("Button"),
		Rectangle:   &[4]int{1, 2, 3, 4},
		Visible:     boolPtr(false),
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out ElementRecord
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Enabled != nil || out.AutoID != nil || out.ClassName != nil {
		t.Errorf("unset fields should stay nil: %+v", out)
	}
	if out.Visible == nil || *out.Visible {
		t.Error("explicit false must survive the round trip")
	}
	if out.ControlType == nil || *out.ControlType != "Button" {
		t.Error("control_type lost")
	}
	if *out.Rectangle != [4]int{1, 2, 3, 4} {
		t.Errorf("rectangle: got %v", *out.Rectangle)
	}
}

func TestElementRecord_YAMLUnsetIsNull(t *testing.T) {
	data, err := yaml.Marshal(ElementRecord{Name: "x"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if v, ok := m["enabled"]; !ok || v != nil {
		t.Errorf("enabled should be present and null, got %v (present=%v)", v, ok)
	}
}

func TestElementRecord_Label(t *testing.T) {
	tests := []struct {
		rec  ElementRecord
		want string
	}{
		{ElementRecord{}, "Element"},
		{ElementRecord{ClassName: strPtr("Edit")}, "Edit"},
		{ElementRecord{ControlType: strPtr("Button"), ClassName: strPtr("Edit")}, "Button"},
	}
	for _, tt := range tests {
		if got := tt.rec.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestJoinPath(t *testing.T) {
	if got := JoinPath("", "Window"); got != "Window" {
		t.Errorf("got %q", got)
	}
	if got := JoinPath("Window > Pane", "Button"); got != "Window > Pane > Button" {
		t.Errorf("got %q", got)
	}
}

func TestElementRecord_Field(t *testing.T) {
	r := ElementRecord{Index: 4, ControlType: strPtr("Edit")}
	for _, name := range FieldNames {
		if _, ok := r.Field(name); !ok {
			t.Errorf("field %q should be known", name)
		}
	}
	if v, _ := r.Field("control_type"); v != "Edit" {
		t.Errorf("control_type: got %v", v)
	}
	if v, _ := r.Field("auto_id"); v != nil {
		t.Errorf("auto_id should be nil, got %v", v)
	}
	if _, ok := r.Field("bogus"); ok {
		t.Error("unknown field should report false")
	}
}

func TestNewRecord(t *testing.T) {
	a := platform.Attributes{
		Name:        platform.String("OK"),
		ControlType: platform.String("Button"),
		Rect:        &platform.Rect{Left: 1, Top: 2, Right: 3, Bottom: 4},
	}
	r := NewRecord(a, 2, "Window > Button")
	if r.Name != "OK" || r.Title != "OK" {
		t.Errorf("name/title should fall back to each other: %+v", r)
	}
	if r.Rectangle == nil || *r.Rectangle != [4]int{1, 2, 3, 4} {
		t.Errorf("rectangle: got %v", r.Rectangle)
	}
	if r.ClassName != nil || r.Visible != nil {
		t.Error("unread attributes should stay nil")
	}

	r = NewRecord(platform.Attributes{Title: platform.String("Save"), Name: platform.String("save-btn")}, 0, "")
	if r.Title != "Save" || r.Name != "save-btn" {
		t.Errorf("got title %q name %q", r.Title, r.Name)
	}
}
