package model

// Window describes a top-level window, as listed by the windows command.
type Window struct {
	Handle    string  `yaml:"handle"     json:"handle"`
	Title     string  `yaml:"title"      json:"title"`
	ClassName *string `yaml:"class_name" json:"class_name"`
	PID       int     `yaml:"pid,omitempty"     json:"pid,omitempty"`
	Process   string  `yaml:"process,omitempty" json:"process,omitempty"`
	Rectangle *[4]int `yaml:"rectangle"  json:"rectangle"`
	Visible   *bool   `yaml:"visible"    json:"visible"`
}
