package output

import (
	"fmt"
	"io"

	"github.com/mj1618/findui/internal/model"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter writes records as a YAML sequence.
type YAMLFormatter struct {
	Fields []string // Output only these fields, in this order (nil = all)
}

func (f *YAMLFormatter) Format(w io.Writer, records []model.ElementRecord) error {
	if len(f.Fields) == 0 {
		if records == nil {
			records = []model.ElementRecord{}
		}
		return WriteYAML(w, records)
	}

	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range records {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range f.Fields {
			val, ok := r.Field(name)
			if !ok {
				return fmt.Errorf("unknown field %q", name)
			}
			var vn yaml.Node
			if err := vn.Encode(val); err != nil {
				return fmt.Errorf("yaml encode %s: %w", name, err)
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, &vn)
		}
		seq.Content = append(seq.Content, m)
	}
	return WriteYAML(w, seq)
}

// WriteYAML serializes v to w as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
