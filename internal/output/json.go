package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mj1618/findui/internal/model"
)

// JSONFormatter writes records as an indented JSON array.
type JSONFormatter struct {
	Fields []string // Output only these fields, in this order (nil = all)
}

func (f *JSONFormatter) Format(w io.Writer, records []model.ElementRecord) error {
	var v interface{} = records
	if records == nil {
		v = []model.ElementRecord{}
	}
	if len(f.Fields) > 0 {
		selected := make([]fieldSelection, len(records))
		for i, r := range records {
			selected[i] = fieldSelection{record: r, fields: f.Fields}
		}
		v = selected
	}
	return WriteJSON(w, v, true)
}

// fieldSelection marshals the chosen fields of a record in the given order.
type fieldSelection struct {
	record model.ElementRecord
	fields []string
}

func (s fieldSelection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.fields {
		val, ok := s.record.Field(name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(name)
		buf.Write(key)
		buf.WriteByte(':')
		b, err := marshalNoEscape(val)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON serializes v to w as JSON.
// If pretty is true, uses indentation; otherwise single-line.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}
