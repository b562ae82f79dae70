package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotArray is returned when an export's top-level JSON value is not an array.
var ErrNotArray = errors.New("expected top-level JSON array")

// Record is one element of a chat export, decoded loosely so that missing or
// oddly typed fields degrade instead of failing the whole file.
type Record map[string]any

// DecodeExport parses an export file. It returns the number of top-level
// items and the object elements among them, in order.
func DecodeExport(data []byte) (int, []Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var top any
	if err := dec.Decode(&top); err != nil {
		return 0, nil, fmt.Errorf("decode json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return 0, nil, errors.New("decode json: trailing data after top-level value")
	}

	items, ok := top.([]any)
	if !ok {
		return 0, nil, fmt.Errorf("%w, got %s", ErrNotArray, jsonKind(top))
	}

	records := make([]Record, 0, len(items))
	for _, it := range items {
		if obj, ok := it.(map[string]any); ok {
			records = append(records, Record(obj))
		}
	}
	return len(items), records, nil
}

// Timestamp returns the record's timestamp when it is a non-empty string.
func (r Record) Timestamp() (string, bool) {
	s, ok := r["timestamp"].(string)
	return s, ok && s != ""
}

// Author returns the author object, or nil.
func (r Record) Author() map[string]any {
	a, _ := r["author"].(map[string]any)
	return a
}

// Content returns the trimmed content when it is a non-blank string.
func (r Record) Content() (string, bool) {
	s, ok := r["content"].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// RecordAttachment is a kept attachment: both fields present and non-empty.
type RecordAttachment struct {
	Filename string
	ProxyURL string
}

// Attachments returns the attachments that carry both a filename and a URL,
// in record order.
func (r Record) Attachments() []RecordAttachment {
	list, ok := r["attachments"].([]any)
	if !ok {
		return nil
	}

	var out []RecordAttachment
	for _, it := range list {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		filename, okF := Text(obj["filename"])
		proxyURL, okP := Text(obj["proxy_url"])
		if okF && okP {
			out = append(out, RecordAttachment{Filename: filename, ProxyURL: proxyURL})
		}
	}
	return out
}

// Text renders a decoded JSON scalar as text. It reports false for values
// that carry nothing: null, "", false, 0, and empty arrays or objects.
func Text(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case bool:
		if x {
			return "True", true
		}
		return "", false
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return "", false
		}
		return x.String(), true
	case []any:
		if len(x) == 0 {
			return "", false
		}
	case map[string]any:
		if len(x) == 0 {
			return "", false
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v), true
	}
	return string(b), true
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
