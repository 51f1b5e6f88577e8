package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// MarshalNoEscape encodes v into JSON without escaping <, >, & into < etc.
// Generated documents are full of markup, so the default HTML escaping would
// make every persisted payload unreadable.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalLenient decodes JSON produced by a language model into v.
// It first tries a direct decode; if that fails it normalizes doubly escaped
// unicode sequences (a common model artifact, e.g. "\\u003cdiv\\u003e") and
// tries again.
func UnmarshalLenient(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}
	norm, err := normalizeUnicode(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

// normalizeUnicode re-decodes raw JSON and unescapes string values that still
// carry literal \uXXXX sequences, including payloads wrapped in an extra layer
// of string quoting.
func normalizeUnicode(raw []byte) ([]byte, error) {
	var val any
	if err := json.Unmarshal(raw, &val); err != nil {
		var s string
		if err2 := json.Unmarshal(raw, &s); err2 != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(s), &val); err != nil {
			return nil, errors.New("jsonutil: cannot parse JSON payload")
		}
	}
	// Payload wrapped in an extra layer of string quoting.
	if s, ok := val.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			val = inner
		}
	}
	return MarshalNoEscape(unescapeDeep(val))
}

func unescapeDeep(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := unescapeString(x); err == nil {
			return s
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = unescapeDeep(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = unescapeDeep(vv)
		}
		return out
	default:
		return v
	}
}

// unescapeString turns escape sequences like ">" inside s into their
// literal characters by round-tripping through a quoted JSON string.
func unescapeString(s string) (string, error) {
	esc := strings.ReplaceAll(s, `\`, `\\`)
	esc = strings.ReplaceAll(esc, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}
