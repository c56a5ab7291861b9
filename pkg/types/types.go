package types

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

type Device struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Description    string         `json:"description,omitempty"`
	Location       string         `json:"location,omitempty"`
	ConnectionInfo ConnectionInfo `json:"connection_info,omitempty"`
	Tags           []string       `json:"tags"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// HasTag reports whether tag is a member of the device tag set.
func (d Device) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy of d that shares no mutable state with it.
func (d Device) Clone() Device {
	c := d
	if d.Tags != nil {
		c.Tags = append(make([]string, 0, len(d.Tags)), d.Tags...)
	}
	c.ConnectionInfo = d.ConnectionInfo.Clone()
	return c
}

// DevicePatch is a partial update of a Device. Nil fields are left unchanged.
// ConnectionInfo and Tags replace the stored value when non-nil, an empty
// value clears it.
type DevicePatch struct {
	Name           *string        `json:"name,omitempty"`
	Type           *string        `json:"type,omitempty"`
	Description    *string        `json:"description,omitempty"`
	Location       *string        `json:"location,omitempty"`
	ConnectionInfo ConnectionInfo `json:"connection_info,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
}

func (p DevicePatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Description == nil && p.Location == nil &&
		p.ConnectionInfo == nil && p.Tags == nil
}

// ConnectionInfo is a schemaless document describing how to reach a device.
// Its shape is defined per device type by the callers.
type ConnectionInfo map[string]any

// Lookup resolves a dot separated path, e.g. "mqtt.port", into the document.
func (c ConnectionInfo) Lookup(path string) (any, bool) {
	if c == nil || path == "" {
		return nil, false
	}

	var current any = map[string]any(c)

	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Matches reports whether the value at path equals value. Numbers are compared
// by value regardless of their Go type since decoded JSON always yields float64.
func (c ConnectionInfo) Matches(path string, value any) bool {
	v, ok := c.Lookup(path)
	if !ok {
		return false
	}
	return equalValues(v, value)
}

func (c ConnectionInfo) Clone() ConnectionInfo {
	if c == nil {
		return nil
	}
	return ConnectionInfo(cloneMap(c))
}

// Nest builds the document {"a": {"b": value}} for the path "a.b".
func Nest(path string, value any) ConnectionInfo {
	keys := strings.Split(path, ".")

	var doc any = value
	for i := len(keys) - 1; i >= 0; i-- {
		doc = map[string]any{keys[i]: doc}
	}

	return ConnectionInfo(doc.(map[string]any))
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case ConnectionInfo:
		return m, true
	default:
		return nil, false
	}
}

func cloneMap(m map[string]any) map[string]any {
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case ConnectionInfo:
		return cloneMap(t)
	case []any:
		s := make([]any, len(t))
		for i := range t {
			s[i] = cloneValue(t[i])
		}
		return s
	default:
		return v
	}
}

func equalValues(a, b any) bool {
	fa, aIsNum := toFloat(a)
	fb, bIsNum := toFloat(b)
	if aIsNum || bIsNum {
		return aIsNum && bIsNum && fa == fb
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// normalize round trips composite values through JSON so that values built
// in Go compare equal to values decoded from storage.
func normalize(v any) any {
	switch v.(type) {
	case map[string]any, ConnectionInfo, []any, []string:
		b, err := json.Marshal(v)
		if err != nil {
			return v
		}
		var n any
		if err := json.Unmarshal(b, &n); err != nil {
			return v
		}
		return n
	default:
		return v
	}
}
