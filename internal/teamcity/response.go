package teamcity

import (
	"encoding/json"
	"fmt"
)

// EntityList pulls the named entity array out of a list response
// ({count, <entity>: [...]}). Entries that are not objects are skipped.
// A missing or empty array yields nil.
func EntityList(data map[string]any, key string) []map[string]any {
	raw, ok := data[key].([]any)
	if !ok {
		return nil
	}
	items := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if item, ok := entry.(map[string]any); ok {
			items = append(items, item)
		}
	}
	return items
}

// Count returns the count field of a list response, or 0 when absent.
func Count(data map[string]any) int {
	switch v := data["count"].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Field walks nested object keys and returns the value at the end of the
// path, or nil when any step is absent. The curated show views use it to
// tolerate optional response fields.
func Field(data map[string]any, keys ...string) any {
	var current any = data
	for _, key := range keys {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = obj[key]
		if !ok {
			return nil
		}
	}
	return current
}

// FieldString is Field restricted to string values; the second return
// value reports whether the path resolved to a non-empty string.
func FieldString(data map[string]any, keys ...string) (string, bool) {
	v := Field(data, keys...)
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// ValueString renders a response value for display. json.Number values
// keep their wire form, nil renders as an empty string.
func ValueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
