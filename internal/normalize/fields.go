// Package normalize converts raw JSON objects from the remote API into the
// canonical in-memory entities and back. It is the only place that knows
// about snake_case field names and the remote status/priority vocabulary.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Raw is one decoded JSON object as returned by the remote API.
type Raw = map[string]any

// Now supplies the timestamp used when a record carries none. Tests pin it.
var Now = time.Now

// lookup returns the first key holding a value that is not null and not an
// empty string.
func lookup(raw Raw, keys ...string) (any, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// hasNull reports whether any of keys is present with an explicit null.
func hasNull(raw Raw, keys ...string) bool {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v == nil {
			return true
		}
	}
	return false
}

func str(raw Raw, keys ...string) (string, bool) {
	v, ok := lookup(raw, keys...)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func integer(raw Raw, keys ...string) (int, bool) {
	v, ok := lookup(raw, keys...)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(math.Round(t)), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// epochMillisCutoff separates epoch seconds from epoch milliseconds.
const epochMillisCutoff = 1e11

func timestamp(raw Raw, keys ...string) (time.Time, bool) {
	v, ok := lookup(raw, keys...)
	if !ok {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case string:
		return parseTime(t)
	case float64:
		return fromEpoch(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpoch(f), true
	case time.Time:
		return t, true
	}
	return time.Time{}, false
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f), true
	}
	return time.Time{}, false
}

func fromEpoch(f float64) time.Time {
	if math.Abs(f) >= epochMillisCutoff {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Unix(int64(f), 0).UTC()
}

// object returns raw[key] as a nested object.
func object(raw Raw, key string) (Raw, bool) {
	v, ok := raw[key].(map[string]any)
	return v, ok
}

// objects returns raw[key] as a list of nested objects, skipping non-objects.
func objects(raw Raw, key string) ([]Raw, bool) {
	list, ok := raw[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]Raw, 0, len(list))
	for _, item := range list {
		if obj, isObj := item.(map[string]any); isObj {
			out = append(out, obj)
		}
	}
	return out, true
}
