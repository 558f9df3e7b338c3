package cricapi

import (
	"strconv"
	"strings"
	"time"
)

func asMap(raw any) map[string]any {
	m, _ := raw.(map[string]any)
	return m
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch value := src[key].(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}

// getStringAny returns the first non-empty value among keys.
func getStringAny(src map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := getString(src, key); value != "" {
			return value
		}
	}
	return ""
}

// getBoolAny reads the first present key, accepting JSON booleans and "true"/"false" strings.
func getBoolAny(src map[string]any, keys ...string) (bool, bool) {
	if src == nil {
		return false, false
	}
	for _, key := range keys {
		switch value := src[key].(type) {
		case bool:
			return value, true
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(value))
			if err == nil {
				return parsed, true
			}
		}
	}
	return false, false
}

func getSliceAny(src map[string]any, keys ...string) []any {
	if src == nil {
		return nil
	}
	for _, key := range keys {
		if items, ok := src[key].([]any); ok && len(items) > 0 {
			return items
		}
	}
	return nil
}

// getNamesAny reads a list of either plain names or objects carrying a name.
func getNamesAny(src map[string]any, keys ...string) []string {
	items := getSliceAny(src, keys...)
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var name string
		switch value := item.(type) {
		case string:
			name = strings.TrimSpace(value)
		case map[string]any:
			name = getStringAny(value, "name", "fullName", "full_name", "playerName")
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// parseProviderDateTime treats zone-less timestamps as UTC.
func parseProviderDateTime(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
