package sifam

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The supplier payloads come in several raw shapes: a bare object, a
// one-element array, and field names that drifted across API revisions.
// Normalization is kept as pure functions over generic key-value data.

// unwrapObject accepts either an object or an array of objects and
// returns the first object found.
func unwrapObject(raw []byte) (map[string]any, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, false
	}
	if strings.HasPrefix(trimmed, "[") {
		var arr []map[string]any
		if err := json.Unmarshal(raw, &arr); err != nil || len(arr) == 0 {
			return nil, false
		}
		return arr[0], true
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// firstField returns the value of the first alias present in obj.
func firstField(obj map[string]any, aliases ...string) (any, bool) {
	for _, alias := range aliases {
		if v, ok := obj[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// parseDecimal accepts the numeric encodings seen in supplier payloads:
// JSON numbers and strings with either '.' or ',' as decimal separator.
func parseDecimal(v any) (decimal.Decimal, bool) {
	switch value := v.(type) {
	case float64:
		return decimal.NewFromFloat(value), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(value, ",", "."))
		if s == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case json.Number:
		d, err := decimal.NewFromString(value.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

func asString(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}
