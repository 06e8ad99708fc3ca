package fields

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownKind is returned when a configuration names a kind that does not exist
	ErrUnknownKind = errors.New("unknown field kind")

	// ErrOptionNotAllowed is returned when a select is asked to hold a value outside its options
	ErrOptionNotAllowed = errors.New("option not allowed")

	// ErrFieldDisabled is returned when a disabled control is edited
	ErrFieldDisabled = errors.New("field is disabled")

	// ErrNotANumber is returned when a number control receives a non-numeric value
	ErrNotANumber = errors.New("value is not a number")
)

// AsString converts a field value to its string form
func AsString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// AsBool coerces a field value to a boolean
func AsBool(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	case nil:
		return false
	default:
		n, err := AsNumber(v)
		return err == nil && n != 0
	}
}

// AsNumber coerces a field value to a finite float64. NaN and infinities are
// rejected since they have no JSON form.
func AsNumber(v any) (float64, error) {
	var n float64
	switch v := v.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case int32:
		n = float64(v)
	case uint:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotANumber, v.String())
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotANumber, v)
		}
		n = f
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotANumber, v)
	}
	if !IsFinite(n) {
		return 0, fmt.Errorf("%w: %v", ErrNotANumber, n)
	}
	return n, nil
}

// IsFinite reports whether n is neither NaN nor infinite
func IsFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
