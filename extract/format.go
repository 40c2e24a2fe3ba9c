package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValue renders a numeric cell value the way its Excel number format
// would display it, limited to the symbols the reports use: percentages are
// scaled by 100 and suffixed with "%", "£" formats are prefixed, and "0.00" /
// "0.0" select two or one decimal places (otherwise none).
//
// Values that are not numeric return ErrNotNumeric.
func FormatValue(raw any, spec string) (string, error) {
	value, ok := numeric(raw)
	if !ok {
		return "", fmt.Errorf("%w: %#v", ErrNotNumeric, raw)
	}

	percent := strings.Contains(spec, "%")
	if percent {
		value *= 100
	}

	decimals := 0
	switch {
	case strings.Contains(spec, "0.00"):
		decimals = 2
	case strings.Contains(spec, "0.0"):
		decimals = 1
	}

	out := strconv.FormatFloat(value, 'f', decimals, 64)
	switch {
	case strings.Contains(spec, "£"):
		out = "£" + out
	case percent:
		out += "%"
	}
	return out, nil
}

func numeric(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
