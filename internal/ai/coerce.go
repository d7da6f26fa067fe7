package ai

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

func normaliseValue(value string) string {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "n/a", "na", "none", "null", "unknown":
		return ""
	default:
		return value
	}
}

func normaliseText(value string) string {
	value = normaliseValue(value)
	if value == "" {
		return ""
	}
	return strings.Join(strings.Fields(value), " ")
}

// asString coerces scalars to text. Objects and arrays become "".
func asString(value any) string {
	switch v := value.(type) {
	case string:
		return normaliseText(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// asSlice returns value as a list, or an empty list.
func asSlice(value any) []any {
	if list, ok := value.([]any); ok {
		return list
	}
	return []any{}
}

func asObject(value any) map[string]any {
	if obj, ok := value.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

func parseNumeric(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		parsed, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0
		}
		return finiteOrZero(parsed)
	case string:
		return parseQuantity(v)
	default:
		return 0
	}
}

var vulgarFractions = map[rune]float64{
	'¼': 0.25, '½': 0.5, '¾': 0.75, '⅓': 1.0 / 3, '⅔': 2.0 / 3, '⅛': 0.125,
}

var (
	fractionPattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)`)
	mixedPattern    = regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)`)
	numberPattern   = regexp.MustCompile(`[-+]?\d*\.?\d+`)
)

// parseQuantity reads the leading amount of strings such as "2", "1.5 oz",
// "3/4", "1 1/2" or "1½".
func parseQuantity(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	whole := 0.0
	var rest strings.Builder
	for _, r := range value {
		if f, ok := vulgarFractions[r]; ok {
			whole += f
			rest.WriteRune(' ')
			continue
		}
		rest.WriteRune(r)
	}
	value = strings.TrimSpace(rest.String())

	if m := mixedPattern.FindStringSubmatch(value); m != nil {
		return whole + atof(m[1]) + ratio(m[2], m[3])
	}
	if m := fractionPattern.FindStringSubmatch(value); m != nil {
		return whole + ratio(m[1], m[2])
	}
	if value == "" || !startsNumeric(value) {
		return whole
	}
	match := numberPattern.FindString(value)
	if match == "" {
		return whole
	}
	return whole + atof(match)
}

func startsNumeric(value string) bool {
	r := []rune(value)[0]
	return unicode.IsDigit(r) || r == '.' || r == '-' || r == '+'
}

func atof(s string) float64 {
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(parsed)
}

func ratio(num, den string) float64 {
	d := atof(den)
	if d == 0 {
		return 0
	}
	return atof(num) / d
}

func finiteOrZero(v float64) float64 {
	if v != v || v > 1e300 || v < -1e300 {
		return 0
	}
	return v
}

// sanitiseNames dedupes a list of names case-insensitively and drops the
// canonical name itself. A comma separated string is accepted too.
func sanitiseNames(raw any, canonical string) []string {
	canonical = strings.ToLower(strings.TrimSpace(canonical))
	unique := make(map[string]struct{})
	result := []string{}

	add := func(value string) {
		value = normaliseText(value)
		if value == "" {
			return
		}
		key := strings.ToLower(value)
		if key == canonical {
			return
		}
		if _, ok := unique[key]; ok {
			return
		}
		unique[key] = struct{}{}
		result = append(result, value)
	}

	switch values := raw.(type) {
	case []any:
		for _, entry := range values {
			if s, ok := entry.(string); ok {
				add(s)
			}
		}
	case []string:
		for _, entry := range values {
			add(entry)
		}
	case string:
		for _, part := range strings.Split(values, ",") {
			add(part)
		}
	}

	return result
}
