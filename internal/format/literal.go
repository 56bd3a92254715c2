// Package format renders introspected values and types as PHP source
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/toyz/fluentgen/internal/errors"
	"github.com/toyz/fluentgen/internal/php"
)

// FormatLiteral renders a default value as a PHP literal. Values without a
// faithful literal form are rejected with a FormattingError instead of guessed.
func FormatLiteral(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return quote(v), nil
	case []any:
		if len(v) == 0 {
			return "[]", nil
		}
	case php.KeyedArray:
		if len(v) == 0 {
			return "[]", nil
		}
	case nil:
		return "null", nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	}

	switch v := value.(type) {
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			lit, err := FormatLiteral(item)
			if err != nil {
				return "", err
			}
			items[i] = lit
		}
		return "[" + strings.Join(items, ", ") + "]", nil

	case php.KeyedArray:
		items := make([]string, len(v))
		for i, entry := range v {
			key, err := formatKey(entry.Key)
			if err != nil {
				return "", err
			}
			lit, err := FormatLiteral(entry.Value)
			if err != nil {
				return "", err
			}
			items[i] = key + " => " + lit
		}
		return "[" + strings.Join(items, ", ") + "]", nil

	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case php.ConstRef:
		return v.String(), nil
	case php.Object:
		return "", errors.NewFormattingError(value, fmt.Sprintf("instance of %s has no literal form", v.Class))
	}

	return "", errors.NewFormattingError(value, "unsupported value type")
}

// quote wraps s in single quotes, escaping only what would change its meaning
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			if i+1 == len(s) || s[i+1] == '\\' || s[i+1] == '\'' {
				sb.WriteString(`\\`)
			} else {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errors.NewFormattingError(f, "non-finite float")
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, nil
}

func formatKey(key any) (string, error) {
	switch k := key.(type) {
	case int64:
		return strconv.FormatInt(k, 10), nil
	case string:
		return quote(k), nil
	}
	return "", errors.NewFormattingError(key, "array keys must be integers or strings")
}
