package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/fluentgen/internal/errors"
	"github.com/toyz/fluentgen/internal/php"
)

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "null", value: nil, expected: "null"},
		{name: "true", value: true, expected: "true"},
		{name: "false", value: false, expected: "false"},
		{name: "empty list", value: []any{}, expected: "[]"},
		{name: "empty keyed array", value: php.KeyedArray{}, expected: "[]"},
		{name: "string", value: "abc", expected: "'abc'"},
		{name: "empty string", value: "", expected: "''"},
		{name: "int", value: 42, expected: "42"},
		{name: "int64", value: int64(-7), expected: "-7"},
		{name: "float", value: 1.5, expected: "1.5"},
		{name: "whole float", value: 2.0, expected: "2.0"},
		{name: "large float", value: 1e21, expected: "1e+21"},
		{name: "message with placeholders", value: `This value should be greater than or equal to {{ compared_value }}.`, expected: `'This value should be greater than or equal to {{ compared_value }}.'`},
		{name: "quote", value: "it's", expected: `'it\'s'`},
		{name: "backslash before quote", value: `a\'b`, expected: `'a\\\'b'`},
		{name: "plain backslash", value: `\d+`, expected: `'\d+'`},
		{name: "double backslash", value: `a\\b`, expected: `'a\\\b'`},
		{name: "trailing backslash", value: `C:\`, expected: `'C:\\'`},
		{name: "list", value: []any{"a", int64(1), nil}, expected: "['a', 1, null]"},
		{name: "nested", value: []any{[]any{}, []any{true}}, expected: "[[], [true]]"},
		{name: "keyed", value: php.KeyedArray{{Key: "min", Value: int64(1)}, {Key: int64(5), Value: "x"}}, expected: "['min' => 1, 5 => 'x']"},
		{name: "enum case", value: php.ConstRef{Class: `Symfony\Component\Validator\Mode`, Name: "Strict"}, expected: `\Symfony\Component\Validator\Mode::Strict`},
		{name: "global constant", value: php.ConstRef{Name: "JSON_THROW_ON_ERROR"}, expected: "JSON_THROW_ON_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, err := FormatLiteral(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lit)
		})
	}
}

func TestFormatLiteral_RoundTripsThroughDecoder(t *testing.T) {
	for _, s := range []string{"plain", "it's", `a\'b`, `a\\b`, `C:\`, `\n is literal`, `\\\'`} {
		t.Run(s, func(t *testing.T) {
			lit, err := FormatLiteral(s)
			require.NoError(t, err)

			decoded, err := php.DecodeString(lit)
			require.NoError(t, err)
			assert.Equal(t, s, decoded)
		})
	}
}

func TestFormatLiteral_Errors(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "object", value: php.Object{Class: "DateTimeImmutable"}},
		{name: "nan", value: math.NaN()},
		{name: "infinity", value: math.Inf(1)},
		{name: "unknown type", value: struct{}{}},
		{name: "nested object", value: []any{php.Object{Class: "Foo"}}},
		{name: "bad key", value: php.KeyedArray{{Key: 1.5, Value: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatLiteral(tt.value)
			require.Error(t, err)

			var formatting *errors.FormattingError
			assert.ErrorAs(t, err, &formatting)
			assert.Equal(t, errors.FormattingErrorCode, errors.CodeOf(err))
		})
	}
}

type shortNames map[string]string

func (s shortNames) ResolveShortName(name string) (string, bool) {
	fqcn, ok := s[name]
	return fqcn, ok
}

func TestTypeFormatter_FormatType(t *testing.T) {
	formatter := NewTypeFormatter(nil, shortNames{
		"NotBlank": `Symfony\Component\Validator\Constraints\NotBlank`,
	})

	tests := []struct {
		raw      string
		expected string
	}{
		{raw: "string", expected: "string"},
		{raw: "?array", expected: "?array"},
		{raw: "mixed", expected: "mixed"},
		{raw: "", expected: ""},
		{raw: "NotBlank", expected: `\Symfony\Component\Validator\Constraints\NotBlank`},
		{raw: `Symfony\Component\Validator\Constraint`, expected: `\Symfony\Component\Validator\Constraint`},
		{raw: `\Symfony\Component\Validator\Constraint`, expected: `\Symfony\Component\Validator\Constraint`},
		{raw: `Symfony\Component\ExpressionLanguage\Expression|array|string`, expected: `\Symfony\Component\ExpressionLanguage\Expression|array|string`},
		{raw: `?Symfony\Component\Validator\Constraints\GroupSequence`, expected: `?\Symfony\Component\Validator\Constraints\GroupSequence`},
		{raw: `Symfony\Component\Validator\Constraint|array|null`, expected: `\Symfony\Component\Validator\Constraint|array|null`},
		{raw: `(Countable&Symfony\Contracts\Thing)|null`, expected: `(Countable&\Symfony\Contracts\Thing)|null`},
		{raw: `DateTimeInterface`, expected: `DateTimeInterface`},
		{raw: `ChainedValidatorInterface&Validator`, expected: `ChainedValidatorInterface&Validator`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatter.FormatType(tt.raw))
		})
	}
}

func TestTypeFormatter_CustomPrefixes(t *testing.T) {
	formatter := NewTypeFormatter([]string{`Acme\`, `Vendor\Lib\`}, nil)

	assert.Equal(t, `\Acme\Rule|null`, formatter.FormatType(`Acme\Rule|null`))
	assert.Equal(t, `\Vendor\Lib\X`, formatter.FormatType(`Vendor\Lib\X`))
	assert.Equal(t, `Symfony\Component\Validator\Constraint`, formatter.FormatType(`Symfony\Component\Validator\Constraint`))
	assert.Equal(t, "NotBlank", formatter.FormatType("NotBlank"))
}
