package php

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParameters(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		names    []string
		types    []string
		defaults []bool
	}{
		{
			name:   "empty list",
			source: "",
		},
		{
			name:     "typed with defaults and trailing comma",
			source:   "mixed $value = null, ?array $groups = null, mixed $payload = null,",
			names:    []string{"$value", "$groups", "$payload"},
			types:    []string{"mixed", "?array", "mixed"},
			defaults: []bool{true, true, true},
		},
		{
			name:     "untyped and required",
			source:   "$payload, string $message = 'x'",
			names:    []string{"$payload", "$message"},
			types:    []string{"", "string"},
			defaults: []bool{false, true},
		},
		{
			name:     "union and qualified names",
			source:   `\Symfony\Component\ExpressionLanguage\Expression|array|string $expression, Constraint|array|null $constraints = null`,
			names:    []string{"$expression", "$constraints"},
			types:    []string{`\Symfony\Component\ExpressionLanguage\Expression|array|string`, "Constraint|array|null"},
			defaults: []bool{false, true},
		},
		{
			name:     "dnf type",
			source:   "(Countable&Traversable)|null $items = null",
			names:    []string{"$items"},
			types:    []string{"(Countable&Traversable)|null"},
			defaults: []bool{true},
		},
		{
			name:     "promoted properties",
			source:   "public readonly int $min = 0, private ?string $label = null",
			names:    []string{"$min", "$label"},
			types:    []string{"int", "?string"},
			defaults: []bool{true, true},
		},
		{
			name:     "variadic and by reference",
			source:   "array &$errors, string ...$fields",
			names:    []string{"$errors", "$fields"},
			types:    []string{"array", "string"},
			defaults: []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ParseParameters("test.php", tt.source)
			require.NoError(t, err)
			require.Len(t, params, len(tt.names))

			for i, p := range params {
				assert.Equal(t, tt.names[i], p.Name)
				assert.Equal(t, tt.types[i], p.Type.String())
				assert.Equal(t, tt.defaults[i], p.Default != nil)
			}
		})
	}
}

func TestParseParameters_Flags(t *testing.T) {
	params, err := ParseParameters("test.php", "array &$errors, string ...$fields, public int $x")
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.True(t, params[0].ByRef)
	assert.False(t, params[0].Variadic)
	assert.True(t, params[1].Variadic)
	assert.Equal(t, []string{"public"}, params[2].Modifiers)
}

func TestParseParameters_Invalid(t *testing.T) {
	for _, src := range []string{"int $a =", "int", "$a $b", "int $a = [1"} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseParameters("test.php", src)
			assert.Error(t, err)
		})
	}
}

func TestTypeExpr_Render(t *testing.T) {
	params, err := ParseParameters("test.php", "?Foo|Bar|null $x")
	require.NoError(t, err)
	require.Len(t, params, 1)

	rendered := params[0].Type.Render(strings.ToUpper)
	assert.Equal(t, "?FOO|BAR|NULL", rendered)

	var nilType *TypeExpr
	assert.Equal(t, "", nilType.Render(strings.ToUpper))
}
