package introspect

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/fluentgen/internal/catalog"
	"github.com/toyz/fluentgen/internal/composer"
	"github.com/toyz/fluentgen/internal/errors"
	"github.com/toyz/fluentgen/internal/php"
	"github.com/toyz/fluentgen/internal/testutil"
)

func symfonyIntrospector(t *testing.T) *Introspector {
	t.Helper()
	root := testutil.Tree(t, testutil.SymfonyProject)
	installed, err := composer.LoadInstalled(filepath.Join(root, "vendor"))
	require.NoError(t, err)
	return New(catalog.NewLoader(installed.Autoloader()))
}

func TestExtractParameters_OwnConstructor(t *testing.T) {
	in := symfonyIntrospector(t)

	params, err := in.ExtractParameters(`Symfony\Component\Validator\Constraints\Length`)
	require.NoError(t, err)
	require.Len(t, params, 10)

	assert.Equal(t, Parameter{Name: "exactly", Type: "int|array|null", Optional: true}, params[0])
	assert.Equal(t, Parameter{Name: "charset", Type: "?string", Optional: true, Default: "UTF-8"}, params[3])
	assert.Equal(t, Parameter{Name: "countUnit", Type: "?string", Optional: true, Default: "codepoints"}, params[5])
	assert.Equal(t, Parameter{Name: "options", Type: "array", Optional: true, Default: []any{}}, params[9])
}

func TestExtractParameters_InheritedConstructor(t *testing.T) {
	in := symfonyIntrospector(t)

	params, err := in.ExtractParameters(`\Symfony\Component\Validator\Constraints\GreaterThanOrEqual`)
	require.NoError(t, err)
	require.Len(t, params, 6)

	assert.Equal(t, Parameter{Name: "value", Type: "mixed"}, params[0])
	assert.False(t, params[0].Optional)

	var names []string
	for _, p := range params {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"value", "propertyPath", "message", "groups", "payload", "options"}, names)
}

func TestExtractParameters_TypeResolution(t *testing.T) {
	root := testutil.Tree(t, `
-- Lib/Rule.php --
<?php
namespace Lib;

use Other\Expression;
use Other\Sub as Alias;

class Rule
{
    const FLAGS = 1 | 4;

    public function __construct(
        Expression|array|STRING $expression,
        Alias\Thing $thing,
        ?Constraint $inner = null,
        \DateTimeInterface $at = new \DateTimeImmutable('now'),
        int $flags = self::FLAGS,
        $untyped = null,
        array &$errors = [],
        string ...$rest,
    ) {}
}
`)
	loader := composer.NewAutoloader()
	loader.AddPSR4("", root)
	in := New(catalog.NewLoader(loader))

	params, err := in.ExtractParameters(`Lib\Rule`)
	require.NoError(t, err)
	require.Len(t, params, 8)

	assert.Equal(t, `Other\Expression|array|string`, params[0].Type)
	assert.Equal(t, `Other\Sub\Thing`, params[1].Type)
	assert.Equal(t, `?Lib\Constraint`, params[2].Type)
	assert.Equal(t, `DateTimeInterface`, params[3].Type)
	assert.Equal(t, php.Object{Class: "DateTimeImmutable", Args: []any{"now"}}, params[3].Default)
	assert.Equal(t, int64(5), params[4].Default)
	assert.Equal(t, "", params[5].Type)
	assert.True(t, params[5].Optional)
	assert.Nil(t, params[5].Default)
	assert.True(t, params[6].ByRef)
	assert.True(t, params[7].Variadic)
	assert.False(t, params[7].Optional)
}

func TestExtractParameters_NoConstructor(t *testing.T) {
	root := testutil.Tree(t, `
-- Plain.php --
<?php
class Plain {}
-- Orphan.php --
<?php
class Orphan extends Missing\Base {}
`)
	loader := composer.NewAutoloader()
	loader.AddPSR4("", root)
	in := New(catalog.NewLoader(loader))

	for _, class := range []string{"Plain", "Orphan"} {
		t.Run(class, func(t *testing.T) {
			params, err := in.ExtractParameters(class)
			require.NoError(t, err)
			assert.NotNil(t, params)
			assert.Empty(t, params)
		})
	}
}

func TestExtractParameters_Errors(t *testing.T) {
	root := testutil.Tree(t, `
-- Broken.php --
<?php
class Broken
{
    public function __construct(int $a = ) {}
}
-- BadDefault.php --
<?php
class BadDefault
{
    public function __construct(int $a = 1 / 0) {}
}
-- Child.php --
<?php
class Child extends Broken {}
`)
	loader := composer.NewAutoloader()
	loader.AddPSR4("", root)
	in := New(catalog.NewLoader(loader))

	tests := []struct {
		class  string
		reason string
	}{
		{class: "Missing", reason: "class not found"},
		{class: "Broken", reason: "does not parse"},
		{class: "Child", reason: "constructor of Broken does not parse"},
		{class: "BadDefault", reason: "$a"},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			_, err := in.ExtractParameters(tt.class)
			require.Error(t, err)

			var introspection *errors.IntrospectionError
			require.ErrorAs(t, err, &introspection)
			assert.Equal(t, tt.class, introspection.Class)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}
