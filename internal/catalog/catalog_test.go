package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/fluentgen/internal/composer"
	"github.com/toyz/fluentgen/internal/errors"
	"github.com/toyz/fluentgen/internal/testutil"
)

const symfonyBase = `Symfony\Component\Validator\Constraint`

func symfonyCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	root := testutil.Tree(t, testutil.SymfonyProject)
	installed, err := composer.LoadInstalled(filepath.Join(root, "vendor"))
	require.NoError(t, err)
	return New(NewLoader(installed.Autoloader()), symfonyBase), root
}

func TestNewDescriptor(t *testing.T) {
	tests := []struct {
		fqcn   string
		short  string
		method string
	}{
		{fqcn: `Symfony\Component\Validator\Constraints\GreaterThanOrEqual`, short: "GreaterThanOrEqual", method: "greaterThanOrEqual"},
		{fqcn: `\Symfony\Component\Validator\Constraints\NotBlank`, short: "NotBlank", method: "notBlank"},
		{fqcn: `Symfony\Component\Validator\Constraints\Cidr`, short: "Cidr", method: "cidr"},
		{fqcn: `Symfony\Component\Validator\Constraints\ISBN`, short: "ISBN", method: "iSBN"},
		{fqcn: `Unqualified`, short: "Unqualified", method: "unqualified"},
	}

	for _, tt := range tests {
		t.Run(tt.short, func(t *testing.T) {
			desc := NewDescriptor(tt.fqcn)
			assert.Equal(t, tt.short, desc.ShortName)
			assert.Equal(t, tt.method, desc.MethodName)
			assert.NotContains(t, desc.ClassName[:1], `\`)
		})
	}
}

func TestCatalog_ListConstraintClasses(t *testing.T) {
	catalog, root := symfonyCatalog(t)

	descriptors, err := catalog.ListConstraintClasses(filepath.Join(root, testutil.SymfonyConstraintsDir))
	require.NoError(t, err)

	var methods []string
	for _, d := range descriptors {
		methods = append(methods, d.MethodName)
	}
	assert.Equal(t, []string{"all", "greaterThanOrEqual", "length", "notBlank"}, methods)
	assert.Equal(t, `Symfony\Component\Validator\Constraints\All`, descriptors[0].ClassName)

	t.Run("short names resolve after discovery", func(t *testing.T) {
		fqcn, ok := catalog.ResolveShortName("NotBlank")
		require.True(t, ok)
		assert.Equal(t, `Symfony\Component\Validator\Constraints\NotBlank`, fqcn)

		_, ok = catalog.ResolveShortName("GroupSequence")
		assert.False(t, ok)
	})

	t.Run("discovery is repeatable", func(t *testing.T) {
		again, err := catalog.ListConstraintClasses(filepath.Join(root, testutil.SymfonyConstraintsDir))
		require.NoError(t, err)
		assert.Equal(t, descriptors, again)
	})
}

func TestCatalog_IsConstraint(t *testing.T) {
	catalog, _ := symfonyCatalog(t)

	tests := []struct {
		fqcn     string
		expected bool
	}{
		{fqcn: symfonyBase, expected: true},
		{fqcn: `Symfony\Component\Validator\Constraints\GreaterThanOrEqual`, expected: true},
		{fqcn: `\Symfony\Component\Validator\Constraints\NotBlank`, expected: true},
		{fqcn: `Symfony\Component\Validator\Constraints\AbstractComparison`, expected: true},
		{fqcn: `Symfony\Component\Validator\Constraints\GreaterThanOrEqualValidator`, expected: false},
		{fqcn: `Symfony\Component\Validator\Constraints\GroupSequence`, expected: false},
		{fqcn: `Symfony\Component\Validator\Constraints\DoesNotExist`, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.fqcn, func(t *testing.T) {
			ok, err := catalog.IsConstraint(tt.fqcn)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestCatalog_SubtypeTestIgnoresNames(t *testing.T) {
	root := testutil.Tree(t, `
-- Constraint.php --
<?php
namespace Lib;

abstract class Constraint {}
-- Rules/Cycle.php --
<?php
namespace Lib\Rules;

class A extends B {}
class B extends A {}
-- Rules/Email.php --
<?php
namespace Lib\Rules;

class Email
{
    public function __construct(?string $message = null) {}
}
-- Rules/EmailValidator.php --
<?php
namespace Lib\Rules;

use Lib\Constraint as BaseConstraint;

class EmailValidator extends BaseConstraint {}
-- Rules/Marker.php --
<?php
namespace Lib\Rules;

interface Marker {}
-- Rules/Nested/Deep.php --
<?php
namespace Lib\Rules\Nested;

class Deep extends \Elsewhere\Missing {}

final class Deeper extends \Lib\Rules\EmailValidator {}
`)
	loader := composer.NewAutoloader()
	loader.AddPSR4(`Lib\`, root)
	catalog := New(NewLoader(loader), `Lib\Constraint`)

	descriptors, err := catalog.ListConstraintClasses(filepath.Join(root, "Rules"))
	require.NoError(t, err)

	var classes []string
	for _, d := range descriptors {
		classes = append(classes, d.ClassName)
	}
	assert.Equal(t, []string{`Lib\Rules\EmailValidator`, `Lib\Rules\Nested\Deeper`}, classes)
}

func TestCatalog_Discovery(t *testing.T) {
	t.Run("empty directory yields empty catalog", func(t *testing.T) {
		catalog := New(NewLoader(nil), symfonyBase)
		descriptors, err := catalog.ListConstraintClasses(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, descriptors)
	})

	t.Run("missing directory", func(t *testing.T) {
		catalog := New(NewLoader(nil), symfonyBase)
		dir := filepath.Join(t.TempDir(), "Constraints")

		_, err := catalog.ListConstraintClasses(dir)
		require.Error(t, err)
		assert.True(t, errors.IsDirectoryNotFound(err))
		assert.Contains(t, err.Error(), dir)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Constraints.php")
		require.NoError(t, os.WriteFile(path, []byte("<?php"), 0o644))

		_, err := New(NewLoader(nil), symfonyBase).ListConstraintClasses(path)
		assert.True(t, errors.IsDirectoryNotFound(err))
	})

	t.Run("syntax errors abort discovery", func(t *testing.T) {
		root := testutil.Tree(t, "-- Broken.php --\n<?php\nclass Broken extends Constraint {\n")

		_, err := New(NewLoader(nil), symfonyBase).ListConstraintClasses(root)
		require.Error(t, err)
		assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))
	})
}

func TestLoader_FindClass(t *testing.T) {
	catalog, _ := symfonyCatalog(t)
	loader := catalog.Loader()

	class, err := loader.FindClass(`\Symfony\Component\Validator\Constraints\NotBlank`)
	require.NoError(t, err)
	assert.Equal(t, "NotBlank", class.Name)

	// once loaded, lookups are case-insensitive like PHP class names
	same, err := loader.FindClass(`symfony\component\validator\constraints\notblank`)
	require.NoError(t, err)
	assert.Same(t, class, same)

	_, err = loader.FindClass(`Symfony\Component\Validator\Constraints\Nope`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class not found")
}
