package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/fluentgen/internal/errors"
)

const emailSource = `<?php

/*
 * This file is part of a validator library.
 */

namespace Symfony\Component\Validator\Constraints;

use Symfony\Component\Validator\Constraint;
use Symfony\Component\Validator\Exception\{InvalidArgumentException, MissingOptionsException as Missing};
use function sprintf;

/**
 * Validates that a value is a valid email address.
 */
#[\Attribute(\Attribute::TARGET_PROPERTY | \Attribute::TARGET_METHOD | \Attribute::IS_REPEATABLE)]
class Email extends Constraint
{
    public const VALIDATION_MODE_HTML5 = 'html5';
    public const VALIDATION_MODE_STRICT = 'strict', OTHER = 'x';

    protected const ERROR_NAMES = [
        self::VALIDATION_MODE_HTML5 => 'HTML5_ERROR', // it's a map
    ];

    public $message = 'This value is not a valid email address.';
    public ?string $mode = null;

    public function __construct(
        ?array $options = null,
        ?string $message = null,
        #[\SensitiveParameter] ?string $mode = null,
        ?callable $normalizer = null,
        ?array $groups = null,
        mixed $payload = null,
    ) {
        if (\is_array($options) && \array_key_exists('mode', $options)) {
            throw new InvalidArgumentException(sprintf('"%s" is not a mode', $options['mode']));
        }

        parent::__construct($options, $groups, $payload);
    }

    public function getTargets(): string|array
    {
        return [self::PROPERTY_CONSTRAINT, '}'];
    }
}
`

func TestParseFile_ConstraintClass(t *testing.T) {
	file, err := ParseFile("Email.php", []byte(emailSource))
	require.NoError(t, err)
	require.Len(t, file.Classes, 1)

	class := file.Classes[0]
	assert.Equal(t, KindClass, class.Kind)
	assert.Equal(t, "Email", class.Name)
	assert.Equal(t, `Symfony\Component\Validator\Constraints\Email`, class.FQCN())
	assert.True(t, class.Instantiable())
	assert.Equal(t, []string{`Symfony\Component\Validator\Constraint`}, class.Extends)

	var constants []string
	for _, c := range class.Constants {
		constants = append(constants, c.Name)
	}
	assert.Equal(t, []string{"VALIDATION_MODE_HTML5", "VALIDATION_MODE_STRICT", "OTHER", "ERROR_NAMES"}, constants)

	strict, ok := class.Constant("VALIDATION_MODE_STRICT")
	require.True(t, ok)
	assert.Equal(t, "'strict'", strict.Source)

	require.NotNil(t, class.Constructor)
	require.NoError(t, class.Constructor.Err)

	var names, types []string
	for _, p := range class.Constructor.Params {
		names = append(names, p.Name)
		types = append(types, p.Type.String())
	}
	assert.Equal(t, []string{"$options", "$message", "$mode", "$normalizer", "$groups", "$payload"}, names)
	assert.Equal(t, []string{"?array", "?string", "?string", "?callable", "?array", "mixed"}, types)

	t.Run("imports", func(t *testing.T) {
		scope := class.Scope
		assert.Equal(t, `Symfony\Component\Validator\Exception\MissingOptionsException`, scope.Resolve("Missing"))
		assert.Equal(t, `Symfony\Component\Validator\Exception\InvalidArgumentException`, scope.Resolve("InvalidArgumentException"))
		assert.Equal(t, `Symfony\Component\Validator\Constraint`, scope.Resolve("Constraint"))
		assert.Equal(t, `Symfony\Component\Validator\Constraints\Length`, scope.Resolve("Length"))
	})
}

func TestParseFile_DeclarationKinds(t *testing.T) {
	src := `<?php
namespace App;

abstract class Base implements \Countable, Marker {}

interface Marker extends \Traversable, Other {}

enum Mode: string
{
    case Strict = 'strict';
    case Loose = 'loose';

    const DEFAULT = self::Strict;
}

trait Helper
{
    public function __construct(int $x) {}
}

final class Child extends Base
{
    use Helper {
        Helper::__construct as private helperConstruct;
    }
}

$anonymous = new class extends Base {};

function helper() {
    return function () use ($anonymous) { return $anonymous; };
}
`
	file, err := ParseFile("kinds.php", []byte(src))
	require.NoError(t, err)
	require.Len(t, file.Classes, 5)

	byName := map[string]*Class{}
	for _, c := range file.Classes {
		byName[c.Name] = c
	}

	base := byName["Base"]
	require.NotNil(t, base)
	assert.True(t, base.Abstract)
	assert.False(t, base.Instantiable())
	assert.Equal(t, []string{"Countable", `App\Marker`}, base.Implements)

	marker := byName["Marker"]
	assert.Equal(t, KindInterface, marker.Kind)
	assert.Equal(t, []string{"Traversable", `App\Other`}, marker.Extends)
	_, hasParent := marker.Parent()
	assert.False(t, hasParent)

	mode := byName["Mode"]
	assert.Equal(t, KindEnum, mode.Kind)
	assert.Equal(t, []string{"Strict", "Loose"}, mode.Cases)
	assert.True(t, mode.HasCase("Loose"))
	assert.False(t, mode.Instantiable())

	helper := byName["Helper"]
	assert.Equal(t, KindTrait, helper.Kind)
	require.NotNil(t, helper.Constructor)

	child := byName["Child"]
	assert.True(t, child.Final)
	assert.True(t, child.Instantiable())
	assert.Nil(t, child.Constructor)
	parent, ok := child.Parent()
	require.True(t, ok)
	assert.Equal(t, `App\Base`, parent)
}

func TestParseFile_BracketedNamespaces(t *testing.T) {
	src := `<?php
namespace First {
    class A {}
}

namespace Second {
    use First\A as Alias;

    class B extends Alias {}
}
`
	file, err := ParseFile("multi.php", []byte(src))
	require.NoError(t, err)
	require.Len(t, file.Classes, 2)

	assert.Equal(t, `First\A`, file.Classes[0].FQCN())
	assert.Equal(t, `Second\B`, file.Classes[1].FQCN())
	assert.Equal(t, []string{`First\A`}, file.Classes[1].Extends)
}

func TestParseFile_ConstructorSyntaxErrorIsRecorded(t *testing.T) {
	src := `<?php
class Broken
{
    public function __construct(int $a = ) {}
}
`
	file, err := ParseFile("broken.php", []byte(src))
	require.NoError(t, err)
	require.Len(t, file.Classes, 1)
	require.NotNil(t, file.Classes[0].Constructor)
	assert.Error(t, file.Classes[0].Constructor.Err)
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unterminated class body", src: "<?php class A { public function x() {}"},
		{name: "unbalanced block", src: "<?php function f() { if (true) { return; }"},
		{name: "bad namespace", src: "<?php namespace Foo }"},
		{name: "bad class header", src: "<?php class A extends B uses C {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile("bad.php", []byte(tt.src))
			require.Error(t, err)

			var syntaxErr *errors.SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, errors.SyntaxErrorCode, errors.CodeOf(err))
		})
	}
}
