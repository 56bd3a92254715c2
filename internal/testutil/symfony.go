package testutil

// Library paths inside SymfonyProject
const (
	SymfonyValidatorDir   = "vendor/symfony/validator"
	SymfonyConstraintsDir = "vendor/symfony/validator/Constraints"
)

// SymfonyProject is a Composer project with a trimmed-down symfony/validator
// installed. Discovery order of its constraints is All, GreaterThanOrEqual,
// Length, NotBlank.
const SymfonyProject = `
-- composer.json --
{
    "require": {
        "symfony/validator": "^7.1"
    }
}
-- vendor/composer/installed.json --
{
    "packages": [
        {
            "name": "symfony/validator",
            "version": "v7.1.3",
            "install-path": "../symfony/validator",
            "autoload": {
                "psr-4": {
                    "Symfony\\Component\\Validator\\": ""
                }
            }
        },
        {
            "name": "symfony/polyfill-mbstring",
            "version": "v1.30.0",
            "install-path": "../symfony/polyfill-mbstring",
            "autoload": {
                "psr-4": {
                    "Symfony\\Polyfill\\Mbstring\\": ["", "src/"]
                }
            }
        }
    ],
    "dev": true
}
-- vendor/symfony/validator/Constraint.php --
<?php

namespace Symfony\Component\Validator;

abstract class Constraint
{
    public const DEFAULT_GROUP = 'Default';
    public const CLASS_CONSTRAINT = 'class';
    public const PROPERTY_CONSTRAINT = 'property';

    public function __construct(mixed $options = null, ?array $groups = null, mixed $payload = null)
    {
        unset($this->groups);
    }
}
-- vendor/symfony/validator/ConstraintValidator.php --
<?php

namespace Symfony\Component\Validator;

abstract class ConstraintValidator implements ConstraintValidatorInterface
{
    public const PRETTY_DATE = 1;
}
-- vendor/symfony/validator/ConstraintValidatorInterface.php --
<?php

namespace Symfony\Component\Validator;

interface ConstraintValidatorInterface
{
    public function validate(mixed $value, Constraint $constraint): void;
}
-- vendor/symfony/validator/Constraints/AbstractComparison.php --
<?php

namespace Symfony\Component\Validator\Constraints;

use Symfony\Component\Validator\Constraint;

abstract class AbstractComparison extends Constraint
{
    public string $message;
    public mixed $value = null;

    public function __construct(
        mixed $value,
        ?string $propertyPath = null,
        ?string $message = null,
        ?array $groups = null,
        mixed $payload = null,
        array $options = [],
    ) {
        parent::__construct($options, $groups, $payload);
    }
}
-- vendor/symfony/validator/Constraints/All.php --
<?php

namespace Symfony\Component\Validator\Constraints;

#[\Attribute(\Attribute::TARGET_PROPERTY | \Attribute::TARGET_METHOD)]
class All extends Composite
{
    public array|Constraint $constraints = [];

    public function __construct(mixed $constraints = null, ?array $groups = null, mixed $payload = null)
    {
        parent::__construct($constraints ?? [], $groups, $payload);
    }
}
-- vendor/symfony/validator/Constraints/Composite.php --
<?php

namespace Symfony\Component\Validator\Constraints;

use Symfony\Component\Validator\Constraint;

abstract class Composite extends Constraint
{
}
-- vendor/symfony/validator/Constraints/GreaterThanOrEqual.php --
<?php

namespace Symfony\Component\Validator\Constraints;

#[\Attribute(\Attribute::TARGET_PROPERTY | \Attribute::TARGET_METHOD | \Attribute::IS_REPEATABLE)]
class GreaterThanOrEqual extends AbstractComparison
{
    public const TOO_LOW_ERROR = 'ea4e51d1-3342-48bd-87f1-9e672cd90cad';

    public string $message = 'This value should be greater than or equal to {{ compared_value }}.';
}
-- vendor/symfony/validator/Constraints/GreaterThanOrEqualValidator.php --
<?php

namespace Symfony\Component\Validator\Constraints;

use Symfony\Component\Validator\ConstraintValidator;

class GreaterThanOrEqualValidator extends ConstraintValidator
{
    protected function compareValues(mixed $value1, mixed $value2): bool
    {
        return null === $value2 || $value1 >= $value2;
    }
}
-- vendor/symfony/validator/Constraints/GroupSequence.php --
<?php

namespace Symfony\Component\Validator\Constraints;

#[\Attribute(\Attribute::TARGET_CLASS)]
class GroupSequence
{
    public function __construct(array $groups)
    {
        $this->groups = $groups;
    }
}
-- vendor/symfony/validator/Constraints/Length.php --
<?php

namespace Symfony\Component\Validator\Constraints;

use Symfony\Component\Validator\Constraint;

#[\Attribute(\Attribute::TARGET_PROPERTY | \Attribute::TARGET_METHOD | \Attribute::IS_REPEATABLE)]
class Length extends Constraint
{
    public const COUNT_CODEPOINTS = 'codepoints';
    public const COUNT_GRAPHEMES = 'graphemes';

    private const VALID_COUNT_UNITS = [
        self::COUNT_CODEPOINTS,
        self::COUNT_GRAPHEMES,
    ];

    public function __construct(
        int|array|null $exactly = null,
        ?int $min = null,
        ?int $max = null,
        ?string $charset = 'UTF-8',
        ?callable $normalizer = null,
        ?string $countUnit = self::COUNT_CODEPOINTS,
        ?string $exactMessage = null,
        ?array $groups = null,
        mixed $payload = null,
        array $options = [],
    ) {
        parent::__construct($options, $groups, $payload);
    }
}
-- vendor/symfony/validator/Constraints/NotBlank.php --
<?php

namespace Symfony\Component\Validator\Constraints;

use Symfony\Component\Validator\Constraint;

#[\Attribute(\Attribute::TARGET_PROPERTY | \Attribute::TARGET_METHOD | \Attribute::IS_REPEATABLE)]
class NotBlank extends Constraint
{
    public const IS_BLANK_ERROR = 'c1051bb4-d103-4f74-8988-acbcafc7fdc3';

    public string $message = 'This value should not be blank.';
    public bool $allowNull = false;

    public function __construct(
        ?array $options = null,
        ?string $message = null,
        ?bool $allowNull = null,
        ?callable $normalizer = null,
        ?array $groups = null,
        mixed $payload = null,
    ) {
        parent::__construct($options ?? [], $groups, $payload);
    }
}
`
