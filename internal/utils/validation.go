package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Validator represents a validation function
type Validator[T any] func(T) error

// ValidatorChain runs validators in order and stops at the first failure
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add adds a validator to the chain
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

// Validate runs all validators in the chain
func (vc *ValidatorChain[T]) Validate(value T) error {
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			return err
		}
	}
	return nil
}

// NotEmpty validates that a string is not empty
func NotEmpty(field string) Validator[string] {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return ValidationError{Field: field, Value: value, Message: "cannot be empty"}
		}
		return nil
	}
}

// HasSuffix validates that a non-empty string has a specific suffix
func HasSuffix(field, suffix string) Validator[string] {
	return func(value string) error {
		if value != "" && !strings.HasSuffix(value, suffix) {
			return ValidationError{Field: field, Value: value, Message: fmt.Sprintf("must end with '%s'", suffix)}
		}
		return nil
	}
}

var phpIdentifier = regexp.MustCompile(`^[A-Za-z_\x80-\xff][A-Za-z0-9_\x80-\xff]*$`)

// IsPHPIdentifier validates a class, interface or method name
func IsPHPIdentifier(field string) Validator[string] {
	return func(value string) error {
		if !phpIdentifier.MatchString(value) {
			return ValidationError{Field: field, Value: value, Message: fmt.Sprintf("'%s' is not a valid PHP identifier", value)}
		}
		return nil
	}
}

// IsPHPNamespace validates a namespace or qualified class name. One leading and
// one trailing separator are tolerated.
func IsPHPNamespace(field string) Validator[string] {
	return func(value string) error {
		trimmed := strings.TrimSuffix(strings.TrimPrefix(value, `\`), `\`)
		if trimmed == "" {
			return ValidationError{Field: field, Value: value, Message: "cannot be empty"}
		}
		for _, segment := range strings.Split(trimmed, `\`) {
			if !phpIdentifier.MatchString(segment) {
				return ValidationError{Field: field, Value: value, Message: fmt.Sprintf("'%s' is not a valid PHP namespace", value)}
			}
		}
		return nil
	}
}

// IsOneOf validates that a value is one of the allowed values
func IsOneOf[T comparable](field string, allowed ...T) Validator[T] {
	return func(value T) error {
		for _, allowedValue := range allowed {
			if value == allowedValue {
				return nil
			}
		}
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("must be one of %v, got %v", allowed, value),
		}
	}
}

// ValidateEach validates each element in a slice
func ValidateEach[T any](field string, itemValidator Validator[T]) Validator[[]T] {
	return func(values []T) error {
		for i, value := range values {
			if err := itemValidator(value); err != nil {
				return ValidationError{
					Field:   fmt.Sprintf("%s[%d]", field, i),
					Value:   value,
					Message: err.Error(),
				}
			}
		}
		return nil
	}
}

// Unique validates that key yields no duplicate among the elements
func Unique[T any, K comparable](field string, key func(T) K) Validator[[]T] {
	return func(values []T) error {
		seen := make(map[K]bool, len(values))
		for _, value := range values {
			k := key(value)
			if seen[k] {
				return ValidationError{Field: field, Value: k, Message: fmt.Sprintf("duplicate entry %v", k)}
			}
			seen[k] = true
		}
		return nil
	}
}

// Custom creates a custom validator with a custom message
func Custom[T any](field string, message string, validatorFunc func(T) bool) Validator[T] {
	return func(value T) error {
		if !validatorFunc(value) {
			return ValidationError{Field: field, Value: value, Message: message}
		}
		return nil
	}
}
