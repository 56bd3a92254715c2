// Package introspect recovers constructor signatures from parsed PHP classes,
// reporting them the way PHP reflection does.
package introspect

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/toyz/fluentgen/internal/errors"
	"github.com/toyz/fluentgen/internal/php"
)

// Parameter describes one formal constructor parameter
type Parameter struct {
	Name string // without the leading '$'

	// Type is the declared type with class names fully qualified (no leading
	// separator) and builtins lowercased. Empty when the parameter is untyped.
	Type string

	// Optional is set when the declaration carries a default value
	Optional bool
	Default  any

	Variadic bool
	ByRef    bool
}

// Introspector extracts constructor parameters of classes from a class finder
type Introspector struct {
	classes php.ClassFinder
	eval    *php.Evaluator
}

// New creates an introspector over classes
func New(classes php.ClassFinder) *Introspector {
	return &Introspector{
		classes: classes,
		eval:    php.NewEvaluator(classes),
	}
}

// ExtractParameters returns the constructor parameters of fqcn in declaration
// order. An inherited constructor is used when the class declares none; a
// class without any resolvable constructor has zero parameters.
func (i *Introspector) ExtractParameters(fqcn string) ([]Parameter, error) {
	fqcn = strings.TrimPrefix(fqcn, `\`)

	class, err := i.classes.FindClass(fqcn)
	if err != nil {
		reason := "class cannot be loaded"
		if stderrors.Is(err, php.ErrClassNotFound) {
			reason = "class not found"
		}
		return nil, errors.NewIntrospectionError(fqcn, reason, err)
	}

	declaring, ctor, err := i.Constructor(class)
	if err != nil {
		return nil, errors.NewIntrospectionError(fqcn, "cannot resolve inherited constructor", err)
	}
	if ctor == nil {
		return []Parameter{}, nil
	}
	if ctor.Err != nil {
		return nil, errors.NewIntrospectionError(fqcn,
			fmt.Sprintf("constructor of %s does not parse", declaring.FQCN()), ctor.Err)
	}

	params := make([]Parameter, 0, len(ctor.Params))
	for _, p := range ctor.Params {
		param := Parameter{
			Name:     strings.TrimPrefix(p.Name, "$"),
			Type:     p.Type.Render(declaring.Scope.Resolve),
			Variadic: p.Variadic,
			ByRef:    p.ByRef,
		}

		if p.Default != nil {
			value, err := i.eval.Eval(p.Default, declaring)
			if err != nil {
				return nil, errors.NewIntrospectionError(fqcn,
					fmt.Sprintf("cannot evaluate default value of $%s", param.Name), err)
			}
			param.Optional = true
			param.Default = value
		}

		params = append(params, param)
	}
	return params, nil
}

// Constructor finds the constructor in effect for class: its own, or the
// nearest ancestor's along the extends chain. It returns the declaring class
// and a nil method when none is resolvable.
func (i *Introspector) Constructor(class *php.Class) (*php.Class, *php.Method, error) {
	seen := make(map[string]bool)
	for current := class; current != nil; {
		if current.Constructor != nil {
			return current, current.Constructor, nil
		}

		key := strings.ToLower(current.FQCN())
		if seen[key] {
			return nil, nil, nil
		}
		seen[key] = true

		parent, ok := current.Parent()
		if !ok {
			return nil, nil, nil
		}
		next, err := i.classes.FindClass(parent)
		if stderrors.Is(err, php.ErrClassNotFound) {
			return nil, nil, nil
		}
		if err != nil {
			return nil, nil, err
		}
		current = next
	}
	return nil, nil, nil
}
