// Package emitter writes PHP interface declarations with one chainable method
// per discovered constraint.
package emitter

import (
	"fmt"
	"strings"
)

// Flavor selects the kind of interface being generated
type Flavor int

const (
	// StaticFactory methods are static and start a new chain
	StaticFactory Flavor = iota
	// Chained methods continue an existing chain
	Chained
)

// String returns the configuration name of the flavor
func (f Flavor) String() string {
	switch f {
	case StaticFactory:
		return "static"
	case Chained:
		return "chained"
	default:
		return fmt.Sprintf("Flavor(%d)", int(f))
	}
}

// ParseFlavor parses a configuration flavor name
func ParseFlavor(name string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "static", "static-factory", "factory":
		return StaticFactory, nil
	case "chained", "chain":
		return Chained, nil
	}
	return 0, fmt.Errorf("unknown flavor %q (expected \"static\" or \"chained\")", name)
}

// Target describes one generated interface
type Target struct {
	Name       string
	Flavor     Flavor
	ReturnType string

	// Terminals adds validate, assert, isValid and getConstraints. Only valid for Chained.
	Terminals bool
}

// FileName is the name of the file the target is written to
func (t Target) FileName() string {
	return t.Name + ".php"
}
