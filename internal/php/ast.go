package php

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// ClassKind is the kind of a class-like declaration
type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	KindTrait
	KindEnum
)

// String returns the PHP keyword for the kind
func (k ClassKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindTrait:
		return "trait"
	case KindEnum:
		return "enum"
	default:
		return "class"
	}
}

// File is a parsed PHP source file
type File struct {
	Path    string
	Classes []*Class
}

// Class is a class, interface, trait or enum declaration
type Class struct {
	Kind     ClassKind
	Name     string
	Abstract bool
	Final    bool
	Readonly bool

	// Extends holds the resolved parent class for classes, or the parent
	// interfaces for interfaces.
	Extends []string

	// Implements holds resolved interface names
	Implements []string

	Constants   []*Constant
	Cases       []string
	Constructor *Method

	Scope *Scope
	Pos   lexer.Position
}

// FQCN returns the fully-qualified class name without a leading separator
func (c *Class) FQCN() string {
	return c.Scope.Qualify(c.Name)
}

// Instantiable reports whether "new" can be applied to the class
func (c *Class) Instantiable() bool {
	return c.Kind == KindClass && !c.Abstract
}

// Parent returns the resolved parent class, if any
func (c *Class) Parent() (string, bool) {
	if c.Kind != KindClass || len(c.Extends) == 0 {
		return "", false
	}
	return c.Extends[0], true
}

// Ancestors returns every directly declared supertype
func (c *Class) Ancestors() []string {
	out := make([]string, 0, len(c.Extends)+len(c.Implements))
	out = append(out, c.Extends...)
	return append(out, c.Implements...)
}

// Constant returns the class constant declared as name. PHP constant names are case-sensitive.
func (c *Class) Constant(name string) (*Constant, bool) {
	for _, cst := range c.Constants {
		if cst.Name == name {
			return cst, true
		}
	}
	return nil, false
}

// HasCase reports whether an enum declares the given case
func (c *Class) HasCase(name string) bool {
	for _, cs := range c.Cases {
		if cs == name {
			return true
		}
	}
	return false
}

// Constant is a class constant declaration; the expression is parsed on demand
type Constant struct {
	Name   string
	Source string
	Pos    lexer.Position
}

// Method is a declared method. Only constructors keep their parameters.
type Method struct {
	Name   string
	Params []*Param

	// Err is set when the parameter list could not be parsed
	Err error
	Pos lexer.Position
}

// IsConstructor reports whether the method is __construct
func (m *Method) IsConstructor() bool {
	return strings.EqualFold(m.Name, "__construct")
}
