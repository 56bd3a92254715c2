package php

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// ParameterList is a parsed formal parameter list, without the parentheses
type ParameterList struct {
	Params []*Param `parser:"( @@ ( ',' @@ )* ','? )?"`
}

// Param is a single formal parameter. Attributes are stripped before parsing.
type Param struct {
	Modifiers []string  `parser:"( @'public' | @'protected' | @'private' | @'readonly' | @'final' )*"`
	Type      *TypeExpr `parser:"@@?"`
	ByRef     bool      `parser:"@'&'?"`
	Variadic  bool      `parser:"@'...'?"`
	Name      string    `parser:"@Variable"`
	Default   *Expr     `parser:"( '=' @@ )?"`
}

// TypeExpr is a declared type: nullable, union, intersection or DNF
type TypeExpr struct {
	Nullable bool        `parser:"@'?'?"`
	Head     *TypeAtom   `parser:"@@"`
	Tail     []*TypeJoin `parser:"@@*"`
}

// TypeJoin is one further member of a union or intersection
type TypeJoin struct {
	Op   string    `parser:"@( '|' | '&' )"`
	Atom *TypeAtom `parser:"@@"`
}

// TypeAtom is a single named type or a parenthesised intersection
type TypeAtom struct {
	Group *TypeExpr `parser:"  '(' @@ ')'"`
	Name  string    `parser:"| @Name"`
}

// Expr is a constant expression as allowed in defaults and const declarations
type Expr struct {
	Left *Unary    `parser:"@@"`
	Ops  []*Binary `parser:"@@*"`
}

// Binary is an operator and its right operand. Precedence is applied at evaluation.
type Binary struct {
	Op    string `parser:"@( '??' | '||' | '&&' | '|' | '^' | '&' | '<<' | '>>' | '.' | '+' | '-' | '**' | '*' | '/' | '%' )"`
	Right *Unary `parser:"@@"`
}

// Unary is an optionally prefixed primary expression
type Unary struct {
	Op      string   `parser:"@( '-' | '+' | '!' | '~' )?"`
	Operand *Primary `parser:"@@"`
}

// Primary is an atomic constant expression
type Primary struct {
	Paren    *Expr     `parser:"  '(' @@ ')'"`
	Array    *Array    `parser:"| @@"`
	New      *New      `parser:"| @@"`
	String   *string   `parser:"| @String"`
	Float    *string   `parser:"| @Float"`
	Int      *string   `parser:"| @Int"`
	ClassRef *ClassRef `parser:"| @@"`
}

// Array is a short ([...]) or long (array(...)) array literal
type Array struct {
	Short []*ArrayItem `parser:"  '[' ( @@ ( ',' @@ )* ','? )? ']'"`
	Long  []*ArrayItem `parser:"| 'array' '(' ( @@ ( ',' @@ )* ','? )? ')'"`
}

// Items returns the array entries regardless of the literal syntax used
func (a *Array) Items() []*ArrayItem {
	if len(a.Short) > 0 {
		return a.Short
	}
	return a.Long
}

// ArrayItem is an array entry. Without "=>" the first expression is the value.
type ArrayItem struct {
	Spread bool  `parser:"@'...'?"`
	First  *Expr `parser:"@@"`
	Value  *Expr `parser:"( '=>' @@ )?"`
}

// New is an object instantiation, allowed in parameter defaults since PHP 8.1
type New struct {
	Class string  `parser:"'new' @Name"`
	Args  []*Expr `parser:"( '(' ( @@ ( ',' @@ )* ','? )? ')' )?"`
}

// ClassRef is a bare constant (true, PHP_INT_MAX) or a class member (Foo::BAR, Foo::class)
type ClassRef struct {
	Name   string `parser:"@Name"`
	Member string `parser:"( '::' @Name )?"`
}

var parserOptions = []participle.Option{
	participle.Lexer(phpLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.CaseInsensitive("Name"),
	participle.UseLookahead(4),
}

var (
	parameterParser = participle.MustBuild[ParameterList](parserOptions...)
	exprParser      = participle.MustBuild[Expr](parserOptions...)
)

// ParseParameters parses the inside of a parameter list, e.g. "int $a, ?string $b = null"
func ParseParameters(filename, source string) ([]*Param, error) {
	list, err := parameterParser.ParseString(filename, source)
	if err != nil {
		return nil, fmt.Errorf("invalid parameter list: %w", err)
	}
	return list.Params, nil
}

// ParseExpr parses a constant expression
func ParseExpr(filename, source string) (*Expr, error) {
	expr, err := exprParser.ParseString(filename, source)
	if err != nil {
		return nil, fmt.Errorf("invalid constant expression %q: %w", source, err)
	}
	return expr, nil
}

// String renders the type as written, with names passed through resolve
func (t *TypeExpr) String() string {
	return t.Render(func(name string) string { return name })
}

// Render prints the type expression, mapping every named type through resolve
func (t *TypeExpr) Render(resolve func(string) string) string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	if t.Nullable {
		sb.WriteString("?")
	}
	sb.WriteString(t.Head.render(resolve))
	for _, join := range t.Tail {
		sb.WriteString(join.Op)
		sb.WriteString(join.Atom.render(resolve))
	}
	return sb.String()
}

func (a *TypeAtom) render(resolve func(string) string) string {
	if a.Group != nil {
		return "(" + a.Group.Render(resolve) + ")"
	}
	return resolve(a.Name)
}
