package php

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/fluentgen/internal/errors"
)

// ParseFile extracts the class-like declarations of a PHP file. Function
// bodies, property initialisers and non-constructor signatures are skipped;
// only names, modifiers, supertypes, constants, enum cases and the
// constructor parameter list are kept.
func ParseFile(path string, src []byte) (*File, error) {
	tokens, err := Tokenize(path, string(src))
	if err != nil {
		return nil, errors.NewSyntaxError(err.Error(), errors.SourceLocation{File: path})
	}

	s := &scanner{
		path:   path,
		tokens: tokens,
		scope:  NewScope(""),
		file:   &File{Path: path},
	}
	if err := s.parseTopLevel(); err != nil {
		return nil, err
	}
	return s.file, nil
}

type scanner struct {
	path   string
	tokens []lexer.Token
	pos    int
	scope  *Scope
	file   *File
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.tokens)
}

func (s *scanner) peek(offset int) lexer.Token {
	if i := s.pos + offset; i < len(s.tokens) {
		return s.tokens[i]
	}
	return lexer.EOFToken(lexer.Position{Filename: s.path})
}

func (s *scanner) next() lexer.Token {
	tok := s.peek(0)
	s.pos++
	return tok
}

func (s *scanner) errorf(tok lexer.Token, format string, args ...interface{}) error {
	return errors.NewSyntaxError(fmt.Sprintf(format, args...), errors.SourceLocation{
		File:   s.path,
		Line:   tok.Pos.Line,
		Column: tok.Pos.Column,
	})
}

func isKeyword(tok lexer.Token, kw string) bool {
	return tok.Type == tokenName && strings.EqualFold(tok.Value, kw)
}

func isOp(tok lexer.Token, op string) bool {
	return tok.Type == tokenOperator && tok.Value == op
}

func (s *scanner) parseTopLevel() error {
	var prev lexer.Token
	for !s.eof() {
		tok := s.peek(0)
		switch {
		case tok.Type == tokenAttribute:
			if err := s.skipAttribute(); err != nil {
				return err
			}
			continue

		case isKeyword(tok, "namespace") && !isOp(prev, "->") && !isOp(prev, "::"):
			if err := s.parseNamespace(); err != nil {
				return err
			}

		case isKeyword(tok, "use"):
			if err := s.parseUse(); err != nil {
				return err
			}

		case s.atClassStart() && !isKeyword(prev, "new"):
			if err := s.parseClass(); err != nil {
				return err
			}

		case isOp(tok, "{"):
			if err := s.skipBlock(); err != nil {
				return err
			}

		default:
			s.next()
		}
		prev = s.peek(-1)
	}
	return nil
}

func (s *scanner) parseNamespace() error {
	s.next() // namespace
	name := ""
	if tok := s.peek(0); tok.Type == tokenName {
		name = s.next().Value
	}
	s.scope = NewScope(name)

	switch tok := s.next(); {
	case isOp(tok, ";"), isOp(tok, "{"):
		// The closing brace of a bracketed namespace is consumed as a stray
		// top-level token.
		return nil
	default:
		return s.errorf(tok, "expected ';' or '{' after namespace, got %q", tok.Value)
	}
}

// parseUse handles top-level imports, including group use declarations
func (s *scanner) parseUse() error {
	s.next() // use
	if isOp(s.peek(0), "(") {
		// closure binding list
		return nil
	}
	if isKeyword(s.peek(0), "function") || isKeyword(s.peek(0), "const") {
		return s.skipStatement()
	}

	for {
		tok := s.next()
		if tok.Type != tokenName {
			return s.errorf(tok, "expected name in use declaration, got %q", tok.Value)
		}
		name := tok.Value

		if isOp(s.peek(0), `\`) && isOp(s.peek(1), "{") {
			s.pos += 2
			if err := s.parseUseGroup(name); err != nil {
				return err
			}
		} else {
			s.scope.Import(name, s.parseAlias())
		}

		switch tok := s.next(); {
		case isOp(tok, ","):
			continue
		case isOp(tok, ";"):
			return nil
		default:
			return s.errorf(tok, "expected ',' or ';' in use declaration, got %q", tok.Value)
		}
	}
}

func (s *scanner) parseUseGroup(prefix string) error {
	for {
		if isOp(s.peek(0), "}") {
			s.next()
			return nil
		}
		if isKeyword(s.peek(0), "function") || isKeyword(s.peek(0), "const") {
			s.next()
			s.next()
			s.parseAlias()
		} else {
			tok := s.next()
			if tok.Type != tokenName {
				return s.errorf(tok, "expected name in group use, got %q", tok.Value)
			}
			s.scope.Import(prefix+`\`+tok.Value, s.parseAlias())
		}
		if isOp(s.peek(0), ",") {
			s.next()
		}
	}
}

func (s *scanner) parseAlias() string {
	if isKeyword(s.peek(0), "as") {
		s.next()
		return s.next().Value
	}
	return ""
}

var classModifiers = []string{"abstract", "final", "readonly"}

func isClassModifier(tok lexer.Token) bool {
	for _, m := range classModifiers {
		if isKeyword(tok, m) {
			return true
		}
	}
	return false
}

func classKind(tok lexer.Token) (ClassKind, bool) {
	switch {
	case isKeyword(tok, "class"):
		return KindClass, true
	case isKeyword(tok, "interface"):
		return KindInterface, true
	case isKeyword(tok, "trait"):
		return KindTrait, true
	case isKeyword(tok, "enum"):
		return KindEnum, true
	}
	return 0, false
}

func (s *scanner) atClassStart() bool {
	i := 0
	for isClassModifier(s.peek(i)) {
		i++
	}
	if _, ok := classKind(s.peek(i)); !ok {
		return false
	}
	return s.peek(i+1).Type == tokenName
}

func (s *scanner) parseClass() error {
	class := &Class{Scope: s.scope.Clone(), Pos: s.peek(0).Pos}

	for isClassModifier(s.peek(0)) {
		switch mod := strings.ToLower(s.next().Value); mod {
		case "abstract":
			class.Abstract = true
		case "final":
			class.Final = true
		case "readonly":
			class.Readonly = true
		}
	}

	class.Kind, _ = classKind(s.next())
	class.Name = s.next().Value

	// backed enum type
	if class.Kind == KindEnum && isOp(s.peek(0), ":") {
		s.pos += 2
	}

	for !s.eof() && !isOp(s.peek(0), "{") {
		switch tok := s.next(); {
		case isKeyword(tok, "extends"):
			class.Extends = s.parseNameList(class.Scope)
		case isKeyword(tok, "implements"):
			class.Implements = s.parseNameList(class.Scope)
		default:
			return s.errorf(tok, "unexpected %q in declaration of %s", tok.Value, class.Name)
		}
	}
	if s.eof() {
		return s.errorf(s.peek(0), "missing body for %s", class.Name)
	}
	s.next() // {

	if err := s.parseClassBody(class); err != nil {
		return err
	}
	s.file.Classes = append(s.file.Classes, class)
	return nil
}

func (s *scanner) parseNameList(scope *Scope) []string {
	var names []string
	for s.peek(0).Type == tokenName {
		names = append(names, scope.Resolve(s.next().Value))
		if !isOp(s.peek(0), ",") {
			break
		}
		s.next()
	}
	return names
}

var memberModifiers = map[string]bool{
	"public":    true,
	"protected": true,
	"private":   true,
	"static":    true,
	"abstract":  true,
	"final":     true,
	"readonly":  true,
	"var":       true,
}

func (s *scanner) parseClassBody(class *Class) error {
	for {
		if s.eof() {
			return s.errorf(s.peek(0), "unterminated body of %s", class.Name)
		}
		tok := s.peek(0)

		switch {
		case isOp(tok, "}"):
			s.next()
			return nil

		case tok.Type == tokenAttribute:
			if err := s.skipAttribute(); err != nil {
				return err
			}

		case tok.Type == tokenName && memberModifiers[strings.ToLower(tok.Value)]:
			s.next()

		case isKeyword(tok, "use"):
			if err := s.skipTraitUse(); err != nil {
				return err
			}

		case isKeyword(tok, "case"):
			s.next()
			class.Cases = append(class.Cases, s.next().Value)
			if err := s.skipStatement(); err != nil {
				return err
			}

		case isKeyword(tok, "const"):
			if err := s.parseConstants(class); err != nil {
				return err
			}

		case isKeyword(tok, "function"):
			if err := s.parseMethod(class); err != nil {
				return err
			}

		default:
			if err := s.skipProperty(); err != nil {
				return err
			}
		}
	}
}

// parseConstants reads "const [type] NAME = expr[, NAME = expr];"
func (s *scanner) parseConstants(class *Class) error {
	s.next() // const
	stmt, err := s.collectStatement()
	if err != nil {
		return err
	}

	for _, decl := range splitTopLevel(stmt, ",") {
		eq := -1
		for i, tok := range decl {
			if isOp(tok, "=") {
				eq = i
				break
			}
		}
		if eq < 1 {
			return s.errorf(decl[0], "malformed constant declaration in %s", class.Name)
		}
		name := decl[eq-1]
		class.Constants = append(class.Constants, &Constant{
			Name:   name.Value,
			Source: joinTokens(decl[eq+1:]),
			Pos:    name.Pos,
		})
	}
	return nil
}

func (s *scanner) parseMethod(class *Class) error {
	fn := s.next() // function
	if isOp(s.peek(0), "&") {
		s.next()
	}
	name := s.next()
	if !isOp(s.peek(0), "(") {
		return s.errorf(s.peek(0), "expected '(' after %s::%s", class.Name, name.Value)
	}
	params, err := s.collectGroup("(", ")")
	if err != nil {
		return err
	}

	// return type, then a body or ';'
	for !s.eof() && !isOp(s.peek(0), "{") && !isOp(s.peek(0), ";") {
		s.next()
	}
	if isOp(s.peek(0), "{") {
		if err := s.skipBlock(); err != nil {
			return err
		}
	} else {
		s.next()
	}

	method := &Method{Name: name.Value, Pos: fn.Pos}
	if !method.IsConstructor() {
		return nil
	}
	method.Params, method.Err = ParseParameters(s.path, joinTokens(stripAttributes(params)))
	class.Constructor = method
	return nil
}

func (s *scanner) skipTraitUse() error {
	for !s.eof() {
		tok := s.peek(0)
		if isOp(tok, ";") {
			s.next()
			return nil
		}
		if isOp(tok, "{") {
			return s.skipBlock()
		}
		s.next()
	}
	return s.errorf(s.peek(0), "unterminated trait use")
}

// skipProperty skips a property declaration, including PHP 8.4 hook blocks
func (s *scanner) skipProperty() error {
	depth := 0
	for !s.eof() {
		tok := s.next()
		switch {
		case isOp(tok, "(") || isOp(tok, "["):
			depth++
		case isOp(tok, ")") || isOp(tok, "]"):
			depth--
		case isOp(tok, "{") && depth == 0:
			s.pos--
			return s.skipBlock()
		case isOp(tok, "}") && depth == 0:
			return s.errorf(tok, "unexpected '}'")
		case isOp(tok, ";") && depth == 0:
			return nil
		}
	}
	return s.errorf(s.peek(0), "unterminated property declaration")
}

func (s *scanner) skipStatement() error {
	_, err := s.collectStatement()
	return err
}

// collectStatement returns the tokens up to the next ';' outside brackets and consumes the ';'
func (s *scanner) collectStatement() ([]lexer.Token, error) {
	start := s.pos
	depth := 0
	for !s.eof() {
		tok := s.next()
		switch {
		case isOp(tok, "(") || isOp(tok, "[") || isOp(tok, "{") || tok.Type == tokenAttribute:
			depth++
		case isOp(tok, ")") || isOp(tok, "]") || isOp(tok, "}"):
			depth--
		case isOp(tok, ";") && depth == 0:
			return s.tokens[start : s.pos-1], nil
		}
	}
	return nil, s.errorf(s.peek(0), "missing ';'")
}

// collectGroup consumes a balanced open/close group and returns the tokens inside it
func (s *scanner) collectGroup(open, close string) ([]lexer.Token, error) {
	start := s.next()
	first := s.pos
	depth := 1
	for !s.eof() {
		tok := s.next()
		switch {
		case isOp(tok, open) || (open == "[" && tok.Type == tokenAttribute):
			depth++
		case isOp(tok, close):
			depth--
			if depth == 0 {
				return s.tokens[first : s.pos-1], nil
			}
		}
	}
	return nil, s.errorf(start, "unbalanced %q", open)
}

func (s *scanner) skipBlock() error {
	_, err := s.collectGroup("{", "}")
	return err
}

func (s *scanner) skipAttribute() error {
	_, err := s.collectGroup("[", "]")
	return err
}

// stripAttributes removes #[...] groups from a token run
func stripAttributes(tokens []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(tokens))
	depth := 0
	for _, tok := range tokens {
		switch {
		case tok.Type == tokenAttribute:
			depth++
			continue
		case depth > 0 && isOp(tok, "["):
			depth++
			continue
		case depth > 0 && isOp(tok, "]"):
			depth--
			continue
		case depth > 0:
			continue
		}
		out = append(out, tok)
	}
	return out
}

// splitTopLevel splits tokens on sep outside of brackets
func splitTopLevel(tokens []lexer.Token, sep string) [][]lexer.Token {
	var parts [][]lexer.Token
	depth, start := 0, 0
	for i, tok := range tokens {
		switch {
		case isOp(tok, "(") || isOp(tok, "[") || isOp(tok, "{"):
			depth++
		case isOp(tok, ")") || isOp(tok, "]") || isOp(tok, "}"):
			depth--
		case isOp(tok, sep) && depth == 0:
			parts = append(parts, tokens[start:i])
			start = i + 1
		}
	}
	if start < len(tokens) {
		parts = append(parts, tokens[start:])
	}
	return parts
}

func joinTokens(tokens []lexer.Token) string {
	values := make([]string, len(tokens))
	for i, tok := range tokens {
		values[i] = tok.Value
	}
	return strings.Join(values, " ")
}
