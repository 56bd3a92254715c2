// Package php models the subset of PHP source needed to recover class
// declarations and constructor signatures without a PHP runtime.
package php

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// identifier matches PHP labels, including bytes above 0x7f
const identifier = `[A-Za-z_\x{80}-\x{10FFFF}][A-Za-z0-9_\x{80}-\x{10FFFF}]*`

// Rules are tried in order and the first match wins, so multi-character
// operators come before their single-character prefixes.
var phpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Attribute", Pattern: `#\[`},
	{Name: "Comment", Pattern: `(?:#|//)[^\n]*|/\*[\s\S]*?\*/`},
	{Name: "OpenTag", Pattern: `<\?php|<\?=?`},
	{Name: "CloseTag", Pattern: `\?>`},
	{Name: "Variable", Pattern: `\$` + identifier},
	{Name: "String", Pattern: `'(?:\\[\s\S]|[^'\\])*'|"(?:\\[\s\S]|[^"\\])*"`},
	{Name: "Float", Pattern: `(?:\d[\d_]*)?\.\d[\d_]*(?:[eE][+-]?\d+)?|\d[\d_]*[eE][+-]?\d+`},
	{Name: "Int", Pattern: `0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|\d[\d_]*`},
	{Name: "Name", Pattern: `\\?` + identifier + `(?:\\` + identifier + `)*`},
	{Name: "Operator", Pattern: `\*\*=?|\.\.\.|<<=|>>=|<=>|===|!==|\?\?=?|\?->|::|=>|->|\+\+|--|&&|\|\||<<|>>|==|!=|<>|<=|>=|[-+*/%.&|^!~=<>]=?|[?:;,@(){}\[\]$\\` + "`" + `]`},
	{Name: "Other", Pattern: `.`},
})

var (
	symbols         = phpLexer.Symbols()
	tokenWhitespace = symbols["Whitespace"]
	tokenComment    = symbols["Comment"]
	tokenOpenTag    = symbols["OpenTag"]
	tokenCloseTag   = symbols["CloseTag"]
	tokenAttribute  = symbols["Attribute"]
	tokenVariable   = symbols["Variable"]
	tokenString     = symbols["String"]
	tokenName       = symbols["Name"]
	tokenOperator   = symbols["Operator"]
)

// Tokenize splits PHP source into significant tokens. Whitespace, comments
// and open/close tags are dropped.
func Tokenize(filename, source string) ([]lexer.Token, error) {
	lex, err := phpLexer.LexString(filename, source)
	if err != nil {
		return nil, fmt.Errorf("failed to lex %s: %w", filename, err)
	}

	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("failed to lex %s: %w", filename, err)
	}

	tokens := make([]lexer.Token, 0, len(all))
	for _, tok := range all {
		switch tok.Type {
		case lexer.EOF, tokenWhitespace, tokenComment, tokenOpenTag, tokenCloseTag:
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// IsName reports whether tok is a (possibly qualified) PHP name
func IsName(tok lexer.Token) bool {
	return tok.Type == tokenName
}
