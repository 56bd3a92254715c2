package format

import (
	"strings"

	"github.com/toyz/fluentgen/internal/php"
)

// DefaultPrefixes are the namespaces qualified when no configuration overrides them
var DefaultPrefixes = []string{`Symfony\`}

// ClassResolver maps a short class name to a fully-qualified one
type ClassResolver interface {
	ResolveShortName(name string) (string, bool)
}

// TypeFormatter qualifies library class names in type expressions
type TypeFormatter struct {
	prefixes []string
	resolver ClassResolver
}

// NewTypeFormatter creates a formatter for the given namespace prefixes. The
// resolver is optional and lets short names of known classes be qualified.
func NewTypeFormatter(prefixes []string, resolver ClassResolver) *TypeFormatter {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	return &TypeFormatter{prefixes: prefixes, resolver: resolver}
}

// FormatType renders raw with a leading separator on every name that belongs
// to the library. Builtins, already qualified names and the nullable, union,
// intersection and grouping syntax are kept verbatim.
func (f *TypeFormatter) FormatType(raw string) string {
	tokens, err := php.Tokenize("type", raw)
	if err != nil {
		return raw
	}

	var sb strings.Builder
	last := 0
	for _, tok := range tokens {
		if !php.IsName(tok) {
			continue
		}
		sb.WriteString(raw[last:tok.Pos.Offset])
		sb.WriteString(f.qualify(tok.Value))
		last = tok.Pos.Offset + len(tok.Value)
	}
	sb.WriteString(raw[last:])
	return sb.String()
}

func (f *TypeFormatter) qualify(name string) string {
	if strings.HasPrefix(name, `\`) || php.IsBuiltinType(name) {
		return name
	}
	for _, prefix := range f.prefixes {
		if strings.HasPrefix(name, prefix) {
			return `\` + name
		}
	}
	if f.resolver != nil && !strings.Contains(name, `\`) {
		if fqcn, ok := f.resolver.ResolveShortName(name); ok {
			return `\` + fqcn
		}
	}
	return name
}
