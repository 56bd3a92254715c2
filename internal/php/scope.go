package php

import "strings"

// builtinTypes are the type keywords that are never resolved against the namespace
var builtinTypes = map[string]bool{
	"array":    true,
	"bool":     true,
	"callable": true,
	"false":    true,
	"float":    true,
	"int":      true,
	"iterable": true,
	"mixed":    true,
	"never":    true,
	"null":     true,
	"object":   true,
	"parent":   true,
	"self":     true,
	"static":   true,
	"string":   true,
	"true":     true,
	"void":     true,
}

// IsBuiltinType reports whether name is a PHP type keyword
func IsBuiltinType(name string) bool {
	return builtinTypes[strings.ToLower(name)]
}

// Scope is the namespace and class imports in effect at a declaration
type Scope struct {
	Namespace string

	// imports maps a lowercased alias to the imported fully-qualified name
	imports map[string]string
}

// NewScope creates a scope for the given namespace
func NewScope(namespace string) *Scope {
	return &Scope{
		Namespace: strings.Trim(namespace, `\`),
		imports:   make(map[string]string),
	}
}

// Import registers "use name [as alias]"
func (s *Scope) Import(name, alias string) {
	name = strings.TrimPrefix(name, `\`)
	if alias == "" {
		alias = shortName(name)
	}
	s.imports[strings.ToLower(alias)] = name
}

// Imports returns a copy of the alias table
func (s *Scope) Imports() map[string]string {
	out := make(map[string]string, len(s.imports))
	for k, v := range s.imports {
		out[k] = v
	}
	return out
}

// Clone copies the scope, so later imports in a file do not leak into earlier classes
func (s *Scope) Clone() *Scope {
	return &Scope{Namespace: s.Namespace, imports: s.Imports()}
}

// Qualify resolves a declared class name against the namespace only
func (s *Scope) Qualify(name string) string {
	if s.Namespace == "" {
		return name
	}
	return s.Namespace + `\` + name
}

// Resolve turns a class name as written into a fully-qualified name without a
// leading separator. Builtin type keywords are lowercased and returned as is.
func (s *Scope) Resolve(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, `\`) {
		return name[1:]
	}
	if IsBuiltinType(name) {
		return strings.ToLower(name)
	}

	first, rest, qualified := strings.Cut(name, `\`)
	if strings.EqualFold(first, "namespace") && qualified {
		return s.Qualify(rest)
	}
	if target, ok := s.imports[strings.ToLower(first)]; ok {
		if qualified {
			return target + `\` + rest
		}
		return target
	}
	return s.Qualify(name)
}

func shortName(fqcn string) string {
	if i := strings.LastIndexByte(fqcn, '\\'); i >= 0 {
		return fqcn[i+1:]
	}
	return fqcn
}

// ShortName returns the last segment of a qualified name
func ShortName(fqcn string) string {
	return shortName(strings.TrimPrefix(fqcn, `\`))
}
