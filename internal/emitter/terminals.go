package emitter

import "github.com/toyz/fluentgen/internal/introspect"

const (
	groupsType        = `string|\Symfony\Component\Validator\Constraints\GroupSequence|array|null`
	violationListType = `\Symfony\Component\Validator\ConstraintViolationListInterface`
)

// terminalStanzas are the methods that end a chain
func terminalStanzas() []Stanza {
	value := introspect.Parameter{Name: "value", Type: "mixed"}
	name := introspect.Parameter{Name: "name", Type: "?string", Optional: true}
	groups := introspect.Parameter{Name: "groups", Type: groupsType, Optional: true}

	return []Stanza{
		{Name: "validate", Parameters: []introspect.Parameter{value, name, groups}, ReturnType: violationListType},
		{Name: "assert", Parameters: []introspect.Parameter{value, name, groups}, ReturnType: "void"},
		{Name: "isValid", Parameters: []introspect.Parameter{value, groups}, ReturnType: "bool"},
		{Name: "getConstraints", ReturnType: "array"},
	}
}
