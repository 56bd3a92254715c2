package php

// Evaluated constant values use these Go types:
//
//	string, bool, nil, int64, float64
//	[]any        list array
//	KeyedArray   array with explicit or non-sequential keys
//	ConstRef     constant that stays symbolic (enum case, unknown class)
//	Object       result of "new" in a default value

// ConstRef is a constant reference that could not, or must not, be folded
type ConstRef struct {
	Class string // fully-qualified class, empty for global constants
	Name  string
}

// String renders the reference as PHP source
func (c ConstRef) String() string {
	if c.Class == "" {
		return c.Name
	}
	return `\` + c.Class + "::" + c.Name
}

// ArrayEntry is a single key/value pair of a KeyedArray
type ArrayEntry struct {
	Key   any // int64 or string
	Value any
}

// KeyedArray is an ordered PHP array with keys
type KeyedArray []ArrayEntry

// Object is an instance created in a constant expression
type Object struct {
	Class string
	Args  []any
}
