package emitter

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toyz/fluentgen/internal/catalog"
	"github.com/toyz/fluentgen/internal/errors"
	"github.com/toyz/fluentgen/internal/format"
	"github.com/toyz/fluentgen/internal/introspect"
)

// ParameterSource provides constructor parameters for a class
type ParameterSource interface {
	ExtractParameters(fqcn string) ([]introspect.Parameter, error)
}

// TypeFormatter renders declared types for the generated file
type TypeFormatter interface {
	FormatType(raw string) string
}

// Stanza is one method declaration of the generated interface
type Stanza struct {
	Name       string
	Parameters []introspect.Parameter
	ReturnType string
	Static     bool
}

// OrderingHazard marks a required parameter declared after an optional one.
// PHP deprecates such signatures, so they are reported but written as declared.
type OrderingHazard struct {
	Method    string
	Parameter string
	After     string // the optional parameter it follows
}

func (h OrderingHazard) String() string {
	return fmt.Sprintf("%s(): required $%s follows optional $%s", h.Method, h.Parameter, h.After)
}

// Result summarizes one emitted interface
type Result struct {
	Path      string
	Methods   int
	Terminals bool
	Hazards   []OrderingHazard
}

// Emitter writes interface declarations into one namespace
type Emitter struct {
	namespace string
	params    ParameterSource
	types     TypeFormatter
}

// New creates an emitter. The type formatter may be nil, in which case types
// are written exactly as introspected.
func New(namespace string, params ParameterSource, types TypeFormatter) *Emitter {
	return &Emitter{
		namespace: strings.Trim(namespace, `\`),
		params:    params,
		types:     types,
	}
}

// EmitFile creates or truncates path and writes the target into it
func (e *Emitter) EmitFile(path string, target Target, descriptors []catalog.ConstraintDescriptor) (*Result, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewWriteError(path, "create", err)
	}

	result, err := e.emit(f, path, target, descriptors)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = errors.NewWriteError(path, "close", cerr)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Emit writes the target to w, one stanza per descriptor in order
func (e *Emitter) Emit(w io.Writer, target Target, descriptors []catalog.ConstraintDescriptor) (*Result, error) {
	return e.emit(w, target.FileName(), target, descriptors)
}

func (e *Emitter) emit(w io.Writer, path string, target Target, descriptors []catalog.ConstraintDescriptor) (*Result, error) {
	if target.Terminals && target.Flavor != Chained {
		return nil, errors.NewConfigurationError("terminals",
			fmt.Sprintf("interface %s: terminal methods require the chained flavor", target.Name))
	}

	out := newInterfaceWriter(w)
	result := &Result{Path: path, Terminals: target.Terminals}

	writeErr := func(err error) error {
		return errors.NewWriteError(path, "write", err)
	}

	if err := out.header(e.namespace, target.Name); err != nil {
		return nil, writeErr(err)
	}

	returnType := e.formatType(target.ReturnType)
	for _, d := range descriptors {
		params, err := e.params.ExtractParameters(d.ClassName)
		if err != nil {
			return nil, err
		}

		stanza := Stanza{
			Name:       d.MethodName,
			Parameters: params,
			ReturnType: returnType,
			Static:     target.Flavor == StaticFactory,
		}
		result.Hazards = append(result.Hazards, orderingHazards(stanza)...)

		lines, err := e.renderParameters(d.ClassName, stanza.Parameters)
		if err != nil {
			return nil, err
		}
		if err := out.method(stanza.Name, stanza.Static, lines, stanza.ReturnType); err != nil {
			return nil, writeErr(err)
		}
		result.Methods++
	}

	if target.Terminals {
		for _, stanza := range terminalStanzas() {
			lines, err := e.renderParameters(stanza.Name, stanza.Parameters)
			if err != nil {
				return nil, err
			}
			if err := out.terminal(stanza.Name, lines, e.formatType(stanza.ReturnType)); err != nil {
				return nil, writeErr(err)
			}
		}
	}

	if err := out.footer(); err != nil {
		return nil, writeErr(err)
	}
	return result, nil
}

func (e *Emitter) renderParameters(owner string, params []introspect.Parameter) ([]string, error) {
	lines := make([]string, 0, len(params))
	for _, p := range params {
		line, err := e.renderParameter(p)
		if err != nil {
			var formatting *errors.FormattingError
			if stderrors.As(err, &formatting) {
				formatting.WithContext("class", owner).WithContext("parameter", p.Name)
			}
			return nil, errors.Wrapf(errors.FormattingErrorCode, err, "default value of $%s in %s", p.Name, owner)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// renderParameter formats one declaration. An untyped parameter keeps the
// separating space so the column stays aligned with typed ones.
func (e *Emitter) renderParameter(p introspect.Parameter) (string, error) {
	var sb strings.Builder
	sb.WriteString(e.formatType(p.Type))
	sb.WriteByte(' ')
	if p.ByRef {
		sb.WriteByte('&')
	}
	if p.Variadic {
		sb.WriteString("...")
	}
	sb.WriteString("$")
	sb.WriteString(p.Name)

	if p.Optional {
		lit, err := format.FormatLiteral(p.Default)
		if err != nil {
			return "", err
		}
		sb.WriteString(" = ")
		sb.WriteString(lit)
	}
	return sb.String(), nil
}

func (e *Emitter) formatType(raw string) string {
	if e.types == nil {
		return raw
	}
	return e.types.FormatType(raw)
}

func orderingHazards(s Stanza) []OrderingHazard {
	var hazards []OrderingHazard
	lastOptional := ""
	for _, p := range s.Parameters {
		switch {
		case p.Optional:
			lastOptional = p.Name
		case p.Variadic:
		case lastOptional != "":
			hazards = append(hazards, OrderingHazard{Method: s.Name, Parameter: p.Name, After: lastOptional})
		}
	}
	return hazards
}
