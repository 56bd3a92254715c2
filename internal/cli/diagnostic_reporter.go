package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/fluentgen/internal/errors"
)

// DiagnosticReporter renders failed runs for humans
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: os.Stderr}
}

// SetOutput redirects the report
func (r *DiagnosticReporter) SetOutput(w io.Writer) {
	r.out = w
}

// ReportWarning writes a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	color.New(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError explains err, using the rich fields of a GeneratorError when the
// chain carries one.
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Generation Failed\n")
	fmt.Fprintf(r.out, "========================\n\n")

	var genErr errors.GeneratorError
	if stderrors.As(err, &genErr) {
		r.reportGeneratorError(err, genErr)
	} else {
		fmt.Fprintf(r.out, "Message: %s\n", err.Error())
	}
	fmt.Fprintln(r.out)
}

func (r *DiagnosticReporter) reportGeneratorError(top error, genErr errors.GeneratorError) {
	title := titleFor(genErr.ErrorCode())
	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))

	fmt.Fprintf(r.out, "Message: %s\n\n", top.Error())

	if loc := genErr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc)
	}

	if ctx := genErr.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := collectSuggestions(top); len(suggestions) > 0 {
		fmt.Fprintf(r.out, "Suggestions:\n")
		for i, s := range suggestions {
			fmt.Fprintf(r.out, "   %d. %s\n", i+1, s)
		}
		fmt.Fprintln(r.out)
	}

	if r.verbose {
		fmt.Fprintf(r.out, "Error Chain:\n")
		level := 1
		for err := stderrors.Unwrap(top); err != nil; err = stderrors.Unwrap(err) {
			fmt.Fprintf(r.out, "    %d. %s\n", level, err.Error())
			level++
		}
	} else {
		fmt.Fprintf(r.out, "Run with --verbose for more detailed output\n")
	}
}

func titleFor(code errors.ErrorCode) string {
	switch code {
	case errors.DiscoveryErrorCode:
		return "Discovery Error"
	case errors.IntrospectionErrorCode:
		return "Introspection Error"
	case errors.SyntaxErrorCode:
		return "PHP Syntax Error"
	case errors.FormattingErrorCode:
		return "Formatting Error"
	case errors.WriteErrorCode:
		return "Write Error"
	case errors.ConfigurationErrorCode:
		return "Configuration Error"
	default:
		return "Unknown Error"
	}
}

// collectSuggestions gathers hints from every GeneratorError in the chain
func collectSuggestions(err error) []string {
	var out []string
	seen := make(map[string]bool)
	for ; err != nil; err = stderrors.Unwrap(err) {
		genErr, ok := err.(errors.GeneratorError)
		if !ok {
			continue
		}
		for _, s := range genErr.Suggestions() {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
	fmt.Fprintln(r.out)
}

// formatContextKey converts snake_case to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
