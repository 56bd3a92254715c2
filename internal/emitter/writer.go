package emitter

import (
	"bufio"
	"fmt"
	"io"
)

type state int

const (
	stateStart state = iota
	stateHeader
	stateMethod
	stateTerminals
	stateFooter
)

func (s state) String() string {
	return [...]string{"start", "header", "method", "terminals", "footer"}[s]
}

// transitions lists the states each state may be entered from
var transitions = map[state][]state{
	stateHeader:    {stateStart},
	stateMethod:    {stateHeader, stateMethod},
	stateTerminals: {stateHeader, stateMethod},
	stateFooter:    {stateHeader, stateMethod, stateTerminals},
}

// interfaceWriter streams an interface declaration and enforces the order
// header, methods, terminals, footer. The first write error is kept and
// every later call is a no-op.
type interfaceWriter struct {
	out   *bufio.Writer
	state state
	err   error
}

func newInterfaceWriter(w io.Writer) *interfaceWriter {
	return &interfaceWriter{out: bufio.NewWriter(w)}
}

func (w *interfaceWriter) enter(next state) error {
	if w.err != nil {
		return w.err
	}
	for _, from := range transitions[next] {
		if w.state == from {
			w.state = next
			return nil
		}
	}
	return fmt.Errorf("cannot write %s after %s", next, w.state)
}

func (w *interfaceWriter) printf(format string, args ...interface{}) {
	if w.err == nil {
		_, w.err = fmt.Fprintf(w.out, format, args...)
	}
}

func (w *interfaceWriter) header(namespace, name string) error {
	if err := w.enter(stateHeader); err != nil {
		return err
	}
	w.printf("<?php\n\n")
	if namespace != "" {
		w.printf("namespace %s;\n\n", namespace)
	}
	w.printf("interface %s\n{\n", name)
	return w.err
}

// method writes a stanza whose parameters are already rendered
func (w *interfaceWriter) method(name string, static bool, params []string, returnType string) error {
	if err := w.enter(stateMethod); err != nil {
		return err
	}
	w.stanza(name, static, params, returnType)
	return w.err
}

func (w *interfaceWriter) terminal(name string, params []string, returnType string) error {
	if w.state != stateTerminals {
		if err := w.enter(stateTerminals); err != nil {
			return err
		}
	}
	w.stanza(name, false, params, returnType)
	return w.err
}

func (w *interfaceWriter) stanza(name string, static bool, params []string, returnType string) {
	if static {
		w.printf("    public static function %s(\n", name)
	} else {
		w.printf("    public function %s(\n", name)
	}
	for _, p := range params {
		w.printf("        %s,\n", p)
	}
	w.printf("    ): %s;\n\n", returnType)
}

// footer closes the declaration and flushes the buffered output
func (w *interfaceWriter) footer() error {
	if err := w.enter(stateFooter); err != nil {
		return err
	}
	w.printf("}\n")
	if w.err == nil {
		w.err = w.out.Flush()
	}
	return w.err
}
