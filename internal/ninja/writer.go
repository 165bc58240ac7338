// Package ninja writes ninja build files.
package ninja

import (
	"io"
	"strings"
)

// Writer emits ninja syntax line by line. The first write error sticks and
// turns every later call into a no-op; check it with Err.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) line(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s+"\n")
}

// Comment writes a "# text" line.
func (w *Writer) Comment(text string) {
	w.line("# " + text)
}

// Newline writes an empty line.
func (w *Writer) Newline() {
	w.line("")
}

// Variable writes a "key = value" binding. Values are written as given, so
// they may reference other variables.
func (w *Writer) Variable(key, value string) {
	w.line(key + " = " + value)
}

// Include pulls another ninja file into the current scope.
func (w *Writer) Include(path string) {
	w.line("include " + path)
}

// Binding is an edge-scoped variable.
type Binding struct {
	Key   string
	Value string
}

// Build describes one build statement.
type Build struct {
	Outputs  []string
	Rule     string
	Inputs   []string
	Implicit []string
	// Bindings are written indented below the statement. Their values are
	// literal text: "$" is escaped.
	Bindings []Binding
}

// Build writes a build statement:
//
//	build outputs: rule inputs | implicit
//	  key = value
func (w *Writer) Build(b Build) {
	var sb strings.Builder
	sb.WriteString("build ")
	sb.WriteString(joinPaths(b.Outputs))
	sb.WriteString(": ")
	sb.WriteString(b.Rule)
	if len(b.Inputs) > 0 {
		sb.WriteString(" ")
		sb.WriteString(joinPaths(b.Inputs))
	}
	if len(b.Implicit) > 0 {
		sb.WriteString(" | ")
		sb.WriteString(joinPaths(b.Implicit))
	}
	w.line(sb.String())
	for _, v := range b.Bindings {
		w.line("  " + v.Key + " = " + EscapeValue(v.Value))
	}
}

// Default marks targets built when ninja runs without arguments.
func (w *Writer) Default(paths []string) {
	if len(paths) == 0 {
		return
	}
	w.line("default " + joinPaths(paths))
}

// EscapePath escapes spaces and colons in a path. A "$" is kept so the path
// may start with a variable reference.
func EscapePath(p string) string {
	p = strings.ReplaceAll(p, "$ ", "$$ ")
	p = strings.ReplaceAll(p, " ", "$ ")
	return strings.ReplaceAll(p, ":", "$:")
}

// EscapeValue escapes "$" so a value is taken literally.
func EscapeValue(v string) string {
	return strings.ReplaceAll(v, "$", "$$")
}

func joinPaths(paths []string) string {
	escaped := make([]string, len(paths))
	for i, p := range paths {
		escaped[i] = EscapePath(p)
	}
	return strings.Join(escaped, " ")
}
