// Package diag provides the diagnostics sink injected into pipes and
// pipelines. The checking core only emits through the Sink interface; the
// default sink discards everything, so diagnostics never change behavior.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Sink receives informational and error diagnostics from pipes and
// pipelines. Key/value pairs alternate in kv.
type Sink interface {
	Info(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// Nop is a Sink that discards all diagnostics. It is the default sink.
type Nop struct{}

func (Nop) Info(msg string, kv ...any)  {}
func (Nop) Error(msg string, kv ...any) {}

// Writer is a Sink that renders diagnostics as single lines to W.
type Writer struct {
	W io.Writer
}

func (w Writer) Info(msg string, kv ...any)  { w.write("INFO", msg, kv) }
func (w Writer) Error(msg string, kv ...any) { w.write("ERROR", msg, kv) }

func (w Writer) write(level, msg string, kv []any) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	fmt.Fprintln(w.W, b.String())
}

// NewRunID returns a unique identifier correlating the diagnostics of one
// logged fit or transform run.
func NewRunID() string {
	return uuid.NewString()
}
