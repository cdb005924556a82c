// Package eagleimport translates Eagle XML schematics into the native
// schematic object model: symbol libraries, sheets of wires and components,
// reconstructed net labels and synthesized bus entries.
package eagleimport

import (
	"fmt"
	"io"
)

// Severity ranks a diagnostic message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "info"
}

// Reporter receives diagnostics produced during an import. Implementations
// must tolerate calls from a single goroutine only.
type Reporter interface {
	Report(severity Severity, format string, args ...interface{})
}

// WriterReporter logs diagnostics to an io.Writer, one per line.
type WriterReporter struct {
	W io.Writer
}

func (r *WriterReporter) Report(severity Severity, format string, args ...interface{}) {
	fmt.Fprintf(r.W, "%s: %s\n", severity, fmt.Sprintf(format, args...))
}

// NullReporter discards all diagnostics.
type NullReporter struct{}

func (NullReporter) Report(Severity, string, ...interface{}) {}

// CountingReporter wraps another reporter and tallies per-severity counts.
type CountingReporter struct {
	Next     Reporter
	Infos    int
	Warnings int
	Errors   int
}

func (r *CountingReporter) Report(severity Severity, format string, args ...interface{}) {
	switch severity {
	case SeverityError:
		r.Errors++
	case SeverityWarning:
		r.Warnings++
	default:
		r.Infos++
	}
	if r.Next != nil {
		r.Next.Report(severity, format, args...)
	}
}
