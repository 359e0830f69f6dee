// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import (
	"fmt"
	"log"
)

// Severity is the severity of a log message, per the six-level scale
// the RHI boundary contract defines (spec.md §6 "Log sink").
type Severity int

// Log severities.
const (
	Trace Severity = iota
	Info
	Debug
	PerformanceWarning
	Warning
	Critical
)

func (s Severity) String() string {
	switch s {
	case Trace:
		return "trace"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case PerformanceWarning:
		return "perf"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// LogSink is the interface that an external collaborator implements
// to receive diagnostic output from the RHI. It is the single
// function in the boundary's "Log sink" contract.
type LogSink interface {
	Log(severity Severity, message string)
}

// stdLogSink routes messages through the standard log package. It is
// the default sink used when a Device is created without one
// explicitly configured; no third-party logging framework appears
// anywhere in the retrieval pack this module was built from, so
// adding one here would be introducing a dependency the corpus never
// reaches for (see DESIGN.md).
type stdLogSink struct{}

func (stdLogSink) Log(severity Severity, message string) {
	log.Printf("[%s] %s", severity, message)
}

var defaultLogSink LogSink = stdLogSink{}

// logf formats and sends a message through sink, falling back to the
// default sink if sink is nil.
func logf(sink LogSink, severity Severity, format string, args ...any) {
	if sink == nil {
		sink = defaultLogSink
	}
	sink.Log(severity, fmt.Sprintf(format, args...))
}
