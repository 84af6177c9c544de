package logging

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// Structured keys shared by every package. The console handler lifts the
// component and entity keys into the line prefix.
const (
	FieldComponent  = "component"
	FieldEntityKind = "entity_kind"
	FieldEntityID   = "entity_id"
	FieldEventType  = "event_type"
	// FieldErrorHint carries an operator-facing next step.
	FieldErrorHint = "error_hint"
	// FieldImpact states what the user loses because of a warning.
	FieldImpact = "impact"
)

// bytesSuffix marks integer attributes the console handler prints as sizes.
const bytesSuffix = "_bytes"

type Attr = slog.Attr

func Bool(key string, value bool) Attr     { return slog.Bool(key, value) }
func Int(key string, value int) Attr       { return slog.Int(key, value) }
func String(key string, value string) Attr { return slog.String(key, value) }

// Bytes records a size; key gains the _bytes suffix when it lacks one.
func Bytes(key string, n int64) Attr {
	if !strings.HasSuffix(key, bytesSuffix) {
		key += bytesSuffix
	}
	return slog.Int64(key, n)
}

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// NewNop returns a logger that drops everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger yields a
// no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries an event type, a hint
// and an impact. Defaults fill whichever of them attrs leaves out.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldEventType, eventType)
	attrs = withDefault(attrs, FieldErrorHint, "check logs for details")
	attrs = withDefault(attrs, FieldImpact, "operation completed with warnings")
	logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}

func withDefault(attrs []Attr, key, value string) []Attr {
	if slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == key }) {
		return attrs
	}
	return append(attrs, String(key, value))
}
