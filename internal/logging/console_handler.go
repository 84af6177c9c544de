package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

const consoleTimeLayout = "2006-01-02 15:04:05"

// consoleHandler writes one logfmt-style line per record:
//
//	2026-01-02 15:04:05 WARN  store slides/1f0c…: thumbnail render failed error="boom"
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	attrs     []field
	prefix    string
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = slices.Clip(h.attrs)
	for _, a := range attrs {
		clone.attrs = appendField(clone.attrs, h.prefix, a)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	fields := slices.Clone(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		fields = appendField(fields, h.prefix, a)
		return true
	})

	var component, kind, id string
	rest := fields[:0:0]
	for _, f := range lastWins(fields) {
		switch f.key {
		case FieldComponent:
			component = f.value.String()
		case FieldEntityKind:
			kind = f.value.String()
		case FieldEntityID:
			id = f.value.String()
		default:
			rest = append(rest, f)
		}
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	b.WriteString(ts.Local().Format(consoleTimeLayout))
	fmt.Fprintf(&b, " %-5s", levelName(r.Level))
	if component != "" {
		b.WriteString(" " + component)
	}
	if subject := subjectOf(kind, id); subject != "" {
		b.WriteString(" " + subject + ":")
	}
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" " + msg)
	for _, f := range rest {
		b.WriteString(" " + f.key + "=" + consoleValue(f))
	}
	if h.addSource {
		if src := r.Source(); src != nil {
			fmt.Fprintf(&b, " source=%s:%d", filepath.Base(src.File), src.Line)
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func appendField(dst []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner += a.Key + "."
		}
		for _, g := range a.Value.Group() {
			dst = appendField(dst, inner, g)
		}
		return dst
	}
	return append(dst, field{key: prefix + a.Key, value: a.Value})
}

// lastWins drops earlier fields that a later one with the same key overrides.
func lastWins(fields []field) []field {
	last := make(map[string]int, len(fields))
	for i, f := range fields {
		last[f.key] = i
	}
	out := make([]field, 0, len(last))
	for i, f := range fields {
		if last[f.key] == i {
			out = append(out, f)
		}
	}
	return out
}

func subjectOf(kind, id string) string {
	switch {
	case kind != "" && id != "":
		return kind + "/" + id
	case id != "":
		return id
	default:
		return kind
	}
}

func consoleValue(f field) string {
	v := f.value
	switch v.Kind() {
	case slog.KindInt64:
		if strings.HasSuffix(f.key, bytesSuffix) && v.Int64() >= 0 {
			return quoteIfNeeded(humanize.IBytes(uint64(v.Int64())))
		}
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().Local().Format(consoleTimeLayout)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return quoteIfNeeded(err.Error())
		}
		return quoteIfNeeded(fmt.Sprint(v.Any()))
	default:
		return quoteIfNeeded(v.String())
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
