// Package logging builds the slog loggers slidedeck writes with.
//
// Console output is one logfmt-style line per record. The component and the
// entity being worked on ("store slides/1f0c…:") lead the line, and integer
// fields ending in _bytes print as human-readable sizes. JSON output keeps
// raw values for machine consumption.
package logging
