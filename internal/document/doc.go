// Package document implements the native JSON format for slides and shows.
//
// Every document starts with an envelope (format name, version, type, id,
// name and timestamps). Components, paints and placeholder sources are
// tagged objects: each variant family has a registry mapping its "type" tag
// to a decode function, and an unknown tag fails the decode with
// ErrUnknownType. Durations are stored as integer milliseconds with -1 for
// forever.
//
// The package converts between DTOs and the slide model; the domain types
// carry no JSON tags.
package document
