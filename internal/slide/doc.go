// Package slide holds the document model: regions, components, slides and
// shows.
//
// Components are a Region plus a closed set of bodies (text, image, video,
// audio, placeholder, date/time, countdown). Geometry, paint and border are
// composed through the embedded Region rather than inherited, and code that
// needs per-kind behaviour switches over the Body type.
//
// # Timing
//
// Slide.TotalTime decides when a show advances. Forever (-1) on the slide or
// any infinitely repeating animation pins the slide; otherwise the slide
// stays up for its transition plus the longer of its own time and its slowest
// animation.
//
// # Identity
//
// Snapshot keeps identifiers and is meant for previews and undo buffers.
// Duplicate assigns fresh identifiers and is how a copy becomes a new
// document.
package slide
