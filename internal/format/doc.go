// Package format holds the pluggable codecs used by import and export.
//
// A Registry is keyed by Format and keeps registration order. The native
// providers wrap the document package; the legacy XML provider reads slides
// written by older installations and refuses to write.
package format
