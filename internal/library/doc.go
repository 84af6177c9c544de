// Package library opens a slidedeck data directory.
//
// Open takes an exclusive process lock on the directory, then wires the
// slide store (native and legacy XML formats, box thumbnails) and the show
// store to the optional SQLite search catalog. Operations that span both
// stores live here: combined import of mixed archives, export of shows
// together with the slides they play, slide deletion that also detaches the
// slide from every show, media reference lookups and catalog rebuilds.
package library
