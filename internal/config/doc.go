// Package config loads, normalizes, and validates slidedeck configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SLIDEDECK_DATA_DIR environment
// fallback. The Config type centralizes the document store location, thumbnail
// dimensions, import limits, catalog placement and logging knobs so the CLI
// and library wiring discover them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
