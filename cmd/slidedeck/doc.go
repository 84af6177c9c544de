// Package main hosts the slidedeck CLI entrypoint and command graph.
//
// The Cobra-based command tree opens the library in the configured data
// directory for each invocation and maps subcommands onto it: slide and show
// maintenance, archive import and export, catalog search, media reference
// lookups, readiness checks and configuration scaffolding. Configuration
// resolution, the optional .env file and logging setup are centralized in
// commandContext so subcommands only deal with presentation.
//
// Keep this package lean: add new behaviour to the internal packages first,
// then surface it through dedicated commands or flags here.
package main
