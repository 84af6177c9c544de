// Package preflight provides readiness checks for the filesystem paths and
// the search catalog that slidedeck depends on.
//
// The CLI "slidedeck status" command runs RunAll before opening the library
// and renders each Result. Checks are read-only: the lock check releases the
// lock it probes and the catalog check never creates a database.
package preflight
