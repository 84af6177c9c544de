// Package catalog keeps a SQLite index of stored slides and shows for search
// and media reference lookups.
//
// The catalog is derived data. The store adapters feed it through the
// store.Indexer contract after every write and delete, and the documents on
// disk remain the source of truth: a stale or missing catalog can always be
// rebuilt from them. Schema changes bump the version in schema.go; users
// delete the database and rebuild.
package catalog
