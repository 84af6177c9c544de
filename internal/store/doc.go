// Package store persists slides and shows as one native document per
// identifier, with a side-car PNG thumbnail.
//
// Adapter is generic over the entity type. It owns the per-identifier locks
// and the export lock, writes documents atomically, keeps thumbnails in
// step with every create and update, and drives the import pipeline that
// turns files and zip archives into upserts. Batch operations return
// itemized results; only adapter-level failures fail the whole call.
//
// Errors are *Error values wrapping the package sentinels (ErrNotFound,
// ErrAlreadyExists, and so on). ErrorKind classifies them for callers that
// map failures to exit codes.
package store
