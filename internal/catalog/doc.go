// Package catalog persists the mapping from episode codes to upload-channel
// message locations.
//
// The store is SQLite in WAL mode. Code uniqueness is enforced by the schema
// and decided atomically on insert, so concurrent ingestion of the same upload
// resolves to exactly one record with the loser seeing ErrDuplicate. Reads
// return (nil, nil) for absent codes rather than an error.
package catalog
