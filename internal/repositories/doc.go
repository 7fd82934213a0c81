// Package repositories provides the SQLite-backed persistence layer.
//
// Its single concern is the catalog cache: search results and fetched
// release pages keyed by opaque string keys with a TTL. The cache is shared
// read-mostly state across all track workers; SQLite (WAL mode plus a busy
// timeout) gives concurrent get/set with last-writer-wins semantics on a
// key, which is all the resolution pipeline requires.
package repositories
