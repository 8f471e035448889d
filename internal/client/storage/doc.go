// Package storage wires the persisted state of CardKeeper: it opens the
// configured key-value backend, applies schema migrations for the SQL
// backends, optionally seals blobs at rest and exposes typed snapshot
// repositories for the session, contacts and settings blobs.
package storage
