// Package kv provides the key-value repositories that back CardKeeper's
// persisted state.
//
// # Overview
//
// The Repository interface stores opaque byte values under string keys. The
// application keeps three JSON documents in it (session, contacts, settings)
// and, when sealing is enabled, the salt and verifier of the sealing key.
//
// # Implementations
//
//   - SQLiteRepository: default, local file via modernc.org/sqlite
//   - PostgresRepository: shared database via the pgx stdlib driver
//   - RedisRepository: redis server, keys namespaced by a prefix
//   - MemoryRepository: process memory, for tests and throwaway sessions
//
// The SQL implementations work on a dbx.DBTX, so they can join a caller's
// transaction. Get returns (nil, nil) for a missing key in every backend.
//
// Typical Usage
//
//	repo := kv.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, "contacts-storage", blob)
//	blob, _ = repo.Get(ctx, "contacts-storage")
package kv
