// Package config loads runtime configuration for the CardKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   storage backend (sqlite, postgres, redis, memory)
//	-d string   sqlite database file
//	-k string   passphrase for at-rest sealing
//	-m int      free contacts limit
//	-e string   export directory
//	-r int      reminder check interval (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "storage": "postgres",
//	  "postgres_dsn": "postgres://ck:ck@localhost:5432/ck?sslmode=disable",
//	  "auth_delay": "1s",
//	  "scan_delay": "1500ms",
//	  "max_free_contacts": 3,
//	  "s3_bucket": "cardkeeper-exports"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
