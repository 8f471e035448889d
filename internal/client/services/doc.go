// Package services holds the application state of the CardKeeper client.
//
// Each service owns one slice of state (session and flow flags, contacts,
// entitlement), guards it with a lock, and mirrors every mutation to a
// snapshot repository. Mutations apply in memory first; a failed save is
// logged and returned while the in-memory change stands.
//
// The package also provides the scan stub, reminder helpers and the CSV
// export.
package services
