// Package models defines the client-side data model of CardKeeper: contacts,
// the signed-in user, flow flags, entitlement state and the snapshot shapes
// persisted under the auth, contacts and settings keys.
package models
