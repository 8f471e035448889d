package common

// Keys of the persisted state blobs. Each one holds an independent JSON
// document in the key-value repository.
const (
	SessionStorageKey  = "auth-storage"
	ContactsStorageKey = "contacts-storage"
	SettingsStorageKey = "settings-storage"
)

// Keys used by sealed storage to detect a wrong passphrase.
const (
	SealSaltKey     = "seal-salt"
	SealVerifierKey = "seal-verifier"
)

// DefaultMaxFreeContacts is the free-tier cap.
const DefaultMaxFreeContacts = 3
