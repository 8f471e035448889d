package models

// SessionSnapshot is persisted under common.SessionStorageKey.
type SessionSnapshot struct {
	User *User `json:"user"`
	Flags
}

// ContactsSnapshot is persisted under common.ContactsStorageKey.
type ContactsSnapshot struct {
	Contacts []Contact `json:"contacts"`
}

// SettingsSnapshot is persisted under common.SettingsStorageKey.
type SettingsSnapshot struct {
	Entitlement
}
