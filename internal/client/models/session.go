package models

// User is the signed-in account. Token is the session token minted on
// login or registration; it may be empty in older snapshots.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token,omitempty"`
}

// Flags drive the navigation gate. All of them only ever go from false to
// true, except Authenticated which logout clears.
type Flags struct {
	SeenOnboarding     bool `json:"hasSeenOnboarding"`
	Authenticated      bool `json:"isAuthenticated"`
	SeenThankYou       bool `json:"hasSeenThankYou"`
	SeenPaywall        bool `json:"hasSeenPaywall"`
	OnboardingComplete bool `json:"isOnboardingComplete"`
}

// Entitlement tracks subscription state and how many contacts a free
// account has used.
type Entitlement struct {
	Premium         bool `json:"isPremium"`
	ContactsCount   int  `json:"contactsCount"`
	MaxFreeContacts int  `json:"maxFreeContacts"`
}
