// Package common defines shared constants and sentinel errors used across
// CardKeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Form and session validation errors.
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("please fill all fields")

	// Entitlement errors.
	ErrEntitlementExceeded = errors.New("free contacts limit reached")
	ErrPremiumRequired     = errors.New("premium subscription required")

	// Scan errors.
	ErrCaptureFailed    = errors.New("capture failed")
	ErrProcessingFailed = errors.New("failed to process business card")

	// Lifecycle errors.
	ErrStateNotLoaded  = errors.New("state not loaded")
	ErrWrongPassphrase = errors.New("wrong storage passphrase")
)
