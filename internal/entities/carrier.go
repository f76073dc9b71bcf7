package entities

import "errors"

// Carrier is the broker profile attached to a carrier user account.
type Carrier struct {
	UserID      int64
	CompanyName string

	// Code is the human-readable carrier identifier, empty until allocated.
	// Once set it is never reassigned.
	Code string
}

var (
	ErrCarrierNotFound         = errors.New("carrier not found")
	ErrCodeAllocationExhausted = errors.New("carrier code allocation attempts exhausted")

	// ErrCodeCollision signals a uniqueness-constraint hit on a generated code;
	// callers retry with a fresh candidate.
	ErrCodeCollision = errors.New("code already taken")
)
