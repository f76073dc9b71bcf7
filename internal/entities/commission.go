package entities

import (
	"errors"
	"time"
)

// CommissionBreakdown is the settlement split of an agreed price. The identity
// CommissionCents + CarrierNetCents == PriceCents always holds.
type CommissionBreakdown struct {
	PriceCents      int64
	RateBps         int64
	CommissionCents int64
	CarrierNetCents int64
}

// CommissionRecord is the audit artifact persisted 1:1 with the winning offer
// at the moment it is accepted. It is never mutated afterwards.
type CommissionRecord struct {
	ID              int64
	OfferID         int64
	PriceCents      int64
	RateBps         int64
	CommissionCents int64
	CarrierNetCents int64
	CreatedAt       time.Time
}

var ErrInvalidAmount = errors.New("invalid amount")
