package entities

import (
	"errors"
	"time"
)

type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferWithdrawn OfferStatus = "withdrawn"
)

// Terminal reports whether no further transition may leave the status.
// Everything except pending is terminal.
func (s OfferStatus) Terminal() bool {
	return s != OfferPending
}

type Offer struct {
	ID         int64
	ShipmentID int64
	CarrierID  int64

	// DriverID is the driver the carrier nominates for the load. Zero means the
	// carrier drives themselves; acceptOffer then assigns the carrier as driver.
	DriverID int64

	PriceCents int64
	Message    string

	// ETA is the carrier's estimated delivery date, optional.
	ETA time.Time

	Status    OfferStatus
	CreatedAt time.Time
}

var (
	ErrOfferNotFound         = errors.New("offer not found")
	ErrOfferNotPending       = errors.New("offer is not pending")
	ErrDuplicatePendingOffer = errors.New("carrier already has a pending offer on this shipment")

	// ErrTransactionAborted is the opaque failure of the multi-row accept
	// transaction; nothing was applied.
	ErrTransactionAborted = errors.New("transaction aborted")
)
