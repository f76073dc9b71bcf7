package entities

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"
)

type ShipmentStatus string

const (
	ShipmentDraft            ShipmentStatus = "draft"
	ShipmentWaitingForOffers ShipmentStatus = "waiting_for_offers"
	ShipmentOfferAccepted    ShipmentStatus = "offer_accepted"
	ShipmentInTransit        ShipmentStatus = "in_transit"
	ShipmentDelivered        ShipmentStatus = "delivered"
	ShipmentCompleted        ShipmentStatus = "completed"
	ShipmentCancelled        ShipmentStatus = "cancelled"
)

func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentDraft, ShipmentWaitingForOffers, ShipmentOfferAccepted,
		ShipmentInTransit, ShipmentDelivered, ShipmentCompleted, ShipmentCancelled:
		return true
	}
	return false
}

// Terminal states admit no further transition.
func (s ShipmentStatus) Terminal() bool {
	return s == ShipmentCompleted || s == ShipmentCancelled
}

type Shipment struct {
	ID           int64
	TrackingCode string
	OwnerID      int64

	Title       string
	Description string

	OriginAddress      string
	OriginCity         string
	DestinationAddress string
	DestinationCity    string

	WeightKg            float64
	VolumeM3            float64
	DeclaredValueCents  int64
	RequestedPriceCents int64
	Priority            string
	VehicleType         string

	PickupDate   time.Time
	DeliveryDate time.Time

	// CarrierID and DriverID are zero while status = waiting_for_offers and are
	// stamped atomically with the transition to offer_accepted.
	CarrierID int64
	DriverID  int64

	Status    ShipmentStatus
	CreatedAt time.Time
}

// ShipmentEvent is an audit-trail row; it never feeds back into the state machine.
type ShipmentEvent struct {
	ID         int64
	ShipmentID int64
	Status     ShipmentStatus
	ActorID    int64
	Note       string
	CreatedAt  time.Time
}

var (
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrShipmentNotOpen   = errors.New("shipment is not open for offers")
	ErrShipmentNotOwned  = errors.New("shipment is not owned by actor")
	ErrIllegalTransition = errors.New("illegal shipment status transition")
)

func (s *Shipment) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Shipment) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(s)
}

func init() {
	gob.Register(Shipment{})
}
