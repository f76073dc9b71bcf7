package handler

import (
	"time"

	"github.com/cargolink/freight-service/internal/entities"
	"github.com/cargolink/freight-service/internal/service"
)

// CreateShipmentRequest is the shipper's draft; publishing it opens the load
// for offers.
type CreateShipmentRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`

	OriginAddress      string `json:"origin_address" validate:"required"`
	OriginCity         string `json:"origin_city" validate:"required"`
	DestinationAddress string `json:"destination_address" validate:"required"`
	DestinationCity    string `json:"destination_city" validate:"required"`

	WeightKg       float64 `json:"weight_kg" validate:"gte=0"`
	VolumeM3       float64 `json:"volume_m3" validate:"gte=0"`
	DeclaredValue  float64 `json:"declared_value" validate:"gte=0"`
	RequestedPrice float64 `json:"requested_price" validate:"gte=0"`

	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low normal high"`
	VehicleType string `json:"vehicle_type,omitempty"`

	PickupDate   time.Time `json:"pickup_date,omitempty"`
	DeliveryDate time.Time `json:"delivery_date,omitempty"`
}

// Shipment is the transport view of a shipment
type Shipment struct {
	ID           int64  `json:"id"`
	TrackingCode string `json:"tracking_code"`
	OwnerID      int64  `json:"owner_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`

	OriginAddress      string `json:"origin_address,omitempty"`
	OriginCity         string `json:"origin_city,omitempty"`
	DestinationAddress string `json:"destination_address,omitempty"`
	DestinationCity    string `json:"destination_city,omitempty"`

	WeightKg       float64 `json:"weight_kg,omitempty"`
	VolumeM3       float64 `json:"volume_m3,omitempty"`
	DeclaredValue  float64 `json:"declared_value,omitempty"`
	RequestedPrice float64 `json:"requested_price,omitempty"`

	Priority    string `json:"priority,omitempty"`
	VehicleType string `json:"vehicle_type,omitempty"`

	PickupDate   *time.Time `json:"pickup_date,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`

	CarrierID int64 `json:"carrier_id,omitempty"`
	DriverID  int64 `json:"driver_id,omitempty"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateOfferRequest is a carrier's bid against an open shipment
type CreateOfferRequest struct {
	Price    float64    `json:"price" validate:"required,gt=0"`
	Message  string     `json:"message,omitempty"`
	ETA      *time.Time `json:"eta,omitempty"`
	DriverID int64      `json:"driver_id,omitempty" validate:"gte=0"`
}

// UpdateOfferRequest edits a still-pending offer
type UpdateOfferRequest struct {
	Price   float64    `json:"price" validate:"required,gt=0"`
	Message string     `json:"message,omitempty"`
	ETA     *time.Time `json:"eta,omitempty"`
}

// Offer is the transport view of an offer
type Offer struct {
	ID         int64      `json:"id"`
	ShipmentID int64      `json:"shipment_id"`
	CarrierID  int64      `json:"carrier_id"`
	DriverID   int64      `json:"driver_id,omitempty"`
	Price      float64    `json:"price"`
	Message    string     `json:"message,omitempty"`
	ETA        *time.Time `json:"eta,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

// UpdateShipmentStatusRequest carries one lifecycle transition
type UpdateShipmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note,omitempty"`
}

// Commission is the settlement breakdown stamped at accept time
type Commission struct {
	Price      float64 `json:"price"`
	RateBps    int64   `json:"rate_bps"`
	Commission float64 `json:"commission"`
	CarrierNet float64 `json:"carrier_net"`
}

// AcceptOfferResponse is returned from a successful accept
type AcceptOfferResponse struct {
	Shipment   Shipment   `json:"shipment"`
	Offer      Offer      `json:"offer"`
	Commission Commission `json:"commission"`
}

// Notification is one inbox entry
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// CarrierCodeResponse is the allocated carrier identifier
type CarrierCodeResponse struct {
	Code string `json:"code"`
}

func ShipmentRequestToEntity(req CreateShipmentRequest) (entities.Shipment, error) {
	declared, err := priceOrZero(req.DeclaredValue)
	if err != nil {
		return entities.Shipment{}, err
	}
	requested, err := priceOrZero(req.RequestedPrice)
	if err != nil {
		return entities.Shipment{}, err
	}

	return entities.Shipment{
		Title:               req.Title,
		Description:         req.Description,
		OriginAddress:       req.OriginAddress,
		OriginCity:          req.OriginCity,
		DestinationAddress:  req.DestinationAddress,
		DestinationCity:     req.DestinationCity,
		WeightKg:            req.WeightKg,
		VolumeM3:            req.VolumeM3,
		DeclaredValueCents:  declared,
		RequestedPriceCents: requested,
		Priority:            req.Priority,
		VehicleType:         req.VehicleType,
		PickupDate:          req.PickupDate,
		DeliveryDate:        req.DeliveryDate,
	}, nil
}

func priceOrZero(price float64) (int64, error) {
	if price == 0 {
		return 0, nil
	}
	return service.PriceToCents(price)
}

func ShipmentEntityToJSON(s entities.Shipment) Shipment {
	return Shipment{
		ID:                 s.ID,
		TrackingCode:       s.TrackingCode,
		OwnerID:            s.OwnerID,
		Title:              s.Title,
		Description:        s.Description,
		OriginAddress:      s.OriginAddress,
		OriginCity:         s.OriginCity,
		DestinationAddress: s.DestinationAddress,
		DestinationCity:    s.DestinationCity,
		WeightKg:           s.WeightKg,
		VolumeM3:           s.VolumeM3,
		DeclaredValue:      service.CentsToPrice(s.DeclaredValueCents),
		RequestedPrice:     service.CentsToPrice(s.RequestedPriceCents),
		Priority:           s.Priority,
		VehicleType:        s.VehicleType,
		PickupDate:         timeOrNil(s.PickupDate),
		DeliveryDate:       timeOrNil(s.DeliveryDate),
		CarrierID:          s.CarrierID,
		DriverID:           s.DriverID,
		Status:             string(s.Status),
		CreatedAt:          s.CreatedAt,
	}
}

func OfferEntityToJSON(o entities.Offer) Offer {
	return Offer{
		ID:         o.ID,
		ShipmentID: o.ShipmentID,
		CarrierID:  o.CarrierID,
		DriverID:   o.DriverID,
		Price:      service.CentsToPrice(o.PriceCents),
		Message:    o.Message,
		ETA:        timeOrNil(o.ETA),
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
	}
}

func CommissionEntityToJSON(b entities.CommissionBreakdown) Commission {
	return Commission{
		Price:      service.CentsToPrice(b.PriceCents),
		RateBps:    b.RateBps,
		Commission: service.CentsToPrice(b.CommissionCents),
		CarrierNet: service.CentsToPrice(b.CarrierNetCents),
	}
}

func NotificationEntityToJSON(n entities.Notification) Notification {
	return Notification{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
