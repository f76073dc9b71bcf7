package repo

import (
	"database/sql"
	"time"

	"github.com/cargolink/freight-service/internal/entities"
)

type Shipment struct {
	ID                  int64          `db:"id"`
	TrackingCode        string         `db:"tracking_code"`
	OwnerID             int64          `db:"owner_id"`
	Title               string         `db:"title"`
	Description         sql.NullString `db:"description"`
	OriginAddress       sql.NullString `db:"origin_address"`
	OriginCity          sql.NullString `db:"origin_city"`
	DestinationAddress  sql.NullString `db:"destination_address"`
	DestinationCity     sql.NullString `db:"destination_city"`
	WeightKg            float64        `db:"weight_kg"`
	VolumeM3            float64        `db:"volume_m3"`
	DeclaredValueCents  int64          `db:"declared_value_cents"`
	RequestedPriceCents int64          `db:"requested_price_cents"`
	Priority            sql.NullString `db:"priority"`
	VehicleType         sql.NullString `db:"vehicle_type"`
	PickupDate          sql.NullTime   `db:"pickup_date"`
	DeliveryDate        sql.NullTime   `db:"delivery_date"`
	CarrierID           sql.NullInt64  `db:"carrier_id"`
	DriverID            sql.NullInt64  `db:"driver_id"`
	Status              string         `db:"status"`
	CreatedAt           time.Time      `db:"created_at"`
}

type Offer struct {
	ID         int64          `db:"id"`
	ShipmentID int64          `db:"shipment_id"`
	CarrierID  int64          `db:"carrier_id"`
	DriverID   sql.NullInt64  `db:"driver_id"`
	PriceCents int64          `db:"price_cents"`
	Message    sql.NullString `db:"message"`
	ETA        sql.NullTime   `db:"eta"`
	Status     string         `db:"status"`
	CreatedAt  time.Time      `db:"created_at"`
}

type Carrier struct {
	UserID      int64          `db:"user_id"`
	CompanyName sql.NullString `db:"company_name"`
	CarrierCode sql.NullString `db:"carrier_code"`
}

type Notification struct {
	ID          int64          `db:"id"`
	RecipientID int64          `db:"recipient_id"`
	Title       string         `db:"title"`
	Message     sql.NullString `db:"message"`
	Type        string         `db:"type"`
	IsRead      bool           `db:"is_read"`
	CreatedAt   time.Time      `db:"created_at"`
}

func ShipmentToEntity(s Shipment) entities.Shipment {
	return entities.Shipment{
		ID:                  s.ID,
		TrackingCode:        s.TrackingCode,
		OwnerID:             s.OwnerID,
		Title:               s.Title,
		Description:         nullStringToString(s.Description),
		OriginAddress:       nullStringToString(s.OriginAddress),
		OriginCity:          nullStringToString(s.OriginCity),
		DestinationAddress:  nullStringToString(s.DestinationAddress),
		DestinationCity:     nullStringToString(s.DestinationCity),
		WeightKg:            s.WeightKg,
		VolumeM3:            s.VolumeM3,
		DeclaredValueCents:  s.DeclaredValueCents,
		RequestedPriceCents: s.RequestedPriceCents,
		Priority:            nullStringToString(s.Priority),
		VehicleType:         nullStringToString(s.VehicleType),
		PickupDate:          nullTimeToTime(s.PickupDate),
		DeliveryDate:        nullTimeToTime(s.DeliveryDate),
		CarrierID:           nullInt64ToInt64(s.CarrierID),
		DriverID:            nullInt64ToInt64(s.DriverID),
		Status:              entities.ShipmentStatus(s.Status),
		CreatedAt:           s.CreatedAt,
	}
}

func OfferToEntity(o Offer) entities.Offer {
	return entities.Offer{
		ID:         o.ID,
		ShipmentID: o.ShipmentID,
		CarrierID:  o.CarrierID,
		DriverID:   nullInt64ToInt64(o.DriverID),
		PriceCents: o.PriceCents,
		Message:    nullStringToString(o.Message),
		ETA:        nullTimeToTime(o.ETA),
		Status:     entities.OfferStatus(o.Status),
		CreatedAt:  o.CreatedAt,
	}
}

func CarrierToEntity(c Carrier) entities.Carrier {
	return entities.Carrier{
		UserID:      c.UserID,
		CompanyName: nullStringToString(c.CompanyName),
		Code:        nullStringToString(c.CarrierCode),
	}
}

func NotificationToEntity(n Notification) entities.Notification {
	return entities.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Message:     nullStringToString(n.Message),
		Type:        entities.NotificationType(n.Type),
		Read:        n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(i int64) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullInt64ToInt64(ni sql.NullInt64) int64 {
	if ni.Valid {
		return ni.Int64
	}
	return 0
}

func nullTimeToTime(nt sql.NullTime) time.Time {
	if nt.Valid {
		return nt.Time
	}
	return time.Time{}
}
