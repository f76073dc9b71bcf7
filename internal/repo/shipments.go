package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cargolink/freight-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

var shipmentColumns = []string{
	"id", "tracking_code", "owner_id", "title", "description",
	"origin_address", "origin_city", "destination_address", "destination_city",
	"weight_kg", "volume_m3", "declared_value_cents", "requested_price_cents",
	"priority", "vehicle_type", "pickup_date", "delivery_date",
	"carrier_id", "driver_id", "status", "created_at",
}

// CreateShipment inserts a new shipment and returns its id. A tracking-code
// collision is reported as entities.ErrCodeCollision so the caller can retry
// with a fresh code.
func (r *postgresRepo) CreateShipment(ctx context.Context, s entities.Shipment) (int64, error) {
	query, args := r.qb.Insert("shipments").
		Columns(
			"tracking_code", "owner_id", "title", "description",
			"origin_address", "origin_city", "destination_address", "destination_city",
			"weight_kg", "volume_m3", "declared_value_cents", "requested_price_cents",
			"priority", "vehicle_type", "pickup_date", "delivery_date", "status",
		).
		Values(
			s.TrackingCode, s.OwnerID, s.Title, nullString(s.Description),
			nullString(s.OriginAddress), nullString(s.OriginCity),
			nullString(s.DestinationAddress), nullString(s.DestinationCity),
			s.WeightKg, s.VolumeM3, s.DeclaredValueCents, s.RequestedPriceCents,
			nullString(s.Priority), nullString(s.VehicleType),
			nullTime(s.PickupDate), nullTime(s.DeliveryDate), string(s.Status),
		).
		Suffix("RETURNING id").
		MustSql()

	var id int64
	err := r.getContext(ctx, &id, query, args...)
	if isUniqueViolation(err) {
		return 0, entities.ErrCodeCollision
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create shipment: %w", err)
	}
	return id, nil
}

func (r *postgresRepo) GetShipmentByID(ctx context.Context, id int64) (entities.Shipment, error) {
	return r.getShipment(ctx, sq.Eq{"id": id}, false)
}

// GetShipmentForUpdate locks the shipment row for the duration of the
// surrounding transaction.
func (r *postgresRepo) GetShipmentForUpdate(ctx context.Context, id int64) (entities.Shipment, error) {
	return r.getShipment(ctx, sq.Eq{"id": id}, true)
}

func (r *postgresRepo) GetShipmentByTracking(ctx context.Context, code string) (entities.Shipment, error) {
	return r.getShipment(ctx, sq.Eq{"tracking_code": code}, false)
}

func (r *postgresRepo) getShipment(ctx context.Context, where sq.Eq, forUpdate bool) (entities.Shipment, error) {
	q := r.qb.Select(shipmentColumns...).From("shipments").Where(where)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	query, args := q.MustSql()

	var shipment Shipment
	err := r.getContext(ctx, &shipment, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Shipment{}, entities.ErrShipmentNotFound
	}
	if err != nil {
		return entities.Shipment{}, fmt.Errorf("failed to get shipment: %w", err)
	}
	return ShipmentToEntity(shipment), nil
}

func (r *postgresRepo) ListShipmentsByOwner(ctx context.Context, ownerID int64) ([]entities.Shipment, error) {
	query, args := r.qb.Select(shipmentColumns...).
		From("shipments").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		MustSql()

	var shipments []Shipment
	if err := r.selectContext(ctx, &shipments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select shipments: %w", err)
	}

	result := make([]entities.Shipment, 0, len(shipments))
	for _, s := range shipments {
		result = append(result, ShipmentToEntity(s))
	}
	return result, nil
}

func (r *postgresRepo) UpdateShipmentStatus(ctx context.Context, id int64, status entities.ShipmentStatus) error {
	query, args := r.qb.Update("shipments").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update shipment status: %w", err)
	}
	return nil
}

// AssignShipment stamps the winning carrier and driver together with the
// transition to offer_accepted, one statement so the invariant cannot be
// observed half-applied.
func (r *postgresRepo) AssignShipment(ctx context.Context, id, carrierID, driverID int64) error {
	query, args := r.qb.Update("shipments").
		Set("status", string(entities.ShipmentOfferAccepted)).
		Set("carrier_id", carrierID).
		Set("driver_id", driverID).
		Where(sq.Eq{"id": id}).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to assign shipment: %w", err)
	}
	return nil
}

func (r *postgresRepo) AddShipmentEvent(ctx context.Context, e entities.ShipmentEvent) error {
	query, args := r.qb.Insert("shipment_events").
		Columns("shipment_id", "status", "actor_id", "note").
		Values(e.ShipmentID, string(e.Status), e.ActorID, e.Note).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to add shipment event: %w", err)
	}
	return nil
}
