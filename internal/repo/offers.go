package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cargolink/freight-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

var offerColumns = []string{
	"id", "shipment_id", "carrier_id", "driver_id",
	"price_cents", "message", "eta", "status", "created_at",
}

// InsertOffer creates a pending offer. The partial unique index on
// (shipment_id, carrier_id) WHERE status = 'pending' turns a concurrent
// duplicate into entities.ErrDuplicatePendingOffer.
func (r *postgresRepo) InsertOffer(ctx context.Context, o entities.Offer) (int64, error) {
	query, args := r.qb.Insert("offers").
		Columns("shipment_id", "carrier_id", "driver_id", "price_cents", "message", "eta", "status").
		Values(
			o.ShipmentID, o.CarrierID, nullInt64(o.DriverID),
			o.PriceCents, nullString(o.Message), nullTime(o.ETA),
			string(entities.OfferPending),
		).
		Suffix("RETURNING id").
		MustSql()

	var id int64
	err := r.getContext(ctx, &id, query, args...)
	if isUniqueViolation(err) {
		return 0, entities.ErrDuplicatePendingOffer
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert offer: %w", err)
	}
	return id, nil
}

func (r *postgresRepo) GetOfferByID(ctx context.Context, id int64) (entities.Offer, error) {
	return r.getOffer(ctx, id, false)
}

// GetOfferForUpdate locks the offer row for the duration of the surrounding
// transaction.
func (r *postgresRepo) GetOfferForUpdate(ctx context.Context, id int64) (entities.Offer, error) {
	return r.getOffer(ctx, id, true)
}

func (r *postgresRepo) getOffer(ctx context.Context, id int64, forUpdate bool) (entities.Offer, error) {
	q := r.qb.Select(offerColumns...).From("offers").Where(sq.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	query, args := q.MustSql()

	var offer Offer
	err := r.getContext(ctx, &offer, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Offer{}, entities.ErrOfferNotFound
	}
	if err != nil {
		return entities.Offer{}, fmt.Errorf("failed to get offer: %w", err)
	}
	return OfferToEntity(offer), nil
}

func (r *postgresRepo) ListOffersByShipment(ctx context.Context, shipmentID int64) ([]entities.Offer, error) {
	query, args := r.qb.Select(offerColumns...).
		From("offers").
		Where(sq.Eq{"shipment_id": shipmentID}).
		OrderBy("created_at ASC").
		MustSql()

	var offers []Offer
	if err := r.selectContext(ctx, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select offers: %w", err)
	}

	result := make([]entities.Offer, 0, len(offers))
	for _, o := range offers {
		result = append(result, OfferToEntity(o))
	}
	return result, nil
}

// TransitionOffer moves an offer out of pending. Zero rows affected means the
// offer was not pending anymore (or never existed), reported as
// entities.ErrOfferNotPending.
func (r *postgresRepo) TransitionOffer(ctx context.Context, id int64, to entities.OfferStatus) error {
	query, args := r.qb.Update("offers").
		Set("status", string(to)).
		Where(sq.Eq{"id": id, "status": string(entities.OfferPending)}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to transition offer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrOfferNotPending
	}
	return nil
}

// RejectOtherPending flips every pending offer on the shipment except the
// winner to rejected and returns the losing carrier ids for notification
// fan-out.
func (r *postgresRepo) RejectOtherPending(ctx context.Context, shipmentID, winnerOfferID int64) ([]int64, error) {
	query, args := r.qb.Update("offers").
		Set("status", string(entities.OfferRejected)).
		Where(sq.Eq{"shipment_id": shipmentID, "status": string(entities.OfferPending)}).
		Where(sq.NotEq{"id": winnerOfferID}).
		Suffix("RETURNING carrier_id").
		MustSql()

	var carrierIDs []int64
	if err := r.selectContext(ctx, &carrierIDs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to reject competing offers: %w", err)
	}
	return carrierIDs, nil
}

// UpdateOfferTerms lets the carrier edit a still-pending offer.
func (r *postgresRepo) UpdateOfferTerms(ctx context.Context, o entities.Offer) error {
	query, args := r.qb.Update("offers").
		Set("price_cents", o.PriceCents).
		Set("message", nullString(o.Message)).
		Set("eta", nullTime(o.ETA)).
		Where(sq.Eq{"id": o.ID, "status": string(entities.OfferPending)}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrOfferNotPending
	}
	return nil
}
