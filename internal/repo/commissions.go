package repo

import (
	"context"
	"fmt"

	"github.com/cargolink/freight-service/internal/entities"
)

func (r *postgresRepo) InsertCommission(ctx context.Context, rec entities.CommissionRecord) error {
	query, args := r.qb.Insert("commission_records").
		Columns("offer_id", "price_cents", "rate_bps", "commission_cents", "carrier_net_cents").
		Values(rec.OfferID, rec.PriceCents, rec.RateBps, rec.CommissionCents, rec.CarrierNetCents).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert commission record: %w", err)
	}
	return nil
}
