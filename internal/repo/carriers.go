package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cargolink/freight-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

func (r *postgresRepo) GetCarrier(ctx context.Context, userID int64) (entities.Carrier, error) {
	query, args := r.qb.Select("user_id", "company_name", "carrier_code").
		From("carriers").
		Where(sq.Eq{"user_id": userID}).
		MustSql()

	var carrier Carrier
	err := r.getContext(ctx, &carrier, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Carrier{}, entities.ErrCarrierNotFound
	}
	if err != nil {
		return entities.Carrier{}, fmt.Errorf("failed to get carrier: %w", err)
	}
	return CarrierToEntity(carrier), nil
}

// SetCarrierCode binds a code to a carrier that has none yet. A code collision
// surfaces as entities.ErrCodeCollision; a carrier that got a code concurrently
// surfaces as zero rows affected, returned as sql.ErrNoRows for the caller to
// re-read.
func (r *postgresRepo) SetCarrierCode(ctx context.Context, userID int64, code string) error {
	query, args := r.qb.Update("carriers").
		Set("carrier_code", code).
		Where(sq.Eq{"user_id": userID}).
		Where("carrier_code IS NULL").
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return entities.ErrCodeCollision
	}
	if err != nil {
		return fmt.Errorf("failed to set carrier code: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
