package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/cargolink/freight-service/internal/entities"
	"github.com/cargolink/freight-service/pkg/trm"
)

type CarrierRepo interface {
	GetCarrier(ctx context.Context, userID int64) (entities.Carrier, error)
	SetCarrierCode(ctx context.Context, userID int64, code string) error
}

const codeAttempts = 20

type CodeAllocator struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      CarrierRepo

	// overridable for deterministic tests
	genCode func() string
}

func NewCodeAllocator(logger *slog.Logger, txManager trm.Manager, repo CarrierRepo) *CodeAllocator {
	return &CodeAllocator{
		logger:    logger.With(slog.String("service", "allocator")),
		txManager: txManager,
		repo:      repo,
		genCode:   func() string { return fmt.Sprintf("CR-%06d", rand.Intn(1_000_000)) },
	}
}

// Allocate binds a unique carrier code to the account. Idempotent: an already
// coded carrier gets its existing code back. Each attempt is one conditional
// write arbitrated by the unique constraint; a collision burns the attempt and
// a fresh candidate is drawn. Exhausting the attempt budget is surfaced, never
// swallowed.
func (a *CodeAllocator) Allocate(ctx context.Context, carrierUserID int64) (string, error) {
	carrier, err := a.repo.GetCarrier(ctx, carrierUserID)
	if err != nil {
		return "", err
	}
	if carrier.Code != "" {
		return carrier.Code, nil
	}

	for attempt := 0; attempt < codeAttempts; attempt++ {
		candidate := a.genCode()

		err := a.txManager.Do(ctx, func(ctx context.Context) error {
			return a.repo.SetCarrierCode(ctx, carrierUserID, candidate)
		})
		if err == nil {
			a.logger.InfoContext(ctx, "carrier code allocated",
				slog.Int64("carrier_id", carrierUserID),
				slog.String("code", candidate),
				slog.Int("attempt", attempt+1),
			)
			return candidate, nil
		}
		if errors.Is(err, entities.ErrCodeCollision) {
			continue
		}
		if errors.Is(err, sql.ErrNoRows) {
			// A concurrent allocation won; return what it assigned.
			carrier, err := a.repo.GetCarrier(ctx, carrierUserID)
			if err != nil {
				return "", err
			}
			return carrier.Code, nil
		}
		return "", err
	}

	return "", entities.ErrCodeAllocationExhausted
}
