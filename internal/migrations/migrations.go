// Package migrations owns the canonical schema. Migrations are plain Go
// functions applied in list order; schema_version is created by the first one.
package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Runner struct {
	db *sqlx.DB
}

func NewRunner(db *sqlx.DB) *Runner {
	return &Runner{db: db}
}

// Start satisfies the application starter contract.
func (r *Runner) Start(ctx context.Context) error {
	return r.Up(ctx)
}

// Up applies every migration in order.
func (r *Runner) Up(ctx context.Context) error {
	for i, m := range migrations {
		if err := m.Up(ctx, r.db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", i, m.Name, err)
		}
	}
	return nil
}

type migration struct {
	Name string
	Up   func(ctx context.Context, db *sqlx.DB) error
}

// Order matters.
var migrations = []migration{
	{Name: "create_users_and_carriers", Up: UpUsersAndCarriers},
	{Name: "create_shipments", Up: UpShipments},
	{Name: "create_offers", Up: UpOffers},
	{Name: "create_commission_records", Up: UpCommissionRecords},
	{Name: "create_notifications", Up: UpNotifications},
	{Name: "create_shipment_events", Up: UpShipmentEvents},
}
