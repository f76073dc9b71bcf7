// All Up functions live here; ordering is defined by the list in migrations.go.
package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// 1 — schema_version + users + carrier profiles
func UpUsersAndCarriers(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         BIGSERIAL PRIMARY KEY,
			name       TEXT NOT NULL,
			role       TEXT NOT NULL CHECK (role IN ('shipper', 'corporate_shipper', 'carrier', 'driver')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS carriers (
			user_id      BIGINT PRIMARY KEY REFERENCES users (id),
			company_name TEXT NOT NULL DEFAULT '',
			carrier_code TEXT UNIQUE
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO schema_version (version, name) VALUES (1, 'create_users_and_carriers')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 2 — shipments
func UpShipments(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS shipments (
			id                    BIGSERIAL PRIMARY KEY,
			tracking_code         TEXT NOT NULL UNIQUE,
			owner_id              BIGINT NOT NULL REFERENCES users (id),
			title                 TEXT NOT NULL,
			description           TEXT NOT NULL DEFAULT '',
			origin_address        TEXT NOT NULL DEFAULT '',
			origin_city           TEXT NOT NULL DEFAULT '',
			destination_address   TEXT NOT NULL DEFAULT '',
			destination_city      TEXT NOT NULL DEFAULT '',
			weight_kg             DOUBLE PRECISION NOT NULL DEFAULT 0,
			volume_m3             DOUBLE PRECISION NOT NULL DEFAULT 0,
			declared_value_cents  BIGINT NOT NULL DEFAULT 0,
			requested_price_cents BIGINT NOT NULL DEFAULT 0,
			priority              TEXT NOT NULL DEFAULT 'normal',
			vehicle_type          TEXT NOT NULL DEFAULT '',
			pickup_date           TIMESTAMPTZ,
			delivery_date         TIMESTAMPTZ,
			carrier_id            BIGINT REFERENCES users (id),
			driver_id             BIGINT REFERENCES users (id),
			status                TEXT NOT NULL DEFAULT 'draft' CHECK (status IN (
				'draft', 'waiting_for_offers', 'offer_accepted',
				'in_transit', 'delivered', 'completed', 'cancelled')),
			created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (status <> 'waiting_for_offers' OR (carrier_id IS NULL AND driver_id IS NULL))
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS shipments_owner_idx ON shipments (owner_id)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO schema_version (version, name) VALUES (2, 'create_shipments')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 3 — offers; the partial unique index is what makes createOffer's
// duplicate guard race-free.
func UpOffers(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS offers (
			id          BIGSERIAL PRIMARY KEY,
			shipment_id BIGINT NOT NULL REFERENCES shipments (id),
			carrier_id  BIGINT NOT NULL REFERENCES users (id),
			driver_id   BIGINT REFERENCES users (id),
			price_cents BIGINT NOT NULL CHECK (price_cents > 0),
			message     TEXT NOT NULL DEFAULT '',
			eta         TIMESTAMPTZ,
			status      TEXT NOT NULL DEFAULT 'pending' CHECK (status IN (
				'pending', 'accepted', 'rejected', 'withdrawn')),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS offers_one_pending_per_carrier
		ON offers (shipment_id, carrier_id) WHERE status = 'pending'
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS offers_one_accepted_per_shipment
		ON offers (shipment_id) WHERE status = 'accepted'
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS offers_shipment_idx ON offers (shipment_id)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO schema_version (version, name) VALUES (3, 'create_offers')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 4 — commission records, 1:1 with the winning offer
func UpCommissionRecords(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS commission_records (
			id                BIGSERIAL PRIMARY KEY,
			offer_id          BIGINT NOT NULL UNIQUE REFERENCES offers (id),
			price_cents       BIGINT NOT NULL,
			rate_bps          BIGINT NOT NULL,
			commission_cents  BIGINT NOT NULL,
			carrier_net_cents BIGINT NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (commission_cents + carrier_net_cents = price_cents)
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO schema_version (version, name) VALUES (4, 'create_commission_records')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 5 — notifications
func UpNotifications(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS notifications (
			id           BIGSERIAL PRIMARY KEY,
			recipient_id BIGINT NOT NULL REFERENCES users (id),
			title        TEXT NOT NULL,
			message      TEXT NOT NULL DEFAULT '',
			type         TEXT NOT NULL DEFAULT 'info' CHECK (type IN ('info', 'success', 'error')),
			is_read      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS notifications_recipient_idx
		ON notifications (recipient_id, created_at DESC)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO schema_version (version, name) VALUES (5, 'create_notifications')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 6 — shipment audit trail
func UpShipmentEvents(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS shipment_events (
			id          BIGSERIAL PRIMARY KEY,
			shipment_id BIGINT NOT NULL REFERENCES shipments (id),
			status      TEXT NOT NULL,
			actor_id    BIGINT NOT NULL,
			note        TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO schema_version (version, name) VALUES (6, 'create_shipment_events')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}
