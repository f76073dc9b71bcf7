package service

import (
	"math"

	"github.com/cargolink/freight-service/internal/entities"
)

// CommissionRateBps is the platform's fixed cut, 1% expressed in basis points.
// It is deliberately not configurable per call: identical input must yield an
// identical breakdown forever, that is what makes the audit trail reproducible.
const CommissionRateBps int64 = 100

// CalculateCommission splits an agreed price into the platform commission and
// the carrier net payout. Pure: no side effects, safe to call repeatedly.
// Commission is rounded half-up to a cent; the net is the remainder, so
// CommissionCents + CarrierNetCents == PriceCents holds exactly.
func CalculateCommission(priceCents int64) (entities.CommissionBreakdown, error) {
	if priceCents <= 0 {
		return entities.CommissionBreakdown{}, entities.ErrInvalidAmount
	}

	commission := (priceCents*CommissionRateBps + 5000) / 10000

	return entities.CommissionBreakdown{
		PriceCents:      priceCents,
		RateBps:         CommissionRateBps,
		CommissionCents: commission,
		CarrierNetCents: priceCents - commission,
	}, nil
}

// PriceToCents converts a decimal price from the transport layer into cents,
// rejecting non-positive and non-finite values before any transaction opens.
func PriceToCents(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, entities.ErrInvalidAmount
	}
	return int64(math.Round(price * 100)), nil
}

// CentsToPrice renders cents back as a decimal amount for responses.
func CentsToPrice(cents int64) float64 {
	return float64(cents) / 100
}
