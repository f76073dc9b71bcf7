package service_test

import (
	"math"
	"testing"

	"github.com/cargolink/freight-service/internal/entities"
	"github.com/cargolink/freight-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCommission(t *testing.T) {
	testCases := []struct {
		name           string
		priceCents     int64
		wantCommission int64
		wantNet        int64
		wantErr        error
	}{
		{
			name:           "whole amount",
			priceCents:     120_000,
			wantCommission: 1200,
			wantNet:        118_800,
		},
		{
			name:           "one cent commission",
			priceCents:     100,
			wantCommission: 1,
			wantNet:        99,
		},
		{
			name:           "half cent rounds up",
			priceCents:     50,
			wantCommission: 1,
			wantNet:        49,
		},
		{
			name:           "below half cent rounds down",
			priceCents:     49,
			wantCommission: 0,
			wantNet:        49,
		},
		{
			name:           "odd amount",
			priceCents:     33_333,
			wantCommission: 333,
			wantNet:        33_000,
		},
		{
			name:       "zero price",
			priceCents: 0,
			wantErr:    entities.ErrInvalidAmount,
		},
		{
			name:       "negative price",
			priceCents: -500,
			wantErr:    entities.ErrInvalidAmount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.CalculateCommission(tc.priceCents)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tc.priceCents, got.PriceCents)
			assert.Equal(t, service.CommissionRateBps, got.RateBps)
			assert.Equal(t, tc.wantCommission, got.CommissionCents)
			assert.Equal(t, tc.wantNet, got.CarrierNetCents)
		})
	}
}

func TestCalculateCommission_SplitsExactly(t *testing.T) {
	// The identity commission + net == price must hold for any positive amount.
	for _, priceCents := range []int64{1, 49, 50, 51, 99, 100, 12_345, 999_999, 1<<40 + 7} {
		got, err := service.CalculateCommission(priceCents)
		require.NoError(t, err)
		assert.Equal(t, priceCents, got.CommissionCents+got.CarrierNetCents)
	}
}

func TestCalculateCommission_Deterministic(t *testing.T) {
	first, err := service.CalculateCommission(73_211)
	require.NoError(t, err)
	second, err := service.CalculateCommission(73_211)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPriceToCents(t *testing.T) {
	testCases := []struct {
		name    string
		price   float64
		want    int64
		wantErr error
	}{
		{name: "whole", price: 1200, want: 120_000},
		{name: "fractional", price: 12.34, want: 1234},
		{name: "repeating binary fraction", price: 19.99, want: 1999},
		{name: "zero", price: 0, wantErr: entities.ErrInvalidAmount},
		{name: "negative", price: -5, wantErr: entities.ErrInvalidAmount},
		{name: "nan", price: math.NaN(), wantErr: entities.ErrInvalidAmount},
		{name: "positive infinity", price: math.Inf(1), wantErr: entities.ErrInvalidAmount},
		{name: "negative infinity", price: math.Inf(-1), wantErr: entities.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.PriceToCents(tc.price)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCentsToPrice(t *testing.T) {
	assert.Equal(t, 12.34, service.CentsToPrice(1234))
	assert.Equal(t, 0.01, service.CentsToPrice(1))
}
