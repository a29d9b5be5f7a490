package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diewo77/cod-profit/internal/models"
)

func TestCalculateServiceFee(t *testing.T) {
	countries := []models.CountrySettings{
		{Code: "MA", ServiceFee: 30, ServiceFeePercentage: 0},
		{Code: "GA", ServiceFee: 2000, ServiceFeePercentage: 10},
	}

	// Fixed-only fee ignores the sale total.
	assert.InDelta(t, 30.0, CalculateServiceFee(countries, "MA", 499), 1e-9)
	assert.InDelta(t, 30.0, CalculateServiceFee(countries, "MA", 10000), 1e-9)

	// Fixed + percentage of the total.
	assert.InDelta(t, 3000.0, CalculateServiceFee(countries, "GA", 10000), 1e-9)

	// No configuration for the country means no fee.
	assert.Zero(t, CalculateServiceFee(countries, "XX", 500))
	assert.Zero(t, CalculateServiceFee(nil, "MA", 500))
}

func TestCalculateServiceFeeDeterministic(t *testing.T) {
	countries := []models.CountrySettings{{Code: "GA", ServiceFee: 2000, ServiceFeePercentage: 10}}
	first := CalculateServiceFee(countries, "GA", 12345.67)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, CalculateServiceFee(countries, "GA", 12345.67))
	}
}
