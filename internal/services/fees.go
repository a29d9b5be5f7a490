package services

import "github.com/diewo77/cod-profit/internal/models"

// CalculateServiceFee computes the delivery/fulfillment fee for a sale in the
// country's local currency: fixed fee + percentage of the sale total.
// Unknown country means no fee configuration, so 0. Pure function of its
// inputs; callers recompute it on every create/update instead of trusting a
// stored value.
func CalculateServiceFee(countries []models.CountrySettings, countryCode string, totalPrice float64) float64 {
	var fixed, pct float64
	for i := range countries {
		if countries[i].Code == countryCode {
			fixed = countries[i].ServiceFee
			pct = countries[i].ServiceFeePercentage
			break
		}
	}
	return fixed + totalPrice*pct/100
}
