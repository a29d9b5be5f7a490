package models

import "time"

// CountrySettings holds per-country currency and fulfillment fee rules.
// ExchangeRateToUSD means: 1 unit of local currency = that many USD.
// Exactly one entry is primary; its currency is the non-USD display currency
// and its rate is the pivot for all Local<->Display and USD<->Display
// conversions.
type CountrySettings struct {
	ID                string  `gorm:"primaryKey;size:36" json:"id"`
	Code              string  `gorm:"size:8;not null;uniqueIndex" json:"code"`
	Name              string  `gorm:"not null" json:"name"`
	CurrencyCode      string  `gorm:"size:8;not null" json:"currency_code"`
	ExchangeRateToUSD float64 `gorm:"not null" json:"exchange_rate_to_usd"`
	// ServiceFee is the fixed part, in local currency; ServiceFeePercentage
	// (0-100) applies to the sale total.
	ServiceFee           float64   `json:"service_fee"`
	ServiceFeePercentage float64   `json:"service_fee_percentage"`
	IsPrimary            bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt            time.Time `json:"-"`
	UpdatedAt            time.Time `json:"-"`
}
