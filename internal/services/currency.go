package services

import "github.com/diewo77/cod-profit/internal/models"

// CurrencyUSD is the display currency selector for USD mode. Any other
// display value means "the primary country's currency".
const CurrencyUSD = "USD"

// Converter resolves exchange rates against a snapshot of country settings.
// Sale amounts are stored in each country's local currency, product and
// expense costs in USD; the converter maps both into the chosen display
// currency. A rate of 0 is a valid output (unknown country, or no primary
// country configured) and makes the amount contribute nothing — callers
// multiply, never divide.
type Converter struct {
	Countries []models.CountrySettings
}

// NewConverter builds a converter over the given country settings.
func NewConverter(countries []models.CountrySettings) Converter {
	return Converter{Countries: countries}
}

func (c Converter) find(code string) *models.CountrySettings {
	for i := range c.Countries {
		if c.Countries[i].Code == code {
			return &c.Countries[i]
		}
	}
	return nil
}

// Primary returns the primary country settings, or nil when none is configured.
func (c Converter) Primary() *models.CountrySettings {
	for i := range c.Countries {
		if c.Countries[i].IsPrimary {
			return &c.Countries[i]
		}
	}
	return nil
}

// DisplayCurrency maps a requested currency selector onto a valid one:
// USD stays USD, anything else resolves to the primary country's currency
// (falling back to USD when no primary exists).
func (c Converter) DisplayCurrency(requested string) string {
	if requested == CurrencyUSD {
		return CurrencyUSD
	}
	if p := c.Primary(); p != nil {
		return p.CurrencyCode
	}
	return CurrencyUSD
}

// LocalToDisplayRate returns the factor converting an amount in countryCode's
// local currency into the display currency. Unknown country yields 0.
func (c Converter) LocalToDisplayRate(countryCode, displayCurrency string) float64 {
	country := c.find(countryCode)
	if country == nil {
		return 0
	}
	rateLocalToUSD := country.ExchangeRateToUSD
	if displayCurrency == CurrencyUSD {
		return rateLocalToUSD
	}
	p := c.Primary()
	if p == nil || p.ExchangeRateToUSD <= 0 {
		// No usable pivot; treat as unconvertible rather than guessing a rate.
		return 0
	}
	return rateLocalToUSD / p.ExchangeRateToUSD
}

// USDToDisplayRate returns the factor converting a USD amount into the
// display currency.
func (c Converter) USDToDisplayRate(displayCurrency string) float64 {
	if displayCurrency == CurrencyUSD {
		return 1
	}
	p := c.Primary()
	if p == nil || p.ExchangeRateToUSD <= 0 {
		return 0
	}
	return 1 / p.ExchangeRateToUSD
}
