package handlers

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/cod-profit/internal/models"
	"github.com/diewo77/cod-profit/internal/store"
)

func setupTestDB(t *testing.T) *store.Store {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.CountrySettings{}, &models.Product{}, &models.Sale{}, &models.Expense{}, &models.ImportMapping{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db)
}

func seedCountry(t *testing.T, st *store.Store, code, currency string, rate, fee, pct float64) models.CountrySettings {
	t.Helper()
	c := models.CountrySettings{Code: code, Name: code, CurrencyCode: currency, ExchangeRateToUSD: rate, ServiceFee: fee, ServiceFeePercentage: pct}
	if err := st.SaveCountry(&c); err != nil {
		t.Fatalf("seed country %s: %v", code, err)
	}
	return c
}

func seedProduct(t *testing.T, st *store.Store, name string, production, shipping float64) models.Product {
	t.Helper()
	p := models.Product{Name: name, PriceProduction: production, PriceShipping: shipping}
	if err := st.AddProduct(&p); err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}
