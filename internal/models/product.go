package models

import "time"

// Product is a stocked item. Costs are recorded in USD; Countries lists the
// country codes the product is sellable in.
type Product struct {
	ID              string   `gorm:"primaryKey;size:36" json:"id"`
	Name            string   `gorm:"not null;index" json:"name"`
	PriceProduction float64  `gorm:"not null" json:"price_production"`
	PriceShipping   float64  `gorm:"not null" json:"price_shipping"`
	Countries       []string `gorm:"serializer:json" json:"countries"`
	Note            string   `json:"note,omitempty"`
	// Image is an opaque reference (data URL or storage key); never interpreted here.
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// UnitCost is production + shipping, in USD.
func (p Product) UnitCost() float64 { return p.PriceProduction + p.PriceShipping }
