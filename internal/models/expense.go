package models

import "time"

// Expense types. The type decides which optional fields carry meaning:
// Platform for ADS/TEST, Name for FIXED.
const (
	ExpenseAds   = "ADS"
	ExpenseFixed = "FIXED"
	ExpenseTest  = "TEST"
)

// ValidExpenseType reports whether t is a known expense type.
func ValidExpenseType(t string) bool {
	return t == ExpenseAds || t == ExpenseFixed || t == ExpenseTest
}

// Expense is an advertising, fixed, or test charge. Amount is always in USD.
type Expense struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Date      string    `gorm:"size:10;not null;index" json:"date"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Type      string    `gorm:"size:8;not null;index" json:"type"`
	Platform  string    `json:"platform,omitempty"`
	Name      string    `json:"name,omitempty"`
	ProductID string    `gorm:"size:36;index" json:"product_id,omitempty"`
	Country   string    `gorm:"size:8" json:"country"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
