package models

import "time"

// Order statuses. Stored as plain strings to keep imports forgiving.
const (
	StatusProcessed = "PROCESSED"
	StatusDelivered = "DELIVERED"
	StatusPaid      = "PAID"
	StatusReturned  = "RETURNED"
	StatusCanceled  = "CANCELED"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusProcessed, StatusDelivered, StatusPaid, StatusReturned, StatusCanceled:
		return true
	}
	return false
}

// Sale is a cash-on-delivery order. TotalPrice and DeliveryPrice are in the
// local currency of Country; DeliveryPrice is the computed service fee and is
// recomputed from the country settings on every save.
type Sale struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Date          string    `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	ProductID     string    `gorm:"size:36;index" json:"product_id"`
	Quantity      int       `gorm:"not null;default:1" json:"quantity"`
	TotalPrice    float64   `gorm:"not null" json:"total_price"`
	DeliveryPrice float64   `json:"delivery_price"`
	Status        string    `gorm:"size:16;not null" json:"status"`
	Country       string    `gorm:"size:8;not null;index" json:"country"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}
