package models

import "time"

// User of the dashboard. Single-tenant: every record in the other tables
// belongs to whoever is logged in; there is no per-row ownership.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"unique;not null;index"`
	Password  string `gorm:"not null"` // bcrypt hash
	CreatedAt time.Time
	UpdatedAt time.Time
}
