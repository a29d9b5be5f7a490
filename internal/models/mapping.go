package models

import "time"

// ImportMapping persists a spreadsheet field mapping (field name -> source
// column identifier) across sessions, one document per import scope
// (e.g. "sales_import"). The document is opaque JSON.
type ImportMapping struct {
	ID        uint   `gorm:"primaryKey"`
	Scope     string `gorm:"size:40;not null;uniqueIndex"`
	Document  string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
