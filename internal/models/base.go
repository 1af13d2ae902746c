package models

import (
	"time"

	"finpilot/internal/uuid"

	"cloud.google.com/go/civil"
	"gorm.io/gorm"
)

// Base contains common columns for all soft-deletable tables.
type Base struct {
	ID        string         `gorm:"size:36;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// DateOf reads the calendar date stored in t. The wall-clock fields are used
// as-is so a date written at midnight in one zone never shifts a day.
func DateOf(t time.Time) civil.Date {
	return civil.DateOf(t)
}

// TimeOf returns midnight UTC of d, the form in which dates are stored.
func TimeOf(d civil.Date) time.Time {
	return d.In(time.UTC)
}
