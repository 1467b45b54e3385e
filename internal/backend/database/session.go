package database

import "time"

type Session struct {
	ID            string             `db:"id"`
	OriginalImage string             `db:"original_image"` // media path, immutable after creation
	Adjustments   map[string]float64 `db:"adjustments"`    // sparse overrides, stored as JSON
	CreatedAt     time.Time          `db:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at"`
}
