package database

import "time"

type Snapshot struct {
	ID           string             `db:"id"`
	SessionID    string             `db:"session_id"`
	Adjustments  map[string]float64 `db:"adjustments"`   // frozen copy at capture time, stored as JSON
	PreviewImage string             `db:"preview_image"` // optional media path, empty when absent
	Description  string             `db:"description"`
	Position     int                `db:"position"` // timeline order, gaps persist after deletion
	CreatedAt    time.Time          `db:"created_at"`
}
