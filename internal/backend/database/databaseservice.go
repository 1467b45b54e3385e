package database

import (
	"context"
	"database/sql"
)

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	CreateSession(ctx context.Context, originalImage string, adjustments map[string]float64) (*Session, error)
	// GetSessionByID returns (nil, nil) when no session with the given ID exists.
	GetSessionByID(ctx context.Context, id string) (*Session, error)
	// UpdateSessionAdjustments replaces the stored sparse adjustment map and
	// refreshes updated_at.
	UpdateSessionAdjustments(ctx context.Context, id string, adjustments map[string]float64) error
	// DeleteSession removes the session row; snapshots cascade.
	DeleteSession(ctx context.Context, id string) error

	// CreateSnapshot assigns position = max(position)+1 within the session
	// (0 for the first snapshot) inside a single transaction.
	CreateSnapshot(ctx context.Context, sessionID, description string, adjustments map[string]float64, previewImage string) (*Snapshot, error)
	// GetSnapshotByID returns (nil, nil) when the snapshot does not exist or
	// does not belong to the given session.
	GetSnapshotByID(ctx context.Context, sessionID, snapshotID string) (*Snapshot, error)
	// ListSnapshots returns the session's snapshots ordered by
	// (position, created_at) ascending.
	ListSnapshots(ctx context.Context, sessionID string) ([]*Snapshot, error)
	// DeleteSnapshot removes one snapshot scoped to its owning session.
	// Remaining positions are not renumbered.
	DeleteSnapshot(ctx context.Context, sessionID, snapshotID string) error
}
