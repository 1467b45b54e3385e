package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}

	// A single pooled connection serializes writes and keeps the
	// foreign_keys pragma in effect for every statement.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() (*sql.DB, error) {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		original_image TEXT NOT NULL,
		adjustments TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		adjustments TEXT NOT NULL,
		preview_image TEXT,
		description TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return nil, err
	}

	return s.db, nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteDatabase) CreateSession(ctx context.Context, originalImage string, adjustments map[string]float64) (*Session, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	encoded, err := encodeAdjustments(adjustments)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, original_image, adjustments, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, originalImage, encoded, formatTime(now), formatTime(now))
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:            id,
		OriginalImage: originalImage,
		Adjustments:   adjustments,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (s *SQLiteDatabase) GetSessionByID(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, original_image, adjustments, created_at, updated_at FROM sessions WHERE id = ?", id)

	var session Session
	var encoded, createdAt, updatedAt string
	if err := row.Scan(&session.ID, &session.OriginalImage, &encoded, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	adjustments, err := decodeAdjustments(encoded)
	if err != nil {
		return nil, err
	}
	session.Adjustments = adjustments
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SQLiteDatabase) UpdateSessionAdjustments(ctx context.Context, id string, adjustments map[string]float64) error {
	encoded, err := encodeAdjustments(adjustments)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE sessions SET adjustments = ?, updated_at = ? WHERE id = ?",
		encoded, formatTime(time.Now().UTC()), id)
	return err
}

func (s *SQLiteDatabase) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	return err
}

func (s *SQLiteDatabase) CreateSnapshot(ctx context.Context, sessionID, description string, adjustments map[string]float64, previewImage string) (*Snapshot, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	encoded, err := encodeAdjustments(adjustments)
	if err != nil {
		return nil, err
	}

	// Position assignment and insert happen in one transaction so two
	// concurrent creates cannot end up with the same position.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	var position int
	row := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM snapshots WHERE session_id = ?", sessionID)
	if err := row.Scan(&position); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO snapshots (id, session_id, adjustments, preview_image, description, position, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, sessionID, encoded, nullableString(previewImage), description, position, formatTime(now))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Snapshot{
		ID:           id,
		SessionID:    sessionID,
		Adjustments:  adjustments,
		PreviewImage: previewImage,
		Description:  description,
		Position:     position,
		CreatedAt:    now,
	}, nil
}

func (s *SQLiteDatabase) GetSnapshotByID(ctx context.Context, sessionID, snapshotID string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, session_id, adjustments, preview_image, description, position, created_at FROM snapshots WHERE id = ? AND session_id = ?",
		snapshotID, sessionID)

	snapshot, err := scanSnapshot(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return snapshot, err
}

func (s *SQLiteDatabase) ListSnapshots(ctx context.Context, sessionID string) ([]*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session_id, adjustments, preview_image, description, position, created_at FROM snapshots WHERE session_id = ? ORDER BY position ASC, created_at ASC",
		sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var snapshots []*Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

func (s *SQLiteDatabase) DeleteSnapshot(ctx context.Context, sessionID, snapshotID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM snapshots WHERE id = ? AND session_id = ?", snapshotID, sessionID)
	return err
}

func scanSnapshot(scan func(dest ...any) error) (*Snapshot, error) {
	var snapshot Snapshot
	var encoded, createdAt string
	var preview sql.NullString
	if err := scan(&snapshot.ID, &snapshot.SessionID, &encoded, &preview, &snapshot.Description, &snapshot.Position, &createdAt); err != nil {
		return nil, err
	}

	adjustments, err := decodeAdjustments(encoded)
	if err != nil {
		return nil, err
	}
	snapshot.Adjustments = adjustments
	snapshot.PreviewImage = preview.String
	if snapshot.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func encodeAdjustments(adjustments map[string]float64) (string, error) {
	if adjustments == nil {
		adjustments = map[string]float64{}
	}
	data, err := json.Marshal(adjustments)
	if err != nil {
		return "", fmt.Errorf("failed to encode adjustments: %w", err)
	}
	return string(data), nil
}

func decodeAdjustments(encoded string) (map[string]float64, error) {
	adjustments := map[string]float64{}
	if encoded == "" {
		return adjustments, nil
	}
	if err := json.Unmarshal([]byte(encoded), &adjustments); err != nil {
		return nil, fmt.Errorf("failed to decode adjustments: %w", err)
	}
	return adjustments, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
