package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jo-hoe/phototune/internal/backend/adjustments"
	"github.com/jo-hoe/phototune/internal/backend/cache"
	"github.com/jo-hoe/phototune/internal/backend/database"
	"github.com/jo-hoe/phototune/internal/backend/imageprocessing"
	"github.com/jo-hoe/phototune/internal/backend/storage"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrInvalidInput wraps client-caused validation failures so handlers
	// can map them to a 400 response.
	ErrInvalidInput = errors.New("invalid input")
)

// renderedTTL bounds how long a rendered image stays downloadable before the
// server falls back to rendering again from the session state.
const renderedTTL = time.Hour

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	renderedCache   cache.RenderedCache
	mediaStore      *storage.MediaStore
}

func NewCoreService(config *ServiceConfig) *CoreService {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		slog.Error("failed to initialize database service", "error", err)
		panic(err)
	}

	renderedCache, err := cache.NewCache(config.Cache.Type, config.Cache.Address)
	if err != nil {
		slog.Error("failed to initialize rendered cache", "error", err)
		panic(err)
	}

	mediaStore, err := storage.NewMediaStore(config.MediaDir)
	if err != nil {
		slog.Error("failed to initialize media store", "error", err)
		panic(err)
	}

	return &CoreService{
		config:          config,
		databaseService: databaseService,
		renderedCache:   renderedCache,
		mediaStore:      mediaStore,
	}
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

func (service *CoreService) Close() error {
	if err := service.renderedCache.Close(); err != nil {
		slog.Error("failed to close rendered cache", "error", err)
	}
	return service.databaseService.Close()
}

// MediaRoot returns the directory originals and previews are served from.
func (service *CoreService) MediaRoot() string {
	return service.mediaStore.Root()
}

// CreateSession persists an uploaded original and creates a session with an
// empty adjustment set (all defaults).
func (service *CoreService) CreateSession(ctx context.Context, filename string, imageData []byte) (*database.Session, error) {
	mediaPath, err := service.mediaStore.SaveOriginal(filename, imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to store original image: %w", err)
	}

	session, err := service.databaseService.CreateSession(ctx, mediaPath, map[string]float64{})
	if err != nil {
		// Don't leave an orphaned file behind when the row insert fails.
		if cleanupErr := service.mediaStore.Delete(mediaPath); cleanupErr != nil {
			slog.Error("failed to clean up original after session create failure",
				"media_path", mediaPath, "error", cleanupErr)
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession loads one session or reports ErrSessionNotFound.
func (service *CoreService) GetSession(ctx context.Context, sessionID string) (*database.Session, error) {
	session, err := service.databaseService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetAdjustments returns the session's fully defaulted adjustment map.
func (service *CoreService) GetAdjustments(ctx context.Context, sessionID string) (map[string]float64, error) {
	session, err := service.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return adjustments.Merge(session.Adjustments), nil
}

// UpdateAdjustments merges a partial adjustment map into the session.
// Validation is total: one bad key or value applies nothing.
func (service *CoreService) UpdateAdjustments(ctx context.Context, sessionID string, partial map[string]float64) (map[string]float64, error) {
	session, err := service.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := validateAdjustments(partial); err != nil {
		return nil, err
	}

	stored := adjustments.Copy(session.Adjustments)
	for key, value := range partial {
		stored[key] = value
	}
	if err := service.databaseService.UpdateSessionAdjustments(ctx, sessionID, stored); err != nil {
		return nil, fmt.Errorf("failed to update adjustments: %w", err)
	}
	service.invalidateRendered(ctx, sessionID)
	return adjustments.Merge(stored), nil
}

// ResetAdjustments clears all stored overrides and returns the defaults.
func (service *CoreService) ResetAdjustments(ctx context.Context, sessionID string) (map[string]float64, error) {
	if _, err := service.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := service.databaseService.UpdateSessionAdjustments(ctx, sessionID, map[string]float64{}); err != nil {
		return nil, fmt.Errorf("failed to reset adjustments: %w", err)
	}
	service.invalidateRendered(ctx, sessionID)
	return adjustments.Defaults(), nil
}

// DeleteSession removes a session, its snapshots (cascade), its media files
// and any cached render.
func (service *CoreService) DeleteSession(ctx context.Context, sessionID string) error {
	session, err := service.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	snapshots, err := service.databaseService.ListSnapshots(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to list snapshots for delete: %w", err)
	}

	if err := service.databaseService.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	for _, snapshot := range snapshots {
		if err := service.mediaStore.Delete(snapshot.PreviewImage); err != nil {
			slog.Error("failed to delete snapshot preview", "snapshot_id", snapshot.ID, "error", err)
		}
	}
	if err := service.mediaStore.Delete(session.OriginalImage); err != nil {
		slog.Error("failed to delete original image", "session_id", sessionID, "error", err)
	}
	if err := service.renderedCache.Delete(ctx, sessionID); err != nil {
		slog.Error("failed to drop cached render", "session_id", sessionID, "error", err)
	}
	return nil
}

// ListSnapshots returns the session's timeline ordered by (position, created_at).
func (service *CoreService) ListSnapshots(ctx context.Context, sessionID string) (*database.Session, []*database.Snapshot, error) {
	session, err := service.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	snapshots, err := service.databaseService.ListSnapshots(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return session, snapshots, nil
}

// CreateSnapshot captures adjustment state onto the timeline. A nil
// adjustment map captures the session's current defaulted state. The stored
// map is an independent copy; later session edits cannot alter it.
func (service *CoreService) CreateSnapshot(ctx context.Context, sessionID, description string, explicit map[string]float64) (*database.Snapshot, error) {
	session, err := service.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var captured map[string]float64
	if explicit == nil {
		captured = adjustments.Merge(session.Adjustments)
	} else {
		// Snapshots can be loaded back onto the session, so they must obey
		// the same key and range rules as live updates.
		if err := validateAdjustments(explicit); err != nil {
			return nil, err
		}
		captured = adjustments.Copy(explicit)
	}

	previewPath := service.generatePreview(session, captured)

	snapshot, err := service.databaseService.CreateSnapshot(ctx, sessionID, description, captured, previewPath)
	if err != nil {
		if cleanupErr := service.mediaStore.Delete(previewPath); cleanupErr != nil {
			slog.Error("failed to clean up preview after snapshot create failure", "error", cleanupErr)
		}
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}
	return snapshot, nil
}

// LoadSnapshot overwrites the session's live adjustments with an independent
// copy of the snapshot's stored map.
func (service *CoreService) LoadSnapshot(ctx context.Context, sessionID, snapshotID string) (map[string]float64, error) {
	if _, err := service.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	snapshot, err := service.getSnapshot(ctx, sessionID, snapshotID)
	if err != nil {
		return nil, err
	}

	loaded := adjustments.Copy(snapshot.Adjustments)
	if err := service.databaseService.UpdateSessionAdjustments(ctx, sessionID, loaded); err != nil {
		return nil, fmt.Errorf("failed to load snapshot onto session: %w", err)
	}
	service.invalidateRendered(ctx, sessionID)
	return adjustments.Merge(loaded), nil
}

// DeleteSnapshot removes one snapshot permanently. Remaining timeline
// positions keep their values; gaps are expected.
func (service *CoreService) DeleteSnapshot(ctx context.Context, sessionID, snapshotID string) error {
	if _, err := service.GetSession(ctx, sessionID); err != nil {
		return err
	}

	snapshot, err := service.getSnapshot(ctx, sessionID, snapshotID)
	if err != nil {
		return err
	}

	if err := service.databaseService.DeleteSnapshot(ctx, sessionID, snapshotID); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if err := service.mediaStore.Delete(snapshot.PreviewImage); err != nil {
		slog.Error("failed to delete snapshot preview", "snapshot_id", snapshotID, "error", err)
	}
	return nil
}

// RenderSession applies the session's current adjustments server-side and
// caches the resulting JPEG for download.
func (service *CoreService) RenderSession(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := service.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	original, err := service.mediaStore.Read(session.OriginalImage)
	if err != nil {
		return nil, fmt.Errorf("failed to read original image: %w", err)
	}

	rendered, err := imageprocessing.Render(original, adjustments.Merge(session.Adjustments))
	if err != nil {
		return nil, fmt.Errorf("failed to render image: %w", err)
	}

	if err := service.renderedCache.Set(ctx, sessionID, rendered, renderedTTL); err != nil {
		slog.Error("failed to cache rendered image", "session_id", sessionID, "error", err)
	}
	return rendered, nil
}

// StoreRendered accepts a client-rendered image for later download.
func (service *CoreService) StoreRendered(ctx context.Context, sessionID string, imageData []byte) error {
	if _, err := service.GetSession(ctx, sessionID); err != nil {
		return err
	}
	if err := service.renderedCache.Set(ctx, sessionID, imageData, renderedTTL); err != nil {
		return fmt.Errorf("failed to store rendered image: %w", err)
	}
	return nil
}

// DownloadImage returns the processed image for a session: the cached
// rendered bytes when present, otherwise a fresh server-side render of the
// current adjustments.
func (service *CoreService) DownloadImage(ctx context.Context, sessionID string) ([]byte, error) {
	if _, err := service.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	cached, err := service.renderedCache.Get(ctx, sessionID)
	if err != nil {
		slog.Error("failed to read rendered cache, falling back to render", "session_id", sessionID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}
	return service.RenderSession(ctx, sessionID)
}

// ImageInfo extracts metadata from the original image without mutating it.
func (service *CoreService) ImageInfo(ctx context.Context, sessionID string) (*imageprocessing.Metadata, error) {
	session, err := service.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	original, err := service.mediaStore.Read(session.OriginalImage)
	if err != nil {
		return nil, fmt.Errorf("failed to read original image: %w", err)
	}

	meta, err := imageprocessing.ReadMetadata(original)
	if err != nil {
		return nil, fmt.Errorf("failed to read image metadata: %w", err)
	}
	return meta, nil
}

// invalidateRendered drops the cached render after any adjustment mutation
// so download never serves bytes from superseded parameters. Cache errors
// are logged; the mutation itself already succeeded.
func (service *CoreService) invalidateRendered(ctx context.Context, sessionID string) {
	if err := service.renderedCache.Delete(ctx, sessionID); err != nil {
		slog.Error("failed to invalidate cached render", "session_id", sessionID, "error", err)
	}
}

// getSnapshot loads one snapshot scoped to its owning session, reporting
// ErrSnapshotNotFound both for unknown IDs and for snapshots owned by a
// different session.
func (service *CoreService) getSnapshot(ctx context.Context, sessionID, snapshotID string) (*database.Snapshot, error) {
	snapshot, err := service.databaseService.GetSnapshotByID(ctx, sessionID, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if snapshot == nil {
		return nil, ErrSnapshotNotFound
	}
	return snapshot, nil
}

// generatePreview renders a small thumbnail of the captured adjustments so
// the timeline can display snapshots without reprocessing. Preview failures
// are logged and tolerated; the field is optional.
func (service *CoreService) generatePreview(session *database.Session, captured map[string]float64) string {
	original, err := service.mediaStore.Read(session.OriginalImage)
	if err != nil {
		slog.Warn("skipping snapshot preview, original unreadable", "session_id", session.ID, "error", err)
		return ""
	}

	scale, err := imageprocessing.DefaultRegistry.Create("scale", map[string]any{"width": service.config.ThumbnailWidth})
	if err != nil {
		slog.Warn("skipping snapshot preview, scale command unavailable", "error", err)
		return ""
	}
	pipeline, err := imageprocessing.Pipeline(adjustments.Merge(captured))
	if err != nil {
		slog.Warn("skipping snapshot preview, pipeline build failed", "error", err)
		return ""
	}

	// Scale first so the adjustments run on thumbnail-sized data.
	commands := append([]imageprocessing.Command{scale}, pipeline...)
	preview, err := imageprocessing.NewCommandInvoker(commands).Execute(original)
	if err != nil {
		slog.Warn("skipping snapshot preview, render failed", "session_id", session.ID, "error", err)
		return ""
	}

	previewPath, err := service.mediaStore.SavePreview(preview)
	if err != nil {
		slog.Warn("skipping snapshot preview, write failed", "session_id", session.ID, "error", err)
		return ""
	}
	return previewPath
}

func validateAdjustments(partial map[string]float64) error {
	if err := adjustments.ValidateKeys(partial); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := adjustments.ValidateRanges(partial); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	return nil
}
