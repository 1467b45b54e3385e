package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	uploadsDir   = "uploads"
	snapshotsDir = "snapshots"
)

// MediaStore persists original uploads and snapshot previews under a single
// media root. Originals are written once and never overwritten; edits exist
// only as adjustment parameters.
type MediaStore struct {
	root string
}

func NewMediaStore(root string) (*MediaStore, error) {
	for _, dir := range []string{uploadsDir, snapshotsDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory %s: %w", dir, err)
		}
	}
	return &MediaStore{root: root}, nil
}

// SaveOriginal stores an uploaded image under uploads/<uuid>.<ext> and
// returns the relative media path. The extension is taken from the uploaded
// filename; the random name avoids collisions and enumeration.
func (m *MediaStore) SaveOriginal(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	relative := filepath.ToSlash(filepath.Join(uploadsDir, uuid.NewString()+ext))
	if err := m.write(relative, data); err != nil {
		return "", err
	}
	return relative, nil
}

// SavePreview stores a pre-rendered snapshot thumbnail under
// snapshots/<uuid>.jpg and returns the relative media path.
func (m *MediaStore) SavePreview(data []byte) (string, error) {
	relative := filepath.ToSlash(filepath.Join(snapshotsDir, uuid.NewString()+".jpg"))
	if err := m.write(relative, data); err != nil {
		return "", err
	}
	return relative, nil
}

// Read returns the bytes stored at a relative media path.
func (m *MediaStore) Read(relative string) ([]byte, error) {
	absolute, err := m.resolve(relative)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(absolute)
}

// Delete removes a stored file. Missing files are not an error; delete is
// idempotent.
func (m *MediaStore) Delete(relative string) error {
	if relative == "" {
		return nil
	}
	absolute, err := m.resolve(relative)
	if err != nil {
		return err
	}
	if err := os.Remove(absolute); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Root returns the media root directory.
func (m *MediaStore) Root() string {
	return m.root
}

func (m *MediaStore) write(relative string, data []byte) error {
	absolute, err := m.resolve(relative)
	if err != nil {
		return err
	}
	if err := os.WriteFile(absolute, data, 0o644); err != nil {
		return fmt.Errorf("failed to write media file %s: %w", relative, err)
	}
	return nil
}

// resolve joins a relative media path to the root and rejects paths that
// would escape it.
func (m *MediaStore) resolve(relative string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relative))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid media path: %s", relative)
	}
	return filepath.Join(m.root, cleaned), nil
}
