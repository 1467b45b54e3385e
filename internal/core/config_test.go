package core

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_Success(t *testing.T) {
	path := writeConfigFile(t, `
port: 9090
database:
  type: sqlite
  connectionString: test.db
cache:
  type: redis
  address: localhost:6379
mediaDir: /tmp/media
thumbnailWidth: 128
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if config.Port != 9090 {
		t.Errorf("expected port 9090, got %d", config.Port)
	}
	if config.Database.Type != "sqlite" {
		t.Errorf("expected database type sqlite, got %q", config.Database.Type)
	}
	if config.Database.ConnectionString != "test.db" {
		t.Errorf("expected connection string test.db, got %q", config.Database.ConnectionString)
	}
	if config.Cache.Type != "redis" || config.Cache.Address != "localhost:6379" {
		t.Errorf("unexpected cache config: %+v", config.Cache)
	}
	if config.MediaDir != "/tmp/media" {
		t.Errorf("expected media dir /tmp/media, got %q", config.MediaDir)
	}
	if config.ThumbnailWidth != 128 {
		t.Errorf("expected thumbnail width 128, got %d", config.ThumbnailWidth)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `{}`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if config.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", config.Port)
	}
	if config.Database.Type != "sqlite" {
		t.Errorf("expected default database type sqlite, got %q", config.Database.Type)
	}
	if config.Database.ConnectionString != "phototune.db" {
		t.Errorf("expected default connection string phototune.db, got %q", config.Database.ConnectionString)
	}
	if config.Cache.Type != "" {
		t.Errorf("expected cache disabled by default, got %q", config.Cache.Type)
	}
	if config.MediaDir != "media" {
		t.Errorf("expected default media dir, got %q", config.MediaDir)
	}
	if config.ThumbnailWidth != 256 {
		t.Errorf("expected default thumbnail width 256, got %d", config.ThumbnailWidth)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "port: [not a number")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected an error for invalid YAML")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "port: 70000"},
		{"redis without address", "cache:\n  type: redis"},
		{"negative thumbnail width", "thumbnailWidth: -1"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeConfigFile(t, test.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
