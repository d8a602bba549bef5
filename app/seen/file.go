package seen

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

var _ Backend = (*FileBackend)(nil)

// FileBackend stores the seen IDs as a JSON array of strings. Absence of the
// file is an empty start; malformed content is preserved in a .broken sidecar
// for diagnosis and also degrades to an empty start.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Load() ([]string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("No previous seen-IDs file, starting fresh", "path", b.path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read seen file: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		brokenPath := b.path + ".broken"
		if writeErr := os.WriteFile(brokenPath, data, 0644); writeErr == nil {
			slog.Warn("Seen file is corrupt, starting fresh", "path", b.path, "saved_as", brokenPath)
		} else {
			slog.Warn("Seen file is corrupt, starting fresh", "path", b.path, "error", err)
		}
		return nil, nil
	}

	return ids, nil
}

// Save writes atomically through a temporary file.
func (b *FileBackend) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seen IDs: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create seen-file directory: %w", err)
	}

	tmpPath := b.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp seen file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp seen file: %w", err)
	}

	return nil
}
