package club

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDir reads YAML club definitions from dir, one club per file. A missing
// or empty directory is not an error. Files override built-in entries with the
// same key and otherwise extend the catalog.
func LoadDir(dir string) ([]Club, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	yamlFiles, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)

	clubs := make([]Club, 0, len(files))
	for _, file := range files {
		c, err := loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}
		clubs = append(clubs, c)
		slog.Debug("Club definition loaded", "file", file, "key", c.Key)
	}

	return clubs, nil
}

func loadFile(path string) (Club, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Club{}, fmt.Errorf("failed to read file: %w", err)
	}

	var c Club
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Club{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if c.Key == "" {
		// Derive the key from the filename when the file omits it
		base := filepath.Base(path)
		c.Key = base[:len(base)-len(filepath.Ext(base))]
	}

	return c, nil
}

// Merge combines the built-in catalog with overrides: an override replaces
// the default with the same key, anything else is appended.
func Merge(defaults, overrides []Club) []Club {
	if len(overrides) == 0 {
		return defaults
	}

	byKey := make(map[string]int, len(defaults))
	merged := make([]Club, len(defaults))
	copy(merged, defaults)
	for i, c := range merged {
		byKey[c.Key] = i
	}

	for _, o := range overrides {
		if i, ok := byKey[o.Key]; ok {
			merged[i] = o
		} else {
			byKey[o.Key] = len(merged)
			merged = append(merged, o)
		}
	}

	return merged
}
