// Package category loads and, when absent, regenerates the mapping from
// recording id to a human-readable scam category label.
package category

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Mapping is filename (recording id) -> category name.
type Mapping map[string]string

// Load reads a YAML mapping file at path. A missing file is not an error;
// callers that want a populated mapping should fall back to Generate.
func Load(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Mapping{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("category: read %s: %w", path, err)
	}

	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("category: parse %s: %w", path, err)
	}
	return m, nil
}

// Save writes m to path as YAML.
func Save(path string, m Mapping) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("category: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("category: write %s: %w", path, err)
	}
	return nil
}

// Generate walks root and assigns every audio file's immediate parent
// directory name as its category, used when no mapping file exists yet.
func Generate(root string, isAudioFile func(string) bool, exclude map[string]bool) (Mapping, error) {
	m := Mapping{}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if exclude[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !isAudioFile(path) {
			return nil
		}

		name := filepath.Base(path)
		m[name] = filepath.Base(filepath.Dir(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("category: generate from %s: %w", root, err)
	}

	return m, nil
}

// CategoryOf returns the category for recordingID, or the empty string if
// unknown.
func (m Mapping) CategoryOf(recordingID string) string {
	return m[recordingID]
}
