package colfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader retrieves registry definitions.
type Loader interface {
	Load() (*RegistryData, error)
}

// LoaderFunc adapts a bare function to the Loader interface.
type LoaderFunc func() (*RegistryData, error)

func (fn LoaderFunc) Load() (*RegistryData, error) {
	return fn()
}

// FileLoader reads registry definitions from YAML or JSON files. Later paths
// override earlier ones per (locale, kind).
type FileLoader struct {
	paths []string
}

func NewFileLoader(paths ...string) *FileLoader {
	return &FileLoader{paths: append([]string(nil), paths...)}
}

func (l *FileLoader) Load() (*RegistryData, error) {
	if l == nil || len(l.paths) == 0 {
		return nil, errors.New("colfmt: no registry paths configured")
	}

	merged := &RegistryData{}
	for _, path := range l.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("colfmt: read %s: %w", path, err)
		}

		decoded, err := decodeRegistryFile(path, data)
		if err != nil {
			return nil, fmt.Errorf("colfmt: decode %s: %w", path, err)
		}
		if err := validateRegistryData(decoded); err != nil {
			return nil, fmt.Errorf("colfmt: %s: %w", path, err)
		}
		merged.Merge(decoded)
	}

	return merged, nil
}

func decodeRegistryFile(path string, data []byte) (*RegistryData, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		return decodeRegistryJSON(data)
	case ".yaml", ".yml":
		return decodeRegistryYAML(data)
	default:
		return nil, fmt.Errorf("unsupported extension %s", ext)
	}
}

func decodeRegistryJSON(data []byte) (*RegistryData, error) {
	var out RegistryData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func decodeRegistryYAML(data []byte) (*RegistryData, error) {
	var out RegistryData
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}
	return &out, nil
}

func validateRegistryData(data *RegistryData) error {
	if data == nil {
		return errors.New("empty registry definition")
	}
	for locale, kinds := range data.Locales {
		if strings.TrimSpace(locale) == "" {
			return errors.New("empty locale")
		}
		for kind, definition := range kinds {
			if strings.TrimSpace(kind) == "" {
				return fmt.Errorf("empty kind in %s", locale)
			}
			if _, err := definition.Spec(locale, kind); err != nil {
				return fmt.Errorf("%s/%s: %w", locale, kind, err)
			}
		}
	}
	return nil
}
