package store

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// SeedFile is a YAML document whose top-level keys are resource names, each holding a list
// of records to preload into the fallback store:
//
//	events:
//	  - title: Easter Sunday Service
//	    date: "2025-04-20"
//	    isPublished: true
type SeedFile struct {
	sections map[string]any
}

func LoadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	sections := map[string]any{}
	if err := yaml.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &SeedFile{sections: sections}, nil
}

// SeedInto loads the section named after the backend into its fallback store.
func SeedInto[T any](f *SeedFile, b *Backend[T]) (int, error) {
	if f == nil {
		return 0, nil
	}
	section, ok := f.sections[b.Name()]
	if !ok {
		return 0, nil
	}
	raw, err := yaml.Marshal(section)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", b.Name(), err)
	}
	var items []T
	if err := yaml.Unmarshal(raw, &items); err != nil {
		return 0, fmt.Errorf("seed %s: %w", b.Name(), err)
	}
	b.Memory().Seed(items)
	return len(items), nil
}
