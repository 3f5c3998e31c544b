package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overlayFile is the on-disk shape of a catalog overlay.
type overlayFile struct {
	Workflows []Spec `yaml:"workflows"`
}

// LoadOverlay parses workflow specs from a YAML file. Each spec must pass
// the same structural validation as builtin entries.
func LoadOverlay(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog overlay: %w", err)
	}
	var file overlayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog overlay: %w", err)
	}
	for _, spec := range file.Workflows {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog overlay entry: %w", err)
		}
	}
	return file.Workflows, nil
}

// WithOverlay returns a new catalog with the overlay specs applied on top
// of the receiver. An overlay spec whose ID matches an existing entry
// replaces it in place, keeping the original declaration position; new
// IDs are appended after the existing order. The receiver is not modified.
func (c *Catalog) WithOverlay(specs []Spec) (*Catalog, error) {
	merged := make([]Spec, 0, len(c.order)+len(specs))
	replaced := make(map[string]Spec, len(specs))
	var appended []Spec
	for _, spec := range specs {
		if _, exists := c.specs[spec.ID]; exists {
			replaced[spec.ID] = spec
		} else {
			appended = append(appended, spec)
		}
	}
	for _, id := range c.order {
		if spec, ok := replaced[id]; ok {
			merged = append(merged, spec)
			continue
		}
		merged = append(merged, c.specs[id])
	}
	merged = append(merged, appended...)
	return NewCatalog(merged...)
}
