package config

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/BurntSushi/toml"
)

//go:embed registries.toml
var defaultRegistries string

// Registry is one synchronized registry and the ids of its entries, in
// network order.
type Registry struct {
	ID      string   `toml:"id"`
	Entries []string `toml:"entries"`
}

type Registries struct {
	Registry []Registry `toml:"registry"`
}

// DefaultRegistries returns the built-in registry data.
func DefaultRegistries() (*Registries, error) {
	return parseRegistries(defaultRegistries, "built-in registries")
}

// LoadRegistries reads registry data from path, or the built-in data when
// path is empty.
func LoadRegistries(path string) (*Registries, error) {
	if path == "" {
		return DefaultRegistries()
	}

	var r Registries
	if _, err := toml.DecodeFile(path, &r); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}
	return &r, r.validate(path)
}

func parseRegistries(doc, name string) (*Registries, error) {
	var r Registries
	if _, err := toml.Decode(doc, &r); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return &r, r.validate(name)
}

func (r *Registries) validate(name string) error {
	seen := make(map[string]bool)
	for _, reg := range r.Registry {
		if reg.ID == "" {
			return fmt.Errorf("%s: registry without id", name)
		}
		if seen[reg.ID] {
			return fmt.Errorf("%s: duplicate registry %s", name, reg.ID)
		}
		seen[reg.ID] = true
		if len(reg.Entries) == 0 {
			return fmt.Errorf("%s: registry %s has no entries", name, reg.ID)
		}
	}
	if !seen["minecraft:dimension_type"] {
		return fmt.Errorf("%s: minecraft:dimension_type is required", name)
	}
	return nil
}

// Index returns the network id of entry in registry id, or -1.
func (r *Registries) Index(id, entry string) int {
	for _, reg := range r.Registry {
		if reg.ID == id {
			return slices.Index(reg.Entries, entry)
		}
	}
	return -1
}
