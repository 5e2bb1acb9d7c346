// internal/catalog/catalog.go
//
// Read-only creature catalog for the game engine.
//
// Responsibilities:
//   - Load entity records from a JSON file or the embedded default catalog.
//   - Derive each entity's species key once, at load time.
//   - Maintain hash indexes for exact (case-insensitive) name lookup and
//     species lookup.
//   - Supply the sorted name list used for autocomplete.
//
// Species keys:
//   The species key is the lowercased part of the name before the first "-".
//   "Vulpix" and "Vulpix-Alola" share the key "vulpix". The canonical record
//   for a species is the entity whose full name equals the key; if the catalog
//   has no such entity, the first-loaded entity of that species is used.
//
// A Catalog is never mutated after construction and is safe for concurrent use.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/robalobadob/wordlemon/assets"
)

// VariantSeparator splits a base species name from its form tag.
const VariantSeparator = "-"

// ErrLoad marks any failure to build a catalog. It is fatal at startup.
var ErrLoad = errors.New("catalog: load failed")

// Entity is one catalog record.
type Entity struct {
	Name       string   `json:"name"`
	Types      []string `json:"types"`
	Abilities  []string `json:"abilities"`
	BST        int      `json:"bst"`
	Stages     int      `json:"evo-stages"`
	Habitats   []string `json:"habitats"`
	Generation int      `json:"generation"`

	// Species is derived from Name by the catalog; never read from input.
	Species string `json:"-"`
}

// Catalog is an immutable, indexed set of entities.
type Catalog struct {
	entities  []Entity
	byName    map[string]int // lowercase full name → index
	bySpecies map[string]int // species key → canonical index
	names     []string       // sorted display names
}

// Normalize trims and case-folds a raw name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SpeciesKey returns the species key for a full entity name.
func SpeciesKey(name string) string {
	base, _, _ := strings.Cut(Normalize(name), VariantSeparator)
	return base
}

// New indexes entities into a Catalog.
// Names must be non-empty and unique ignoring case; the list must not be empty.
func New(entities []Entity) (*Catalog, error) {
	if len(entities) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrLoad)
	}
	c := &Catalog{
		entities:  make([]Entity, len(entities)),
		byName:    make(map[string]int, len(entities)),
		bySpecies: make(map[string]int, len(entities)),
		names:     make([]string, 0, len(entities)),
	}
	for i, e := range entities {
		key := Normalize(e.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: entity %d has no name", ErrLoad, i)
		}
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrLoad, e.Name)
		}
		e.Name = strings.TrimSpace(e.Name)
		e.Species = SpeciesKey(e.Name)
		c.entities[i] = e
		c.byName[key] = i
		c.names = append(c.names, e.Name)
	}

	// Canonical record per species: exact-name entity first, else first loaded.
	for i, e := range c.entities {
		if _, seen := c.bySpecies[e.Species]; !seen {
			c.bySpecies[e.Species] = i
		}
	}
	for species := range c.bySpecies {
		if i, ok := c.byName[species]; ok {
			c.bySpecies[species] = i
		}
	}

	sort.Strings(c.names)
	return c, nil
}

// Load decodes a JSON array of entities from r.
func Load(r io.Reader) (*Catalog, error) {
	var entities []Entity
	if err := json.NewDecoder(r).Decode(&entities); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLoad, err)
	}
	return New(entities)
}

// LoadFile reads a catalog from a JSON file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()
	return Load(f)
}

// Default loads the embedded catalog shipped with the server.
func Default() (*Catalog, error) {
	f, err := assets.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()
	return Load(f)
}

// Resolve looks up an entity by full name, ignoring case and surrounding space.
// There is no partial or fuzzy matching.
func (c *Catalog) Resolve(name string) (Entity, bool) {
	i, ok := c.byName[Normalize(name)]
	if !ok {
		return Entity{}, false
	}
	return c.entities[i], true
}

// ResolveSpecies returns the canonical entity for a species key.
func (c *Catalog) ResolveSpecies(key string) (Entity, bool) {
	i, ok := c.bySpecies[Normalize(key)]
	if !ok {
		return Entity{}, false
	}
	return c.entities[i], true
}

// Names returns all display names, sorted. Callers must not modify the slice.
func (c *Catalog) Names() []string { return c.names }

// Len reports the number of entities.
func (c *Catalog) Len() int { return len(c.entities) }

// At returns the i-th entity in load order.
func (c *Catalog) At(i int) Entity { return c.entities[i] }
