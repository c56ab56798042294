// Package levels finds the numbered map files (0.json, 1.json, ...) that make
// up the campaign.
package levels

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Ext is the map file extension.
const Ext = ".json"

// ErrNotFound is returned when a map id has no file.
var ErrNotFound = errors.New("levels: map not found")

// Catalog is a directory of numbered maps.
type Catalog struct {
	dir string
}

// Open returns a catalog for dir. The directory must exist.
func Open(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("levels: open %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("levels: %s is not a directory", dir)
	}
	return &Catalog{dir: dir}, nil
}

// Dir returns the catalog directory.
func (c *Catalog) Dir() string { return c.dir }

// List returns the ids of all numbered maps in ascending order. Files whose
// stem is not a non-negative integer are ignored.
func (c *Catalog) List() ([]int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("levels: list %s: %w", c.dir, err)
	}
	var ids []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := parseID(e.Name()); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func parseID(name string) (int, bool) {
	stem, ok := strings.CutSuffix(name, Ext)
	if !ok || stem == "" {
		return 0, false
	}
	for _, r := range stem {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(stem)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Path returns the file path of map id, or ErrNotFound.
func (c *Catalog) Path(id int) (string, error) {
	p := filepath.Join(c.dir, Name(id))
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return "", fmt.Errorf("levels: stat %s: %w", p, err)
	}
	return p, nil
}

// Next returns the id of the map after id. ok is false when id is the last
// map of the campaign.
func (c *Catalog) Next(id int) (next int, ok bool, err error) {
	ids, err := c.List()
	if err != nil {
		return 0, false, err
	}
	for _, other := range ids {
		if other > id {
			return other, true, nil
		}
	}
	return 0, false, nil
}

// IsLast reports whether no map follows id.
func (c *Catalog) IsLast(id int) (bool, error) {
	_, ok, err := c.Next(id)
	return !ok, err
}

// NextFreeName returns the file name one past the highest numbered map, or
// "0.json" for an empty catalog.
func (c *Catalog) NextFreeName() (string, error) {
	ids, err := c.List()
	if err != nil {
		return "", err
	}
	next := 0
	if len(ids) > 0 {
		next = ids[len(ids)-1] + 1
	}
	return Name(next), nil
}

// Name returns the file name of map id.
func Name(id int) string {
	return strconv.Itoa(id) + Ext
}

// ParseName extracts the map id from a file name or path like "maps/3.json".
func ParseName(path string) (int, bool) {
	return parseID(filepath.Base(path))
}

// PracticeKey is the storage key of the built-in practice map.
const PracticeKey = "practice"

// Key returns the storage key for a map path: the id for numbered maps, the
// file stem for other files and PracticeKey for an empty path.
func Key(path string) string {
	if path == "" {
		return PracticeKey
	}
	if id, ok := ParseName(path); ok {
		return strconv.Itoa(id)
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
