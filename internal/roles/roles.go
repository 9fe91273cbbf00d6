// Package roles holds the static role catalog shown in the lobby gallery.
package roles

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

//go:embed roles.json
var catalogJSON []byte

var (
	loadOnce sync.Once
	catalog  []Role
	loadErr  error
)

func load() ([]Role, error) {
	loadOnce.Do(func() {
		catalog, loadErr = Parse(catalogJSON)
	})
	return catalog, loadErr
}

// Parse decodes a catalog document. An empty catalog is an error.
func Parse(data []byte) ([]Role, error) {
	var out []Role
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode role catalog: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("decode role catalog: no roles")
	}
	return out, nil
}

// All returns a copy of the built-in catalog in display order.
func All() ([]Role, error) {
	c, err := load()
	if err != nil {
		return nil, err
	}
	return slices.Clone(c), nil
}

func ByID(id string) (Role, bool) {
	c, err := load()
	if err != nil {
		return Role{}, false
	}
	i := slices.IndexFunc(c, func(r Role) bool { return r.ID == id })
	if i < 0 {
		return Role{}, false
	}
	return c[i], true
}
