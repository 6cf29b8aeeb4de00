package world

import (
	"fmt"
	"reflect"
	"strings"
)

// Catalog is the scoped asset namespace. Lookups never scan outside it.
type Catalog struct {
	assets []Asset
	byName map[string]Asset
}

func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]Asset)}
}

func (c *Catalog) Add(a Asset) error {
	if a == nil {
		return fmt.Errorf("adding asset: asset is nil")
	}
	name := a.AssetName()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("adding asset: name is required")
	}
	if _, exists := c.byName[name]; exists {
		return fmt.Errorf("adding asset: duplicate name: %s", name)
	}
	c.assets = append(c.assets, a)
	c.byName[name] = a
	return nil
}

// Find resolves an asset by name across the whole catalog.
func (c *Catalog) Find(name string) (Asset, bool) {
	a, ok := c.byName[name]
	return a, ok
}

// Assets returns every asset in catalog order.
func (c *Catalog) Assets() []Asset {
	return append([]Asset(nil), c.assets...)
}

// AssetsOf returns, in catalog order, the assets whose static type is
// assignable to t.
func (c *Catalog) AssetsOf(t reflect.Type) []Asset {
	var out []Asset
	for _, a := range c.assets {
		if reflect.TypeOf(a).AssignableTo(t) {
			out = append(out, a)
		}
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.assets)
}
