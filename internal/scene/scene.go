package scene

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"worldsave/internal/meta"
	"worldsave/internal/snapshot"
	"worldsave/internal/world"
)

// Spec declares one entity or asset: its registered type, its unique name,
// and field values keyed by Go field name in file order.
type Spec struct {
	Type   string    `yaml:"type"`
	Name   string    `yaml:"name"`
	Fields yaml.Node `yaml:"fields"`
}

type sceneFile struct {
	Entities []Spec `yaml:"entities"`
}

type manifestFile struct {
	Assets []Spec `yaml:"assets"`
}

// Result counts what a load did. Errors are per item and never abort the load.
type Result struct {
	Spawned int
	Applied int
	Errors  []error
}

type namer interface {
	SetName(string)
}

type built struct {
	spec Spec
	desc *meta.TypeDescriptor
	obj  any
}

// LoadCatalog reads an asset manifest. An empty path yields an empty catalog.
func LoadCatalog(path string, reg *meta.Registry) (*world.Catalog, *Result, error) {
	catalog := world.NewCatalog()
	if strings.TrimSpace(path) == "" {
		return catalog, &Result{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading asset manifest: %w", err)
	}
	result, err := BuildCatalog(data, reg, catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return catalog, result, nil
}

// BuildCatalog adds every asset in data to catalog, then applies fields so
// assets may reference each other in any order.
func BuildCatalog(data []byte, reg *meta.Registry, catalog *world.Catalog) (*Result, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing asset manifest: %w", err)
	}

	result := &Result{}
	var items []built
	for _, spec := range file.Assets {
		item, err := instantiate(reg, spec)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		asset, ok := item.obj.(world.Asset)
		if !ok {
			result.Errors = append(result.Errors, fmt.Errorf("asset %s: type %s is not an asset", spec.Name, spec.Type))
			continue
		}
		if err := catalog.Add(asset); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Spawned++
		items = append(items, item)
	}

	applyAll(items, snapshot.Resolver{Catalog: catalog}, result)
	return result, nil
}

// LoadWorld reads a scene file and spawns its entities. An empty path yields
// an empty world.
func LoadWorld(path string, reg *meta.Registry, catalog *world.Catalog) (*world.World, *Result, error) {
	w := world.New()
	if strings.TrimSpace(path) == "" {
		return w, &Result{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading scene: %w", err)
	}
	result, err := BuildWorld(data, reg, w, catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return w, result, nil
}

// BuildWorld spawns every entity in data, then applies fields with the same
// resolution rules as a restore, so entities may reference later ones.
func BuildWorld(data []byte, reg *meta.Registry, w *world.World, catalog *world.Catalog) (*Result, error) {
	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}

	result := &Result{}
	var items []built
	for _, spec := range file.Entities {
		item, err := instantiate(reg, spec)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		entity, ok := item.obj.(world.Entity)
		if !ok {
			result.Errors = append(result.Errors, fmt.Errorf("entity %s: type %s is not an entity", spec.Name, spec.Type))
			continue
		}
		if err := w.Spawn(entity); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Spawned++
		items = append(items, item)
	}

	applyAll(items, snapshot.Resolver{World: w, Catalog: catalog}, result)
	return result, nil
}

func instantiate(reg *meta.Registry, spec Spec) (built, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return built{}, fmt.Errorf("%s: name is required", spec.Type)
	}
	desc, ok := reg.Lookup(spec.Type)
	if !ok {
		return built{}, fmt.Errorf("%s: unknown type %q", spec.Name, spec.Type)
	}
	obj := desc.New()
	n, ok := obj.(namer)
	if !ok {
		return built{}, fmt.Errorf("%s: type %s cannot be named", spec.Name, spec.Type)
	}
	n.SetName(spec.Name)
	return built{spec: spec, desc: desc, obj: obj}, nil
}

func applyAll(items []built, resolver snapshot.Resolver, result *Result) {
	for _, item := range items {
		fields, err := fieldValues(&item.spec.Fields)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", item.spec.Name, err))
			continue
		}
		for _, f := range fields {
			slot, err := item.desc.Slot(item.obj, f.Name)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", item.spec.Name, err))
				continue
			}
			if err := resolver.Assign(slot, f.Value); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s.%s: %w", item.spec.Name, f.Name, err))
				continue
			}
			result.Applied++
		}
	}
}

// fieldValues converts a YAML mapping into JSON values, keeping key order.
func fieldValues(node *yaml.Node) ([]snapshot.Field, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("fields must be a mapping")
	}
	fields := make([]snapshot.Field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		fields = append(fields, snapshot.Field{Name: name, Value: raw})
	}
	return fields, nil
}
