package snapshot

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"

	"worldsave/internal/meta"
	"worldsave/internal/world"
)

var jsonNull = []byte("null")

// Resolver converts field values to and from their document form. Reference
// fields travel as the referent's name and are resolved against World or
// Catalog depending on their category.
type Resolver struct {
	World   *world.World
	Catalog *world.Catalog
}

// Encode returns the raw JSON for the slot's current value.
func (r Resolver) Encode(slot *meta.Slot) ([]byte, error) {
	field := slot.Field()
	switch field.Category {
	case meta.CategoryPrimitive:
		data, err := json.Marshal(slot.Get())
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", field.Name, err)
		}
		return data, nil
	case meta.CategoryEntity:
		if slot.IsNil() {
			return jsonNull, nil
		}
		e, ok := slot.Get().(world.Entity)
		if !ok {
			return nil, fmt.Errorf("%w: %s does not hold an entity", ErrTypeMismatch, field.Name)
		}
		return json.Marshal(e.EntityName())
	case meta.CategoryObject:
		if slot.IsNil() {
			return jsonNull, nil
		}
		a, ok := slot.Get().(world.Asset)
		if !ok {
			return nil, fmt.Errorf("%w: %s does not hold an asset", ErrTypeMismatch, field.Name)
		}
		return json.Marshal(a.AssetName())
	default:
		return nil, fmt.Errorf("%w: %s is %s", ErrUnclassified, field.Name, field.TypeName)
	}
}

// Assign decodes raw into the slot. On error the field is left unchanged.
func (r Resolver) Assign(slot *meta.Slot, raw []byte) error {
	field := slot.Field()
	raw = bytes.TrimSpace(raw)

	switch field.Category {
	case meta.CategoryPrimitive:
		if bytes.Equal(raw, jsonNull) {
			switch field.Type.Kind() {
			case reflect.Slice, reflect.Map:
				slot.Clear()
				return nil
			}
			return fmt.Errorf("%w: null for %s field %s", ErrTypeMismatch, field.TypeName, field.Name)
		}
		ptr := reflect.New(field.Type)
		if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTypeMismatch, field.Name, err)
		}
		slot.Value().Set(ptr.Elem())
		return nil

	case meta.CategoryEntity, meta.CategoryObject:
		if bytes.Equal(raw, jsonNull) {
			slot.Clear()
			return nil
		}
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return fmt.Errorf("%w: %s expects a name, got %s", ErrTypeMismatch, field.Name, raw)
		}
		handle, ok := r.lookup(field.Category, name)
		if !ok {
			return fmt.Errorf("%w: %s %q for %s", ErrUnresolvedName, field.Category, name, field.Name)
		}
		if !slot.Accepts(handle) {
			return fmt.Errorf("%w: %q is %T, field %s is %s", ErrTypeMismatch, name, handle, field.Name, field.TypeName)
		}
		return slot.Set(handle)

	default:
		return fmt.Errorf("%w: %s is %s", ErrUnclassified, field.Name, field.TypeName)
	}
}

func (r Resolver) lookup(category meta.Category, name string) (any, bool) {
	switch category {
	case meta.CategoryEntity:
		if r.World == nil {
			return nil, false
		}
		e, ok := r.World.Find(name)
		return e, ok
	case meta.CategoryObject:
		if r.Catalog == nil {
			return nil, false
		}
		a, ok := r.Catalog.Find(name)
		return a, ok
	}
	return nil, false
}
