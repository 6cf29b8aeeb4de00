package meta

import (
	"reflect"

	"worldsave/internal/world"
)

// Category is the persistence category of a field's declared type.
type Category int

const (
	CategoryUnclassified Category = iota
	CategoryPrimitive
	CategoryObject
	CategoryEntity
)

func (c Category) String() string {
	switch c {
	case CategoryPrimitive:
		return "primitive"
	case CategoryObject:
		return "object"
	case CategoryEntity:
		return "entity"
	default:
		return "unclassified"
	}
}

// IsReference reports whether values of this category serialize as names.
func (c Category) IsReference() bool {
	return c == CategoryObject || c == CategoryEntity
}

var (
	entityInterface = reflect.TypeOf((*world.Entity)(nil)).Elem()
	assetInterface  = reflect.TypeOf((*world.Asset)(nil)).Elem()
)

// Classify derives the category of a declared field type. Only pointer and
// interface types can be references; entity wins over asset when a type
// satisfies both.
func Classify(t reflect.Type) Category {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if t.Implements(entityInterface) {
			return CategoryEntity
		}
		if t.Implements(assetInterface) {
			return CategoryObject
		}
		return CategoryUnclassified
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return CategoryPrimitive
	case reflect.Slice, reflect.Array:
		if Classify(t.Elem()) == CategoryPrimitive {
			return CategoryPrimitive
		}
		return CategoryUnclassified
	case reflect.Map:
		if t.Key().Kind() == reflect.String && Classify(t.Elem()) == CategoryPrimitive {
			return CategoryPrimitive
		}
		return CategoryUnclassified
	case reflect.Struct:
		return CategoryPrimitive
	default:
		return CategoryUnclassified
	}
}
