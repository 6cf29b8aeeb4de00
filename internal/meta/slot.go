package meta

import (
	"fmt"
	"reflect"
)

// Slot is a get/set pair bound to one field of one live object.
type Slot struct {
	field FieldDescriptor
	value reflect.Value
}

func (s *Slot) Field() FieldDescriptor {
	return s.field
}

func (s *Slot) Get() any {
	return s.value.Interface()
}

// Value exposes the addressable field for decoders.
func (s *Slot) Value() reflect.Value {
	return s.value
}

// Set writes v into the field. A nil v clears it.
func (s *Slot) Set(v any) error {
	if v == nil {
		s.Clear()
		return nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(s.field.Type) {
		return fmt.Errorf("cannot assign %v to field %s of type %s", rv.Type(), s.field.Name, s.field.TypeName)
	}
	s.value.Set(rv)
	return nil
}

func (s *Slot) Clear() {
	s.value.Set(reflect.Zero(s.field.Type))
}

// Accepts reports whether v could be written into the field.
func (s *Slot) Accepts(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).AssignableTo(s.field.Type)
}

// IsNil reports whether a reference field currently holds no referent.
func (s *Slot) IsNil() bool {
	switch s.value.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return s.value.IsNil()
	}
	return false
}
