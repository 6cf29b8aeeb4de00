package meta

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// FieldDescriptor holds pre-computed metadata about one exported field.
type FieldDescriptor struct {
	// Name is the Go field name; it is also the document key.
	Name string

	// TypeName is the declared type as printed by reflect, e.g. "*game.Chest".
	TypeName string

	Type     reflect.Type
	Index    []int
	Category Category
	Persist  bool
}

// TypeDescriptor is computed once at registration and reused for every
// capture, restore and selection.
type TypeDescriptor struct {
	Name   string
	Type   reflect.Type // pointer to struct
	Fields []FieldDescriptor

	prototype reflect.Value
	index     map[string]int
}

// Registry maps type names to descriptors. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*TypeDescriptor
	byType map[reflect.Type]*TypeDescriptor
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*TypeDescriptor),
		byType: make(map[reflect.Type]*TypeDescriptor),
	}
}

// Register analyzes prototype, which must be a non-nil pointer to a struct,
// and stores it under name. New instances are shallow copies of prototype.
func (r *Registry) Register(name string, prototype any) (*TypeDescriptor, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("registering type: name is required")
	}
	desc, err := analyzeType(name, prototype)
	if err != nil {
		return nil, fmt.Errorf("registering type %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("registering type %s: duplicate name", name)
	}
	if existing, exists := r.byType[desc.Type]; exists {
		return nil, fmt.Errorf("registering type %s: %v already registered as %s", name, desc.Type, existing.Name)
	}
	r.byName[name] = desc
	r.byType[desc.Type] = desc
	r.order = append(r.order, name)
	return desc, nil
}

// MustRegister is Register for package-level setup; it panics on error.
func (r *Registry) MustRegister(name string, prototype any) *TypeDescriptor {
	desc, err := r.Register(name, prototype)
	if err != nil {
		panic(err)
	}
	return desc
}

func (r *Registry) Lookup(name string) (*TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.byName[name]
	return desc, ok
}

// Describe returns the descriptor for obj's dynamic type.
func (r *Registry) Describe(obj any) (*TypeDescriptor, error) {
	if obj == nil {
		return nil, fmt.Errorf("describing object: object is nil")
	}
	t := reflect.TypeOf(obj)
	r.mu.RLock()
	desc, ok := r.byType[t]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("describing object: type %v is not registered", t)
	}
	return desc, nil
}

// Names returns registered type names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func analyzeType(name string, prototype any) (*TypeDescriptor, error) {
	if prototype == nil {
		return nil, fmt.Errorf("prototype is nil")
	}
	value := reflect.ValueOf(prototype)
	t := value.Type()
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("prototype must be a pointer to a struct, got %v", t)
	}
	if value.IsNil() {
		return nil, fmt.Errorf("prototype is a nil pointer")
	}

	desc := &TypeDescriptor{
		Name:      name,
		Type:      t,
		prototype: value,
		index:     make(map[string]int),
	}

	st := t.Elem()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if field.Anonymous {
			continue
		}
		tag := parseTag(field.Tag.Get(tagName))
		if !field.IsExported() {
			if tag.Persist {
				return nil, fmt.Errorf("field %s is tagged persist but unexported", field.Name)
			}
			continue
		}

		desc.index[field.Name] = len(desc.Fields)
		desc.Fields = append(desc.Fields, FieldDescriptor{
			Name:     field.Name,
			TypeName: field.Type.String(),
			Type:     field.Type,
			Index:    field.Index,
			Category: Classify(field.Type),
			Persist:  tag.Persist,
		})
	}

	return desc, nil
}

// New returns a fresh instance initialised from the prototype.
func (d *TypeDescriptor) New() any {
	v := reflect.New(d.Type.Elem())
	v.Elem().Set(d.prototype.Elem())
	return v.Interface()
}

func (d *TypeDescriptor) Field(name string) (FieldDescriptor, bool) {
	i, ok := d.index[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return d.Fields[i], true
}

// Persisted returns, in declaration order, the persist fields not on deny.
func (d *TypeDescriptor) Persisted(deny Denylist) []FieldDescriptor {
	var out []FieldDescriptor
	for _, field := range d.Fields {
		if field.Persist && !deny.Contains(field.Name) {
			out = append(out, field)
		}
	}
	return out
}

// Slot binds the named field on obj. obj must be of this descriptor's type.
func (d *TypeDescriptor) Slot(obj any, name string) (*Slot, error) {
	field, ok := d.Field(name)
	if !ok {
		return nil, fmt.Errorf("type %s has no field %s", d.Name, name)
	}
	v := reflect.ValueOf(obj)
	if v.Type() != d.Type {
		return nil, fmt.Errorf("object of type %v does not match %s", v.Type(), d.Name)
	}
	if v.IsNil() {
		return nil, fmt.Errorf("object is a nil %v", v.Type())
	}
	return &Slot{field: field, value: v.Elem().FieldByIndex(field.Index)}, nil
}
