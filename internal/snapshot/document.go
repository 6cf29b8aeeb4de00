package snapshot

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/goccy/go-json"
)

const itemsKey = "Items"

// ErrMalformed marks a document that is not valid JSON or lacks an Items array.
var ErrMalformed = errors.New("malformed snapshot document")

// Field is one serialized field. Value holds raw JSON.
type Field struct {
	Name  string
	Value []byte
}

// Record is the serialized state of one entity. Field order is declaration
// order at capture time.
type Record struct {
	Fields []Field
}

func (r Record) Get(name string) ([]byte, bool) {
	for _, field := range r.Fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for name, or appends it.
func (r *Record) Set(name string, value []byte) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

func (r Record) Names() []string {
	names := make([]string, 0, len(r.Fields))
	for _, field := range r.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Document is the whole snapshot: {"Items":[{...},...]}.
type Document struct {
	Items []Record
}

// Encode renders the document with tab indentation. Equal documents encode
// to identical bytes.
func Encode(doc *Document) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteString(`{"` + itemsKey + `":[`)
	if doc != nil {
		for i, record := range doc.Items {
			if i > 0 {
				compact.WriteByte(',')
			}
			compact.WriteByte('{')
			for j, field := range record.Fields {
				if j > 0 {
					compact.WriteByte(',')
				}
				key, err := json.Marshal(field.Name)
				if err != nil {
					return nil, fmt.Errorf("encoding field name %q: %w", field.Name, err)
				}
				compact.Write(key)
				compact.WriteByte(':')
				compact.Write(field.Value)
			}
			compact.WriteByte('}')
		}
	}
	compact.WriteString("]}")

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "\t"); err != nil {
		return nil, fmt.Errorf("indenting document: %w", err)
	}
	return out.Bytes(), nil
}

// Decode parses a document, keeping each record's keys in document order.
// Duplicate keys keep the last value, both for the top-level Items array and
// within a record.
func Decode(data []byte) (*Document, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	var items []byte
	dataType := jsonparser.NotExist
	err := jsonparser.ObjectEach(data, func(key, value []byte, valueType jsonparser.ValueType, offset int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		if name == itemsKey {
			items, dataType = value, valueType
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dataType == jsonparser.NotExist {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformed, itemsKey)
	}
	if dataType != jsonparser.Array {
		return nil, fmt.Errorf("%w: %s is %s, not an array", ErrMalformed, itemsKey, dataType)
	}

	doc := &Document{}
	var itemErr error
	_, err = jsonparser.ArrayEach(items, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if itemErr != nil {
			return
		}
		if err != nil {
			itemErr = err
			return
		}
		if dataType != jsonparser.Object {
			itemErr = fmt.Errorf("item %d is %s, not an object", len(doc.Items), dataType)
			return
		}
		record, err := decodeRecord(value)
		if err != nil {
			itemErr = fmt.Errorf("item %d: %w", len(doc.Items), err)
			return
		}
		doc.Items = append(doc.Items, record)
	})
	if err == nil {
		err = itemErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

func decodeRecord(data []byte) (Record, error) {
	var record Record
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, offset int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return fmt.Errorf("field name: %w", err)
		}
		raw := value
		if dataType == jsonparser.String {
			// jsonparser hands strings back without their quotes
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			if raw, err = json.Marshal(s); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
		}
		record.Set(name, append([]byte(nil), raw...))
		return nil
	})
	return record, err
}
