package snapshot

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	t.Run("keeps key order", func(t *testing.T) {
		doc, err := Decode([]byte(`{"Items":[{"Zeta":1,"Alpha":"x","Mid":null},{}]}`))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(doc.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(doc.Items))
		}
		if names := doc.Items[0].Names(); !reflect.DeepEqual(names, []string{"Zeta", "Alpha", "Mid"}) {
			t.Fatalf("unexpected order: %v", names)
		}
		if v, _ := doc.Items[0].Get("Alpha"); string(v) != `"x"` {
			t.Fatalf("expected quoted string, got %s", v)
		}
		if v, _ := doc.Items[0].Get("Mid"); string(v) != "null" {
			t.Fatalf("expected null, got %s", v)
		}
	})

	t.Run("unescapes strings", func(t *testing.T) {
		doc, err := Decode([]byte(`{"Items":[{"Name":"Chest \"A\""}]}`))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		v, ok := doc.Items[0].Get("Name")
		if !ok {
			t.Fatalf("expected unescaped key, got %v", doc.Items[0].Names())
		}
		if string(v) != `"Chest \"A\""` {
			t.Fatalf("unexpected value %s", v)
		}
	})

	t.Run("duplicate keys keep last", func(t *testing.T) {
		doc, err := Decode([]byte(`{"Items":[{"Health":1,"Health":2}]}`))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(doc.Items[0].Fields) != 1 {
			t.Fatalf("expected one field, got %v", doc.Items[0].Names())
		}
		if v, _ := doc.Items[0].Get("Health"); string(v) != "2" {
			t.Fatalf("expected last value, got %s", v)
		}
	})

	t.Run("duplicate items keep last", func(t *testing.T) {
		doc, err := Decode([]byte(`{"Items":[{"Health":1}],"Other":true,"Items":[{"Health":2},{}]}`))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(doc.Items) != 2 {
			t.Fatalf("expected last Items array, got %d items", len(doc.Items))
		}
		if v, _ := doc.Items[0].Get("Health"); string(v) != "2" {
			t.Fatalf("expected last value, got %s", v)
		}
	})

	malformed := map[string]string{
		"invalid json":   `{"Items":[`,
		"missing items":  `{"Things":[]}`,
		"items not list": `{"Items":{}}`,
		"item not obj":   `{"Items":[1]}`,
		"top level list": `[{"Health":1}]`,
	}
	for name, input := range malformed {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode([]byte(input)); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	doc := &Document{Items: []Record{
		{Fields: []Field{{Name: "Health", Value: []byte("75")}, {Name: "Inventory", Value: []byte(`"ChestA"`)}}},
	}}
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	expected := "{\n\t\"Items\": [\n\t\t{\n\t\t\t\"Health\": 75,\n\t\t\t\"Inventory\": \"ChestA\"\n\t\t}\n\t]\n}"
	if string(data) != expected {
		t.Fatalf("unexpected encoding:\n%s", data)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, doc) {
		t.Fatalf("decoded document differs: %+v", decoded)
	}

	empty, err := Encode(&Document{})
	if err != nil {
		t.Fatalf("encode empty: %v", err)
	}
	if string(empty) != "{\n\t\"Items\": []\n}" {
		t.Fatalf("unexpected empty encoding %q", empty)
	}
}
