package snapshot

import (
	"fmt"

	"worldsave/internal/meta"
	"worldsave/internal/world"
)

// Build serializes the persist fields of each entity, in the given order.
// Fields on deny never appear. Fields that cannot be encoded are skipped and
// reported.
func Build(desc *meta.TypeDescriptor, entities []world.Entity, resolver Resolver, deny meta.Denylist) (*Document, []Issue, error) {
	if desc == nil {
		return nil, nil, fmt.Errorf("type descriptor is required")
	}

	doc := &Document{Items: make([]Record, 0, len(entities))}
	var issues []Issue
	fields := desc.Persisted(deny)

	for i, e := range entities {
		record := Record{Fields: make([]Field, 0, len(fields))}
		for _, field := range fields {
			slot, err := desc.Slot(e, field.Name)
			if err != nil {
				return nil, nil, fmt.Errorf("capturing %s: %w", e.EntityName(), err)
			}
			raw, err := resolver.Encode(slot)
			if err != nil {
				code := CodeEncodeFailed
				if field.Category == meta.CategoryUnclassified {
					code = CodeUnclassifiedField
				}
				issues = append(issues, Issue{
					Code:    code,
					Record:  i,
					Entity:  e.EntityName(),
					Field:   field.Name,
					Message: err.Error(),
				})
				continue
			}
			record.Fields = append(record.Fields, Field{Name: field.Name, Value: raw})
		}
		doc.Items = append(doc.Items, record)
	}

	return doc, issues, nil
}
