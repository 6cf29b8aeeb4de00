package snapshot

import (
	"fmt"

	"worldsave/internal/meta"
	"worldsave/internal/world"
)

// Apply upserts every record of doc onto target by field name, in document
// order. Fields missing from the document are untouched; anything that
// cannot be applied is reported and skipped.
func Apply(doc *Document, desc *meta.TypeDescriptor, target any, resolver Resolver, deny meta.Denylist) (*Report, error) {
	if desc == nil {
		return nil, fmt.Errorf("type descriptor is required")
	}
	if target == nil {
		return nil, fmt.Errorf("target is required")
	}

	report := &Report{Target: targetName(target)}
	if doc == nil {
		return report, nil
	}
	report.Records = len(doc.Items)

	for i, record := range doc.Items {
		for _, item := range record.Fields {
			issue := Issue{Record: i, Entity: report.Target, Field: item.Name}

			if deny.Contains(item.Name) {
				issue.Code = CodeDeniedField
				issue.Message = "field is denylisted"
				report.Issues = append(report.Issues, issue)
				continue
			}
			field, ok := desc.Field(item.Name)
			if !ok || !field.Persist {
				issue.Code = CodeUnmatchedField
				issue.Message = fmt.Sprintf("%s has no persist field %s", desc.Name, item.Name)
				report.Issues = append(report.Issues, issue)
				continue
			}

			slot, err := desc.Slot(target, field.Name)
			if err != nil {
				return nil, fmt.Errorf("restoring %s: %w", report.Target, err)
			}
			if err := resolver.Assign(slot, item.Value); err != nil {
				issue.Code = codeFor(err)
				issue.Message = err.Error()
				report.Issues = append(report.Issues, issue)
				continue
			}
			report.addApplied(field.Name)
		}
	}

	return report, nil
}

func targetName(target any) string {
	switch t := target.(type) {
	case world.Entity:
		return t.EntityName()
	case world.Asset:
		return t.AssetName()
	}
	return fmt.Sprintf("%T", target)
}
