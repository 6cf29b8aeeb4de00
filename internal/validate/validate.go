package validate

import (
	"context"
	"errors"
	"fmt"

	"worldsave/internal/meta"
	"worldsave/internal/snapshot"
	"worldsave/internal/store"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeMissingDocument = "missing_document"
	codeEmptyDocument   = "empty_document"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Record   int
	Field    string
}

type Report struct {
	Records int
	Issues  []Issue
}

// DocumentLoader is satisfied by snapshot.Service.
type DocumentLoader interface {
	Load(ctx context.Context) (*snapshot.Document, error)
}

// Run checks the stored document against entity type desc without touching
// any live entity: every record is applied to a scratch instance and the
// resulting skips are graded.
func Run(ctx context.Context, loader DocumentLoader, desc *meta.TypeDescriptor, resolver snapshot.Resolver, deny meta.Denylist) (*Report, error) {
	if loader == nil {
		return nil, fmt.Errorf("document loader is required")
	}
	if desc == nil {
		return nil, fmt.Errorf("type descriptor is required")
	}

	report := &Report{Issues: make([]Issue, 0)}
	doc, err := loader.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		report.Issues = append(report.Issues, Issue{Severity: SeverityError, Code: codeMissingDocument, Message: "no snapshot has been captured", Record: -1})
		return report, nil
	case errors.Is(err, snapshot.ErrMalformed):
		report.Issues = append(report.Issues, Issue{Severity: SeverityError, Code: string(snapshot.CodeMalformedDocument), Message: err.Error(), Record: -1})
		return report, nil
	case err != nil:
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	report.Records = len(doc.Items)
	if len(doc.Items) == 0 {
		report.Issues = append(report.Issues, Issue{Severity: SeverityWarn, Code: codeEmptyDocument, Message: "snapshot holds no records", Record: -1})
	}

	for i, record := range doc.Items {
		scratch := desc.New()
		applied, err := snapshot.Apply(&snapshot.Document{Items: []snapshot.Record{record}}, desc, scratch, resolver, deny)
		if err != nil {
			return nil, fmt.Errorf("checking record %d: %w", i, err)
		}
		for _, issue := range applied.Issues {
			report.Issues = append(report.Issues, Issue{
				Severity: severityFor(issue.Code),
				Code:     string(issue.Code),
				Message:  issue.Message,
				Record:   i,
				Field:    issue.Field,
			})
		}
	}

	return report, nil
}

// HasErrors reports whether any issue is an error.
func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Unresolved names may be spawned later, so they only warn.
func severityFor(code snapshot.Code) Severity {
	switch code {
	case snapshot.CodeTypeMismatch, snapshot.CodeUnclassifiedField:
		return SeverityError
	default:
		return SeverityWarn
	}
}
