package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"worldsave/internal/meta"
	"worldsave/internal/store"
	"worldsave/internal/world"
)

// DefaultDenylist holds fields whose restoration would corrupt entity state.
var DefaultDenylist = []string{"CanBeDamaged"}

type Options struct {
	// Denylist replaces DefaultDenylist when non-nil.
	Denylist []string
	Logger   *zerolog.Logger
}

// Service captures entities of a world into the store's single snapshot
// slot and restores them back. It assumes exclusive access to the world.
type Service struct {
	registry *meta.Registry
	resolver Resolver
	store    store.Store
	deny     meta.Denylist
	logger   zerolog.Logger
}

// CaptureResult describes one capture. WriteErr is set when the document was
// built but could not be stored; capture still counts as done.
type CaptureResult struct {
	EntityType string
	Document   *Document
	Data       []byte
	Issues     []Issue
	WriteErr   error
}

func NewService(registry *meta.Registry, w *world.World, catalog *world.Catalog, st store.Store, opts Options) *Service {
	denylist := opts.Denylist
	if denylist == nil {
		denylist = DefaultDenylist
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Service{
		registry: registry,
		resolver: Resolver{World: w, Catalog: catalog},
		store:    st,
		deny:     meta.NewDenylist(denylist...),
		logger:   logger.With().Str("component", "snapshot").Logger(),
	}
}

func (s *Service) Denylist() meta.Denylist {
	return s.deny
}

func (s *Service) Resolver() Resolver {
	return s.resolver
}

// Capture snapshots every live entity of entityType and overwrites the
// stored document.
func (s *Service) Capture(ctx context.Context, entityType string) (*CaptureResult, error) {
	desc, ok := s.registry.Lookup(entityType)
	if !ok {
		return nil, fmt.Errorf("capture: unknown entity type %q", entityType)
	}
	if s.resolver.World == nil {
		return nil, fmt.Errorf("capture: world is required")
	}

	entities := s.resolver.World.EntitiesOf(desc.Type)
	doc, issues, err := Build(desc, entities, s.resolver, s.deny)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	data, err := Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	result := &CaptureResult{
		EntityType: entityType,
		Document:   doc,
		Data:       data,
		Issues:     issues,
	}
	for _, issue := range issues {
		s.logger.Warn().Str("code", string(issue.Code)).Str("entity", issue.Entity).Str("field", issue.Field).Msg(issue.Message)
	}

	if err := s.store.Save(ctx, data); err != nil {
		result.WriteErr = err
		s.logger.Warn().Err(err).Str("entity_type", entityType).Msg("snapshot not written")
		return result, nil
	}

	s.logger.Info().
		Str("entity_type", entityType).
		Int("entities", len(doc.Items)).
		Int("bytes", len(data)).
		Str("hash", store.Hash(data)).
		Msg("snapshot captured")
	return result, nil
}

// Load reads and decodes the stored document. It returns store.ErrNotFound
// or an error wrapping ErrMalformed for the non-fatal cases.
func (s *Service) Load(ctx context.Context) (*Document, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Restore loads the stored document and applies it onto target. A missing or
// malformed document yields a report with a single issue, not an error.
func (s *Service) Restore(ctx context.Context, target any) (*Report, error) {
	if _, err := s.registry.Describe(target); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	doc, err := s.Load(ctx)
	if err != nil {
		report := &Report{Target: targetName(target)}
		switch {
		case errors.Is(err, store.ErrNotFound):
			report.Issues = append(report.Issues, Issue{Code: CodeMissingFile, Record: -1, Message: err.Error()})
		case errors.Is(err, ErrMalformed):
			report.Issues = append(report.Issues, Issue{Code: CodeMalformedDocument, Record: -1, Message: err.Error()})
		default:
			return nil, fmt.Errorf("restore: %w", err)
		}
		s.logger.Warn().Str("target", report.Target).Str("code", string(report.Issues[0].Code)).Msg("nothing restored")
		return report, nil
	}

	return s.Apply(doc, target)
}

// Apply applies an already loaded document onto target.
func (s *Service) Apply(doc *Document, target any) (*Report, error) {
	desc, err := s.registry.Describe(target)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	report, err := Apply(doc, desc, target, s.resolver, s.deny)
	if err != nil {
		return nil, err
	}
	for _, issue := range report.Issues {
		s.logger.Debug().Str("code", string(issue.Code)).Str("field", issue.Field).Int("record", issue.Record).Msg(issue.Message)
	}
	s.logger.Info().
		Str("target", report.Target).
		Int("records", report.Records).
		Int("applied", len(report.Applied)).
		Int("skipped", len(report.Issues)).
		Msg("snapshot restored")
	return report, nil
}
