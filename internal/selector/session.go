package selector

import (
	"fmt"

	"github.com/rs/zerolog"

	"worldsave/internal/meta"
	"worldsave/internal/world"
)

// Deps are the collaborators a selection reads from.
type Deps struct {
	Registry *meta.Registry
	World    *world.World
	Catalog  *world.Catalog
	Denylist meta.Denylist
	Logger   *zerolog.Logger
}

// Session holds one entry per reference field of the source object.
// Primitive and unclassified persist fields are listed in Excluded.
type Session struct {
	Source   string
	Entries  []*Entry
	Excluded []string

	byField map[string]*Entry
}

// Begin enumerates the persist reference fields of source and builds their
// candidate lists: catalog order for object references, spawn order for
// entity references.
func Begin(source any, deps Deps) (*Session, error) {
	if deps.Registry == nil {
		return nil, fmt.Errorf("beginning selection: registry is required")
	}
	desc, err := deps.Registry.Describe(source)
	if err != nil {
		return nil, fmt.Errorf("beginning selection: %w", err)
	}

	logger := zerolog.Nop()
	if deps.Logger != nil {
		logger = *deps.Logger
	}
	logger = logger.With().Str("component", "selector").Logger()

	session := &Session{
		Source:  sourceName(source, desc),
		byField: make(map[string]*Entry),
	}

	for _, field := range desc.Persisted(deps.Denylist) {
		if !field.Category.IsReference() {
			session.Excluded = append(session.Excluded, field.Name)
			continue
		}
		slot, err := desc.Slot(source, field.Name)
		if err != nil {
			return nil, fmt.Errorf("beginning selection: %w", err)
		}

		entry := &Entry{
			Field:    field.Name,
			Category: field.Category,
			state:    StateEnumerated,
			slot:     slot,
			catalog:  deps.Catalog,
			logger:   logger.With().Str("source", session.Source).Logger(),
		}
		switch field.Category {
		case meta.CategoryObject:
			if deps.Catalog != nil {
				for _, a := range deps.Catalog.AssetsOf(field.Type) {
					entry.Candidates = append(entry.Candidates, Candidate{DisplayName: a.AssetName(), Handle: a})
				}
			}
		case meta.CategoryEntity:
			if deps.World != nil {
				for _, e := range deps.World.EntitiesOf(field.Type) {
					entry.Candidates = append(entry.Candidates, Candidate{DisplayName: e.EntityName(), Handle: e})
				}
			}
		}

		session.Entries = append(session.Entries, entry)
		session.byField[field.Name] = entry
	}

	logger.Debug().
		Str("source", session.Source).
		Int("entries", len(session.Entries)).
		Strs("excluded", session.Excluded).
		Msg("selection enumerated")
	return session, nil
}

func (s *Session) Entry(field string) (*Entry, bool) {
	e, ok := s.byField[field]
	return e, ok
}

// Present shows every entry that is not yet committed.
func (s *Session) Present(p Presenter) error {
	for _, e := range s.Entries {
		if e.state == StateCommitted {
			continue
		}
		if err := e.Present(p); err != nil {
			return err
		}
	}
	return nil
}

// Commit resolves name for the given field.
func (s *Session) Commit(field, name string) (Outcome, error) {
	e, ok := s.byField[field]
	if !ok {
		return Outcome{Field: field, Name: name}, fmt.Errorf("no selectable field %s on %s", field, s.Source)
	}
	return e.Commit(name)
}

// Done reports whether every entry has been committed.
func (s *Session) Done() bool {
	for _, e := range s.Entries {
		if e.state != StateCommitted {
			return false
		}
	}
	return true
}

func sourceName(source any, desc *meta.TypeDescriptor) string {
	switch s := source.(type) {
	case world.Entity:
		return s.EntityName()
	case world.Asset:
		return s.AssetName()
	}
	return desc.Name
}
