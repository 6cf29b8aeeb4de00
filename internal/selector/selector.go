package selector

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"worldsave/internal/meta"
	"worldsave/internal/world"
)

// State is the lifecycle position of one field entry.
type State int

const (
	StateIdle State = iota
	StateEnumerated
	StateAwaitingChoice
	StateCommitted
)

func (s State) String() string {
	switch s {
	case StateEnumerated:
		return "enumerated"
	case StateAwaitingChoice:
		return "awaiting_choice"
	case StateCommitted:
		return "committed"
	default:
		return "idle"
	}
}

// Status is the outcome of a commit attempt.
type Status string

const (
	StatusCommitted    Status = "committed"
	StatusUnresolved   Status = "unresolved"
	StatusTypeMismatch Status = "type_mismatch"
)

var ErrSessionCommitted = errors.New("selection already committed")

// Candidate is one selectable referent for a field.
type Candidate struct {
	DisplayName string
	Handle      any
}

// Outcome reports what a commit did. Handle is set only on success.
type Outcome struct {
	Field  string
	Name   string
	Status Status
	Handle any
}

// Presenter shows a field's candidates to whoever makes the choice.
type Presenter interface {
	ShowSelection(field string, names []string) error
}

type PresenterFunc func(field string, names []string) error

func (f PresenterFunc) ShowSelection(field string, names []string) error {
	return f(field, names)
}

// Entry is the selection state for one reference field of the source.
type Entry struct {
	Field      string
	Category   meta.Category
	Candidates []Candidate

	state   State
	slot    *meta.Slot
	catalog *world.Catalog
	logger  zerolog.Logger
}

func (e *Entry) State() State {
	return e.state
}

// Names returns candidate display names in candidate order.
func (e *Entry) Names() []string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.DisplayName
	}
	return names
}

// Present hands the candidates to p and moves the entry to AwaitingChoice.
func (e *Entry) Present(p Presenter) error {
	if e.state == StateCommitted {
		return ErrSessionCommitted
	}
	if err := p.ShowSelection(e.Field, e.Names()); err != nil {
		return fmt.Errorf("presenting %s: %w", e.Field, err)
	}
	e.state = StateAwaitingChoice
	return nil
}

// Commit resolves name and writes it into the source field. Object references
// resolve through the whole catalog; entity references take the first
// candidate with that name. A failed resolution leaves the field and the
// entry state unchanged.
func (e *Entry) Commit(name string) (Outcome, error) {
	out := Outcome{Field: e.Field, Name: name}
	switch e.state {
	case StateCommitted:
		return out, ErrSessionCommitted
	case StateEnumerated, StateAwaitingChoice:
	default:
		return out, fmt.Errorf("committing %s: entry is %s", e.Field, e.state)
	}

	handle, ok := e.resolve(name)
	if !ok {
		out.Status = StatusUnresolved
		e.logger.Debug().Str("field", e.Field).Str("name", name).Msg("selection unresolved")
		return out, nil
	}
	if !e.slot.Accepts(handle) {
		out.Status = StatusTypeMismatch
		e.logger.Debug().Str("field", e.Field).Str("name", name).Msgf("%T does not fit %s", handle, e.slot.Field().TypeName)
		return out, nil
	}
	if err := e.slot.Set(handle); err != nil {
		return out, fmt.Errorf("committing %s: %w", e.Field, err)
	}

	e.state = StateCommitted
	out.Status = StatusCommitted
	out.Handle = handle
	e.logger.Info().Str("field", e.Field).Str("name", name).Msg("selection committed")
	return out, nil
}

func (e *Entry) resolve(name string) (any, bool) {
	if e.Category == meta.CategoryObject {
		if e.catalog == nil {
			return nil, false
		}
		a, ok := e.catalog.Find(name)
		return a, ok
	}
	for _, c := range e.Candidates {
		if c.DisplayName == name {
			return c.Handle, true
		}
	}
	return nil, false
}
