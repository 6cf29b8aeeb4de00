package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"worldsave/internal/selector"
	"worldsave/internal/snapshot"
	"worldsave/internal/store"
	"worldsave/internal/world"
)

type CaptureSnapshotInput struct {
	EntityType string `json:"entity_type,omitempty" jsonschema:"entity type to capture, defaults to the configured type"`
}

type RestoreSnapshotInput struct {
	Entity string `json:"entity" jsonschema:"name of the live entity to restore into"`
}

type ListEntitiesInput struct {
	Type string `json:"type,omitempty" jsonschema:"entity type filter"`
}

type BeginSelectionInput struct {
	Entity string `json:"entity" jsonschema:"name of the entity whose reference fields are edited"`
}

type CommitSelectionInput struct {
	SessionID string `json:"session_id" jsonschema:"id returned by begin_selection"`
	Field     string `json:"field" jsonschema:"reference field name"`
	Name      string `json:"name" jsonschema:"display name of the chosen candidate"`
}

type IssueOutput struct {
	Code    string `json:"code"`
	Record  int    `json:"record"`
	Entity  string `json:"entity,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type CaptureSnapshotOutput struct {
	EntityType string        `json:"entity_type"`
	Items      int           `json:"items"`
	Bytes      int           `json:"bytes"`
	Hash       string        `json:"hash"`
	Issues     []IssueOutput `json:"issues"`
	WriteError string        `json:"write_error,omitempty"`
}

type RestoreSnapshotOutput struct {
	Target  string        `json:"target"`
	Records int           `json:"records"`
	Applied []string      `json:"applied"`
	Issues  []IssueOutput `json:"issues"`
}

type EntitySummaryOutput struct {
	Name       string `json:"name"`
	EntityType string `json:"type"`
}

type ListEntitiesOutput struct {
	Entities []EntitySummaryOutput `json:"entities"`
}

type SelectionFieldOutput struct {
	Field      string   `json:"field"`
	Category   string   `json:"category"`
	State      string   `json:"state"`
	Candidates []string `json:"candidates"`
}

type BeginSelectionOutput struct {
	SessionID string                 `json:"session_id"`
	Source    string                 `json:"source"`
	Fields    []SelectionFieldOutput `json:"fields"`
	Excluded  []string               `json:"excluded"`
}

type CommitSelectionOutput struct {
	Field  string `json:"field"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Done   bool   `json:"done"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "capture_snapshot",
		Description: "Capture persist fields of every live entity of a type into the snapshot slot",
	}, s.handleCaptureSnapshot)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "restore_snapshot",
		Description: "Apply the stored snapshot onto a live entity",
	}, s.handleRestoreSnapshot)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_entities",
		Description: "List live entities with an optional type filter",
	}, s.handleListEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "begin_selection",
		Description: "Enumerate reference fields of an entity and their candidates",
	}, s.handleBeginSelection)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "commit_selection",
		Description: "Write a chosen candidate into a reference field",
	}, s.handleCommitSelection)
}

func (s *Server) handleCaptureSnapshot(ctx context.Context, req *sdk.CallToolRequest, input CaptureSnapshotInput) (*sdk.CallToolResult, CaptureSnapshotOutput, error) {
	entityType := input.EntityType
	if entityType == "" {
		entityType = s.deps.EntityType
	}
	if entityType == "" {
		return nil, CaptureSnapshotOutput{}, fmt.Errorf("entity_type is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result, err := s.deps.Snapshots.Capture(ctx, entityType)
	if err != nil {
		return nil, CaptureSnapshotOutput{}, err
	}

	out := CaptureSnapshotOutput{
		EntityType: result.EntityType,
		Items:      len(result.Document.Items),
		Bytes:      len(result.Data),
		Hash:       store.Hash(result.Data),
		Issues:     issueOutputs(result.Issues),
	}
	if result.WriteErr != nil {
		out.WriteError = result.WriteErr.Error()
	}
	return nil, out, nil
}

func (s *Server) handleRestoreSnapshot(ctx context.Context, req *sdk.CallToolRequest, input RestoreSnapshotInput) (*sdk.CallToolResult, RestoreSnapshotOutput, error) {
	if input.Entity == "" {
		return nil, RestoreSnapshotOutput{}, fmt.Errorf("entity is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	target, err := s.findEntity(input.Entity)
	if err != nil {
		return nil, RestoreSnapshotOutput{}, err
	}
	report, err := s.deps.Snapshots.Restore(ctx, target)
	if err != nil {
		return nil, RestoreSnapshotOutput{}, err
	}
	return nil, RestoreSnapshotOutput{
		Target:  report.Target,
		Records: report.Records,
		Applied: append([]string{}, report.Applied...),
		Issues:  issueOutputs(report.Issues),
	}, nil
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input ListEntitiesInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deps.World == nil {
		return nil, ListEntitiesOutput{Entities: []EntitySummaryOutput{}}, nil
	}

	output := make([]EntitySummaryOutput, 0, s.deps.World.Len())
	for _, e := range s.deps.World.Entities() {
		typeName := ""
		if s.deps.Registry != nil {
			if desc, err := s.deps.Registry.Describe(e); err == nil {
				typeName = desc.Name
			}
		}
		if input.Type != "" && typeName != input.Type {
			continue
		}
		output = append(output, EntitySummaryOutput{Name: e.EntityName(), EntityType: typeName})
	}
	return nil, ListEntitiesOutput{Entities: output}, nil
}

func (s *Server) handleBeginSelection(ctx context.Context, req *sdk.CallToolRequest, input BeginSelectionInput) (*sdk.CallToolResult, BeginSelectionOutput, error) {
	if input.Entity == "" {
		return nil, BeginSelectionOutput{}, fmt.Errorf("entity is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	source, err := s.findEntity(input.Entity)
	if err != nil {
		return nil, BeginSelectionOutput{}, err
	}
	session, err := selector.Begin(source, selector.Deps{
		Registry: s.deps.Registry,
		World:    s.deps.World,
		Catalog:  s.deps.Catalog,
		Denylist: s.deps.Snapshots.Denylist(),
		Logger:   &s.logger,
	})
	if err != nil {
		return nil, BeginSelectionOutput{}, err
	}

	out := BeginSelectionOutput{
		SessionID: uuid.NewString(),
		Source:    session.Source,
		Fields:    make([]SelectionFieldOutput, 0, len(session.Entries)),
		Excluded:  append([]string{}, session.Excluded...),
	}
	err = session.Present(selector.PresenterFunc(func(field string, names []string) error {
		e, _ := session.Entry(field)
		out.Fields = append(out.Fields, SelectionFieldOutput{
			Field:      field,
			Category:   e.Category.String(),
			State:      selector.StateAwaitingChoice.String(),
			Candidates: append([]string{}, names...),
		})
		return nil
	}))
	if err != nil {
		return nil, BeginSelectionOutput{}, err
	}

	s.addSession(out.SessionID, session)
	s.logger.Debug().Str("session", out.SessionID).Str("source", session.Source).Msg("selection started")
	return nil, out, nil
}

func (s *Server) handleCommitSelection(ctx context.Context, req *sdk.CallToolRequest, input CommitSelectionInput) (*sdk.CallToolResult, CommitSelectionOutput, error) {
	if input.SessionID == "" || input.Field == "" {
		return nil, CommitSelectionOutput{}, fmt.Errorf("session_id and field are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[input.SessionID]
	if !ok {
		return nil, CommitSelectionOutput{}, fmt.Errorf("selection session not found: %s", input.SessionID)
	}
	outcome, err := session.Commit(input.Field, input.Name)
	if err != nil {
		return nil, CommitSelectionOutput{}, err
	}

	done := session.Done()
	if done {
		s.removeSession(input.SessionID)
	}
	return nil, CommitSelectionOutput{
		Field:  outcome.Field,
		Name:   outcome.Name,
		Status: string(outcome.Status),
		Done:   done,
	}, nil
}

func (s *Server) findEntity(name string) (world.Entity, error) {
	if s.deps.World == nil {
		return nil, fmt.Errorf("entity not found: %s", name)
	}
	e, ok := s.deps.World.Find(name)
	if !ok {
		return nil, fmt.Errorf("entity not found: %s", name)
	}
	return e, nil
}

func issueOutputs(issues []snapshot.Issue) []IssueOutput {
	out := make([]IssueOutput, 0, len(issues))
	for _, issue := range issues {
		out = append(out, IssueOutput{
			Code:    string(issue.Code),
			Record:  issue.Record,
			Entity:  issue.Entity,
			Field:   issue.Field,
			Message: issue.Message,
		})
	}
	return out
}
