package mcp

import (
	"context"
	"errors"
	"testing"

	"worldsave/internal/game"
	"worldsave/internal/meta"
	"worldsave/internal/snapshot"
	"worldsave/internal/world"
)

type mockSnapshots struct {
	captureResult *snapshot.CaptureResult
	captureErr    error
	restoreReport *snapshot.Report
	restoreErr    error

	lastCaptureType string
	lastTarget      any
}

func (m *mockSnapshots) Capture(ctx context.Context, entityType string) (*snapshot.CaptureResult, error) {
	m.lastCaptureType = entityType
	return m.captureResult, m.captureErr
}

func (m *mockSnapshots) Restore(ctx context.Context, target any) (*snapshot.Report, error) {
	m.lastTarget = target
	return m.restoreReport, m.restoreErr
}

func (m *mockSnapshots) Denylist() meta.Denylist {
	return meta.NewDenylist("CanBeDamaged")
}

type fixture struct {
	server *Server
	snaps  *mockSnapshots
	player *game.Character
	chest  *game.Chest
	sword  *game.WeaponAsset
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := game.NewRegistry()
	w := world.New()
	catalog := world.NewCatalog()

	f := &fixture{
		snaps:  &mockSnapshots{},
		player: game.NewCharacter("Player0"),
		chest:  &game.Chest{Actor: world.Actor{Name: "ChestA"}},
		sword:  &game.WeaponAsset{Resource: world.Resource{Name: "Sword"}},
	}
	if err := w.Spawn(f.player); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if err := w.Spawn(f.chest); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if err := catalog.Add(f.sword); err != nil {
		t.Fatalf("add asset: %v", err)
	}
	f.server = NewServer(Deps{
		Snapshots:  f.snaps,
		Registry:   reg,
		World:      w,
		Catalog:    catalog,
		EntityType: game.TypeCharacter,
	}, "test")
	return f
}

func TestCaptureSnapshot(t *testing.T) {
	f := newFixture(t)
	f.snaps.captureResult = &snapshot.CaptureResult{
		EntityType: game.TypeCharacter,
		Document:   &snapshot.Document{Items: []snapshot.Record{{}}},
		Data:       []byte(`{"Items":[{}]}`),
		Issues:     []snapshot.Issue{{Code: snapshot.CodeUnclassifiedField, Record: 0, Field: "Callback", Message: "unclassified"}},
		WriteErr:   errors.New("read-only file system"),
	}

	_, output, err := f.server.handleCaptureSnapshot(context.Background(), nil, CaptureSnapshotInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.snaps.lastCaptureType != game.TypeCharacter {
		t.Fatalf("expected default entity type, got %q", f.snaps.lastCaptureType)
	}
	if output.Items != 1 || output.Bytes != 14 || output.Hash == "" {
		t.Fatalf("unexpected capture output: %+v", output)
	}
	if output.WriteError != "read-only file system" || len(output.Issues) != 1 || output.Issues[0].Code != "unclassified_field" {
		t.Fatalf("unexpected capture output: %+v", output)
	}

	f.snaps.captureErr = errors.New("unknown type")
	if _, _, err := f.server.handleCaptureSnapshot(context.Background(), nil, CaptureSnapshotInput{EntityType: "Dragon"}); err == nil {
		t.Fatalf("expected error")
	}
	if f.snaps.lastCaptureType != "Dragon" {
		t.Fatalf("expected explicit entity type, got %q", f.snaps.lastCaptureType)
	}
}

func TestRestoreSnapshot(t *testing.T) {
	f := newFixture(t)
	f.snaps.restoreReport = &snapshot.Report{
		Target:  "Player0",
		Records: 1,
		Applied: []string{"Health"},
		Issues:  []snapshot.Issue{{Code: snapshot.CodeUnresolvedName, Record: 0, Field: "Inventory", Message: "missing"}},
	}

	_, output, err := f.server.handleRestoreSnapshot(context.Background(), nil, RestoreSnapshotInput{Entity: "Player0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.snaps.lastTarget != f.player {
		t.Fatalf("restore target was not the live entity")
	}
	if output.Target != "Player0" || len(output.Applied) != 1 || len(output.Issues) != 1 {
		t.Fatalf("unexpected restore output: %+v", output)
	}

	if _, _, err := f.server.handleRestoreSnapshot(context.Background(), nil, RestoreSnapshotInput{Entity: "Ghost"}); err == nil {
		t.Fatalf("expected error for missing entity")
	}
	if _, _, err := f.server.handleRestoreSnapshot(context.Background(), nil, RestoreSnapshotInput{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestListEntities(t *testing.T) {
	f := newFixture(t)

	_, output, err := f.server.handleListEntities(context.Background(), nil, ListEntitiesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Entities) != 2 || output.Entities[0].Name != "Player0" || output.Entities[0].EntityType != game.TypeCharacter {
		t.Fatalf("unexpected list output: %+v", output)
	}

	_, output, err = f.server.handleListEntities(context.Background(), nil, ListEntitiesInput{Type: game.TypeChest})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Entities) != 1 || output.Entities[0].Name != "ChestA" {
		t.Fatalf("unexpected filtered output: %+v", output)
	}
}

func TestSelectionFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, begin, err := f.server.handleBeginSelection(ctx, nil, BeginSelectionInput{Entity: "Player0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if begin.SessionID == "" || len(begin.Fields) != 2 {
		t.Fatalf("unexpected begin output: %+v", begin)
	}
	if begin.Fields[0].Field != "Inventory" || begin.Fields[0].Category != "entity" || len(begin.Fields[0].Candidates) != 1 {
		t.Fatalf("unexpected inventory field: %+v", begin.Fields[0])
	}
	if begin.Fields[1].Field != "Weapon" || begin.Fields[1].Candidates[0] != "Sword" {
		t.Fatalf("unexpected weapon field: %+v", begin.Fields[1])
	}
	if len(begin.Excluded) != 1 || begin.Excluded[0] != "Health" {
		t.Fatalf("unexpected exclusions: %v", begin.Excluded)
	}

	_, commit, err := f.server.handleCommitSelection(ctx, nil, CommitSelectionInput{SessionID: begin.SessionID, Field: "Inventory", Name: "Nowhere"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if commit.Status != "unresolved" || commit.Done || f.player.Inventory != nil {
		t.Fatalf("unexpected commit output: %+v", commit)
	}

	_, commit, err = f.server.handleCommitSelection(ctx, nil, CommitSelectionInput{SessionID: begin.SessionID, Field: "Inventory", Name: "ChestA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if commit.Status != "committed" || f.player.Inventory != f.chest {
		t.Fatalf("unexpected commit output: %+v", commit)
	}

	_, commit, err = f.server.handleCommitSelection(ctx, nil, CommitSelectionInput{SessionID: begin.SessionID, Field: "Weapon", Name: "Sword"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !commit.Done || f.player.Weapon != f.sword {
		t.Fatalf("expected finished session, got %+v", commit)
	}

	if _, _, err := f.server.handleCommitSelection(ctx, nil, CommitSelectionInput{SessionID: begin.SessionID, Field: "Weapon", Name: "Sword"}); err == nil {
		t.Fatalf("expected error for finished session")
	}
}

func TestBeginSelection_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, _, err := f.server.handleBeginSelection(context.Background(), nil, BeginSelectionInput{Entity: "Ghost"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBeginSelection_EvictsOldest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i <= maxSessions; i++ {
		_, begin, err := f.server.handleBeginSelection(ctx, nil, BeginSelectionInput{Entity: "Player0"})
		if err != nil {
			t.Fatalf("begin %d: %v", i, err)
		}
		ids = append(ids, begin.SessionID)
	}
	if len(f.server.sessions) != maxSessions {
		t.Fatalf("expected %d open sessions, got %d", maxSessions, len(f.server.sessions))
	}
	if _, _, err := f.server.handleCommitSelection(ctx, nil, CommitSelectionInput{SessionID: ids[0], Field: "Inventory", Name: "ChestA"}); err == nil {
		t.Fatalf("expected oldest session to be evicted")
	}

	last := ids[len(ids)-1]
	for _, in := range []CommitSelectionInput{
		{SessionID: last, Field: "Inventory", Name: "ChestA"},
		{SessionID: last, Field: "Weapon", Name: "Sword"},
	} {
		if _, _, err := f.server.handleCommitSelection(ctx, nil, in); err != nil {
			t.Fatalf("commit %s: %v", in.Field, err)
		}
	}
	if _, ok := f.server.sessions[last]; ok || len(f.server.order) != maxSessions-1 {
		t.Fatalf("expected finished session removed, %d still open", len(f.server.order))
	}
}
