package sqlite

import "testing"

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "memory", input: "sqlite://:memory:", expected: ":memory:"},
		{name: "memory with query", input: "sqlite://:memory:?_pragma=foreign_keys(1)", expected: ":memory:?_pragma=foreign_keys(1)"},
		{name: "absolute", input: "sqlite:///var/lib/worldsave.db", expected: "/var/lib/worldsave.db"},
		{name: "explicit relative", input: "sqlite://./saves.db", expected: "./saves.db"},
		{name: "bare relative", input: "sqlite://saves/world.db", expected: "./saves/world.db"},
		{name: "escaped relative", input: "sqlite://my%20saves.db", expected: "./my saves.db"},
		{name: "relative with query", input: "sqlite://saves.db?cache=shared", expected: "./saves.db?cache=shared"},
		{name: "wrong scheme", input: "postgres://localhost/db", wantErr: true},
		{name: "empty path", input: "sqlite://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDSN(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("parseDSN(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
