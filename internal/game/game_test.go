package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"worldsave/internal/meta"
)

func TestRegister(t *testing.T) {
	reg := NewRegistry()

	desc, ok := reg.Lookup(TypeCharacter)
	if !ok {
		t.Fatalf("character not registered")
	}
	tests := []struct {
		field    string
		category meta.Category
		persist  bool
	}{
		{"Health", meta.CategoryPrimitive, true},
		{"Inventory", meta.CategoryEntity, true},
		{"Weapon", meta.CategoryObject, true},
		{"CanBeDamaged", meta.CategoryPrimitive, true},
		{"Location", meta.CategoryPrimitive, false},
		{"BaseTurnRate", meta.CategoryPrimitive, false},
	}
	for _, tt := range tests {
		field, ok := desc.Field(tt.field)
		if !ok {
			t.Fatalf("missing field %s", tt.field)
		}
		if field.Category != tt.category || field.Persist != tt.persist {
			t.Fatalf("%s: got %s persist=%v", tt.field, field.Category, field.Persist)
		}
	}

	c := desc.New().(*Character)
	if c.Health != DefaultHealth || c.BaseTurnRate != DefaultTurnRate || !c.CanBeDamaged {
		t.Fatalf("unexpected defaults %+v", c)
	}

	if err := Register(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

// near compares with an absolute tolerance; rotated axes carry noise around zero.
func near(got, want mgl64.Vec3) bool {
	return got.Sub(want).Len() < 1e-9
}

func TestMovement(t *testing.T) {
	c := NewCharacter("Player0")

	c.MoveForward(1)
	c.MoveRight(0)
	if got := c.ConsumeMovement(); !near(got, mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("forward at yaw 0: %v", got)
	}
	if got := c.ConsumeMovement(); got != (mgl64.Vec3{}) {
		t.Fatalf("expected cleared input, got %v", got)
	}

	c.Yaw = 90
	c.Pitch = 60
	c.MoveForward(2)
	if got := c.ConsumeMovement(); !near(got, mgl64.Vec3{0, 2, 0}) {
		t.Fatalf("forward at yaw 90: %v", got)
	}
	c.MoveRight(1)
	if got := c.ConsumeMovement(); !near(got, mgl64.Vec3{-1, 0, 0}) {
		t.Fatalf("right at yaw 90: %v", got)
	}

	c.Yaw = 0
	c.MoveForward(1)
	c.MoveRight(1)
	if got := c.Step(); !near(got, mgl64.Vec3{1, 1, 0}) {
		t.Fatalf("unexpected location %v", got)
	}
}

func TestRates(t *testing.T) {
	c := NewCharacter("Player0")
	c.TurnAtRate(1, 0.5)
	c.LookUpAtRate(-0.5, 1)
	if c.Yaw != 22.5 || c.Pitch != -22.5 {
		t.Fatalf("unexpected rotation yaw=%v pitch=%v", c.Yaw, c.Pitch)
	}

	c.Jump()
	if !c.Jumping {
		t.Fatalf("expected jumping")
	}
	c.StopJumping()
	if c.Jumping {
		t.Fatalf("expected not jumping")
	}
}
