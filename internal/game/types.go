package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"worldsave/internal/meta"
	"worldsave/internal/world"
)

// Type names used in scene and manifest files.
const (
	TypeCharacter = "Character"
	TypeChest     = "Chest"
	TypeWeapon    = "Weapon"
	TypeMaterial  = "Material"
)

const (
	DefaultHealth   = 100
	DefaultTurnRate = 45
)

// Chest is a placeable container entity.
type Chest struct {
	world.Actor
	Gold     int        `save:"persist"`
	Items    []string   `save:"persist"`
	Location mgl64.Vec3 `save:"persist"`
}

// WeaponAsset is a catalog weapon definition.
type WeaponAsset struct {
	world.Resource
	Damage float64   `save:"persist"`
	Skin   *Material `save:"persist"`
}

// Material is a catalog surface definition.
type Material struct {
	world.Resource
	Color string `save:"persist"`
}

// Character is the playable entity.
type Character struct {
	world.Actor

	Health       float64      `save:"persist"`
	Inventory    *Chest       `save:"persist"`
	Weapon       *WeaponAsset `save:"persist"`
	CanBeDamaged bool         `save:"persist"`

	BaseTurnRate   float64
	BaseLookUpRate float64
	Yaw            float64
	Pitch          float64
	Jumping        bool
	Location       mgl64.Vec3

	pending mgl64.Vec3
}

// NewCharacter returns a character with default rates and full health.
func NewCharacter(name string) *Character {
	return &Character{
		Actor:          world.Actor{Name: name},
		Health:         DefaultHealth,
		CanBeDamaged:   true,
		BaseTurnRate:   DefaultTurnRate,
		BaseLookUpRate: DefaultTurnRate,
	}
}

// Register adds the game types to reg.
func Register(reg *meta.Registry) error {
	prototypes := []struct {
		name      string
		prototype any
	}{
		{TypeCharacter, NewCharacter("")},
		{TypeChest, &Chest{}},
		{TypeWeapon, &WeaponAsset{}},
		{TypeMaterial, &Material{}},
	}
	for _, p := range prototypes {
		if _, err := reg.Register(p.name, p.prototype); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the game types.
func NewRegistry() *meta.Registry {
	reg := meta.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}
