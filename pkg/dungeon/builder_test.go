package dungeon

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"dungeon-kernel/internal/domain"
)

type stubBrain struct{}

func (stubBrain) Decide(domain.EntityID, domain.WorldView) (domain.Intent, error) {
	return domain.SkipIntent(), nil
}

func TestLevelBuilder_Basic(t *testing.T) {
	world, err := NewLevel(rand.New(rand.NewSource(1))).
		WithBrains(func(EntityTemplate) domain.Brain { return stubBrain{} }).
		WithBuiltin("basic").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	playerID, ok := world.PlayerID()
	if !ok || playerID != 0 {
		t.Fatalf("Expected player with id 0, got %v (%t)", playerID, ok)
	}

	goblin := world.GetEntity(1)
	if goblin == nil {
		t.Fatal("Goblin with id 1 not found")
	}
	if _, isNpc := goblin.Kind().(domain.Npc); !isNpc {
		t.Errorf("Expected Npc, got %s", goblin.Kind().Name())
	}
	if goblin.AI == nil {
		t.Error("Goblin must get a brain")
	}
	if goblin.Attributes.Speed != 5 || goblin.Status.Health != 2 {
		t.Errorf("Goblin stats do not match template: %+v %+v", goblin.Attributes, goblin.Status)
	}
	if world.GetEntity(playerID).AI != nil {
		t.Error("Player must not get a brain")
	}

	if world.Len() != 121 {
		t.Errorf("Expected 121 entities, got %d", world.Len())
	}
}

func TestLevelBuilder_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := NewLevel(rng).WithASCII("#.g.#").Build(); !errors.Is(err, ErrNoPlayer) {
		t.Errorf("Expected ErrNoPlayer, got %v", err)
	}
	if _, err := NewLevel(rng).Build(); err == nil {
		t.Error("Expected error without layout")
	}
	if _, err := NewLevel(rng).WithBuiltin("basic").Spawn("dragon", domain.At(1, 1)).Build(); err == nil ||
		!strings.Contains(err.Error(), "dragon") {
		t.Errorf("Expected unknown template error, got %v", err)
	}
	if _, err := NewLevel(rng).WithBuiltin("basic").Spawn("hero", domain.At(1, 1)).Build(); err == nil {
		t.Error("Expected error for a second player")
	}
}

func TestLevelBuilder_Rooms(t *testing.T) {
	world, err := NewLevel(rand.New(rand.NewSource(3))).
		WithRooms(RoomsConfig{Goblins: 2}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	playerID, _ := world.PlayerID()
	pos, placed := world.GetEntity(playerID).Pos()
	if !placed {
		t.Fatal("Player must be placed")
	}
	for _, e := range world.EntitiesAt(pos) {
		if domain.IsWall(e.Kind()) {
			t.Errorf("Player spawned inside a wall at %v", pos)
		}
	}
}
