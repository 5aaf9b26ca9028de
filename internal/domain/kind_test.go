package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBlocksVision(t *testing.T) {
	tests := []struct {
		name string
		kind EntityKind
		want bool
	}{
		{"stone wall", Wall{Material: Stone()}, true},
		{"flesh wall", Wall{Material: MaterialFlesh.Material()}, false},
		{"stone floor", Floor{Material: Stone()}, false},
		{"player", Player{}, false},
		{"goblin", Npc{Species: SpeciesGoblin}, false},
		{"item", Item{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BlocksVision(tt.kind); got != tt.want {
				t.Errorf("BlocksVision(%s) = %v, want %v", tt.kind.Name(), got, tt.want)
			}
		})
	}
}

func TestIsWall(t *testing.T) {
	// Стена из "проходимого" материала все равно стена
	if !IsWall(Wall{Material: MaterialFlesh.Material()}) {
		t.Error("any Wall must be a wall")
	}
	if IsWall(Floor{Material: Stone()}) {
		t.Error("floor is not a wall")
	}
}

func TestEntity_MarshalJSON(t *testing.T) {
	pos := At(2, 3)
	e := NewEntity(5, Npc{Species: SpeciesGoblin}, &pos)

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"id":"5"`, `"type":"Npc"`, `"species":"Goblin"`, `"x":2`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}

	unplaced := NewEntity(6, Item{}, nil)
	data, err = json.Marshal(unplaced)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"pos":null`) {
		t.Errorf("unplaced entity should serialize pos as null: %s", data)
	}
}

func TestEntity_PositionIsCopied(t *testing.T) {
	pos := At(1, 1)
	e := NewEntity(1, Player{}, &pos)
	pos.X = 50

	got, ok := e.Pos()
	if !ok || got != At(1, 1) {
		t.Errorf("entity position aliased caller's value: %v", got)
	}

	p := e.PosPtr()
	p.X = 77
	if got, _ := e.Pos(); got.X != 1 {
		t.Error("PosPtr must return a copy")
	}
}
