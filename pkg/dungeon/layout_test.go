package dungeon

import (
	"testing"

	"dungeon-kernel/internal/domain"
)

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout(ArenaLayout)
	if err != nil {
		t.Fatalf("ParseLayout failed: %v", err)
	}

	if l.Width != 11 || l.Height != 8 {
		t.Errorf("Expected 11x8, got %dx%d", l.Width, l.Height)
	}
	if len(l.Actors) != 3 {
		t.Fatalf("Expected player and two goblins, got %d actors", len(l.Actors))
	}
	if l.Actors[0].Template.Name != Hero.Name || l.Actors[0].Pos != domain.At(2, 2) {
		t.Errorf("Expected hero at (2, 2) first, got %s at %v", l.Actors[0].Template.Name, l.Actors[0].Pos)
	}
	if l.Actors[1].Pos != domain.At(8, 3) || l.Actors[2].Pos != domain.At(6, 6) {
		t.Errorf("Goblins must follow in reading order, got %v and %v", l.Actors[1].Pos, l.Actors[2].Pos)
	}
	if len(l.Items) != 1 || l.Items[0].Pos != domain.At(3, 4) {
		t.Errorf("Expected a dagger at (3, 4), got %v", l.Items)
	}

	// Под существами и предметами лежит пол
	floorAt := make(map[domain.Position]bool)
	for _, p := range l.Terrain {
		if p.Template.Name == StoneFloor.Name {
			floorAt[p.Pos] = true
		}
	}
	for _, p := range append(l.Actors, l.Items...) {
		if !floorAt[p.Pos] {
			t.Errorf("No floor under %s at %v", p.Template.Name, p.Pos)
		}
	}
}

func TestParseLayout_Errors(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{"Unknown glyph", "#@?#"},
		{"Two players", "#@.@#"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseLayout(tc.text); err == nil {
				t.Errorf("Expected error for %q", tc.text)
			}
		})
	}
}

func TestBasicLayout(t *testing.T) {
	l := BasicLayout()

	if l.Actors[0].Pos != domain.At(0, 0) || l.Actors[1].Pos != domain.At(5, 0) {
		t.Errorf("Unexpected actor placement: %v", l.Actors)
	}

	walls, floors := 0, 0
	wallAt := make(map[domain.Position]bool)
	for _, p := range l.Terrain {
		switch p.Template.Name {
		case StoneWall.Name:
			walls++
			wallAt[p.Pos] = true
		case StoneFloor.Name:
			floors++
		}
	}

	if walls != 47 {
		t.Errorf("Expected 47 wall segments, got %d", walls)
	}
	if floors != 72 {
		t.Errorf("Expected 72 floor tiles, got %d", floors)
	}
	for y := -1; y < 4; y++ {
		if !wallAt[domain.At(3, y)] {
			t.Errorf("Middle wall missing at (3, %d)", y)
		}
	}
	if wallAt[domain.At(3, -2)] {
		t.Error("Middle wall must leave a gap at (3, -2)")
	}
}

func TestBuiltinLayout(t *testing.T) {
	for _, name := range []string{"", "basic", "arena"} {
		if _, err := BuiltinLayout(name); err != nil {
			t.Errorf("BuiltinLayout(%q) failed: %v", name, err)
		}
	}
	if _, err := BuiltinLayout("nope"); err == nil {
		t.Error("Expected error for unknown layout")
	}
}
