package systems

import (
	"testing"

	"dungeon-kernel/internal/domain"
)

func TestHasLineOfSight(t *testing.T) {
	w := domain.NewWorld()
	spawnAt(w, stoneWall(), 5, 5)
	spawnAt(w, glassWall(), 5, 8)
	spawnAt(w, domain.Npc{Species: domain.SpeciesGoblin}, 3, 8)

	testCases := []struct {
		name     string
		start    domain.Position
		end      domain.Position
		expected bool
	}{
		{"Clear horizontal line", domain.At(1, 1), domain.At(8, 1), true},
		{"Clear vertical line", domain.At(1, 1), domain.At(1, 8), true},
		{"Clear diagonal line", domain.At(1, 1), domain.At(4, 4), true},
		{"Blocked horizontal line", domain.At(2, 5), domain.At(8, 5), false},
		{"Blocked vertical line", domain.At(5, 2), domain.At(5, 8), false},
		{"Blocked diagonal line", domain.At(3, 3), domain.At(7, 7), false},
		{"Line ending on a wall is visible", domain.At(2, 5), domain.At(5, 5), true},
		{"Line starting on a wall is visible", domain.At(5, 5), domain.At(8, 5), true},
		{"Same point", domain.At(1, 1), domain.At(1, 1), true},
		{"Wall between close points", domain.At(4, 5), domain.At(6, 5), false},
		{"Transparent wall does not block", domain.At(2, 8), domain.At(8, 8), true},
		{"Creatures do not block", domain.At(1, 8), domain.At(4, 8), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if result := HasLineOfSight(w, tc.start, tc.end); result != tc.expected {
				t.Errorf("expected %t, got %t for LOS from %v to %v", tc.expected, result, tc.start, tc.end)
			}
		})
	}
}

func TestBresenhamLine(t *testing.T) {
	testCases := []struct {
		name  string
		start domain.Position
		end   domain.Position
		want  []domain.Position
	}{
		{"Single point", domain.At(2, 2), domain.At(2, 2), []domain.Position{domain.At(2, 2)}},
		{"East", domain.At(0, 0), domain.At(3, 0), []domain.Position{domain.At(0, 0), domain.At(1, 0), domain.At(2, 0), domain.At(3, 0)}},
		{"North", domain.At(0, 0), domain.At(0, -2), []domain.Position{domain.At(0, 0), domain.At(0, -1), domain.At(0, -2)}},
		{"Diagonal", domain.At(0, 0), domain.At(-2, 2), []domain.Position{domain.At(0, 0), domain.At(-1, 1), domain.At(-2, 2)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BresenhamLine(tc.start, tc.end)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestBresenhamLine_Properties(t *testing.T) {
	// Концы на месте, соседние точки отличаются не более чем на 1 по каждой оси
	for x := -6; x <= 6; x++ {
		for y := -6; y <= 6; y++ {
			from, to := domain.At(0, 0), domain.At(x, y)
			line := BresenhamLine(from, to)

			if line[0] != from || line[len(line)-1] != to {
				t.Fatalf("line %v -> %v has wrong endpoints: %v", from, to, line)
			}
			if want := max(abs(x), abs(y)) + 1; len(line) != want {
				t.Fatalf("line %v -> %v has %d points, want %d", from, to, len(line), want)
			}
			for i := 1; i < len(line); i++ {
				if abs(line[i].X-line[i-1].X) > 1 || abs(line[i].Y-line[i-1].Y) > 1 {
					t.Fatalf("line %v -> %v has a gap at %d: %v", from, to, i, line)
				}
			}
		}
	}
}
