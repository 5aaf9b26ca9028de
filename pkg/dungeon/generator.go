package dungeon

import (
	"math/rand"
	"strings"
)

// Константы генерации
const (
	MapWidth  = 40
	MapHeight = 25
	MaxRooms  = 8
	MinSize   = 4
	MaxSize   = 10
)

// RoomsConfig - параметры генератора комнат
type RoomsConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Rooms   int `yaml:"rooms"`
	Goblins int `yaml:"goblins"`
	Items   int `yaml:"items"`
}

// withDefaults подставляет стандартные значения вместо нулей
func (c RoomsConfig) withDefaults() RoomsConfig {
	if c.Width <= 0 {
		c.Width = MapWidth
	}
	if c.Height <= 0 {
		c.Height = MapHeight
	}
	if c.Rooms <= 0 {
		c.Rooms = MaxRooms
	}
	return c
}

// Rect - Вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// GenerateRooms строит ASCII-карту из прямоугольных комнат, соединенных Г-образными коридорами.
// Игрок стоит в центре первой комнаты, гоблины - в остальных.
// Стены ставятся только вокруг проходимых клеток, сплошная порода остается пустой.
func GenerateRooms(cfg RoomsConfig, rng *rand.Rand) string {
	cfg = cfg.withDefaults()

	grid := make([][]byte, cfg.Height)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(string(GlyphEmpty), cfg.Width))
	}

	rooms := make([]Rect, 0, cfg.Rooms)
	for i := 0; i < cfg.Rooms; i++ {
		w := randRange(rng, MinSize, min(MaxSize, cfg.Width-3))
		h := randRange(rng, MinSize, min(MaxSize, cfg.Height-3))
		if cfg.Width-w-2 < 1 || cfg.Height-h-2 < 1 {
			break // Карта слишком мала
		}
		x := randRange(rng, 1, cfg.Width-w-2)
		y := randRange(rng, 1, cfg.Height-h-2)

		newRoom := Rect{X: x, Y: y, W: w, H: h}

		// Проверяем пересечения
		failed := false
		for _, other := range rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		carveRoom(grid, newRoom)

		// Соединяем с предыдущей комнатой
		if len(rooms) > 0 {
			prevX, prevY := rooms[len(rooms)-1].Center()
			currX, currY := newRoom.Center()

			if rng.Intn(2) == 0 {
				carveHCorridor(grid, prevX, currX, prevY)
				carveVCorridor(grid, prevY, currY, currX)
			} else {
				carveVCorridor(grid, prevY, currY, prevX)
				carveHCorridor(grid, prevX, currX, currY)
			}
		}
		rooms = append(rooms, newRoom)
	}

	if len(rooms) > 0 {
		cx, cy := rooms[0].Center()
		grid[cy][cx] = GlyphPlayer
	}

	// Гоблины - в случайных комнатах, кроме первой
	for i := 0; i < cfg.Goblins && len(rooms) > 1; i++ {
		room := rooms[rng.Intn(len(rooms)-1)+1]
		placeOnFloor(grid, room, GlyphGoblin, rng)
	}
	for i := 0; i < cfg.Items && len(rooms) > 0; i++ {
		placeOnFloor(grid, rooms[rng.Intn(len(rooms))], GlyphDagger, rng)
	}

	encloseFloor(grid)

	lines := make([]string, len(grid))
	for y, row := range grid {
		lines[y] = strings.TrimRight(string(row), string(GlyphEmpty))
	}
	return strings.Join(lines, "\n")
}

// --- Вспомогательные функции ---

func carveRoom(grid [][]byte, room Rect) {
	for y := room.Y + 1; y < room.Y+room.H; y++ {
		for x := room.X + 1; x < room.X+room.W; x++ {
			grid[y][x] = GlyphFloor
		}
	}
}

func carveHCorridor(grid [][]byte, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		grid[y][x] = GlyphFloor
	}
}

func carveVCorridor(grid [][]byte, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		grid[y][x] = GlyphFloor
	}
}

// placeOnFloor ставит символ на свободный пол комнаты (максимум 20 попыток)
func placeOnFloor(grid [][]byte, room Rect, glyph byte, rng *rand.Rand) {
	for attempt := 0; attempt < 20; attempt++ {
		x := room.X + 1 + rng.Intn(room.W-1)
		y := room.Y + 1 + rng.Intn(room.H-1)
		if grid[y][x] == GlyphFloor {
			grid[y][x] = glyph
			return
		}
	}
}

// encloseFloor обводит стеной всё проходимое (включая диагонали)
func encloseFloor(grid [][]byte) {
	height := len(grid)
	for y := 0; y < height; y++ {
		for x := 0; x < len(grid[y]); x++ {
			if grid[y][x] != GlyphEmpty {
				continue
			}
			if touchesFloor(grid, x, y) {
				grid[y][x] = GlyphWall
			}
		}
	}
}

func touchesFloor(grid [][]byte, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if ny < 0 || ny >= len(grid) || nx < 0 || nx >= len(grid[ny]) {
				continue
			}
			switch grid[ny][nx] {
			case GlyphFloor, GlyphPlayer, GlyphGoblin, GlyphDagger:
				return true
			}
		}
	}
	return false
}

func randRange(rng *rand.Rand, min, max int) int {
	if max < min {
		return min
	}
	return rng.Intn(max-min+1) + min
}
