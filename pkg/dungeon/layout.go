package dungeon

import (
	"fmt"
	"strings"

	"dungeon-kernel/internal/domain"
)

// Символы ASCII-карты
const (
	GlyphWall   = '#'
	GlyphFloor  = '.'
	GlyphPlayer = '@'
	GlyphGoblin = 'g'
	GlyphDagger = ')'
	GlyphEmpty  = ' '
)

// Placement - шаблон в конкретной клетке
type Placement struct {
	Template EntityTemplate
	Pos      domain.Position
}

// Layout - разобранная карта. Порядок размещений определяет порядок выдачи id:
// сначала игрок, затем существа, предметы и только потом окружение.
type Layout struct {
	Width, Height int
	Actors        []Placement
	Items         []Placement
	Terrain       []Placement
}

// Placements - все размещения в порядке спавна
func (l *Layout) Placements() []Placement {
	out := make([]Placement, 0, len(l.Actors)+len(l.Items)+len(l.Terrain))
	out = append(out, l.Actors...)
	out = append(out, l.Items...)
	return append(out, l.Terrain...)
}

// ParseLayout разбирает ASCII-карту. Строка - ось Y (сверху вниз), столбец - ось X.
// Пустые строки в начале и в конце отбрасываются.
func ParseLayout(text string) (*Layout, error) {
	rows := strings.Split(strings.Trim(text, "\n"), "\n")

	l := &Layout{Height: len(rows)}
	var player *Placement
	var creatures []Placement

	for y, row := range rows {
		row = strings.TrimRight(row, "\r")
		if len(row) > l.Width {
			l.Width = len(row)
		}
		for x, ch := range row {
			pos := domain.At(x, y)
			switch ch {
			case GlyphEmpty:
			case GlyphWall:
				l.Terrain = append(l.Terrain, Placement{StoneWall, pos})
			case GlyphFloor:
				l.Terrain = append(l.Terrain, Placement{StoneFloor, pos})
			case GlyphPlayer:
				if player != nil {
					return nil, fmt.Errorf("layout: second player at %v (first at %v)", pos, player.Pos)
				}
				player = &Placement{Hero, pos}
				l.Terrain = append(l.Terrain, Placement{StoneFloor, pos})
			case GlyphGoblin:
				creatures = append(creatures, Placement{Goblin, pos})
				l.Terrain = append(l.Terrain, Placement{StoneFloor, pos})
			case GlyphDagger:
				l.Items = append(l.Items, Placement{Dagger, pos})
				l.Terrain = append(l.Terrain, Placement{StoneFloor, pos})
			default:
				return nil, fmt.Errorf("layout: unknown glyph %q at %v", ch, pos)
			}
		}
	}

	if player != nil {
		l.Actors = append(l.Actors, *player)
	}
	l.Actors = append(l.Actors, creatures...)
	return l, nil
}

// BasicLayout - отладочный уровень: комната со стеной посередине,
// игрок в (0,0), гоблин в (5,0), пол во всех свободных клетках внутри.
func BasicLayout() *Layout {
	l := &Layout{Width: 13, Height: 9}
	l.Actors = []Placement{
		{Hero, domain.At(0, 0)},
		{Goblin, domain.At(5, 0)},
	}

	walls := make(map[domain.Position]bool)
	addWall := func(x, y int) {
		pos := domain.At(x, y)
		walls[pos] = true
		l.Terrain = append(l.Terrain, Placement{StoneWall, pos})
	}

	for y := -4; y < 4; y++ {
		addWall(-4, y)
	}
	for y := -4; y < 5; y++ {
		addWall(8, y)
	}
	for x := -4; x < 8; x++ {
		addWall(x, 4)
	}
	for x := -4; x < 8; x++ {
		addWall(x, -4)
	}
	for y := -1; y < 5; y++ {
		addWall(3, y)
	}

	for y := -3; y < 4; y++ {
		for x := -3; x < 8; x++ {
			if pos := domain.At(x, y); !walls[pos] {
				l.Terrain = append(l.Terrain, Placement{StoneFloor, pos})
			}
		}
	}
	return l
}

// ArenaLayout - небольшая арена с колоннами и двумя гоблинами
const ArenaLayout = `
###########
#.........#
#.@...#...#
#.....#.g.#
#..)......#
#.#.....#.#
#.....g...#
###########
`

// BuiltinLayout возвращает встроенную карту по имени
func BuiltinLayout(name string) (*Layout, error) {
	switch name {
	case "", "basic":
		return BasicLayout(), nil
	case "arena":
		return ParseLayout(ArenaLayout)
	}
	return nil, fmt.Errorf("layout: unknown builtin %q", name)
}
