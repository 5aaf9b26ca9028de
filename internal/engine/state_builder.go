package engine

import (
	"sort"
	"strconv"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/systems"
	"dungeon-kernel/pkg/api"
)

// BuildSnapshot создает "снимок" мира для клиента: все сущности, очередь ходов и видимые клетки.
// Туман войны решает клиент по флагам Visible/Discovered.
func (g *Game) BuildSnapshot() *api.Snapshot {
	snap := &api.Snapshot{
		TurnOrder: g.Turns.Order(),
		Entities:  make([]api.EntityView, 0, g.World.Len()),
		Visible:   make([]domain.Position, 0, len(g.visible)),
		Digest:    strconv.FormatUint(Digest(g), 16),
	}
	if playerID, ok := g.World.PlayerID(); ok {
		snap.PlayerID = &playerID
	}

	for _, e := range g.World.Entities() {
		snap.Entities = append(snap.Entities, ToEntityView(e))
	}

	for p := range g.visible {
		snap.Visible = append(snap.Visible, p)
	}
	sortPositions(snap.Visible)

	return snap
}

// EntitiesAt - DTO сущностей в клетке
func (g *Game) EntitiesAt(pos domain.Position) []api.EntityView {
	found := g.World.EntitiesAt(pos)
	out := make([]api.EntityView, 0, len(found))
	for _, e := range found {
		out = append(out, ToEntityView(e))
	}
	return out
}

// VisibleFrom - видимые клетки от позиции игрока с произвольным радиусом (флаги не трогает)
func (g *Game) VisibleFrom(radius int) []domain.Position {
	playerID, ok := g.World.PlayerID()
	if !ok {
		return nil
	}
	player := g.World.GetEntity(playerID)
	if player == nil {
		return nil
	}
	origin, placed := player.Pos()
	if !placed {
		return nil
	}

	cells := systems.VisibleCells(g.World, origin, radius)
	out := make([]domain.Position, 0, len(cells))
	for p := range cells {
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

// ToEntityView переводит сущность в DTO
func ToEntityView(e *domain.Entity) api.EntityView {
	glyph := Glyph(e.Kind())
	view := api.EntityView{
		ID:         e.ID(),
		Kind:       e.Kind().Name(),
		Glyph:      glyph.Symbol(),
		Color:      glyph.HexColor(),
		Pos:        e.PosPtr(),
		Visible:    e.Visible,
		Discovered: e.Discovered,
		Blocks:     domain.BlocksVision(e.Kind()),
	}
	if npc, ok := e.Kind().(domain.Npc); ok {
		view.Species = npc.Species.String()
	}
	return view
}

// Палитра текстовых клиентов
const (
	colorPlayer = 0xFFD700
	colorGoblin = 0x3CB371
	colorNpc    = 0xCD853F
	colorItem   = 0x4682B4
	colorWall   = 0xA9A9A9
	colorFloor  = 0x505050
)

// Glyph - цветной символ сущности для текстовых клиентов
func Glyph(kind domain.EntityKind) api.Glyph {
	switch k := kind.(type) {
	case domain.Player:
		return api.MakeGlyph(colorPlayer, '@')
	case domain.Npc:
		if k.Species == domain.SpeciesGoblin {
			return api.MakeGlyph(colorGoblin, 'g')
		}
		return api.MakeGlyph(colorNpc, 'h')
	case domain.Item:
		return api.MakeGlyph(colorItem, ')')
	case domain.Wall:
		return api.MakeGlyph(colorWall, '#')
	case domain.Floor:
		return api.MakeGlyph(colorFloor, '.')
	}
	return api.MakeGlyph(0xFF0000, '?')
}

// sortPositions - построчно: сначала Y, затем X
func sortPositions(ps []domain.Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
}
