package dungeon

import (
	"errors"
	"fmt"
	"math/rand"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrNoPlayer - на карте нет игрока
var ErrNoPlayer = errors.New("dungeon: layout has no player")

// BrainFactory выдает мозг для каждого автономного существа
type BrainFactory func(template EntityTemplate) domain.Brain

// LevelBuilder предоставляет fluent API для создания уровней.
// Первая ошибка запоминается, остальные шаги после нее пропускаются.
type LevelBuilder struct {
	rng    *rand.Rand
	brains BrainFactory
	layout *Layout
	extra  []Placement
	err    error
}

// NewLevel создает новый builder для уровня
func NewLevel(rng *rand.Rand) *LevelBuilder {
	return &LevelBuilder{rng: rng}
}

// WithBrains задает фабрику мозгов. Без нее автономные существа стоят на месте.
func (b *LevelBuilder) WithBrains(f BrainFactory) *LevelBuilder {
	b.brains = f
	return b
}

// WithBuiltin берет встроенную карту по имени
func (b *LevelBuilder) WithBuiltin(name string) *LevelBuilder {
	if b.err != nil {
		return b
	}
	b.layout, b.err = BuiltinLayout(name)
	return b
}

// WithASCII разбирает ASCII-карту
func (b *LevelBuilder) WithASCII(text string) *LevelBuilder {
	if b.err != nil {
		return b
	}
	b.layout, b.err = ParseLayout(text)
	return b
}

// WithRooms генерирует комнаты и коридоры
func (b *LevelBuilder) WithRooms(cfg RoomsConfig) *LevelBuilder {
	if b.err != nil {
		return b
	}
	return b.WithASCII(GenerateRooms(cfg, b.rng))
}

// Spawn добавляет сущность из шаблона поверх карты
func (b *LevelBuilder) Spawn(templateName string, pos domain.Position) *LevelBuilder {
	if b.err != nil {
		return b
	}
	template, ok := Templates[templateName]
	if !ok {
		b.err = fmt.Errorf("dungeon: unknown template %q", templateName)
		return b
	}
	b.extra = append(b.extra, Placement{template, pos})
	return b
}

// Build собирает и возвращает готовый мир
func (b *LevelBuilder) Build() (*domain.World, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.layout == nil {
		return nil, errors.New("dungeon: no layout selected")
	}

	world := domain.NewWorld()
	for _, p := range append(b.layout.Placements(), b.extra...) {
		pos := p.Pos
		var brain domain.Brain
		if p.Template.Autonomous && b.brains != nil {
			brain = b.brains(p.Template)
		}

		e := world.Spawn(p.Template.Spec(&pos, brain))
		if _, isPlayer := p.Template.Kind.(domain.Player); isPlayer {
			if _, exists := world.PlayerID(); exists {
				return nil, fmt.Errorf("dungeon: second player at %v", pos)
			}
			world.SetPlayerID(e.ID())
		}
	}

	if _, ok := world.PlayerID(); !ok {
		return nil, ErrNoPlayer
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "level_builder",
		"entities":  world.Len(),
		"width":     b.layout.Width,
		"height":    b.layout.Height,
	}).Debug("Level built")

	return world, nil
}
