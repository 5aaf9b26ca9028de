package engine

import (
	"fmt"
	"math/rand"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/systems"
	"dungeon-kernel/pkg/dungeon"

	"gopkg.in/yaml.v3"
)

// Scenario - всё, что нужно для детерминированной пересборки мира.
// Сериализуется в реплей целиком, поэтому ссылок на файлы не содержит.
type Scenario struct {
	Seed  int64       `yaml:"seed"`
	Level LevelConfig `yaml:"level"`
	AI    AIConfig    `yaml:"ai"`
}

// Scenario раскрывает конфиг: файл уровня читается и встраивается как map + spawns.
func (c Config) Scenario() (Scenario, error) {
	s := Scenario{Seed: c.Seed, Level: c.Level, AI: c.AI}
	if c.Level.File != "" && c.Level.Generator == nil {
		lf, err := dungeon.LoadLevelFile(c.Level.File)
		if err != nil {
			return s, err
		}
		s.Level.File = ""
		s.Level.Map = lf.Map
		s.Level.Spawns = append(lf.Spawns, c.Level.Spawns...)
	}
	return s, nil
}

// Encode - YAML-представление для записи в реплей
func (s Scenario) Encode() (string, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode scenario: %w", err)
	}
	return string(b), nil
}

// DecodeScenario - обратное к Encode
func DecodeScenario(text string) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal([]byte(text), &s); err != nil {
		return s, fmt.Errorf("decode scenario: %w", err)
	}
	return s, nil
}

// BuildWorld создает уровень, сущности и игрока.
func BuildWorld(s Scenario) (*domain.World, error) {
	rng := rand.New(rand.NewSource(s.Seed))
	b := dungeon.NewLevel(rng).WithBrains(NewBrainFactory(s.AI, s.Seed))

	switch {
	case s.Level.Generator != nil:
		b.WithRooms(*s.Level.Generator)
	case s.Level.Map != "":
		b.WithASCII(s.Level.Map)
	default:
		b.WithBuiltin(s.Level.Layout)
	}
	for _, sp := range s.Level.Spawns {
		b.Spawn(sp.Template, domain.At(sp.X, sp.Y))
	}

	world, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	return world, nil
}

// NewBrainFactory выдает мозги по политике. Каждое существо получает
// свой генератор: seed+1, seed+2, ... в порядке спавна.
func NewBrainFactory(ai AIConfig, seed int64) dungeon.BrainFactory {
	next := seed
	return func(dungeon.EntityTemplate) domain.Brain {
		next++
		switch ai.Policy {
		case PolicyIdle:
			return systems.Idle{}
		case PolicyStalker:
			return systems.Stalker{Radius: ai.Radius, Fallback: systems.NewRandomWalker(next)}
		default:
			return systems.NewRandomWalker(next)
		}
	}
}
