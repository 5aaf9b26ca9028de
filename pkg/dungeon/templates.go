package dungeon

import "dungeon-kernel/internal/domain"

// EntityTemplate определяет шаблон для создания сущности
type EntityTemplate struct {
	Name       string
	Kind       domain.EntityKind
	Attributes domain.CoreAttributes
	Status     domain.Status
	Visible    bool
	Autonomous bool // Нужен мозг (ходит в очереди)
}

// Spec готовит описание сущности для domain.World.Spawn
func (t EntityTemplate) Spec(pos *domain.Position, brain domain.Brain) domain.EntitySpec {
	spec := domain.EntitySpec{
		Kind:       t.Kind,
		Pos:        pos,
		Attributes: t.Attributes,
		Status:     t.Status,
		Visible:    t.Visible,
	}
	if t.Autonomous {
		spec.AI = brain
	}
	return spec
}

// --- СУЩЕСТВА ---

var Hero = EntityTemplate{
	Name:       "hero",
	Kind:       domain.Player{},
	Attributes: domain.DefaultAttributes(),
	Status:     domain.Status{Health: 10, Stamina: 10, Mana: 10, Exhaustion: domain.Rested},
	Visible:    true,
}

var Goblin = EntityTemplate{
	Name:       "goblin",
	Kind:       domain.Npc{Species: domain.SpeciesGoblin},
	Attributes: domain.CoreAttributes{Strength: 4, Speed: 5, Durability: 3, Fortitude: 2, Magic: 0},
	Status:     domain.Status{Health: 2, Stamina: 2, Mana: 0, Exhaustion: domain.Rested},
	Visible:    true,
	Autonomous: true,
}

// --- ОКРУЖЕНИЕ ---

var environmentStatus = domain.Status{Health: 5, Exhaustion: domain.Rested}
var environmentAttributes = domain.CoreAttributes{Durability: 10}

var StoneWall = EntityTemplate{
	Name:       "stone_wall",
	Kind:       domain.Wall{Material: domain.Stone()},
	Attributes: environmentAttributes,
	Status:     environmentStatus,
	Visible:    true,
}

var StoneFloor = EntityTemplate{
	Name:       "stone_floor",
	Kind:       domain.Floor{Material: domain.Stone()},
	Attributes: environmentAttributes,
	Status:     environmentStatus,
	Visible:    true,
}

// --- ПРЕДМЕТЫ ---

var Dagger = EntityTemplate{
	Name: "dagger",
	Kind: domain.Item{Kind: domain.Weapon{Damage: []domain.Damage{
		{Type: domain.DamagePierce, Damage: domain.DieRoll{Count: 1, Dice: domain.D4}},
	}}},
	Status:  domain.Status{Health: 1, Exhaustion: domain.Rested},
	Visible: true,
}

// Templates - реестр шаблонов по имени (для YAML-уровней)
var Templates = map[string]EntityTemplate{
	Hero.Name:       Hero,
	Goblin.Name:     Goblin,
	StoneWall.Name:  StoneWall,
	StoneFloor.Name: StoneFloor,
	Dagger.Name:     Dagger,
}
