package domain

import "encoding/json"

// EntityKind - закрытый набор вариантов того, что занимает клетку:
// Player, Npc, Item, Wall, Floor. Разбирается через type switch.
type EntityKind interface {
	// Name - короткое имя варианта для логов и протокола
	Name() string
	isEntityKind()
}

// SpeciesKind - вид существа для Npc
type SpeciesKind uint8

const (
	SpeciesHuman SpeciesKind = iota + 1
	SpeciesGoblin
)

func (s SpeciesKind) String() string {
	switch s {
	case SpeciesHuman:
		return "Human"
	case SpeciesGoblin:
		return "Goblin"
	}
	return "Unknown"
}

func (s SpeciesKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

type (
	// Player - сущность под управлением человека
	Player struct{}

	// Npc - автономное существо
	Npc struct {
		Species SpeciesKind `json:"species"`
	}

	// Item - предмет (лежит на полу или в инвентаре)
	Item struct {
		Kind ItemKind `json:"kind"`
	}

	// Wall - стена. Политика столкновений по умолчанию считает ее непроходимой всегда.
	Wall struct {
		Material Material `json:"material"`
	}

	// Floor - пол. Никогда не блокирует движение.
	Floor struct {
		Material Material `json:"material"`
	}
)

func (Player) isEntityKind() {}
func (Npc) isEntityKind()    {}
func (Item) isEntityKind()   {}
func (Wall) isEntityKind()   {}
func (Floor) isEntityKind()  {}

func (Player) Name() string { return "Player" }
func (Npc) Name() string    { return "Npc" }
func (Item) Name() string   { return "Item" }
func (Wall) Name() string   { return "Wall" }
func (Floor) Name() string  { return "Floor" }

// Сериализация с тегом "type", как ждут клиенты моста.

func (k Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{k.Name()})
}

func (k Npc) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string      `json:"type"`
		Species SpeciesKind `json:"species"`
	}{k.Name(), k.Species})
}

func (k Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string   `json:"type"`
		Kind ItemKind `json:"kind"`
	}{k.Name(), k.Kind})
}

func (k Wall) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string   `json:"type"`
		Material Material `json:"material"`
	}{k.Name(), k.Material})
}

func (k Floor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string   `json:"type"`
		Material Material `json:"material"`
	}{k.Name(), k.Material})
}

// IsWall сообщает, является ли вид стеной
func IsWall(k EntityKind) bool {
	_, ok := k.(Wall)
	return ok
}

// BlocksVision - true только для стены из непрозрачного материала
func BlocksVision(k EntityKind) bool {
	switch v := k.(type) {
	case Wall:
		return v.Material.BlocksVision
	case Player, Npc, Item, Floor:
		return false
	}
	return false
}
