package domain

import "encoding/json"

// Entity - запись о сущности. Владелец всех записей - World.
// Идентификатор и вид задаются при создании и больше не меняются.
// Ссылки на другие сущности не хранятся: связи разрешаются запросом к World.
type Entity struct {
	id   EntityID
	kind EntityKind
	pos  *Position // nil - сущность не размещена в мире (например, предмет в инвентаре)

	Attributes CoreAttributes
	Status     Status

	// Visible и Discovered меняет только движок видимости
	Visible    bool
	Discovered bool

	// AI есть только у автономных акторов
	AI Brain
}

// EntitySpec - описание сущности без идентификатора.
// Мир превращает его в Entity, выдавая свежий ID (см. World.Spawn).
type EntitySpec struct {
	Kind       EntityKind
	Pos        *Position
	Attributes CoreAttributes
	Status     Status
	Visible    bool
	Discovered bool
	AI         Brain
}

// NewEntity создает сущность с заданным ID
func NewEntity(id EntityID, kind EntityKind, pos *Position) *Entity {
	e := &Entity{id: id, kind: kind, Attributes: DefaultAttributes()}
	if pos != nil {
		e.SetPos(*pos)
	}
	return e
}

// WithID собирает Entity из спецификации
func (s EntitySpec) WithID(id EntityID) *Entity {
	e := &Entity{
		id:         id,
		kind:       s.Kind,
		Attributes: s.Attributes,
		Status:     s.Status,
		Visible:    s.Visible,
		Discovered: s.Discovered,
		AI:         s.AI,
	}
	if s.Pos != nil {
		e.SetPos(*s.Pos)
	}
	return e
}

func (e *Entity) ID() EntityID {
	return e.id
}

func (e *Entity) Kind() EntityKind {
	return e.kind
}

// Pos возвращает позицию и признак размещения
func (e *Entity) Pos() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}
	return *e.pos, true
}

// PosPtr возвращает копию позиции (nil, если не размещена)
func (e *Entity) PosPtr() *Position {
	if e.pos == nil {
		return nil
	}
	p := *e.pos
	return &p
}

// SetPos размещает сущность в клетке
func (e *Entity) SetPos(p Position) {
	e.pos = &p
}

// ClearPos убирает сущность с карты (не удаляя из мира)
func (e *Entity) ClearPos() {
	e.pos = nil
}

// IsAt - стоит ли сущность ровно в этой клетке
func (e *Entity) IsAt(p Position) bool {
	return e.pos != nil && *e.pos == p
}

type entityJSON struct {
	ID         EntityID       `json:"id"`
	Kind       EntityKind     `json:"kind"`
	Pos        *Position      `json:"pos"`
	Attributes CoreAttributes `json:"attributes"`
	Status     Status         `json:"status"`
	Visible    bool           `json:"visible"`
	Discovered bool           `json:"discovered"`
	HasAI      bool           `json:"has_ai,omitempty"`
}

// MarshalJSON - read-only представление для моста и отладки
func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(entityJSON{
		ID:         e.id,
		Kind:       e.kind,
		Pos:        e.pos,
		Attributes: e.Attributes,
		Status:     e.Status,
		Visible:    e.Visible,
		Discovered: e.Discovered,
		HasAI:      e.AI != nil,
	})
}
