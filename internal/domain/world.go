package domain

import (
	"fmt"
	"sort"
)

// World - реестр сущностей и аллокатор идентификаторов.
// Единственный владелец всех записей Entity.
type World struct {
	entities map[EntityID]*Entity
	nextID   EntityID

	// exhausted взводится, когда выдан MaxEntityID: дальше выдавать нечего
	exhausted bool

	playerID  EntityID
	hasPlayer bool
}

func NewWorld() *World {
	return &World{
		entities: make(map[EntityID]*Entity),
	}
}

// AllocateID возвращает следующий идентификатор. Переполнение - фатальная ошибка программы.
func (w *World) AllocateID() EntityID {
	if w.exhausted {
		panic("domain: entity id space exhausted")
	}
	id := w.nextID
	w.advancePast(id)
	return id
}

func (w *World) advancePast(id EntityID) {
	if id == MaxEntityID {
		w.exhausted = true
		return
	}
	if id >= w.nextID {
		w.nextID = id + 1
	}
}

// Insert кладет сущность в реестр. Повторная вставка того же ID - ошибка программы.
// ID, выданный не аллокатором, сдвигает аллокатор вперед, чтобы он не выдал его повторно.
func (w *World) Insert(e *Entity) {
	if _, exists := w.entities[e.ID()]; exists {
		panic(fmt.Sprintf("domain: entity %s already registered", e.ID()))
	}
	if e.ID() >= w.nextID && !w.exhausted {
		w.advancePast(e.ID())
	}
	w.entities[e.ID()] = e
}

// Spawn выдает новый ID, собирает сущность и регистрирует ее
func (w *World) Spawn(spec EntitySpec) *Entity {
	e := spec.WithID(w.AllocateID())
	w.Insert(e)
	return e
}

// Remove удаляет запись. Отсутствующий ID - не ошибка.
func (w *World) Remove(id EntityID) {
	delete(w.entities, id)
}

// GetEntity ищет сущность по ID (nil, если нет)
func (w *World) GetEntity(id EntityID) *Entity {
	return w.entities[id]
}

// Has - есть ли запись с таким ID
func (w *World) Has(id EntityID) bool {
	_, ok := w.entities[id]
	return ok
}

// EntitiesAt возвращает все сущности, стоящие ровно в pos, по возрастанию ID.
// Полный проход по реестру: миры маленькие, пространственный индекс не нужен.
func (w *World) EntitiesAt(pos Position) []*Entity {
	var out []*Entity
	for _, e := range w.entities {
		if e.IsAt(pos) {
			out = append(out, e)
		}
	}
	sortByID(out)
	return out
}

// Entities возвращает все сущности по возрастанию ID
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, e)
	}
	sortByID(out)
	return out
}

func (w *World) Len() int {
	return len(w.entities)
}

// SetPlayerID назначает сущность, которой управляет человек
func (w *World) SetPlayerID(id EntityID) {
	w.playerID = id
	w.hasPlayer = true
}

// PlayerID возвращает ID игрока, если он назначен
func (w *World) PlayerID() (EntityID, bool) {
	return w.playerID, w.hasPlayer
}

// IsPlayer - управляется ли сущность человеком
func (w *World) IsPlayer(id EntityID) bool {
	return w.hasPlayer && w.playerID == id
}

func sortByID(entities []*Entity) {
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].ID() < entities[j].ID()
	})
}
