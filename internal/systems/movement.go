package systems

import (
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MoveOutcome - причина результата. Отказ не является ошибкой.
type MoveOutcome uint8

const (
	MoveApplied   MoveOutcome = iota // Изменение сформировано
	MoveNoActor                      // Актора нет в мире
	MoveNotPlaced                    // У актора нет позиции
	MoveBlocked                      // В целевой клетке стена
	MoveInvalid                      // Направление не из четырех сторон света
)

func (o MoveOutcome) String() string {
	switch o {
	case MoveApplied:
		return "applied"
	case MoveNoActor:
		return "no_actor"
	case MoveNotPlaced:
		return "not_placed"
	case MoveBlocked:
		return "blocked"
	case MoveInvalid:
		return "invalid_direction"
	}
	return "unknown"
}

// MovementResult - результат вычисления движения
type MovementResult struct {
	Change    *domain.EntityMoved // nil, если движения нет
	Outcome   MoveOutcome
	Target    domain.Position // Клетка, куда пытались шагнуть
	BlockedBy domain.EntityID // Стена, в которую врезались (при MoveBlocked)
}

// ResolveMove вычисляет перемещение сущности на одну клетку. Не меняет состояние мира!
// Применять изменение должен вызывающий.
func ResolveMove(w domain.WorldView, id domain.EntityID, dir domain.Direction) MovementResult {
	moveLogger := logger.Log.WithFields(logrus.Fields{
		"component": "movement_system",
		"entity_id": id,
		"direction": dir,
	})

	actor := w.GetEntity(id)
	if actor == nil {
		moveLogger.Debug("Move rejected: actor not found")
		return MovementResult{Outcome: MoveNoActor}
	}
	if !dir.Valid() {
		moveLogger.Debug("Move rejected: invalid direction")
		return MovementResult{Outcome: MoveInvalid}
	}

	from, placed := actor.Pos()
	if !placed {
		moveLogger.Debug("Move rejected: actor is not placed")
		return MovementResult{Outcome: MoveNotPlaced}
	}

	target := from.Step(dir)
	res := MovementResult{Target: target}

	// Политика столкновений: блокирует только стена, независимо от материала.
	// Остальные сущности могут делить клетку.
	if wall, blocked := FindBlocker(w.EntitiesAt(target)); blocked {
		res.Outcome = MoveBlocked
		res.BlockedBy = wall
		moveLogger.WithFields(logrus.Fields{"to": target, "blocked_by": wall}).Debug("Move blocked by wall")
		return res
	}

	change := domain.NewEntityMoved(id, &from, &target)
	res.Change = &change
	res.Outcome = MoveApplied
	moveLogger.WithField("to", target).Debug("Move resolved")
	return res
}

// FindBlocker ищет среди жильцов клетки того, кто запрещает вход (первую стену).
func FindBlocker(occupants []*domain.Entity) (domain.EntityID, bool) {
	for _, other := range occupants {
		switch other.Kind().(type) {
		case domain.Wall:
			return other.ID(), true
		case domain.Player, domain.Npc, domain.Item, domain.Floor:
			// проходимо
		}
	}
	return 0, false
}
