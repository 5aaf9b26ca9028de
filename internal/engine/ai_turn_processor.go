package engine

import (
	"fmt"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// worldView - только чтение. ИИ не получает *domain.World напрямую.
type worldView struct {
	w *domain.World
}

func (v worldView) GetEntity(id domain.EntityID) *domain.Entity   { return v.w.GetEntity(id) }
func (v worldView) EntitiesAt(p domain.Position) []*domain.Entity { return v.w.EntitiesAt(p) }
func (v worldView) PlayerID() (domain.EntityID, bool)             { return v.w.PlayerID() }

// runAITurn спрашивает у мозга сущности намерение и применяет его.
// Любой сбой мозга превращается в пропуск хода: очередь не должна вставать.
func (g *Game) runAITurn(id domain.EntityID, changes []domain.StateChange) []domain.StateChange {
	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ai_turn",
		"entity_id": id,
	})

	npc := g.World.GetEntity(id)
	if npc == nil || npc.AI == nil {
		aiLogger.Debug("No brain attached. Action: WAIT")
		return changes
	}

	intent, err := decide(npc.AI, id, worldView{w: g.World})
	if err != nil {
		aiLogger.WithError(err).Warn("AI failed to decide. Action: WAIT")
		return changes
	}

	switch intent.Action {
	case domain.ActionMove:
		aiLogger.WithField("direction", intent.Direction).Debug("AI moves")
		return g.applyMove(id, intent.Direction, changes)
	case domain.ActionWait, domain.ActionEndTurn:
		aiLogger.Debug("AI waits")
	default:
		aiLogger.WithField("action", intent.Action).Warn("AI returned unsupported action. Action: WAIT")
	}
	return changes
}

// decide изолирует панику внешней реализации мозга
func decide(brain domain.Brain, id domain.EntityID, view domain.WorldView) (intent domain.Intent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("brain panic: %v", r)
		}
	}()
	return brain.Decide(id, view)
}
