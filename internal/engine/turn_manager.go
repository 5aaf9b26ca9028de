package engine

import (
	"fmt"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// TurnManager решает, чей сейчас ход.
// Инвариант: current, если задан, всегда стоит в голове очереди.
type TurnManager struct {
	queue      TurnQueue
	current    domain.EntityID
	hasCurrent bool
}

func NewTurnManager() *TurnManager {
	return &TurnManager{queue: make(TurnQueue, 0)}
}

// Initialize сбрасывает очередь. first всегда открывает порядок ходов,
// остальные идут следом в переданном порядке (повторы first отбрасываются).
func (tm *TurnManager) Initialize(first domain.EntityID, others []domain.EntityID) {
	tm.queue = make(TurnQueue, 0, len(others)+1)
	tm.queue.PushBack(first)
	for _, id := range others {
		if id == first {
			continue
		}
		tm.queue.PushBack(id)
	}
	tm.hasCurrent = false
	tm.current = 0

	logger.Log.WithFields(logrus.Fields{
		"component": "turn_manager",
		"first":     first,
		"size":      tm.queue.Len(),
	}).Debug("Turn order initialized")
}

// Add ставит сущность в конец очереди. Повторное добавление ничего не меняет.
func (tm *TurnManager) Add(id domain.EntityID) {
	if tm.queue.Contains(id) {
		return
	}
	tm.queue.PushBack(id)
	logger.Log.WithField("entity_id", id).Debug("Entity added to TurnManager")
}

// Remove убирает сущность из очереди (например, при смерти).
// Если она ходила, текущий актор сбрасывается.
func (tm *TurnManager) Remove(id domain.EntityID) {
	if !tm.queue.Remove(id) {
		return
	}
	if tm.hasCurrent && tm.current == id {
		tm.hasCurrent = false
		tm.current = 0
	}
	logger.Log.WithField("entity_id", id).Debug("Entity removed from TurnManager")
}

// NextTurn передает ход следующему.
// Первый вызов после сброса отдает голову очереди без прокрутки.
func (tm *TurnManager) NextTurn() (domain.EntityID, bool) {
	if tm.queue.Len() == 0 {
		tm.hasCurrent = false
		tm.current = 0
		return 0, false
	}

	if tm.hasCurrent {
		if front, _ := tm.queue.Front(); front != tm.current {
			panic(fmt.Sprintf("engine: current actor %s is not at the head of the turn queue", tm.current))
		}
		tm.queue.Rotate()
	}

	tm.current, _ = tm.queue.Front()
	tm.hasCurrent = true
	return tm.current, true
}

// Current - чей ход сейчас. Без побочных эффектов.
func (tm *TurnManager) Current() (domain.EntityID, bool) {
	return tm.current, tm.hasCurrent
}

// IsCurrent - ходит ли сейчас id
func (tm *TurnManager) IsCurrent(id domain.EntityID) bool {
	return tm.hasCurrent && tm.current == id
}

func (tm *TurnManager) Contains(id domain.EntityID) bool {
	return tm.queue.Contains(id)
}

func (tm *TurnManager) Len() int {
	return tm.queue.Len()
}

// Order - копия очереди, начиная с головы
func (tm *TurnManager) Order() []domain.EntityID {
	return tm.queue.Clone()
}

// DebugDump возвращает снимок очереди для отладки
func (tm *TurnManager) DebugDump() []map[string]interface{} {
	// Инициализируем как пустой слайс, а не nil. Тогда в JSON это будет "[]", а не "null"
	result := make([]map[string]interface{}, 0, tm.queue.Len())

	for idx, id := range tm.queue {
		result = append(result, map[string]interface{}{
			"id":      id,
			"index":   idx,
			"current": tm.IsCurrent(id),
		})
	}
	return result
}
