package handlers

import (
	"encoding/json"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/api"
)

// Kernel - то, что хендлеру нужно от ядра.
// engine.Game неявно реализует этот интерфейс.
type Kernel interface {
	Step(id domain.EntityID, dir domain.Direction) ([]domain.StateChange, error)
	Skip(id domain.EntityID) ([]domain.StateChange, error)
	EndTurn(id domain.EntityID) ([]domain.StateChange, error)
	BuildSnapshot() *api.Snapshot
}

// Context передает хендлеру ядро и того, кто выполняет команду.
type Context struct {
	Kernel Kernel
	Actor  domain.EntityID
}

// Result - результат выполнения команды.
// Хендлер ничего не рассылает сам, он возвращает данные.
type Result struct {
	Changes  []domain.StateChange
	Snapshot *api.Snapshot // только для INIT
}

// HandlerFunc - контракт для любой команды (MOVE, WAIT, ...).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// Registry сопоставляет действие и хендлер.
type Registry map[domain.ActionType]HandlerFunc

// EmptyResult - пустой успешный ответ
func EmptyResult() Result {
	return Result{}
}

// Changes оборачивает список изменений в Result, пробрасывая ошибку.
func Changes(changes []domain.StateChange, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Result{Changes: changes}, nil
}
