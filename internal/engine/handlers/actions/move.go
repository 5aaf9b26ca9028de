package actions

import (
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine/handlers"
	"dungeon-kernel/pkg/api"
)

// HandleMove - шаг в направлении. Успешный шаг завершает ход,
// упор в стену оставляет ход за актором.
func HandleMove(ctx handlers.Context, p api.DirectionPayload) (handlers.Result, error) {
	dir, _ := domain.ParseDirection(p.Direction)
	return handlers.Changes(ctx.Kernel.Step(ctx.Actor, dir))
}
