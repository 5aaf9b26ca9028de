package actions

import "dungeon-kernel/internal/engine/handlers"

func HandleWait(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Changes(ctx.Kernel.Skip(ctx.Actor))
}

func HandleEndTurn(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Changes(ctx.Kernel.EndTurn(ctx.Actor))
}
