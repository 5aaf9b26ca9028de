package actions

import (
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine/handlers"
)

// HandleInit отдает клиенту полный снимок мира. Очередь не трогает.
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{Snapshot: ctx.Kernel.BuildSnapshot()}, nil
}

// Register заполняет реестр стандартными командами.
func Register(r handlers.Registry) {
	r[domain.ActionInit] = handlers.WithEmptyPayload(HandleInit)
	r[domain.ActionMove] = handlers.WithPayload(HandleMove)
	r[domain.ActionWait] = handlers.WithEmptyPayload(HandleWait)
	r[domain.ActionEndTurn] = handlers.WithEmptyPayload(HandleEndTurn)
}

// NewRegistry - реестр со всеми стандартными командами
func NewRegistry() handlers.Registry {
	r := make(handlers.Registry)
	Register(r)
	return r
}
