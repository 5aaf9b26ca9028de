package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine"
	"dungeon-kernel/pkg/api"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка.
// Все чтения идут через Instance.Query, поэтому не гоняются с циклом.
type DebugHandler struct {
	Instance *engine.Instance
}

func NewDebugHandler(inst *engine.Instance) *DebugHandler {
	return &DebugHandler{Instance: inst}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/queue", h.handleTurnQueue)
	mux.HandleFunc("/debug/replay", h.handleReplay)
}

// /debug/entities - полный дамп реестра, включая скрытые параметры
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	var (
		body []byte
		err  error
	)
	if qerr := h.Instance.Query(r.Context(), func(g *engine.Game) {
		body, err = json.Marshal(g.World.Entities())
	}); qerr != nil {
		http.Error(w, qerr.Error(), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// /debug/queue - очередь ходов с отметкой текущего
func (h *DebugHandler) handleTurnQueue(w http.ResponseWriter, r *http.Request) {
	var dump []map[string]interface{}
	if err := h.Instance.Query(r.Context(), func(g *engine.Game) {
		dump = g.Turns.DebugDump()
	}); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, dump)
}

// /debug/replay - запись партии на текущий момент
func (h *DebugHandler) handleReplay(w http.ResponseWriter, r *http.Request) {
	var session domain.ReplaySession
	if err := h.Instance.Query(r.Context(), func(g *engine.Game) {
		session = *g.Replay
		session.Actions = append([]domain.ReplayAction(nil), g.Replay.Actions...)
		session.Digest = engine.Digest(g)
	}); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, session)
}

// /entities?x=&y= - сущности в клетке
func (s *Server) handleEntitiesAt(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		http.Error(w, "x and y must be integers", http.StatusBadRequest)
		return
	}

	var views []api.EntityView
	if err := s.Instance.Query(r.Context(), func(g *engine.Game) {
		views = g.EntitiesAt(domain.At(x, y))
	}); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, views)
}

// maxVisibleRadius ограничивает /visible: запрос исполняется в горутине инстанса
// и не должен надолго ее занимать.
const maxVisibleRadius = 32

// /visible?radius= - видимые клетки вокруг игрока
func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	radius := domain.VisionRadius
	if raw := r.URL.Query().Get("radius"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "radius must be an integer", http.StatusBadRequest)
			return
		}
		if v < 0 || v > maxVisibleRadius {
			http.Error(w, fmt.Sprintf("radius must be in [0, %d]", maxVisibleRadius), http.StatusBadRequest)
			return
		}
		radius = v
	}

	var cells []domain.Position
	if err := s.Instance.Query(r.Context(), func(g *engine.Game) {
		cells = g.VisibleFrom(radius)
	}); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, cells)
}
