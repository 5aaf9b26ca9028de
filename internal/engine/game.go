package engine

import (
	"errors"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/systems"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNotYourTurn - команда пришла не от текущего актора
	ErrNotYourTurn = errors.New("engine: not your turn")
	// ErrUnknownEntity - у сессии нет сущности, которой можно управлять
	ErrUnknownEntity = errors.New("engine: unknown entity")
	// ErrUnknownAction - намерение, которое ядро не умеет исполнять
	ErrUnknownAction = errors.New("engine: unknown action")
)

// Game - ядро симуляции: реестр + очередь ходов.
// Не потокобезопасно: владеть им должна одна горутина (см. Instance).
type Game struct {
	World        *domain.World
	Turns        *TurnManager
	VisionRadius int
	Replay       *domain.ReplaySession

	started bool
	visible map[domain.Position]bool
}

// NewGame собирает очередь ходов: игрок первым, затем все сущности с ИИ по возрастанию id.
func NewGame(world *domain.World, replay *domain.ReplaySession) *Game {
	g := &Game{
		World:        world,
		Turns:        NewTurnManager(),
		VisionRadius: domain.VisionRadius,
		Replay:       replay,
		visible:      make(map[domain.Position]bool),
	}
	if g.Replay == nil {
		g.Replay = &domain.ReplaySession{}
	}

	var actors []domain.EntityID
	for _, e := range world.Entities() {
		if e.AI != nil && !world.IsPlayer(e.ID()) {
			actors = append(actors, e.ID())
		}
	}

	if playerID, ok := world.PlayerID(); ok {
		g.Turns.Initialize(playerID, actors)
	} else if len(actors) > 0 {
		g.Turns.Initialize(actors[0], actors[1:])
	}

	return g
}

// Start открывает первый ход. Повторный вызов ничего не делает.
func (g *Game) Start() []domain.StateChange {
	if g.started {
		return nil
	}
	g.started = true

	changes := g.advance(nil)
	g.refreshVisibility()
	g.logStep("start", changes)
	return changes
}

// Started - был ли уже открыт первый ход
func (g *Game) Started() bool {
	return g.started
}

// Current - чей сейчас ход
func (g *Game) Current() (domain.EntityID, bool) {
	return g.Turns.Current()
}

// Move двигает текущего актора на клетку. Ход не завершается.
// Упор в стену - не ошибка, а пустой список изменений.
func (g *Game) Move(id domain.EntityID, dir domain.Direction) ([]domain.StateChange, error) {
	if err := g.checkTurn(id); err != nil {
		return nil, err
	}
	g.record(id, domain.MoveIntent(dir))

	changes := g.applyMove(id, dir, nil)
	g.refreshVisibility()
	g.logStep("move", changes)
	return changes, nil
}

// EndTurn завершает ход актора и прокручивает ходы ИИ до игрока.
func (g *Game) EndTurn(id domain.EntityID) ([]domain.StateChange, error) {
	if err := g.checkTurn(id); err != nil {
		return nil, err
	}
	g.record(id, domain.Intent{Action: domain.ActionEndTurn})

	changes := g.endTurn(id, nil)
	g.refreshVisibility()
	g.logStep("end_turn", changes)
	return changes, nil
}

// Skip - пропуск хода без действия
func (g *Game) Skip(id domain.EntityID) ([]domain.StateChange, error) {
	if err := g.checkTurn(id); err != nil {
		return nil, err
	}
	g.record(id, domain.SkipIntent())

	changes := g.endTurn(id, nil)
	g.refreshVisibility()
	g.logStep("skip", changes)
	return changes, nil
}

// Step - шаг с завершением хода. Если шаг не удался, ход остается за актором.
func (g *Game) Step(id domain.EntityID, dir domain.Direction) ([]domain.StateChange, error) {
	if err := g.checkTurn(id); err != nil {
		return nil, err
	}
	// В запись попадают элементарные шаги: MOVE и, если он удался, END_TURN
	g.record(id, domain.MoveIntent(dir))

	changes := g.applyMove(id, dir, nil)
	if len(changes) > 0 {
		g.record(id, domain.Intent{Action: domain.ActionEndTurn})
		changes = g.endTurn(id, changes)
	}
	g.refreshVisibility()
	g.logStep("step", changes)
	return changes, nil
}

// Perform исполняет намерение актора. INIT изменений не дает.
func (g *Game) Perform(id domain.EntityID, intent domain.Intent) ([]domain.StateChange, error) {
	switch intent.Action {
	case domain.ActionMove:
		return g.Step(id, intent.Direction)
	case domain.ActionWait:
		return g.Skip(id)
	case domain.ActionEndTurn:
		return g.EndTurn(id)
	case domain.ActionInit:
		return nil, nil
	}
	return nil, ErrUnknownAction
}

// Despawn атомарно убирает сущность из реестра и из очереди.
// Если она ходила, ход передается дальше.
func (g *Game) Despawn(id domain.EntityID) []domain.StateChange {
	e := g.World.GetEntity(id)
	if e == nil {
		g.Turns.Remove(id)
		return nil
	}

	wasCurrent := g.Turns.IsCurrent(id)

	var changes []domain.StateChange
	if from, placed := e.Pos(); placed {
		changes = append(changes, domain.NewEntityMoved(id, &from, nil))
	}
	g.World.Remove(id)
	g.Turns.Remove(id)

	if wasCurrent && g.started {
		changes = g.advance(changes)
	}
	g.refreshVisibility()
	g.logStep("despawn", changes)
	return changes
}

// RunPending доигрывает ход ИИ, если он остался текущим
// (например, после исчерпания лимита авто-ходов).
func (g *Game) RunPending() []domain.StateChange {
	current, ok := g.Turns.Current()
	if !ok || g.isInteractive(current) {
		return nil
	}
	changes := g.runAITurn(current, nil)
	changes = g.endTurn(current, changes)
	g.refreshVisibility()
	g.logStep("pending", changes)
	return changes
}

// VisibleCells - клетки, которые сейчас видит игрок
func (g *Game) VisibleCells() map[domain.Position]bool {
	out := make(map[domain.Position]bool, len(g.visible))
	for p := range g.visible {
		out[p] = true
	}
	return out
}

func (g *Game) checkTurn(id domain.EntityID) error {
	if !g.Turns.IsCurrent(id) {
		current, _ := g.Turns.Current()
		logger.Log.WithFields(logrus.Fields{
			"component": "game",
			"entity_id": id,
			"current":   current,
		}).Warn("Command rejected: not entity's turn")
		return ErrNotYourTurn
	}
	return nil
}

// applyMove вычисляет шаг и сразу применяет его к реестру
func (g *Game) applyMove(id domain.EntityID, dir domain.Direction, changes []domain.StateChange) []domain.StateChange {
	res := systems.ResolveMove(g.World, id, dir)
	if res.Change == nil {
		return changes
	}
	g.apply(*res.Change)
	return append(changes, *res.Change)
}

func (g *Game) apply(change domain.StateChange) {
	moved, ok := change.(domain.EntityMoved)
	if !ok {
		return
	}
	e := g.World.GetEntity(moved.EntityID)
	if e == nil {
		return
	}
	if moved.To == nil {
		e.ClearPos()
		return
	}
	e.SetPos(*moved.To)
}

func (g *Game) endTurn(id domain.EntityID, changes []domain.StateChange) []domain.StateChange {
	changes = append(changes, domain.TurnEnded{EntityID: id})
	return g.advance(changes)
}

// advance - явный цикл вместо рекурсии: передаем ход, пока не дойдем до игрока.
// За один вызов ИИ делает не больше len(queue) ходов, так что очередь без игрока
// тоже завершается (текущим остается очередной ИИ, см. RunPending).
func (g *Game) advance(changes []domain.StateChange) []domain.StateChange {
	budget := g.Turns.Len()

	for {
		next, ok := g.Turns.NextTurn()
		if !ok {
			return changes
		}
		changes = append(changes, domain.TurnStarted{EntityID: next})

		if g.isInteractive(next) || budget == 0 {
			return changes
		}
		budget--

		changes = g.runAITurn(next, changes)
		changes = append(changes, domain.TurnEnded{EntityID: next})
	}
}

// isInteractive - управляется ли сущность человеком
func (g *Game) isInteractive(id domain.EntityID) bool {
	return g.World.IsPlayer(id)
}

func (g *Game) record(id domain.EntityID, intent domain.Intent) {
	g.Replay.Actions = append(g.Replay.Actions, domain.ReplayAction{
		Seq:       len(g.Replay.Actions),
		Actor:     id,
		Action:    intent.Action,
		Direction: intent.Direction,
	})
}

// refreshVisibility пересчитывает видимость относительно игрока
func (g *Game) refreshVisibility() {
	playerID, ok := g.World.PlayerID()
	if !ok {
		return
	}
	player := g.World.GetEntity(playerID)
	if player == nil {
		return
	}
	origin, placed := player.Pos()
	if !placed {
		return
	}
	g.visible = systems.UpdateVisibility(g.World, origin, g.VisionRadius)
}

func (g *Game) logStep(op string, changes []domain.StateChange) {
	current, _ := g.Turns.Current()
	logger.Log.WithFields(logrus.Fields{
		"component": "game",
		"op":        op,
		"changes":   len(changes),
		"current":   current,
	}).Debug("Step processed")
}
