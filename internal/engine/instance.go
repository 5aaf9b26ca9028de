package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine/handlers"
	"dungeon-kernel/internal/engine/handlers/actions"
	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	// ErrInstanceStopped - цикл инстанса уже завершился
	ErrInstanceStopped = errors.New("engine: instance stopped")
	// ErrInstanceRunning - Run уже вызывали
	ErrInstanceRunning = errors.New("engine: instance already running")
)

const requestBuffer = 64

// Command - намерение от конкретного актора
type Command struct {
	Actor  domain.EntityID
	Intent domain.Intent
}

// Update - пачка изменений, которую инстанс рассылает подписчикам
type Update struct {
	Seq     uint64
	Changes []domain.StateChange
	Active  *domain.EntityID
}

// Listener вызывается из горутины инстанса и не должен блокироваться.
type Listener func(Update)

// ChangeSink - журнал изменений (см. storage.Journal)
type ChangeSink interface {
	Append(seq uint64, changes []domain.StateChange) error
}

// ReplayStore сохраняет запись сессии (см. storage.ReplayService)
type ReplayStore interface {
	Save(session *domain.ReplaySession) (string, error)
}

// Состояния запроса. Переход из pending возможен ровно один раз:
// либо цикл берет запрос в работу, либо вызывающий от него отказывается.
const (
	requestPending int32 = iota
	requestRunning
	requestCancelled
)

type request struct {
	ctx   context.Context
	fn    func(g *Game)
	done  chan struct{}
	state atomic.Int32
}

// claim переводит запрос в работу. false - вызывающий уже ушел.
func (r *request) claim() bool {
	if r.ctx.Err() != nil {
		r.state.CompareAndSwap(requestPending, requestCancelled)
	}
	return r.state.CompareAndSwap(requestPending, requestRunning)
}

// Instance владеет Game: все мутации идут через одну горутину (Run).
type Instance struct {
	game     *Game
	handlers handlers.Registry
	requests chan *request
	stopped  chan struct{}
	running  atomic.Bool

	journal ChangeSink
	replays ReplayStore

	mu        sync.RWMutex
	listeners []Listener

	seq  uint64
	once sync.Once
}

type InstanceOption func(*Instance)

func WithJournal(sink ChangeSink) InstanceOption {
	return func(i *Instance) { i.journal = sink }
}

func WithReplayStore(store ReplayStore) InstanceOption {
	return func(i *Instance) { i.replays = store }
}

func NewInstance(game *Game, opts ...InstanceOption) *Instance {
	i := &Instance{
		game:     game,
		handlers: actions.NewRegistry(),
		requests: make(chan *request, requestBuffer),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// OnChanges подписывает слушателя на все последующие изменения.
func (i *Instance) OnChanges(l Listener) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.listeners = append(i.listeners, l)
}

// Run открывает первый ход и обслуживает запросы, пока не отменят ctx.
// При выходе запечатывает и сохраняет запись сессии. Повторный вызов - ErrInstanceRunning.
func (i *Instance) Run(ctx context.Context) error {
	if !i.running.CompareAndSwap(false, true) {
		return ErrInstanceRunning
	}

	log := logger.Log.WithFields(logrus.Fields{
		"component": "instance",
		"session":   i.game.Replay.ID,
	})
	log.Info("Instance loop started")

	i.publish(i.game.Start())
	defer i.finish(log)

	for {
		select {
		case <-ctx.Done():
			log.Info("Instance loop stopped")
			return nil
		case req := <-i.requests:
			if req.claim() {
				req.fn(i.game)
			}
			close(req.done)
		}
	}
}

// Submit исполняет намерение от имени актора.
func (i *Instance) Submit(ctx context.Context, cmd Command) ([]domain.StateChange, error) {
	var (
		changes []domain.StateChange
		err     error
	)
	execErr := i.exec(ctx, func(g *Game) {
		changes, err = g.Perform(cmd.Actor, cmd.Intent)
		if err == nil {
			i.publish(changes)
		}
	})
	if execErr != nil {
		return nil, execErr
	}
	return changes, err
}

// Dispatch исполняет команду клиента через реестр хендлеров.
func (i *Instance) Dispatch(ctx context.Context, actor domain.EntityID, cmd api.ClientCommand) (handlers.Result, error) {
	action := domain.ParseAction(cmd.Action)
	handler, ok := i.handlers[action]
	if !ok {
		return handlers.Result{}, fmt.Errorf("%w: %s", ErrUnknownAction, cmd.Action)
	}

	var (
		res handlers.Result
		err error
	)
	execErr := i.exec(ctx, func(g *Game) {
		res, err = handler(handlers.Context{Kernel: g, Actor: actor}, cmd.Payload)
		if err == nil && len(res.Changes) > 0 {
			i.publish(res.Changes)
		}
	})
	if execErr != nil {
		return handlers.Result{}, execErr
	}
	return res, err
}

// Query выполняет fn в горутине инстанса. fn не должна сохранять ссылку на Game.
func (i *Instance) Query(ctx context.Context, fn func(g *Game)) error {
	return i.exec(ctx, fn)
}

// Snapshot - удобная обертка над Query
func (i *Instance) Snapshot(ctx context.Context) (*api.Snapshot, error) {
	var snap *api.Snapshot
	err := i.Query(ctx, func(g *Game) { snap = g.BuildSnapshot() })
	return snap, err
}

// Done закрывается, когда Run завершился.
func (i *Instance) Done() <-chan struct{} {
	return i.stopped
}

// exec ставит fn в очередь инстанса. Пока запрос не взят в работу, его можно
// отменить через ctx; взятый запрос всегда дожидается завершения, так что fn
// не трогает переменные вызывающего после возврата.
func (i *Instance) exec(ctx context.Context, fn func(g *Game)) error {
	req := &request{ctx: ctx, fn: fn, done: make(chan struct{})}

	select {
	case i.requests <- req:
	case <-i.stopped:
		return ErrInstanceStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
	case <-i.stopped:
		if req.state.CompareAndSwap(requestPending, requestCancelled) {
			return ErrInstanceStopped
		}
		<-req.done
	case <-ctx.Done():
		if req.state.CompareAndSwap(requestPending, requestCancelled) {
			return ctx.Err()
		}
		<-req.done
	}

	if req.state.Load() != requestRunning {
		return ctx.Err()
	}
	return nil
}

func (i *Instance) finish(log *logrus.Entry) {
	i.once.Do(func() {
		close(i.stopped)

		session := i.game.Seal()
		if i.replays != nil && len(session.Actions) > 0 {
			path, err := i.replays.Save(session)
			if err != nil {
				log.WithError(err).Error("Failed to save replay")
			} else {
				log.WithField("path", path).Info("Replay saved")
			}
		}
		if c, ok := i.journal.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				log.WithError(err).Warn("Failed to close journal")
			}
		}
	})
}

// Response - Update в виде ответа протокола
func (u Update) Response() api.ServerResponse {
	return api.ServerResponse{
		Type:           api.TypeChanges,
		ActiveEntityID: u.Active,
		Changes:        u.Changes,
	}
}
