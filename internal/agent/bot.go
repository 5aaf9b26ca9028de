package agent

import (
	"context"
	"errors"
	"time"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine"
	"dungeon-kernel/internal/network"
	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

const DefaultDelay = 500 * time.Millisecond

// Bot - "игрок-компьютер" (headless agent).
// Слушает хаб как обычная сессия и, когда ход переходит к его сущности,
// спрашивает у Brain намерение и отправляет его в Instance.
//
// Жизненный цикл:
//  1. NewBot -> Run в отдельной горутине, регистрация в хабе.
//  2. Сообщение с ActiveEntityID == EntityID -> makeMove.
//  3. makeMove: MOVE со сменой хода; если шаг уперся в стену - WAIT.
type Bot struct {
	EntityID domain.EntityID
	Instance *engine.Instance
	Hub      *network.Broadcaster
	Brain    domain.Brain
	Delay    time.Duration // Пауза перед ходом, чтобы за игрой можно было следить

	log *logrus.Entry
}

func NewBot(entityID domain.EntityID, inst *engine.Instance, hub *network.Broadcaster, brain domain.Brain) *Bot {
	return &Bot{
		EntityID: entityID,
		Instance: inst,
		Hub:      hub,
		Brain:    brain,
		Delay:    DefaultDelay,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "bot",
			"entity_id": entityID,
		}),
	}
}

// Run слушает хаб до отмены ctx или остановки инстанса.
func (b *Bot) Run(ctx context.Context) error {
	sessionID, inbox := b.Hub.Register()
	defer b.Hub.Unregister(sessionID)
	b.log.Info("Agent started")

	// Стартовая рассылка могла пройти до регистрации
	if b.myTurn(ctx) {
		if err := b.makeMove(ctx); err != nil {
			return ignoreStop(err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			b.log.Info("Agent shut down")
			return nil
		case <-b.Instance.Done():
			return nil
		case event, ok := <-inbox:
			if !ok {
				return nil
			}
			if !b.isActive(event) {
				continue
			}
			if err := b.makeMove(ctx); err != nil {
				return ignoreStop(err)
			}
		}
	}
}

func (b *Bot) isActive(event api.ServerResponse) bool {
	return event.Type == api.TypeChanges && event.ActiveEntityID != nil && *event.ActiveEntityID == b.EntityID
}

func (b *Bot) myTurn(ctx context.Context) bool {
	var mine bool
	_ = b.Instance.Query(ctx, func(g *engine.Game) {
		mine = g.Turns.IsCurrent(b.EntityID)
	})
	return mine
}

// makeMove - решение принимается в горутине инстанса, где мир согласован
func (b *Bot) makeMove(ctx context.Context) error {
	if b.Delay > 0 {
		select {
		case <-time.After(b.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var (
		intent domain.Intent
		err    error
	)
	if qerr := b.Instance.Query(ctx, func(g *engine.Game) {
		intent, err = b.Brain.Decide(b.EntityID, g.World)
	}); qerr != nil {
		return qerr
	}
	if err != nil {
		b.log.WithError(err).Warn("Brain failed. Waiting")
		intent = domain.SkipIntent()
	}

	changes, err := b.Instance.Submit(ctx, engine.Command{Actor: b.EntityID, Intent: intent})
	if err != nil {
		if errors.Is(err, engine.ErrNotYourTurn) {
			return nil
		}
		return err
	}

	// Шаг в стену не завершает ход: пропускаем, чтобы игра шла дальше
	if intent.Action == domain.ActionMove && len(changes) == 0 {
		b.log.WithField("direction", intent.Direction).Debug("Blocked. Waiting")
		_, err = b.Instance.Submit(ctx, engine.Command{Actor: b.EntityID, Intent: domain.SkipIntent()})
	}
	if errors.Is(err, engine.ErrNotYourTurn) {
		return nil
	}
	return err
}

func ignoreStop(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, engine.ErrInstanceStopped) {
		return nil
	}
	return err
}
