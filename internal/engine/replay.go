package engine

import (
	"errors"
	"fmt"
	"time"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrDigestMismatch - повтор партии привел к другому состоянию
var ErrDigestMismatch = errors.New("engine: replay digest mismatch")

// NewGameFromConfig собирает мир по конфигу и открывает новую запись партии
func NewGameFromConfig(cfg Config) (*Game, error) {
	scenario, err := cfg.Scenario()
	if err != nil {
		return nil, err
	}
	world, err := BuildWorld(scenario)
	if err != nil {
		return nil, err
	}
	layout, err := scenario.Encode()
	if err != nil {
		return nil, err
	}

	g := NewGame(world, &domain.ReplaySession{
		ID:        uuid.NewString(),
		Seed:      scenario.Seed,
		Layout:    layout,
		Timestamp: time.Now().Unix(),
		Actions:   make([]domain.ReplayAction, 0),
	})
	g.VisionRadius = cfg.VisionRadius
	return g, nil
}

// Seal фиксирует хеш текущего состояния в записи партии
func (g *Game) Seal() *domain.ReplaySession {
	g.Replay.Digest = Digest(g)
	return g.Replay
}

// Replay пересобирает мир из записи, повторяет все действия и сверяет хеш.
// Нулевой Digest в записи означает "не проверять".
func Replay(session *domain.ReplaySession) (*Game, error) {
	replayLogger := logger.Log.WithFields(logrus.Fields{
		"component": "replay",
		"session":   session.ID,
		"actions":   len(session.Actions),
	})

	scenario, err := DecodeScenario(session.Layout)
	if err != nil {
		return nil, err
	}
	world, err := BuildWorld(scenario)
	if err != nil {
		return nil, err
	}

	g := NewGame(world, nil)
	g.Start()

	for _, act := range session.Actions {
		if _, err := g.replayAction(act); err != nil {
			return g, fmt.Errorf("replay action %d (%s by %s): %w", act.Seq, act.Action, act.Actor, err)
		}
	}

	if session.Digest != 0 {
		if got := Digest(g); got != session.Digest {
			replayLogger.WithFields(logrus.Fields{"want": session.Digest, "got": got}).Error("Replay diverged")
			return g, fmt.Errorf("%w: want %x, got %x", ErrDigestMismatch, session.Digest, got)
		}
	}

	replayLogger.Info("Replay finished")
	return g, nil
}

// replayAction - элементарные действия пишутся как есть, поэтому MOVE здесь не завершает ход
func (g *Game) replayAction(act domain.ReplayAction) ([]domain.StateChange, error) {
	switch act.Action {
	case domain.ActionMove:
		return g.Move(act.Actor, act.Direction)
	case domain.ActionWait:
		return g.Skip(act.Actor)
	case domain.ActionEndTurn:
		return g.EndTurn(act.Actor)
	}
	return nil, ErrUnknownAction
}
