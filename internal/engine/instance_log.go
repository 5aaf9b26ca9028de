package engine

import (
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// publish журналирует изменения и раздает их подписчикам.
// Вызывается только из горутины инстанса.
func (i *Instance) publish(changes []domain.StateChange) {
	if len(changes) == 0 {
		return
	}
	i.seq++

	update := Update{Seq: i.seq, Changes: changes}
	if cur, ok := i.game.Current(); ok {
		update.Active = &cur
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "game_log",
		"seq":       update.Seq,
		"changes":   len(changes),
	}).Debug("Changes published")

	if i.journal != nil {
		if err := i.journal.Append(update.Seq, changes); err != nil {
			logger.Log.WithError(err).WithField("seq", update.Seq).Warn("Journal append failed")
		}
	}

	i.mu.RLock()
	listeners := i.listeners
	i.mu.RUnlock()
	for _, l := range listeners {
		l(update)
	}
}
