package network

import (
	"sync"

	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"

	"github.com/google/uuid"
)

const sessionBuffer = 100

// Broadcaster занимается только рассылкой сообщений подписчикам.
// Ключ - ID сессии (websocket-клиент или встроенный агент).
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
	}
}

// Register открывает новую сессию и возвращает ее ID и личный канал
func (b *Broadcaster) Register() (string, <-chan api.ServerResponse) {
	id := uuid.NewString()
	ch := make(chan api.ServerResponse, sessionBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	logger.Log.WithField("session", id).Debug("Session registered")
	return id, ch
}

// Unregister закрывает канал сессии. Повторный вызов ничего не делает.
func (b *Broadcaster) Unregister(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[sessionID]; ok {
		close(ch)
		delete(b.subscribers, sessionID)
		logger.Log.WithField("session", sessionID).Debug("Session unregistered")
	}
}

// SendTo отправляет сообщение одной сессии (Unicast).
// Переполненный канал не блокирует отправителя: сообщение теряется.
func (b *Broadcaster) SendTo(sessionID string, msg api.ServerResponse) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[sessionID]
	if !ok {
		return false
	}
	return b.offer(sessionID, ch, msg)
}

// Broadcast отправляет всем сессиям
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		b.offer(id, ch, msg)
	}
}

func (b *Broadcaster) offer(id string, ch chan api.ServerResponse, msg api.ServerResponse) bool {
	select {
	case ch <- msg:
		return true
	default:
		logger.Log.WithField("session", id).Warn("Hub: channel full, message dropped")
		return false
	}
}

func (b *Broadcaster) HasSubscriber(sessionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[sessionID]
	return ok
}

// SubscriberCount возвращает количество активных сессий.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
