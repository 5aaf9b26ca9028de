package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine"
	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	commandTimeout = 5 * time.Second
)

// ErrSpectator - сессия только наблюдает и не может командовать
var ErrSpectator = errors.New("server: spectator session")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и Instance
type Client struct {
	srv       *Server
	Conn      *websocket.Conn
	Send      chan api.ServerResponse
	SessionID string

	done chan struct{} // закрывается при выходе writePump

	entityID  domain.EntityID
	hasEntity bool
	log       *logrus.Entry
}

func NewClient(srv *Server, conn *websocket.Conn) *Client {
	return &Client{
		srv:  srv,
		Conn: conn,
		Send: make(chan api.ServerResponse, 256),
		done: make(chan struct{}),
	}
}

// readPump читает команды клиента и исполняет их через Instance
func (c *Client) readPump() {
	sessionID, updates := c.srv.Hub.Register()
	c.SessionID = sessionID
	c.log = logger.Log.WithFields(logrus.Fields{
		"component": "ws_client",
		"session":   sessionID,
	})

	// Пересылка рассылок хаба в writePump. Канал хаба закрывается в Unregister.
	go c.forward(updates)

	defer func() {
		c.srv.Hub.Unregister(c.SessionID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	c.bindPlayer()
	c.log.WithField("entity_id", c.entityID).Info("Client connected")

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			return
		}
		c.handle(data)
	}
}

// forward перекладывает сообщения хаба в Send, пока жив writePump
func (c *Client) forward(updates <-chan api.ServerResponse) {
	for msg := range updates {
		select {
		case c.Send <- msg:
		case <-c.done:
			return
		}
	}
	close(c.Send)
}

// bindPlayer запоминает сущность игрока, которой управляет сессия
func (c *Client) bindPlayer() {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	err := c.srv.Instance.Query(ctx, func(g *engine.Game) {
		c.entityID, c.hasEntity = g.World.PlayerID()
	})
	if err != nil {
		c.log.WithError(err).Warn("Failed to resolve player entity")
	}
}

func (c *Client) handle(data []byte) {
	cmd, err := api.DecodeCommand(data)
	if err != nil {
		c.reply(api.ServerResponse{Type: api.TypeError, Error: err.Error()})
		return
	}

	action := domain.ParseAction(cmd.Action)
	if action != domain.ActionInit {
		if c.srv.Spectate {
			c.reply(api.ServerResponse{Type: api.TypeError, Error: ErrSpectator.Error()})
			return
		}
		if !c.hasEntity {
			c.reply(api.ServerResponse{Type: api.TypeError, Error: engine.ErrUnknownEntity.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := c.srv.Instance.Dispatch(ctx, c.entityID, cmd)
	if err != nil {
		c.log.WithError(err).WithField("action", cmd.Action).Debug("Command rejected")
		c.reply(api.ServerResponse{Type: api.TypeError, Error: err.Error()})
		return
	}

	// Изменения разошлет хаб, клиенту лично отвечаем только снимком
	if res.Snapshot != nil {
		msg := api.ServerResponse{Type: api.TypeSnapshot, Snapshot: res.Snapshot}
		if c.hasEntity {
			id := c.entityID
			msg.MyEntityID = &id
		}
		if len(res.Snapshot.TurnOrder) > 0 {
			active := res.Snapshot.TurnOrder[0]
			msg.ActiveEntityID = &active
		}
		c.reply(msg)
	}
}

func (c *Client) reply(msg api.ServerResponse) {
	c.srv.Hub.SendTo(c.SessionID, msg)
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
