// term - терминальный клиент: подключается к серверу по WebSocket и рисует карту.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"
)

// Приоритет отрисовки: чем больше, тем выше слой
var glyphLayer = map[string]int{"Floor": 0, "Wall": 1, "Item": 2, "Npc": 3, "Player": 4}

type client struct {
	screen tcell.Screen
	conn   *websocket.Conn

	me       *domain.EntityID
	active   *domain.EntityID
	entities map[domain.EntityID]api.EntityView
	visible  map[domain.Position]bool
	status   string
}

func main() {
	addr := flag.String("addr", "localhost:8080", "Server address")
	flag.Parse()

	logger.Init()
	logger.SetLevel("error") // логи не должны портить экран

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", u.String(), err)
		os.Exit(1)
	}
	defer conn.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen init: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	c := &client{
		screen:   screen,
		conn:     conn,
		entities: make(map[domain.EntityID]api.EntityView),
		visible:  make(map[domain.Position]bool),
		status:   "connecting...",
	}
	c.run()
}

func (c *client) run() {
	messages := make(chan api.ServerResponse, 64)
	go func() {
		defer close(messages)
		for {
			var msg api.ServerResponse
			if err := c.conn.ReadJSON(&msg); err != nil {
				return
			}
			messages <- msg
		}
	}()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	c.send("INIT", nil)
	c.draw()

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			c.apply(msg)
			c.draw()
		case ev := <-events:
			if !c.handleInput(ev) {
				return
			}
			c.draw()
		}
	}
}

func (c *client) send(action string, payload interface{}) {
	cmd := api.ClientCommand{Action: action}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			c.status = err.Error()
			return
		}
		cmd.Payload = raw
	}
	if err := c.conn.WriteJSON(cmd); err != nil {
		c.status = err.Error()
	}
}

func (c *client) apply(msg api.ServerResponse) {
	switch msg.Type {
	case api.TypeSnapshot:
		c.me = msg.MyEntityID
		c.active = msg.ActiveEntityID
		c.entities = make(map[domain.EntityID]api.EntityView, len(msg.Snapshot.Entities))
		for _, e := range msg.Snapshot.Entities {
			c.entities[e.ID] = e
		}
		c.visible = make(map[domain.Position]bool, len(msg.Snapshot.Visible))
		for _, p := range msg.Snapshot.Visible {
			c.visible[p] = true
		}
		c.status = fmt.Sprintf("digest %s", msg.Snapshot.Digest)

	case api.TypeChanges:
		c.active = msg.ActiveEntityID
		for _, ch := range msg.Changes {
			if moved, ok := ch.(domain.EntityMoved); ok {
				view := c.entities[moved.EntityID]
				view.Pos = moved.To
				c.entities[moved.EntityID] = view
			}
		}
		// Видимость считает сервер: просим свежий снимок, когда снова наш ход
		if c.myTurn() {
			c.send("INIT", nil)
		}

	case api.TypeError:
		c.status = "error: " + msg.Error
	}
}

func (c *client) myTurn() bool {
	return c.me != nil && c.active != nil && *c.me == *c.active
}

func (c *client) handleInput(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}

	move := func(dir string) { c.send("MOVE", api.DirectionPayload{Direction: dir}) }

	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		move("NORTH")
	case tcell.KeyDown:
		move("SOUTH")
	case tcell.KeyLeft:
		move("WEST")
	case tcell.KeyRight:
		move("EAST")
	case tcell.KeyEnter:
		c.send("END_TURN", nil)
	case tcell.KeyRune:
		switch key.Rune() {
		case 'q':
			return false
		case ' ', '.':
			c.send("WAIT", nil)
		}
	}
	return true
}

func (c *client) draw() {
	c.screen.Clear()

	cells := make(map[domain.Position]api.EntityView)
	for _, e := range c.entities {
		if e.Pos == nil || !(e.Discovered || c.visible[*e.Pos]) {
			continue
		}
		if top, ok := cells[*e.Pos]; !ok || glyphLayer[e.Kind] > glyphLayer[top.Kind] {
			cells[*e.Pos] = e
		}
	}

	// Карта может начинаться с отрицательных координат: сдвигаем к минимуму
	minX, minY := 0, 0
	for p := range cells {
		minX, minY = min(minX, p.X), min(minY, p.Y)
	}

	for p, e := range cells {
		style := tcell.StyleDefault.Foreground(tcell.ColorGray)
		if c.visible[p] {
			style = colorFor(e)
		}
		c.screen.SetContent(p.X-minX, p.Y-minY+1, glyphRune(e.Glyph), nil, style)
	}

	turn := "waiting"
	if c.myTurn() {
		turn = "your turn"
	}
	line := fmt.Sprintf("[%s] arrows: move  space: wait  enter: end turn  q: quit  | %s", turn, c.status)
	for i, r := range line {
		c.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
	}
	c.screen.Show()
}

func glyphRune(g string) rune {
	for _, r := range g {
		return r
	}
	return '?'
}

func colorFor(e api.EntityView) tcell.Style {
	style := tcell.StyleDefault.Foreground(tcell.GetColor(e.Color))
	if e.Kind == "Player" {
		style = style.Bold(true)
	}
	return style
}
