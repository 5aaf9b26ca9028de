package api

import (
	"encoding/json"
	"fmt"

	"dungeon-kernel/internal/domain"
)

// Типы сообщений сервера
const (
	TypeChanges  = "CHANGES"
	TypeSnapshot = "SNAPSHOT"
	TypeError    = "ERROR"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
type ServerResponse struct {
	// Type: CHANGES (рассылается всем после каждой команды), SNAPSHOT (ответ на INIT), ERROR.
	Type string `json:"type"`

	// ActiveEntityID ID сущности, чей ход сейчас.
	// КЛИЕНТ ДОЛЖЕН СРАВНИВАТЬ ЭТО ПОЛЕ СО СВОИМ ID. Если они совпадают,
	// значит, можно принимать ввод от игрока.
	ActiveEntityID *domain.EntityID `json:"activeEntityId,omitempty"`

	// MyEntityID ID сущности, которой управляет данный клиент.
	MyEntityID *domain.EntityID `json:"myEntityId,omitempty"`

	// Changes упорядоченный список изменений (причина раньше следствия).
	Changes ChangeList `json:"changes,omitempty"`

	// Snapshot полный снимок мира (только для SNAPSHOT).
	Snapshot *Snapshot `json:"snapshot,omitempty"`

	// Error текст ошибки (только для ERROR).
	Error string `json:"error,omitempty"`
}

// ChangeList - список изменений, который умеет разбираться обратно из JSON
type ChangeList []domain.StateChange

func (l *ChangeList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(ChangeList, 0, len(raws))
	for i, raw := range raws {
		change, err := domain.DecodeChange(raw)
		if err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
		out = append(out, change)
	}
	*l = out
	return nil
}

// Snapshot - состояние мира глазами игрока
type Snapshot struct {
	PlayerID  *domain.EntityID  `json:"playerId,omitempty"`
	TurnOrder []domain.EntityID `json:"turnOrder"`
	Entities  []EntityView      `json:"entities"`
	Visible   []domain.Position `json:"visible"`
	Digest    string            `json:"digest"`
}

// EntityView это DTO для игровой сущности.
type EntityView struct {
	ID         domain.EntityID  `json:"id"`
	Kind       string           `json:"kind"` // Player, Npc, Item, Wall, Floor
	Species    string           `json:"species,omitempty"`
	Glyph      string           `json:"glyph"`
	Color      string           `json:"color,omitempty"` // #RRGGBB
	Pos        *domain.Position `json:"pos,omitempty"`
	Visible    bool             `json:"visible"`
	Discovered bool             `json:"discovered"`
	Blocks     bool             `json:"blocksVision,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Action название действия: INIT, MOVE, WAIT (SKIP), END_TURN.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// DirectionPayload используется для действий, связанных с направлением (e.g. MOVE).
type DirectionPayload struct {
	Direction string `json:"direction"` // NORTH, EAST, SOUTH, WEST
}
