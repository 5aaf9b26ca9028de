package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChangeType - Внутренний числовой идентификатор изменения состояния
type ChangeType uint8

const (
	ChangeUnknown ChangeType = iota
	ChangeEntityMoved
	ChangeTurnEnded
	ChangeTurnStarted
)

// Маппинг для конвертации JSON -> Domain
var changeStringToType = map[string]ChangeType{
	"ENTITYMOVED": ChangeEntityMoved,
	"TURNENDED":   ChangeTurnEnded,
	"TURNSTARTED": ChangeTurnStarted,
}

// Маппинг для логов Domain -> String
var changeTypeToString = map[ChangeType]string{
	ChangeEntityMoved: "EntityMoved",
	ChangeTurnEnded:   "TurnEnded",
	ChangeTurnStarted: "TurnStarted",
}

// ParseChangeType конвертирует строку из JSON в ChangeType
func ParseChangeType(s string) ChangeType {
	if val, ok := changeStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return ChangeUnknown
}

func (c ChangeType) String() string {
	if val, ok := changeTypeToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

// StateChange - неизменяемая запись об одном наблюдаемом эффекте шага.
// Варианты: EntityMoved, TurnEnded, TurnStarted.
type StateChange interface {
	Type() ChangeType
	Entity() EntityID
}

// EntityMoved - сущность сменила клетку
type EntityMoved struct {
	EntityID EntityID
	From     *Position
	To       *Position
}

// TurnEnded - актор закончил ход
type TurnEnded struct {
	EntityID EntityID
}

// TurnStarted - актор начал ход
type TurnStarted struct {
	EntityID EntityID
}

func (EntityMoved) Type() ChangeType { return ChangeEntityMoved }
func (TurnEnded) Type() ChangeType   { return ChangeTurnEnded }
func (TurnStarted) Type() ChangeType { return ChangeTurnStarted }

func (c EntityMoved) Entity() EntityID { return c.EntityID }
func (c TurnEnded) Entity() EntityID   { return c.EntityID }
func (c TurnStarted) Entity() EntityID { return c.EntityID }

// NewEntityMoved копирует позиции, чтобы запись не разделяла память с миром
func NewEntityMoved(id EntityID, from, to *Position) EntityMoved {
	return EntityMoved{EntityID: id, From: copyPos(from), To: copyPos(to)}
}

// Inverse - обратное перемещение (to -> from)
func (c EntityMoved) Inverse() EntityMoved {
	return NewEntityMoved(c.EntityID, c.To, c.From)
}

func copyPos(p *Position) *Position {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// changeJSON - общий формат записи на проводе. Поля entity_id, from, to - стабильный словарь.
type changeJSON struct {
	Type     string    `json:"type"`
	EntityID EntityID  `json:"entity_id"`
	From     *Position `json:"from,omitempty"`
	To       *Position `json:"to,omitempty"`
}

func (c EntityMoved) MarshalJSON() ([]byte, error) {
	return json.Marshal(changeJSON{Type: c.Type().String(), EntityID: c.EntityID, From: c.From, To: c.To})
}

func (c TurnEnded) MarshalJSON() ([]byte, error) {
	return json.Marshal(changeJSON{Type: c.Type().String(), EntityID: c.EntityID})
}

func (c TurnStarted) MarshalJSON() ([]byte, error) {
	return json.Marshal(changeJSON{Type: c.Type().String(), EntityID: c.EntityID})
}

// DecodeChange разбирает запись, сериализованную MarshalJSON
func DecodeChange(data []byte) (StateChange, error) {
	var raw changeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode change: %w", err)
	}
	switch ParseChangeType(raw.Type) {
	case ChangeEntityMoved:
		return EntityMoved{EntityID: raw.EntityID, From: raw.From, To: raw.To}, nil
	case ChangeTurnEnded:
		return TurnEnded{EntityID: raw.EntityID}, nil
	case ChangeTurnStarted:
		return TurnStarted{EntityID: raw.EntityID}, nil
	}
	return nil, fmt.Errorf("decode change: unknown type %q", raw.Type)
}

// ApplyChange применяет изменение к зеркалу позиций презентационного слоя.
// Перемещение в "никуда" (To == nil) убирает запись.
func ApplyChange(mirror map[EntityID]Position, change StateChange) {
	moved, ok := change.(EntityMoved)
	if !ok {
		return
	}
	if moved.To == nil {
		delete(mirror, moved.EntityID)
		return
	}
	mirror[moved.EntityID] = *moved.To
}
