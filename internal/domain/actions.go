package domain

import "strings"

// ActionType - Внутренний числовой идентификатор намерения
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionMove
	ActionWait
	ActionEndTurn
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"INIT":     ActionInit,
	"MOVE":     ActionMove,
	"WAIT":     ActionWait,
	"SKIP":     ActionWait,
	"END_TURN": ActionEndTurn,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionInit:    "INIT",
	ActionMove:    "MOVE",
	ActionWait:    "WAIT",
	ActionEndTurn: "END_TURN",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// Intent - то, что актор хочет сделать в свой ход
type Intent struct {
	Action    ActionType
	Direction Direction // только для ActionMove
}

// MoveIntent - шаг в направлении
func MoveIntent(dir Direction) Intent {
	return Intent{Action: ActionMove, Direction: dir}
}

// SkipIntent - пропуск хода
func SkipIntent() Intent {
	return Intent{Action: ActionWait}
}

func (i Intent) String() string {
	if i.Action == ActionMove {
		return i.Action.String() + " " + i.Direction.String()
	}
	return i.Action.String()
}

// WorldView - доступ к миру только на чтение. Его получает ИИ.
type WorldView interface {
	GetEntity(id EntityID) *Entity
	EntitiesAt(pos Position) []*Entity
	PlayerID() (EntityID, bool)
}

// Brain - способность автономного актора выбрать следующее действие.
// Политика внутри не регламентирована. Ошибка означает "не смог решить":
// ядро в этом случае пропускает ход.
type Brain interface {
	Decide(id EntityID, view WorldView) (Intent, error)
}
