package domain

// ReplayAction - запись одного обработанного намерения
type ReplayAction struct {
	Seq       int        `json:"seq"`
	Actor     EntityID   `json:"actor"`     // Кто сделал
	Action    ActionType `json:"action"`    // Что сделал
	Direction Direction  `json:"direction"` // Куда (для MOVE)
}

// ReplaySession - полная запись партии
type ReplaySession struct {
	ID        string         `json:"id"`
	Seed      int64          `json:"seed"`   // Зерно генерации мира и ИИ
	Layout    string         `json:"layout"` // YAML описание сценария
	Timestamp int64          `json:"timestamp"`
	Digest    uint64         `json:"digest"` // Хеш состояния мира после последнего действия
	Actions   []ReplayAction `json:"actions"`
}

// Intent восстанавливает намерение из записи
func (a ReplayAction) Intent() Intent {
	return Intent{Action: a.Action, Direction: a.Direction}
}
