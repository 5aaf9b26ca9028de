package domain

import "encoding/json"

// CoreAttributes - пять базовых характеристик. Ядро их не интерпретирует.
type CoreAttributes struct {
	Strength   uint64 `json:"strength" yaml:"strength"`
	Speed      uint64 `json:"speed" yaml:"speed"`
	Durability uint64 `json:"durability" yaml:"durability"`
	Fortitude  uint64 `json:"fortitude" yaml:"fortitude"`
	Magic      uint64 `json:"magic" yaml:"magic"`
}

// DefaultAttributes - десятка во всех характеристиках
func DefaultAttributes() CoreAttributes {
	return CoreAttributes{Strength: 10, Speed: 10, Durability: 10, Fortitude: 10, Magic: 10}
}

// Exhaustion - степень усталости
type Exhaustion uint8

const (
	WellRested Exhaustion = iota
	Rested
	Normal
	Tired
	Exhausted
)

var exhaustionToString = map[Exhaustion]string{
	WellRested: "WellRested",
	Rested:     "Rested",
	Normal:     "Normal",
	Tired:      "Tired",
	Exhausted:  "Exhausted",
}

func (e Exhaustion) String() string {
	if s, ok := exhaustionToString[e]; ok {
		return s
	}
	return "Unknown"
}

func (e Exhaustion) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// Status - текущие ресурсы сущности (информационные)
type Status struct {
	Health     uint64     `json:"health"`
	Stamina    uint64     `json:"stamina"`
	Mana       uint64     `json:"mana"`
	Exhaustion Exhaustion `json:"exhaustion"`
}
