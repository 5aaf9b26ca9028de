package domain

import "encoding/json"

// Данные снаряжения и боя. Логика ядра их не использует: это форма данных
// для внешних слоев (рендер, мост).

// Dice - тип кости
type Dice struct {
	Sides uint64 `json:"sides"`
	Flat  bool   `json:"flat,omitempty"`
}

var (
	D4   = Dice{Sides: 4}
	D6   = Dice{Sides: 6}
	D8   = Dice{Sides: 8}
	D10  = Dice{Sides: 10}
	D12  = Dice{Sides: 12}
	D20  = Dice{Sides: 20}
	D100 = Dice{Sides: 100}
)

// DieRoll - запись вида 2d6+1
type DieRoll struct {
	Count    uint64 `json:"count"`
	Dice     Dice   `json:"dice"`
	Modifier int64  `json:"modifier"`
}

// DamageType - тип урона
type DamageType uint8

const (
	DamageSlice DamageType = iota + 1
	DamagePierce
	DamageBlunt
	DamageFire
)

func (d DamageType) String() string {
	switch d {
	case DamageSlice:
		return "Slice"
	case DamagePierce:
		return "Pierce"
	case DamageBlunt:
		return "Blunt"
	case DamageFire:
		return "Fire"
	}
	return "Unknown"
}

func (d DamageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

type Damage struct {
	Type   DamageType `json:"damage_type"`
	Damage DieRoll    `json:"damage"`
}

// ItemKind - вид предмета: Weapon или Armor
type ItemKind interface {
	isItemKind()
}

type Weapon struct {
	Damage []Damage `json:"damage"`
}

type Armor struct {
	Defense uint64 `json:"defense"`
}

func (Weapon) isItemKind() {}
func (Armor) isItemKind()  {}

// HandsEquipment - что держат руки. Ссылки только через EntityID.
type HandsEquipment struct {
	TwoHanded *EntityID `json:"two_handed,omitempty"`
	Left      *EntityID `json:"left,omitempty"`
	Right     *EntityID `json:"right,omitempty"`
}

type Equipment struct {
	Armor *EntityID      `json:"armor,omitempty"`
	Hands HandsEquipment `json:"hands"`
}

type Inventory struct {
	Items []EntityID `json:"items"`
}
