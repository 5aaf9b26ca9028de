package domain

import "encoding/json"

// MaterialKind - вещество, из которого сделана стена или пол
type MaterialKind uint8

const (
	MaterialStone MaterialKind = iota + 1
	MaterialFlesh
)

var materialKindToString = map[MaterialKind]string{
	MaterialStone: "Stone",
	MaterialFlesh: "Flesh",
}

func (k MaterialKind) String() string {
	if s, ok := materialKindToString[k]; ok {
		return s
	}
	return "Unknown"
}

func (k MaterialKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Material - физические свойства вещества. Разные материалы - это данные, а не подтипы.
type Material struct {
	Kind           MaterialKind `json:"kind"`
	BlocksVision   bool         `json:"blocks_vision"`
	BlocksMovement bool         `json:"blocks_movement"`
}

// Material возвращает стандартные свойства для вида вещества
func (k MaterialKind) Material() Material {
	switch k {
	case MaterialStone:
		return Material{Kind: MaterialStone, BlocksVision: true, BlocksMovement: true}
	case MaterialFlesh:
		return Material{Kind: MaterialFlesh, BlocksVision: false, BlocksMovement: false}
	}
	return Material{Kind: k}
}

// Stone - каменный материал (непрозрачный и непроходимый)
func Stone() Material {
	return MaterialStone.Material()
}
