package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction - одно из четырех сторон света. Диагоналей нет.
type Direction uint8

const (
	DirNone Direction = iota
	North
	East
	South
	West
)

// Directions - все допустимые направления в каноническом порядке
var Directions = [4]Direction{North, East, South, West}

var directionToString = map[Direction]string{
	North: "NORTH",
	East:  "EAST",
	South: "SOUTH",
	West:  "WEST",
}

var stringToDirection = map[string]Direction{
	"NORTH": North,
	"N":     North,
	"EAST":  East,
	"E":     East,
	"SOUTH": South,
	"S":     South,
	"WEST":  West,
	"W":     West,
}

// ParseDirection конвертирует строку в Direction (без учета регистра).
// Для неизвестной строки возвращает DirNone и false.
func ParseDirection(s string) (Direction, bool) {
	dir, ok := stringToDirection[strings.ToUpper(strings.TrimSpace(s))]
	return dir, ok
}

// Delta возвращает единичный вектор. Север - это y-1, юг - y+1.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// Valid сообщает, является ли значение одним из четырех направлений
func (d Direction) Valid() bool {
	_, ok := directionToString[d]
	return ok
}

func (d Direction) String() string {
	if s, ok := directionToString[d]; ok {
		return s
	}
	return "NONE"
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dir, ok := ParseDirection(s)
	if !ok {
		return fmt.Errorf("unknown direction %q", s)
	}
	*d = dir
	return nil
}
