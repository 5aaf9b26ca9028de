package domain

import (
	"fmt"
	"math"
)

// Position - целочисленная координата клетки мира.
// Сравнивается по значению, поэтому годится как ключ map.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// At - короткий конструктор, удобен в тестах и префабах
func At(x, y int) Position {
	return Position{X: x, Y: y}
}

// DistanceTo возвращает евклидово расстояние до другой точки (float)
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquaredTo возвращает квадрат расстояния (int) для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// ManhattanTo возвращает манхэттенское расстояние (сумма модулей по осям)
func (p Position) ManhattanTo(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

// Neighbors возвращает четырех соседей по сторонам света (без диагоналей) в порядке N, E, S, W.
func (p Position) Neighbors() [4]Position {
	var out [4]Position
	for i, dir := range Directions {
		out[i] = p.Step(dir)
	}
	return out
}

// Shift возвращает новую позицию со смещением, не меняя текущую
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step сдвигает позицию на единичный вектор направления
func (p Position) Step(dir Direction) Position {
	dx, dy := dir.Delta()
	return p.Shift(dx, dy)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
