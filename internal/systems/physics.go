package systems

import (
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HasLineOfSight проверяет прямую видимость между двумя точками.
// Точки самой линии (кроме концов) не должны содержать непрозрачных стен.
// В клетку стены и из нее видно всегда.
func HasLineOfSight(w domain.WorldView, p1, p2 domain.Position) bool {
	losLogger := logger.Log.WithFields(logrus.Fields{
		"component": "physics_system",
		"function":  "HasLineOfSight",
		"start_pos": p1,
		"end_pos":   p2,
	})

	blocker, ok := lineOfSight(w, p1, p2)
	if !ok {
		losLogger.WithField("blocking_point", blocker).
			Debug("Check finished: Line is blocked by WALL. Result: false")
		return false
	}

	losLogger.Debug("Check finished: No obstructions found. Result: true")
	return true
}

// lineOfSight - то же без логов, для массовых проверок из FOV.
// Возвращает первую блокирующую клетку, если видимости нет.
func lineOfSight(w domain.WorldView, p1, p2 domain.Position) (domain.Position, bool) {
	if p1 == p2 {
		return domain.Position{}, true
	}

	line := BresenhamLine(p1, p2)
	for _, cell := range line[1 : len(line)-1] {
		if blocksVisionAt(w, cell) {
			return cell, false
		}
	}
	return domain.Position{}, true
}

// blocksVisionAt - есть ли в клетке хоть одна непрозрачная стена
func blocksVisionAt(w domain.WorldView, cell domain.Position) bool {
	for _, e := range w.EntitiesAt(cell) {
		if domain.BlocksVision(e.Kind()) {
			return true
		}
	}
	return false
}

// BresenhamLine возвращает дискретную линию от p1 до p2 включительно.
// Только целочисленная арифметика, все октанты обрабатываются одинаково.
func BresenhamLine(p1, p2 domain.Position) []domain.Position {
	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := sign(x1 - x0)
	sy := sign(y1 - y0)

	line := make([]domain.Position, 0, max(dx, dy)+1)
	err := dx - dy

	for {
		line = append(line, domain.Position{X: x0, Y: y0})
		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}

	return line
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
