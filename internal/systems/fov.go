package systems

import (
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// VisibleCells возвращает множество видимых клеток вокруг origin.
// Перебирается квадрат [-radius, radius]², клетки дальше radius (по Евклиду) отбрасываются,
// для остальных проверяется прямая видимость. При radius < 0 множество пустое.
func VisibleCells(w domain.WorldView, origin domain.Position, radius int) map[domain.Position]bool {
	fovLogger := logger.Log.WithFields(logrus.Fields{
		"component":    "fov_system",
		"observer_pos": origin,
		"radius":       radius,
	})

	visible := make(map[domain.Position]bool)
	if radius < 0 {
		fovLogger.Warn("FOV calculation skipped for blind observer (radius < 0).")
		return visible
	}

	radiusSq := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			// Сравнение квадратов эквивалентно distance > radius, но без корней
			if dx*dx+dy*dy > radiusSq {
				continue
			}
			cell := origin.Shift(dx, dy)
			if _, ok := lineOfSight(w, origin, cell); ok {
				visible[cell] = true
			}
		}
	}

	fovLogger.WithField("visible_tiles", len(visible)).Debug("FOV calculation complete.")
	return visible
}

// UpdateVisibility пересчитывает флаги Visible/Discovered всех размещенных сущностей
// относительно наблюдателя. Discovered, однажды взведенный, не сбрасывается.
func UpdateVisibility(w *domain.World, origin domain.Position, radius int) map[domain.Position]bool {
	visible := VisibleCells(w, origin, radius)
	for _, e := range w.Entities() {
		pos, placed := e.Pos()
		e.Visible = placed && visible[pos]
		if e.Visible {
			e.Discovered = true
		}
	}
	return visible
}
