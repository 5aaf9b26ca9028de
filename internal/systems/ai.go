package systems

import (
	"math/rand"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AggroRadius - дальше этого Stalker игрока не преследует.
const AggroRadius = 7

// BrainFunc позволяет использовать обычную функцию как domain.Brain.
type BrainFunc func(id domain.EntityID, view domain.WorldView) (domain.Intent, error)

func (f BrainFunc) Decide(id domain.EntityID, view domain.WorldView) (domain.Intent, error) {
	return f(id, view)
}

// Idle всегда пропускает ход.
type Idle struct{}

func (Idle) Decide(domain.EntityID, domain.WorldView) (domain.Intent, error) {
	return domain.SkipIntent(), nil
}

// RandomWalker выбирает одно из четырех направлений равновероятно.
// Генератор не потокобезопасен: ядро вызывает Decide только из своей горутины.
type RandomWalker struct {
	rng *rand.Rand
}

func NewRandomWalker(seed int64) *RandomWalker {
	return &RandomWalker{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomWalker) Decide(id domain.EntityID, _ domain.WorldView) (domain.Intent, error) {
	dir := domain.Directions[r.rng.Intn(len(domain.Directions))]
	logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"entity_id": id,
		"direction": dir,
	}).Debug("Random walk")
	return domain.MoveIntent(dir), nil
}

// Stalker идет к игроку, если видит его в пределах Radius.
// Иначе решение отдается Fallback (или ход пропускается).
type Stalker struct {
	Radius   int
	Fallback domain.Brain
}

func (s Stalker) Decide(id domain.EntityID, view domain.WorldView) (domain.Intent, error) {
	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"entity_id": id,
	})

	self := view.GetEntity(id)
	if self == nil {
		return domain.SkipIntent(), nil
	}
	from, placed := self.Pos()
	target, ok := s.targetPos(view)
	if !placed || !ok {
		return s.fallback(id, view)
	}

	radius := s.Radius
	if radius <= 0 {
		radius = AggroRadius
	}
	dist := from.DistanceTo(target)
	if dist > float64(radius) || !HasLineOfSight(view, from, target) {
		aiLogger.WithField("distance", dist).Debug("Target not visible or out of aggro range")
		return s.fallback(id, view)
	}

	dir, found := chaseStep(view, from, target)
	if !found {
		aiLogger.Debug("Path is blocked or destination reached. Action: WAIT")
		return domain.SkipIntent(), nil
	}

	aiLogger.WithField("direction", dir).Debug("Target in pursuit range. Action: MOVE")
	return domain.MoveIntent(dir), nil
}

func (s Stalker) targetPos(view domain.WorldView) (domain.Position, bool) {
	playerID, ok := view.PlayerID()
	if !ok {
		return domain.Position{}, false
	}
	player := view.GetEntity(playerID)
	if player == nil {
		return domain.Position{}, false
	}
	return player.Pos()
}

func (s Stalker) fallback(id domain.EntityID, view domain.WorldView) (domain.Intent, error) {
	if s.Fallback == nil {
		return domain.SkipIntent(), nil
	}
	return s.Fallback.Decide(id, view)
}

// chaseStep выбирает шаг по приоритетной оси, при упоре в стену пробует вторую.
func chaseStep(view domain.WorldView, from, to domain.Position) (domain.Direction, bool) {
	dx := to.X - from.X
	dy := to.Y - from.Y

	horizontal := axisDirection(dx, domain.East, domain.West)
	vertical := axisDirection(dy, domain.South, domain.North)

	order := [2]domain.Direction{horizontal, vertical}
	if abs(dy) > abs(dx) {
		order = [2]domain.Direction{vertical, horizontal}
	}

	for _, dir := range order {
		if dir == domain.DirNone {
			continue
		}
		if _, blocked := FindBlocker(view.EntitiesAt(from.Step(dir))); !blocked {
			return dir, true
		}
	}
	return domain.DirNone, false // тупик
}

func axisDirection(delta int, positive, negative domain.Direction) domain.Direction {
	switch {
	case delta > 0:
		return positive
	case delta < 0:
		return negative
	default:
		return domain.DirNone
	}
}
