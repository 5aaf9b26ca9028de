package engine

import "dungeon-kernel/internal/domain"

// TurnQueue - кольцевая очередь ходов. Голова очереди - тот, кто ходит сейчас.
// Прокрутка: голова уходит в хвост.
type TurnQueue []domain.EntityID

func (q TurnQueue) Len() int { return len(q) }

// Contains - есть ли id в очереди
func (q TurnQueue) Contains(id domain.EntityID) bool {
	return q.indexOf(id) >= 0
}

func (q TurnQueue) indexOf(id domain.EntityID) int {
	for i, item := range q {
		if item == id {
			return i
		}
	}
	return -1
}

// Front возвращает голову очереди
func (q TurnQueue) Front() (domain.EntityID, bool) {
	if len(q) == 0 {
		return 0, false
	}
	return q[0], true
}

// PushBack добавляет id в хвост (без проверки на дубликаты)
func (q *TurnQueue) PushBack(id domain.EntityID) {
	*q = append(*q, id)
}

// Rotate сдвигает очередь влево на один элемент
func (q *TurnQueue) Rotate() {
	if len(*q) < 2 {
		return
	}
	old := *q
	head := old[0]
	copy(old, old[1:])
	old[len(old)-1] = head
}

// Remove удаляет id, где бы он ни был. Возвращает false, если id не было.
func (q *TurnQueue) Remove(id domain.EntityID) bool {
	idx := q.indexOf(id)
	if idx < 0 {
		return false
	}
	old := *q
	copy(old[idx:], old[idx+1:])
	*q = old[:len(old)-1]
	return true
}

// Clone - независимая копия для отдачи наружу
func (q TurnQueue) Clone() []domain.EntityID {
	out := make([]domain.EntityID, len(q))
	copy(out, q)
	return out
}
