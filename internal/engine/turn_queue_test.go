package engine

import (
	"testing"

	"dungeon-kernel/internal/domain"
)

func TestTurnQueue(t *testing.T) {
	q := TurnQueue{}
	q.PushBack(1)
	q.PushBack(2)
	q.PushBack(3)

	if q.Len() != 3 {
		t.Fatalf("Expected length 3, got %d", q.Len())
	}

	q.Rotate()
	if front, _ := q.Front(); front != 2 {
		t.Errorf("Expected front 2 after rotate, got %s", front)
	}

	if !q.Remove(3) {
		t.Error("Expected 3 to be removed")
	}
	if q.Remove(3) {
		t.Error("Second remove should report false")
	}

	want := []domain.EntityID{2, 1}
	got := q.Clone()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Order mismatch at %d: want %s, got %s", i, want[i], got[i])
		}
	}

	// Clone не делит память с очередью
	got[0] = 99
	if front, _ := q.Front(); front != 2 {
		t.Errorf("Clone aliased the queue")
	}
}

func TestTurnQueueEmpty(t *testing.T) {
	q := TurnQueue{}
	q.Rotate()
	if _, ok := q.Front(); ok {
		t.Error("Empty queue should have no front")
	}
}
