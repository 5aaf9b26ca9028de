package domain

import "testing"

func newTestEntity(w *World, kind EntityKind, pos *Position) *Entity {
	return w.Spawn(EntitySpec{Kind: kind, Pos: pos, Attributes: DefaultAttributes()})
}

func TestWorld_AllocateIDIsMonotonic(t *testing.T) {
	w := NewWorld()

	prev := w.AllocateID()
	for i := 0; i < 100; i++ {
		next := w.AllocateID()
		if next <= prev {
			t.Fatalf("AllocateID returned %v after %v", next, prev)
		}
		prev = next
	}
}

func TestWorld_AllocateIDNeverReusesRemoved(t *testing.T) {
	w := NewWorld()
	e := newTestEntity(w, Player{}, nil)
	w.Remove(e.ID())

	if id := w.AllocateID(); id == e.ID() {
		t.Errorf("id %v reused after removal", id)
	}
}

func TestWorld_AllocateIDPanicsOnOverflow(t *testing.T) {
	w := NewWorld()
	w.nextID = MaxEntityID

	if id := w.AllocateID(); id != MaxEntityID {
		t.Fatalf("expected last id %v, got %v", MaxEntityID, id)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic after id space exhausted")
		}
	}()
	w.AllocateID()
}

func TestWorld_InsertDuplicatePanics(t *testing.T) {
	w := NewWorld()
	w.Insert(NewEntity(3, Player{}, nil))

	defer func() {
		if recover() == nil {
			t.Error("duplicate insert must panic")
		}
	}()
	w.Insert(NewEntity(3, Floor{Material: Stone()}, nil))
}

func TestWorld_InsertAdvancesAllocator(t *testing.T) {
	w := NewWorld()
	w.Insert(NewEntity(10, Player{}, nil))

	if id := w.AllocateID(); id != 11 {
		t.Errorf("expected allocator to continue after 10, got %v", id)
	}
}

func TestWorld_AddRemoveEntity(t *testing.T) {
	w := NewWorld()
	pos := At(5, 5)
	e := newTestEntity(w, Player{}, &pos)

	retrieved := w.GetEntity(e.ID())
	if retrieved == nil {
		t.Fatal("GetEntity returned nil")
	}
	if retrieved != e {
		t.Errorf("GetEntity returned wrong entity: got %v want %v", retrieved, e)
	}

	w.Remove(e.ID())
	if w.GetEntity(e.ID()) != nil {
		t.Error("Entity should be nil after removal")
	}

	// Повторное удаление - no-op
	w.Remove(e.ID())
	if w.Len() != 0 {
		t.Errorf("expected empty world, got %d", w.Len())
	}
}

func TestWorld_EntitiesAt(t *testing.T) {
	w := NewWorld()
	cell := At(1, 0)
	other := At(2, 0)

	floor := newTestEntity(w, Floor{Material: Stone()}, &cell)
	item := newTestEntity(w, Item{Kind: Armor{Defense: 1}}, &cell)
	newTestEntity(w, Wall{Material: Stone()}, &other)
	newTestEntity(w, Item{}, nil) // в инвентаре, не на карте

	got := w.EntitiesAt(cell)
	if len(got) != 2 {
		t.Fatalf("expected 2 entities at %v, got %d", cell, len(got))
	}
	if got[0] != floor || got[1] != item {
		t.Errorf("expected entities ordered by id, got %v, %v", got[0].ID(), got[1].ID())
	}

	if got := w.EntitiesAt(At(9, 9)); len(got) != 0 {
		t.Errorf("expected no entities at empty cell, got %d", len(got))
	}
}

func TestWorld_PlayerID(t *testing.T) {
	w := NewWorld()
	if _, ok := w.PlayerID(); ok {
		t.Error("fresh world must not have a player")
	}

	p := newTestEntity(w, Player{}, nil)
	w.SetPlayerID(p.ID())

	id, ok := w.PlayerID()
	if !ok || id != p.ID() {
		t.Errorf("PlayerID() = (%v, %v), want (%v, true)", id, ok, p.ID())
	}
	if !w.IsPlayer(p.ID()) {
		t.Error("IsPlayer should be true for the designated player")
	}
}
