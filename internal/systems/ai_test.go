package systems

import (
	"errors"
	"testing"

	"dungeon-kernel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdle(t *testing.T) {
	intent, err := Idle{}.Decide(1, domain.NewWorld())

	require.NoError(t, err)
	assert.Equal(t, domain.ActionWait, intent.Action)
}

func TestRandomWalker(t *testing.T) {
	w := domain.NewWorld()

	t.Run("Always moves in a valid direction", func(t *testing.T) {
		brain := NewRandomWalker(1)
		for i := 0; i < 100; i++ {
			intent, err := brain.Decide(1, w)
			require.NoError(t, err)
			assert.Equal(t, domain.ActionMove, intent.Action)
			assert.True(t, intent.Direction.Valid())
		}
	})

	t.Run("Same seed gives same walk", func(t *testing.T) {
		a, b := NewRandomWalker(42), NewRandomWalker(42)
		for i := 0; i < 50; i++ {
			ia, _ := a.Decide(1, w)
			ib, _ := b.Decide(1, w)
			require.Equal(t, ia, ib)
		}
	})

	t.Run("Eventually uses every direction", func(t *testing.T) {
		brain := NewRandomWalker(7)
		seen := map[domain.Direction]bool{}
		for i := 0; i < 200; i++ {
			intent, _ := brain.Decide(1, w)
			seen[intent.Direction] = true
		}
		assert.Len(t, seen, len(domain.Directions))
	})
}

func TestBrainFunc(t *testing.T) {
	boom := errors.New("boom")
	brain := BrainFunc(func(domain.EntityID, domain.WorldView) (domain.Intent, error) {
		return domain.Intent{}, boom
	})

	_, err := brain.Decide(1, domain.NewWorld())
	assert.ErrorIs(t, err, boom)
}

func TestStalker(t *testing.T) {
	setup := func() (*domain.World, *domain.Entity, *domain.Entity) {
		w := domain.NewWorld()
		player := spawnAt(w, domain.Player{}, 5, 5)
		w.SetPlayerID(player.ID())
		npc := spawnAt(w, domain.Npc{Species: domain.SpeciesGoblin}, 1, 5)
		return w, player, npc
	}

	t.Run("Moves towards visible player", func(t *testing.T) {
		w, _, npc := setup()

		intent, err := Stalker{}.Decide(npc.ID(), w)

		require.NoError(t, err)
		assert.Equal(t, domain.MoveIntent(domain.East), intent)
	})

	t.Run("Prefers the longer axis", func(t *testing.T) {
		w, _, _ := setup()
		npc := spawnAt(w, domain.Npc{Species: domain.SpeciesGoblin}, 4, 1)

		intent, _ := Stalker{}.Decide(npc.ID(), w)

		assert.Equal(t, domain.MoveIntent(domain.South), intent)
	})

	t.Run("Slides along a wall", func(t *testing.T) {
		w, _, _ := setup()
		npc := spawnAt(w, domain.Npc{Species: domain.SpeciesGoblin}, 2, 3)
		spawnAt(w, stoneWall(), 3, 3)

		intent, _ := Stalker{}.Decide(npc.ID(), w)

		assert.Equal(t, domain.MoveIntent(domain.South), intent)
	})

	t.Run("Player out of radius uses fallback", func(t *testing.T) {
		w, _, npc := setup()
		fallback := BrainFunc(func(domain.EntityID, domain.WorldView) (domain.Intent, error) {
			return domain.MoveIntent(domain.North), nil
		})

		intent, _ := Stalker{Radius: 2, Fallback: fallback}.Decide(npc.ID(), w)

		assert.Equal(t, domain.MoveIntent(domain.North), intent)
	})

	t.Run("Player behind wall is not chased", func(t *testing.T) {
		w, _, npc := setup()
		spawnAt(w, stoneWall(), 3, 5)

		intent, _ := Stalker{}.Decide(npc.ID(), w)

		assert.Equal(t, domain.SkipIntent(), intent)
	})

	t.Run("No player registered", func(t *testing.T) {
		w := domain.NewWorld()
		npc := spawnAt(w, domain.Npc{Species: domain.SpeciesGoblin}, 0, 0)

		intent, err := Stalker{}.Decide(npc.ID(), w)

		require.NoError(t, err)
		assert.Equal(t, domain.SkipIntent(), intent)
	})
}
