package engine

import (
	"testing"

	"dungeon-kernel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArenaGame(t *testing.T, policy string) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Level.Layout = "arena"
	cfg.AI.Policy = policy
	cfg.Normalize()

	g, err := NewGameFromConfig(cfg)
	require.NoError(t, err)
	return g
}

func playSome(t *testing.T, g *Game) {
	t.Helper()
	player, ok := g.World.PlayerID()
	require.True(t, ok)

	g.Start()
	for _, dir := range []domain.Direction{domain.East, domain.East, domain.East, domain.East, domain.South, domain.South} {
		_, err := g.Step(player, dir)
		require.NoError(t, err)
	}
	_, err := g.Skip(player)
	require.NoError(t, err)
	_, err = g.Move(player, domain.West)
	require.NoError(t, err)
	_, err = g.EndTurn(player)
	require.NoError(t, err)
}

func positions(w *domain.World) map[domain.EntityID]domain.Position {
	out := make(map[domain.EntityID]domain.Position)
	for _, e := range w.Entities() {
		if p, ok := e.Pos(); ok {
			out[e.ID()] = p
		}
	}
	return out
}

func TestReplay_RoundTrip(t *testing.T) {
	for _, policy := range []string{PolicyRandom, PolicyStalker, PolicyIdle} {
		t.Run(policy, func(t *testing.T) {
			g := newArenaGame(t, policy)
			playSome(t, g)
			session := g.Seal()

			require.NotEmpty(t, session.ID)
			require.NotEmpty(t, session.Actions)
			assert.Equal(t, int64(42), session.Seed)

			replayed, err := Replay(session)
			require.NoError(t, err)
			assert.Equal(t, Digest(g), Digest(replayed))
			assert.Equal(t, positions(g.World), positions(replayed.World))
			assert.Equal(t, g.Turns.Order(), replayed.Turns.Order())
		})
	}
}

func TestReplay_DigestMismatch(t *testing.T) {
	g := newArenaGame(t, PolicyRandom)
	playSome(t, g)
	session := g.Seal()
	session.Digest++

	_, err := Replay(session)
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestReplay_BadAction(t *testing.T) {
	g := newArenaGame(t, PolicyIdle)
	g.Start()
	session := g.Seal()
	session.Actions = append(session.Actions, domain.ReplayAction{Seq: 0, Actor: 999, Action: domain.ActionWait})

	_, err := Replay(session)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestDigest_SameWorldSameHash(t *testing.T) {
	a := newArenaGame(t, PolicyRandom)
	b := newArenaGame(t, PolicyRandom)
	assert.Equal(t, Digest(a), Digest(b))

	a.Start()
	assert.NotEqual(t, Digest(a), Digest(b), "current actor is part of the digest")
}

func TestBuildSnapshot(t *testing.T) {
	g := newArenaGame(t, PolicyIdle)
	g.Start()

	snap := g.BuildSnapshot()
	require.NotNil(t, snap.PlayerID)
	assert.Equal(t, g.Turns.Order(), snap.TurnOrder)
	assert.Len(t, snap.Entities, g.World.Len())
	assert.NotEmpty(t, snap.Visible)

	player := g.World.GetEntity(*snap.PlayerID)
	pos, _ := player.Pos()
	views := g.EntitiesAt(pos)
	var glyphs []string
	for _, v := range views {
		glyphs = append(glyphs, v.Glyph)
	}
	assert.Contains(t, glyphs, "@")
	assert.Contains(t, glyphs, ".")

	assert.Empty(t, g.VisibleFrom(-1))
	assert.Equal(t, []domain.Position{pos}, g.VisibleFrom(0))
}
