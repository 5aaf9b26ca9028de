package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"dungeon-kernel/internal/domain"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() *domain.ReplaySession {
	return &domain.ReplaySession{
		ID:        "0b7a1c7e-6f3a-4b5e-9d3a-7c1e2f3a4b5c",
		Seed:      42,
		Layout:    "seed: 42\nlevel:\n  layout: arena\nai:\n  policy: random\n",
		Timestamp: 1700000000,
		Digest:    0xdeadbeefcafe,
		Actions: []domain.ReplayAction{
			{Seq: 0, Actor: 0, Action: domain.ActionMove, Direction: domain.East},
			{Seq: 1, Actor: 0, Action: domain.ActionEndTurn},
			{Seq: 2, Actor: 0, Action: domain.ActionWait},
		},
	}
}

func TestReplayRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReplay(&buf, sampleSession()))

	got, err := ReadReplay(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleSession(), got)
}

func TestReplayEmptyActions(t *testing.T) {
	s := sampleSession()
	s.Actions = []domain.ReplayAction{}

	var buf bytes.Buffer
	require.NoError(t, WriteReplay(&buf, s))

	got, err := ReadReplay(&buf)
	require.NoError(t, err)
	assert.Empty(t, got.Actions)
	assert.Equal(t, s.Layout, got.Layout)
}

func TestReplayInvalidMagic(t *testing.T) {
	var raw bytes.Buffer
	enc, err := zstd.NewWriter(&raw)
	require.NoError(t, err)
	_, err = enc.Write(make([]byte, 64))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	_, err = ReadReplay(&raw)
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestReplayTruncated(t *testing.T) {
	var buf bytes.Buffer
	var plain bytes.Buffer
	require.NoError(t, writeBinary(&plain, sampleSession()))

	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(plain.Bytes()[:plain.Len()-5])
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	_, err = ReadReplay(&buf)
	assert.Error(t, err)
}

func TestReplayServiceSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "replays")
	svc, err := NewReplayService(dir)
	require.NoError(t, err)

	path, err := svc.Save(sampleSession())
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	got, err := svc.Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleSession(), got)
}

func TestJournal(t *testing.T) {
	dir := t.TempDir()
	j, err := NewJournal(dir, "s1")
	require.NoError(t, err)

	from, to := domain.At(0, 0), domain.At(0, 1)
	require.NoError(t, j.Append(1, []domain.StateChange{domain.TurnStarted{EntityID: 0}}))
	require.NoError(t, j.Append(2, []domain.StateChange{
		domain.NewEntityMoved(0, &from, &to),
		domain.TurnEnded{EntityID: 0},
		domain.NewEntityMoved(3, &to, nil),
	}))
	require.NoError(t, j.Close())
	require.NoError(t, j.Close(), "second close is a no-op")
	assert.Error(t, j.Append(3, nil))

	f, err := os.Open(j.Path())
	require.NoError(t, err)
	defer f.Close()

	entries, err := ReadJournal(f)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(1), entries[0].Seq)
	assert.Equal(t, domain.TurnEnded{EntityID: 0}, entries[1].Changes[1])

	mirror := Mirror(entries)
	assert.Equal(t, map[domain.EntityID]domain.Position{0: to}, mirror)
}
