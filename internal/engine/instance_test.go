package engine

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryJournal struct {
	mu      sync.Mutex
	seqs    []uint64
	batches [][]domain.StateChange
	closed  bool
}

func (j *memoryJournal) Append(seq uint64, changes []domain.StateChange) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.seqs = append(j.seqs, seq)
	j.batches = append(j.batches, changes)
	return nil
}

func (j *memoryJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	return nil
}

type memoryReplays struct {
	saved chan *domain.ReplaySession
}

func (m *memoryReplays) Save(s *domain.ReplaySession) (string, error) {
	m.saved <- s
	return "memory://" + s.ID, nil
}

func startInstance(t *testing.T, opts ...InstanceOption) (*Instance, domain.EntityID, context.CancelFunc) {
	t.Helper()
	w, player := newTestWorld(1)
	inst := NewInstance(NewGame(w, &domain.ReplaySession{ID: "test"}), opts...)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = inst.Run(ctx) }()
	t.Cleanup(cancel)
	return inst, player, cancel
}

func TestInstance_Submit(t *testing.T) {
	updates := make(chan Update, 16)
	inst, player, _ := startInstance(t)
	inst.OnChanges(func(u Update) { updates <- u })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	changes, err := inst.Submit(ctx, Command{Actor: player, Intent: domain.MoveIntent(domain.South)})
	require.NoError(t, err)
	require.NotEmpty(t, changes)
	assert.Equal(t, domain.TurnStarted{EntityID: player}, changes[len(changes)-1])

	// Стартовая рассылка (seq 1) могла уйти до подписки
	for {
		select {
		case u := <-updates:
			if u.Seq != 2 {
				continue
			}
			assert.Equal(t, changes, u.Changes)
			require.NotNil(t, u.Active)
			assert.Equal(t, player, *u.Active)
		case <-ctx.Done():
			t.Fatal("no update published")
		}
		break
	}

	_, err = inst.Submit(ctx, Command{Actor: 1, Intent: domain.SkipIntent()})
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestInstance_Dispatch(t *testing.T) {
	inst, player, _ := startInstance(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res, err := inst.Dispatch(ctx, player, api.ClientCommand{Action: "INIT"})
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Empty(t, res.Changes)

	res, err = inst.Dispatch(ctx, player, api.ClientCommand{
		Action:  "MOVE",
		Payload: json.RawMessage(`{"direction":"SOUTH"}`),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Snapshot)
	assert.NotEmpty(t, res.Changes)

	_, err = inst.Dispatch(ctx, player, api.ClientCommand{
		Action:  "MOVE",
		Payload: json.RawMessage(`{"direction":"UP"}`),
	})
	assert.ErrorIs(t, err, api.ErrInvalidCommand)

	_, err = inst.Dispatch(ctx, player, api.ClientCommand{Action: "DANCE"})
	assert.ErrorIs(t, err, ErrUnknownAction)

	res, err = inst.Dispatch(ctx, player, api.ClientCommand{Action: "SKIP"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Changes)
}

func TestInstance_Query(t *testing.T) {
	inst, player, _ := startInstance(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var current domain.EntityID
	require.NoError(t, inst.Query(ctx, func(g *Game) {
		current, _ = g.Current()
	}))
	assert.Equal(t, player, current)

	snap, err := inst.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Entities)
}

func TestInstance_StopSavesReplay(t *testing.T) {
	journal := &memoryJournal{}
	replays := &memoryReplays{saved: make(chan *domain.ReplaySession, 1)}
	inst, player, stop := startInstance(t, WithJournal(journal), WithReplayStore(replays))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := inst.Submit(ctx, Command{Actor: player, Intent: domain.SkipIntent()})
	require.NoError(t, err)

	stop()
	select {
	case <-inst.Done():
	case <-ctx.Done():
		t.Fatal("instance did not stop")
	}

	select {
	case s := <-replays.saved:
		assert.Equal(t, "test", s.ID)
		assert.Len(t, s.Actions, 1)
		assert.NotZero(t, s.Digest)
	case <-ctx.Done():
		t.Fatal("replay not saved")
	}

	journal.mu.Lock()
	assert.Equal(t, []uint64{1, 2}, journal.seqs, "start and skip")
	assert.True(t, journal.closed)
	journal.mu.Unlock()

	_, err = inst.Submit(ctx, Command{Actor: player, Intent: domain.SkipIntent()})
	assert.ErrorIs(t, err, ErrInstanceStopped)
}

func TestInstance_SubmitHonorsContext(t *testing.T) {
	w, player := newTestWorld(0)
	inst := NewInstance(NewGame(w, nil))
	// Run не запущен: запрос ляжет в буфер, а ответа не будет

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := inst.Submit(ctx, Command{Actor: player, Intent: domain.SkipIntent()})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInstance_CancelledSubmitIsNotApplied(t *testing.T) {
	w, player := newTestWorld(0)
	journal := &memoryJournal{}
	inst := NewInstance(NewGame(w, &domain.ReplaySession{ID: "test"}), WithJournal(journal))

	// Цикл еще не запущен: вызывающий сдается, пока запрос в очереди
	short, cancelShort := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelShort()
	_, err := inst.Submit(short, Command{Actor: player, Intent: domain.SkipIntent()})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() { _ = inst.Run(runCtx) }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var recorded int
	require.NoError(t, inst.Query(ctx, func(g *Game) {
		recorded = len(g.Replay.Actions)
	}))
	assert.Zero(t, recorded, "abandoned command must not reach the game")

	journal.mu.Lock()
	assert.Equal(t, []uint64{1}, journal.seqs, "only the opening turn is journaled")
	journal.mu.Unlock()
}

func TestInstance_RunTwice(t *testing.T) {
	inst, _, _ := startInstance(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Snapshot отвечает только когда первый Run уже обслуживает очередь
	_, err := inst.Snapshot(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, inst.Run(ctx), ErrInstanceRunning)

	_, err = inst.Snapshot(ctx)
	assert.NoError(t, err, "first loop keeps serving")
}

func TestUpdate_Response(t *testing.T) {
	active := domain.EntityID(3)
	resp := Update{
		Seq:     1,
		Changes: []domain.StateChange{domain.TurnStarted{EntityID: active}},
		Active:  &active,
	}.Response()

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded api.ServerResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, api.TypeChanges, decoded.Type)
	require.NotNil(t, decoded.ActiveEntityID)
	assert.Equal(t, active, *decoded.ActiveEntityID)
	assert.Equal(t, api.ChangeList{domain.TurnStarted{EntityID: active}}, decoded.Changes)
}
