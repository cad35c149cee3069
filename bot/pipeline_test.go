package bot

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminder-bot/kv"
	"reminder-bot/model"
	"reminder-bot/utils/database"
)

type steppedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppedClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type channelLog struct {
	mu   sync.Mutex
	sent []string
}

func (l *channelLog) Send(_ context.Context, channelID uint64, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = append(l.sent, fmt.Sprintf("%d: %s", channelID, text))
	return nil
}

func (l *channelLog) Mention(userID uint64) string {
	return fmt.Sprintf("<@%d>", userID)
}

func TestPipeline_DispatchAcrossTicks(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := kv.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { store.Close() })

	db, err := database.Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := &steppedClock{now: schedNow}
	messages := &channelLog{}
	states := kv.NewRunStates(store)
	shard := uuid.New()
	s, err := NewScheduler(Jobs(), shard, time.Minute, states, JobDeps{
		DB:        db,
		KV:        store,
		Config:    model.Config{JobInterval: time.Minute},
		Messenger: messages,
		Clock:     clock,
	})
	require.NoError(t, err)

	repo := database.NewReminderRepo(db, nil)
	for _, r := range []model.Reminder{
		{Who: 1, Server: 7, Channel: 10, When: schedNow.Add(20 * time.Second), What: "first"},
		{Who: 2, Server: 7, Channel: 20, When: schedNow.Add(time.Minute), What: "second"},
		{Who: 3, Server: 7, Channel: 30, When: schedNow.Add(10 * time.Minute), What: "later"},
	} {
		_, err := repo.Insert(ctx, r)
		require.NoError(t, err)
	}

	report := s.Tick(ctx)
	assert.Equal(t, 2, report.Completed)
	assert.Empty(t, messages.sent)

	clock.advance(time.Minute)
	s.Tick(ctx)
	assert.Equal(t, []string{"10: <@1> I was supposed to remind you of first"}, messages.sent)

	// a missed tick: the next window still starts at the last recorded run
	clock.advance(3 * time.Minute)
	s.Tick(ctx)
	assert.Equal(t, []string{
		"10: <@1> I was supposed to remind you of first",
		"20: <@2> I was supposed to remind you of second",
	}, messages.sent)

	state, err := states.Load(ctx, shard)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.LastRun.Equal(schedNow.Add(4*time.Minute)))

	// cleanup at now-2m removed both dispatched reminders
	left, err := database.NewReminderRepo(db, model.FixedClock(schedNow.Add(time.Hour))).GetSince(ctx, time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "later", left[0].What)
}
