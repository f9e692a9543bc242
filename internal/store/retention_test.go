package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sizecalc/sizing-api/internal/store"
)

func TestSweeperSweep(t *testing.T) {
	m := newTestManager(t)
	activities := store.NewActivities(m.DB())
	reports := store.NewReports(m.DB())
	chats := store.NewChatMessages(m.DB())
	ctx := context.Background()

	now := time.Now().UTC()

	seedActivity(t, activities, "u1", store.ActivityLogin, now.Add(-48*time.Hour))
	seedActivity(t, activities, "u1", store.ActivityLogin, now)
	seedReport(t, reports, "u1", "pdf", now.Add(-48*time.Hour))
	seedReport(t, reports, "u1", "pdf", now)
	seedChat(t, chats, "u1", "s1", "user", "old", now.Add(-48*time.Hour))
	seedChat(t, chats, "u1", "s1", "user", "fresh", now)

	sweeper := store.NewSweeper(activities, reports, chats, testLogger()).
		WithRetention(24*time.Hour, 24*time.Hour, 24*time.Hour)

	sweeper.Sweep()

	remaining, err := activities.ListAll(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	logs, err := reports.ListForUser(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	history, err := chats.History(ctx, "u1", "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "fresh", history[0].Content)
}

func TestSweeperRetentionDefaults(t *testing.T) {
	m := newTestManager(t)
	activities := store.NewActivities(m.DB())
	reports := store.NewReports(m.DB())
	chats := store.NewChatMessages(m.DB())

	now := time.Now().UTC()
	seedActivity(t, activities, "u1", store.ActivityLogin, now.Add(-48*time.Hour))

	// zero overrides keep the 365-day default, so nothing is purged
	sweeper := store.NewSweeper(activities, reports, chats, testLogger()).
		WithRetention(0, 0, 0)
	sweeper.Sweep()

	remaining, err := activities.ListAll(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestSweeperStartStop(t *testing.T) {
	m := newTestManager(t)
	sweeper := store.NewSweeper(
		store.NewActivities(m.DB()),
		store.NewReports(m.DB()),
		store.NewChatMessages(m.DB()),
		testLogger(),
	)

	require.NoError(t, sweeper.Start())
	sweeper.Stop()
}
