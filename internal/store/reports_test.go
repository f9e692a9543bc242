package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sizecalc/sizing-api/internal/store"
)

func seedReport(t *testing.T, reports *store.Reports, userID, reportType string, at time.Time) {
	t.Helper()
	err := reports.Record(context.Background(), &store.ReportLog{
		UserID:     userID,
		UserEmail:  userID + "@example.com",
		UserName:   "Reporter " + userID,
		ReportType: reportType,
		Timestamp:  at,
	})
	require.NoError(t, err)
}

func TestReportsRecord(t *testing.T) {
	m := newTestManager(t)
	reports := store.NewReports(m.DB())
	ctx := context.Background()

	event := &store.ReportLog{
		UserID:     "u1",
		UserEmail:  "u1@example.com",
		ReportType: "pdf",
	}
	require.NoError(t, reports.Record(ctx, event))

	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestReportsListForUser(t *testing.T) {
	m := newTestManager(t)
	reports := store.NewReports(m.DB())
	ctx := context.Background()

	now := time.Now().UTC()
	seedReport(t, reports, "u1", "pdf", now.Add(-time.Hour))
	seedReport(t, reports, "u1", "excel", now)
	seedReport(t, reports, "u2", "pdf", now)

	records, err := reports.ListForUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "excel", records[0].ReportType, "newest first")
}

func TestReportsDailyCounts(t *testing.T) {
	m := newTestManager(t)
	reports := store.NewReports(m.DB())
	ctx := context.Background()

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)

	seedReport(t, reports, "u1", "pdf", today)
	seedReport(t, reports, "u2", "excel", today)
	seedReport(t, reports, "u1", "pdf", today.AddDate(0, 0, -2))

	series, err := reports.DailyCounts(ctx, 7)
	require.NoError(t, err)
	require.Len(t, series, 8)

	assert.Equal(t, 2, series[len(series)-1].Count, "all report types count toward the chart")
	assert.Equal(t, 1, series[len(series)-3].Count)
	assert.Equal(t, 0, series[0].Count)
}

func TestReportsTopAuthors(t *testing.T) {
	m := newTestManager(t)
	reports := store.NewReports(m.DB())
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		seedReport(t, reports, "busy", "pdf", now)
	}
	for i := 0; i < 2; i++ {
		seedReport(t, reports, "medium", "pdf", now)
	}
	seedReport(t, reports, "quiet", "excel", now)

	t.Run("ordered by volume", func(t *testing.T) {
		authors, err := reports.TopAuthors(ctx, 0)
		require.NoError(t, err)
		require.Len(t, authors, 3)

		assert.Equal(t, "busy", authors[0].UserID)
		assert.Equal(t, 3, authors[0].Count)
		assert.Equal(t, "busy@example.com", authors[0].UserEmail)

		assert.Equal(t, "medium", authors[1].UserID)
		assert.Equal(t, "quiet", authors[2].UserID)
		assert.Equal(t, 1, authors[2].Count)
	})

	t.Run("limit truncates", func(t *testing.T) {
		authors, err := reports.TopAuthors(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, authors, 2)
	})
}

func TestReportsPurgeOlderThan(t *testing.T) {
	m := newTestManager(t)
	reports := store.NewReports(m.DB())
	ctx := context.Background()

	now := time.Now().UTC()
	seedReport(t, reports, "u1", "pdf", now.AddDate(0, 0, -400))
	seedReport(t, reports, "u1", "pdf", now)

	purged, err := reports.PurgeOlderThan(ctx, now.AddDate(0, 0, -365))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
