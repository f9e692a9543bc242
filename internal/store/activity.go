package store

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DailyCount is one point of a dense daily series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Activities is the append-only audit trail of register/login events.
type Activities struct {
	db *bun.DB
}

func NewActivities(db *bun.DB) *Activities {
	return &Activities{db: db}
}

// Record appends an event. Callers on the request path treat failures as
// best-effort: log and move on, never fail the triggering request.
func (r *Activities) Record(ctx context.Context, event *UserActivity) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if _, err := r.db.NewInsert().Model(event).Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to insert activity")
	}
	return nil
}

func (r *Activities) ListForUser(ctx context.Context, userID string, limit int) ([]UserActivity, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []UserActivity
	err := r.db.NewSelect().Model(&records).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list user activity")
	}
	return records, nil
}

func (r *Activities) ListAll(ctx context.Context, limit int) ([]UserActivity, error) {
	if limit <= 0 {
		limit = 100
	}

	var records []UserActivity
	err := r.db.NewSelect().Model(&records).
		Order("timestamp DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list activity")
	}
	return records, nil
}

func (r *Activities) CountByType(ctx context.Context, activityType string) (int, error) {
	return r.db.NewSelect().Model((*UserActivity)(nil)).
		Where("activity_type = ?", activityType).
		Count(ctx)
}

func (r *Activities) CountSince(ctx context.Context, cutoff time.Time) (int, error) {
	return r.db.NewSelect().Model((*UserActivity)(nil)).
		Where("timestamp >= ?", cutoff).
		Count(ctx)
}

// DailyCounts returns one entry per UTC calendar day for today plus the
// given number of prior days, oldest first. Days with no matching events
// appear with a zero count: the series is dense, never sparse.
func (r *Activities) DailyCounts(ctx context.Context, activityType string, days int) ([]DailyCount, error) {
	return dailyCounts(ctx, days, func(start, end time.Time) (int, error) {
		return r.db.NewSelect().Model((*UserActivity)(nil)).
			Where("activity_type = ?", activityType).
			Where("timestamp >= ?", start).
			Where("timestamp < ?", end).
			Count(ctx)
	})
}

// PurgeOlderThan removes events past the retention horizon.
func (r *Activities) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.NewDelete().Model((*UserActivity)(nil)).
		Where("timestamp < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to purge activity")
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// dailyCounts builds the zero-filled series shared by the activity and
// report charts: days+1 entries, ascending dates, day granularity in UTC.
func dailyCounts(ctx context.Context, days int, count func(start, end time.Time) (int, error)) ([]DailyCount, error) {
	if days < 0 {
		days = 0
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	series := make([]DailyCount, 0, days+1)
	for i := days; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		end := start.AddDate(0, 0, 1)

		n, err := count(start, end)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to count daily events")
		}

		series = append(series, DailyCount{
			Date:  start.Format("2006-01-02"),
			Count: n,
		})
	}
	return series, nil
}
