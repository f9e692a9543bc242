package store

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ReportAuthor is an aggregation row: one user and their report count.
type ReportAuthor struct {
	UserID    string `bun:"user_id" json:"user_id"`
	UserEmail string `bun:"user_email" json:"user_email"`
	UserName  string `bun:"user_name" json:"user_name"`
	Count     int    `bun:"report_count" json:"count"`
}

// Reports is the append-only log of generated reports.
type Reports struct {
	db *bun.DB
}

func NewReports(db *bun.DB) *Reports {
	return &Reports{db: db}
}

func (r *Reports) Record(ctx context.Context, event *ReportLog) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if _, err := r.db.NewInsert().Model(event).Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to insert report log")
	}
	return nil
}

func (r *Reports) ListForUser(ctx context.Context, userID string, limit int) ([]ReportLog, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []ReportLog
	err := r.db.NewSelect().Model(&records).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list report logs")
	}
	return records, nil
}

// DailyCounts returns the dense daily series of generated reports across
// all report types.
func (r *Reports) DailyCounts(ctx context.Context, days int) ([]DailyCount, error) {
	return dailyCounts(ctx, days, func(start, end time.Time) (int, error) {
		return r.db.NewSelect().Model((*ReportLog)(nil)).
			Where("timestamp >= ?", start).
			Where("timestamp < ?", end).
			Count(ctx)
	})
}

// TopAuthors groups report logs by user and returns the heaviest report
// generators, ties broken by user id for a stable order.
func (r *Reports) TopAuthors(ctx context.Context, limit int) ([]ReportAuthor, error) {
	if limit <= 0 {
		limit = 5
	}

	var authors []ReportAuthor
	err := r.db.NewSelect().Model((*ReportLog)(nil)).
		ColumnExpr("user_id").
		ColumnExpr("min(user_email) AS user_email").
		ColumnExpr("min(user_name) AS user_name").
		ColumnExpr("count(*) AS report_count").
		Group("user_id").
		OrderExpr("report_count DESC, user_id ASC").
		Limit(limit).
		Scan(ctx, &authors)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to aggregate report authors")
	}
	return authors, nil
}

func (r *Reports) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.NewDelete().Model((*ReportLog)(nil)).
		Where("timestamp < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to purge report logs")
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}
