package store

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StatusChecks records client-reported pings.
type StatusChecks struct {
	db *bun.DB
}

func NewStatusChecks(db *bun.DB) *StatusChecks {
	return &StatusChecks{db: db}
}

func (r *StatusChecks) Create(ctx context.Context, clientName string) (*StatusCheck, error) {
	record := &StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to insert status check")
	}
	return record, nil
}

func (r *StatusChecks) List(ctx context.Context, limit int) ([]StatusCheck, error) {
	if limit <= 0 {
		limit = 1000
	}

	var records []StatusCheck
	err := r.db.NewSelect().Model(&records).
		Order("timestamp DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list status checks")
	}
	return records, nil
}
