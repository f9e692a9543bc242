package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Configurations is the per-owner configuration repository. Ownership is
// part of every lookup predicate, never a post-check: a configuration owned
// by someone else behaves exactly like one that does not exist.
type Configurations struct {
	db *bun.DB
}

func NewConfigurations(db *bun.DB) *Configurations {
	return &Configurations{db: db}
}

// ConfigurationUpdate carries a partial update. Nil fields are left
// untouched; updated_at always refreshes.
type ConfigurationUpdate struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Devices     map[string]any `json:"devices"`
	Document    map[string]any `json:"configuration"`
	Results     map[string]any `json:"results"`
}

func (r *Configurations) Create(ctx context.Context, record *Configuration) (*Configuration, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to insert configuration")
	}
	return record, nil
}

func (r *Configurations) ListByOwner(ctx context.Context, ownerID string) ([]Configuration, error) {
	var records []Configuration
	err := r.db.NewSelect().Model(&records).
		Where("user_id = ?", ownerID).
		Order("updated_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list configurations")
	}
	return records, nil
}

func (r *Configurations) Get(ctx context.Context, id, ownerID string) (*Configuration, error) {
	record := &Configuration{}
	err := r.db.NewSelect().Model(record).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConfigurationNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query configuration")
	}
	return record, nil
}

// Update applies the supplied fields in a single id+owner scoped statement.
// The match predicate makes the update atomic with the ownership check.
func (r *Configurations) Update(ctx context.Context, id, ownerID string, update ConfigurationUpdate) (*Configuration, error) {
	model := &Configuration{UpdatedAt: time.Now().UTC()}

	q := r.db.NewUpdate().Model(model).
		Column("updated_at").
		Where("id = ?", id).
		Where("user_id = ?", ownerID)

	if update.Name != nil {
		model.Name = *update.Name
		q = q.Column("name")
	}
	if update.Description != nil {
		model.Description = update.Description
		q = q.Column("description")
	}
	if update.Devices != nil {
		model.Devices = update.Devices
		q = q.Column("devices")
	}
	if update.Document != nil {
		model.Document = update.Document
		q = q.Column("configuration")
	}
	if update.Results != nil {
		model.Results = update.Results
		q = q.Column("results")
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update configuration")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrConfigurationNotFound
	}

	return r.Get(ctx, id, ownerID)
}

func (r *Configurations) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.NewDelete().Model((*Configuration)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete configuration")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrConfigurationNotFound
	}
	return nil
}
