package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the account repository. Email and id uniqueness are enforced by
// the store's unique indexes; ids are generated here, not by the database.
type Users struct {
	db *bun.DB
}

func NewUsers(db *bun.DB) *Users {
	return &Users{db: db}
}

// Create inserts a new account. A duplicate email fails with
// ErrEmailRegistered whether it is caught by the pre-insert check or by the
// unique index closing the race.
func (r *Users) Create(ctx context.Context, record *User) (*User, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Role == "" {
		record.Role = "user"
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	exists, err := r.db.NewSelect().Model((*User)(nil)).
		Where("email = ?", record.Email).
		Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check existing email")
	}
	if exists {
		return nil, ErrEmailRegistered
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailRegistered
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to insert user")
	}

	return record, nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := r.db.NewSelect().Model(record).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by email")
	}
	return record, nil
}

func (r *Users) GetByID(ctx context.Context, id string) (*User, error) {
	record := &User{}
	err := r.db.NewSelect().Model(record).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by id")
	}
	return record, nil
}

// List returns every account with the password hash excluded at query
// level, ordered by creation time descending.
func (r *Users) List(ctx context.Context) ([]User, error) {
	var records []User
	err := r.db.NewSelect().Model(&records).
		ExcludeColumn("hashed_password").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}
	return records, nil
}

func (r *Users) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*User)(nil)).Count(ctx)
}

func (r *Users) CountByRole(ctx context.Context, role string) (int, error) {
	return r.db.NewSelect().Model((*User)(nil)).
		Where("role = ?", role).
		Count(ctx)
}

func (r *Users) CountCreatedSince(ctx context.Context, cutoff time.Time) (int, error) {
	return r.db.NewSelect().Model((*User)(nil)).
		Where("created_at >= ?", cutoff).
		Count(ctx)
}

// SetRole updates the account's role by direct administrative action. There
// is no user-facing path to this.
func (r *Users) SetRole(ctx context.Context, id, role string) (*User, error) {
	res, err := r.db.NewUpdate().Model((*User)(nil)).
		Set("role = ?", role).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update role")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrUserNotFound
	}

	return r.GetByID(ctx, id)
}

// CurrentRole resolves a token subject to the account's live role. Used by
// the admin guard, which must not trust the role embedded in the token.
func (r *Users) CurrentRole(ctx context.Context, userID string) (string, bool, error) {
	record, err := r.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return record.Role, true, nil
}
