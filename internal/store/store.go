package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Options bounds every connection-pool and wait parameter. No field may be
// left unbounded: a caller that cannot obtain a connection must time out
// and fail with a retryable error, never block indefinitely.
type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
	PingTimeout     time.Duration
}

// Manager owns the pooled database handle. It is constructed once at
// process start, injected into the repositories, and released once at
// shutdown. Bootstrap steps (schema, indexes, data-quality scan) are
// tolerant of partial failure: the process must start and serve traffic
// even when they fail.
type Manager struct {
	opts   Options
	logger logrus.FieldLogger
	sqldb  *sql.DB
	db     *bun.DB
}

func NewManager(opts Options, logger logrus.FieldLogger) *Manager {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 50
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 10
	}
	if opts.ConnMaxIdleTime <= 0 {
		opts.ConnMaxIdleTime = 45 * time.Second
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 5 * time.Second
	}
	return &Manager{opts: opts, logger: logger}
}

// Connect opens the pooled handle and verifies it within the connect
// timeout. Safe to call once at process start.
func (m *Manager) Connect(ctx context.Context) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, m.opts.DSN)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	sqldb.SetMaxOpenConns(m.opts.MaxOpenConns)
	sqldb.SetMaxIdleConns(m.opts.MaxIdleConns)
	sqldb.SetConnMaxIdleTime(m.opts.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, m.opts.ConnectTimeout)
	defer cancel()

	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return errors.Wrap(err, ErrUnavailable.Category, ErrUnavailable.Message).
			WithTextCode(ErrUnavailable.TextCode).
			WithCode(503)
	}

	m.sqldb = sqldb
	m.db = bun.NewDB(sqldb, sqlitedialect.New())

	m.logger.WithField("dsn", m.opts.DSN).Info("connected to database")
	return nil
}

// DB exposes the bun handle for the repositories.
func (m *Manager) DB() *bun.DB {
	return m.db
}

// EnsureSchema creates tables and the index set the read paths depend on.
// Index failures are logged and skipped: they are optimizations, not
// correctness requirements, and must not abort startup.
func (m *Manager) EnsureSchema(ctx context.Context) error {
	models := []any{
		(*User)(nil),
		(*Configuration)(nil),
		(*UserActivity)(nil),
		(*ReportLog)(nil),
		(*ChatMessage)(nil),
		(*StatusCheck)(nil),
	}

	for _, model := range models {
		if _, err := m.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to create table")
		}
	}

	m.ensureIndexes(ctx)
	return nil
}

type indexSpec struct {
	model   any
	name    string
	columns []string
	unique  bool
}

func (m *Manager) ensureIndexes(ctx context.Context) {
	specs := []indexSpec{
		{(*User)(nil), "idx_users_email", []string{"email"}, true},
		{(*User)(nil), "idx_users_created_at", []string{"created_at"}, false},
		{(*User)(nil), "idx_users_role", []string{"role"}, false},

		{(*UserActivity)(nil), "idx_activities_user_time", []string{"user_id", "timestamp"}, false},
		{(*UserActivity)(nil), "idx_activities_type_time", []string{"activity_type", "timestamp"}, false},
		{(*UserActivity)(nil), "idx_activities_timestamp", []string{"timestamp"}, false},

		{(*Configuration)(nil), "idx_configs_user_updated", []string{"user_id", "updated_at"}, false},
		{(*Configuration)(nil), "idx_configs_id_user", []string{"id", "user_id"}, false},

		{(*ReportLog)(nil), "idx_reports_user_time", []string{"user_id", "timestamp"}, false},
		{(*ReportLog)(nil), "idx_reports_type_time", []string{"report_type", "timestamp"}, false},
		{(*ReportLog)(nil), "idx_reports_timestamp", []string{"timestamp"}, false},

		{(*ChatMessage)(nil), "idx_chat_user_session_time", []string{"user_id", "session_id", "timestamp"}, false},
		{(*ChatMessage)(nil), "idx_chat_session_time", []string{"session_id", "timestamp"}, false},

		{(*StatusCheck)(nil), "idx_status_timestamp", []string{"timestamp"}, false},
	}

	for _, spec := range specs {
		q := m.db.NewCreateIndex().
			Model(spec.model).
			IfNotExists().
			Index(spec.name).
			Column(spec.columns...)

		if spec.unique {
			q = q.Unique()
		}

		if _, err := q.Exec(ctx); err != nil {
			m.logger.WithError(err).WithField("index", spec.name).Warn("index creation failed, continuing")
		}
	}

	m.logger.Info("database indexes ensured")
}

// CheckDataQuality runs the warn-only structural scan: rows that violate
// the advisory schema (missing required fields, out-of-enum roles or
// activity types) are counted and logged, never rejected.
func (m *Manager) CheckDataQuality(ctx context.Context) {
	checks := []struct {
		label string
		count func() (int, error)
	}{
		{"users with empty email or name", func() (int, error) {
			return m.db.NewSelect().Model((*User)(nil)).
				Where("email = '' OR name = ''").Count(ctx)
		}},
		{"users with out-of-enum role", func() (int, error) {
			return m.db.NewSelect().Model((*User)(nil)).
				Where("role NOT IN (?, ?)", "user", "admin").Count(ctx)
		}},
		{"activities with out-of-enum type", func() (int, error) {
			return m.db.NewSelect().Model((*UserActivity)(nil)).
				Where("activity_type NOT IN (?, ?)", ActivityRegister, ActivityLogin).Count(ctx)
		}},
		{"activities missing user reference", func() (int, error) {
			return m.db.NewSelect().Model((*UserActivity)(nil)).
				Where("user_id = '' OR user_email = ''").Count(ctx)
		}},
		{"configurations with empty name", func() (int, error) {
			return m.db.NewSelect().Model((*Configuration)(nil)).
				Where("name = ''").Count(ctx)
		}},
		{"report logs missing user reference", func() (int, error) {
			return m.db.NewSelect().Model((*ReportLog)(nil)).
				Where("user_id = '' OR user_email = ''").Count(ctx)
		}},
	}

	for _, check := range checks {
		n, err := check.count()
		if err != nil {
			m.logger.WithError(err).WithField("check", check.label).Warn("data quality check failed, continuing")
			continue
		}
		if n > 0 {
			m.logger.WithFields(logrus.Fields{
				"check": check.label,
				"rows":  n,
			}).Warn("data quality violation")
		}
	}
}

// HealthCheck is the liveness probe: a bounded ping with no side effects.
// Any failure converts to false.
func (m *Manager) HealthCheck(ctx context.Context) bool {
	if m.sqldb == nil {
		return false
	}

	pingCtx, cancel := context.WithTimeout(ctx, m.opts.PingTimeout)
	defer cancel()

	if err := m.sqldb.PingContext(pingCtx); err != nil {
		m.logger.WithError(err).Error("database health check failed")
		return false
	}
	return true
}

// Close releases the pooled handle. Idempotent.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}

	err := m.db.Close()
	m.db = nil
	m.sqldb = nil
	m.logger.Info("database connection closed")
	return err
}
