// Command create-admin seeds or promotes the administrator account. It is
// idempotent: an existing account is promoted to admin, a missing one is
// created.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/goliatone/go-errors"

	"github.com/sizecalc/sizing-api/internal/auth"
	"github.com/sizecalc/sizing-api/internal/config"
	"github.com/sizecalc/sizing-api/internal/logging"
	"github.com/sizecalc/sizing-api/internal/store"
)

func main() {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	email := envOr("ADMIN_EMAIL", "admin@sizecalc.local")
	password := envOr("ADMIN_PASSWORD", "")
	name := envOr("ADMIN_NAME", "System Administrator")

	flag.StringVar(&cfg.DatabaseDSN, "d", envOr("DATABASE_DSN", cfg.DatabaseDSN), "database DSN")
	flag.StringVar(&email, "email", email, "admin email")
	flag.StringVar(&password, "password", password, "admin password (required when creating)")
	flag.StringVar(&name, "name", name, "admin display name")
	flag.Parse()

	logger := logging.New("info", "text")

	manager := store.NewManager(store.Options{DSN: cfg.DatabaseDSN}, logger)

	ctx := context.Background()
	if err := manager.Connect(ctx); err != nil {
		logger.WithError(err).Fatal("cannot connect to database")
	}
	defer manager.Close()

	if err := manager.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("cannot ensure schema")
	}

	users := store.NewUsers(manager.DB())

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == auth.RoleAdmin {
			logger.WithField("email", email).Info("user already has admin role")
			return
		}
		if _, err := users.SetRole(ctx, existing.ID, auth.RoleAdmin); err != nil {
			logger.WithError(err).Fatal("cannot promote user")
		}
		logger.WithField("email", email).Info("user promoted to admin role")

	case errors.Is(err, store.ErrUserNotFound):
		if password == "" {
			logger.Fatal("ADMIN_PASSWORD (or -password) is required to create the admin account")
		}

		hash, err := auth.HashPassword(password, cfg.BcryptCost)
		if err != nil {
			logger.WithError(err).Fatal("cannot hash password")
		}

		admin, err := users.Create(ctx, &store.User{
			Email:        email,
			Name:         name,
			Role:         auth.RoleAdmin,
			PasswordHash: hash,
		})
		if err != nil {
			logger.WithError(err).Fatal("cannot create admin user")
		}
		logger.WithField("email", admin.Email).Info("admin user created; change the password after first login")

	default:
		logger.WithError(err).Fatal("cannot look up admin user")
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
