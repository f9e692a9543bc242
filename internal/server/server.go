// Package server wires the HTTP surface: routing, guards, middleware, and
// the translation of domain errors onto the wire.
package server

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"github.com/sizecalc/sizing-api/internal/auth"
	"github.com/sizecalc/sizing-api/internal/config"
	"github.com/sizecalc/sizing-api/internal/store"
)

// Version is stamped at build time via -ldflags.
var Version = "0.0.0-dev"

// Server is the HTTP application. All dependencies are injected; it holds
// no ambient state.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	logger logrus.FieldLogger

	tokens  *auth.TokenService
	manager *store.Manager

	users    *store.Users
	configs  *store.Configurations
	activity *store.Activities
	reports  *store.Reports
	chats    *store.ChatMessages
	statuses *store.StatusChecks
}

func New(cfg *config.Config, logger logrus.FieldLogger, manager *store.Manager, tokens *auth.TokenService) *Server {
	db := manager.DB()

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		tokens:   tokens,
		manager:  manager,
		users:    store.NewUsers(db),
		configs:  store.NewConfigurations(db),
		activity: store.NewActivities(db),
		reports:  store.NewReports(db),
		chats:    store.NewChatMessages(db),
		statuses: store.NewStatusChecks(db),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "sizing-api",
		ErrorHandler:          errorHandler(logger),
		DisableStartupMessage: true,
	})

	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	s.logger.WithField("addr", s.cfg.HTTPAddr).Info("http server listening")
	return s.app.Listen(s.cfg.HTTPAddr)
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	s.app.Use(RequestLogging(s.logger))
	s.app.Use(SecurityHeaders())
	s.app.Use(RequestTimeout(s.cfg.RequestTimeout))

	corsCfg := cors.Config{
		AllowOrigins: s.cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}
	// fiber rejects the credentials+wildcard combination outright
	if !strings.Contains(s.cfg.CORSOrigins, "*") {
		corsCfg.AllowCredentials = true
	}
	s.app.Use(cors.New(corsCfg))
}

func (s *Server) registerRoutes() {
	required := auth.Required(s.tokens)
	adminOnly := auth.AdminOnly(s.tokens, s.users)

	s.app.Get("/", s.Root)
	s.app.Get("/health", s.Health)
	s.app.Post("/status", s.CreateStatusCheck)
	s.app.Get("/status", s.ListStatusChecks)

	authGroup := s.app.Group("/auth")
	authGroup.Post("/register", s.Register)
	authGroup.Post("/login", s.Login)
	authGroup.Get("/me", required, s.Me)
	authGroup.Get("/my-activity", required, s.MyActivity)

	admin := s.app.Group("/admin", adminOnly)
	admin.Get("/users", s.AdminUsers)
	admin.Get("/activity", s.AdminActivity)
	admin.Get("/stats", s.AdminStats)
	admin.Get("/charts/signups", s.AdminChartSignups)
	admin.Get("/charts/logins", s.AdminChartLogins)
	admin.Get("/charts/reports", s.AdminChartReports)
	admin.Get("/reports/top-authors", s.AdminTopReportAuthors)

	configs := s.app.Group("/configurations", required)
	configs.Post("/", s.CreateConfiguration)
	configs.Get("/", s.ListConfigurations)
	configs.Get("/:id", s.GetConfiguration)
	configs.Put("/:id", s.UpdateConfiguration)
	configs.Delete("/:id", s.DeleteConfiguration)

	s.app.Post("/reports/log", required, s.LogReport)
	s.app.Get("/ai/history/:session_id", required, s.ChatHistory)
}
