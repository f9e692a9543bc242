package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/sizecalc/sizing-api/internal/auth"
	"github.com/sizecalc/sizing-api/internal/store"
)

// StatusCheckPayload is the status ping request body.
type StatusCheckPayload struct {
	ClientName string `json:"client_name"`
}

func (p StatusCheckPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ClientName, validation.Required),
	)
}

// Root identifies the API.
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "sizing-api - SIEM/XDR Infrastructure Sizing Calculator",
	})
}

// Health is the liveness probe for external monitors. A degraded database
// reports 503 so monitors can alert, but the probe itself never errors.
func (s *Server) Health(c *fiber.Ctx) error {
	healthy := s.manager.HealthCheck(c.UserContext())

	body := fiber.Map{
		"status":   "ok",
		"database": "connected",
		"version":  Version,
	}
	if !healthy {
		body["status"] = "degraded"
		body["database"] = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	return c.JSON(body)
}

// CreateStatusCheck records a client ping.
func (s *Server) CreateStatusCheck(c *fiber.Ctx) error {
	payload := StatusCheckPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(err)
	}
	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	record, err := s.statuses.Create(c.UserContext(), payload.ClientName)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// ListStatusChecks returns recent client pings.
func (s *Server) ListStatusChecks(c *fiber.Ctx) error {
	records, err := s.statuses.List(c.UserContext(), c.QueryInt("limit", 1000))
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// LogReport appends a report-generation event attributed to the caller's
// live account record.
func (s *Server) LogReport(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return auth.ErrMissingToken
	}

	reportType := c.Query("report_type")
	if reportType == "" {
		return errors.New("report_type is required", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	user, err := s.users.GetByID(c.UserContext(), claims.UserID())
	if err != nil {
		return err
	}

	event := &store.ReportLog{
		UserID:     user.ID,
		UserEmail:  user.Email,
		UserName:   user.Name,
		ReportType: reportType,
	}
	if err := s.reports.Record(c.UserContext(), event); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":    "logged",
		"report_id": event.ID,
	})
}

// ChatHistory returns the caller's conversation for one session.
func (s *Server) ChatHistory(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return auth.ErrMissingToken
	}

	records, err := s.chats.History(c.UserContext(), claims.UserID(), c.Params("session_id"), 100)
	if err != nil {
		return err
	}
	return c.JSON(records)
}
