package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/sizecalc/sizing-api/internal/auth"
	"github.com/sizecalc/sizing-api/internal/store"
)

// ConfigurationPayload is the create request body. The three document
// fields are opaque JSON objects; an empty object is valid, a missing one
// is not.
type ConfigurationPayload struct {
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Devices     map[string]any `json:"devices"`
	Document    map[string]any `json:"configuration"`
	Results     map[string]any `json:"results"`
}

func (p ConfigurationPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Devices, validation.NotNil),
		validation.Field(&p.Document, validation.NotNil),
		validation.Field(&p.Results, validation.NotNil),
	)
}

// CreateConfiguration saves a configuration owned by the caller.
func (s *Server) CreateConfiguration(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return auth.ErrMissingToken
	}

	payload := ConfigurationPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(err)
	}
	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	record, err := s.configs.Create(c.UserContext(), &store.Configuration{
		UserID:      claims.UserID(),
		Name:        payload.Name,
		Description: payload.Description,
		Devices:     payload.Devices,
		Document:    payload.Document,
		Results:     payload.Results,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// ListConfigurations returns the caller's configurations, most recently
// updated first.
func (s *Server) ListConfigurations(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return auth.ErrMissingToken
	}

	records, err := s.configs.ListByOwner(c.UserContext(), claims.UserID())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// GetConfiguration fetches one configuration by id, scoped to the caller.
func (s *Server) GetConfiguration(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return auth.ErrMissingToken
	}

	record, err := s.configs.Get(c.UserContext(), c.Params("id"), claims.UserID())
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// UpdateConfiguration applies a partial update. Only supplied fields
// change; updated_at always refreshes.
func (s *Server) UpdateConfiguration(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return auth.ErrMissingToken
	}

	update := store.ConfigurationUpdate{}
	if err := c.BodyParser(&update); err != nil {
		return badRequest(err)
	}

	record, err := s.configs.Update(c.UserContext(), c.Params("id"), claims.UserID(), update)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// DeleteConfiguration removes one configuration, scoped to the caller.
func (s *Server) DeleteConfiguration(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return auth.ErrMissingToken
	}

	if err := s.configs.Delete(c.UserContext(), c.Params("id"), claims.UserID()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
