package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/sizecalc/sizing-api/internal/auth"
	"github.com/sizecalc/sizing-api/internal/store"
)

// RegisterPayload is the registration request body.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new account with the default role and records the
// registration in the activity log.
func (s *Server) Register(c *fiber.Ctx) error {
	payload := RegisterPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(err)
	}
	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	hash, err := auth.HashPassword(payload.Password, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	user, err := s.users.Create(c.UserContext(), &store.User{
		Email:        payload.Email,
		Name:         payload.Name,
		Role:         auth.RoleUser,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}

	s.recordActivity(c, user, store.ActivityRegister)

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login verifies credentials and mints a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Server) Login(c *fiber.Ctx) error {
	payload := LoginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(err)
	}
	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	user, err := s.users.GetByEmail(c.UserContext(), payload.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return auth.ErrInvalidCredentials
		}
		return err
	}

	if err := auth.ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrMismatchedHashAndPassword) {
			return auth.ErrInvalidCredentials
		}
		return err
	}

	token, err := s.tokens.Generate(auth.TokenSubject{
		SubjectID:    user.ID,
		SubjectEmail: user.Email,
		SubjectRole:  user.Role,
	})
	if err != nil {
		return err
	}

	s.recordActivity(c, user, store.ActivityLogin)

	return c.JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me returns the caller's account.
func (s *Server) Me(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return auth.ErrMissingToken
	}

	user, err := s.users.GetByID(c.UserContext(), claims.UserID())
	if err != nil {
		return err
	}

	return c.JSON(user)
}

// MyActivity returns the caller's recent register/login events.
func (s *Server) MyActivity(c *fiber.Ctx) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return auth.ErrMissingToken
	}

	limit := c.QueryInt("limit", 20)

	records, err := s.activity.ListForUser(c.UserContext(), claims.UserID(), limit)
	if err != nil {
		return err
	}

	return c.JSON(records)
}

// recordActivity appends an audit event without ever failing the request:
// logging is best-effort, the triggering operation already succeeded.
func (s *Server) recordActivity(c *fiber.Ctx, user *store.User, activityType string) {
	event := &store.UserActivity{
		UserID:       user.ID,
		UserEmail:    user.Email,
		UserName:     user.Name,
		ActivityType: activityType,
	}
	if ip := c.IP(); ip != "" {
		event.IPAddress = &ip
	}
	if ua := c.Get(fiber.HeaderUserAgent); ua != "" {
		event.UserAgent = &ua
	}

	if err := s.activity.Record(c.UserContext(), event); err != nil {
		s.logger.WithError(err).WithField("activity_type", activityType).Warn("activity logging failed")
	}
}

func badRequest(err error) error {
	return errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
		WithCode(errors.CodeBadRequest)
}

func invalidPayload(err error) error {
	return errors.Wrap(err, errors.CategoryValidation, err.Error()).
		WithCode(errors.CodeBadRequest)
}
