package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/sirupsen/logrus"

	"github.com/sizecalc/sizing-api/internal/store"
)

// errorHandler is the single point where domain errors become wire
// responses. The body carries one human-readable reason; raw storage error
// text never leaves the process.
func errorHandler(logger logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := errorStatus(err)

		// the request deadline fired while waiting on storage; the caller
		// can retry
		if errors.Is(err, context.DeadlineExceeded) {
			logger.WithError(err).Error("request deadline exceeded")
			return c.Status(status).JSON(fiber.Map{"detail": store.ErrUnavailable.Message})
		}

		var richErr *errors.Error
		if errors.As(err, &richErr) {
			if status >= fiber.StatusInternalServerError {
				logger.WithError(err).Error("request failed")
				return c.Status(status).JSON(fiber.Map{"detail": "internal server error"})
			}
			return c.Status(status).JSON(fiber.Map{"detail": richErr.Message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(status).JSON(fiber.Map{"detail": fiberErr.Message})
		}

		logger.WithError(err).Error("unhandled error")
		return c.Status(status).JSON(fiber.Map{"detail": "internal server error"})
	}
}

// errorStatus resolves the wire status for an error before the response is
// written. The access log uses it too, so logged statuses match what the
// client receives.
func errorStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusServiceUnavailable
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		status := richErr.Code
		if status < 100 || status > 599 {
			status = categoryStatus(richErr.Category)
		}
		return status
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	return fiber.StatusInternalServerError
}

func categoryStatus(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict, errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
