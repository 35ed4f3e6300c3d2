package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/middleware"
	"github.com/noah-isme/gema-mentorship/internal/utils"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	if apperror.CodeOf(err) == apperror.CodeForbiddenRole {
		return fiber.StatusForbidden
	}
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// handleError writes the error envelope. Store failures are logged and never leak details.
func handleError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	status := statusFor(err)
	code := string(apperror.CodeOf(err))

	if status == fiber.StatusInternalServerError {
		requestLogger(logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendErrorCode(c, status, code, "internal server error", nil)
	}

	message := "request failed"
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	return utils.SendErrorCode(c, status, code, message, nil)
}

func parseBody(c *fiber.Ctx, target interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(target); err != nil {
		return apperror.Invalid("invalid request body", err)
	}
	return nil
}

func parseQuery(c *fiber.Ctx, target interface{}) error {
	if err := c.QueryParser(target); err != nil {
		return apperror.Invalid("invalid query parameters", err)
	}
	return nil
}

func pathID(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Params("id"))
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}
