package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/engine"
	"github.com/noah-isme/gema-mentorship/internal/middleware"
	"github.com/noah-isme/gema-mentorship/internal/service"
	"github.com/noah-isme/gema-mentorship/internal/utils"
)

// SeedHandler exposes the demo dataset loader to coordinators.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("", h.seed)
}

func (h *SeedHandler) seed(c *fiber.Ctx) error {
	if middleware.ActorFrom(c).Role != engine.RoleCoordinator {
		return handleError(c, h.logger, apperror.ErrForbiddenRole)
	}

	report, err := h.service.Seed(c.UserContext())
	if err != nil {
		if errors.Is(err, service.ErrSeedDisabled) {
			return utils.SendErrorCode(c, fiber.StatusForbidden, "SEED_DISABLED", err.Error(), nil)
		}
		return handleError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().Interface("report", report).Msg("demo data seeded")
	return utils.SendSuccess(c, "demo data seeded", report)
}
