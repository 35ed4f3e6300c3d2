package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-mentorship/internal/dto"
	"github.com/noah-isme/gema-mentorship/internal/engine"
	"github.com/noah-isme/gema-mentorship/internal/middleware"
	"github.com/noah-isme/gema-mentorship/internal/utils"
)

// ApplicationEngine is the slice of the engine the application endpoints call.
type ApplicationEngine interface {
	ListApplications(ctx context.Context, actor engine.Actor, filter dto.ApplicationFilter) ([]dto.ApplicationResponse, error)
	Apply(ctx context.Context, actor engine.Actor, req dto.ApplyRequest) (dto.ApplicationResponse, error)
	Decide(ctx context.Context, actor engine.Actor, req dto.DecisionRequest) (dto.ApplicationResponse, error)
}

// ApplicationHandler manages application endpoints.
type ApplicationHandler struct {
	engine ApplicationEngine
	logger zerolog.Logger
}

// NewApplicationHandler builds an application handler instance.
func NewApplicationHandler(engine ApplicationEngine, logger zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		engine: engine,
		logger: logger.With().Str("component", "application_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ApplicationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.apply)
	router.Post("/:id/decision", h.decide)
}

func (h *ApplicationHandler) list(c *fiber.Ctx) error {
	var filter dto.ApplicationFilter
	if err := parseQuery(c, &filter); err != nil {
		return handleError(c, h.logger, err)
	}

	applications, err := h.engine.ListApplications(c.UserContext(), middleware.ActorFrom(c), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.OK(c, applications, "applications retrieved", fiber.Map{"total": len(applications)})
}

func (h *ApplicationHandler) apply(c *fiber.Ctx) error {
	var payload dto.ApplyRequest
	if err := parseBody(c, &payload); err != nil {
		return handleError(c, h.logger, err)
	}

	application, err := h.engine.Apply(c.UserContext(), middleware.ActorFrom(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application submitted", application)
}

func (h *ApplicationHandler) decide(c *fiber.Ctx) error {
	var payload dto.DecisionRequest
	if err := parseBody(c, &payload); err != nil {
		return handleError(c, h.logger, err)
	}
	payload.ApplicationID = pathID(c)

	application, err := h.engine.Decide(c.UserContext(), middleware.ActorFrom(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "application decided", application)
}
