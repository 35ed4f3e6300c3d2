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

// OverviewEngine is the slice of the engine the dashboard endpoints call.
type OverviewEngine interface {
	Overview(ctx context.Context, actor engine.Actor) (dto.OverviewResponse, error)
	RecentActivity(ctx context.Context, actor engine.Actor, filter dto.ActivityFilter) ([]dto.ActivityResponse, error)
}

// OverviewHandler serves the dashboard counters and the activity feed.
type OverviewHandler struct {
	engine OverviewEngine
	logger zerolog.Logger
}

// NewOverviewHandler builds an overview handler instance.
func NewOverviewHandler(engine OverviewEngine, logger zerolog.Logger) *OverviewHandler {
	return &OverviewHandler{
		engine: engine,
		logger: logger.With().Str("component", "overview_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *OverviewHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
	router.Get("/activity", h.activity)
}

func (h *OverviewHandler) overview(c *fiber.Ctx) error {
	overview, err := h.engine.Overview(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "overview retrieved", overview)
}

func (h *OverviewHandler) activity(c *fiber.Ctx) error {
	var filter dto.ActivityFilter
	if err := parseQuery(c, &filter); err != nil {
		return handleError(c, h.logger, err)
	}

	events, err := h.engine.RecentActivity(c.UserContext(), middleware.ActorFrom(c), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.OK(c, events, "activity retrieved", fiber.Map{"total": len(events)})
}
