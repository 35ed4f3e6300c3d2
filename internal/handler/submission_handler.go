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

// SubmissionEngine is the slice of the engine the submission endpoints call.
type SubmissionEngine interface {
	ListSubmissions(ctx context.Context, actor engine.Actor, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Submit(ctx context.Context, actor engine.Actor, req dto.SubmitRequest) (dto.SubmissionResponse, error)
	Review(ctx context.Context, actor engine.Actor, req dto.ReviewRequest) (dto.SubmissionResponse, error)
}

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	engine SubmissionEngine
	logger zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(engine SubmissionEngine, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		engine: engine,
		logger: logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.submit)
	router.Post("/:id/review", h.review)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	var filter dto.SubmissionFilter
	if err := parseQuery(c, &filter); err != nil {
		return handleError(c, h.logger, err)
	}

	submissions, err := h.engine.ListSubmissions(c.UserContext(), middleware.ActorFrom(c), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.OK(c, submissions, "submissions retrieved", fiber.Map{"total": len(submissions)})
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitRequest
	if err := parseBody(c, &payload); err != nil {
		return handleError(c, h.logger, err)
	}

	submission, err := h.engine.Submit(c.UserContext(), middleware.ActorFrom(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission created", submission)
}

func (h *SubmissionHandler) review(c *fiber.Ctx) error {
	var payload dto.ReviewRequest
	if err := parseBody(c, &payload); err != nil {
		return handleError(c, h.logger, err)
	}
	payload.SubmissionID = pathID(c)

	submission, err := h.engine.Review(c.UserContext(), middleware.ActorFrom(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "submission reviewed", submission)
}
