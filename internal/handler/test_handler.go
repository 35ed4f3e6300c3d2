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

// TestEngine is the slice of the engine the assessment endpoints call.
type TestEngine interface {
	ListTests(ctx context.Context, actor engine.Actor) ([]dto.TestResponse, error)
	TakeTest(ctx context.Context, actor engine.Actor, req dto.TakeTestRequest) (dto.TestResultResponse, error)
	ListTestResults(ctx context.Context, actor engine.Actor, filter dto.TestResultFilter) ([]dto.TestResultResponse, error)
	TestSummary(ctx context.Context, actor engine.Actor, req dto.TestSummaryRequest) (dto.TestSummaryResponse, error)
}

// TestHandler manages assessment endpoints.
type TestHandler struct {
	engine TestEngine
	logger zerolog.Logger
}

// NewTestHandler builds an assessment handler instance.
func NewTestHandler(engine TestEngine, logger zerolog.Logger) *TestHandler {
	return &TestHandler{
		engine: engine,
		logger: logger.With().Str("component", "test_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *TestHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/results", h.results)
	router.Get("/summary", h.summary)
	router.Post("/:id/attempts", h.take)
}

func (h *TestHandler) list(c *fiber.Ctx) error {
	tests, err := h.engine.ListTests(c.UserContext(), middleware.ActorFrom(c))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.OK(c, tests, "tests retrieved", fiber.Map{"total": len(tests)})
}

func (h *TestHandler) take(c *fiber.Ctx) error {
	var payload dto.TakeTestRequest
	if err := parseBody(c, &payload); err != nil {
		return handleError(c, h.logger, err)
	}
	payload.TestID = pathID(c)

	result, err := h.engine.TakeTest(c.UserContext(), middleware.ActorFrom(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "test graded", result)
}

func (h *TestHandler) results(c *fiber.Ctx) error {
	var filter dto.TestResultFilter
	if err := parseQuery(c, &filter); err != nil {
		return handleError(c, h.logger, err)
	}

	results, err := h.engine.ListTestResults(c.UserContext(), middleware.ActorFrom(c), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.OK(c, results, "test results retrieved", fiber.Map{"total": len(results)})
}

func (h *TestHandler) summary(c *fiber.Ctx) error {
	var req dto.TestSummaryRequest
	if err := parseQuery(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}

	summary, err := h.engine.TestSummary(c.UserContext(), middleware.ActorFrom(c), req)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "test summary retrieved", summary)
}
