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

// StudentEngine is the slice of the engine the student endpoints call.
type StudentEngine interface {
	ListStudents(ctx context.Context, actor engine.Actor, filter dto.StudentFilter) ([]dto.StudentResponse, error)
	RegisterStudent(ctx context.Context, actor engine.Actor, req dto.StudentRegisterRequest) (dto.StudentResponse, error)
	AssignMentor(ctx context.Context, actor engine.Actor, req dto.AssignMentorRequest) (dto.MentorAssignmentResponse, error)
	UnassignMentor(ctx context.Context, actor engine.Actor, req dto.UnassignMentorRequest) (dto.StudentResponse, error)
}

// StudentHandler manages the student roster endpoints.
type StudentHandler struct {
	engine StudentEngine
	logger zerolog.Logger
}

// NewStudentHandler builds a student handler instance.
func NewStudentHandler(engine StudentEngine, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		engine: engine,
		logger: logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.register)
	router.Put("/:id/mentor", h.assignMentor)
	router.Delete("/:id/mentor", h.unassignMentor)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	var filter dto.StudentFilter
	if err := parseQuery(c, &filter); err != nil {
		return handleError(c, h.logger, err)
	}

	students, err := h.engine.ListStudents(c.UserContext(), middleware.ActorFrom(c), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.OK(c, students, "students retrieved", fiber.Map{"total": len(students)})
}

func (h *StudentHandler) register(c *fiber.Ctx) error {
	var payload dto.StudentRegisterRequest
	if err := parseBody(c, &payload); err != nil {
		return handleError(c, h.logger, err)
	}

	student, err := h.engine.RegisterStudent(c.UserContext(), middleware.ActorFrom(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student registered", student)
}

func (h *StudentHandler) assignMentor(c *fiber.Ctx) error {
	var payload dto.AssignMentorRequest
	if err := parseBody(c, &payload); err != nil {
		return handleError(c, h.logger, err)
	}
	payload.StudentID = pathID(c)

	result, err := h.engine.AssignMentor(c.UserContext(), middleware.ActorFrom(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}

	message := "mentor assigned"
	if !result.Changed {
		message = "mentor unchanged"
	}
	return utils.SendSuccess(c, message, result)
}

func (h *StudentHandler) unassignMentor(c *fiber.Ctx) error {
	student, err := h.engine.UnassignMentor(c.UserContext(), middleware.ActorFrom(c), dto.UnassignMentorRequest{StudentID: pathID(c)})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "mentor removed", student)
}
