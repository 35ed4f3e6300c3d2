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

// ProjectEngine is the slice of the engine the project endpoints call.
type ProjectEngine interface {
	ListProjects(ctx context.Context, actor engine.Actor, filter dto.ProjectFilter) ([]dto.ProjectResponse, error)
	CreateProject(ctx context.Context, actor engine.Actor, req dto.ProjectCreateRequest) (dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, actor engine.Actor, req dto.ProjectUpdateRequest) (dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, actor engine.Actor, req dto.ProjectRequest) (dto.ProjectDeletionResponse, error)
	AssignProject(ctx context.Context, actor engine.Actor, req dto.AssignProjectRequest) (dto.ApplicationResponse, error)
	CompleteProject(ctx context.Context, actor engine.Actor, req dto.ProjectRequest) (dto.ProjectResponse, error)
}

// ProjectHandler manages project endpoints.
type ProjectHandler struct {
	engine ProjectEngine
	logger zerolog.Logger
}

// NewProjectHandler builds a project handler instance.
func NewProjectHandler(engine ProjectEngine, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		engine: engine,
		logger: logger.With().Str("component", "project_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ProjectHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/assign", h.assign)
	router.Post("/:id/complete", h.complete)
}

func (h *ProjectHandler) list(c *fiber.Ctx) error {
	var filter dto.ProjectFilter
	if err := parseQuery(c, &filter); err != nil {
		return handleError(c, h.logger, err)
	}

	projects, err := h.engine.ListProjects(c.UserContext(), middleware.ActorFrom(c), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.OK(c, projects, "projects retrieved", fiber.Map{"total": len(projects)})
}

func (h *ProjectHandler) create(c *fiber.Ctx) error {
	var payload dto.ProjectCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return handleError(c, h.logger, err)
	}

	project, err := h.engine.CreateProject(c.UserContext(), middleware.ActorFrom(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "project created", project)
}

func (h *ProjectHandler) update(c *fiber.Ctx) error {
	var payload dto.ProjectUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return handleError(c, h.logger, err)
	}
	payload.ProjectID = pathID(c)

	project, err := h.engine.UpdateProject(c.UserContext(), middleware.ActorFrom(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "project updated", project)
}

func (h *ProjectHandler) delete(c *fiber.Ctx) error {
	deletion, err := h.engine.DeleteProject(c.UserContext(), middleware.ActorFrom(c), dto.ProjectRequest{ProjectID: pathID(c)})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "project deleted", deletion)
}

func (h *ProjectHandler) assign(c *fiber.Ctx) error {
	var payload dto.AssignProjectRequest
	if err := parseBody(c, &payload); err != nil {
		return handleError(c, h.logger, err)
	}
	payload.ProjectID = pathID(c)

	application, err := h.engine.AssignProject(c.UserContext(), middleware.ActorFrom(c), payload)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "project assigned", application)
}

func (h *ProjectHandler) complete(c *fiber.Ctx) error {
	project, err := h.engine.CompleteProject(c.UserContext(), middleware.ActorFrom(c), dto.ProjectRequest{ProjectID: pathID(c)})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "project completed", project)
}
