package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
	"github.com/pathlight-labs/pathlight-api/internal/service"
	"github.com/pathlight-labs/pathlight-api/internal/utils"
)

// ProjectHandler exposes the project marketplace endpoints.
type ProjectHandler struct {
	service service.ProjectService
	logger  zerolog.Logger
}

// NewProjectHandler creates a new handler instance.
func NewProjectHandler(service service.ProjectService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger.With().Str("component", "project_handler").Logger(),
	}
}

// Register attaches the project endpoints.
func (h *ProjectHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/join", h.join)
	router.Post("/:id/asset", h.attachAsset)
}

func (h *ProjectHandler) list(c *fiber.Ctx) error {
	filter := repository.ProjectFilter{
		Status:      c.Query("status"),
		ProjectType: c.Query("type"),
		CreatorID:   c.Query("creator_id"),
	}

	projects, err := h.service.ListProjects(c.Context(), tenantIDFromContext(c), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list projects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load projects")
	}

	return utils.SendSuccess(c, "projects retrieved", projects)
}

func (h *ProjectHandler) get(c *fiber.Ctx) error {
	project, err := h.service.GetProject(c.Context(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "project not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("project_id", c.Params("id")).Msg("failed to load project")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to load project")
		}
	}

	return utils.SendSuccess(c, "project retrieved", project)
}

func (h *ProjectHandler) create(c *fiber.Ctx) error {
	creatorID := userIDFromContext(c)
	if creatorID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	var payload dto.ProjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.TenantID == "" {
		payload.TenantID = tenantIDFromContext(c)
	}

	project, err := h.service.CreateProject(c.Context(), creatorID, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("creator_id", creatorID).Msg("failed to create project")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create project")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "project created", project)
}

func (h *ProjectHandler) join(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	project, err := h.service.JoinProject(c.Context(), c.Params("id"), userID, tenantIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "project not found")
		case errors.Is(err, service.ErrProjectFull):
			return utils.SendError(c, fiber.StatusConflict, "project team is full")
		case errors.Is(err, service.ErrProjectClosed):
			return utils.SendError(c, fiber.StatusConflict, "project is not accepting members")
		case errors.Is(err, service.ErrAlreadyMember):
			return utils.SendError(c, fiber.StatusConflict, "already a member")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("project_id", c.Params("id")).Msg("failed to join project")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to join project")
		}
	}

	return utils.SendSuccess(c, "project joined", project)
}

func (h *ProjectHandler) attachAsset(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	project, err := h.service.AttachAsset(c.Context(), c.Params("id"), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "project not found")
		case errors.Is(err, service.ErrAssetTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "asset too large")
		case errors.Is(err, service.ErrAssetTypeNotAllowed):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, "asset type not allowed")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("project_id", c.Params("id")).Msg("failed to attach asset")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to attach asset")
		}
	}

	return utils.SendSuccess(c, "asset attached", project)
}
