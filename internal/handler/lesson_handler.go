package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/service"
	"github.com/pathlight-labs/pathlight-api/internal/utils"
)

// LessonHandler exposes lesson schedule and completion endpoints.
type LessonHandler struct {
	service service.LessonService
	logger  zerolog.Logger
}

// NewLessonHandler creates a new handler instance.
func NewLessonHandler(service service.LessonService, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{
		service: service,
		logger:  logger.With().Str("component", "lesson_handler").Logger(),
	}
}

// Register attaches the lesson endpoints.
func (h *LessonHandler) Register(router fiber.Router) {
	router.Get("/today", h.today)
	router.Patch("/:id/completion", h.complete)
}

func (h *LessonHandler) today(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	lessons, err := h.service.TodaysLessons(c.Context(), studentID, c.Query("date"))
	if err != nil {
		if isValidationError(err) || errors.Is(err, service.ErrInvalidDate) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("student_id", studentID).Msg("failed to list lessons")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load lessons")
	}

	return utils.SendSuccess(c, "lessons retrieved", lessons)
}

func (h *LessonHandler) complete(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	var payload dto.LessonCompletionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lesson, err := h.service.CompleteLesson(c.Context(), c.Params("id"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("lesson_id", c.Params("id")).Msg("failed to record completion")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to record completion")
		}
	}

	return utils.SendSuccess(c, "lesson completion recorded", lesson)
}
