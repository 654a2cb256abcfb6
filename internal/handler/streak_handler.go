package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/service"
	"github.com/pathlight-labs/pathlight-api/internal/utils"
)

// StreakHandler exposes streak read and activity endpoints.
type StreakHandler struct {
	service service.StreakService
	logger  zerolog.Logger
}

// NewStreakHandler creates a new handler instance.
func NewStreakHandler(service service.StreakService, logger zerolog.Logger) *StreakHandler {
	return &StreakHandler{
		service: service,
		logger:  logger.With().Str("component", "streak_handler").Logger(),
	}
}

// Register attaches the streak endpoints.
func (h *StreakHandler) Register(router fiber.Router) {
	router.Get("/", h.get)
	router.Post("/activity", h.recordActivity)
}

func (h *StreakHandler) get(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	streakType := strings.TrimSpace(c.Query("type"))
	if streakType == "" {
		streakType = models.StreakTypeDailyLearning
	}

	var subjectID *string
	if subject := strings.TrimSpace(c.Query("subject_id")); subject != "" {
		subjectID = &subject
	}

	streak, err := h.service.GetStreak(c.Context(), userID, tenantIDFromContext(c), streakType, subjectID)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("user_id", userID).Msg("failed to load streak")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load streak")
	}

	return utils.SendSuccess(c, "streak retrieved", streak)
}

func (h *StreakHandler) recordActivity(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	var payload dto.StreakActivityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	// The activity always belongs to the authenticated user.
	payload.UserID = userID
	if payload.TenantID == "" {
		payload.TenantID = tenantIDFromContext(c)
	}
	if payload.StreakType == "" {
		payload.StreakType = models.StreakTypeDailyLearning
	}

	streak, err := h.service.RecordActivity(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("user_id", userID).Msg("failed to record streak activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to record activity")
	}

	return utils.SendSuccess(c, "streak updated", streak)
}
