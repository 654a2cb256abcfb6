package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/service"
	"github.com/pathlight-labs/pathlight-api/internal/utils"
)

// PreferenceHandler exposes user preference endpoints.
type PreferenceHandler struct {
	service service.PreferenceService
	logger  zerolog.Logger
}

// NewPreferenceHandler creates a new handler instance.
func NewPreferenceHandler(service service.PreferenceService, logger zerolog.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		service: service,
		logger:  logger.With().Str("component", "preference_handler").Logger(),
	}
}

// Register attaches the preference endpoints.
func (h *PreferenceHandler) Register(router fiber.Router) {
	router.Get("/theme", h.getTheme)
	router.Put("/theme", h.setTheme)
}

func (h *PreferenceHandler) getTheme(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	theme, err := h.service.GetTheme(c.Context(), userID)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("user_id", userID).Msg("failed to load theme preference")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load preference")
	}

	return utils.SendSuccess(c, "theme retrieved", theme)
}

func (h *PreferenceHandler) setTheme(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	var payload dto.ThemePreferenceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	theme, err := h.service.SetTheme(c.Context(), userID, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("user_id", userID).Msg("failed to store theme preference")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to store preference")
	}

	return utils.SendSuccess(c, "theme updated", theme)
}
