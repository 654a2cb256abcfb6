package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/service"
	"github.com/pathlight-labs/pathlight-api/internal/utils"
)

// AssistantHandler exposes the study assistant endpoint.
type AssistantHandler struct {
	service service.AssistantService
	logger  zerolog.Logger
}

// NewAssistantHandler creates a new handler instance.
func NewAssistantHandler(service service.AssistantService, logger zerolog.Logger) *AssistantHandler {
	return &AssistantHandler{
		service: service,
		logger:  logger.With().Str("component", "assistant_handler").Logger(),
	}
}

// Register attaches the assistant endpoint.
func (h *AssistantHandler) Register(router fiber.Router) {
	router.Post("/ask", h.ask)
}

func (h *AssistantHandler) ask(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	var payload dto.AssistantAskRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	answer, err := h.service.Ask(c.Context(), studentID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssistantUnavailable):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "assistant unavailable")
		case isValidationError(err) || errors.Is(err, service.ErrInvalidDate):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("student_id", studentID).Msg("assistant request failed")
			return utils.SendError(c, fiber.StatusBadGateway, "assistant request failed")
		}
	}

	return utils.SendSuccess(c, "answer generated", answer)
}
