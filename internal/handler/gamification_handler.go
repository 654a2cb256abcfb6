package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/service"
	"github.com/pathlight-labs/pathlight-api/internal/utils"
)

// GamificationHandler exposes achievements, points, and leaderboards.
type GamificationHandler struct {
	service service.GamificationService
	logger  zerolog.Logger
}

// NewGamificationHandler creates a new handler instance.
func NewGamificationHandler(service service.GamificationService, logger zerolog.Logger) *GamificationHandler {
	return &GamificationHandler{
		service: service,
		logger:  logger.With().Str("component", "gamification_handler").Logger(),
	}
}

// Register attaches the gamification endpoints.
func (h *GamificationHandler) Register(router fiber.Router) {
	router.Get("/achievements", h.listAchievements)
	router.Get("/achievements/earned", h.listEarned)
	router.Post("/achievements/:id/award", h.award)
	router.Post("/points", h.recordPoints)
	router.Get("/points/balance", h.balance)
	router.Get("/leaderboard", h.leaderboard)
}

func (h *GamificationHandler) listAchievements(c *fiber.Ctx) error {
	achievements, err := h.service.ListAchievements(c.Context(), tenantIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list achievements")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load achievements")
	}

	return utils.SendSuccess(c, "achievements retrieved", achievements)
}

func (h *GamificationHandler) listEarned(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	earned, err := h.service.ListUserAchievements(c.Context(), userID, tenantIDFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("user_id", userID).Msg("failed to list earned achievements")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load achievements")
	}

	return utils.SendSuccess(c, "earned achievements retrieved", earned)
}

func (h *GamificationHandler) award(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	var payload dto.AwardAchievementRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.UserID == "" {
		payload.UserID = userID
	}
	if payload.TenantID == "" {
		payload.TenantID = tenantIDFromContext(c)
	}

	awarded, err := h.service.AwardAchievement(c.Context(), c.Params("id"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAchievementNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "achievement not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("achievement_id", c.Params("id")).Msg("failed to award achievement")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to award achievement")
		}
	}

	return utils.SendSuccess(c, "achievement awarded", awarded)
}

func (h *GamificationHandler) recordPoints(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	var payload dto.PointsTransactionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.UserID == "" {
		payload.UserID = userID
	}
	if payload.TenantID == "" {
		payload.TenantID = tenantIDFromContext(c)
	}

	balance, err := h.service.RecordTransaction(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("user_id", payload.UserID).Msg("failed to record points")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to record points")
	}

	return utils.SendSuccess(c, "points recorded", balance)
}

func (h *GamificationHandler) balance(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	balance, err := h.service.GetBalance(c.Context(), userID, tenantIDFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("user_id", userID).Msg("failed to load points balance")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load balance")
	}

	return utils.SendSuccess(c, "balance retrieved", balance)
}

func (h *GamificationHandler) leaderboard(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.service.Leaderboard(c.Context(), tenantIDFromContext(c), c.Query("metric"), limit)
	if err != nil {
		if errors.Is(err, service.ErrUnknownLeaderboard) {
			return utils.SendError(c, fiber.StatusBadRequest, "unknown leaderboard metric")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load leaderboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load leaderboard")
	}

	return utils.SendSuccess(c, "leaderboard retrieved", entries)
}
