package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/service"
	"github.com/pathlight-labs/pathlight-api/internal/utils"
)

// SeedHandler exposes tooling endpoints for seeding demo data.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/demo-day", h.demoDay)
}

type seedDemoDayRequest struct {
	TenantID  string `json:"tenant_id"`
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
}

func (h *SeedHandler) demoDay(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")
	var payload seedDemoDayRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	day := time.Now().UTC()
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid date")
		}
		day = parsed
	}

	created, err := h.service.SeedDemoDay(c.Context(), token, payload.TenantID, payload.StudentID, day)
	if err != nil {
		return h.seedError(c, err)
	}

	return utils.SendSuccess(c, "demo day seeded", fiber.Map{"lessons_created": created})
}

func (h *SeedHandler) seedError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "invalid token")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
	default:
		h.logger.Error().Err(err).Msg("seed operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "seed operation failed")
	}
}
