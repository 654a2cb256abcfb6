package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/handler"
	"github.com/pathlight-labs/pathlight-api/internal/service"
)

type stubDashboardService struct {
	response      dto.DailyDashboardResponse
	err           error
	calls         int
	lastStudentID string
	lastDate      string
}

func (s *stubDashboardService) GetDailyDashboard(_ context.Context, studentID, date string) (dto.DailyDashboardResponse, error) {
	s.calls++
	s.lastStudentID = studentID
	s.lastDate = date
	if s.err != nil {
		return dto.DailyDashboardResponse{}, s.err
	}
	return s.response, nil
}

func authGroup(app *fiber.App, prefix, userID string) fiber.Router {
	return app.Group(prefix, func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("tenant_id", uuid.NewString())
		c.Locals("user_role", "student")
		return c.Next()
	})
}

func TestDashboardHandlerSuccess(t *testing.T) {
	response := dto.DailyDashboardResponse{
		Date:                  "2026-03-02",
		Lessons:               []dto.LessonResponse{{ID: uuid.NewString(), Status: "scheduled"}},
		TotalRemainingMinutes: 95,
		RequiredTools:         []dto.ToolResponse{{ID: "design", Name: "Design Studio"}},
	}
	svc := &stubDashboardService{response: response}

	userID := uuid.NewString()
	app := fiber.New()
	handler.NewDashboardHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/dashboard", userID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/daily?date=2026-03-02", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                       `json:"success"`
		Message string                     `json:"message"`
		Data    dto.DailyDashboardResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()

	require.True(t, payload.Success)
	require.Equal(t, "dashboard retrieved", payload.Message)
	require.Equal(t, 95, payload.Data.TotalRemainingMinutes)
	require.Equal(t, userID, svc.lastStudentID)
	require.Equal(t, "2026-03-02", svc.lastDate)
}

func TestDashboardHandlerUnauthorized(t *testing.T) {
	svc := &stubDashboardService{}

	app := fiber.New()
	handler.NewDashboardHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/dashboard"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/daily", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 0, svc.calls)
}

func TestDashboardHandlerBadDate(t *testing.T) {
	svc := &stubDashboardService{err: service.ErrInvalidDate}

	app := fiber.New()
	handler.NewDashboardHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/dashboard", uuid.NewString()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/daily?date=garbage", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	require.False(t, payload.Success)
}
