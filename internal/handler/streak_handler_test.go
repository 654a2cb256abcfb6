package handler_test

import (
	"bytes"
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
	"github.com/pathlight-labs/pathlight-api/internal/models"
)

type stubStreakService struct {
	response    dto.StreakResponse
	err         error
	lastRequest dto.StreakActivityRequest
	lastType    string
	lastSubject *string
}

func (s *stubStreakService) RecordActivity(_ context.Context, req dto.StreakActivityRequest) (dto.StreakResponse, error) {
	s.lastRequest = req
	if s.err != nil {
		return dto.StreakResponse{}, s.err
	}
	return s.response, nil
}

func (s *stubStreakService) GetStreak(_ context.Context, userID, tenantID, streakType string, subjectID *string) (dto.StreakResponse, error) {
	s.lastType = streakType
	s.lastSubject = subjectID
	if s.err != nil {
		return dto.StreakResponse{}, s.err
	}
	return s.response, nil
}

func TestStreakHandlerGetDefaultsType(t *testing.T) {
	svc := &stubStreakService{response: dto.StreakResponse{CurrentCount: 4, LongestCount: 9}}

	app := fiber.New()
	handler.NewStreakHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/streaks", uuid.NewString()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/streaks/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, models.StreakTypeDailyLearning, svc.lastType)
	require.Nil(t, svc.lastSubject)

	var payload struct {
		Success bool               `json:"success"`
		Data    dto.StreakResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	require.True(t, payload.Success)
	require.Equal(t, 4, payload.Data.CurrentCount)
}

func TestStreakHandlerGetSubjectScoped(t *testing.T) {
	svc := &stubStreakService{}

	app := fiber.New()
	handler.NewStreakHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/streaks", uuid.NewString()))

	subjectID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/streaks/?type=subject_practice&subject_id="+subjectID, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, models.StreakTypeSubjectPractice, svc.lastType)
	require.NotNil(t, svc.lastSubject)
	require.Equal(t, subjectID, *svc.lastSubject)
}

func TestStreakHandlerRecordActivityForcesUser(t *testing.T) {
	svc := &stubStreakService{response: dto.StreakResponse{CurrentCount: 1, LongestCount: 1}}

	userID := uuid.NewString()
	app := fiber.New()
	handler.NewStreakHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/streaks", userID))

	// The body claims another user; the handler must override it.
	body, err := json.Marshal(dto.StreakActivityRequest{UserID: uuid.NewString()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/streaks/activity", bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, userID, svc.lastRequest.UserID)
	require.Equal(t, models.StreakTypeDailyLearning, svc.lastRequest.StreakType)
	require.NotEmpty(t, svc.lastRequest.TenantID)
}

func TestStreakHandlerRecordActivityUnauthorized(t *testing.T) {
	svc := &stubStreakService{}

	app := fiber.New()
	handler.NewStreakHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/streaks"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/streaks/activity", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
