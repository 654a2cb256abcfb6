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
	"github.com/pathlight-labs/pathlight-api/internal/service"
)

type stubLessonService struct {
	lessons      []dto.LessonResponse
	completed    dto.LessonResponse
	err          error
	lastLessonID string
	lastPayload  dto.LessonCompletionRequest
}

func (s *stubLessonService) TodaysLessons(_ context.Context, _, _ string) ([]dto.LessonResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.lessons, nil
}

func (s *stubLessonService) CompleteLesson(_ context.Context, lessonID string, payload dto.LessonCompletionRequest) (dto.LessonResponse, error) {
	s.lastLessonID = lessonID
	s.lastPayload = payload
	if s.err != nil {
		return dto.LessonResponse{}, s.err
	}
	return s.completed, nil
}

func TestLessonHandlerToday(t *testing.T) {
	svc := &stubLessonService{lessons: []dto.LessonResponse{
		{ID: uuid.NewString(), Status: "scheduled", EstimatedDurationMinutes: 35},
	}}

	app := fiber.New()
	handler.NewLessonHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/lessons", uuid.NewString()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lessons/today", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                 `json:"success"`
		Data    []dto.LessonResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	require.True(t, payload.Success)
	require.Len(t, payload.Data, 1)
}

func TestLessonHandlerCompletion(t *testing.T) {
	lessonID := uuid.NewString()
	svc := &stubLessonService{completed: dto.LessonResponse{ID: lessonID, Status: "completed", CompletionPercentage: 100}}

	app := fiber.New()
	handler.NewLessonHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/lessons", uuid.NewString()))

	body, err := json.Marshal(dto.LessonCompletionRequest{CompletionPercentage: 100, TimeSpentMinutes: 40})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/lessons/"+lessonID+"/completion", bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, lessonID, svc.lastLessonID)
	require.Equal(t, 100, svc.lastPayload.CompletionPercentage)
	require.Equal(t, 40, svc.lastPayload.TimeSpentMinutes)
}

func TestLessonHandlerCompletionNotFound(t *testing.T) {
	svc := &stubLessonService{err: service.ErrLessonNotFound}

	app := fiber.New()
	handler.NewLessonHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/lessons", uuid.NewString()))

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/lessons/"+uuid.NewString()+"/completion", bytes.NewReader([]byte(`{"completion_percentage":100}`)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLessonHandlerTodayBadDate(t *testing.T) {
	svc := &stubLessonService{err: service.ErrInvalidDate}

	app := fiber.New()
	handler.NewLessonHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/lessons", uuid.NewString()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lessons/today?date=bogus", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
