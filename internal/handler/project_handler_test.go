package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/handler"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
	"github.com/pathlight-labs/pathlight-api/internal/service"
)

type stubProjectService struct {
	project    dto.ProjectResponse
	projects   []dto.ProjectResponse
	err        error
	lastFilter repository.ProjectFilter
	lastAsset  string
}

func (s *stubProjectService) ListProjects(_ context.Context, _ string, filter repository.ProjectFilter) ([]dto.ProjectResponse, error) {
	s.lastFilter = filter
	return s.projects, s.err
}

func (s *stubProjectService) GetProject(_ context.Context, _ string) (dto.ProjectResponse, error) {
	if s.err != nil {
		return dto.ProjectResponse{}, s.err
	}
	return s.project, nil
}

func (s *stubProjectService) CreateProject(_ context.Context, _ string, _ dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	if s.err != nil {
		return dto.ProjectResponse{}, s.err
	}
	return s.project, nil
}

func (s *stubProjectService) JoinProject(_ context.Context, _, _, _ string) (dto.ProjectResponse, error) {
	if s.err != nil {
		return dto.ProjectResponse{}, s.err
	}
	return s.project, nil
}

func (s *stubProjectService) AttachAsset(_ context.Context, _ string, file *multipart.FileHeader) (dto.ProjectResponse, error) {
	if file != nil {
		s.lastAsset = file.Filename
	}
	if s.err != nil {
		return dto.ProjectResponse{}, s.err
	}
	return s.project, nil
}

func TestProjectHandlerCreateReturns201(t *testing.T) {
	svc := &stubProjectService{project: dto.ProjectResponse{ID: uuid.NewString(), Title: "Garden Tracker"}}

	app := fiber.New()
	handler.NewProjectHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/projects", uuid.NewString()))

	body, err := json.Marshal(dto.ProjectCreateRequest{Title: "Garden Tracker"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/", bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestProjectHandlerListPassesFilter(t *testing.T) {
	svc := &stubProjectService{projects: []dto.ProjectResponse{}}

	app := fiber.New()
	handler.NewProjectHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/projects", uuid.NewString()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/?status=open&type=stem", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "open", svc.lastFilter.Status)
	require.Equal(t, "stem", svc.lastFilter.ProjectType)
}

func TestProjectHandlerJoinConflicts(t *testing.T) {
	cases := map[error]int{
		service.ErrProjectNotFound: fiber.StatusNotFound,
		service.ErrProjectFull:     fiber.StatusConflict,
		service.ErrProjectClosed:   fiber.StatusConflict,
		service.ErrAlreadyMember:   fiber.StatusConflict,
	}

	for underlying, status := range cases {
		svc := &stubProjectService{err: underlying}

		app := fiber.New()
		handler.NewProjectHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/projects", uuid.NewString()))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/join", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, status, resp.StatusCode)
	}
}

func TestProjectHandlerAssetErrors(t *testing.T) {
	cases := map[error]int{
		service.ErrAssetTooLarge:       fiber.StatusRequestEntityTooLarge,
		service.ErrAssetTypeNotAllowed: fiber.StatusUnsupportedMediaType,
	}

	for underlying, status := range cases {
		svc := &stubProjectService{err: underlying}

		app := fiber.New()
		handler.NewProjectHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/projects", uuid.NewString()))

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "poster.png")
		require.NoError(t, err)
		_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/asset", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, status, resp.StatusCode)
		require.Equal(t, "poster.png", svc.lastAsset)
	}
}

func TestProjectHandlerAssetRequiresFile(t *testing.T) {
	svc := &stubProjectService{}

	app := fiber.New()
	handler.NewProjectHandler(svc, zerolog.Nop()).Register(authGroup(app, "/api/v1/projects", uuid.NewString()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+uuid.NewString()+"/asset", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
