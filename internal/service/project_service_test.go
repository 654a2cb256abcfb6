package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
)

type stubStorage struct {
	url      string
	err      error
	lastName string
}

func (s *stubStorage) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	s.lastName = name
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	return s.url, s.err
}

func multipartFile(t *testing.T, name string, contents []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(contents)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

// pngBytes is a tiny valid PNG signature plus filler, enough for sniffing.
func pngBytes(size int) []byte {
	header := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	if size <= len(header) {
		return header
	}
	return append(header, bytes.Repeat([]byte{0}, size-len(header))...)
}

func newProjectService(db *gorm.DB, storage FileStorage, maxAssetMB int) ProjectService {
	return NewProjectService(repository.NewProjectRepository(db), storage, maxAssetMB, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func createOpenProject(t *testing.T, svc ProjectService, tenantID, creatorID string, maxTeam int) dto.ProjectResponse {
	t.Helper()

	project, err := svc.CreateProject(context.Background(), creatorID, dto.ProjectCreateRequest{
		TenantID:     tenantID,
		Title:        "Community Garden Tracker",
		Description:  "Build a tracker for the school garden",
		ProjectType:  "stem",
		SubjectAreas: []string{"Science", "Mathematics"},
		MaxTeamSize:  maxTeam,
	})
	require.NoError(t, err)
	return project
}

func TestProjectServiceCreateAddsLead(t *testing.T) {
	db := openTestDB(t)
	svc := newProjectService(db, nil, 10)

	creatorID := uuid.NewString()
	project := createOpenProject(t, svc, uuid.NewString(), creatorID, 0)

	require.Equal(t, models.ProjectStatusOpen, project.Status)
	require.Equal(t, 1, project.DifficultyLevel)
	require.Equal(t, 4, project.MaxTeamSize)
	require.Equal(t, []string{"Science", "Mathematics"}, project.SubjectAreas)
	require.Len(t, project.Members, 1)
	require.Equal(t, creatorID, project.Members[0].UserID)
	require.Equal(t, "lead", project.Members[0].Role)
}

func TestProjectServiceJoinLifecycle(t *testing.T) {
	db := openTestDB(t)
	svc := newProjectService(db, nil, 10)

	tenantID := uuid.NewString()
	project := createOpenProject(t, svc, tenantID, uuid.NewString(), 2)

	joinerID := uuid.NewString()
	joined, err := svc.JoinProject(context.Background(), project.ID, joinerID, tenantID)
	require.NoError(t, err)
	require.Len(t, joined.Members, 2)

	// Same user cannot join twice.
	_, err = svc.JoinProject(context.Background(), project.ID, joinerID, tenantID)
	require.ErrorIs(t, err, ErrAlreadyMember)

	// Team of two is now full.
	_, err = svc.JoinProject(context.Background(), project.ID, uuid.NewString(), tenantID)
	require.ErrorIs(t, err, ErrProjectFull)
}

func TestProjectServiceJoinClosedProject(t *testing.T) {
	db := openTestDB(t)
	svc := newProjectService(db, nil, 10)

	tenantID := uuid.NewString()
	project := createOpenProject(t, svc, tenantID, uuid.NewString(), 4)

	require.NoError(t, db.Model(&models.Project{}).Where("id = ?", project.ID).Update("status", models.ProjectStatusArchived).Error)

	_, err := svc.JoinProject(context.Background(), project.ID, uuid.NewString(), tenantID)
	require.ErrorIs(t, err, ErrProjectClosed)
}

func TestProjectServiceJoinUnknownProject(t *testing.T) {
	db := openTestDB(t)
	svc := newProjectService(db, nil, 10)

	_, err := svc.JoinProject(context.Background(), uuid.NewString(), uuid.NewString(), uuid.NewString())
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectServiceAttachAsset(t *testing.T) {
	db := openTestDB(t)
	storage := &stubStorage{url: "https://cdn.example.com/projects/poster.png"}
	svc := newProjectService(db, storage, 10)

	tenantID := uuid.NewString()
	project := createOpenProject(t, svc, tenantID, uuid.NewString(), 4)

	updated, err := svc.AttachAsset(context.Background(), project.ID, multipartFile(t, "poster.png", pngBytes(256)))
	require.NoError(t, err)
	require.Equal(t, storage.url, updated.AssetURL)
	require.Equal(t, "poster.png", storage.lastName)
}

func TestProjectServiceAttachAssetRejectsType(t *testing.T) {
	db := openTestDB(t)
	svc := newProjectService(db, &stubStorage{url: "unused"}, 10)

	project := createOpenProject(t, svc, uuid.NewString(), uuid.NewString(), 4)

	_, err := svc.AttachAsset(context.Background(), project.ID, multipartFile(t, "notes.txt", []byte("plain text body")))
	require.ErrorIs(t, err, ErrAssetTypeNotAllowed)
}

func TestProjectServiceAttachAssetRejectsOversize(t *testing.T) {
	db := openTestDB(t)
	svc := newProjectService(db, &stubStorage{url: "unused"}, 1)

	project := createOpenProject(t, svc, uuid.NewString(), uuid.NewString(), 4)

	_, err := svc.AttachAsset(context.Background(), project.ID, multipartFile(t, "huge.png", pngBytes(1024*1024+16)))
	require.ErrorIs(t, err, ErrAssetTooLarge)
}

func TestProjectServiceListFilters(t *testing.T) {
	db := openTestDB(t)
	svc := newProjectService(db, nil, 10)

	tenantID := uuid.NewString()
	creatorID := uuid.NewString()
	createOpenProject(t, svc, tenantID, creatorID, 4)
	createOpenProject(t, svc, tenantID, uuid.NewString(), 4)

	all, err := svc.ListProjects(context.Background(), tenantID, repository.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := svc.ListProjects(context.Background(), tenantID, repository.ProjectFilter{CreatorID: creatorID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, creatorID, mine[0].CreatorID)
}
