package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectFull         = errors.New("project team is full")
	ErrProjectClosed       = errors.New("project is not accepting members")
	ErrAlreadyMember       = errors.New("user is already a project member")
	ErrAssetTooLarge       = errors.New("asset exceeds maximum allowed size")
	ErrAssetTypeNotAllowed = errors.New("asset type not allowed")
)

// FileStorage abstracts asset upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ProjectService manages the project marketplace.
type ProjectService interface {
	ListProjects(ctx context.Context, tenantID string, filter repository.ProjectFilter) ([]dto.ProjectResponse, error)
	GetProject(ctx context.Context, id string) (dto.ProjectResponse, error)
	CreateProject(ctx context.Context, creatorID string, req dto.ProjectCreateRequest) (dto.ProjectResponse, error)
	JoinProject(ctx context.Context, projectID, userID, tenantID string) (dto.ProjectResponse, error)
	AttachAsset(ctx context.Context, projectID string, file *multipart.FileHeader) (dto.ProjectResponse, error)
}

type projectService struct {
	repo      repository.ProjectRepository
	storage   FileStorage
	validator *validator.Validate
	logger    zerolog.Logger
	maxAsset  int64
	tracer    trace.Tracer
	now       func() time.Time
}

// NewProjectService creates the marketplace service. storage may be nil when
// asset uploads are disabled.
func NewProjectService(repo repository.ProjectRepository, storage FileStorage, maxAssetMB int, validate *validator.Validate, logger zerolog.Logger) ProjectService {
	if maxAssetMB <= 0 {
		maxAssetMB = 10
	}
	return &projectService{
		repo:      repo,
		storage:   storage,
		validator: validate,
		logger:    logger.With().Str("component", "project_service").Logger(),
		maxAsset:  int64(maxAssetMB) * 1024 * 1024,
		tracer:    otel.Tracer("github.com/pathlight-labs/pathlight-api/internal/service/project"),
		now:       time.Now,
	}
}

func (s *projectService) ListProjects(ctx context.Context, tenantID string, filter repository.ProjectFilter) ([]dto.ProjectResponse, error) {
	projects, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewProjectResponseSlice(projects), nil
}

func (s *projectService) GetProject(ctx context.Context, id string) (dto.ProjectResponse, error) {
	if err := s.validator.Var(id, "required,uuid4"); err != nil {
		return dto.ProjectResponse{}, err
	}
	project, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ProjectResponse{}, ErrProjectNotFound
	}
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	return dto.NewProjectResponse(project), nil
}

func (s *projectService) CreateProject(ctx context.Context, creatorID string, req dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Var(creatorID, "required,uuid4"); err != nil {
		return dto.ProjectResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ProjectResponse{}, err
	}

	project := &models.Project{
		TenantID:              req.TenantID,
		CreatorID:             creatorID,
		Title:                 req.Title,
		Description:           req.Description,
		ProjectType:           req.ProjectType,
		Status:                models.ProjectStatusOpen,
		SubjectAreas:          encodeStringList(req.SubjectAreas),
		DifficultyLevel:       req.DifficultyLevel,
		EstimatedDurationDays: req.EstimatedDurationDays,
		MaxTeamSize:           req.MaxTeamSize,
		SkillsRequired:        encodeStringList(req.SkillsRequired),
		SkillsGained:          encodeStringList(req.SkillsGained),
		Resources:             req.Resources,
	}
	if project.DifficultyLevel == 0 {
		project.DifficultyLevel = 1
	}
	if project.MaxTeamSize == 0 {
		project.MaxTeamSize = 4
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err == nil {
			project.DueDate = &due
		}
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return dto.ProjectResponse{}, err
	}

	// The creator leads the team they just opened.
	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    creatorID,
		TenantID:  req.TenantID,
		Role:      "lead",
		Status:    "active",
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return dto.ProjectResponse{}, err
	}
	project.Members = append(project.Members, *member)

	s.logger.Info().Str("project_id", project.ID).Str("creator_id", creatorID).Msg("project created")
	return dto.NewProjectResponse(*project), nil
}

func (s *projectService) JoinProject(ctx context.Context, projectID, userID, tenantID string) (dto.ProjectResponse, error) {
	if err := s.validator.Var(projectID, "required,uuid4"); err != nil {
		return dto.ProjectResponse{}, err
	}
	if err := s.validator.Var(userID, "required,uuid4"); err != nil {
		return dto.ProjectResponse{}, err
	}

	project, err := s.repo.GetByID(ctx, projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ProjectResponse{}, ErrProjectNotFound
	}
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	if project.Status != models.ProjectStatusOpen && project.Status != models.ProjectStatusActive {
		return dto.ProjectResponse{}, ErrProjectClosed
	}

	already, err := s.repo.IsMember(ctx, projectID, userID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	if already {
		return dto.ProjectResponse{}, ErrAlreadyMember
	}

	members, err := s.repo.ActiveMembers(ctx, projectID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	if len(members) >= project.MaxTeamSize {
		return dto.ProjectResponse{}, ErrProjectFull
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		TenantID:  tenantID,
		Role:      "member",
		Status:    "active",
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return dto.ProjectResponse{}, err
	}

	refreshed, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	s.logger.Info().Str("project_id", projectID).Str("user_id", userID).Msg("member joined project")
	return dto.NewProjectResponse(refreshed), nil
}

func (s *projectService) AttachAsset(ctx context.Context, projectID string, file *multipart.FileHeader) (dto.ProjectResponse, error) {
	ctx, span := s.tracer.Start(ctx, "project.attach_asset")
	defer span.End()

	if err := s.validator.Var(projectID, "required,uuid4"); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.ProjectResponse{}, err
	}
	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.ProjectResponse{}, err
	}
	span.SetAttributes(
		attribute.String("asset.original_name", file.Filename),
		attribute.Int64("asset.request_size", file.Size),
	)

	project, err := s.repo.GetByID(ctx, projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ProjectResponse{}, ErrProjectNotFound
	}
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	if file.Size > s.maxAsset {
		span.RecordError(ErrAssetTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.ProjectResponse{}, ErrAssetTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxAsset+1)); err != nil {
		return dto.ProjectResponse{}, err
	}
	if int64(buf.Len()) > s.maxAsset {
		span.RecordError(ErrAssetTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.ProjectResponse{}, ErrAssetTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("asset.detected_mime", mime.String()))
	if !isAllowedAssetType(mime.String()) {
		span.RecordError(ErrAssetTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.ProjectResponse{}, ErrAssetTypeNotAllowed
	}

	if s.storage == nil {
		err := errors.New("asset storage is not configured")
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage unavailable")
		return dto.ProjectResponse{}, err
	}

	url, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		return dto.ProjectResponse{}, err
	}

	project.AssetURL = url
	if err := s.repo.Update(ctx, &project); err != nil {
		return dto.ProjectResponse{}, err
	}

	s.logger.Info().Str("project_id", projectID).Str("mime", mime.String()).Msg("project asset attached")
	return dto.NewProjectResponse(project), nil
}

var allowedAssetTypes = map[string]struct{}{
	"image/png":       {},
	"image/jpeg":      {},
	"image/gif":       {},
	"image/webp":      {},
	"application/pdf": {},
}

func isAllowedAssetType(mime string) bool {
	_, ok := allowedAssetTypes[mime]
	return ok
}

func encodeStringList(values []string) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return raw
}
