package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
)

// ProgressService reads and updates per-subject student progress.
type ProgressService interface {
	ListProgress(ctx context.Context, studentID, tenantID string) ([]dto.ProgressResponse, error)
	UpdateProgress(ctx context.Context, studentID, tenantID, subjectID string, req dto.ProgressUpdateRequest) (dto.ProgressResponse, error)
}

type progressService struct {
	repo      repository.ProgressRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewProgressService creates the progress tracker.
func NewProgressService(repo repository.ProgressRepository, validate *validator.Validate, logger zerolog.Logger) ProgressService {
	return &progressService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "progress_service").Logger(),
		now:       time.Now,
	}
}

func (s *progressService) ListProgress(ctx context.Context, studentID, tenantID string) ([]dto.ProgressResponse, error) {
	if err := s.validator.Var(studentID, "required,uuid4"); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByStudent(ctx, studentID, tenantID)
	if err != nil {
		return nil, err
	}

	return dto.NewProgressResponseSlice(rows), nil
}

func (s *progressService) UpdateProgress(ctx context.Context, studentID, tenantID, subjectID string, req dto.ProgressUpdateRequest) (dto.ProgressResponse, error) {
	if err := s.validator.Var(studentID, "required,uuid4"); err != nil {
		return dto.ProgressResponse{}, err
	}
	if err := s.validator.Var(subjectID, "required,uuid4"); err != nil {
		return dto.ProgressResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ProgressResponse{}, err
	}

	progress, err := s.repo.GetByStudentSubject(ctx, studentID, subjectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.StudentProgress{
			TenantID:     tenantID,
			StudentID:    studentID,
			SubjectID:    subjectID,
			MasteryLevel: models.MasteryApproaches,
		}
	} else if err != nil {
		return dto.ProgressResponse{}, err
	}
	progress.LastActivityDate = dateOnly(s.now())

	if req.ProgressPercentage != nil {
		progress.ProgressPercentage = clampInt(*req.ProgressPercentage, 0, 100)
	}
	if req.MasteryLevel != nil {
		progress.MasteryLevel = *req.MasteryLevel
	}
	if req.StreakDays != nil {
		progress.StreakDays = maxInt(*req.StreakDays, 0)
	}
	if req.TotalTimeSpentMinutes != nil {
		progress.TotalTimeSpentMinutes = maxInt(*req.TotalTimeSpentMinutes, 0)
	}
	if req.LessonsCompleted != nil {
		progress.LessonsCompleted = maxInt(*req.LessonsCompleted, 0)
	}

	if err := s.repo.Upsert(ctx, &progress); err != nil {
		s.logger.Error().Err(err).Str("student_id", studentID).Msg("failed to upsert progress")
		return dto.ProgressResponse{}, err
	}

	return dto.NewProgressResponse(progress), nil
}
