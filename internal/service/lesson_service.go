package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
)

var (
	// ErrLessonNotFound indicates the requested lesson does not exist.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrInvalidDate indicates a date parameter was not an ISO calendar date.
	ErrInvalidDate = errors.New("invalid date")
)

// LessonService exposes the daily lesson plan use cases.
type LessonService interface {
	TodaysLessons(ctx context.Context, studentID, date string) ([]dto.LessonResponse, error)
	CompleteLesson(ctx context.Context, lessonID string, payload dto.LessonCompletionRequest) (dto.LessonResponse, error)
}

type lessonService struct {
	repo      repository.LessonRepository
	cache     *redis.Client
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewLessonService builds the lesson service.
func NewLessonService(repo repository.LessonRepository, cache *redis.Client, validate *validator.Validate, logger zerolog.Logger) LessonService {
	return &lessonService{
		repo:      repo,
		cache:     cache,
		validator: validate,
		logger:    logger.With().Str("component", "lesson_service").Logger(),
		now:       time.Now,
	}
}

func (s *lessonService) TodaysLessons(ctx context.Context, studentID, date string) ([]dto.LessonResponse, error) {
	if err := s.validator.Var(studentID, "required,uuid4"); err != nil {
		return nil, err
	}

	day, err := resolveDate(s.now(), date)
	if err != nil {
		return nil, err
	}

	lessons, err := s.repo.ListForDate(ctx, studentID, day)
	if err != nil {
		return nil, err
	}

	return dto.NewLessonResponseSlice(lessons), nil
}

func (s *lessonService) CompleteLesson(ctx context.Context, lessonID string, payload dto.LessonCompletionRequest) (dto.LessonResponse, error) {
	if err := s.validator.Var(lessonID, "required,uuid4"); err != nil {
		return dto.LessonResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson, err := s.repo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonResponse{}, ErrLessonNotFound
		}
		return dto.LessonResponse{}, err
	}

	lesson.CompletionPercentage = clampInt(payload.CompletionPercentage, 0, 100)
	lesson.TimeSpentMinutes = maxInt(payload.TimeSpentMinutes, 0)
	lesson.Status = payload.Status
	if lesson.Status == "" {
		lesson.Status = models.LessonStatusCompleted
	}

	if err := s.repo.UpdateCompletion(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	s.invalidateDashboard(ctx, lesson.StudentID, lesson.ScheduledDate)
	s.logger.Info().
		Str("lesson_id", lesson.ID).
		Str("student_id", lesson.StudentID).
		Int("completion_percentage", lesson.CompletionPercentage).
		Msg("lesson completion recorded")

	return dto.NewLessonResponse(lesson), nil
}

// invalidateDashboard drops the cached daily aggregate so consumers re-fetch
// instead of patching stale state locally.
func (s *lessonService) invalidateDashboard(ctx context.Context, studentID string, date time.Time) {
	if s.cache == nil {
		return
	}

	key := dashboardCacheKey(studentID, date)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to invalidate dashboard cache")
	}
}

func dashboardCacheKey(studentID string, date time.Time) string {
	return fmt.Sprintf("dashboard:daily:%s:%s", studentID, date.Format("2006-01-02"))
}

// resolveDate parses an optional ISO date, defaulting to the reference day.
// Dates are normalized to midnight UTC so day arithmetic and store lookups
// agree across callers.
func resolveDate(reference time.Time, raw string) (time.Time, error) {
	if raw == "" {
		return dateOnly(reference), nil
	}

	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}

	return dateOnly(parsed), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
