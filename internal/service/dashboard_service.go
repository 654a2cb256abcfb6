package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/observability"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
	"github.com/pathlight-labs/pathlight-api/internal/tools"
)

// DashboardService produces the aggregated daily dashboard.
type DashboardService interface {
	GetDailyDashboard(ctx context.Context, studentID, date string) (dto.DailyDashboardResponse, error)
}

type dashboardService struct {
	lessons   repository.LessonRepository
	catalog   *tools.Catalog
	matcher   tools.Matcher
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewDashboardService builds the daily dashboard aggregator.
func NewDashboardService(lessons repository.LessonRepository, catalog *tools.Catalog, matcher tools.Matcher, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) DashboardService {
	if matcher == nil {
		matcher = tools.NewKeywordMatcher(nil)
	}
	return &dashboardService{
		lessons:   lessons,
		catalog:   catalog,
		matcher:   matcher,
		cache:     cache,
		cacheTTL:  ttl,
		validator: validate,
		logger:    logger.With().Str("component", "dashboard_service").Logger(),
		now:       time.Now,
	}
}

func (s *dashboardService) GetDailyDashboard(ctx context.Context, studentID, date string) (dto.DailyDashboardResponse, error) {
	if err := s.validator.Var(studentID, "required,uuid4"); err != nil {
		return dto.DailyDashboardResponse{}, err
	}

	day, err := resolveDate(s.now(), date)
	if err != nil {
		return dto.DailyDashboardResponse{}, err
	}

	cacheKey := dashboardCacheKey(studentID, day)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DailyDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				observability.DashboardCache().WithLabelValues("hit").Inc()
				s.logger.Debug().Str("student_id", studentID).Msg("daily dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
		observability.DashboardCache().WithLabelValues("miss").Inc()
	}

	lessons, err := s.lessons.ListForDate(ctx, studentID, day)
	if err != nil {
		return dto.DailyDashboardResponse{}, err
	}

	response := s.buildResponse(day, lessons)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) buildResponse(day time.Time, lessons []models.LessonPlan) dto.DailyDashboardResponse {
	required := s.matcher.Match(s.catalog, lessons)

	return dto.DailyDashboardResponse{
		Date:                  day.Format("2006-01-02"),
		Lessons:               dto.NewLessonResponseSlice(lessons),
		TotalRemainingMinutes: remainingMinutes(lessons),
		RequiredTools:         dto.NewToolResponseSlice(required),
	}
}

// remainingMinutes sums estimated duration over lessons that are still
// incomplete: a lesson at 100 percent drops out of the total even if its
// status never flipped to completed, and vice versa.
func remainingMinutes(lessons []models.LessonPlan) int {
	total := 0
	for _, lesson := range lessons {
		if lesson.IsComplete() {
			continue
		}
		if lesson.EstimatedDurationMinutes > 0 {
			total += lesson.EstimatedDurationMinutes
		}
	}
	return total
}
