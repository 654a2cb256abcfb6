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

var (
	ErrStreakConflict = errors.New("streak update conflict")
)

// StreakService records learning activity and maintains streak counters.
type StreakService interface {
	RecordActivity(ctx context.Context, req dto.StreakActivityRequest) (dto.StreakResponse, error)
	GetStreak(ctx context.Context, userID, tenantID, streakType string, subjectID *string) (dto.StreakResponse, error)
}

type streakService struct {
	repo      repository.StreakRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStreakService creates the streak tracker.
func NewStreakService(repo repository.StreakRepository, validate *validator.Validate, logger zerolog.Logger) StreakService {
	return &streakService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "streak_service").Logger(),
		now:       time.Now,
	}
}

func (s *streakService) RecordActivity(ctx context.Context, req dto.StreakActivityRequest) (dto.StreakResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StreakResponse{}, err
	}

	key := repository.StreakKey{
		UserID:     req.UserID,
		TenantID:   req.TenantID,
		StreakType: req.StreakType,
		SubjectID:  req.SubjectID,
	}
	today := dateOnly(s.now())

	resp, err := s.recordOnce(ctx, key, today)
	if errors.Is(err, ErrStreakConflict) {
		// Lost the race to a concurrent create or update for the same key.
		// One retry is enough: the winner already stamped today, so the
		// reread lands in the same-day branch.
		s.logger.Debug().Str("user_id", req.UserID).Msg("streak update conflicted, retrying once")
		resp, err = s.recordOnce(ctx, key, today)
	}
	return resp, err
}

func (s *streakService) recordOnce(ctx context.Context, key repository.StreakKey, today time.Time) (dto.StreakResponse, error) {
	streak, err := s.repo.Find(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.create(ctx, key, today)
	}
	if err != nil {
		return dto.StreakResponse{}, err
	}

	last := dateOnly(streak.LastActivityDate)
	switch dayDiff(last, today) {
	case 0:
		// Already counted today.
		return dto.NewStreakResponse(streak), nil
	case 1:
		streak.CurrentCount++
	default:
		streak.CurrentCount = 1
		streak.StreakStartDate = today
	}
	if streak.CurrentCount > streak.LongestCount {
		streak.LongestCount = streak.CurrentCount
	}

	ok, err := s.repo.UpdateCountsIf(ctx, streak.ID, last, streak.CurrentCount, streak.LongestCount, today)
	if err != nil {
		return dto.StreakResponse{}, err
	}
	if !ok {
		return dto.StreakResponse{}, ErrStreakConflict
	}

	streak.LastActivityDate = today
	return dto.NewStreakResponse(streak), nil
}

func (s *streakService) create(ctx context.Context, key repository.StreakKey, today time.Time) (dto.StreakResponse, error) {
	streak := &models.Streak{
		UserID:           key.UserID,
		TenantID:         key.TenantID,
		StreakType:       key.StreakType,
		SubjectID:        key.SubjectID,
		CurrentCount:     1,
		LongestCount:     1,
		LastActivityDate: today,
		StreakStartDate:  today,
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, streak); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent first activity created the row between our read
			// and this insert.
			return dto.StreakResponse{}, ErrStreakConflict
		}
		return dto.StreakResponse{}, err
	}
	s.logger.Info().Str("user_id", key.UserID).Str("streak_type", key.StreakType).Msg("streak created")
	return dto.NewStreakResponse(*streak), nil
}

func (s *streakService) GetStreak(ctx context.Context, userID, tenantID, streakType string, subjectID *string) (dto.StreakResponse, error) {
	if err := s.validator.Var(userID, "required,uuid4"); err != nil {
		return dto.StreakResponse{}, err
	}
	streak, err := s.repo.Find(ctx, repository.StreakKey{
		UserID:     userID,
		TenantID:   tenantID,
		StreakType: streakType,
		SubjectID:  subjectID,
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No activity recorded yet reads as a zeroed streak, not an error.
		return dto.StreakResponse{
			UserID:     userID,
			StreakType: streakType,
			SubjectID:  subjectID,
		}, nil
	}
	if err != nil {
		return dto.StreakResponse{}, err
	}
	return dto.NewStreakResponse(streak), nil
}

// dayDiff counts whole calendar days from a to b, both normalized to
// midnight UTC.
func dayDiff(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
