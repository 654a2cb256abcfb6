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
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrUnknownLeaderboard  = errors.New("unknown leaderboard metric")
)

// Leaderboard metrics.
const (
	LeaderboardPoints       = "points"
	LeaderboardAchievements = "achievements"
	LeaderboardStreaks      = "streaks"
)

// GamificationService manages achievements, points, and leaderboards.
type GamificationService interface {
	ListAchievements(ctx context.Context, tenantID string) ([]dto.AchievementResponse, error)
	ListUserAchievements(ctx context.Context, userID, tenantID string) ([]dto.UserAchievementResponse, error)
	AwardAchievement(ctx context.Context, achievementID string, req dto.AwardAchievementRequest) (dto.UserAchievementResponse, error)
	RecordTransaction(ctx context.Context, req dto.PointsTransactionRequest) (dto.PointsBalanceResponse, error)
	GetBalance(ctx context.Context, userID, tenantID string) (dto.PointsBalanceResponse, error)
	Leaderboard(ctx context.Context, tenantID, metric string, limit int) ([]dto.LeaderboardEntryResponse, error)
}

type gamificationService struct {
	repo      repository.AchievementRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGamificationService creates the gamification engine.
func NewGamificationService(repo repository.AchievementRepository, validate *validator.Validate, logger zerolog.Logger) GamificationService {
	return &gamificationService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "gamification_service").Logger(),
		now:       time.Now,
	}
}

func (s *gamificationService) ListAchievements(ctx context.Context, tenantID string) ([]dto.AchievementResponse, error) {
	achievements, err := s.repo.ListAvailable(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return dto.NewAchievementResponseSlice(achievements), nil
}

func (s *gamificationService) ListUserAchievements(ctx context.Context, userID, tenantID string) ([]dto.UserAchievementResponse, error) {
	if err := s.validator.Var(userID, "required,uuid4"); err != nil {
		return nil, err
	}
	earned, err := s.repo.ListForUser(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserAchievementResponseSlice(earned), nil
}

func (s *gamificationService) AwardAchievement(ctx context.Context, achievementID string, req dto.AwardAchievementRequest) (dto.UserAchievementResponse, error) {
	if err := s.validator.Var(achievementID, "required,uuid4"); err != nil {
		return dto.UserAchievementResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.UserAchievementResponse{}, err
	}

	achievement, err := s.repo.GetAchievement(ctx, achievementID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserAchievementResponse{}, ErrAchievementNotFound
	}
	if err != nil {
		return dto.UserAchievementResponse{}, err
	}

	already, err := s.repo.HasEarned(ctx, req.UserID, achievementID)
	if err != nil {
		return dto.UserAchievementResponse{}, err
	}

	award := &models.UserAchievement{
		UserID:        req.UserID,
		AchievementID: achievementID,
		TenantID:      req.TenantID,
		ProgressData:  req.ProgressData,
	}
	if err := s.repo.Award(ctx, award); err != nil {
		return dto.UserAchievementResponse{}, err
	}

	// Points are granted on first earn only; re-awarding is a no-op for
	// both the badge and the ledger.
	if !already && achievement.PointsValue > 0 {
		tx := &models.PointsTransaction{
			UserID:          req.UserID,
			TenantID:        req.TenantID,
			TransactionType: models.PointsEarned,
			PointsAmount:    achievement.PointsValue,
			SourceType:      "achievement",
			SourceID:        achievement.ID,
			Description:     achievement.Title,
		}
		if err := s.repo.AddTransaction(ctx, tx); err != nil {
			s.logger.Error().Err(err).Str("achievement_id", achievementID).Msg("failed to record achievement points")
			return dto.UserAchievementResponse{}, err
		}
	}

	award.Achievement = achievement
	s.logger.Info().Str("user_id", req.UserID).Str("achievement_id", achievementID).Bool("first_earn", !already).Msg("achievement awarded")
	return dto.NewUserAchievementResponse(*award), nil
}

func (s *gamificationService) RecordTransaction(ctx context.Context, req dto.PointsTransactionRequest) (dto.PointsBalanceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PointsBalanceResponse{}, err
	}

	tx := &models.PointsTransaction{
		UserID:          req.UserID,
		TenantID:        req.TenantID,
		TransactionType: req.TransactionType,
		PointsAmount:    req.PointsAmount,
		SourceType:      req.SourceType,
		SourceID:        req.SourceID,
		Description:     req.Description,
		Metadata:        req.Metadata,
	}
	if err := s.repo.AddTransaction(ctx, tx); err != nil {
		return dto.PointsBalanceResponse{}, err
	}

	return s.GetBalance(ctx, req.UserID, req.TenantID)
}

func (s *gamificationService) GetBalance(ctx context.Context, userID, tenantID string) (dto.PointsBalanceResponse, error) {
	if err := s.validator.Var(userID, "required,uuid4"); err != nil {
		return dto.PointsBalanceResponse{}, err
	}
	balance, err := s.repo.PointsBalance(ctx, userID, tenantID)
	if err != nil {
		return dto.PointsBalanceResponse{}, err
	}
	return dto.PointsBalanceResponse{UserID: userID, Balance: balance}, nil
}

func (s *gamificationService) Leaderboard(ctx context.Context, tenantID, metric string, limit int) ([]dto.LeaderboardEntryResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var (
		entries []repository.LeaderboardEntry
		err     error
	)
	switch metric {
	case LeaderboardPoints, "":
		entries, err = s.repo.LeaderboardByPoints(ctx, tenantID, limit)
	case LeaderboardAchievements:
		entries, err = s.repo.LeaderboardByAchievements(ctx, tenantID, limit)
	case LeaderboardStreaks:
		entries, err = s.repo.LeaderboardByStreaks(ctx, tenantID, limit)
	default:
		return nil, ErrUnknownLeaderboard
	}
	if err != nil {
		return nil, err
	}

	out := make([]dto.LeaderboardEntryResponse, 0, len(entries))
	for i, entry := range entries {
		out = append(out, dto.LeaderboardEntryResponse{
			Rank:   i + 1,
			UserID: entry.UserID,
			Score:  entry.Score,
		})
	}
	return out, nil
}
