package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// LeaderboardEntry is one aggregated ranking row.
type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
}

// AchievementRepository persists gamification records.
type AchievementRepository interface {
	ListAvailable(ctx context.Context, tenantID string) ([]models.Achievement, error)
	ListForUser(ctx context.Context, userID, tenantID string) ([]models.UserAchievement, error)
	GetAchievement(ctx context.Context, id string) (models.Achievement, error)
	Award(ctx context.Context, award *models.UserAchievement) error
	HasEarned(ctx context.Context, userID, achievementID string) (bool, error)
	AddTransaction(ctx context.Context, tx *models.PointsTransaction) error
	PointsBalance(ctx context.Context, userID, tenantID string) (int, error)
	LeaderboardByPoints(ctx context.Context, tenantID string, limit int) ([]LeaderboardEntry, error)
	LeaderboardByAchievements(ctx context.Context, tenantID string, limit int) ([]LeaderboardEntry, error)
	LeaderboardByStreaks(ctx context.Context, tenantID string, limit int) ([]LeaderboardEntry, error)
}

type achievementRepository struct {
	db *gorm.DB
}

// NewAchievementRepository instantiates the repository.
func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) ListAvailable(ctx context.Context, tenantID string) ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("is_active = ?", true).
		Order("category ASC, title ASC").
		Find(&achievements).Error; err != nil {
		return nil, err
	}

	return achievements, nil
}

func (r *achievementRepository) ListForUser(ctx context.Context, userID, tenantID string) ([]models.UserAchievement, error) {
	var earned []models.UserAchievement
	if err := r.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Where("tenant_id = ?", tenantID).
		Order("earned_at DESC").
		Find(&earned).Error; err != nil {
		return nil, err
	}

	return earned, nil
}

func (r *achievementRepository) GetAchievement(ctx context.Context, id string) (models.Achievement, error) {
	var achievement models.Achievement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&achievement).Error; err != nil {
		return models.Achievement{}, err
	}

	return achievement, nil
}

func (r *achievementRepository) Award(ctx context.Context, award *models.UserAchievement) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(award).Error
}

func (r *achievementRepository) HasEarned(ctx context.Context, userID, achievementID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Where("achievement_id = ?", achievementID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *achievementRepository) AddTransaction(ctx context.Context, tx *models.PointsTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *achievementRepository) PointsBalance(ctx context.Context, userID, tenantID string) (int, error) {
	var balance *int
	err := r.db.WithContext(ctx).Model(&models.PointsTransaction{}).
		Select("SUM(CASE WHEN transaction_type = ? THEN -points_amount ELSE points_amount END)", models.PointsSpent).
		Where("user_id = ?", userID).
		Where("tenant_id = ?", tenantID).
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	if balance == nil {
		return 0, nil
	}

	return *balance, nil
}

func (r *achievementRepository) LeaderboardByPoints(ctx context.Context, tenantID string, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.db.WithContext(ctx).Model(&models.PointsTransaction{}).
		Select("user_id, SUM(CASE WHEN transaction_type = ? THEN -points_amount ELSE points_amount END) AS score", models.PointsSpent).
		Where("tenant_id = ?", tenantID).
		Group("user_id").
		Order("score DESC").
		Limit(limit).
		Scan(&entries).Error

	return entries, err
}

func (r *achievementRepository) LeaderboardByAchievements(ctx context.Context, tenantID string, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Select("user_id, COUNT(*) AS score").
		Where("tenant_id = ?", tenantID).
		Group("user_id").
		Order("score DESC").
		Limit(limit).
		Scan(&entries).Error

	return entries, err
}

func (r *achievementRepository) LeaderboardByStreaks(ctx context.Context, tenantID string, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.db.WithContext(ctx).Model(&models.Streak{}).
		Select("user_id, MAX(current_count) AS score").
		Where("tenant_id = ?", tenantID).
		Group("user_id").
		Order("score DESC").
		Limit(limit).
		Scan(&entries).Error

	return entries, err
}
