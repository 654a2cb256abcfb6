package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// StreakKey identifies one streak record.
type StreakKey struct {
	UserID     string
	TenantID   string
	StreakType string
	SubjectID  *string
}

// StreakRepository persists consecutive-day activity counters.
type StreakRepository interface {
	Find(ctx context.Context, key StreakKey) (models.Streak, error)
	// Create inserts a new streak row. When a row for the same unique key
	// already exists it returns gorm.ErrDuplicatedKey instead of inserting
	// a second one.
	Create(ctx context.Context, streak *models.Streak) error
	// UpdateCountsIf applies the new counts only when the stored
	// last_activity_date still matches the value read earlier. It reports
	// whether a row was updated, letting callers detect a lost race.
	UpdateCountsIf(ctx context.Context, id string, expectedLastActivity time.Time, current, longest int, lastActivity time.Time) (bool, error)
}

type streakRepository struct {
	db *gorm.DB
}

// NewStreakRepository instantiates the repository.
func NewStreakRepository(db *gorm.DB) StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) Find(ctx context.Context, key StreakKey) (models.Streak, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", key.UserID).
		Where("tenant_id = ?", key.TenantID).
		Where("streak_type = ?", key.StreakType)

	if key.SubjectID != nil {
		query = query.Where("subject_id = ?", *key.SubjectID)
	} else {
		query = query.Where("subject_id IS NULL")
	}

	var streak models.Streak
	if err := query.First(&streak).Error; err != nil {
		return models.Streak{}, err
	}

	return streak, nil
}

func (r *streakRepository) Create(ctx context.Context, streak *models.Streak) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(streak)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrDuplicatedKey
	}
	return nil
}

func (r *streakRepository) UpdateCountsIf(ctx context.Context, id string, expectedLastActivity time.Time, current, longest int, lastActivity time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Streak{}).
		Where("id = ?", id).
		Where("last_activity_date = ?", expectedLastActivity).
		Updates(map[string]interface{}{
			"current_count":      current,
			"longest_count":      longest,
			"last_activity_date": lastActivity,
			"is_active":          true,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
