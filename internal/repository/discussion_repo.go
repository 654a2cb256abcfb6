package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// DiscussionRepository persists discussion room messages for history.
type DiscussionRepository interface {
	Save(ctx context.Context, message *models.DiscussionMessage) error
	ListByRoom(ctx context.Context, roomID string, before time.Time, limit int) ([]models.DiscussionMessage, error)
	LatestByRoom(ctx context.Context, roomID string) (models.DiscussionMessage, error)
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository constructs a discussion repository backed by GORM.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Save(ctx context.Context, message *models.DiscussionMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *discussionRepository) ListByRoom(ctx context.Context, roomID string, before time.Time, limit int) ([]models.DiscussionMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Where("room_id = ?", roomID)
	if !before.IsZero() {
		query = query.Where("created_at < ?", before)
	}

	var messages []models.DiscussionMessage
	if err := query.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}

	// Clients render oldest first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *discussionRepository) LatestByRoom(ctx context.Context, roomID string) (models.DiscussionMessage, error) {
	var message models.DiscussionMessage
	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("created_at DESC").First(&message).Error; err != nil {
		return models.DiscussionMessage{}, err
	}

	return message, nil
}
