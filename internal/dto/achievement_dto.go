package dto

import (
	"time"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// AchievementResponse is one badge definition.
type AchievementResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity"`
	PointsValue int    `json:"points_value"`
}

// UserAchievementResponse is an earned badge with its definition attached.
type UserAchievementResponse struct {
	ID          string                 `json:"id"`
	Achievement AchievementResponse    `json:"achievement"`
	Progress    map[string]interface{} `json:"progress_data,omitempty"`
	EarnedAt    time.Time              `json:"earned_at"`
}

// AwardAchievementRequest awards a badge to a user.
type AwardAchievementRequest struct {
	UserID       string                 `json:"user_id" validate:"required,uuid4"`
	TenantID     string                 `json:"tenant_id" validate:"required,uuid4"`
	ProgressData map[string]interface{} `json:"progress_data"`
}

// PointsTransactionRequest appends one ledger entry.
type PointsTransactionRequest struct {
	UserID          string                 `json:"user_id" validate:"required,uuid4"`
	TenantID        string                 `json:"tenant_id" validate:"required,uuid4"`
	TransactionType string                 `json:"transaction_type" validate:"required,oneof=earned spent adjusted"`
	PointsAmount    int                    `json:"points_amount" validate:"min=0"`
	SourceType      string                 `json:"source_type"`
	SourceID        string                 `json:"source_id"`
	Description     string                 `json:"description"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// PointsBalanceResponse is a user's current points total.
type PointsBalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int    `json:"balance"`
}

// LeaderboardEntryResponse is one ranked row.
type LeaderboardEntryResponse struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
}

// NewAchievementResponse maps a badge definition onto the API shape.
func NewAchievementResponse(a models.Achievement) AchievementResponse {
	return AchievementResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Icon:        a.Icon,
		Category:    a.Category,
		Rarity:      a.Rarity,
		PointsValue: a.PointsValue,
	}
}

// NewAchievementResponseSlice maps badge definitions preserving order.
func NewAchievementResponseSlice(items []models.Achievement) []AchievementResponse {
	out := make([]AchievementResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewAchievementResponse(item))
	}
	return out
}

// NewUserAchievementResponse maps an earned badge onto the API shape.
func NewUserAchievementResponse(earned models.UserAchievement) UserAchievementResponse {
	return UserAchievementResponse{
		ID:          earned.ID,
		Achievement: NewAchievementResponse(earned.Achievement),
		Progress:    earned.ProgressData,
		EarnedAt:    earned.EarnedAt,
	}
}

// NewUserAchievementResponseSlice maps earned badges preserving order.
func NewUserAchievementResponseSlice(items []models.UserAchievement) []UserAchievementResponse {
	out := make([]UserAchievementResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewUserAchievementResponse(item))
	}
	return out
}
