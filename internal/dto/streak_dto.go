package dto

import (
	"time"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// StreakActivityRequest reports one qualifying activity event.
type StreakActivityRequest struct {
	UserID     string  `json:"user_id" validate:"required,uuid4"`
	TenantID   string  `json:"tenant_id" validate:"required,uuid4"`
	StreakType string  `json:"streak_type" validate:"required,max=64"`
	SubjectID  *string `json:"subject_id" validate:"omitempty,uuid4"`
}

// StreakResponse is the updated streak record.
type StreakResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	StreakType       string    `json:"streak_type"`
	SubjectID        *string   `json:"subject_id,omitempty"`
	CurrentCount     int       `json:"current_count"`
	LongestCount     int       `json:"longest_count"`
	LastActivityDate string    `json:"last_activity_date"`
	StreakStartDate  string    `json:"streak_start_date"`
	IsActive         bool      `json:"is_active"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewStreakResponse maps a streak model onto the API shape.
func NewStreakResponse(streak models.Streak) StreakResponse {
	return StreakResponse{
		ID:               streak.ID,
		UserID:           streak.UserID,
		StreakType:       streak.StreakType,
		SubjectID:        streak.SubjectID,
		CurrentCount:     streak.CurrentCount,
		LongestCount:     streak.LongestCount,
		LastActivityDate: streak.LastActivityDate.Format("2006-01-02"),
		StreakStartDate:  streak.StreakStartDate.Format("2006-01-02"),
		IsActive:         streak.IsActive,
		UpdatedAt:        streak.UpdatedAt,
	}
}
