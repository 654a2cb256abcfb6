package dto

import (
	"time"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// ProgressUpdateRequest carries partial progress updates for one subject.
// Absent fields keep their stored values.
type ProgressUpdateRequest struct {
	ProgressPercentage    *int    `json:"progress_percentage" validate:"omitempty"`
	MasteryLevel          *string `json:"mastery_level" validate:"omitempty,oneof=masters meets approaches does_not_meet"`
	StreakDays            *int    `json:"streak_days" validate:"omitempty"`
	TotalTimeSpentMinutes *int    `json:"total_time_spent_minutes" validate:"omitempty"`
	LessonsCompleted      *int    `json:"lessons_completed" validate:"omitempty"`
}

// ProgressResponse is a student's standing in one subject.
type ProgressResponse struct {
	ID                    string    `json:"id"`
	SubjectID             string    `json:"subject_id"`
	SubjectName           string    `json:"subject_name"`
	SubjectColor          string    `json:"subject_color,omitempty"`
	ProgressPercentage    int       `json:"progress_percentage"`
	MasteryLevel          string    `json:"mastery_level"`
	StreakDays            int       `json:"streak_days"`
	TotalTimeSpentMinutes int       `json:"total_time_spent_minutes"`
	LessonsCompleted      int       `json:"lessons_completed"`
	LastActivityDate      string    `json:"last_activity_date"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewProgressResponse maps a progress model onto the API shape.
func NewProgressResponse(progress models.StudentProgress) ProgressResponse {
	return ProgressResponse{
		ID:                    progress.ID,
		SubjectID:             progress.SubjectID,
		SubjectName:           progress.Subject.Name,
		SubjectColor:          progress.Subject.Color,
		ProgressPercentage:    progress.ProgressPercentage,
		MasteryLevel:          progress.MasteryLevel,
		StreakDays:            progress.StreakDays,
		TotalTimeSpentMinutes: progress.TotalTimeSpentMinutes,
		LessonsCompleted:      progress.LessonsCompleted,
		LastActivityDate:      progress.LastActivityDate.Format("2006-01-02"),
		UpdatedAt:             progress.UpdatedAt,
	}
}

// NewProgressResponseSlice maps progress rows preserving order.
func NewProgressResponseSlice(rows []models.StudentProgress) []ProgressResponse {
	out := make([]ProgressResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewProgressResponse(row))
	}
	return out
}
