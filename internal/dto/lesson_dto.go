package dto

import (
	"time"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// TopicResponse is the nested topic descriptor attached to a lesson.
type TopicResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Objectives      []string `json:"learning_objectives"`
	DifficultyLevel int      `json:"difficulty_level"`
	Subject         string   `json:"subject"`
	SubjectColor    string   `json:"subject_color,omitempty"`
	SubjectIcon     string   `json:"subject_icon,omitempty"`
}

// LessonResponse is one scheduled lesson as rendered on the dashboard.
type LessonResponse struct {
	ID                       string                 `json:"id"`
	LessonType               string                 `json:"lesson_type"`
	Topic                    TopicResponse          `json:"topic"`
	Content                  map[string]interface{} `json:"content,omitempty"`
	EstimatedDurationMinutes int                    `json:"estimated_duration_minutes"`
	ScheduledDate            string                 `json:"scheduled_date"`
	Status                   string                 `json:"status"`
	CompletionPercentage     int                    `json:"completion_percentage"`
	TimeSpentMinutes         int                    `json:"time_spent_minutes"`
	UpdatedAt                time.Time              `json:"updated_at"`
}

// LessonCompletionRequest carries the completion payload for a lesson.
type LessonCompletionRequest struct {
	CompletionPercentage int    `json:"completion_percentage" validate:"min=0,max=100"`
	TimeSpentMinutes     int    `json:"time_spent_minutes" validate:"min=0"`
	Status               string `json:"status" validate:"omitempty,oneof=scheduled in_progress completed"`
}

// NewLessonResponse maps a lesson model onto the API shape.
func NewLessonResponse(lesson models.LessonPlan) LessonResponse {
	subject := lesson.SkillsTopic.MasteryGroup.Subject

	return LessonResponse{
		ID:         lesson.ID,
		LessonType: lesson.LessonType,
		Topic: TopicResponse{
			ID:              lesson.SkillsTopic.ID,
			Name:            lesson.SkillsTopic.Name,
			Description:     lesson.SkillsTopic.Description,
			Objectives:      lesson.SkillsTopic.Objectives(),
			DifficultyLevel: lesson.SkillsTopic.DifficultyLevel,
			Subject:         subject.Name,
			SubjectColor:    subject.Color,
			SubjectIcon:     subject.Icon,
		},
		Content:                  lesson.Content,
		EstimatedDurationMinutes: lesson.EstimatedDurationMinutes,
		ScheduledDate:            lesson.ScheduledDate.Format("2006-01-02"),
		Status:                   lesson.Status,
		CompletionPercentage:     lesson.CompletionPercentage,
		TimeSpentMinutes:         lesson.TimeSpentMinutes,
		UpdatedAt:                lesson.UpdatedAt,
	}
}

// NewLessonResponseSlice maps a lesson collection preserving order.
func NewLessonResponseSlice(lessons []models.LessonPlan) []LessonResponse {
	out := make([]LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		out = append(out, NewLessonResponse(lesson))
	}
	return out
}
