package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// LessonTypeReinforcement labels learn-mode lessons revisiting taught skills.
	LessonTypeReinforcement = "reinforcement"
	// LessonTypePathway labels experience-mode lessons on the active learning path.
	LessonTypePathway = "pathway"
	// LessonTypeFuturePathway labels discover-mode lessons previewing upcoming paths.
	LessonTypeFuturePathway = "future_pathway"
)

const (
	// LessonStatusScheduled indicates the lesson is planned but not started.
	LessonStatusScheduled = "scheduled"
	// LessonStatusInProgress indicates the student has started the lesson.
	LessonStatusInProgress = "in_progress"
	// LessonStatusCompleted indicates the lesson is done.
	LessonStatusCompleted = "completed"
)

// LessonPlan is one scheduled unit of learning work for a student on a date.
type LessonPlan struct {
	ID                       string            `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID                 string            `gorm:"type:uuid;index;not null" json:"tenant_id"`
	StudentID                string            `gorm:"type:uuid;index;not null" json:"student_id"`
	SkillsTopicID            string            `gorm:"type:uuid;index;not null" json:"skills_topic_id"`
	LessonType               string            `gorm:"size:32;not null" json:"lesson_type"`
	Content                  datatypes.JSONMap `gorm:"type:json" json:"content"`
	DifficultyAdjustment     int               `json:"difficulty_adjustment"`
	EstimatedDurationMinutes int               `json:"estimated_duration_minutes"`
	ScheduledDate            time.Time         `gorm:"type:date;index;not null" json:"scheduled_date"`
	Status                   string            `gorm:"size:32;not null;default:scheduled" json:"status"`
	CompletionPercentage     int               `json:"completion_percentage"`
	TimeSpentMinutes         int               `json:"time_spent_minutes"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
	SkillsTopic              SkillsTopic       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"skills_topic"`
}

// BeforeCreate assigns a UUID primary key when one is not supplied.
func (l *LessonPlan) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// IsComplete reports whether either completion signal marks the lesson done.
// Status and percentage are tracked separately upstream, so a lesson stops
// counting against remaining time as soon as one of them says finished.
func (l LessonPlan) IsComplete() bool {
	return l.Status == LessonStatusCompleted || l.CompletionPercentage >= 100
}

// SubjectName walks the topic relations to the owning subject, if loaded.
func (l LessonPlan) SubjectName() string {
	return l.SkillsTopic.MasteryGroup.Subject.Name
}

func jsonUnmarshal(data []byte, target interface{}) error {
	return json.Unmarshal(data, target)
}
