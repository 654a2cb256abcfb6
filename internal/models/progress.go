package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mastery levels reported per subject, strongest first.
const (
	MasteryMasters     = "masters"
	MasteryMeets       = "meets"
	MasteryApproaches  = "approaches"
	MasteryDoesNotMeet = "does_not_meet"
)

// StudentProgress tracks a student's standing in one subject.
type StudentProgress struct {
	ID                    string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID              string    `gorm:"type:uuid;index;not null" json:"tenant_id"`
	StudentID             string    `gorm:"type:uuid;uniqueIndex:idx_progress_key;not null" json:"student_id"`
	SubjectID             string    `gorm:"type:uuid;uniqueIndex:idx_progress_key;not null" json:"subject_id"`
	ProgressPercentage    int       `gorm:"default:0" json:"progress_percentage"`
	MasteryLevel          string    `gorm:"size:32;default:approaches" json:"mastery_level"`
	StreakDays            int       `gorm:"default:0" json:"streak_days"`
	TotalTimeSpentMinutes int       `gorm:"default:0" json:"total_time_spent_minutes"`
	LessonsCompleted      int       `gorm:"default:0" json:"lessons_completed"`
	LastActivityDate      time.Time `gorm:"type:date" json:"last_activity_date"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	Subject               Subject   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subject"`
}

// BeforeCreate assigns a UUID primary key when one is not supplied.
func (p *StudentProgress) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
