package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// StreakTypeDailyLearning counts consecutive days with any learning activity.
	StreakTypeDailyLearning = "daily_learning"
	// StreakTypeSubjectPractice counts consecutive days of practice in one subject.
	StreakTypeSubjectPractice = "subject_practice"
)

// Streak is a consecutive-day activity counter for a (user, type, subject) key.
// Broken streaks keep their row with a reset count; rows are never deleted so
// the longest count survives. SubjectKey mirrors SubjectID with an empty
// string standing in for the subject-less daily row: unique indexes skip NULL
// columns, so the sentinel is what keeps the key unique and concurrent first
// activities from creating two rows.
type Streak struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string    `gorm:"type:uuid;uniqueIndex:idx_streak_key;not null" json:"user_id"`
	TenantID         string    `gorm:"type:uuid;uniqueIndex:idx_streak_key;not null" json:"tenant_id"`
	StreakType       string    `gorm:"size:64;uniqueIndex:idx_streak_key;not null" json:"streak_type"`
	SubjectID        *string   `gorm:"type:uuid;index" json:"subject_id"`
	SubjectKey       string    `gorm:"size:36;uniqueIndex:idx_streak_key;not null;default:''" json:"-"`
	CurrentCount     int       `gorm:"not null;default:0" json:"current_count"`
	LongestCount     int       `gorm:"not null;default:0" json:"longest_count"`
	LastActivityDate time.Time `gorm:"type:date" json:"last_activity_date"`
	StreakStartDate  time.Time `gorm:"type:date" json:"streak_start_date"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when one is not supplied and
// derives the non-null subject key from SubjectID.
func (s *Streak) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SubjectKey == "" && s.SubjectID != nil {
		s.SubjectKey = *s.SubjectID
	}
	return nil
}
