package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subject is a tenant-scoped curriculum area such as Mathematics or Science.
type Subject struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    string         `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Code        string         `gorm:"size:32" json:"code"`
	Color       string         `gorm:"size:16" json:"color"`
	Icon        string         `gorm:"size:16" json:"icon"`
	GradeLevels datatypes.JSON `gorm:"type:json" json:"grade_levels"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when one is not supplied.
func (s *Subject) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// MasteryGroup clusters related skills topics beneath a subject.
type MasteryGroup struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID string    `gorm:"type:uuid;index;not null" json:"subject_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Subject   Subject   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subject"`
}

// BeforeCreate assigns a UUID primary key when one is not supplied.
func (g *MasteryGroup) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// SkillsTopic is the nested topic descriptor a lesson teaches.
type SkillsTopic struct {
	ID                       string         `gorm:"type:uuid;primaryKey" json:"id"`
	MasteryGroupID           string         `gorm:"type:uuid;index;not null" json:"mastery_group_id"`
	Name                     string         `gorm:"size:255;not null" json:"name"`
	Description              string         `gorm:"type:text" json:"description"`
	LearningObjectives       datatypes.JSON `gorm:"type:json" json:"learning_objectives"`
	DifficultyLevel          int            `gorm:"default:1" json:"difficulty_level"`
	EstimatedDurationMinutes int            `json:"estimated_duration_minutes"`
	CreatedAt                time.Time      `json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
	MasteryGroup             MasteryGroup   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"mastery_group"`
}

// BeforeCreate assigns a UUID primary key when one is not supplied.
func (t *SkillsTopic) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Objectives decodes the stored learning objectives into a string slice.
func (t SkillsTopic) Objectives() []string {
	if len(t.LearningObjectives) == 0 {
		return nil
	}
	var objectives []string
	if err := jsonUnmarshal(t.LearningObjectives, &objectives); err != nil {
		return nil
	}
	return objectives
}
