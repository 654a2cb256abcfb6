package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Achievement rarities.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Achievement is a tenant-defined badge students can earn.
type Achievement struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    string    `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:16" json:"icon"`
	Category    string    `gorm:"size:64;index" json:"category"`
	Rarity      string    `gorm:"size:32;default:common" json:"rarity"`
	PointsValue int       `gorm:"default:0" json:"points_value"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when one is not supplied.
func (a *Achievement) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// UserAchievement records one earned badge. The unique index makes awarding
// idempotent at the store level.
type UserAchievement struct {
	ID            string            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string            `gorm:"type:uuid;uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID string            `gorm:"type:uuid;uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	TenantID      string            `gorm:"type:uuid;index;not null" json:"tenant_id"`
	ProgressData  datatypes.JSONMap `gorm:"type:json" json:"progress_data"`
	EarnedAt      time.Time         `json:"earned_at"`
	Achievement   Achievement       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"achievement"`
}

// BeforeCreate assigns a UUID primary key and stamps the earn time.
func (u *UserAchievement) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.EarnedAt.IsZero() {
		u.EarnedAt = time.Now().UTC()
	}
	return nil
}

// Points transaction types.
const (
	PointsEarned   = "earned"
	PointsSpent    = "spent"
	PointsAdjusted = "adjusted"
)

// PointsTransaction is an append-only ledger entry for gamification points.
type PointsTransaction struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string            `gorm:"type:uuid;index;not null" json:"user_id"`
	TenantID        string            `gorm:"type:uuid;index;not null" json:"tenant_id"`
	TransactionType string            `gorm:"size:32;not null" json:"transaction_type"`
	PointsAmount    int               `gorm:"not null" json:"points_amount"`
	SourceType      string            `gorm:"size:64" json:"source_type"`
	SourceID        string            `gorm:"size:64" json:"source_id"`
	Description     string            `gorm:"type:text" json:"description"`
	Metadata        datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt       time.Time         `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when one is not supplied.
func (p *PointsTransaction) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
