package dto

import (
	"encoding/json"
	"time"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// ProjectCreateRequest creates a marketplace listing.
type ProjectCreateRequest struct {
	TenantID              string                 `json:"tenant_id" validate:"required,uuid4"`
	Title                 string                 `json:"title" validate:"required,max=255"`
	Description           string                 `json:"description"`
	ProjectType           string                 `json:"project_type" validate:"omitempty,max=64"`
	SubjectAreas          []string               `json:"subject_areas"`
	DifficultyLevel       int                    `json:"difficulty_level" validate:"omitempty,min=1,max=5"`
	EstimatedDurationDays int                    `json:"estimated_duration_days" validate:"omitempty,min=0"`
	MaxTeamSize           int                    `json:"max_team_size" validate:"omitempty,min=1,max=20"`
	SkillsRequired        []string               `json:"skills_required"`
	SkillsGained          []string               `json:"skills_gained"`
	Resources             map[string]interface{} `json:"resources"`
	DueDate               *string                `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// ProjectMemberResponse is one team member of a project.
type ProjectMemberResponse struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

// ProjectResponse is a marketplace listing with its team.
type ProjectResponse struct {
	ID                    string                  `json:"id"`
	CreatorID             string                  `json:"creator_id"`
	Title                 string                  `json:"title"`
	Description           string                  `json:"description"`
	ProjectType           string                  `json:"project_type"`
	Status                string                  `json:"status"`
	SubjectAreas          []string                `json:"subject_areas"`
	DifficultyLevel       int                     `json:"difficulty_level"`
	EstimatedDurationDays int                     `json:"estimated_duration_days"`
	MaxTeamSize           int                     `json:"max_team_size"`
	SkillsRequired        []string                `json:"skills_required"`
	SkillsGained          []string                `json:"skills_gained"`
	Resources             map[string]interface{}  `json:"resources,omitempty"`
	AssetURL              string                  `json:"asset_url,omitempty"`
	DueDate               *time.Time              `json:"due_date,omitempty"`
	Members               []ProjectMemberResponse `json:"members"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
}

// NewProjectResponse maps a project model onto the API shape.
func NewProjectResponse(project models.Project) ProjectResponse {
	members := make([]ProjectMemberResponse, 0, len(project.Members))
	for _, member := range project.Members {
		members = append(members, ProjectMemberResponse{
			UserID:   member.UserID,
			Role:     member.Role,
			Status:   member.Status,
			JoinedAt: member.JoinedAt,
		})
	}

	return ProjectResponse{
		ID:                    project.ID,
		CreatorID:             project.CreatorID,
		Title:                 project.Title,
		Description:           project.Description,
		ProjectType:           project.ProjectType,
		Status:                project.Status,
		SubjectAreas:          decodeStringList(project.SubjectAreas),
		DifficultyLevel:       project.DifficultyLevel,
		EstimatedDurationDays: project.EstimatedDurationDays,
		MaxTeamSize:           project.MaxTeamSize,
		SkillsRequired:        decodeStringList(project.SkillsRequired),
		SkillsGained:          decodeStringList(project.SkillsGained),
		Resources:             project.Resources,
		AssetURL:              project.AssetURL,
		DueDate:               project.DueDate,
		Members:               members,
		CreatedAt:             project.CreatedAt,
		UpdatedAt:             project.UpdatedAt,
	}
}

// NewProjectResponseSlice maps project rows preserving order.
func NewProjectResponseSlice(projects []models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		out = append(out, NewProjectResponse(project))
	}
	return out
}

func decodeStringList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}
