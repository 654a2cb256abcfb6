package dto

import "github.com/pathlight-labs/pathlight-api/internal/tools"

// ToolResponse is one creative tool surfaced as required for today.
type ToolResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Href        string   `json:"href"`
	Features    []string `json:"features,omitempty"`
}

// DailyDashboardResponse aggregates the day's lessons, the minutes left to
// finish them, and the tools those lessons call for.
type DailyDashboardResponse struct {
	Date                  string           `json:"date"`
	Lessons               []LessonResponse `json:"lessons"`
	TotalRemainingMinutes int              `json:"total_remaining_minutes"`
	RequiredTools         []ToolResponse   `json:"required_tools"`
}

// NewToolResponse maps a catalog descriptor onto the API shape.
func NewToolResponse(tool tools.Descriptor) ToolResponse {
	return ToolResponse{
		ID:          tool.ID,
		Name:        tool.Name,
		Description: tool.Description,
		Href:        tool.Href,
		Features:    tool.Features,
	}
}

// NewToolResponseSlice maps descriptors preserving catalog order.
func NewToolResponseSlice(descriptors []tools.Descriptor) []ToolResponse {
	out := make([]ToolResponse, 0, len(descriptors))
	for _, tool := range descriptors {
		out = append(out, NewToolResponse(tool))
	}
	return out
}
