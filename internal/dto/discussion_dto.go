package dto

import (
	"time"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// DiscussionSendRequest is an inbound message on a room websocket.
type DiscussionSendRequest struct {
	RoomID  string `json:"room_id" validate:"required,max=128"`
	Content string `json:"content" validate:"required"`
	Type    string `json:"type" validate:"omitempty,oneof=text question answer system"`
}

// DiscussionHistoryQuery pages through stored room messages.
type DiscussionHistoryQuery struct {
	RoomID string     `json:"room_id" validate:"required,max=128"`
	Before *time.Time `json:"before"`
	Limit  int        `json:"limit" validate:"min=0,max=100"`
}

// DiscussionMessageResponse is one delivered room message.
type DiscussionMessageResponse struct {
	ID        uint      `json:"id"`
	SenderID  string    `json:"sender_id"`
	RoomID    string    `json:"room_id"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDiscussionMessageResponse maps a stored message onto the API shape.
func NewDiscussionMessageResponse(message models.DiscussionMessage) DiscussionMessageResponse {
	return DiscussionMessageResponse{
		ID:        message.ID,
		SenderID:  message.SenderID,
		RoomID:    message.RoomID,
		Content:   message.Content,
		Type:      message.Type,
		CreatedAt: message.CreatedAt,
	}
}

// NewDiscussionMessageResponseSlice maps stored messages preserving order.
func NewDiscussionMessageResponseSlice(messages []models.DiscussionMessage) []DiscussionMessageResponse {
	out := make([]DiscussionMessageResponse, 0, len(messages))
	for _, message := range messages {
		out = append(out, NewDiscussionMessageResponse(message))
	}
	return out
}
