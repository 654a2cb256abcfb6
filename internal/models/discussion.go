package models

import "time"

// DiscussionMessage is a single post inside a discussion room. Rooms are
// free-form identifiers, conventionally "subject:<id>" or "project:<id>".
type DiscussionMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SenderID  string    `gorm:"size:64;index" json:"sender_id"`
	RoomID    string    `gorm:"size:128;index" json:"room_id"`
	Content   string    `gorm:"type:text" json:"content"`
	Type      string    `gorm:"size:32;default:text" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
