package model

import "time"

// ChatMessage is one message in the shared room chat. Username and avatar are
// denormalized at write time so deleted or renamed users don't break history.
// Managed through GORM, unlike the raw-SQL repositories.
type ChatMessage struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     int64     `json:"userId" gorm:"not null;index"`
	Username   string    `json:"username" gorm:"size:100;not null"`
	UserAvatar string    `json:"userAvatar" gorm:"size:767;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}

// TableName keeps the table name aligned with the rest of the schema.
func (ChatMessage) TableName() string {
	return "chat_messages"
}
