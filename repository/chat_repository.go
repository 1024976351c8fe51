package repository

import (
	"context"

	"github.com/MePrince47/JoeZik/model"

	"gorm.io/gorm"
)

// ChatRepository defines the interface for chat message operations.
type ChatRepository interface {
	CreateMessage(ctx context.Context, msg *model.ChatMessage) error
	// ListMessages returns the most recent limit messages in chronological
	// order. limit <= 0 returns everything.
	ListMessages(ctx context.Context, limit int) ([]*model.ChatMessage, error)
	GetMessage(ctx context.Context, id int64) (*model.ChatMessage, error)
	DeleteMessage(ctx context.Context, id int64) error
}

// gormChatRepository implements ChatRepository with GORM.
type gormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a GORM chat repository.
func NewGormChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

// CreateMessage stores a new chat message.
func (r *gormChatRepository) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns recent messages oldest-to-newest so clients can append.
func (r *gormChatRepository) ListMessages(ctx context.Context, limit int) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage

	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}

	// Fetched newest-first to apply the limit; flip to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetMessage retrieves one message by ID, nil when absent.
func (r *gormChatRepository) GetMessage(ctx context.Context, id int64) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := r.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// DeleteMessage removes a message by ID.
func (r *gormChatRepository) DeleteMessage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ChatMessage{}, id).Error
}
