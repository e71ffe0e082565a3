package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/db"
)

// MessageRepository provides data access for chat messages.
// Messages are append-only; there is no update or delete path.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create appends a message to a match.
func (r *MessageRepository) Create(ctx context.Context, matchID, senderID uint64, text string) (*db.Message, error) {
	msg := db.Message{MatchID: matchID, SenderID: senderID, Text: text}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListForMatch returns a match's messages oldest first.
func (r *MessageRepository) ListForMatch(ctx context.Context, matchID uint64) ([]db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}
