package repository

import (
	"context"
	"errors"

	"github.com/harrygamon/Socials/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository provides data access for Conversations and Messages.
type ConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new repository bound to the given DB connection.
func NewConversationRepository(database *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: database}
}

// CreateForMatch opens the conversation behind a match. The unique index
// on match_id makes a repeated create a no-op, mirroring how the match
// itself absorbs duplicates.
func (r *ConversationRepository) CreateForMatch(ctx context.Context, matchID uint64) (*db.Conversation, error) {
	conv := db.Conversation{MatchID: matchID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}},
			DoNothing: true,
		}).
		Create(&conv)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, res.Error
	}
	if res.Error == nil && res.RowsAffected > 0 {
		return &conv, nil
	}
	return r.GetByMatch(ctx, matchID)
}

// GetByID fetches a conversation.
func (r *ConversationRepository) GetByID(ctx context.Context, id uint64) (*db.Conversation, error) {
	var conv db.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetByMatch fetches the conversation behind a match.
func (r *ConversationRepository) GetByMatch(ctx context.Context, matchID uint64) (*db.Conversation, error) {
	var conv db.Conversation
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreateMessage appends a message to a conversation.
func (r *ConversationRepository) CreateMessage(ctx context.Context, msg *db.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns a conversation's messages in ascending creation
// order, id as tiebreak.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uint64) ([]db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}
