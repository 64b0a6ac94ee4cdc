// Package conversation is the relational home of conversations and their
// persisted message history, using the same thin-wrapper-over-gorm.DB CRUD
// shape applied throughout this codebase's other store packages.
package conversation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

// ErrNotOwned is returned by Get when a conversation exists but belongs to
// a different user — the orchestrator's ownership-isolation contract
// collapses this into the same not-found response a caller would see for a
// missing id, so it never leaks whether an id exists for someone else.
var ErrNotOwned = errors.New("conversation not found")

// Store persists Conversation and Message rows.
type Store struct {
	db    *gorm.DB
	idgen func() string
}

// New builds a Store. idgen mints primary keys for new conversations.
func New(db *gorm.DB, idgen func() string) *Store {
	return &Store{db: db, idgen: idgen}
}

// Create inserts a new, empty conversation owned by userID.
func (s *Store) Create(ctx context.Context, userID string) (*chatmodel.Conversation, error) {
	conv := &chatmodel.Conversation{
		ID:     s.idgen(),
		UserID: userID,
	}
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

// Get loads a conversation and verifies userID owns it, returning
// ErrNotOwned on any mismatch or missing row.
func (s *Store) Get(ctx context.Context, userID, conversationID string) (*chatmodel.Conversation, error) {
	var conv chatmodel.Conversation
	err := s.db.WithContext(ctx).First(&conv, "id = ?", conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, ErrNotOwned
	}
	return &conv, nil
}

// List returns a user's conversations, most recently updated first.
func (s *Store) List(ctx context.Context, userID string) ([]*chatmodel.Conversation, error) {
	var convs []*chatmodel.Conversation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&convs).Error
	return convs, err
}

// SetSummary persists a conversation's rolling summary.
func (s *Store) SetSummary(ctx context.Context, conversationID, summary string) error {
	return s.db.WithContext(ctx).
		Model(&chatmodel.Conversation{}).
		Where("id = ?", conversationID).
		Update("summary", summary).Error
}

// Reset clears a conversation's message history and summary without
// deleting the conversation row itself (the buffer-level reset in
// internal/memory/buffer handles the Redis side).
func (s *Store) Reset(ctx context.Context, conversationID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&chatmodel.Message{}).Error; err != nil {
			return err
		}
		return tx.Model(&chatmodel.Conversation{}).Where("id = ?", conversationID).Update("summary", "").Error
	})
}

// AppendMessage inserts a message row.
func (s *Store) AppendMessage(ctx context.Context, msg *chatmodel.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

// RecentMessages returns the last limit messages for a conversation, in
// chronological order.
func (s *Store) RecentMessages(ctx context.Context, conversationID string, limit int) ([]chatmodel.Message, error) {
	var rows []chatmodel.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}
