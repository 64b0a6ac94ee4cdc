package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

// relationalStore is the Postgres source of truth for memory rows: content,
// importance, decay, and lifecycle flags. It follows the same CRUD
// wrapper-over-gorm.DB shape used by this codebase's other store packages,
// scoped to a single table.
type relationalStore struct {
	db *gorm.DB
}

func newRelationalStore(db *gorm.DB) *relationalStore {
	return &relationalStore{db: db}
}

func (r *relationalStore) create(ctx context.Context, m *chatmodel.Memory) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *relationalStore) update(ctx context.Context, m *chatmodel.Memory) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *relationalStore) get(ctx context.Context, id string) (*chatmodel.Memory, error) {
	var m chatmodel.Memory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *relationalStore) getMany(ctx context.Context, ids []string) ([]*chatmodel.Memory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var memories []*chatmodel.Memory
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&memories).Error; err != nil {
		return nil, err
	}
	return memories, nil
}

func (r *relationalStore) deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&chatmodel.Memory{}).
		Where("id = ?", id).Update("is_active", false).Error
}

func (r *relationalStore) delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&chatmodel.Memory{}).Error
}

func (r *relationalStore) updateAccess(ctx context.Context, id string, accessedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&chatmodel.Memory{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_accessed_at": accessedAt,
			"access_count":     gorm.Expr("access_count + 1"),
		}).Error
}

func (r *relationalStore) byConversation(ctx context.Context, conversationID string) ([]*chatmodel.Memory, error) {
	var memories []*chatmodel.Memory
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND is_active = ?", conversationID, true).
		Order("created_at ASC").
		Find(&memories).Error
	return memories, err
}

func (r *relationalStore) byUserAndPersonality(ctx context.Context, userID, personalityID string) ([]*chatmodel.Memory, error) {
	q := r.db.WithContext(ctx).Where("user_id = ? AND is_active = ?", userID, true)
	if personalityID != "" {
		q = q.Where("personality_id = ?", personalityID)
	}
	var memories []*chatmodel.Memory
	err := q.Order("created_at DESC").Find(&memories).Error
	return memories, err
}

// activeByUser fetches every active memory for a user, used by
// consolidation to find merge/update/supersede candidates without going
// through the ANN index: consolidation runs over recent memories, not a
// similarity search.
func (r *relationalStore) activeByUser(ctx context.Context, userID string, limit int) ([]*chatmodel.Memory, error) {
	var memories []*chatmodel.Memory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&memories).Error
	return memories, err
}
