// Package userstate is the User State Services component:
// preferences, personality profile resolution, emotion detection and
// history, and goal detection/progress tracking.
package userstate

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

// Store is the Postgres CRUD layer backing all four User State Services
// sub-services, following this codebase's thin-wrapper-over-gorm.DB shape.
type Store struct {
	db    *gorm.DB
	idgen func() string
}

// NewStore builds a Store. idgen mints ids for personality profiles and
// goals (Preferences and EmotionRecord/GoalProgress use natural or
// auto-increment keys).
func NewStore(db *gorm.DB, idgen func() string) *Store {
	return &Store{db: db, idgen: idgen}
}

// --- Preferences ---

func (s *Store) GetPreferences(ctx context.Context, userID string) (*chatmodel.Preferences, error) {
	var p chatmodel.Preferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return &chatmodel.Preferences{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SavePreferences(ctx context.Context, p *chatmodel.Preferences) error {
	return s.db.WithContext(ctx).Save(p).Error
}

// --- Personality ---

func (s *Store) GetPersonality(ctx context.Context, id string) (*chatmodel.PersonalityProfile, error) {
	var p chatmodel.PersonalityProfile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetUserOwnedPersonality(ctx context.Context, userID string) (*chatmodel.PersonalityProfile, error) {
	var p chatmodel.PersonalityProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetSystemPersonalityByArchetype(ctx context.Context, systemUserID, archetype string) (*chatmodel.PersonalityProfile, error) {
	var p chatmodel.PersonalityProfile
	err := s.db.WithContext(ctx).Where("user_id = ? AND archetype = ?", systemUserID, archetype).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SavePersonality(ctx context.Context, p *chatmodel.PersonalityProfile) error {
	if p.ID == "" {
		p.ID = s.idgen()
	}
	return s.db.WithContext(ctx).Save(p).Error
}

// --- Emotion ---

func (s *Store) AppendEmotion(ctx context.Context, r *chatmodel.EmotionRecord) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) RecentEmotions(ctx context.Context, userID string, since time.Time, limit int) ([]*chatmodel.EmotionRecord, error) {
	var records []*chatmodel.EmotionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND detected_at >= ?", userID, since).
		Order("detected_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// --- Goals ---

func (s *Store) CreateGoal(ctx context.Context, g *chatmodel.Goal) error {
	if g.ID == "" {
		g.ID = s.idgen()
	}
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *Store) UpdateGoal(ctx context.Context, g *chatmodel.Goal) error {
	return s.db.WithContext(ctx).Save(g).Error
}

func (s *Store) GetGoal(ctx context.Context, id string) (*chatmodel.Goal, error) {
	var g chatmodel.Goal
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) ActiveGoals(ctx context.Context, userID string) ([]*chatmodel.Goal, error) {
	var goals []*chatmodel.Goal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, chatmodel.GoalActive).
		Order("created_at DESC").
		Find(&goals).Error
	return goals, err
}

func (s *Store) AppendGoalProgress(ctx context.Context, p *chatmodel.GoalProgress) error {
	return s.db.WithContext(ctx).Create(p).Error
}
