// Package store is the Vector Memory Store component: Postgres holds the
// relational source of truth for a memory (content, scores, lifecycle
// flags), Milvus holds an approximate nearest-neighbor index over its
// embedding. SearchSimilar queries the index for candidates and hydrates
// them from Postgres before returning, so a caller only ever sees
// chatmodel.Memory values, never a Milvus row.
package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	"github.com/kart-io/sentinel-x/pkg/component/milvus"
)

// ErrDimensionMismatch is returned by Store when the memory's embedding
// length does not match the index's configured dimension.
type ErrDimensionMismatch struct {
	Got, Want int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("embedding has dimension %d, store expects %d", e.Got, e.Want)
}

// Filters narrows SearchSimilar's candidate set.
type Filters struct {
	Categories   []chatmodel.MemoryCategory
	MinImportance float64
	ActiveOnly   bool
}

// DefaultFilters matches the default of active_only=true with no
// other restriction.
func DefaultFilters() Filters {
	return Filters{ActiveOnly: true}
}

// ScoredMemory pairs a hydrated memory with the raw cosine similarity the
// index returned for it. Combining this into a final rank score is the
// orchestrator's job, not the store's.
type ScoredMemory struct {
	Memory     *chatmodel.Memory
	Similarity float32
}

// Store is the Vector Memory Store component.
type Store struct {
	index     *memoryIndex
	rel       *relationalStore
	dimension int
	halfLife  time.Duration
	idgen     func() string
}

// New builds a Store. idgen mints new memory IDs (the caller supplies a
// ULID/UUID generator so the store stays free of an identity-generation
// dependency of its own).
func New(db *gorm.DB, milvusClient *milvus.Client, dimension int, halfLife time.Duration, idgen func() string) *Store {
	return &Store{
		index:     newMemoryIndex(milvusClient),
		rel:       newRelationalStore(db),
		dimension: dimension,
		halfLife:  halfLife,
		idgen:     idgen,
	}
}

// EnsureSchema creates the backing Milvus collection if it does not already
// exist. Called once at startup: there is no separate migrate step for
// Milvus, but the ANN index needs a collection before first use.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.index.ensureCollection(ctx, s.dimension)
}

// Store persists a new memory: relationally first (so a failed vector
// insert never leaves an orphaned embedding), then indexes its embedding.
func (s *Store) Store(ctx context.Context, m *chatmodel.Memory) (string, error) {
	if len(m.Embedding) != s.dimension {
		return "", &ErrDimensionMismatch{Got: len(m.Embedding), Want: s.dimension}
	}
	if m.ID == "" {
		m.ID = s.idgen()
	}
	if m.DecayFactor == 0 {
		m.DecayFactor = 1.0
	}
	if m.LastAccessedAt.IsZero() {
		m.LastAccessedAt = time.Now()
	}
	m.IsActive = true
	m.Importance.Aggregate_()

	if err := s.rel.create(ctx, m); err != nil {
		return "", fmt.Errorf("persist memory: %w", err)
	}

	vectorID, err := s.index.insert(ctx, m.ID, m.UserID, m.PersonalityID, string(m.Category), m.Embedding)
	if err != nil {
		// Relational row already exists; leave it active. A later
		// reindex pass (not yet built) can pick up rows whose
		// vector_index_id is unset.
		return m.ID, fmt.Errorf("index memory embedding: %w", err)
	}
	m.VectorIndexID = vectorID
	if err := s.rel.update(ctx, m); err != nil {
		return m.ID, fmt.Errorf("persist vector index id: %w", err)
	}

	return m.ID, nil
}

// SearchSimilar scores candidates from the ANN index, then hydrates and
// re-filters them against Postgres (category/importance/active_only),
// since the index itself only understands user_id/personality_id/category.
func (s *Store) SearchSimilar(ctx context.Context, userID, personalityID string, queryVector []float32, k int, minSimilarity float32, filters Filters) ([]ScoredMemory, error) {
	if len(queryVector) != s.dimension {
		return nil, &ErrDimensionMismatch{Got: len(queryVector), Want: s.dimension}
	}

	// Over-fetch from the index since post-hydration filters (importance,
	// category, active_only) may drop candidates the ANN search can't see.
	candidates, err := s.index.search(ctx, userID, personalityID, queryVector, k*4)
	if err != nil {
		return nil, fmt.Errorf("search memory index: %w", err)
	}

	ids := make([]string, 0, len(candidates))
	scoreByID := make(map[string]float32, len(candidates))
	for _, c := range candidates {
		if c.Score < minSimilarity {
			continue
		}
		ids = append(ids, c.MemoryID)
		scoreByID[c.MemoryID] = c.Score
	}
	if len(ids) == 0 {
		return nil, nil
	}

	memories, err := s.rel.getMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate memory candidates: %w", err)
	}

	categorySet := make(map[chatmodel.MemoryCategory]bool, len(filters.Categories))
	for _, c := range filters.Categories {
		categorySet[c] = true
	}

	out := make([]ScoredMemory, 0, len(memories))
	for _, m := range memories {
		if filters.ActiveOnly && !m.IsActive {
			continue
		}
		if len(categorySet) > 0 && !categorySet[m.Category] {
			continue
		}
		if m.Importance.Aggregate < filters.MinImportance {
			continue
		}
		out = append(out, ScoredMemory{Memory: m, Similarity: scoreByID[m.ID]})
	}

	if len(out) > k {
		out = rankBySimilarityThenRecency(out)[:k]
	} else {
		out = rankBySimilarityThenRecency(out)
	}
	return out, nil
}

func rankBySimilarityThenRecency(in []ScoredMemory) []ScoredMemory {
	out := make([]ScoredMemory, len(in))
	copy(out, in)
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && less(out[j], out[j-1]) {
			out[j], out[j-1] = out[j-1], out[j]
			j--
		}
	}
	return out
}

func less(a, b ScoredMemory) bool {
	if a.Similarity != b.Similarity {
		return a.Similarity > b.Similarity
	}
	return a.Memory.UpdatedAt.After(b.Memory.UpdatedAt)
}

// Decay computes 0.5^(age_days/halfLife_days), clamped to [0.05, 1.0]
//.
func Decay(createdAt time.Time, halfLife time.Duration) float64 {
	ageDays := time.Since(createdAt).Hours() / 24
	halfLifeDays := halfLife.Hours() / 24
	if halfLifeDays <= 0 {
		return 1.0
	}
	d := math.Pow(0.5, ageDays/halfLifeDays)
	if d < 0.05 {
		return 0.05
	}
	if d > 1.0 {
		return 1.0
	}
	return d
}

// UpdateAccess increments access_count, refreshes last_accessed_at, and
// recomputes decay_factor from the memory's age.
func (s *Store) UpdateAccess(ctx context.Context, id string) error {
	m, err := s.rel.get(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now()
	if err := s.rel.updateAccess(ctx, id, now); err != nil {
		return err
	}
	m.DecayFactor = Decay(m.CreatedAt, s.halfLife)
	return s.rel.update(ctx, m)
}

// Update persists changes to an existing memory's relational row. The
// embedding is intentionally left untouched — indexing a new embedding
// happens by re-Store-ing, since Milvus has no update-in-place primitive
// for a FloatVector column.
func (s *Store) Update(ctx context.Context, m *chatmodel.Memory) error {
	m.Importance.Aggregate_()
	return s.rel.update(ctx, m)
}

// Deactivate soft-disables a memory without deleting its row or index
// entry, so it stops surfacing in SearchSimilar but stays available for
// audit and supersession chains.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	return s.rel.deactivate(ctx, id)
}

// Delete removes a memory's relational row and its vector index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	m, err := s.rel.get(ctx, id)
	if err != nil {
		return err
	}
	if m.VectorIndexID != 0 {
		if err := s.index.deleteByMilvusIDs(ctx, []int64{m.VectorIndexID}); err != nil {
			return fmt.Errorf("delete vector index entry: %w", err)
		}
	}
	return s.rel.delete(ctx, id)
}

// GetByConversation returns every active memory linked to a specific
// conversation, ordered by creation time.
func (s *Store) GetByConversation(ctx context.Context, conversationID string) ([]*chatmodel.Memory, error) {
	return s.rel.byConversation(ctx, conversationID)
}

// GetByUserAndPersonality returns every active memory for a user, narrowed
// to a personality when one is supplied.
func (s *Store) GetByUserAndPersonality(ctx context.Context, userID, personalityID string) ([]*chatmodel.Memory, error) {
	return s.rel.byUserAndPersonality(ctx, userID, personalityID)
}

// ActiveForConsolidation returns the most recent active memories for a
// user, the candidate pool Memory Intelligence scans for merge/update/
// supersede targets.
func (s *Store) ActiveForConsolidation(ctx context.Context, userID string, limit int) ([]*chatmodel.Memory, error) {
	return s.rel.activeByUser(ctx, userID, limit)
}
