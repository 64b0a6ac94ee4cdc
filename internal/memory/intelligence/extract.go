package intelligence

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/kart-io/logger"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	"github.com/kart-io/sentinel-x/internal/memory/embed"
	"github.com/kart-io/sentinel-x/internal/memory/store"
)

// sentenceSplit is a plain-text sentence boundary. Good enough for
// candidate extraction; no attempt at abbreviation handling.
var sentenceSplit = regexp.MustCompile(`[.!?]+\s+`)

// consolidationTopK is how many existing memories Consolidate compares a
// candidate against.
const consolidationTopK = 5

// consolidationSimilarityFloor is the minimum cosine similarity for a
// candidate to be compared against an existing memory at all.
const consolidationSimilarityFloor = 0.85

// Extractor is the background extraction-and-consolidation half of Memory
// Intelligence. It runs after the orchestrator emits `done`.
type Extractor struct {
	categorizer *Categorizer
	embedder    *embed.Adapter
	store       *store.Store

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewExtractor builds an Extractor.
func NewExtractor(categorizer *Categorizer, embedder *embed.Adapter, st *store.Store) *Extractor {
	return &Extractor{
		categorizer: categorizer,
		embedder:    embedder,
		store:       st,
		userLocks:   make(map[string]*sync.Mutex),
	}
}

func (e *Extractor) lockFor(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.userLocks[userID] = lock
	}
	return lock
}

// Extract scans the turn's user and assistant messages for candidate
// memories, then runs each one through consolidation. Serialized per user
// by a dedicated mutex so concurrent turns from the same user never race on
// the same candidate pool, guarded by a per-user mutex.
func (e *Extractor) Extract(ctx context.Context, userID, personalityID, conversationID string, turn []chatmodel.Message, emotion *chatmodel.EmotionRecord) ([]string, error) {
	lock := e.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	var candidateIDs []string
	for _, msg := range turn {
		for _, text := range candidateSentences(msg.Content) {
			id, err := e.processCandidate(ctx, userID, personalityID, conversationID, text, emotion)
			if err != nil {
				logger.Warnw("memory extraction candidate failed", "user_id", userID, "error", err.Error())
				continue
			}
			if id != "" {
				candidateIDs = append(candidateIDs, id)
			}
		}
	}
	return candidateIDs, nil
}

func candidateSentences(text string) []string {
	var out []string
	for _, sentence := range sentenceSplit.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if isCandidateWorthy(sentence) {
			out = append(out, sentence)
		}
	}
	return out
}

func isCandidateWorthy(sentence string) bool {
	if explicitMentionPattern.MatchString(sentence) {
		return true
	}
	for _, cp := range categoryPatterns {
		if cp.pattern.MatchString(sentence) {
			return true
		}
	}
	return false
}

// processCandidate categorizes, embeds, importance-scores, and consolidates
// one candidate sentence, returning the id of the memory row it affected
// (new or existing).
func (e *Extractor) processCandidate(ctx context.Context, userID, personalityID, conversationID, text string, emotion *chatmodel.EmotionRecord) (string, error) {
	category := e.categorizer.Categorize(ctx, text)
	entities := ExtractEntities(text)

	embedding, err := e.embedder.Embed(ctx, text)
	if err != nil {
		if embed.IsUpstreamUnavailable(err) {
			return "", nil // degrade gracefully: skip this turn's extraction
		}
		return "", fmt.Errorf("embed candidate: %w", err)
	}

	similar, err := e.store.SearchSimilar(ctx, userID, personalityID, embedding, consolidationTopK, consolidationSimilarityFloor, store.DefaultFilters())
	if err != nil {
		return "", fmt.Errorf("search similar memories for consolidation: %w", err)
	}

	importance := ScoreImportance(ImportanceInputs{
		Text:              text,
		Emotion:           emotion,
		SimilarPriorCount: len(similar),
		AgeDays:           0,
		Entities:          entities,
	})

	mergeTargets := make([]store.ScoredMemory, 0, len(similar))
	for _, s := range similar {
		if s.Similarity >= 0.92 && s.Memory.Category == category {
			mergeTargets = append(mergeTargets, s)
		}
	}
	if len(mergeTargets) > 0 {
		return e.merge(ctx, userID, personalityID, conversationID, text, category, entities, importance, mergeTargets)
	}

	if len(similar) > 0 {
		best := similar[0]
		switch DecideStrategy(text, best.Memory, best.Similarity, category) {
		case StrategyUpdate:
			return best.Memory.ID, e.update(ctx, best.Memory, text, entities, importance)
		case StrategySupersede:
			return e.supersede(ctx, userID, personalityID, conversationID, text, category, entities, importance, best.Memory)
		}
	}

	return e.insert(ctx, userID, personalityID, conversationID, text, category, entities, embedding, importance)
}

func (e *Extractor) insert(ctx context.Context, userID, personalityID, conversationID, text string, category chatmodel.MemoryCategory, entities chatmodel.RelatedEntities, embedding []float32, importance chatmodel.ImportanceScores) (string, error) {
	m := &chatmodel.Memory{
		UserID:          userID,
		PersonalityID:   personalityID,
		ConversationID:  optionalString(conversationID),
		Content:         text,
		Embedding:       embedding,
		Category:        category,
		Importance:      importance,
		RelatedEntities: entities,
	}
	return e.store.Store(ctx, m)
}

func (e *Extractor) update(ctx context.Context, existing *chatmodel.Memory, text string, entities chatmodel.RelatedEntities, importance chatmodel.ImportanceScores) error {
	existing.Content = text
	existing.RelatedEntities = mergeEntities(existing.RelatedEntities, entities)
	existing.Importance = maxImportance(existing.Importance, importance)
	return e.store.Update(ctx, existing)
}

func (e *Extractor) supersede(ctx context.Context, userID, personalityID, conversationID, text string, category chatmodel.MemoryCategory, entities chatmodel.RelatedEntities, importance chatmodel.ImportanceScores, old *chatmodel.Memory) (string, error) {
	embedding, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embed superseding candidate: %w", err)
	}
	newID, err := e.insert(ctx, userID, personalityID, conversationID, text, category, entities, embedding, importance)
	if err != nil {
		return "", err
	}
	old.SupersededBy = &newID
	old.IsActive = false
	if err := e.store.Update(ctx, old); err != nil {
		return "", fmt.Errorf("mark superseded memory: %w", err)
	}
	return newID, nil
}

func (e *Extractor) merge(ctx context.Context, userID, personalityID, conversationID, text string, category chatmodel.MemoryCategory, entities chatmodel.RelatedEntities, importance chatmodel.ImportanceScores, targets []store.ScoredMemory) (string, error) {
	mergedText := text
	mergedEntities := entities
	mergedImportance := importance
	consolidatedFrom := make([]string, 0, len(targets))

	for _, t := range targets {
		mergedText = mergeText(t.Memory.Content, mergedText)
		mergedEntities = mergeEntities(mergedEntities, t.Memory.RelatedEntities)
		mergedImportance = maxImportance(mergedImportance, t.Memory.Importance)
		consolidatedFrom = append(consolidatedFrom, t.Memory.ID)
	}

	embedding, err := e.embedder.Embed(ctx, mergedText)
	if err != nil {
		return "", fmt.Errorf("embed merged memory: %w", err)
	}

	newMemory := &chatmodel.Memory{
		UserID:           userID,
		PersonalityID:    personalityID,
		ConversationID:   optionalString(conversationID),
		Content:          mergedText,
		Embedding:        embedding,
		Category:         category,
		Importance:       mergedImportance,
		RelatedEntities:  mergedEntities,
		ConsolidatedFrom: consolidatedFrom,
	}
	newID, err := e.store.Store(ctx, newMemory)
	if err != nil {
		return "", fmt.Errorf("persist merged memory: %w", err)
	}

	for _, t := range targets {
		if err := e.store.Deactivate(ctx, t.Memory.ID); err != nil {
			logger.Warnw("failed to deactivate merged memory", "memory_id", t.Memory.ID, "error", err.Error())
		}
	}
	return newID, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
