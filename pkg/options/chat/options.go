// Package chat provides the conversational memory engine's configuration
// options: every tunable threshold (buffer size, retrieval K,
// classifier confidence floor, route lock length, eviction windows, memory
// half-life, similarity floors, rate limit) is configurable via config
// file, environment variable, or flag, following the project's
// pkg/options/* pattern.
package chat

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

const (
	// DefaultBufferSize is M, the short-term buffer's message cap per
	// conversation.
	DefaultBufferSize = 10

	// DefaultRetrievalK is K, the number of memories retrieved per turn.
	DefaultRetrievalK = 5

	// DefaultClassifierThreshold is τ, the L3 confidence floor below which
	// the L4 LLM judge is invoked.
	DefaultClassifierThreshold = 0.7

	// DefaultRouteLockTurns is N, the number of turns a route stays locked
	// after an EXPLICIT/FETISH classification with age_verified=true.
	DefaultRouteLockTurns = 5

	// DefaultIdleTimeout is T_idle, after which an idle short-term buffer
	// is eligible for cleanup.
	DefaultIdleTimeout = 30 * time.Minute

	// DefaultSessionTimeout is T_session, after which an idle session is
	// evicted.
	DefaultSessionTimeout = 24 * time.Hour

	// DefaultMemoryHalfLife is T_half, the memory decay half-life.
	DefaultMemoryHalfLife = 30 * 24 * time.Hour

	// DefaultConsolidationSimilarityFloor is the minimum cosine similarity
	// for a candidate memory to even be considered against an existing one
	// during consolidation.
	DefaultConsolidationSimilarityFloor = 0.85

	// DefaultMergeSimilarityFloor triggers the merge strategy.
	DefaultMergeSimilarityFloor = 0.92

	// DefaultRetrievalSimilarityFloor is the minimum cosine similarity
	// returned by SearchSimilar.
	DefaultRetrievalSimilarityFloor = 0.0

	// DefaultRateLimitPerMinute is the per-user token-bucket rate limit.
	DefaultRateLimitPerMinute = 30

	// DefaultEmbeddingDimension is D.
	DefaultEmbeddingDimension = 384

	// DefaultClassificationDeadline bounds classification+routing.
	DefaultClassificationDeadline = 2 * time.Second

	// DefaultFanOutDeadline bounds the fan-out stage.
	DefaultFanOutDeadline = 5 * time.Second

	// DefaultFirstChunkDeadline bounds the whole turn until the first chunk.
	DefaultFirstChunkDeadline = 15 * time.Second
)

// Options holds every tunable named in the configuration surface.
type Options struct {
	// BufferSize is M.
	BufferSize int `json:"buffer-size" mapstructure:"buffer-size"`

	// RetrievalK is K.
	RetrievalK int `json:"retrieval-k" mapstructure:"retrieval-k"`

	// ClassifierThreshold is τ.
	ClassifierThreshold float64 `json:"classifier-threshold" mapstructure:"classifier-threshold"`

	// ClassifierL4Enabled toggles the optional LLM judge layer.
	ClassifierL4Enabled bool `json:"classifier-l4-enabled" mapstructure:"classifier-l4-enabled"`

	// RouteLockTurns is N.
	RouteLockTurns int `json:"route-lock-turns" mapstructure:"route-lock-turns"`

	// IdleTimeout is T_idle.
	IdleTimeout time.Duration `json:"idle-timeout" mapstructure:"idle-timeout"`

	// SessionTimeout is T_session.
	SessionTimeout time.Duration `json:"session-timeout" mapstructure:"session-timeout"`

	// MemoryHalfLife is T_half.
	MemoryHalfLife time.Duration `json:"memory-half-life" mapstructure:"memory-half-life"`

	// ConsolidationSimilarityFloor gates candidate comparison.
	ConsolidationSimilarityFloor float64 `json:"consolidation-similarity-floor" mapstructure:"consolidation-similarity-floor"`

	// MergeSimilarityFloor gates the merge strategy.
	MergeSimilarityFloor float64 `json:"merge-similarity-floor" mapstructure:"merge-similarity-floor"`

	// RetrievalSimilarityFloor is the minimum similarity SearchSimilar returns.
	RetrievalSimilarityFloor float64 `json:"retrieval-similarity-floor" mapstructure:"retrieval-similarity-floor"`

	// RateLimitPerMinute is the per-user token-bucket rate.
	RateLimitPerMinute int `json:"rate-limit-per-minute" mapstructure:"rate-limit-per-minute"`

	// EmbeddingDimension is D.
	EmbeddingDimension int `json:"embedding-dimension" mapstructure:"embedding-dimension"`

	// ClassificationDeadline bounds classification+routing.
	ClassificationDeadline time.Duration `json:"classification-deadline" mapstructure:"classification-deadline"`

	// FanOutDeadline bounds the fan-out stage.
	FanOutDeadline time.Duration `json:"fan-out-deadline" mapstructure:"fan-out-deadline"`

	// FirstChunkDeadline bounds the turn until the first chunk.
	FirstChunkDeadline time.Duration `json:"first-chunk-deadline" mapstructure:"first-chunk-deadline"`

	// DevUserIDHeaderEnabled allows the development-only user-id header
	// credential. Must be false in production.
	DevUserIDHeaderEnabled bool `json:"dev-user-id-header-enabled" mapstructure:"dev-user-id-header-enabled"`

	// AllowedOrigins is the CORS allow-list; must be non-wildcard in
	// production.
	AllowedOrigins []string `json:"allowed-origins" mapstructure:"allowed-origins"`
}

// NewOptions returns Options populated with every tunable's default value.
func NewOptions() *Options {
	return &Options{
		BufferSize:                   DefaultBufferSize,
		RetrievalK:                   DefaultRetrievalK,
		ClassifierThreshold:          DefaultClassifierThreshold,
		ClassifierL4Enabled:          true,
		RouteLockTurns:               DefaultRouteLockTurns,
		IdleTimeout:                  DefaultIdleTimeout,
		SessionTimeout:               DefaultSessionTimeout,
		MemoryHalfLife:               DefaultMemoryHalfLife,
		ConsolidationSimilarityFloor: DefaultConsolidationSimilarityFloor,
		MergeSimilarityFloor:         DefaultMergeSimilarityFloor,
		RetrievalSimilarityFloor:     DefaultRetrievalSimilarityFloor,
		RateLimitPerMinute:           DefaultRateLimitPerMinute,
		EmbeddingDimension:           DefaultEmbeddingDimension,
		ClassificationDeadline:       DefaultClassificationDeadline,
		FanOutDeadline:               DefaultFanOutDeadline,
		FirstChunkDeadline:           DefaultFirstChunkDeadline,
		DevUserIDHeaderEnabled:       false,
		AllowedOrigins:               []string{},
	}
}

// Validate enforces the mandatory production checks (§6) plus basic
// sanity bounds on every threshold.
func (o *Options) Validate() error {
	if o.BufferSize <= 0 {
		return fmt.Errorf("buffer-size must be positive, got: %d", o.BufferSize)
	}
	if o.RetrievalK <= 0 {
		return fmt.Errorf("retrieval-k must be positive, got: %d", o.RetrievalK)
	}
	if o.ClassifierThreshold < 0 || o.ClassifierThreshold > 1 {
		return fmt.Errorf("classifier-threshold must be in [0,1], got: %v", o.ClassifierThreshold)
	}
	if o.RouteLockTurns < 0 {
		return fmt.Errorf("route-lock-turns must be >= 0, got: %d", o.RouteLockTurns)
	}
	if o.EmbeddingDimension <= 0 {
		return fmt.Errorf("embedding-dimension must be positive, got: %d", o.EmbeddingDimension)
	}
	for _, origin := range o.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("allowed-origins must not contain the wildcard '*' in production")
		}
	}
	return nil
}

// AddFlags adds flags for chat engine options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.BufferSize, "chat.buffer-size", o.BufferSize,
		"Short-term buffer size per conversation (M)")
	fs.IntVar(&o.RetrievalK, "chat.retrieval-k", o.RetrievalK,
		"Number of memories retrieved per turn (K)")
	fs.Float64Var(&o.ClassifierThreshold, "chat.classifier-threshold", o.ClassifierThreshold,
		"L3 confidence floor below which the L4 judge is invoked (tau)")
	fs.BoolVar(&o.ClassifierL4Enabled, "chat.classifier-l4-enabled", o.ClassifierL4Enabled,
		"Enable the optional LLM judge classifier layer")
	fs.IntVar(&o.RouteLockTurns, "chat.route-lock-turns", o.RouteLockTurns,
		"Turns a route stays locked after an explicit classification (N)")
	fs.DurationVar(&o.IdleTimeout, "chat.idle-timeout", o.IdleTimeout,
		"Idle duration after which a short-term buffer is cleaned up")
	fs.DurationVar(&o.SessionTimeout, "chat.session-timeout", o.SessionTimeout,
		"Idle duration after which a session is evicted")
	fs.DurationVar(&o.MemoryHalfLife, "chat.memory-half-life", o.MemoryHalfLife,
		"Memory decay half-life")
	fs.Float64Var(&o.ConsolidationSimilarityFloor, "chat.consolidation-similarity-floor", o.ConsolidationSimilarityFloor,
		"Minimum cosine similarity considered during consolidation")
	fs.Float64Var(&o.MergeSimilarityFloor, "chat.merge-similarity-floor", o.MergeSimilarityFloor,
		"Minimum cosine similarity that triggers the merge strategy")
	fs.IntVar(&o.RateLimitPerMinute, "chat.rate-limit-per-minute", o.RateLimitPerMinute,
		"Per-user token-bucket rate limit")
	fs.IntVar(&o.EmbeddingDimension, "chat.embedding-dimension", o.EmbeddingDimension,
		"Fixed embedding vector dimension (D)")
	fs.BoolVar(&o.DevUserIDHeaderEnabled, "chat.dev-user-id-header-enabled", o.DevUserIDHeaderEnabled,
		"Accept the development-only user-id header credential")
	fs.StringSliceVar(&o.AllowedOrigins, "chat.allowed-origins", o.AllowedOrigins,
		"Allowed CORS origins (must not contain '*' in production)")
}
