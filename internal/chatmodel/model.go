// Package chatmodel defines the persisted and in-memory data model for the
// conversational memory engine: users, conversations, messages, memories,
// personality profiles, preferences, emotion records, goals and session
// state.
package chatmodel

import (
	"time"

	"gorm.io/gorm"

	"github.com/kart-io/sentinel-x/pkg/utils/json"
)

// User is the owner of all other user-scoped entities.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ExternalID string `json:"external_id" gorm:"type:varchar(128);uniqueIndex;not null"`
	IsSystem   bool   `json:"is_system" gorm:"default:false"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName pins the explicit table name rather than relying on gorm's
// pluralization defaults.
func (User) TableName() string { return "chat_users" }

// SystemUserExternalID identifies the distinguished system user that owns
// global, read-shared personality profiles.
const SystemUserExternalID = "__system__"

// Conversation belongs to exactly one User.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Title     string    `json:"title" gorm:"type:varchar(255)"`
	Summary   string    `json:"summary" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string { return "chat_conversations" }

// MessageRole enumerates the allowed roles of a Message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message is ordered within a Conversation by CreatedAt, total and monotonic.
type Message struct {
	ID             int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	ConversationID string      `json:"conversation_id" gorm:"type:varchar(36);index;not null"`
	Role           MessageRole `json:"role" gorm:"type:varchar(16);not null"`
	Content        string      `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time   `json:"created_at" gorm:"autoCreateTime;index"`
}

func (Message) TableName() string { return "chat_messages" }

// MemoryCategory enumerates the recognized memory categories.
type MemoryCategory string

const (
	CategoryPersonalFact MemoryCategory = "personal_fact"
	CategoryPreference   MemoryCategory = "preference"
	CategoryGoal         MemoryCategory = "goal"
	CategoryEvent        MemoryCategory = "event"
	CategoryRelationship MemoryCategory = "relationship"
	CategoryChallenge    MemoryCategory = "challenge"
	CategoryAchievement  MemoryCategory = "achievement"
	CategoryKnowledge    MemoryCategory = "knowledge"
	CategoryInstruction  MemoryCategory = "instruction"
	CategoryFact         MemoryCategory = "fact"
	CategoryContext      MemoryCategory = "context"
)

// ImportanceScores holds the six weighted sub-scores plus the aggregate
//. Weights are fixed and exported so the orchestrator and tests
// can recompute the aggregate from the same source of truth.
type ImportanceScores struct {
	EmotionalSignificance float64 `json:"emotional_significance"`
	ExplicitMention       float64 `json:"explicit_mention"`
	Frequency             float64 `json:"frequency"`
	Recency               float64 `json:"recency"`
	Specificity           float64 `json:"specificity"`
	PersonalRelevance     float64 `json:"personal_relevance"`
	Aggregate             float64 `json:"aggregate"`
}

// ImportanceWeights are the fixed weights applied to each importance
// sub-score; they sum to 1.
var ImportanceWeights = struct {
	EmotionalSignificance float64
	ExplicitMention       float64
	Frequency             float64
	Recency               float64
	Specificity           float64
	PersonalRelevance     float64
}{
	EmotionalSignificance: 0.30,
	ExplicitMention:       0.25,
	Frequency:             0.15,
	Recency:               0.10,
	Specificity:           0.10,
	PersonalRelevance:     0.10,
}

// Aggregate computes Σ w_i·s_i and stores it back onto the receiver.
func (s *ImportanceScores) Aggregate_() float64 {
	w := ImportanceWeights
	agg := w.EmotionalSignificance*s.EmotionalSignificance +
		w.ExplicitMention*s.ExplicitMention +
		w.Frequency*s.Frequency +
		w.Recency*s.Recency +
		w.Specificity*s.Specificity +
		w.PersonalRelevance*s.PersonalRelevance
	s.Aggregate = agg
	return agg
}

// RelatedEntities captures entity extraction output.
type RelatedEntities struct {
	People []string `json:"people,omitempty"`
	Places []string `json:"places,omitempty"`
	Topics []string `json:"topics,omitempty"`
	Dates  []string `json:"dates,omitempty"`
}

// EmbeddingDimension is the default fixed embedding length D.
const EmbeddingDimension = 384

// Memory is an atomic, embedded, user-scoped fact derived from dialogue.
type Memory struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string          `json:"user_id" gorm:"type:varchar(36);index;not null"`
	PersonalityID    string          `json:"personality_id" gorm:"type:varchar(36);index"`
	ConversationID   *string         `json:"conversation_id,omitempty" gorm:"type:varchar(36);index"`
	Content          string          `json:"content" gorm:"type:text;not null"`
	Embedding        []float32       `json:"embedding" gorm:"-"`
	EmbeddingJSON    string          `json:"-" gorm:"column:embedding;type:text"`
	Category         MemoryCategory  `json:"category" gorm:"type:varchar(32);index"`
	ImportanceJSON   string          `json:"-" gorm:"column:importance_scores;type:text"`
	Importance       ImportanceScores `json:"importance_scores" gorm:"-"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	LastAccessedAt   time.Time  `json:"last_accessed"`
	AccessCount      int64      `json:"access_count" gorm:"default:0"`
	DecayFactor      float64    `json:"decay_factor" gorm:"default:1"`
	IsActive         bool       `json:"is_active" gorm:"default:true;index"`
	ConsolidatedFrom []string   `json:"consolidated_from,omitempty" gorm:"-"`
	ConsolidatedJSON string     `json:"-" gorm:"column:consolidated_from;type:text"`
	SupersededBy     *string    `json:"superseded_by,omitempty" gorm:"type:varchar(36)"`
	RelatedEntities  RelatedEntities `json:"related_entities" gorm:"-"`
	EntitiesJSON     string          `json:"-" gorm:"column:related_entities;type:text"`

	// VectorIndexID is the auto-assigned id Milvus returned for this
	// memory's embedding row, needed to delete it from the ANN index
	// later since Milvus primary keys are server-assigned, not the
	// memory's own ID.
	VectorIndexID int64 `json:"-" gorm:"column:vector_index_id"`
}

func (Memory) TableName() string { return "chat_memories" }

// BeforeSave serializes the gorm:"-" fields into their JSON side-columns,
// using the same gorm hook pattern applied elsewhere for timestamps, but
// for marshaling instead.
func (m *Memory) BeforeSave(tx *gorm.DB) error {
	embedding, err := json.Marshal(m.Embedding)
	if err != nil {
		return err
	}
	m.EmbeddingJSON = string(embedding)

	importance, err := json.Marshal(m.Importance)
	if err != nil {
		return err
	}
	m.ImportanceJSON = string(importance)

	consolidated, err := json.Marshal(m.ConsolidatedFrom)
	if err != nil {
		return err
	}
	m.ConsolidatedJSON = string(consolidated)

	entities, err := json.Marshal(m.RelatedEntities)
	if err != nil {
		return err
	}
	m.EntitiesJSON = string(entities)

	return nil
}

// AfterFind deserializes the JSON side-columns back into their typed fields.
func (m *Memory) AfterFind(tx *gorm.DB) error {
	if m.EmbeddingJSON != "" {
		if err := json.Unmarshal([]byte(m.EmbeddingJSON), &m.Embedding); err != nil {
			return err
		}
	}
	if m.ImportanceJSON != "" {
		if err := json.Unmarshal([]byte(m.ImportanceJSON), &m.Importance); err != nil {
			return err
		}
	}
	if m.ConsolidatedJSON != "" {
		if err := json.Unmarshal([]byte(m.ConsolidatedJSON), &m.ConsolidatedFrom); err != nil {
			return err
		}
	}
	if m.EntitiesJSON != "" {
		if err := json.Unmarshal([]byte(m.EntitiesJSON), &m.RelatedEntities); err != nil {
			return err
		}
	}
	return nil
}

// PersonalityProfile is at most one per (User), or owned by the system user
// for global, read-shared archetypes.
type PersonalityProfile struct {
	ID                 string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID             string `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Archetype          string `json:"archetype" gorm:"type:varchar(64)"`
	Warmth             int    `json:"warmth" gorm:"default:5"`
	Humor              int    `json:"humor" gorm:"default:5"`
	Directness         int    `json:"directness" gorm:"default:5"`
	Formality          int    `json:"formality" gorm:"default:5"`
	Curiosity          int    `json:"curiosity" gorm:"default:5"`
	Empathy            int    `json:"empathy" gorm:"default:5"`
	Playfulness        int    `json:"playfulness" gorm:"default:5"`
	Assertiveness      int    `json:"assertiveness" gorm:"default:5"`
	UsesEmoji          bool   `json:"uses_emoji"`
	InitiatesTopics    bool   `json:"initiates_topics"`
	GivesAdviceUnasked bool   `json:"gives_advice_unasked"`
	RemembersDetails   bool   `json:"remembers_details"`
	ChallengesUser     bool   `json:"challenges_user"`
	Backstory          string `json:"backstory,omitempty" gorm:"type:text"`
	CustomInstructions string `json:"custom_instructions,omitempty" gorm:"type:text"`
	SpeakingStyle      string `json:"speaking_style,omitempty" gorm:"type:varchar(255)"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PersonalityProfile) TableName() string { return "chat_personality_profiles" }

// Preferences is the recognized set of six communication dimensions
//. A nil pointer field means "no change"/"not set".
type Preferences struct {
	UserID           string  `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	Language         *string `json:"language,omitempty" gorm:"type:varchar(32)"`
	Formality        *string `json:"formality,omitempty" gorm:"type:varchar(32)"`
	Tone             *string `json:"tone,omitempty" gorm:"type:varchar(32)"`
	EmojiUsage       *bool   `json:"emoji_usage,omitempty"`
	ResponseLength   *string `json:"response_length,omitempty" gorm:"type:varchar(32)"`
	ExplanationStyle *string `json:"explanation_style,omitempty" gorm:"type:varchar(32)"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Preferences) TableName() string { return "chat_preferences" }

// EmotionLabel is one of the 12 frozen emotion labels. Frozen here as
// required before any public emotion API ships.
type EmotionLabel string

const (
	EmotionJoy        EmotionLabel = "joy"
	EmotionSadness    EmotionLabel = "sadness"
	EmotionAnger      EmotionLabel = "anger"
	EmotionFear       EmotionLabel = "fear"
	EmotionSurprise   EmotionLabel = "surprise"
	EmotionDisgust    EmotionLabel = "disgust"
	EmotionTrust      EmotionLabel = "trust"
	EmotionAnticipation EmotionLabel = "anticipation"
	EmotionLoneliness EmotionLabel = "loneliness"
	EmotionGratitude  EmotionLabel = "gratitude"
	EmotionPride      EmotionLabel = "pride"
	EmotionNeutral    EmotionLabel = "neutral"
)

// AllEmotionLabels enumerates the closed set, in a stable order.
var AllEmotionLabels = []EmotionLabel{
	EmotionJoy, EmotionSadness, EmotionAnger, EmotionFear, EmotionSurprise,
	EmotionDisgust, EmotionTrust, EmotionAnticipation, EmotionLoneliness,
	EmotionGratitude, EmotionPride, EmotionNeutral,
}

// EmotionIntensity enumerates the three recognized intensity levels.
type EmotionIntensity string

const (
	IntensityLow    EmotionIntensity = "low"
	IntensityMedium EmotionIntensity = "medium"
	IntensityHigh   EmotionIntensity = "high"
)

// EmotionRecord is append-only.
type EmotionRecord struct {
	ID             int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID         string           `json:"user_id" gorm:"type:varchar(36);index;not null"`
	ConversationID string           `json:"conversation_id" gorm:"type:varchar(36);index"`
	Emotion        EmotionLabel     `json:"emotion" gorm:"type:varchar(32)"`
	Confidence     float64          `json:"confidence"`
	Intensity      EmotionIntensity `json:"intensity" gorm:"type:varchar(16)"`
	IndicatorsJSON string           `json:"-" gorm:"column:indicators;type:text"`
	Indicators     []string         `json:"indicators" gorm:"-"`
	Snippet        string           `json:"message_snippet" gorm:"type:varchar(100)"`
	DetectedAt     time.Time        `json:"detected_at" gorm:"autoCreateTime;index"`
}

func (EmotionRecord) TableName() string { return "chat_emotion_records" }

// GoalCategory enumerates the recognized goal categories.
type GoalCategory string

const (
	GoalLearning  GoalCategory = "learning"
	GoalHealth    GoalCategory = "health"
	GoalCareer    GoalCategory = "career"
	GoalFinancial GoalCategory = "financial"
	GoalPersonal  GoalCategory = "personal"
	GoalCreative  GoalCategory = "creative"
	GoalSocial    GoalCategory = "social"
)

// GoalStatus enumerates the recognized goal lifecycle states.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
	GoalAbandoned GoalStatus = "abandoned"
)

// Goal tracks a user's self-reported objective and its progress over time.
type Goal struct {
	ID                string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string       `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Title             string       `json:"title" gorm:"type:varchar(255);not null"`
	Description       string       `json:"description" gorm:"type:text"`
	Category          GoalCategory `json:"category" gorm:"type:varchar(32)"`
	Status            GoalStatus   `json:"status" gorm:"type:varchar(32);index;default:'active'"`
	ProgressPercent   float64      `json:"progress_percentage"`
	TargetDate        *time.Time   `json:"target_date,omitempty"`
	CheckInFrequency  string       `json:"check_in_frequency,omitempty" gorm:"type:varchar(32)"`
	MilestonesJSON    string       `json:"-" gorm:"column:milestones;type:text"`
	Milestones        []string     `json:"milestones,omitempty" gorm:"-"`
	NotesJSON         string       `json:"-" gorm:"column:notes;type:text"`
	Notes             []string     `json:"notes,omitempty" gorm:"-"`
	ObstaclesJSON     string       `json:"-" gorm:"column:obstacles;type:text"`
	Obstacles         []string     `json:"obstacles,omitempty" gorm:"-"`
	MentionCount      int64        `json:"mention_count" gorm:"default:0"`
	CreatedAt         time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Goal) TableName() string { return "chat_goals" }

// GoalProgressType enumerates the recognized progress-log entry types.
type GoalProgressType string

const (
	ProgressMention    GoalProgressType = "mention"
	ProgressUpdate     GoalProgressType = "update"
	ProgressMilestone  GoalProgressType = "milestone"
	ProgressSetback    GoalProgressType = "setback"
	ProgressCompletion GoalProgressType = "completion"
)

// GoalProgressSentiment enumerates the recognized sentiment classifications.
type GoalProgressSentiment string

const (
	SentimentPositive GoalProgressSentiment = "positive"
	SentimentNegative GoalProgressSentiment = "negative"
	SentimentNeutral  GoalProgressSentiment = "neutral"
)

// GoalProgress is an append-only log entry tied to a Goal.
type GoalProgress struct {
	ID              int64                 `json:"id" gorm:"primaryKey;autoIncrement"`
	GoalID          string                `json:"goal_id" gorm:"type:varchar(36);index;not null"`
	Type            GoalProgressType      `json:"type" gorm:"type:varchar(32)"`
	Sentiment       GoalProgressSentiment `json:"sentiment" gorm:"type:varchar(16)"`
	DetectedEmotion *EmotionLabel         `json:"detected_emotion,omitempty" gorm:"type:varchar(32)"`
	ProgressDelta   float64               `json:"progress_delta"`
	Content         string                `json:"content" gorm:"type:text"`
	CreatedAt       time.Time             `json:"created_at" gorm:"autoCreateTime"`
}

func (GoalProgress) TableName() string { return "chat_goal_progress" }

// Route is the conversation's current handling mode.
type Route string

const (
	RouteNormal   Route = "NORMAL"
	RouteExplicit Route = "EXPLICIT"
	RouteFetish   Route = "FETISH"
	RouteRomance  Route = "ROMANCE"
	RouteRefused  Route = "REFUSED"
)

// SessionState is the per (User, Conversation) in-memory/KV routing state
//. Not persisted relationally; lives in the session manager.
type SessionState struct {
	UserID               string    `json:"user_id"`
	ConversationID       string    `json:"conversation_id"`
	Route                Route     `json:"route"`
	RouteLockRemaining   int       `json:"route_lock_remaining"`
	AgeVerified          bool      `json:"age_verified"`
	LastActivity         time.Time `json:"last_activity"`
}

// ClassificationLabel is the output label of the content classifier
//.
type ClassificationLabel string

const (
	LabelSafe                   ClassificationLabel = "SAFE"
	LabelSuggestive             ClassificationLabel = "SUGGESTIVE"
	LabelExplicitConsensualAdult ClassificationLabel = "EXPLICIT_CONSENSUAL_ADULT"
	LabelFetish                 ClassificationLabel = "FETISH"
	LabelMinorRisk               ClassificationLabel = "MINOR_RISK"
	LabelNonconsensual          ClassificationLabel = "NONCONSENSUAL"
	LabelRefused                ClassificationLabel = "REFUSED"
)

// riskRank orders labels strictest-last,
var riskRank = map[ClassificationLabel]int{
	LabelSafe:                    0,
	LabelSuggestive:              1,
	LabelExplicitConsensualAdult: 2,
	LabelFetish:                  3,
	LabelNonconsensual:           4,
	LabelMinorRisk:               4,
	LabelRefused:                 5,
}

// RiskRank returns the relative risk ordering of a label. Higher is stricter.
func RiskRank(l ClassificationLabel) int { return riskRank[l] }

// AuditRecord is an append-only classification audit entry,
// stored in the document store (MongoDB) rather than the relational store.
type AuditRecord struct {
	RequestID     string                 `bson:"request_id" json:"request_id"`
	UserID        string                 `bson:"user_id" json:"user_id"`
	TextHash      string                 `bson:"text_hash" json:"text_hash"`
	Label         ClassificationLabel    `bson:"label" json:"label"`
	Confidence    float64                `bson:"confidence" json:"confidence"`
	Reasoning     string                 `bson:"reasoning" json:"reasoning"`
	LayerResults  map[string]any         `bson:"layer_results" json:"layer_results"`
	CreatedAt     time.Time              `bson:"created_at" json:"created_at"`
}
