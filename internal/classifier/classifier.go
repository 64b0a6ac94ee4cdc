// Package classifier is the Content Classifier component: a
// four-layer cascade (normalization, hard-stop rules, weighted pattern
// scorer, optional LLM judge) producing a label, confidence, reasoning, and
// per-layer results, with every outcome written to an append-only audit
// log and L4 results cached by normalized text.
package classifier

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	"github.com/kart-io/sentinel-x/pkg/llm"
)

// ambiguousBandLow/High bound the L3 confidence range treated as ambiguous
// even when it clears τ's "scores lie in a small ambiguous
// band" L4 trigger.
const (
	ambiguousBandLow  = 0.55
	ambiguousBandHigh = 0.75

	minHeterogeneousSignals = 3

	defaultLRUCapacity = 2048
)

// LayerResults captures what each layer produced, for audit and for the
// `classification` stream event's layer_results field.
type LayerResults struct {
	HardStop hardStopResult `json:"hard_stop"`
	Scorer   scoreResult    `json:"scorer"`
	Judge    *judgeResult   `json:"judge,omitempty"`
}

// Result is the classifier's output.
type Result struct {
	Label        chatmodel.ClassificationLabel `json:"label"`
	Confidence   float64                        `json:"confidence"`
	Reasoning    string                          `json:"reasoning"`
	LayerResults LayerResults                    `json:"layer_results"`
}

// Classifier runs the four-layer cascade.
type Classifier struct {
	judge     *judge
	cache     *lruCache
	audit     *auditLog
	threshold float64 // τ
	l4Enabled bool
}

// Option configures a Classifier at construction.
type Option func(*Classifier)

// WithThreshold overrides τ, the default 0.7 L4 trigger floor.
func WithThreshold(tau float64) Option {
	return func(c *Classifier) { c.threshold = tau }
}

// WithL4Enabled toggles the optional LLM judge layer.
func WithL4Enabled(enabled bool) Option {
	return func(c *Classifier) { c.l4Enabled = enabled }
}

// WithLRUCapacity overrides the L4 result cache size.
func WithLRUCapacity(capacity int) Option {
	return func(c *Classifier) { c.cache = newLRUCache(capacity) }
}

// New builds a Classifier. judgeProvider may be nil, in which case L4 is
// always skipped regardless of WithL4Enabled. auditDB may be nil in tests,
// in which case audit records are silently dropped.
func New(judgeProvider llm.ChatProvider, auditDB *mongo.Database, opts ...Option) *Classifier {
	c := &Classifier{
		judge:     newJudge(judgeProvider),
		cache:     newLRUCache(defaultLRUCapacity),
		threshold: 0.7,
		l4Enabled: true,
	}
	if auditDB != nil {
		c.audit = newAuditLog(auditDB)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify runs the cascade on raw text and writes an audit record before
// returning. requestID and userID are for the audit record only.
func (c *Classifier) Classify(ctx context.Context, requestID, userID, text string) Result {
	normalized := Normalize(text)

	if hs := runHardStop(normalized); hs.Matched {
		result := Result{
			Label:        hs.Label,
			Confidence:   1.0,
			Reasoning:    "hard-stop rule matched: " + hs.Pattern,
			LayerResults: LayerResults{HardStop: hs},
		}
		c.recordAudit(ctx, requestID, userID, normalized, result)
		return result
	}

	l3 := runScorer(normalized)
	result := Result{
		Label:      l3.Label,
		Confidence: l3.Confidence,
		Reasoning:  "pattern scorer",
		LayerResults: LayerResults{
			Scorer: l3,
		},
	}

	if c.shouldInvokeJudge(l3) {
		jr, ok := c.runJudge(ctx, normalized)
		if ok {
			result.LayerResults.Judge = &jr
			result = c.blend(l3, jr, result.LayerResults)
		}
	}

	c.recordAudit(ctx, requestID, userID, normalized, result)
	return result
}

func (c *Classifier) shouldInvokeJudge(l3 scoreResult) bool {
	if !c.l4Enabled {
		return false
	}
	if l3.Confidence < c.threshold {
		return true
	}
	if len(l3.Fired) >= minHeterogeneousSignals {
		return true
	}
	if l3.Confidence >= ambiguousBandLow && l3.Confidence <= ambiguousBandHigh {
		return true
	}
	return false
}

func (c *Classifier) runJudge(ctx context.Context, normalized string) (judgeResult, bool) {
	if cached, ok := c.cache.get(normalized); ok {
		return cached, true
	}
	jr, err := c.judge.classify(ctx, normalized)
	if err != nil {
		return judgeResult{}, false
	}
	c.cache.put(normalized, jr)
	return jr, true
}

// blend applies the deterministic L3/L4 combining rules.
func (c *Classifier) blend(l3 scoreResult, jr judgeResult, layers LayerResults) Result {
	switch {
	case jr.Confidence >= 0.85:
		return Result{Label: jr.Label, Confidence: jr.Confidence, Reasoning: jr.Reasoning, LayerResults: layers}

	case jr.Label == l3.Label:
		conf := l3.Confidence + 0.2
		if conf > 1.0 {
			conf = 1.0
		}
		return Result{Label: l3.Label, Confidence: conf, Reasoning: "l3/l4 agreement", LayerResults: layers}

	case chatmodel.RiskRank(jr.Label) > chatmodel.RiskRank(l3.Label):
		return Result{Label: jr.Label, Confidence: jr.Confidence, Reasoning: "l4 safety override: " + jr.Reasoning, LayerResults: layers}

	default:
		return Result{Label: l3.Label, Confidence: l3.Confidence, Reasoning: "pattern scorer (l4 disagreement discarded)", LayerResults: layers}
	}
}

func (c *Classifier) recordAudit(ctx context.Context, requestID, userID, normalized string, result Result) {
	if c.audit == nil {
		return
	}
	c.audit.record(ctx, requestID, userID, normalized, result)
}
