// Package streamevent is the Stream Protocol component: a
// sequence of typed, line-delimited JSON events describing one turn's
// progress, and a gin transport adapter that writes them as they occur.
package streamevent

import (
	"github.com/kart-io/sentinel-x/internal/chatmodel"
	"github.com/kart-io/sentinel-x/internal/classifier"
)

// Type enumerates the recognized event types.
type Type string

const (
	TypeProcessingStart       Type = "processing_start"
	TypeThinking              Type = "thinking"
	TypeClassification        Type = "classification"
	TypeAgeVerificationNeeded Type = "age_verification_required"
	TypePromptBuilt           Type = "prompt_built"
	TypeChunk                 Type = "chunk"
	TypeDone                  Type = "done"
	TypeError                 Type = "error"
)

// Event is the line-delimited wire shape: {type, ...}.
type Event struct {
	Type Type `json:"type"`

	ConversationID string `json:"conversation_id,omitempty"`

	// thinking
	Step   string `json:"step,omitempty"`
	Detail string `json:"detail,omitempty"`

	// classification
	Label        chatmodel.ClassificationLabel `json:"label,omitempty"`
	Confidence   float64                       `json:"confidence,omitempty"`
	LayerResults *classifier.LayerResults      `json:"layer_results,omitempty"`

	// age_verification_required
	EndpointHint string `json:"endpoint_hint,omitempty"`

	// prompt_built
	PromptSummary *PromptSummary `json:"prompt_summary,omitempty"`

	// chunk
	Content string `json:"content,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}

// PromptSummary is the composition summary attached to prompt_built —
// counts only, never the assembled content itself.
type PromptSummary struct {
	MemoriesIncluded int  `json:"memories_included"`
	MemoriesDropped  int  `json:"memories_dropped"`
	SummaryIncluded  bool `json:"summary_included"`
	BufferIncluded   int  `json:"buffer_included"`
	BufferDropped    int  `json:"buffer_dropped"`
}

// ProcessingStart builds the turn-opening event.
func ProcessingStart(conversationID string) Event {
	return Event{Type: TypeProcessingStart, ConversationID: conversationID}
}

// Thinking builds an informational progress event for one fan-out step.
func Thinking(step, detail string) Event {
	return Event{Type: TypeThinking, Step: step, Detail: detail}
}

// Classification builds the classifier-result event.
func Classification(label chatmodel.ClassificationLabel, confidence float64, layers classifier.LayerResults) Event {
	return Event{Type: TypeClassification, Label: label, Confidence: confidence, LayerResults: &layers}
}

// AgeVerificationRequired builds the terminal age-gate event.
func AgeVerificationRequired(conversationID, endpointHint string) Event {
	return Event{Type: TypeAgeVerificationNeeded, ConversationID: conversationID, EndpointHint: endpointHint}
}

// PromptBuilt builds the prompt-composition-summary event.
func PromptBuilt(summary PromptSummary) Event {
	return Event{Type: TypePromptBuilt, PromptSummary: &summary}
}

// Chunk builds one streamed content delta.
func Chunk(conversationID, content string) Event {
	return Event{Type: TypeChunk, ConversationID: conversationID, Content: content}
}

// Done builds the terminal success event.
func Done(conversationID string) Event {
	return Event{Type: TypeDone, ConversationID: conversationID}
}

// Error builds the terminal failure event.
func Error(message string) Event {
	return Event{Type: TypeError, Message: message}
}
