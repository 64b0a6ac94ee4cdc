// Package orchestrator is the Chat Orchestrator component: the
// ordered, per-turn pipeline that ties the classifier, session manager,
// short-term buffer, vector memory store, user-state services, prompt
// assembler, and stream protocol together. Grounded on
// internal/rag/biz/service.go's compose-the-other-components Service
// shape, generalized from a single-shot Query into a multi-step streamed
// turn with concurrent fan-out and background extraction.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	"github.com/kart-io/sentinel-x/internal/classifier"
	"github.com/kart-io/sentinel-x/internal/conversation"
	"github.com/kart-io/sentinel-x/internal/memory/buffer"
	"github.com/kart-io/sentinel-x/internal/memory/embed"
	"github.com/kart-io/sentinel-x/internal/memory/intelligence"
	memstore "github.com/kart-io/sentinel-x/internal/memory/store"
	"github.com/kart-io/sentinel-x/internal/prompt"
	"github.com/kart-io/sentinel-x/internal/session"
	"github.com/kart-io/sentinel-x/internal/streamevent"
	"github.com/kart-io/sentinel-x/internal/userstate"
	"github.com/kart-io/sentinel-x/pkg/infra/pool"
	"github.com/kart-io/sentinel-x/pkg/infra/tracing"
	"github.com/kart-io/sentinel-x/pkg/llm"
)

// Per-turn deadlines.
const (
	classifyDeadline   = 2 * time.Second
	fanOutDeadline     = 5 * time.Second
	firstChunkDeadline = 15 * time.Second
)

// ErrConversationNotOwned surfaces conversation.ErrNotOwned to HTTP callers.
var ErrConversationNotOwned = conversation.ErrNotOwned

// Config holds the tunables a deployment sets once at wiring time.
type Config struct {
	Persona           string
	SystemUserID      string
	RouteLockTurns    int
	MemoryLimit       int
	BufferLimit       int
	PromptTokenBudget int
}

// DefaultConfig fills in the defaults where Config leaves zero values.
func DefaultConfig(persona, systemUserID string) Config {
	return Config{
		Persona:           persona,
		SystemUserID:      systemUserID,
		RouteLockTurns:    5,
		MemoryLimit:       prompt.DefaultMemoryLimit,
		BufferLimit:       prompt.DefaultBufferLimit,
		PromptTokenBudget: prompt.DefaultTokenBudget,
	}
}

// Orchestrator runs one turn end to end.
type Orchestrator struct {
	cfg Config

	sessions     session.Manager
	classifier   *classifier.Classifier
	convStore    *conversation.Store
	buf          buffer.Buffer
	embedder     *embed.Adapter
	memories     *memstore.Store
	preferences  *userstate.PreferenceService
	personality  *userstate.PersonalityService
	emotion      *userstate.EmotionService
	goals        *userstate.GoalService
	extractor    *intelligence.Extractor
	chatProvider llm.ChatProvider
	streamer     llm.ChatStreamer
	bgPool       *pool.Pool
	idgen        func() string
}

// New wires an Orchestrator from its component dependencies.
func New(
	cfg Config,
	sessions session.Manager,
	clf *classifier.Classifier,
	convStore *conversation.Store,
	buf buffer.Buffer,
	embedder *embed.Adapter,
	memories *memstore.Store,
	preferences *userstate.PreferenceService,
	personality *userstate.PersonalityService,
	emotion *userstate.EmotionService,
	goals *userstate.GoalService,
	extractor *intelligence.Extractor,
	chatProvider llm.ChatProvider,
	bgPool *pool.Pool,
	idgen func() string,
) *Orchestrator {
	streamer, ok := chatProvider.(llm.ChatStreamer)
	if !ok {
		streamer = &llm.WholeResponseStreamer{Provider: chatProvider}
	}
	return &Orchestrator{
		cfg:          cfg,
		sessions:     sessions,
		classifier:   clf,
		convStore:    convStore,
		buf:          buf,
		embedder:     embedder,
		memories:     memories,
		preferences:  preferences,
		personality:  personality,
		emotion:      emotion,
		goals:        goals,
		extractor:    extractor,
		chatProvider: chatProvider,
		streamer:     streamer,
		bgPool:       bgPool,
		idgen:        idgen,
	}
}

// fanOutResult collects the concurrent fan-out step's outputs. A nil field
// means that step failed or timed out and the turn
// proceeds with its zero value rather than aborting.
type fanOutResult struct {
	preferences  *chatmodel.Preferences
	personality  *chatmodel.PersonalityProfile
	emotionRec   *chatmodel.EmotionRecord
	emotionTrend string
	goals        *userstate.GoalDetectionResult
	activeGoals  []*chatmodel.Goal
	memories     []*chatmodel.Memory
}

// HandleTurn runs the full pipeline for one user message, emitting events
// through w as they occur. It returns only on a hard setup failure (e.g.
// conversation ownership); turn-level failures are reported as `error`
// stream events, never a Go error, since the HTTP response has already
// committed to a streaming body.
func (o *Orchestrator) HandleTurn(ctx context.Context, w *streamevent.Writer, userID string, conversationID *string, text string, personalityName *string) error {
	ctx, span := tracing.StartSpan(ctx, "orchestrator", "HandleTurn")
	defer span.End()

	// Step 1: resolve conversation.
	conv, err := o.resolveConversation(ctx, userID, conversationID)
	if err != nil {
		return err
	}

	// Step 2.
	w.Emit(streamevent.ProcessingStart(conv.ID))

	// Step 3: persist user message.
	userMsg := chatmodel.Message{ConversationID: conv.ID, Role: chatmodel.RoleUser, Content: text}
	if err := o.persistMessage(ctx, conv.ID, &userMsg); err != nil {
		w.Emit(streamevent.Error("failed to persist message: " + err.Error()))
		return nil
	}

	// Step 4+5: classify, route, gate.
	if o.classifyAndRoute(ctx, w, userID, conv.ID, text) {
		return nil
	}

	// Step 6: concurrent fan-out.
	fanOutCtx, cancel := context.WithTimeout(ctx, fanOutDeadline)
	fo := o.fanOut(fanOutCtx, w, userID, conv.ID, text)
	cancel()

	// Step 7: assemble prompt.
	summary, _ := o.buf.GetSummary(ctx, conv.ID)
	bufferMsgs, _ := o.buf.Get(ctx, conv.ID)
	assembled := prompt.Assemble(prompt.Input{
		Persona:         o.cfg.Persona,
		Personality:     fo.personality,
		Preferences:     fo.preferences,
		CurrentEmotion:  fo.emotionRec,
		EmotionTrend:    fo.emotionTrend,
		ActiveGoals:     fo.activeGoals,
		NewGoals:        goalsOrEmpty(fo.goals).NewGoals,
		GoalProgress:    goalsOrEmpty(fo.goals).ProgressUpdates,
		GoalCompletions: goalsOrEmpty(fo.goals).Completions,
		Memories:        fo.memories,
		Summary:         summary,
		Buffer:          bufferMsgs,
		CurrentMessage:  text,
		TokenBudget:     o.cfg.PromptTokenBudget,
	})
	w.Emit(streamevent.PromptBuilt(streamevent.PromptSummary{
		MemoriesIncluded: assembled.MemoriesIncluded,
		MemoriesDropped:  assembled.MemoriesDropped,
		SummaryIncluded:  assembled.SummaryIncluded,
		BufferIncluded:   assembled.BufferIncluded,
		BufferDropped:    assembled.BufferDropped,
	}))

	// Step 8: stream from LLM, bounded by the first-chunk deadline.
	assistantText, streamErr := o.stream(ctx, w, conv.ID, assembled.Prompt)
	if streamErr != nil {
		w.Emit(streamevent.Error(streamErr.Error()))
		return nil
	}

	// Step 9: persist assistant message, emit done.
	assistantMsg := chatmodel.Message{ConversationID: conv.ID, Role: chatmodel.RoleAssistant, Content: assistantText}
	if err := o.persistMessage(ctx, conv.ID, &assistantMsg); err != nil {
		logger.Warnw("failed to persist assistant message", "conversation_id", conv.ID, "error", err.Error())
	}
	w.Emit(streamevent.Done(conv.ID))

	// Step 10: background memory extraction, never blocking the response.
	o.scheduleExtraction(userID, personalityNameOr(personalityName, fo), conv.ID, userMsg, assistantMsg, fo.emotionRec)

	return nil
}

func (o *Orchestrator) resolveConversation(ctx context.Context, userID string, conversationID *string) (*chatmodel.Conversation, error) {
	if conversationID == nil || *conversationID == "" {
		return o.convStore.Create(ctx, userID)
	}
	conv, err := o.convStore.Get(ctx, userID, *conversationID)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (o *Orchestrator) persistMessage(ctx context.Context, conversationID string, msg *chatmodel.Message) error {
	if err := o.convStore.AppendMessage(ctx, msg); err != nil {
		return err
	}
	return o.buf.Append(ctx, conversationID, *msg)
}

// classifyAndRoute implements steps 4-5. The returned bool is true when the
// turn must stop here (refusal or age gate) without calling the LLM.
func (o *Orchestrator) classifyAndRoute(ctx context.Context, w *streamevent.Writer, userID, conversationID, text string) bool {
	classifyCtx, cancel := context.WithTimeout(ctx, classifyDeadline)
	defer cancel()

	state, err := o.sessions.Get(classifyCtx, userID, conversationID)
	if err != nil {
		w.Emit(streamevent.Error("session lookup failed: " + err.Error()))
		return true
	}

	var label chatmodel.ClassificationLabel
	var layers classifier.LayerResults
	var confidence float64

	if locked, ok, lockErr := o.sessions.ConsumeRouteLock(classifyCtx, userID, conversationID); lockErr == nil && ok {
		state = locked
		label = routeLockLabel(locked.Route)
		confidence = 1.0
	} else {
		result := o.classifier.Classify(classifyCtx, o.idgen(), userID, text)
		label, layers, confidence = result.Label, result.LayerResults, result.Confidence
		updated, applyErr := o.sessions.ApplyClassification(classifyCtx, userID, conversationID, label, o.cfg.RouteLockTurns)
		if applyErr == nil {
			state = updated
		}
	}

	w.Emit(streamevent.Classification(label, confidence, layers))

	switch {
	case label == chatmodel.LabelRefused || label == chatmodel.LabelNonconsensual || label == chatmodel.LabelMinorRisk:
		assistantMsg := chatmodel.Message{ConversationID: conversationID, Role: chatmodel.RoleAssistant, Content: refusalText}
		_ = o.persistMessage(ctx, conversationID, &assistantMsg)
		w.Emit(streamevent.Chunk(conversationID, refusalText))
		w.Emit(streamevent.Done(conversationID))
		return true

	case (label == chatmodel.LabelExplicitConsensualAdult || label == chatmodel.LabelFetish) && !state.AgeVerified:
		w.Emit(streamevent.AgeVerificationRequired(conversationID, "/v1/age-verify"))
		return true
	}

	return false
}

const refusalText = "I can't continue with that request."

func routeLockLabel(route chatmodel.Route) chatmodel.ClassificationLabel {
	switch route {
	case chatmodel.RouteExplicit:
		return chatmodel.LabelExplicitConsensualAdult
	case chatmodel.RouteFetish:
		return chatmodel.LabelFetish
	default:
		return chatmodel.LabelSafe
	}
}

// fanOut runs step 6's five concurrent tasks, each emitting a `thinking`
// event on completion, and collects whatever results are ready when
// fanOutCtx expires. A task that times out or errors simply leaves its
// field at its zero value rather than failing the turn.
func (o *Orchestrator) fanOut(ctx context.Context, w *streamevent.Writer, userID, conversationID, text string) fanOutResult {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		out fanOutResult
	)

	run := func(step string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Errorw("fan-out step panicked", "step", step, "panic", r)
				}
			}()
			done := make(chan struct{})
			go func() {
				fn()
				close(done)
			}()
			select {
			case <-done:
				w.Emit(streamevent.Thinking(step, "complete"))
			case <-ctx.Done():
				w.Emit(streamevent.Thinking(step, "timed out"))
			}
		}()
	}

	run("preferences", func() {
		p, err := o.preferences.ObserveMessage(ctx, userID, text)
		if err == nil {
			mu.Lock()
			out.preferences = p
			mu.Unlock()
		}
	})

	run("personality", func() {
		p, err := o.personality.Resolve(ctx, o.cfg.SystemUserID, userID)
		if err == nil {
			mu.Lock()
			out.personality = p
			mu.Unlock()
		}
	})

	run("emotion", func() {
		rec, err := o.emotion.Record(ctx, userID, conversationID, text)
		if err != nil {
			return
		}
		trend, _ := o.emotion.Trend(ctx, userID, 7*24*time.Hour)
		mu.Lock()
		out.emotionRec = rec
		out.emotionTrend = trend
		mu.Unlock()
	})

	run("goals", func() {
		result, err := o.goals.DetectAndTrack(ctx, userID, text)
		active, activeErr := o.goals.ActiveGoals(ctx, userID)
		mu.Lock()
		if err == nil {
			out.goals = result
		}
		if activeErr == nil {
			out.activeGoals = active
		}
		mu.Unlock()
	})

	run("memory_retrieval", func() {
		vec, err := o.embedder.Embed(ctx, text)
		if err != nil {
			if !embed.IsUpstreamUnavailable(err) {
				logger.Warnw("embedding failed", "error", err.Error())
			}
			return
		}
		scored, err := o.memories.SearchSimilar(ctx, userID, "", vec, o.cfg.MemoryLimit, 0.5, memstore.DefaultFilters())
		if err != nil {
			return
		}
		found := make([]*chatmodel.Memory, 0, len(scored))
		for _, s := range scored {
			found = append(found, s.Memory)
		}
		mu.Lock()
		out.memories = found
		mu.Unlock()
	})

	wg.Wait()

	return out
}

func goalsOrEmpty(r *userstate.GoalDetectionResult) *userstate.GoalDetectionResult {
	if r == nil {
		return &userstate.GoalDetectionResult{}
	}
	return r
}

func personalityNameOr(name *string, fo fanOutResult) string {
	if name != nil && *name != "" {
		return *name
	}
	if fo.personality != nil {
		return fo.personality.ID
	}
	return ""
}

// stream implements step 8: stream from the LLM under the first-chunk
// deadline, emitting `chunk` events and accumulating the full text.
func (o *Orchestrator) stream(ctx context.Context, w *streamevent.Writer, conversationID, promptText string) (string, error) {
	firstChunkCtx, cancel := context.WithTimeout(ctx, firstChunkDeadline)

	chunks, errs := o.streamer.StreamChat(firstChunkCtx, []llm.Message{
		{Role: llm.RoleSystem, Content: promptText},
	}, llm.StreamOptions{})

	var text strings.Builder
	first := true
	for chunks != nil || errs != nil {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			if first {
				cancel() // first chunk arrived; release the 15s deadline
				first = false
			}
			text.WriteString(chunk.Content)
			if !w.Emit(streamevent.Chunk(conversationID, chunk.Content)) {
				cancel()
				return text.String(), errors.New("client disconnected")
			}
			if chunk.Done {
				cancel()
				return text.String(), nil
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				cancel()
				return text.String(), err
			}
		case <-ctx.Done():
			cancel()
			return text.String(), ctx.Err()
		}
	}
	cancel()
	return text.String(), nil
}

func (o *Orchestrator) scheduleExtraction(userID, personalityID, conversationID string, userMsg, assistantMsg chatmodel.Message, emotion *chatmodel.EmotionRecord) {
	task := func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		turn := []chatmodel.Message{userMsg, assistantMsg}
		if _, err := o.extractor.Extract(bgCtx, userID, personalityID, conversationID, turn, emotion); err != nil {
			logger.Warnw("background memory extraction failed", "user_id", userID, "conversation_id", conversationID, "error", err.Error())
		}
	}

	if o.bgPool == nil {
		go task()
		return
	}
	if err := o.bgPool.Submit(task); err != nil {
		logger.Warnw("background pool rejected extraction task, falling back to goroutine", "error", err.Error())
		go task()
	}
}
