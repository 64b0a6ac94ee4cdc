package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	"github.com/kart-io/sentinel-x/pkg/llm"
	jsonutil "github.com/kart-io/sentinel-x/pkg/utils/json"
)

const judgeSystemPrompt = `You are a content-safety classifier. Given a message, respond with ONLY a JSON object: {"label": one of "SAFE","SUGGESTIVE","EXPLICIT_CONSENSUAL_ADULT","FETISH","MINOR_RISK","NONCONSENSUAL", "confidence": 0..1, "reasoning": short string}. Never include any other text.`

// judgeResult is what the L4 layer produces.
type judgeResult struct {
	Label      chatmodel.ClassificationLabel `json:"label"`
	Confidence float64                        `json:"confidence"`
	Reasoning  string                         `json:"reasoning"`
}

// judge is the L4 layer, used only when L3's confidence is ambiguous
//. The temperature≤0.3/max_tokens≤200 ceiling is enforced at
// provider construction time (pkg/llm provider configs carry these as
// per-provider settings, not per-call options) — callers MUST wire a judge
// provider configured that way, never the same provider instance used for
// open-ended chat generation.
type judge struct {
	provider llm.ChatProvider
}

func newJudge(provider llm.ChatProvider) *judge {
	return &judge{provider: provider}
}

func (j *judge) classify(ctx context.Context, normalized string) (judgeResult, error) {
	if j.provider == nil {
		return judgeResult{}, fmt.Errorf("no judge provider configured")
	}

	resp, err := j.provider.Generate(ctx, normalized, judgeSystemPrompt)
	if err != nil {
		return judgeResult{}, fmt.Errorf("l4 judge call: %w", err)
	}

	content := strings.TrimSpace(resp.Content)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return judgeResult{}, fmt.Errorf("l4 judge returned non-JSON content")
	}

	var result judgeResult
	if err := jsonutil.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return judgeResult{}, fmt.Errorf("decode l4 judge result: %w", err)
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return result, nil
}
