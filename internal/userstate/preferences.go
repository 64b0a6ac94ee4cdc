package userstate

import (
	"context"
	"regexp"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

var languagePatterns = map[string]*regexp.Regexp{
	"English":    regexp.MustCompile(`(?i)\b(speak|respond|talk|answer) (to me )?in english\b`),
	"Spanish":    regexp.MustCompile(`(?i)\b(speak|respond|talk|answer) (to me )?in spanish\b`),
	"French":     regexp.MustCompile(`(?i)\b(speak|respond|talk|answer) (to me )?in french\b`),
	"German":     regexp.MustCompile(`(?i)\b(speak|respond|talk|answer) (to me )?in german\b`),
	"Italian":    regexp.MustCompile(`(?i)\b(speak|respond|talk|answer) (to me )?in italian\b`),
	"Portuguese": regexp.MustCompile(`(?i)\b(speak|respond|talk|answer) (to me )?in portuguese\b`),
}

var formalityPatterns = map[string]*regexp.Regexp{
	"casual":       regexp.MustCompile(`(?i)\b(be (more )?casual|talk casually|drop the formality|less formal)\b`),
	"formal":       regexp.MustCompile(`(?i)\b(be (more )?formal|speak formally)\b`),
	"professional": regexp.MustCompile(`(?i)\b(be (more )?professional|keep it professional)\b`),
}

var tonePatterns = map[string]*regexp.Regexp{
	"enthusiastic": regexp.MustCompile(`(?i)\b(be (more )?enthusiastic|more excited|upbeat)\b`),
	"calm":         regexp.MustCompile(`(?i)\b(be (more )?calm|calm down|relax(ed)? tone)\b`),
	"friendly":     regexp.MustCompile(`(?i)\b(be (more )?friendly|friendlier)\b`),
	"neutral":      regexp.MustCompile(`(?i)\b(be (more )?neutral|stay neutral)\b`),
}

var (
	emojiOnPattern  = regexp.MustCompile(`(?i)\b(use (more )?emoji|add emoji)\b`)
	emojiOffPattern = regexp.MustCompile(`(?i)\b(no emoji|stop using emoji|without emoji|don't use emoji)\b`)
)

var responseLengthPatterns = map[string]*regexp.Regexp{
	"brief":    regexp.MustCompile(`(?i)\b(be brief|keep it short|short answers|concise)\b`),
	"detailed": regexp.MustCompile(`(?i)\b(be detailed|more detail|in depth|go deeper)\b`),
	"balanced": regexp.MustCompile(`(?i)\b(balanced (answer|response)|not too short not too long)\b`),
}

var explanationStylePatterns = map[string]*regexp.Regexp{
	"simple":    regexp.MustCompile(`(?i)\b(explain simply|keep it simple|like i'm five|eli5)\b`),
	"technical": regexp.MustCompile(`(?i)\b(be technical|more technical|give me the technical detail)\b`),
	"analogies": regexp.MustCompile(`(?i)\b(use analogies|explain with an analogy)\b`),
}

// ExtractPreferences runs the deterministic pattern pass over one user
// message, returning only the fields that matched; a nil field means no
// change.
func ExtractPreferences(text string) chatmodel.Preferences {
	var p chatmodel.Preferences
	if lang := firstMatch(languagePatterns, text); lang != "" {
		p.Language = &lang
	}
	if formality := firstMatch(formalityPatterns, text); formality != "" {
		p.Formality = &formality
	}
	if tone := firstMatch(tonePatterns, text); tone != "" {
		p.Tone = &tone
	}
	if emojiOnPattern.MatchString(text) {
		v := true
		p.EmojiUsage = &v
	} else if emojiOffPattern.MatchString(text) {
		v := false
		p.EmojiUsage = &v
	}
	if length := firstMatch(responseLengthPatterns, text); length != "" {
		p.ResponseLength = &length
	}
	if style := firstMatch(explanationStylePatterns, text); style != "" {
		p.ExplanationStyle = &style
	}
	return p
}

func firstMatch(patterns map[string]*regexp.Regexp, text string) string {
	for value, re := range patterns {
		if re.MatchString(text) {
			return value
		}
	}
	return ""
}

// MergePreferences overlays non-nil fields from delta onto base, leaving
// base's existing values for anything delta leaves nil.
func MergePreferences(base chatmodel.Preferences, delta chatmodel.Preferences) chatmodel.Preferences {
	if delta.Language != nil {
		base.Language = delta.Language
	}
	if delta.Formality != nil {
		base.Formality = delta.Formality
	}
	if delta.Tone != nil {
		base.Tone = delta.Tone
	}
	if delta.EmojiUsage != nil {
		base.EmojiUsage = delta.EmojiUsage
	}
	if delta.ResponseLength != nil {
		base.ResponseLength = delta.ResponseLength
	}
	if delta.ExplanationStyle != nil {
		base.ExplanationStyle = delta.ExplanationStyle
	}
	return base
}

// PreferenceService is the thin orchestration layer tying extraction and
// merge to the store.
type PreferenceService struct {
	store *Store
}

func NewPreferenceService(store *Store) *PreferenceService {
	return &PreferenceService{store: store}
}

// ObserveMessage extracts and merges preference signals from one user
// message, persisting the result.
func (s *PreferenceService) ObserveMessage(ctx context.Context, userID, text string) (*chatmodel.Preferences, error) {
	current, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	delta := ExtractPreferences(text)
	merged := MergePreferences(*current, delta)
	merged.UserID = userID
	if err := s.store.SavePreferences(ctx, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Get returns the stored preferences for a user.
func (s *PreferenceService) Get(ctx context.Context, userID string) (*chatmodel.Preferences, error) {
	return s.store.GetPreferences(ctx, userID)
}

// Set overwrites recognized preference fields directly, for the auxiliary
// preferences endpoint.
func (s *PreferenceService) Set(ctx context.Context, userID string, delta chatmodel.Preferences) (*chatmodel.Preferences, error) {
	current, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	merged := MergePreferences(*current, delta)
	merged.UserID = userID
	if err := s.store.SavePreferences(ctx, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Directives renders the non-nil preference fields into prompt directive
// strings, in a stable order, for the Prompt Assembler's CRITICAL
// COMMUNICATION REQUIREMENTS block.
func Directives(p *chatmodel.Preferences) []string {
	if p == nil {
		return nil
	}
	var out []string
	if p.Language != nil {
		out = append(out, "respond ENTIRELY in "+*p.Language)
	}
	if p.Formality != nil {
		out = append(out, "use a "+*p.Formality+" register")
	}
	if p.Tone != nil {
		out = append(out, "keep a "+*p.Tone+" tone")
	}
	if p.EmojiUsage != nil {
		if *p.EmojiUsage {
			out = append(out, "use emoji where natural")
		} else {
			out = append(out, "do not use emoji")
		}
	}
	if p.ResponseLength != nil {
		out = append(out, "keep responses "+*p.ResponseLength)
	}
	if p.ExplanationStyle != nil {
		out = append(out, "explain things in a "+*p.ExplanationStyle+" style")
	}
	return out
}
