package userstate

import (
	"context"
	"regexp"
	"strings"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

var explicitGoalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmy goal is to\b`),
	regexp.MustCompile(`(?i)\bi'm setting a goal to\b`),
	regexp.MustCompile(`(?i)\bi want to achieve\b`),
}

var implicitGoalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bi want to\b`),
	regexp.MustCompile(`(?i)\bi'm trying to\b`),
	regexp.MustCompile(`(?i)\bi'm planning to\b`),
	regexp.MustCompile(`(?i)\bi hope to\b`),
	regexp.MustCompile(`(?i)\bi'd like to\b`),
}

var goalCategoryKeywords = map[chatmodel.GoalCategory][]string{
	chatmodel.GoalLearning:  {"learn", "study", "course", "certification", "language", "read"},
	chatmodel.GoalHealth:    {"weight", "exercise", "gym", "run", "diet", "sleep", "health"},
	chatmodel.GoalCareer:    {"job", "promotion", "career", "interview", "resume", "business"},
	chatmodel.GoalFinancial: {"save", "money", "budget", "debt", "invest", "financial"},
	chatmodel.GoalCreative:  {"write", "paint", "music", "art", "design", "creative"},
	chatmodel.GoalSocial:    {"friends", "relationship", "social", "family", "reconnect"},
	chatmodel.GoalPersonal:  {},
}

var completionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(i (finally )?(finished|completed|achieved|accomplished|did it))\b`),
	regexp.MustCompile(`(?i)\bgoal (is )?(done|complete|achieved)\b`),
}

var setbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(gave up|fell behind|missed|failed|couldn't keep up|struggling with)\b`),
}

var milestonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(halfway|milestone|made progress|big step)\b`),
}

var targetDatePattern = regexp.MustCompile(`(?i)\bby (the end of (this )?(month|year)|next (month|year)|[a-z]+ \d{1,2}(st|nd|rd|th)?)\b`)

// GoalDetectionResult is DetectAndTrack's output.
type GoalDetectionResult struct {
	NewGoals        []*chatmodel.Goal
	ProgressUpdates []*chatmodel.GoalProgress
	Completions     []*chatmodel.Goal
}

// GoalService detects new goals and tracks progress against existing ones
// from natural-language messages.
type GoalService struct {
	store *Store
}

func NewGoalService(store *Store) *GoalService {
	return &GoalService{store: store}
}

// ActiveGoals returns a user's current active goals, for rendering into the
// assembled prompt's goal context block.
func (s *GoalService) ActiveGoals(ctx context.Context, userID string) ([]*chatmodel.Goal, error) {
	return s.store.ActiveGoals(ctx, userID)
}

// DetectAndTrack scans one user message for new goals and progress against
// the user's existing active goals, persisting whatever it finds.
func (s *GoalService) DetectAndTrack(ctx context.Context, userID, text string) (*GoalDetectionResult, error) {
	result := &GoalDetectionResult{}

	if goal := detectNewGoal(userID, text); goal != nil {
		if err := s.store.CreateGoal(ctx, goal); err != nil {
			return nil, err
		}
		result.NewGoals = append(result.NewGoals, goal)
	}

	active, err := s.store.ActiveGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, goal := range active {
		progress, matched := matchProgress(goal, text)
		if !matched {
			continue
		}
		goal.MentionCount++
		if progress.Type == chatmodel.ProgressCompletion {
			goal.Status = chatmodel.GoalCompleted
			goal.ProgressPercent = 100
			result.Completions = append(result.Completions, goal)
		} else if progress.Type == chatmodel.ProgressMilestone {
			goal.ProgressPercent = clampPercent(goal.ProgressPercent + 15)
		} else if progress.Type == chatmodel.ProgressSetback {
			goal.ProgressPercent = clampPercent(goal.ProgressPercent - 10)
		}
		progress.GoalID = goal.ID

		if err := s.store.UpdateGoal(ctx, goal); err != nil {
			return nil, err
		}
		if err := s.store.AppendGoalProgress(ctx, progress); err != nil {
			return nil, err
		}
		result.ProgressUpdates = append(result.ProgressUpdates, progress)
	}

	return result, nil
}

func detectNewGoal(userID, text string) *chatmodel.Goal {
	confidence := 0.0
	for _, re := range explicitGoalPatterns {
		if re.MatchString(text) {
			confidence = 0.9
			break
		}
	}
	if confidence == 0 {
		for _, re := range implicitGoalPatterns {
			if re.MatchString(text) {
				confidence = 0.6
				break
			}
		}
	}
	if confidence == 0 {
		return nil
	}

	goal := &chatmodel.Goal{
		UserID:      userID,
		Title:       strings.TrimSpace(text),
		Description: text,
		Category:    classifyGoalCategory(text),
		Status:      chatmodel.GoalActive,
	}
	if m := targetDatePattern.FindString(text); m != "" {
		goal.CheckInFrequency = "" // target date text captured in milestones for human review
		goal.Milestones = append(goal.Milestones, "target: "+m)
	}
	return goal
}

func classifyGoalCategory(text string) chatmodel.GoalCategory {
	lower := strings.ToLower(text)
	for category, keywords := range goalCategoryKeywords {
		for _, kw := range keywords {
			if kw != "" && strings.Contains(lower, kw) {
				return category
			}
		}
	}
	return chatmodel.GoalPersonal
}

// matchProgress compares goal's title/description keyword set against text;
// matches above a 0.3 keyword-overlap threshold produce a progress entry
//.
func matchProgress(goal *chatmodel.Goal, text string) (*chatmodel.GoalProgress, bool) {
	goalTokens := goalKeywords(goal.Title + " " + goal.Description)
	if len(goalTokens) == 0 {
		return nil, false
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, t := range goalTokens {
		if strings.Contains(lower, t) {
			hits++
		}
	}
	overlap := float64(hits) / float64(len(goalTokens))
	if overlap < 0.3 {
		return nil, false
	}

	progressType := classifyProgressType(text)
	return &chatmodel.GoalProgress{
		Type:      progressType,
		Sentiment: classifySentiment(progressType, text),
		Content:   text,
	}, true
}

func classifyProgressType(text string) chatmodel.GoalProgressType {
	for _, re := range completionPatterns {
		if re.MatchString(text) {
			return chatmodel.ProgressCompletion
		}
	}
	for _, re := range setbackPatterns {
		if re.MatchString(text) {
			return chatmodel.ProgressSetback
		}
	}
	for _, re := range milestonePatterns {
		if re.MatchString(text) {
			return chatmodel.ProgressMilestone
		}
	}
	return chatmodel.ProgressMention
}

func classifySentiment(progressType chatmodel.GoalProgressType, text string) chatmodel.GoalProgressSentiment {
	switch progressType {
	case chatmodel.ProgressCompletion, chatmodel.ProgressMilestone:
		return chatmodel.SentimentPositive
	case chatmodel.ProgressSetback:
		return chatmodel.SentimentNegative
	default:
		label, _, indicators := detectByLexicon(text)
		if len(indicators) == 0 {
			return chatmodel.SentimentNeutral
		}
		if valence[label] > 0 {
			return chatmodel.SentimentPositive
		}
		if valence[label] < 0 {
			return chatmodel.SentimentNegative
		}
		return chatmodel.SentimentNeutral
	}
}

// goalKeywords extracts the salient (longer than 3 characters) words from a
// goal's title/description, for progress-matching keyword overlap.
func goalKeywords(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'")
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
