package intelligence

import (
	"regexp"
	"strings"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

var (
	// namePattern catches "my <relation> <Name>" and simple capitalized
	// tokens following a handful of introduction verbs.
	namePattern = regexp.MustCompile(`\b(?:named|called|I'm|I am|this is)\s+([A-Z][a-z]+)\b`)

	placePattern = regexp.MustCompile(`\b(?:in|at|from|near|to)\s+([A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+)?)\b`)

	topicPattern = regexp.MustCompile(`\b(?:about|regarding|on the topic of)\s+([a-zA-Z][a-zA-Z\s]{2,30}?)(?:[.,!?]|$)`)

	datePattern = regexp.MustCompile(`\b(?:\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{2}-\d{2}|(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?|yesterday|tomorrow|last\s+(?:week|month|year)|next\s+(?:week|month|year))\b`)
)

// ExtractEntities runs the regex-based capture pass over text, writing into
// RelatedEntities. Matches are deduplicated but not resolved
// against each other (e.g. no coreference).
func ExtractEntities(text string) chatmodel.RelatedEntities {
	return chatmodel.RelatedEntities{
		People: dedupe(firstGroup(namePattern, text)),
		Places: dedupe(firstGroup(placePattern, text)),
		Topics: dedupe(trimAll(firstGroup(topicPattern, text))),
		Dates:  dedupe(matchAll(datePattern, text)),
	}
}

func firstGroup(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 {
			out = append(out, m[1])
		}
	}
	return out
}

func matchAll(re *regexp.Regexp, text string) []string {
	lower := strings.ToLower(text)
	return re.FindAllString(lower, -1)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
