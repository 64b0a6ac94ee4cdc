package userstate

import (
	"context"
	"regexp"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

// archetypePatterns maps phrases that request a personality change to the
// system-owned archetype they select, e.g. "be like a mentor".
var archetypePatterns = map[string]*regexp.Regexp{
	"mentor":     regexp.MustCompile(`(?i)\b(be (my )?mentor|act like a mentor|be more like a mentor)\b`),
	"friend":     regexp.MustCompile(`(?i)\b(be (my )?friend|act like a friend|be more casual and friendly)\b`),
	"coach":      regexp.MustCompile(`(?i)\b(be (my )?coach|push me harder|act like a coach)\b`),
	"therapist":  regexp.MustCompile(`(?i)\b(be (like )?a therapist|listen like a therapist)\b`),
	"professional": regexp.MustCompile(`(?i)\b(be (more )?professional|act like a consultant)\b`),
}

// DetectArchetypeChange returns the requested archetype name if text asks
// for a personality change, or "" if none matched.
func DetectArchetypeChange(text string) string {
	for archetype, re := range archetypePatterns {
		if re.MatchString(text) {
			return archetype
		}
	}
	return ""
}

// PersonalityService resolves the profile that governs one user's
// conversation: their own profile if they have one, otherwise a system-owned
// global archetype.
type PersonalityService struct {
	store *Store
}

func NewPersonalityService(store *Store) *PersonalityService {
	return &PersonalityService{store: store}
}

// Resolve returns the PersonalityProfile governing userID's conversation.
// A user-owned profile always wins; absent one, the user_id on the returned
// profile is still the system user's, which is what memory scoping keys on
// memory scoping uses the resolved profile id.
func (s *PersonalityService) Resolve(ctx context.Context, systemUserID, userID string) (*chatmodel.PersonalityProfile, error) {
	owned, err := s.store.GetUserOwnedPersonality(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owned != nil {
		return owned, nil
	}
	return s.store.GetSystemPersonalityByArchetype(ctx, systemUserID, "default")
}

// ApplyArchetypeChange atomically updates a user's owned profile (creating
// one from the matching system archetype as a base if the user has none
// yet) when natural language requests a personality change.
func (s *PersonalityService) ApplyArchetypeChange(ctx context.Context, systemUserID, userID, archetype string) (*chatmodel.PersonalityProfile, error) {
	base, err := s.store.GetSystemPersonalityByArchetype(ctx, systemUserID, archetype)
	if err != nil {
		return nil, err
	}
	if base == nil {
		base = &chatmodel.PersonalityProfile{Archetype: archetype}
	}

	owned, err := s.store.GetUserOwnedPersonality(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := *base
	updated.UserID = userID
	if owned != nil {
		updated.ID = owned.ID
	}

	if err := s.store.SavePersonality(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Get returns a profile by id, for the CRUD auxiliary endpoints.
func (s *PersonalityService) Get(ctx context.Context, id string) (*chatmodel.PersonalityProfile, error) {
	return s.store.GetPersonality(ctx, id)
}

// Save creates or updates a user-owned profile directly.
func (s *PersonalityService) Save(ctx context.Context, p *chatmodel.PersonalityProfile) error {
	return s.store.SavePersonality(ctx, p)
}
