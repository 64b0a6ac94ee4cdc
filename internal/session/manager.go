// Package session is the Session Manager & Route Lock component:
// per-(user, conversation) routing state — the active route, its
// remaining lock count, age-verification flag, and last-activity time.
// Two implementations satisfy the same interface, following this repo's
// short-term-buffer dual-implementation idiom: an in-process map guarded
// by per-session mutexes, and a Redis-backed one using atomic operations
// so a route lock is never decremented twice.
package session

import (
	"context"
	"time"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

// Manager is the Session Manager component's interface.
type Manager interface {
	// Get loads a session, creating a fresh NORMAL, unlocked, unverified
	// one if none exists yet.
	Get(ctx context.Context, userID, conversationID string) (*chatmodel.SessionState, error)

	// ApplyClassification updates the session's route from a fresh (not
	// route-locked) classification, setting the lock counter to
	// lockTurns when the label routes to EXPLICIT or FETISH and the
	// session is already age-verified.
	ApplyClassification(ctx context.Context, userID, conversationID string, label chatmodel.ClassificationLabel, lockTurns int) (*chatmodel.SessionState, error)

	// ConsumeRouteLock decrements route_lock_remaining by one and
	// returns the session as it stood before decrementing (so the
	// caller reuses the route that was in effect for this turn).
	// Returns ok=false if the session was not route-locked.
	ConsumeRouteLock(ctx context.Context, userID, conversationID string) (state *chatmodel.SessionState, ok bool, err error)

	// SetAgeVerified sets the flag, used by the verify endpoint.
	SetAgeVerified(ctx context.Context, userID, conversationID string, verified bool) error

	// Evict removes sessions idle beyond idleFor.
	Evict(ctx context.Context, idleFor time.Duration) (int, error)
}

// RouteForLabel maps a classifier label to a route.
func RouteForLabel(label chatmodel.ClassificationLabel) chatmodel.Route {
	switch label {
	case chatmodel.LabelSafe, chatmodel.LabelSuggestive:
		return chatmodel.RouteNormal
	case chatmodel.LabelExplicitConsensualAdult:
		return chatmodel.RouteExplicit
	case chatmodel.LabelFetish:
		return chatmodel.RouteFetish
	case chatmodel.LabelNonconsensual, chatmodel.LabelMinorRisk:
		return chatmodel.RouteRefused
	default:
		return chatmodel.RouteRefused
	}
}

// locksRoute reports whether a route is one it locks the
// session on a verified user (EXPLICIT/FETISH only — ROMANCE never locks,
// and there is no ROMANCE classifier label, only a route name reserved for
// a resolved personality archetype choice made elsewhere).
func locksRoute(route chatmodel.Route) bool {
	return route == chatmodel.RouteExplicit || route == chatmodel.RouteFetish
}
