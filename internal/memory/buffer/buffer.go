// Package buffer holds the most recent turns of a conversation in a bounded,
// ordered window, plus a rolling summary string and a last-activity
// timestamp. Two implementations satisfy the same interface, following the
// Session Manager's dual-implementation idiom: an in-process map guarded by
// one mutex for single-replica deployments, and a Redis-backed one for
// multi-replica deployments.
package buffer

import (
	"context"
	"time"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

// Buffer is the Short-Term Buffer component's interface.
type Buffer interface {
	// Append adds a message to the tail of the buffer, trimming to the
	// last M entries and refreshing the conversation's activity timestamp.
	Append(ctx context.Context, conversationID string, msg chatmodel.Message) error

	// Get returns the buffered messages in chronological order.
	Get(ctx context.Context, conversationID string) ([]chatmodel.Message, error)

	// SetSummary replaces the conversation's rolling summary.
	SetSummary(ctx context.Context, conversationID, summary string) error

	// GetSummary returns the conversation's rolling summary, or "" if unset.
	GetSummary(ctx context.Context, conversationID string) (string, error)

	// Reset drops buffered messages but keeps the summary.
	Reset(ctx context.Context, conversationID string) error

	// Cleanup evicts every conversation whose last activity is older than
	// idleFor.
	Cleanup(ctx context.Context, idleFor time.Duration) (int, error)
}
