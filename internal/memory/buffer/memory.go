package buffer

import (
	"context"
	"sync"
	"time"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

type conversationBuffer struct {
	messages     []chatmodel.Message
	summary      string
	lastActivity time.Time
}

// InMemoryBuffer is the in-process Buffer implementation, for single-replica
// deployments: one mutex guards the whole map, matching
// session.InMemoryManager's contention trade-off.
type InMemoryBuffer struct {
	mu   sync.Mutex
	size int
	data map[string]*conversationBuffer
}

// NewInMemoryBuffer builds an InMemoryBuffer capped at size messages per
// conversation.
func NewInMemoryBuffer(size int) *InMemoryBuffer {
	return &InMemoryBuffer{size: size, data: make(map[string]*conversationBuffer)}
}

func (b *InMemoryBuffer) getLocked(conversationID string) *conversationBuffer {
	c, ok := b.data[conversationID]
	if !ok {
		c = &conversationBuffer{lastActivity: time.Now()}
		b.data[conversationID] = c
	}
	return c
}

func (b *InMemoryBuffer) Append(_ context.Context, conversationID string, msg chatmodel.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.getLocked(conversationID)
	c.messages = append(c.messages, msg)
	if len(c.messages) > b.size {
		c.messages = c.messages[len(c.messages)-b.size:]
	}
	c.lastActivity = time.Now()
	return nil
}

func (b *InMemoryBuffer) Get(_ context.Context, conversationID string) ([]chatmodel.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.data[conversationID]
	if !ok {
		return nil, nil
	}
	out := make([]chatmodel.Message, len(c.messages))
	copy(out, c.messages)
	return out, nil
}

func (b *InMemoryBuffer) SetSummary(_ context.Context, conversationID, summary string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.getLocked(conversationID).summary = summary
	return nil
}

func (b *InMemoryBuffer) GetSummary(_ context.Context, conversationID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.data[conversationID]
	if !ok {
		return "", nil
	}
	return c.summary, nil
}

func (b *InMemoryBuffer) Reset(_ context.Context, conversationID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.data[conversationID]; ok {
		c.messages = nil
	}
	return nil
}

func (b *InMemoryBuffer) Cleanup(_ context.Context, idleFor time.Duration) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cutoff := time.Now().Add(-idleFor)
	evicted := 0
	for id, c := range b.data {
		if c.lastActivity.Before(cutoff) {
			delete(b.data, id)
			evicted++
		}
	}
	return evicted, nil
}
