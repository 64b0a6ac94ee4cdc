package llm

import "context"

// StreamChunk is one unit of a streaming chat response.
type StreamChunk struct {
	// Content is the incremental text delta for this chunk.
	Content string
	// Done marks the final chunk of a successful stream; Content may be empty.
	Done bool
}

// StreamOptions controls a single streaming chat call.
type StreamOptions struct {
	Temperature float64
	MaxTokens   int
}

// ChatStreamer is implemented by chat providers capable of token-by-token
// streaming. Providers that only support whole-response Chat can be adapted
// to it with WholeResponseStreamer.
//
// The returned channel is closed by the provider when the stream ends,
// whether normally or due to an error; a terminal error is delivered as the
// last value's error return via the accompanying error channel semantics
// below. Cancelling ctx must close both channels promptly.
type ChatStreamer interface {
	StreamChat(ctx context.Context, messages []Message, opts StreamOptions) (<-chan StreamChunk, <-chan error)
}

// WholeResponseStreamer adapts any ChatProvider into a ChatStreamer by
// issuing a single non-streaming call and emitting its result as one chunk.
// This is the "local" fallback the design notes call for when a provider
// has no native streaming support.
type WholeResponseStreamer struct {
	Provider ChatProvider
}

// StreamChat implements ChatStreamer by wrapping a single Chat call.
func (w *WholeResponseStreamer) StreamChat(ctx context.Context, messages []Message, _ StreamOptions) (<-chan StreamChunk, <-chan error) {
	chunks := make(chan StreamChunk, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		content, err := w.Provider.Chat(ctx, messages)
		if err != nil {
			errs <- err
			return
		}

		select {
		case chunks <- StreamChunk{Content: content, Done: true}:
		case <-ctx.Done():
			errs <- ctx.Err()
		}
	}()

	return chunks, errs
}
