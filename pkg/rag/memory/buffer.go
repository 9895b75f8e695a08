package memory

import (
	"context"
	"errors"
	"strings"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/pkg/tokenizer"
)

// ErrTokenBudgetExceeded means the fixed prompt prefix alone does not fit
// the memory token limit. That is a configuration problem, fatal for the
// turn, never silently degraded.
var ErrTokenBudgetExceeded = errors.New("initial token count exceeds the chat memory token limit")

// Buffer is the token-bounded sliding window over one session's log.
// The newest messages that fit the budget win; eviction happens from the
// oldest end.
type Buffer struct {
	store       Store
	sessionKey  string
	tokenLimit  int
	fetchWindow int
	counter     tokenizer.TokenCounter
}

func NewBuffer(store Store, sessionKey string, tokenLimit int, counter tokenizer.TokenCounter) *Buffer {
	if tokenLimit <= 0 {
		tokenLimit = constant.ChatMemoryTokenLimit
	}
	return &Buffer{
		store:       store,
		sessionKey:  sessionKey,
		tokenLimit:  tokenLimit,
		fetchWindow: constant.ChatMemoryFetchWindow,
		counter:     counter,
	}
}

// SessionKey returns the store key this buffer reads and appends under
func (b *Buffer) SessionKey() string {
	return b.sessionKey
}

// Put appends messages to the session log, preserving argument order
func (b *Buffer) Put(ctx context.Context, messages ...ChatMessage) error {
	return b.store.Append(ctx, b.sessionKey, messages...)
}

// Window returns the most recent messages such that
// tokens(window) + initialTokenCount <= tokenLimit, never starting on an
// assistant or tool message. A single message too large for the budget
// degrades to an empty window: the turn runs stateless rather than failing.
func (b *Buffer) Window(ctx context.Context, initialTokenCount int) ([]ChatMessage, error) {
	if initialTokenCount > b.tokenLimit {
		return nil, ErrTokenBudgetExceeded
	}

	fetched, err := b.store.Tail(ctx, b.sessionKey, b.fetchWindow)
	if err != nil {
		return nil, err
	}
	if len(fetched) == 0 {
		return nil, nil
	}

	start := 0

	// Shrink from the oldest end one message at a time until the slice fits
	for start < len(fetched)-1 && b.cost(fetched[start:])+initialTokenCount > b.tokenLimit {
		start++
	}

	// Never leave a dangling assistant/tool head without its user turn
	for start < len(fetched) {
		role := fetched[start].Role
		if role == constant.ChatMessageRoleUser || role == constant.ChatMessageRoleSystem {
			break
		}
		start++
	}

	if start >= len(fetched) {
		return nil, nil
	}

	if b.cost(fetched[start:])+initialTokenCount > b.tokenLimit {
		// A single oversized message: degrade to stateless
		return nil, nil
	}

	return fetched[start:], nil
}

func (b *Buffer) cost(messages []ChatMessage) int {
	if len(messages) == 0 {
		return 0
	}
	contents := make([]string, len(messages))
	for i, msg := range messages {
		contents[i] = msg.Content
	}
	return b.counter.Count(strings.Join(contents, " "))
}
