package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/pkg/tokenizer"
)

// fakeStore is an in-memory Store for exercising the window math without
// Redis.
type fakeStore struct {
	logs map[string][]ChatMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{logs: make(map[string][]ChatMessage)}
}

func (s *fakeStore) Append(ctx context.Context, sessionKey string, messages ...ChatMessage) error {
	s.logs[sessionKey] = append(s.logs[sessionKey], messages...)
	return nil
}

func (s *fakeStore) Tail(ctx context.Context, sessionKey string, limit int) ([]ChatMessage, error) {
	log := s.logs[sessionKey]
	if len(log) > limit {
		log = log[len(log)-limit:]
	}
	out := make([]ChatMessage, len(log))
	copy(out, log)
	return out, nil
}

func (s *fakeStore) Delete(ctx context.Context, sessionKey string) error {
	delete(s.logs, sessionKey)
	return nil
}

// fiveTokensPerMessage charges five tokens per word. Message contents in
// these tests are single words, so a joined slice of k messages costs 5k.
var fiveTokensPerMessage = tokenizer.CounterFunc(func(text string) int {
	if text == "" {
		return 0
	}
	return 5 * len(strings.Fields(text))
})

func seedAlternating(t *testing.T, store *fakeStore, key string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		role := constant.ChatMessageRoleUser
		if i%2 == 1 {
			role = constant.ChatMessageRoleAssistant
		}
		if err := store.Append(context.Background(), key, ChatMessage{Role: role, Content: "m"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestWindowShrinksFromOldest(t *testing.T) {
	store := newFakeStore()
	seedAlternating(t, store, "chat:user_1", 10)

	// 10 messages cost 50 tokens; with a prefix of 10 against a limit of 50
	// only the newest 8 fit (40 + 10).
	buf := NewBuffer(store, "chat:user_1", 50, fiveTokensPerMessage)

	window, err := buf.Window(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 8 {
		t.Fatalf("window length = %d, want 8", len(window))
	}
	if window[0].Role != constant.ChatMessageRoleUser {
		t.Errorf("window head role = %s, want user", window[0].Role)
	}
}

func TestWindowNeverStartsOnAssistant(t *testing.T) {
	store := newFakeStore()
	seedAlternating(t, store, "chat:user_2", 10)

	// The token trim alone would leave 9 messages starting on an assistant
	// turn; role alignment must advance past it.
	buf := NewBuffer(store, "chat:user_2", 55, fiveTokensPerMessage)

	window, err := buf.Window(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 8 {
		t.Fatalf("window length = %d, want 8", len(window))
	}
	if window[0].Role != constant.ChatMessageRoleUser {
		t.Errorf("window head role = %s, want user", window[0].Role)
	}
}

func TestWindowFullHistoryFits(t *testing.T) {
	store := newFakeStore()
	seedAlternating(t, store, "chat:user_3", 6)

	buf := NewBuffer(store, "chat:user_3", 2000, fiveTokensPerMessage)

	window, err := buf.Window(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 6 {
		t.Errorf("window length = %d, want all 6", len(window))
	}
}

func TestWindowPrefixOverBudgetFailsFast(t *testing.T) {
	store := newFakeStore()
	seedAlternating(t, store, "chat:user_4", 4)

	buf := NewBuffer(store, "chat:user_4", 50, fiveTokensPerMessage)

	_, err := buf.Window(context.Background(), 60)
	if !errors.Is(err, ErrTokenBudgetExceeded) {
		t.Errorf("error = %v, want ErrTokenBudgetExceeded", err)
	}
}

func TestWindowOversizedSingleMessageDegradesToEmpty(t *testing.T) {
	store := newFakeStore()
	// One user message of nine words: 45 tokens, over the 40 left by the
	// prefix.
	if err := store.Append(context.Background(), "chat:user_5", ChatMessage{
		Role:    constant.ChatMessageRoleUser,
		Content: strings.TrimSpace(strings.Repeat("w ", 9)),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	buf := NewBuffer(store, "chat:user_5", 50, fiveTokensPerMessage)

	window, err := buf.Window(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window != nil {
		t.Errorf("window = %v, want nil (stateless turn)", window)
	}
}

func TestWindowEmptyHistory(t *testing.T) {
	buf := NewBuffer(newFakeStore(), "chat:user_6", 50, fiveTokensPerMessage)

	window, err := buf.Window(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window != nil {
		t.Errorf("window = %v, want nil", window)
	}
}

func TestPutPreservesOrder(t *testing.T) {
	store := newFakeStore()
	buf := NewBuffer(store, "chat:user_7", 2000, fiveTokensPerMessage)

	err := buf.Put(context.Background(),
		ChatMessage{Role: constant.ChatMessageRoleUser, Content: "question"},
		ChatMessage{Role: constant.ChatMessageRoleAssistant, Content: "answer"},
	)
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	window, err := buf.Window(context.Background(), 0)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(window) != 2 {
		t.Fatalf("window length = %d, want 2", len(window))
	}
	if window[0].Content != "question" || window[1].Content != "answer" {
		t.Errorf("order not preserved: %v", window)
	}
}
