package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/pkg/llm"
	"kb-assistant-be/pkg/rag/memory"
	"kb-assistant-be/pkg/tokenizer"
)

// ChatEngine is the per-user synthesis unit: one model handle, one memory
// buffer, one system prompt. Created lazily on a user's first turn and
// cached by the Registry.
type ChatEngine struct {
	llmProvider  llm.LLMProvider
	memory       *memory.Buffer
	systemPrompt string
	counter      tokenizer.TokenCounter
	logger       logger.ILogger

	// Serializes the window-read / append sequence per session so
	// concurrent turns for one user cannot interleave the trim computation
	mu sync.Mutex
}

func NewChatEngine(
	llmProvider llm.LLMProvider,
	mem *memory.Buffer,
	systemPrompt string,
	counter tokenizer.TokenCounter,
	log logger.ILogger,
) *ChatEngine {
	return &ChatEngine{
		llmProvider:  llmProvider,
		memory:       mem,
		systemPrompt: systemPrompt,
		counter:      counter,
		logger:       log,
	}
}

// Chat runs one synthesis turn: system prompt + trimmed history + the
// wrapped query (with the optional context block), one completion call,
// then the user and assistant messages are appended to memory in that
// order.
func (e *ChatEngine) Chat(ctx context.Context, query, userName, contextBlock string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	initialTokenCount := e.counter.Count(e.systemPrompt)

	window, err := e.memory.Window(ctx, initialTokenCount)
	if err != nil {
		return "", err
	}

	var wrapped strings.Builder
	fmt.Fprintf(&wrapped, "User's name: %s\nQuestion: %s\n", userName, query)
	if contextBlock != "" {
		wrapped.WriteString("\nUse the context information below to answer user's question.\n<context>\n")
		wrapped.WriteString(contextBlock)
		wrapped.WriteString("\n</context>")
	}

	history := make([]llm.Message, 0, len(window)+2)
	history = append(history, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: e.systemPrompt,
	})
	for _, msg := range window {
		history = append(history, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	history = append(history, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: wrapped.String(),
	})

	answer, err := e.llmProvider.Chat(ctx, history)
	if err != nil {
		return "", fmt.Errorf("synthesis completion: %w", err)
	}

	now := time.Now()
	if err := e.memory.Put(ctx,
		memory.ChatMessage{Role: constant.ChatMessageRoleUser, Content: query, Timestamp: now},
		memory.ChatMessage{Role: constant.ChatMessageRoleAssistant, Content: answer, Timestamp: now},
	); err != nil {
		// The answer is already generated; a failed persist loses history
		// for later turns but should not fail this one
		e.logger.Error("engine", "Failed to persist chat turn", map[string]interface{}{
			"session": e.memory.SessionKey(),
			"error":   err.Error(),
		})
	}

	return answer, nil
}

// Record appends a finished turn (user query, assistant answer) to memory
// without a completion call. The no-context fallback path uses this so the
// history stays coherent.
func (e *ChatEngine) Record(ctx context.Context, query, answer string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	return e.memory.Put(ctx,
		memory.ChatMessage{Role: constant.ChatMessageRoleUser, Content: query, Timestamp: now},
		memory.ChatMessage{Role: constant.ChatMessageRoleAssistant, Content: answer, Timestamp: now},
	)
}
