package engine

import (
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/pkg/llm"
	"kb-assistant-be/pkg/rag/memory"
	"kb-assistant-be/pkg/tokenizer"
)

// Registry caches chat engines per user id. The cache is TTL-bounded so an
// idle user's engine is evicted instead of accumulating for the process
// lifetime; the engine's durable history lives in the memory store and
// survives eviction.
type Registry struct {
	cache *cache.Cache
	group singleflight.Group

	llmProvider  llm.LLMProvider
	store        memory.Store
	counter      tokenizer.TokenCounter
	systemPrompt string
	tokenLimit   int
	logger       logger.ILogger
}

func NewRegistry(
	llmProvider llm.LLMProvider,
	store memory.Store,
	counter tokenizer.TokenCounter,
	systemPrompt string,
	tokenLimit int,
	log logger.ILogger,
) *Registry {
	c := cache.New(constant.EngineCacheTTL, constant.EngineCacheCleanup)
	return &Registry{
		cache:        c,
		llmProvider:  llmProvider,
		store:        store,
		counter:      counter,
		systemPrompt: systemPrompt,
		tokenLimit:   tokenLimit,
		logger:       log,
	}
}

// GetOrCreate returns the cached engine for the user id, building it on
// first use. Construction is singleflight-guarded so concurrent first turns
// for one new user id end up sharing a single engine/memory pair.
func (r *Registry) GetOrCreate(userID string) (*ChatEngine, error) {
	if x, found := r.cache.Get(userID); found {
		return x.(*ChatEngine), nil
	}

	v, err, _ := r.group.Do(userID, func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have built it
		if x, found := r.cache.Get(userID); found {
			return x, nil
		}

		r.logger.Info("engine", "Creating a new chat engine for user", map[string]interface{}{
			"user_id": userID,
		})

		sessionKey := constant.ChatHistoryKeyPrefix + userID
		buf := memory.NewBuffer(r.store, sessionKey, r.tokenLimit, r.counter)
		eng := NewChatEngine(r.llmProvider, buf, r.systemPrompt, r.counter, r.logger)

		r.cache.Set(userID, eng, cache.DefaultExpiration)
		return eng, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ChatEngine), nil
}

// Evict removes a user's cached engine (history clearing paths use this so
// the next turn starts from a fresh buffer over the emptied log)
func (r *Registry) Evict(userID string) {
	r.cache.Delete(userID)
}
