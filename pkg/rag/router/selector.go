package router

import (
	"context"
	"fmt"
	"strings"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/pkg/llm"
	"kb-assistant-be/pkg/rag/registry"
	"kb-assistant-be/pkg/utils"
)

// Selection is one routed collection with the model's rationale
type Selection struct {
	CollectionID string
	Reason       string
}

// Selector routes a query to the collections most likely to hold the answer.
// It shows the model a numbered list of collection descriptions and asks for
// JSON choices restricted to that numbering.
type Selector struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	maxOutputs  int
}

func NewSelector(llmProvider llm.LLMProvider, log logger.ILogger, maxOutputs int) *Selector {
	if maxOutputs <= 0 {
		maxOutputs = constant.RouterMaxOutputs
	}
	return &Selector{
		llmProvider: llmProvider,
		logger:      log,
		maxOutputs:  maxOutputs,
	}
}

type routerChoice struct {
	Choice int    `json:"choice"`
	Reason string `json:"reason"`
}

// Select returns routed collection ids in the model's output order, capped at
// maxOutputs. Unparseable output or zero valid choices is a normal
// "no matching collection" outcome and yields an empty slice, not an error.
func (s *Selector) Select(ctx context.Context, query string, reg *registry.Registry) ([]Selection, error) {
	collections := reg.All()

	var numbered strings.Builder
	for i, c := range collections {
		fmt.Fprintf(&numbered, "(%d) %s\n", i+1, c.Description)
	}

	prompt := fmt.Sprintf(
		constant.RouterSelectorPromptV1,
		len(collections),
		numbered.String(),
		s.maxOutputs,
		query,
	)

	raw, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return nil, fmt.Errorf("router completion: %w", err)
	}

	var choices []routerChoice
	if err := utils.UnmarshalJSONArray(strings.TrimSpace(raw), &choices); err != nil {
		s.logger.Warn("router", "Router output was not parseable JSON, routing to no collection", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}

	selections := make([]Selection, 0, len(choices))
	for _, c := range choices {
		// Choices outside 1..N are dropped silently, the rest of the
		// decision stays usable
		if c.Choice < 1 || c.Choice > len(collections) {
			s.logger.Warn("router", "Dropping out-of-range router choice", map[string]interface{}{
				"choice": c.Choice,
				"max":    len(collections),
			})
			continue
		}
		selections = append(selections, Selection{
			CollectionID: collections[c.Choice-1].ID,
			Reason:       c.Reason,
		})
		if len(selections) == s.maxOutputs {
			break
		}
	}

	return selections, nil
}
