package relevance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/pkg/llm"
	"kb-assistant-be/pkg/rag/retrieval"
	"kb-assistant-be/pkg/utils"
)

// ErrMalformedOutput means the model's relevance answer held no JSON array
// at all. This is the one hard parse failure of the filter step.
var ErrMalformedOutput = errors.New("relevance filter output is not a JSON array")

// Filter asks the model which retrieved passages actually help answer the
// query and prunes the rest before synthesis.
type Filter struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewFilter(llmProvider llm.LLMProvider, log logger.ILogger) *Filter {
	return &Filter{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Filter returns the ids of relevant passages, a subset of the candidate
// ids. Ids the model hallucinates are dropped with a warning, never a
// fault. An empty result means "nothing relevant" and maps to the
// no-context fallback downstream.
func (f *Filter) Filter(ctx context.Context, query string, candidates []retrieval.Passage) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var pairs strings.Builder
	for i, p := range candidates {
		fmt.Fprintf(&pairs, "%q: \"\"\"%s\"\"\"", p.ID, p.Text)
		if i < len(candidates)-1 {
			pairs.WriteString("\n")
		}
	}

	prompt := fmt.Sprintf(constant.RelevanceCheckPromptV1, query, pairs.String())

	raw, err := f.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return nil, fmt.Errorf("relevance completion: %w", err)
	}

	var ids []string
	if err := utils.UnmarshalJSONArray(strings.TrimSpace(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	known := make(map[string]bool, len(candidates))
	for _, p := range candidates {
		known[p.ID] = true
	}

	// Drop ids outside the candidate set. Indexing the candidate map with a
	// hallucinated id downstream would otherwise fault the turn.
	selected := make([]string, 0, len(ids))
	for _, id := range ids {
		if !known[id] {
			f.logger.Warn("relevance", "Model returned unknown passage id, dropping", map[string]interface{}{
				"id": id,
			})
			continue
		}
		selected = append(selected, id)
	}

	return selected, nil
}

// BuildContext joins the selected passages' texts in selection order,
// separated by blank lines.
func BuildContext(candidates []retrieval.Passage, selectedIDs []string) string {
	byID := make(map[string]string, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p.Text
	}

	texts := make([]string, 0, len(selectedIDs))
	for _, id := range selectedIDs {
		if text, ok := byID[id]; ok {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n\n")
}
