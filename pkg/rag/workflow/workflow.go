package workflow

import (
	"context"
	"fmt"
	"time"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/pkg/rag/engine"
	"kb-assistant-be/pkg/rag/registry"
	"kb-assistant-be/pkg/rag/relevance"
	"kb-assistant-be/pkg/rag/retrieval"
	"kb-assistant-be/pkg/rag/router"
)

// TurnState names the phases of one conversation turn
type TurnState int

const (
	StateStart TurnState = iota
	StateRouteAndRetrieve
	StateRelevanceFilter
	StateSynthesize
	StateStop
)

func (s TurnState) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateRouteAndRetrieve:
		return "ROUTE_AND_RETRIEVE"
	case StateRelevanceFilter:
		return "RELEVANCE_FILTER"
	case StateSynthesize:
		return "SYNTHESIZE"
	case StateStop:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}

// Outcome classifies how a turn ended
type Outcome string

const (
	OutcomeAnswered     Outcome = "answered"
	OutcomeNoContext    Outcome = "no_context"
	OutcomeMissingInput Outcome = "missing_input"
	OutcomeFailed       Outcome = "failed"
)

// TurnInput is the turn invocation surface
type TurnInput struct {
	Query    string
	UserName string
	UserID   string
}

// TurnResult is what a finished turn reports. Answer is always safe to show
// to the user; raw provider errors never land here.
type TurnResult struct {
	Answer            string
	Outcome           Outcome
	RoutedCollections []string
	CandidateCount    int
	SelectedCount     int
	Elapsed           time.Duration
}

// Workflow drives one turn through the state machine:
// START -> ROUTE_AND_RETRIEVE -> RELEVANCE_FILTER -> SYNTHESIZE -> STOP,
// with the filter branching into context-found / no-context, both merging
// into synthesis. Steps within a turn run strictly sequentially.
type Workflow struct {
	collections *registry.Registry
	selector    *router.Selector
	aggregator  *retrieval.Aggregator
	filter      *relevance.Filter
	engines     *engine.Registry
	logger      logger.ILogger
}

func NewWorkflow(
	collections *registry.Registry,
	selector *router.Selector,
	aggregator *retrieval.Aggregator,
	filter *relevance.Filter,
	engines *engine.Registry,
	log logger.ILogger,
) *Workflow {
	return &Workflow{
		collections: collections,
		selector:    selector,
		aggregator:  aggregator,
		filter:      filter,
		engines:     engines,
		logger:      log,
	}
}

// Run executes one turn. The returned error is non-nil only for genuine
// aborts (malformed filter output, token budget misconfiguration, provider
// failure); the TurnResult always carries a presentable answer regardless.
func (w *Workflow) Run(ctx context.Context, input TurnInput) (*TurnResult, error) {
	started := time.Now()
	result := &TurnResult{}

	// START: a turn without query, user name and user id makes no model
	// calls at all
	if input.Query == "" || input.UserName == "" || input.UserID == "" {
		w.logger.Warn("workflow", "Turn is missing required input, skipping", map[string]interface{}{
			"has_query": input.Query != "",
			"has_name":  input.UserName != "",
			"has_id":    input.UserID != "",
		})
		result.Outcome = OutcomeMissingInput
		result.Answer = constant.RequestFailedAnswerV1
		result.Elapsed = time.Since(started)
		return result, nil
	}

	// ROUTE_AND_RETRIEVE
	contextBlock, err := w.routeAndRetrieve(ctx, input.Query, result)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Answer = constant.RequestFailedAnswerV1
		result.Elapsed = time.Since(started)
		return result, err
	}

	// SYNTHESIZE (both branches merge here)
	eng, err := w.engines.GetOrCreate(input.UserID)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Answer = constant.RequestFailedAnswerV1
		result.Elapsed = time.Since(started)
		return result, err
	}

	if contextBlock == "" {
		answer := fmt.Sprintf(constant.NoContextAnswerV1, input.UserName)
		if recordErr := eng.Record(ctx, input.Query, answer); recordErr != nil {
			w.logger.Error("workflow", "Failed to record no-context turn", map[string]interface{}{
				"user_id": input.UserID,
				"error":   recordErr.Error(),
			})
		}
		result.Outcome = OutcomeNoContext
		result.Answer = answer
		result.Elapsed = time.Since(started)
		return result, nil
	}

	answer, err := eng.Chat(ctx, input.Query, input.UserName, contextBlock)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Answer = constant.RequestFailedAnswerV1
		result.Elapsed = time.Since(started)
		return result, err
	}

	result.Outcome = OutcomeAnswered
	result.Answer = answer
	result.Elapsed = time.Since(started)
	return result, nil
}

// routeAndRetrieve covers the ROUTE_AND_RETRIEVE and RELEVANCE_FILTER
// states and returns the assembled context block, or "" for the no-context
// branch.
func (w *Workflow) routeAndRetrieve(ctx context.Context, query string, result *TurnResult) (string, error) {
	selections, err := w.selector.Select(ctx, query, w.collections)
	if err != nil {
		return "", err
	}
	if len(selections) == 0 {
		w.logger.Info("workflow", "Router selected no collection for query", nil)
		return "", nil
	}

	collectionIDs := make([]string, len(selections))
	for i, sel := range selections {
		collectionIDs[i] = sel.CollectionID
	}
	result.RoutedCollections = collectionIDs

	candidates, err := w.aggregator.Retrieve(ctx, query, collectionIDs)
	if err != nil {
		return "", err
	}
	result.CandidateCount = len(candidates)

	if len(candidates) == 0 {
		w.logger.Info("workflow", "Knowledge base returned no candidates, skipping relevance filter", map[string]interface{}{
			"collections": collectionIDs,
		})
		return "", nil
	}

	// RELEVANCE_FILTER
	// A malformed filter answer (no JSON array at all) aborts the turn
	// rather than guessing
	selectedIDs, err := w.filter.Filter(ctx, query, candidates)
	if err != nil {
		return "", err
	}
	result.SelectedCount = len(selectedIDs)

	if len(selectedIDs) == 0 {
		w.logger.Info("workflow", "Among retrieved passages, none contain relevant information", map[string]interface{}{
			"candidates": len(candidates),
		})
		return "", nil
	}

	return relevance.BuildContext(candidates, selectedIDs), nil
}
