package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const ChatTurnCompletedType = "CHAT_TURN_COMPLETED"

// NewChatTurnCompleted builds the analytics event published after every
// finished turn.
func NewChatTurnCompleted(
	userID string,
	outcome string,
	routedCollections []string,
	candidateCount int,
	selectedCount int,
	elapsedMs int64,
) Event {
	return BaseEvent{
		Type: ChatTurnCompletedType,
		Data: map[string]interface{}{
			"user_id":            userID,
			"outcome":            outcome,
			"routed_collections": routedCollections,
			"candidate_count":    candidateCount,
			"selected_count":     selectedCount,
			"elapsed_ms":         elapsedMs,
		},
		OccurredAt: time.Now(),
	}
}
