package constant

import "time"

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
	ChatMessageRoleTool      = "tool"

	// Retrieval defaults
	SimilarityTopK   = 5
	RouterMaxOutputs = 3

	// Chat memory defaults
	ChatMemoryTokenLimit  = 2000
	ChatMemoryFetchWindow = 50
	ChatHistoryTTL        = 24 * time.Hour

	// Redis key prefix for per-user chat history lists
	ChatHistoryKeyPrefix = "chat:user_"

	// Engine cache
	EngineCacheTTL     = 1 * time.Hour
	EngineCacheCleanup = 10 * time.Minute

	// Internal pub/sub topic for completed chat turns
	ChatTurnCompletedTopic = "CHAT_TURN_COMPLETED"

	// Hard ceiling for one question/answer round trip
	AskTimeout = 90 * time.Second

	// COLLECTION ROUTING - numbered choice selection, JSON only
	RouterSelectorPromptV1 = `Some choices are given below. It is provided in a numbered list (1 to %d), where each item in the list corresponds to a summary.
---------------------
%s
---------------------
Using only the choices above and not prior knowledge, return the top choice(s) (no more than %d) that are most relevant to the question: '%s'
Your response MUST be ONLY a valid JSON list of objects, where each object has a 'choice' (integer) and 'reason' (string) key. Do not include any other text, markdown formatting, or explanations.`

	// RELEVANCE CHECK - prune retrieved passages before synthesis
	RelevanceCheckPromptV1 = `You are given a user question and a set of retrieved passages, each identified by an id.

Question: %s

Passages:
%s

Return ONLY the ids of passages whose content directly helps answer the question. Base the decision strictly on the passage text, not prior knowledge.
Your response MUST be a bare JSON array of id strings, for example ["id1", "id3"]. An empty array [] means no passage is relevant. No other text.`

	// SYNTHESIS - system prompt for the per-user chat engine
	ChatSystemPromptV1 = `You are a helpful knowledge-base assistant. Answer the user's question using the conversation history and, when provided, the context block.

Rules:
- Base answers strictly on the provided context and conversation history
- Do not add external knowledge or speculate
- Address the user by name when it is given
- Keep answers clear and concise (2-5 sentences unless more detail is asked for)
- If the context does not contain the answer, say so honestly`

	// Fallback when nothing relevant was retrieved. First %s is the user's name.
	NoContextAnswerV1 = "%s, I am sorry, but it seems that I don't have an answer to your question in my knowledge base, or it might be irrelevant."

	// Generic failure answer, never exposes provider errors
	RequestFailedAnswerV1 = "Sorry, the request failed while processing your question. Please try again."
)
