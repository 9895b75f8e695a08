package dto

import "time"

type AskRequest struct {
	Query    string `json:"query" validate:"required"`
	UserName string `json:"user_name" validate:"required"`
	UserId   string `json:"user_id" validate:"required"`
}

type AskResponse struct {
	Answer            string   `json:"answer"`
	Outcome           string   `json:"outcome"`
	RoutedCollections []string `json:"routed_collections,omitempty"`
	ElapsedMs         int64    `json:"elapsed_ms"`
}

type ChatHistoryMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type GetChatHistoryResponse struct {
	UserId   string               `json:"user_id"`
	Messages []ChatHistoryMessage `json:"messages"`
}

type CollectionResponse struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
