// Package dto contains data transfer objects for the download domain
package dto

// StartCommandRequest represents a request to handle /start command
type StartCommandRequest struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}

// CommandResponse represents a response for bot commands
type CommandResponse struct {
	Message string `json:"message"`
}

// InlineQueryRequest represents an inline query typed by a user
type InlineQueryRequest struct {
	QueryID string `json:"queryId" validate:"required"`
	UserID  int64  `json:"userId"`
	Query   string `json:"query"`
}

// ChosenResultRequest represents a user picking the placeholder result
type ChosenResultRequest struct {
	ResultID        string `json:"resultId"`
	UserID          int64  `json:"userId"`
	InlineMessageID string `json:"inlineMessageId"`
	Query           string `json:"query"`
}
