package types

import (
	"net/http"
	"time"
)

// Response envelopes of the dashboard API, one per endpoint.

type UserResponse struct {
	User User `json:"user"`
}

type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type TransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

type WebhookResponse struct {
	Transaction Transaction `json:"transaction"`
	Message     string      `json:"message"`
}

type ChartDataListResponse struct {
	ChartData []ChartData `json:"chartData"`
}

type ChartDataResponse struct {
	ChartData ChartData `json:"chartData"`
}

type CallAnalyticsResponse struct {
	CallAnalytics []CallAnalytics `json:"callAnalytics"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error     string                 `json:"error"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewErrorResponse fills Error from the HTTP status text.
func NewErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
