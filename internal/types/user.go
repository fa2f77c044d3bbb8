package types

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email string `json:"email" binding:"required"`
}

type LogoutRequest struct {
	SessionID string `json:"sessionId"`
}

type LoginResponse struct {
	User      User   `json:"user"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}
