package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/yearboard/core/internal/domain/entities"
)

// AuthService interface for sync-server authentication operations.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(tokenString string) (*Claims, error)
}

// Auth related types.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Board mutation requests. The handlers bind and validate these before
// handing validated domain objects to the repositories. Day entries are
// addressed by the date in the URL path; a date in the body is ignored.
type UpsertDayRequest struct {
	Title string        `json:"title" validate:"max=200"`
	Notes string        `json:"notes" validate:"max=5000"`
	Mood  entities.Mood `json:"mood" validate:"omitempty,oneof=terrible bad neutral good excellent"`
	Tags  []string      `json:"tags" validate:"dive,max=50"`
}

type UpsertEventRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required,max=200"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate" validate:"required"`
	Category    string `json:"category" validate:"max=100"`
	Color       string `json:"color" validate:"omitempty,max=20"`
	Description string `json:"description" validate:"max=2000"`
}

type UpsertRectangleRequest struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" validate:"min=0"`
	Height float64 `json:"height" validate:"min=0"`
	Color  string  `json:"color" validate:"omitempty,max=20"`
	Text   string  `json:"text" validate:"max=500"`
}

// Common response envelopes.
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
