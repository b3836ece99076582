package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yearboard/core/internal/domain/entities"
)

// BoardRepository defines the interface for board data operations.
// Every call is scoped by the owning profile or user id; implementations
// must never return another owner's rows.
type BoardRepository interface {
	Fetch(ctx context.Context, ownerID uuid.UUID) (*entities.AppData, error)
	UpsertDay(ctx context.Context, ownerID uuid.UUID, entry entities.DayEntry) error
	DeleteDay(ctx context.Context, ownerID uuid.UUID, date string) error
	UpsertEvent(ctx context.Context, ownerID uuid.UUID, event entities.CalendarEvent) error
	DeleteEvent(ctx context.Context, ownerID uuid.UUID, id string) error
	UpsertRectangle(ctx context.Context, ownerID uuid.UUID, rect entities.CanvasRectangle) error
	DeleteRectangle(ctx context.Context, ownerID uuid.UUID, id string) error
	ResetAll(ctx context.Context, ownerID uuid.UUID) error
}

// ProfileRepository defines the interface for local profile management.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entities.UserProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.UserProfile, error)
	GetByName(ctx context.Context, name string) (*entities.UserProfile, error)
	List(ctx context.Context) ([]*entities.UserProfile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the interface for sync-server accounts.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// AuthRepository defines the interface for refresh-token storage.
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// RefreshToken represents a refresh token record.
type RefreshToken struct {
	ID        int        `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// IsExpired checks if the refresh token is expired.
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsRevoked checks if the refresh token is revoked.
func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsValid checks if the refresh token is valid.
func (rt *RefreshToken) IsValid() bool {
	return !rt.IsExpired() && !rt.IsRevoked()
}
