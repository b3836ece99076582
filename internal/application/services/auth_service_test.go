package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/infrastructure/config"
	"github.com/yearboard/core/internal/infrastructure/logger"
	"github.com/yearboard/core/internal/ports"
)

type fakeUsers struct {
	byEmail map[string]*entities.User
}

func (f *fakeUsers) Create(_ context.Context, user *entities.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return entities.ErrUserExists
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, entities.ErrUserNotFound
}

type fakeTokens struct {
	byHash map[string]*ports.RefreshToken
}

func (f *fakeTokens) CreateRefreshToken(_ context.Context, userID uuid.UUID, hash string, expiresAt time.Time) error {
	f.byHash[hash] = &ports.RefreshToken{
		UserID: userID, TokenHash: hash, ExpiresAt: expiresAt, CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeTokens) GetRefreshToken(_ context.Context, hash string) (*ports.RefreshToken, error) {
	if t, ok := f.byHash[hash]; ok {
		return t, nil
	}
	return nil, entities.ErrUnauthorized
}

func (f *fakeTokens) RevokeRefreshToken(_ context.Context, hash string) error {
	if t, ok := f.byHash[hash]; ok && t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (f *fakeTokens) RevokeAllUserTokens(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, t := range f.byHash {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func newTestAuth() (ports.AuthService, *fakeUsers, *fakeTokens) {
	users := &fakeUsers{byEmail: make(map[string]*entities.User)}
	tokens := &fakeTokens{byHash: make(map[string]*ports.RefreshToken)}
	cfg := config.JWTConfig{
		Secret:           "test-secret",
		ExpiresIn:        time.Hour,
		RefreshExpiresIn: 24 * time.Hour,
		Issuer:           "test",
	}
	return NewAuthService(users, tokens, cfg, logger.NewNop()), users, tokens
}

func TestRegisterAndValidate(t *testing.T) {
	auth, users, _ := newTestAuth()
	ctx := context.Background()

	resp, err := auth.Register(ctx, ports.RegisterRequest{
		Email: "a@example.com", Password: "hunter2hunter2", DisplayName: "A",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("tokens missing")
	}
	if resp.User.PasswordHash == "hunter2hunter2" {
		t.Error("password stored in clear")
	}

	claims, err := auth.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Email != "a@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.UserID != users.byEmail["a@example.com"].ID.String() {
		t.Error("claims user id mismatch")
	}

	// Registering the same email again fails.
	if _, err := auth.Register(ctx, ports.RegisterRequest{
		Email: "a@example.com", Password: "xxxxxxxxxxxx", DisplayName: "B",
	}); !errors.Is(err, entities.ErrUserExists) {
		t.Errorf("duplicate register: %v", err)
	}
}

func TestLogin(t *testing.T) {
	auth, _, _ := newTestAuth()
	ctx := context.Background()

	if _, err := auth.Register(ctx, ports.RegisterRequest{
		Email: "a@example.com", Password: "hunter2hunter2", DisplayName: "A",
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := auth.Login(ctx, ports.LoginRequest{Email: "a@example.com", Password: "hunter2hunter2"}); err != nil {
		t.Errorf("valid login: %v", err)
	}
	if _, err := auth.Login(ctx, ports.LoginRequest{Email: "a@example.com", Password: "wrong"}); !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("wrong password: %v", err)
	}
	// Unknown accounts look identical to wrong passwords.
	if _, err := auth.Login(ctx, ports.LoginRequest{Email: "b@example.com", Password: "whatever"}); !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("unknown email: %v", err)
	}
}

func TestRefreshRotates(t *testing.T) {
	auth, _, _ := newTestAuth()
	ctx := context.Background()

	resp, err := auth.Register(ctx, ports.RegisterRequest{
		Email: "a@example.com", Password: "hunter2hunter2", DisplayName: "A",
	})
	if err != nil {
		t.Fatal(err)
	}

	next, err := auth.RefreshToken(ctx, resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == resp.RefreshToken {
		t.Error("refresh token not rotated")
	}
	// The spent token cannot be used again.
	if _, err := auth.RefreshToken(ctx, resp.RefreshToken); !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("replayed refresh: %v", err)
	}
}

func TestLogoutRevokesRefresh(t *testing.T) {
	auth, users, _ := newTestAuth()
	ctx := context.Background()

	resp, err := auth.Register(ctx, ports.RegisterRequest{
		Email: "a@example.com", Password: "hunter2hunter2", DisplayName: "A",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := auth.Logout(ctx, users.byEmail["a@example.com"].ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := auth.RefreshToken(ctx, resp.RefreshToken); !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("refresh after logout: %v", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth, _, _ := newTestAuth()
	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := auth.ValidateToken(token); !errors.Is(err, entities.ErrUnauthorized) {
			t.Errorf("token %q: %v", token, err)
		}
	}
}
