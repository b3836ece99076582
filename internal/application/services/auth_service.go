package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/infrastructure/config"
	"github.com/yearboard/core/internal/infrastructure/logger"
	"github.com/yearboard/core/internal/ports"
)

type jwtClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthServiceImpl implements account registration, login and token
// lifecycle for the sync server.
type AuthServiceImpl struct {
	users ports.UserRepository
	auth  ports.AuthRepository
	cfg   config.JWTConfig
	log   *logger.Logger
}

func NewAuthService(users ports.UserRepository, auth ports.AuthRepository, cfg config.JWTConfig, log *logger.Logger) ports.AuthService {
	return &AuthServiceImpl{
		users: users,
		auth:  auth,
		cfg:   cfg,
		log:   log.WithComponent("auth"),
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entities.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infow("user registered", "user_id", user.ID, "email", user.Email)
	return s.issueTokens(ctx, user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == entities.ErrUserNotFound {
			return nil, entities.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, entities.ErrUnauthorized
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*ports.AuthResponse, error) {
	hash := hashToken(refreshToken)
	stored, err := s.auth.GetRefreshToken(ctx, hash)
	if err != nil {
		return nil, err
	}
	if !stored.IsValid() {
		return nil, entities.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	// Rotate: the presented token is spent whether or not issuing succeeds.
	if err := s.auth.RevokeRefreshToken(ctx, hash); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.auth.RevokeAllUserTokens(ctx, userID)
}

// ValidateToken parses an access token and returns its claims.
func (s *AuthServiceImpl) ValidateToken(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, entities.ErrUnauthorized
	}
	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return nil, entities.ErrUnauthorized
	}
	return &ports.Claims{UserID: claims.UserID, Email: claims.Email}, nil
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *entities.User) (*ports.AuthResponse, error) {
	now := time.Now()
	claims := jwtClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.ExpiresIn)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := randomToken()
	if err != nil {
		return nil, err
	}
	expiresAt := now.Add(s.cfg.RefreshExpiresIn)
	if err := s.auth.CreateRefreshToken(ctx, user.ID, hashToken(refreshToken), expiresAt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &ports.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.ExpiresIn.Seconds()),
		User:         user,
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// hashToken stores only a digest of refresh tokens; a leaked database
// cannot be replayed against the API.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
