package auth

import (
	"context"
	"time"

	"constructhub/internal/domain"
	"constructhub/internal/pkg/jwt"

	"github.com/google/uuid"
)

// UserRepository is the part of the user store auth needs.
type UserRepository interface {
	CreateWithProfile(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type TokenIssuer interface {
	GenerateToken(identity domain.Identity) (*jwt.Token, error)
	TTL() time.Duration
}

type SessionStore interface {
	Save(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error
	Revoke(ctx context.Context, sessionID string) error
}

type Notifier interface {
	Publish(userID uuid.UUID, eventType string, payload any)
}
