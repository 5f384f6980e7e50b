package profile

import (
	"context"

	"constructhub/internal/domain"

	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, u *domain.User) error
}
