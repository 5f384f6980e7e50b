package bid

import (
	"context"

	"constructhub/internal/domain"

	"github.com/google/uuid"
)

type BidRepository interface {
	Create(ctx context.Context, b *domain.Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bid, error)
	GetByProjectAndClient(ctx context.Context, projectID, clientID uuid.UUID) (*domain.Bid, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Bid, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Bid, error)
	Accept(ctx context.Context, id uuid.UUID) (*domain.Bid, error)
	Reject(ctx context.Context, id uuid.UUID) (*domain.Bid, error)
}

type ProjectReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
}

type Notifier interface {
	Publish(userID uuid.UUID, eventType string, payload any)
}
