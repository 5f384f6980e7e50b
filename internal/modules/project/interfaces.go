package project

import (
	"context"

	"constructhub/internal/domain"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error)
	Locations(ctx context.Context) ([]string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ProjectStatus) error
}

type CategoryRepository interface {
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	GetSubcategory(ctx context.Context, id int64) (*domain.Subcategory, error)
}

// BidReader is the slice of the bid store projects need.
type BidReader interface {
	GetByProjectAndClient(ctx context.Context, projectID, clientID uuid.UUID) (*domain.Bid, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Bid, error)
	CountByProjects(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID]domain.BidCounts, error)
}

type Notifier interface {
	Publish(userID uuid.UUID, eventType string, payload any)
}
