package repository

import (
	"context"
	"time"

	"constructhub/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{db: db}
}

type bidModel struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProjectID  uuid.UUID       `gorm:"column:project_id;type:uuid;not null;uniqueIndex:idx_bids_project_client"`
	ClientID   uuid.UUID       `gorm:"column:client_id;type:uuid;not null;uniqueIndex:idx_bids_project_client;index"`
	BidAmount  decimal.Decimal `gorm:"column:bid_amount;type:numeric(14,2);not null"`
	Proposal   string          `gorm:"column:proposal;type:text;not null"`
	Experience *string         `gorm:"column:experience;type:text"`
	Status     string          `gorm:"column:status;not null;default:pending;index"`
	CreatedAt  time.Time       `gorm:"column:created_at;index"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`

	Project *projectModel `gorm:"foreignKey:ProjectID"`
	Client  *userModel    `gorm:"foreignKey:ClientID"`
}

func (bidModel) TableName() string { return "bids" }

func toDomainBid(m bidModel) *domain.Bid {
	b := &domain.Bid{
		ID:         m.ID,
		ProjectID:  m.ProjectID,
		ClientID:   m.ClientID,
		BidAmount:  m.BidAmount,
		Proposal:   m.Proposal,
		Experience: deref(m.Experience),
		Status:     domain.BidStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Project != nil {
		b.Project = toDomainProject(*m.Project)
	}
	if m.Client != nil {
		b.Bidder = toBidder(*m.Client)
	}
	return b
}

func toBidModel(b *domain.Bid) bidModel {
	return bidModel{
		ID:         b.ID,
		ProjectID:  b.ProjectID,
		ClientID:   b.ClientID,
		BidAmount:  b.BidAmount,
		Proposal:   b.Proposal,
		Experience: nullable(b.Experience),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func toBidder(m userModel) *domain.Bidder {
	b := &domain.Bidder{
		ID:       m.ID,
		FullName: m.FullName,
		Email:    m.Email,
		Phone:    deref(m.Phone),
	}
	if m.ClientProfile != nil {
		b.Address = deref(m.ClientProfile.Address)
		b.Bio = deref(m.ClientProfile.Bio)
		b.ProfileImageURL = deref(m.ClientProfile.ProfileImageURL)
	}
	return b
}

// Create inserts a bid. The unique (project_id, client_id) index is the only
// guard against a second bid by the same client; a violation yields ErrDuplicate.
func (r *BidRepository) Create(ctx context.Context, b *domain.Bid) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = domain.BidPending
	}
	m := toBidModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	*b = *toDomainBid(m)
	return nil
}

func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	var m bidModel
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainBid(m), nil
}

func (r *BidRepository) GetByProjectAndClient(ctx context.Context, projectID, clientID uuid.UUID) (*domain.Bid, error) {
	var m bidModel
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND client_id = ?", projectID, clientID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainBid(m), nil
}

// ListByProject returns the project's bids with bidder details, newest first.
func (r *BidRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Bid, error) {
	var rows []bidModel
	err := r.db.WithContext(ctx).
		Preload("Client.ClientProfile").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBids(rows), nil
}

// ListByClient returns a client's bids with project and company, newest first.
func (r *BidRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Bid, error) {
	var rows []bidModel
	err := r.db.WithContext(ctx).
		Preload("Project.Company.CompanyProfile").
		Preload("Project.Category").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBids(rows), nil
}

func toDomainBids(rows []bidModel) []domain.Bid {
	out := make([]domain.Bid, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBid(m))
	}
	return out
}

// CountByProjects partitions bid counts by status for each project id.
func (r *BidRepository) CountByProjects(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID]domain.BidCounts, error) {
	out := make(map[uuid.UUID]domain.BidCounts, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		ProjectID uuid.UUID
		Status    string
		Total     int64
	}
	err := r.db.WithContext(ctx).
		Model(&bidModel{}).
		Select("project_id, status, COUNT(*) AS total").
		Where("project_id IN ?", projectIDs).
		Group("project_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		c := out[row.ProjectID]
		c.Add(domain.BidStatus(row.Status), row.Total)
		out[row.ProjectID] = c
	}
	return out, nil
}

// Reject moves a pending bid to rejected.
func (r *BidRepository) Reject(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	var out *domain.Bid
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := transitionBid(tx, id, domain.BidRejected); err != nil {
			return err
		}
		var m bidModel
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			return err
		}
		out = toDomainBid(m)
		return nil
	})
	return out, err
}

// Accept marks a pending bid accepted and moves its project from open to
// in_progress in a single transaction. A project already in progress is
// left as is. If any write fails nothing is committed.
func (r *BidRepository) Accept(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	var out *domain.Bid
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bid bidModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&bid).Error; err != nil {
			return err
		}

		var project projectModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", bid.ProjectID).First(&project).Error; err != nil {
			return err
		}

		status := domain.ProjectStatus(project.Status)
		if status != domain.ProjectOpen && status != domain.ProjectInProgress {
			return ErrStatusChanged
		}

		if err := transitionBid(tx, id, domain.BidAccepted); err != nil {
			return err
		}

		if status == domain.ProjectOpen {
			res := tx.Model(&projectModel{}).
				Where("id = ? AND status = ?", project.ID, string(domain.ProjectOpen)).
				Update("status", string(domain.ProjectInProgress))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrStatusChanged
			}
		}

		if err := tx.Where("id = ?", id).First(&bid).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", project.ID).First(&project).Error; err != nil {
			return err
		}
		bid.Project = &project
		out = toDomainBid(bid)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func transitionBid(tx *gorm.DB, id uuid.UUID, to domain.BidStatus) error {
	res := tx.Model(&bidModel{}).
		Where("id = ? AND status = ?", id, string(domain.BidPending)).
		Update("status", string(to))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}
