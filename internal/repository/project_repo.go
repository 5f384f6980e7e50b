package repository

import (
	"context"
	"strings"
	"time"

	"constructhub/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type projectModel struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID     uuid.UUID        `gorm:"column:company_id;type:uuid;not null;index"`
	Title         string           `gorm:"column:title;not null"`
	Description   string           `gorm:"column:description;type:text;not null"`
	CategoryID    int64            `gorm:"column:category_id;not null;index"`
	SubcategoryID *int64           `gorm:"column:subcategory_id"`
	Location      string           `gorm:"column:location;not null;index"`
	Budget        *decimal.Decimal `gorm:"column:budget;type:numeric(14,2)"`
	Status        string           `gorm:"column:status;not null;default:open;index"`
	StartDate     *datatypes.Date  `gorm:"column:start_date"`
	EndDate       *datatypes.Date  `gorm:"column:end_date"`
	CreatedAt     time.Time        `gorm:"column:created_at;index"`
	UpdatedAt     time.Time        `gorm:"column:updated_at"`

	Category    *categoryModel    `gorm:"foreignKey:CategoryID"`
	Subcategory *subcategoryModel `gorm:"foreignKey:SubcategoryID"`
	Company     *userModel        `gorm:"foreignKey:CompanyID"`
}

func (projectModel) TableName() string { return "projects" }

func toDomainProject(m projectModel) *domain.Project {
	p := &domain.Project{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		Title:         m.Title,
		Description:   m.Description,
		CategoryID:    m.CategoryID,
		SubcategoryID: m.SubcategoryID,
		Location:      m.Location,
		Budget:        m.Budget,
		Status:        domain.ProjectStatus(m.Status),
		StartDate:     fromDBDate(m.StartDate),
		EndDate:       fromDBDate(m.EndDate),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Category != nil {
		c := toDomainCategory(*m.Category)
		p.Category = &c
	}
	if m.Subcategory != nil {
		s := toDomainSubcategory(*m.Subcategory)
		p.Subcategory = &s
	}
	if m.Company != nil {
		p.Company = toCompanySummary(*m.Company)
	}
	return p
}

func toProjectModel(p *domain.Project) projectModel {
	return projectModel{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		Title:         p.Title,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		SubcategoryID: p.SubcategoryID,
		Location:      p.Location,
		Budget:        p.Budget,
		Status:        string(p.Status),
		StartDate:     toDBDate(p.StartDate),
		EndDate:       toDBDate(p.EndDate),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toCompanySummary(m userModel) *domain.CompanySummary {
	s := &domain.CompanySummary{
		ID:          m.ID,
		FullName:    m.FullName,
		CompanyName: m.FullName,
	}
	if m.CompanyProfile != nil {
		if m.CompanyProfile.CompanyName != "" {
			s.CompanyName = m.CompanyProfile.CompanyName
		}
		s.LogoURL = deref(m.CompanyProfile.LogoURL)
	}
	return s
}

func toDBDate(d *domain.Date) *datatypes.Date {
	if d == nil {
		return nil
	}
	v := datatypes.Date(d.Time)
	return &v
}

func fromDBDate(d *datatypes.Date) *domain.Date {
	if d == nil {
		return nil
	}
	v := domain.NewDate(time.Time(*d))
	return &v
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = domain.ProjectOpen
	}
	m := toProjectModel(p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainProject(m)
	return nil
}

func (r *ProjectRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Preload("Company.CompanyProfile")
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var m projectModel
	if err := r.withRelations(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainProject(m), nil
}

// List returns projects newest first. Text filters match case-insensitively.
func (r *ProjectRepository) List(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error) {
	q := r.withRelations(ctx).Model(&projectModel{})

	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.CompanyID != nil {
		q = q.Where("company_id = ?", *f.CompanyID)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where(`LOWER(location) LIKE ? ESCAPE '\'`, likePattern(loc))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := likePattern(s)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, p, p)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var rows []projectModel
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Project, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProject(m))
	}
	return out, nil
}

// Locations returns the distinct project locations in ascending order.
func (r *ProjectRepository) Locations(ctx context.Context) ([]string, error) {
	var locations []string
	err := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Distinct("location").
		Order("location ASC").
		Pluck("location", &locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// UpdateStatus moves the project from one status to another. It returns
// ErrStatusChanged when the project is no longer in status from.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ProjectStatus) error {
	res := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
