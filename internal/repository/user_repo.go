package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"constructhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	FullName     string    `gorm:"column:full_name"`
	Phone        *string   `gorm:"column:phone"`
	Role         string    `gorm:"column:role;not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`

	ClientProfile  *clientProfileModel  `gorm:"foreignKey:UserID"`
	CompanyProfile *companyProfileModel `gorm:"foreignKey:UserID"`
}

func (userModel) TableName() string { return "users" }

type clientProfileModel struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`
	Address         *string   `gorm:"column:address"`
	Bio             *string   `gorm:"column:bio"`
	ProfileImageURL *string   `gorm:"column:profile_image_url"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (clientProfileModel) TableName() string { return "client_profiles" }

type companyProfileModel struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`
	CompanyName     string    `gorm:"column:company_name;not null"`
	BusinessLicense *string   `gorm:"column:business_license"`
	Address         *string   `gorm:"column:address"`
	Description     *string   `gorm:"column:description"`
	Website         *string   `gorm:"column:website"`
	LogoURL         *string   `gorm:"column:logo_url"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (companyProfileModel) TableName() string { return "company_profiles" }

func toDomainUser(m userModel) *domain.User {
	u := &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		Phone:        deref(m.Phone),
		Role:         domain.UserRole(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.ClientProfile != nil {
		u.ClientProfile = toDomainClientProfile(*m.ClientProfile)
	}
	if m.CompanyProfile != nil {
		u.CompanyProfile = toDomainCompanyProfile(*m.CompanyProfile)
	}
	return u
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:           u.ID,
		Email:        strings.TrimSpace(strings.ToLower(u.Email)),
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Phone:        nullable(u.Phone),
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toDomainClientProfile(m clientProfileModel) *domain.ClientProfile {
	return &domain.ClientProfile{
		ID:              m.ID,
		UserID:          m.UserID,
		Address:         deref(m.Address),
		Bio:             deref(m.Bio),
		ProfileImageURL: deref(m.ProfileImageURL),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toClientProfileModel(p *domain.ClientProfile) clientProfileModel {
	return clientProfileModel{
		ID:              p.ID,
		UserID:          p.UserID,
		Address:         nullable(p.Address),
		Bio:             nullable(p.Bio),
		ProfileImageURL: nullable(p.ProfileImageURL),
	}
}

func toDomainCompanyProfile(m companyProfileModel) *domain.CompanyProfile {
	return &domain.CompanyProfile{
		ID:              m.ID,
		UserID:          m.UserID,
		CompanyName:     m.CompanyName,
		BusinessLicense: deref(m.BusinessLicense),
		Address:         deref(m.Address),
		Description:     deref(m.Description),
		Website:         deref(m.Website),
		LogoURL:         deref(m.LogoURL),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toCompanyProfileModel(p *domain.CompanyProfile) companyProfileModel {
	return companyProfileModel{
		ID:              p.ID,
		UserID:          p.UserID,
		CompanyName:     p.CompanyName,
		BusinessLicense: nullable(p.BusinessLicense),
		Address:         nullable(p.Address),
		Description:     nullable(p.Description),
		Website:         nullable(p.Website),
		LogoURL:         nullable(p.LogoURL),
	}
}

// CreateWithProfile inserts the user and the profile row matching its role
// in one transaction. A taken email yields ErrDuplicate.
func (r *UserRepository) CreateWithProfile(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m := toUserModel(u)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		switch u.Role {
		case domain.RoleClient:
			p := u.ClientProfile
			if p == nil {
				p = &domain.ClientProfile{}
			}
			p.UserID = m.ID
			pm := toClientProfileModel(p)
			if err := tx.Create(&pm).Error; err != nil {
				return err
			}
			m.ClientProfile = &pm
		case domain.RoleCompany:
			p := u.CompanyProfile
			if p == nil {
				p = &domain.CompanyProfile{CompanyName: u.FullName}
			}
			p.UserID = m.ID
			pm := toCompanyProfileModel(p)
			if err := tx.Create(&pm).Error; err != nil {
				return err
			}
			m.CompanyProfile = &pm
		default:
			return fmt.Errorf("create user: unknown role %q", u.Role)
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}

	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Preload("ClientProfile").
		Preload("CompanyProfile").
		Where("id = ?", id).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

// UpdateProfile writes the phone number and the role profile of u.
// Only rows owned by u.ID are touched.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userModel{}).
			Where("id = ?", u.ID).
			Update("phone", nullable(u.Phone)).Error; err != nil {
			return err
		}

		switch u.Role {
		case domain.RoleClient:
			if u.ClientProfile == nil {
				return nil
			}
			pm := toClientProfileModel(u.ClientProfile)
			return upsertProfile(tx, &clientProfileModel{}, u.ID, &pm, map[string]any{
				"address":           pm.Address,
				"bio":               pm.Bio,
				"profile_image_url": pm.ProfileImageURL,
			})
		case domain.RoleCompany:
			if u.CompanyProfile == nil {
				return nil
			}
			pm := toCompanyProfileModel(u.CompanyProfile)
			return upsertProfile(tx, &companyProfileModel{}, u.ID, &pm, map[string]any{
				"company_name":     pm.CompanyName,
				"business_license": pm.BusinessLicense,
				"address":          pm.Address,
				"description":      pm.Description,
				"website":          pm.Website,
				"logo_url":         pm.LogoURL,
			})
		}
		return nil
	})
}

// upsertProfile updates the profile row of userID, creating it when a legacy
// account has none yet.
func upsertProfile(tx *gorm.DB, model any, userID uuid.UUID, row any, fields map[string]any) error {
	res := tx.Model(model).Where("user_id = ?", userID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	switch p := row.(type) {
	case *clientProfileModel:
		p.UserID = userID
	case *companyProfileModel:
		p.UserID = userID
	}
	return tx.Create(row).Error
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
