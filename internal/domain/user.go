package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleClient  UserRole = "client"
	RoleCompany UserRole = "company"
)

func (r UserRole) Valid() bool {
	return r == RoleClient || r == RoleCompany
}

type User struct {
	ID             uuid.UUID       `json:"id"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"-"`
	FullName       string          `json:"full_name"`
	Phone          string          `json:"phone,omitempty"`
	Role           UserRole        `json:"role"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	ClientProfile  *ClientProfile  `json:"client_profile,omitempty"`
	CompanyProfile *CompanyProfile `json:"company_profile,omitempty"`
}

// Identity returns the caller view of the user.
func (u *User) Identity() Identity {
	return Identity{
		UserID:   u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

type ClientProfile struct {
	ID              int64     `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Address         string    `json:"address,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CompanyProfile struct {
	ID              int64     `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	CompanyName     string    `json:"company_name"`
	BusinessLicense string    `json:"business_license,omitempty"`
	Address         string    `json:"address,omitempty"`
	Description     string    `json:"description,omitempty"`
	Website         string    `json:"website,omitempty"`
	LogoURL         string    `json:"logo_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CompanySummary is what listings show about the company that posted a project.
type CompanySummary struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	CompanyName string    `json:"company_name"`
	LogoURL     string    `json:"logo_url,omitempty"`
}

// Bidder is what a project owner sees about the client behind a bid.
type Bidder struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
}
