package auth

import "constructhub/internal/domain"

// SignupRequest covers both account kinds; Role selects which of the
// optional fields apply.
type SignupRequest struct {
	Role            string `json:"role" validate:"required,oneof=client company"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string `json:"full_name" validate:"omitempty,min=2"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`

	// client
	Bio string `json:"bio"`

	// company
	CompanyName     string `json:"company_name"`
	BusinessLicense string `json:"business_license"`
	Description     string `json:"description"`
	Website         string `json:"website" validate:"omitempty,url"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SigninResult struct {
	User        *domain.User
	AccessToken string
	ExpiresIn   int64
}
