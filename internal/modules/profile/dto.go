package profile

// UpdateProfileRequest carries only the fields being changed. Fields that
// belong to the other role are ignored.
type UpdateProfileRequest struct {
	Phone *string `json:"phone" validate:"omitempty,max=32"`

	// client
	Address         *string `json:"address" validate:"omitempty,max=255"`
	Bio             *string `json:"bio"`
	ProfileImageURL *string `json:"profile_image_url" validate:"omitempty,optional_url"`

	// company
	CompanyName     *string `json:"company_name" validate:"omitempty,min=2"`
	BusinessLicense *string `json:"business_license"`
	Description     *string `json:"description"`
	Website         *string `json:"website" validate:"omitempty,optional_url"`
	LogoURL         *string `json:"logo_url" validate:"omitempty,optional_url"`
}
