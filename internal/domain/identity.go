package domain

import "github.com/google/uuid"

// Identity is the authenticated caller. Workflow operations receive it
// explicitly; a nil *Identity means an anonymous visitor.
type Identity struct {
	UserID    uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      UserRole  `json:"role"`
	SessionID string    `json:"-"`
}

func (i *Identity) IsClient() bool {
	return i != nil && i.Role == RoleClient
}

func (i *Identity) IsCompany() bool {
	return i != nil && i.Role == RoleCompany
}
