package profile

import (
	"context"
	"fmt"
	"strings"

	"constructhub/internal/domain"
	"constructhub/internal/pkg/validator"
	"constructhub/internal/repository"

	"github.com/sirupsen/logrus"
)

type Service struct {
	users UserRepository
	log   logrus.FieldLogger
}

func NewService(users UserRepository, log logrus.FieldLogger) *Service {
	return &Service{users: users, log: log}
}

// Get returns the caller's account with its role profile.
func (s *Service) Get(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("profile: load: %w", err)
	}
	u.PasswordHash = ""
	return u, nil
}

// Update applies req to the caller's own profile. There is no way to name
// another user here; the target is always identity.UserID.
func (s *Service) Update(ctx context.Context, identity *domain.Identity, req UpdateProfileRequest) (*domain.User, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	for _, f := range []*string{req.Phone, req.Address, req.Bio, req.ProfileImageURL,
		req.CompanyName, req.BusinessLicense, req.Description, req.Website, req.LogoURL} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}

	extra := map[string]string{}
	if identity.IsCompany() && req.CompanyName != nil && *req.CompanyName == "" {
		extra["company_name"] = "is required"
	}
	if err := validator.Check(req, extra); err != nil {
		return nil, err
	}

	u, err := s.Get(ctx, identity)
	if err != nil {
		return nil, err
	}

	apply(&u.Phone, req.Phone)
	switch u.Role {
	case domain.RoleClient:
		if u.ClientProfile == nil {
			u.ClientProfile = &domain.ClientProfile{UserID: u.ID}
		}
		p := u.ClientProfile
		apply(&p.Address, req.Address)
		apply(&p.Bio, req.Bio)
		apply(&p.ProfileImageURL, req.ProfileImageURL)
	case domain.RoleCompany:
		if u.CompanyProfile == nil {
			u.CompanyProfile = &domain.CompanyProfile{UserID: u.ID}
		}
		p := u.CompanyProfile
		apply(&p.CompanyName, req.CompanyName)
		apply(&p.BusinessLicense, req.BusinessLicense)
		apply(&p.Address, req.Address)
		apply(&p.Description, req.Description)
		apply(&p.Website, req.Website)
		apply(&p.LogoURL, req.LogoURL)
	}

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, fmt.Errorf("profile: update: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("profile updated")
	return s.Get(ctx, identity)
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
