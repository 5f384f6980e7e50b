package profile

import (
	"context"
	"testing"

	"constructhub/internal/domain"
	"constructhub/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// hand out a copy so the service cannot mutate the fixture
	u := *args.Get(0).(*domain.User)
	if u.ClientProfile != nil {
		p := *u.ClientProfile
		u.ClientProfile = &p
	}
	if u.CompanyProfile != nil {
		p := *u.CompanyProfile
		u.CompanyProfile = &p
	}
	return &u, args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func strPtr(s string) *string { return &s }

func TestGet(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, logger.Discard())
	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(&domain.User{ID: id, PasswordHash: "hash"}, nil)

	u, err := svc.Get(context.Background(), &domain.Identity{UserID: id})
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)

	_, err = svc.Get(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	missing := uuid.New()
	users.On("GetByID", mock.Anything, missing).Return(nil, gorm.ErrRecordNotFound)
	_, err = svc.Get(context.Background(), &domain.Identity{UserID: missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_ClientFields(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, logger.Discard())
	id := uuid.New()
	stored := &domain.User{
		ID:            id,
		Role:          domain.RoleClient,
		Phone:         "0911",
		ClientProfile: &domain.ClientProfile{UserID: id, Address: "Bole", Bio: "old"},
	}
	users.On("GetByID", mock.Anything, id).Return(stored, nil)
	users.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == id &&
			u.Phone == "0922" &&
			u.ClientProfile.Address == "Bole" &&
			u.ClientProfile.Bio == "Plumber" &&
			u.CompanyProfile == nil
	})).Return(nil)

	_, err := svc.Update(context.Background(), &domain.Identity{UserID: id, Role: domain.RoleClient}, UpdateProfileRequest{
		Phone:       strPtr(" 0922 "),
		Bio:         strPtr("Plumber"),
		CompanyName: strPtr("ignored for clients"),
	})
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestUpdate_CompanyFields(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, logger.Discard())
	id := uuid.New()
	stored := &domain.User{
		ID:             id,
		Role:           domain.RoleCompany,
		CompanyProfile: &domain.CompanyProfile{
			UserID:      id,
			CompanyName: "Acme",
			Website:     "https://old.example",
			LogoURL:     "https://old.example/logo.png",
		},
	}
	users.On("GetByID", mock.Anything, id).Return(stored, nil)
	users.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.CompanyProfile.CompanyName == "Acme Builders" &&
			u.CompanyProfile.Website == "" &&
			u.CompanyProfile.LogoURL == ""
	})).Return(nil)

	_, err := svc.Update(context.Background(), &domain.Identity{UserID: id, Role: domain.RoleCompany}, UpdateProfileRequest{
		CompanyName: strPtr("Acme Builders"),
		Website:     strPtr(""),
		LogoURL:     strPtr(" "),
	})
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestUpdate_ClientClearsImage(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, logger.Discard())
	id := uuid.New()
	stored := &domain.User{
		ID:            id,
		Role:          domain.RoleClient,
		ClientProfile: &domain.ClientProfile{UserID: id, ProfileImageURL: "https://cdn.example/me.jpg"},
	}
	users.On("GetByID", mock.Anything, id).Return(stored, nil)
	users.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ClientProfile.ProfileImageURL == ""
	})).Return(nil)

	_, err := svc.Update(context.Background(), &domain.Identity{UserID: id, Role: domain.RoleClient}, UpdateProfileRequest{
		ProfileImageURL: strPtr(""),
	})
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestUpdate_Validation(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, logger.Discard())
	company := &domain.Identity{UserID: uuid.New(), Role: domain.RoleCompany}

	_, err := svc.Update(context.Background(), company, UpdateProfileRequest{
		CompanyName: strPtr("A"),
		Website:     strPtr("not a url"),
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	fields := domain.FieldErrors(err)
	assert.Equal(t, "must be at least 2 characters", fields["company_name"])
	assert.Equal(t, "must be a valid URL", fields["website"])

	_, err = svc.Update(context.Background(), company, UpdateProfileRequest{CompanyName: strPtr("  ")})
	assert.Contains(t, domain.FieldErrors(err), "company_name")

	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}
