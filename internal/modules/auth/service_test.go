package auth

import (
	"context"
	"testing"
	"time"

	"constructhub/internal/domain"
	"constructhub/internal/modules/realtime"
	"constructhub/internal/pkg/jwt"
	"constructhub/internal/pkg/logger"
	"constructhub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateWithProfile(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil && u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Save(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	return m.Called(ctx, sessionID, userID, ttl).Error(0)
}

func (m *mockSessions) Revoke(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type recordedEvent struct {
	userID    uuid.UUID
	eventType string
}

type fakeNotifier struct {
	events []recordedEvent
}

func (f *fakeNotifier) Publish(userID uuid.UUID, eventType string, _ any) {
	f.events = append(f.events, recordedEvent{userID, eventType})
}

func newTestService() (*Service, *mockUserRepo, *mockSessions, *fakeNotifier) {
	users := new(mockUserRepo)
	sessions := new(mockSessions)
	notifier := &fakeNotifier{}
	svc := NewService(users, jwt.New("test-secret", time.Hour), sessions, notifier, logger.Discard())
	return svc, users, sessions, notifier
}

func validClientSignup() SignupRequest {
	return SignupRequest{
		Role:            "client",
		Email:           "Client@Example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FullName:        "Abebe Kebede",
		Phone:           "+251911000000",
		Bio:             "Electrician",
	}
}

func TestSignup_ClientCreatesProfile(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("CreateWithProfile", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleClient &&
			u.Email == "client@example.com" &&
			u.ClientProfile != nil && u.ClientProfile.Bio == "Electrician" &&
			u.CompanyProfile == nil &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)

	user, err := svc.Signup(context.Background(), validClientSignup())
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, domain.RoleClient, user.Role)
	users.AssertExpectations(t)
}

func TestSignup_CompanyCreatesProfile(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("CreateWithProfile", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleCompany &&
			u.FullName == "Acme Builders" &&
			u.CompanyProfile != nil &&
			u.CompanyProfile.CompanyName == "Acme Builders" &&
			u.CompanyProfile.Website == "https://acme.example"
	})).Return(nil)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Role:            "company",
		Email:           "co@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		CompanyName:     "Acme Builders",
		Website:         "https://acme.example",
	})
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestSignup_ValidationErrors(t *testing.T) {
	svc, users, _, _ := newTestService()

	req := validClientSignup()
	req.ConfirmPassword = "different"
	req.FullName = ""
	_, err := svc.Signup(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrValidation)
	fields := domain.FieldErrors(err)
	assert.Contains(t, fields, "confirm_password")
	assert.Contains(t, fields, "full_name")

	_, err = svc.Signup(context.Background(), SignupRequest{
		Role: "company", Email: "co@example.com", Password: "secret1", ConfirmPassword: "secret1",
		CompanyName: "A", Website: "nope",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	fields = domain.FieldErrors(err)
	assert.Equal(t, "must be at least 2 characters", fields["company_name"])
	assert.Equal(t, "must be a valid URL", fields["website"])

	req = validClientSignup()
	req.Role = "admin"
	_, err = svc.Signup(context.Background(), req)
	assert.Contains(t, domain.FieldErrors(err), "role")

	users.AssertNotCalled(t, "CreateWithProfile", mock.Anything, mock.Anything)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("CreateWithProfile", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Signup(context.Background(), validClientSignup())
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestSignin_IssuesTokenAndSession(t *testing.T) {
	svc, users, sessions, notifier := newTestService()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	user := &domain.User{ID: uuid.New(), Email: "c@example.com", FullName: "C", Role: domain.RoleClient, PasswordHash: string(hash)}

	users.On("GetByEmail", mock.Anything, "c@example.com").Return(user, nil)
	sessions.On("Save", mock.Anything, mock.AnythingOfType("string"), user.ID, time.Hour).Return(nil)

	result, err := svc.Signin(context.Background(), SigninRequest{Email: "c@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, int64(3600), result.ExpiresIn)
	assert.Empty(t, result.User.PasswordHash)
	assert.Equal(t, []recordedEvent{{user.ID, realtime.EventSessionStarted}}, notifier.events)
	sessions.AssertExpectations(t)
}

func TestSignin_InvalidCredentials(t *testing.T) {
	svc, users, sessions, _ := newTestService()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	users.On("GetByEmail", mock.Anything, "c@example.com").Return(&domain.User{PasswordHash: string(hash)}, nil)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Signin(context.Background(), SigninRequest{Email: "c@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Signin(context.Background(), SigninRequest{Email: "ghost@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignout(t *testing.T) {
	svc, _, sessions, notifier := newTestService()
	identity := &domain.Identity{UserID: uuid.New(), Role: domain.RoleClient, SessionID: "sess-1"}
	sessions.On("Revoke", mock.Anything, "sess-1").Return(nil)

	require.NoError(t, svc.Signout(context.Background(), identity))
	assert.Equal(t, []recordedEvent{{identity.UserID, realtime.EventSessionEnded}}, notifier.events)

	assert.ErrorIs(t, svc.Signout(context.Background(), nil), domain.ErrUnauthenticated)
}

func TestMe(t *testing.T) {
	svc, users, _, _ := newTestService()
	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(&domain.User{ID: id, PasswordHash: "x"}, nil)

	user, err := svc.Me(context.Background(), &domain.Identity{UserID: id})
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Me(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
