package bid

import (
	"context"
	"testing"

	"constructhub/internal/domain"
	"constructhub/internal/modules/realtime"
	"constructhub/internal/pkg/logger"
	"constructhub/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockBidRepo struct {
	mock.Mock
}

func (m *mockBidRepo) Create(ctx context.Context, b *domain.Bid) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil {
		b.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockBidRepo) bid(args mock.Arguments) (*domain.Bid, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *mockBidRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	return m.bid(m.Called(ctx, id))
}

func (m *mockBidRepo) GetByProjectAndClient(ctx context.Context, projectID, clientID uuid.UUID) (*domain.Bid, error) {
	return m.bid(m.Called(ctx, projectID, clientID))
}

func (m *mockBidRepo) Accept(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	return m.bid(m.Called(ctx, id))
}

func (m *mockBidRepo) Reject(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	return m.bid(m.Called(ctx, id))
}

func (m *mockBidRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Bid, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]domain.Bid), args.Error(1)
}

func (m *mockBidRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Bid, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]domain.Bid), args.Error(1)
}

type mockProjects struct {
	mock.Mock
}

func (m *mockProjects) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

type published struct {
	userID    uuid.UUID
	eventType string
}

type fakeNotifier struct {
	events []published
}

func (f *fakeNotifier) Publish(userID uuid.UUID, eventType string, _ any) {
	f.events = append(f.events, published{userID, eventType})
}

func newTestService() (*Service, *mockBidRepo, *mockProjects, *fakeNotifier) {
	bids := new(mockBidRepo)
	projects := new(mockProjects)
	notifier := &fakeNotifier{}
	return NewService(bids, projects, notifier, logger.Discard()), bids, projects, notifier
}

func validBid() SubmitBidRequest {
	amount := decimal.RequireFromString("180000.50")
	return SubmitBidRequest{
		BidAmount:  &amount,
		Proposal:   "We will reinforce the deck and replace the railings.",
		Experience: "12 bridges in Oromia",
	}
}

func openProject(owner uuid.UUID) *domain.Project {
	return &domain.Project{ID: uuid.New(), CompanyID: owner, Title: "Bridge Repair", Status: domain.ProjectOpen}
}

func clientIdentity() *domain.Identity {
	return &domain.Identity{UserID: uuid.New(), FullName: "Abebe", Role: domain.RoleClient}
}

func TestSubmit_CreatesPendingBid(t *testing.T) {
	svc, bids, projects, notifier := newTestService()
	owner := uuid.New()
	p := openProject(owner)
	caller := clientIdentity()

	projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	bids.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Bid) bool {
		return b.Status == domain.BidPending && b.ClientID == caller.UserID && b.ProjectID == p.ID &&
			b.BidAmount.Equal(decimal.RequireFromString("180000.5"))
	})).Return(nil)

	b, err := svc.Submit(context.Background(), caller, p.ID, validBid())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, []published{{owner, realtime.EventBidSubmitted}}, notifier.events)
	bids.AssertExpectations(t)
}

func TestSubmit_ValidationComesFirst(t *testing.T) {
	svc, bids, _, _ := newTestService()

	zero := decimal.Zero
	_, err := svc.Submit(context.Background(), nil, uuid.New(), SubmitBidRequest{BidAmount: &zero, Proposal: "short"})
	require.ErrorIs(t, err, domain.ErrValidation)
	fields := domain.FieldErrors(err)
	assert.Equal(t, "must be greater than 0", fields["bid_amount"])
	assert.Equal(t, "must be at least 20 characters", fields["proposal"])

	_, err = svc.Submit(context.Background(), nil, uuid.New(), SubmitBidRequest{Proposal: validBid().Proposal})
	assert.Equal(t, "is required", domain.FieldErrors(err)["bid_amount"])

	bids.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_RequiresClient(t *testing.T) {
	svc, bids, projects, _ := newTestService()

	_, err := svc.Submit(context.Background(), nil, uuid.New(), validBid())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	company := &domain.Identity{UserID: uuid.New(), Role: domain.RoleCompany}
	_, err = svc.Submit(context.Background(), company, uuid.New(), validBid())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	projects.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	bids.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_ProjectMustBeOpen(t *testing.T) {
	svc, bids, projects, _ := newTestService()
	p := openProject(uuid.New())
	p.Status = domain.ProjectInProgress
	missing := uuid.New()
	projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	projects.On("GetByID", mock.Anything, missing).Return(nil, gorm.ErrRecordNotFound)
	bids.On("GetByProjectAndClient", mock.Anything, p.ID, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Submit(context.Background(), clientIdentity(), p.ID, validBid())
	assert.ErrorIs(t, err, ErrProjectNotOpen)

	_, err = svc.Submit(context.Background(), clientIdentity(), missing, validBid())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bids.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_ExistingBidOnClosedProject(t *testing.T) {
	svc, bids, projects, notifier := newTestService()
	p := openProject(uuid.New())
	p.Status = domain.ProjectInProgress
	caller := clientIdentity()
	projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	bids.On("GetByProjectAndClient", mock.Anything, p.ID, caller.UserID).
		Return(&domain.Bid{ID: uuid.New(), ProjectID: p.ID, ClientID: caller.UserID, Status: domain.BidAccepted}, nil)

	_, err := svc.Submit(context.Background(), caller, p.ID, validBid())
	assert.ErrorIs(t, err, ErrAlreadyBid)
	assert.Empty(t, notifier.events)
	bids.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_DuplicateIsAlreadyBid(t *testing.T) {
	svc, bids, projects, notifier := newTestService()
	p := openProject(uuid.New())
	projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	bids.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Submit(context.Background(), clientIdentity(), p.ID, validBid())
	assert.ErrorIs(t, err, ErrAlreadyBid)
	assert.Empty(t, notifier.events)
}

func TestListForProject_FiltersButCountsEverything(t *testing.T) {
	svc, bids, projects, _ := newTestService()
	owner := &domain.Identity{UserID: uuid.New(), Role: domain.RoleCompany}
	p := openProject(owner.UserID)
	projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)
	bids.On("ListByProject", mock.Anything, p.ID).Return([]domain.Bid{
		{ID: uuid.New(), Status: domain.BidPending},
		{ID: uuid.New(), Status: domain.BidAccepted},
		{ID: uuid.New(), Status: domain.BidPending},
		{ID: uuid.New(), Status: domain.BidRejected},
	}, nil)

	result, err := svc.ListForProject(context.Background(), owner, p.ID, "pending")
	require.NoError(t, err)
	assert.Len(t, result.Bids, 2)
	assert.Equal(t, domain.BidCounts{All: 4, Pending: 2, Accepted: 1, Rejected: 1}, result.Counts)

	result, err = svc.ListForProject(context.Background(), owner, p.ID, "")
	require.NoError(t, err)
	assert.Len(t, result.Bids, 4)
	assert.Equal(t, "all", result.Filter)

	_, err = svc.ListForProject(context.Background(), owner, p.ID, "withdrawn")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListForProject_OwnerOnly(t *testing.T) {
	svc, bids, projects, _ := newTestService()
	p := openProject(uuid.New())
	projects.On("GetByID", mock.Anything, p.ID).Return(p, nil)

	_, err := svc.ListForProject(context.Background(), &domain.Identity{UserID: uuid.New(), Role: domain.RoleCompany}, p.ID, "all")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.ListForProject(context.Background(), clientIdentity(), p.ID, "all")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	bids.AssertNotCalled(t, "ListByProject", mock.Anything, mock.Anything)
}

func TestDecide_AcceptMovesProject(t *testing.T) {
	svc, bids, _, notifier := newTestService()
	owner := &domain.Identity{UserID: uuid.New(), Role: domain.RoleCompany}
	p := openProject(owner.UserID)
	bidder := uuid.New()
	pending := &domain.Bid{ID: uuid.New(), ProjectID: p.ID, ClientID: bidder, Status: domain.BidPending, Project: p}

	inProgress := *p
	inProgress.Status = domain.ProjectInProgress
	accepted := *pending
	accepted.Status = domain.BidAccepted
	accepted.Project = &inProgress

	bids.On("GetByID", mock.Anything, pending.ID).Return(pending, nil)
	bids.On("Accept", mock.Anything, pending.ID).Return(&accepted, nil)

	b, err := svc.Decide(context.Background(), owner, pending.ID, DecideRequest{Status: "accepted"})
	require.NoError(t, err)
	assert.Equal(t, domain.BidAccepted, b.Status)
	assert.Equal(t, domain.ProjectInProgress, b.Project.Status)
	assert.Equal(t, []published{
		{bidder, realtime.EventBidStatusChanged},
		{owner.UserID, realtime.EventProjectStatusChanged},
	}, notifier.events)
	bids.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything)
}

func TestDecide_Reject(t *testing.T) {
	svc, bids, _, notifier := newTestService()
	owner := &domain.Identity{UserID: uuid.New(), Role: domain.RoleCompany}
	p := openProject(owner.UserID)
	pending := &domain.Bid{ID: uuid.New(), ProjectID: p.ID, ClientID: uuid.New(), Status: domain.BidPending, Project: p}
	rejected := *pending
	rejected.Status = domain.BidRejected
	rejected.Project = nil

	bids.On("GetByID", mock.Anything, pending.ID).Return(pending, nil)
	bids.On("Reject", mock.Anything, pending.ID).Return(&rejected, nil)

	b, err := svc.Decide(context.Background(), owner, pending.ID, DecideRequest{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, domain.BidRejected, b.Status)
	assert.Len(t, notifier.events, 1)
}

func TestDecide_Refusals(t *testing.T) {
	owner := &domain.Identity{UserID: uuid.New(), Role: domain.RoleCompany}

	t.Run("terminal bid", func(t *testing.T) {
		svc, bids, _, _ := newTestService()
		b := &domain.Bid{ID: uuid.New(), Status: domain.BidAccepted, Project: openProject(owner.UserID)}
		bids.On("GetByID", mock.Anything, b.ID).Return(b, nil)

		_, err := svc.Decide(context.Background(), owner, b.ID, DecideRequest{Status: "rejected"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		bids.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything)
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, bids, _, _ := newTestService()
		b := &domain.Bid{ID: uuid.New(), Status: domain.BidPending, Project: openProject(uuid.New())}
		bids.On("GetByID", mock.Anything, b.ID).Return(b, nil)

		_, err := svc.Decide(context.Background(), owner, b.ID, DecideRequest{Status: "accepted"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		bids.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything)
	})

	t.Run("project closed underneath", func(t *testing.T) {
		svc, bids, _, notifier := newTestService()
		b := &domain.Bid{ID: uuid.New(), Status: domain.BidPending, Project: openProject(owner.UserID)}
		bids.On("GetByID", mock.Anything, b.ID).Return(b, nil)
		bids.On("Accept", mock.Anything, b.ID).Return(nil, repository.ErrStatusChanged)

		_, err := svc.Decide(context.Background(), owner, b.ID, DecideRequest{Status: "accepted"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Empty(t, notifier.events)
	})

	t.Run("unknown decision", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.Decide(context.Background(), owner, uuid.New(), DecideRequest{Status: "pending"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing bid", func(t *testing.T) {
		svc, bids, _, _ := newTestService()
		id := uuid.New()
		bids.On("GetByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Decide(context.Background(), owner, id, DecideRequest{Status: "accepted"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMine(t *testing.T) {
	svc, bids, _, _ := newTestService()
	caller := clientIdentity()
	bids.On("ListByClient", mock.Anything, caller.UserID).Return([]domain.Bid{{ID: uuid.New()}}, nil)

	mine, err := svc.Mine(context.Background(), caller)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.Mine(context.Background(), &domain.Identity{UserID: uuid.New(), Role: domain.RoleCompany})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
