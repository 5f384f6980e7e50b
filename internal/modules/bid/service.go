package bid

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"constructhub/internal/domain"
	"constructhub/internal/modules/realtime"
	"constructhub/internal/pkg/validator"
	"constructhub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const filterAll = "all"

type Service struct {
	bids     BidRepository
	projects ProjectReader
	notifier Notifier
	log      logrus.FieldLogger
}

func NewService(bids BidRepository, projects ProjectReader, notifier Notifier, log logrus.FieldLogger) *Service {
	return &Service{
		bids:     bids,
		projects: projects,
		notifier: notifier,
		log:      log,
	}
}

// Submit places the caller's bid on an open project. Input is checked
// before identity so anonymous visitors see field errors first.
func (s *Service) Submit(ctx context.Context, identity *domain.Identity, projectID uuid.UUID, req SubmitBidRequest) (*domain.Bid, error) {
	req.Proposal = strings.TrimSpace(req.Proposal)
	req.Experience = strings.TrimSpace(req.Experience)

	extra := map[string]string{}
	switch {
	case req.BidAmount == nil:
		extra["bid_amount"] = "is required"
	case !req.BidAmount.IsPositive():
		extra["bid_amount"] = "must be greater than 0"
	}
	if err := validator.Check(req, extra); err != nil {
		return nil, err
	}

	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !identity.IsClient() {
		return nil, domain.ErrForbidden
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.Status.AcceptsBids() {
		// an earlier bid outranks the closed project
		_, err := s.bids.GetByProjectAndClient(ctx, project.ID, identity.UserID)
		switch {
		case err == nil:
			return nil, ErrAlreadyBid
		case !repository.IsNotFound(err):
			return nil, fmt.Errorf("bid: lookup existing: %w", err)
		}
		return nil, ErrProjectNotOpen
	}

	b := &domain.Bid{
		ProjectID:  project.ID,
		ClientID:   identity.UserID,
		BidAmount:  *req.BidAmount,
		Proposal:   req.Proposal,
		Experience: req.Experience,
		Status:     domain.BidPending,
	}
	if err := s.bids.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyBid
		}
		return nil, fmt.Errorf("bid: create: %w", err)
	}

	s.log.WithFields(logrus.Fields{"bid_id": b.ID, "project_id": project.ID, "client_id": identity.UserID}).Info("bid submitted")
	s.notifier.Publish(project.CompanyID, realtime.EventBidSubmitted, map[string]any{
		"bid_id":     b.ID,
		"project_id": project.ID,
		"bidder":     identity.FullName,
		"bid_amount": b.BidAmount,
	})
	return b, nil
}

// ListForProject returns the owner's review list. status is all, pending,
// accepted or rejected; empty means all.
func (s *Service) ListForProject(ctx context.Context, identity *domain.Identity, projectID uuid.UUID, status string) (*ProjectBids, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	filter := strings.ToLower(strings.TrimSpace(status))
	if filter == "" {
		filter = filterAll
	}
	if filter != filterAll && !domain.BidStatus(filter).Valid() {
		return nil, domain.NewValidationError(map[string]string{
			"status": "must be one of: all, pending, accepted, rejected",
		})
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !identity.IsCompany() || !project.OwnedBy(identity.UserID) {
		return nil, domain.ErrForbidden
	}

	all, err := s.bids.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("bid: list for project: %w", err)
	}

	out := &ProjectBids{Bids: make([]domain.Bid, 0, len(all)), Filter: filter}
	for _, b := range all {
		out.Counts.Add(b.Status, 1)
		if filter == filterAll || b.Status == domain.BidStatus(filter) {
			out.Bids = append(out.Bids, b)
		}
	}
	return out, nil
}

// Decide accepts or rejects a pending bid on the caller's project.
func (s *Service) Decide(ctx context.Context, identity *domain.Identity, bidID uuid.UUID, req DecideRequest) (*domain.Bid, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := validator.Check(req, nil); err != nil {
		return nil, err
	}

	current, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("bid: load: %w", err)
	}
	if current.Project == nil {
		return nil, fmt.Errorf("bid: %s has no project loaded", current.ID)
	}
	if !identity.IsCompany() || !current.Project.OwnedBy(identity.UserID) {
		return nil, domain.ErrForbidden
	}

	next := domain.BidStatus(req.Status)
	if !current.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	var decided *domain.Bid
	if next == domain.BidAccepted {
		decided, err = s.bids.Accept(ctx, current.ID)
	} else {
		decided, err = s.bids.Reject(ctx, current.ID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, fmt.Errorf("bid: %s: %w", next, err)
	}

	s.log.WithFields(logrus.Fields{"bid_id": decided.ID, "project_id": decided.ProjectID, "status": decided.Status}).Info("bid decided")

	s.notifier.Publish(decided.ClientID, realtime.EventBidStatusChanged, map[string]any{
		"bid_id":     decided.ID,
		"project_id": decided.ProjectID,
		"status":     decided.Status,
	})
	if decided.Project != nil && decided.Project.Status != current.Project.Status {
		s.notifier.Publish(current.Project.CompanyID, realtime.EventProjectStatusChanged, map[string]any{
			"project_id": decided.ProjectID,
			"from":       current.Project.Status,
			"to":         decided.Project.Status,
		})
	}
	return decided, nil
}

// Mine is the client dashboard.
func (s *Service) Mine(ctx context.Context, identity *domain.Identity) ([]domain.Bid, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !identity.IsClient() {
		return nil, domain.ErrForbidden
	}
	return s.bids.ListByClient(ctx, identity.UserID)
}

func (s *Service) loadProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("bid: load project: %w", err)
	}
	return p, nil
}
