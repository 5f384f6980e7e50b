package project

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"constructhub/internal/domain"
	"constructhub/internal/modules/realtime"
	"constructhub/internal/pkg/validator"
	"constructhub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	featuredLimit = 3
	maxPageSize   = 100
)

type Service struct {
	projects   ProjectRepository
	categories CategoryRepository
	bids       BidReader
	notifier   Notifier
	log        logrus.FieldLogger
}

func NewService(projects ProjectRepository, categories CategoryRepository, bids BidReader, notifier Notifier, log logrus.FieldLogger) *Service {
	return &Service{
		projects:   projects,
		categories: categories,
		bids:       bids,
		notifier:   notifier,
		log:        log,
	}
}

// Create posts a new open project owned by the calling company.
func (s *Service) Create(ctx context.Context, identity *domain.Identity, req CreateProjectRequest) (*domain.Project, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !identity.IsCompany() {
		return nil, domain.ErrForbidden
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)

	extra := map[string]string{}
	if req.Budget != nil && req.Budget.IsNegative() {
		extra["budget"] = "must be 0 or more"
	}
	if err := validator.Check(req, extra); err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, *req.CategoryID, req.SubcategoryID); err != nil {
		return nil, err
	}

	p := &domain.Project{
		CompanyID:     identity.UserID,
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    *req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Location:      req.Location,
		Budget:        req.Budget,
		Status:        domain.ProjectOpen,
		StartDate:     parseOptionalDate(req.StartDate),
		EndDate:       parseOptionalDate(req.EndDate),
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("project: create: %w", err)
	}

	s.log.WithFields(logrus.Fields{"project_id": p.ID, "company_id": p.CompanyID}).Info("project created")
	return p, nil
}

func (s *Service) checkReferences(ctx context.Context, categoryID int64, subcategoryID *int64) error {
	if _, err := s.categories.GetCategory(ctx, categoryID); err != nil {
		if repository.IsNotFound(err) {
			return domain.NewValidationError(map[string]string{"category_id": "does not exist"})
		}
		return fmt.Errorf("project: load category: %w", err)
	}

	if subcategoryID == nil {
		return nil
	}
	sub, err := s.categories.GetSubcategory(ctx, *subcategoryID)
	if err != nil {
		if repository.IsNotFound(err) {
			return domain.NewValidationError(map[string]string{"subcategory_id": "does not exist"})
		}
		return fmt.Errorf("project: load subcategory: %w", err)
	}
	if !sub.BelongsTo(categoryID) {
		return domain.NewValidationError(map[string]string{"subcategory_id": "does not belong to the selected category"})
	}
	return nil
}

func parseOptionalDate(s string) *domain.Date {
	if s == "" {
		return nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

// List returns projects matching q, newest first.
func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Project, error) {
	f, err := parseFilter(q)
	if err != nil {
		return nil, err
	}
	return s.projects.List(ctx, f)
}

func parseFilter(q ListQuery) (domain.ProjectFilter, error) {
	var f domain.ProjectFilter
	fields := map[string]string{}

	if c := strings.TrimSpace(q.Category); c != "" && !strings.EqualFold(c, "all") {
		id, err := strconv.ParseInt(c, 10, 64)
		if err != nil || id <= 0 {
			fields["category"] = "must be a category id or all"
		} else {
			f.CategoryID = &id
		}
	}

	if st := strings.TrimSpace(q.Status); st != "" && !strings.EqualFold(st, "all") {
		status := domain.ProjectStatus(strings.ToLower(st))
		if !status.Valid() {
			fields["status"] = "must be one of: open, in_progress, completed, cancelled"
		} else {
			f.Status = &status
		}
	}

	if loc := strings.TrimSpace(q.Location); !strings.EqualFold(loc, "all") {
		f.Location = loc
	}
	f.Search = strings.TrimSpace(q.Search)

	if q.Limit != "" {
		n, err := strconv.Atoi(q.Limit)
		switch {
		case err != nil || n < 0:
			fields["limit"] = "must be a non-negative number"
		case n > maxPageSize:
			fields["limit"] = fmt.Sprintf("must be at most %d", maxPageSize)
		default:
			f.Limit = n
		}
	}
	if q.Offset != "" {
		n, err := strconv.Atoi(q.Offset)
		if err != nil || n < 0 {
			fields["offset"] = "must be a non-negative number"
		} else {
			f.Offset = n
		}
	}

	if len(fields) > 0 {
		return domain.ProjectFilter{}, domain.NewValidationError(fields)
	}
	return f, nil
}

// Featured returns the newest open projects for the landing page.
func (s *Service) Featured(ctx context.Context) ([]domain.Project, error) {
	open := domain.ProjectOpen
	return s.projects.List(ctx, domain.ProjectFilter{Status: &open, Limit: featuredLimit})
}

func (s *Service) Locations(ctx context.Context) ([]string, error) {
	return s.projects.Locations(ctx)
}

// Get returns the project with what the caller may do with it. A client
// also sees their own bid.
func (s *Service) Get(ctx context.Context, identity *domain.Identity, id uuid.UUID) (*Detail, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Detail{Project: p}
	if identity == nil {
		return d, nil
	}

	d.IsOwner = p.OwnedBy(identity.UserID)
	if identity.IsClient() {
		bid, err := s.bids.GetByProjectAndClient(ctx, p.ID, identity.UserID)
		switch {
		case err == nil:
			d.MyBid = bid
		case !repository.IsNotFound(err):
			return nil, fmt.Errorf("project: load own bid: %w", err)
		}
		d.CanBid = !d.IsOwner && p.Status.AcceptsBids() && d.MyBid == nil
	}
	return d, nil
}

// Mine lists the calling company's projects with bid counts.
func (s *Service) Mine(ctx context.Context, identity *domain.Identity) ([]Summary, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !identity.IsCompany() {
		return nil, domain.ErrForbidden
	}

	owner := identity.UserID
	projects, err := s.projects.List(ctx, domain.ProjectFilter{CompanyID: &owner})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	counts, err := s.bids.CountByProjects(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("project: count bids: %w", err)
	}

	out := make([]Summary, 0, len(projects))
	for _, p := range projects {
		out = append(out, Summary{Project: p, Bids: counts[p.ID]})
	}
	return out, nil
}

// UpdateStatus lets the owner move the project forward. Bidders are told.
func (s *Service) UpdateStatus(ctx context.Context, identity *domain.Identity, id uuid.UUID, req UpdateStatusRequest) (*domain.Project, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := validator.Check(req, nil); err != nil {
		return nil, err
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.IsCompany() || !p.OwnedBy(identity.UserID) {
		return nil, domain.ErrForbidden
	}

	next := domain.ProjectStatus(req.Status)
	if !p.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.projects.UpdateStatus(ctx, p.ID, p.Status, next); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, fmt.Errorf("project: update status: %w", err)
	}

	s.log.WithFields(logrus.Fields{"project_id": p.ID, "from": p.Status, "to": next}).Info("project status changed")

	previous := p.Status
	p.Status = next
	s.notifyBidders(ctx, p, previous)
	return p, nil
}

func (s *Service) notifyBidders(ctx context.Context, p *domain.Project, previous domain.ProjectStatus) {
	bids, err := s.bids.ListByProject(ctx, p.ID)
	if err != nil {
		s.log.WithError(err).WithField("project_id", p.ID).Warn("project: list bidders for notification")
		return
	}
	payload := map[string]any{"project_id": p.ID, "from": previous, "to": p.Status}
	for _, b := range bids {
		s.notifier.Publish(b.ClientID, realtime.EventProjectStatusChanged, payload)
	}
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("project: load: %w", err)
	}
	return p, nil
}
