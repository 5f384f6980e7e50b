package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"constructhub/internal/domain"
	"constructhub/internal/modules/realtime"
	"constructhub/internal/pkg/validator"
	"constructhub/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service contains all business logic for authentication
type Service struct {
	users    UserRepository
	tokens   TokenIssuer
	sessions SessionStore
	notifier Notifier
	log      logrus.FieldLogger
}

func NewService(users UserRepository, tokens TokenIssuer, sessions SessionStore, notifier Notifier, log logrus.FieldLogger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		notifier: notifier,
		log:      log,
	}
}

// Signup creates the account and its role profile together.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	req.CompanyName = strings.TrimSpace(req.CompanyName)

	if err := validator.Check(req, roleRules(req)); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         domain.UserRole(req.Role),
	}

	switch user.Role {
	case domain.RoleClient:
		user.ClientProfile = &domain.ClientProfile{
			Address: req.Address,
			Bio:     req.Bio,
		}
	case domain.RoleCompany:
		if user.FullName == "" {
			user.FullName = req.CompanyName
		}
		user.CompanyProfile = &domain.CompanyProfile{
			CompanyName:     req.CompanyName,
			BusinessLicense: req.BusinessLicense,
			Address:         req.Address,
			Description:     req.Description,
			Website:         req.Website,
		}
	}

	if err := s.users.CreateWithProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("auth: create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("account created")

	user.PasswordHash = ""
	return user, nil
}

func roleRules(req SignupRequest) map[string]string {
	rules := map[string]string{}
	switch domain.UserRole(req.Role) {
	case domain.RoleClient:
		if req.FullName == "" {
			rules["full_name"] = "is required"
		}
	case domain.RoleCompany:
		if req.CompanyName == "" {
			rules["company_name"] = "is required"
		} else if utf8.RuneCountInString(req.CompanyName) < 2 {
			rules["company_name"] = "must be at least 2 characters"
		}
	}
	return rules
}

// Signin checks the password and opens a session.
func (s *Service) Signin(ctx context.Context, req SigninRequest) (*SigninResult, error) {
	if err := validator.Check(req, nil); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("auth: issue token: %w", err)
	}
	if err := s.sessions.Save(ctx, token.SessionID, user.ID, s.tokens.TTL()); err != nil {
		return nil, fmt.Errorf("auth: save session: %w", err)
	}

	s.notifier.Publish(user.ID, realtime.EventSessionStarted, map[string]any{"session_id": token.SessionID})
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("signed in")

	user.PasswordHash = ""
	return &SigninResult{
		User:        user,
		AccessToken: token.Value,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// Signout revokes the caller's current session.
func (s *Service) Signout(ctx context.Context, identity *domain.Identity) error {
	if identity == nil {
		return domain.ErrUnauthenticated
	}
	if err := s.sessions.Revoke(ctx, identity.SessionID); err != nil {
		return fmt.Errorf("auth: revoke session: %w", err)
	}

	s.notifier.Publish(identity.UserID, realtime.EventSessionEnded, map[string]any{"session_id": identity.SessionID})
	s.log.WithField("user_id", identity.UserID).Info("signed out")
	return nil
}

// Me returns the caller's account with its profile.
func (s *Service) Me(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
