package jwt

import (
	"errors"
	"time"

	"constructhub/internal/domain"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	jwtlib.RegisteredClaims
}

// Identity converts verified claims into the caller identity.
func (c *Claims) Identity() (*domain.Identity, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &domain.Identity{
		UserID:    id,
		Email:     c.Email,
		FullName:  c.FullName,
		Role:      domain.UserRole(c.Role),
		SessionID: c.ID,
	}, nil
}

// Token is a signed access token and its session id.
type Token struct {
	Value     string
	SessionID string
	ExpiresAt time.Time
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) GenerateToken(identity domain.Identity) (*Token, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	sessionID := uuid.NewString()

	claims := Claims{
		UserID:   identity.UserID.String(),
		Email:    identity.Email,
		FullName: identity.FullName,
		Role:     string(identity.Role),
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        sessionID,
			Subject:   identity.UserID.String(),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Token{Value: signed, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}), jwtlib.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
