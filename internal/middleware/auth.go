package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"constructhub/internal/domain"
	"constructhub/internal/pkg/jwt"
	"constructhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

var (
	errMissingToken   = errors.New("missing bearer token")
	errSessionRevoked = errors.New("session revoked")
)

type TokenValidator interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}

type SessionChecker interface {
	Active(ctx context.Context, sessionID string) (bool, error)
}

// Authenticator turns bearer tokens into a *domain.Identity on the request.
type Authenticator struct {
	tokens   TokenValidator
	sessions SessionChecker
}

func NewAuthenticator(tokens TokenValidator, sessions SessionChecker) *Authenticator {
	return &Authenticator{tokens: tokens, sessions: sessions}
}

// Resolve validates a raw token and checks that its session was not signed out.
func (a *Authenticator) Resolve(ctx context.Context, raw string) (*domain.Identity, error) {
	if raw == "" {
		return nil, errMissingToken
	}
	claims, err := a.tokens.ValidateToken(raw)
	if err != nil {
		return nil, err
	}
	identity, err := claims.Identity()
	if err != nil {
		return nil, err
	}
	if a.sessions != nil {
		active, err := a.sessions.Active(ctx, identity.SessionID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, errSessionRevoked
		}
	}
	return identity, nil
}

// Required rejects requests without a valid, active token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or malformed Authorization header")
			return
		}

		identity, err := a.Resolve(c.Request.Context(), raw)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// Optional attaches the identity when a valid token is present and lets
// anonymous requests through otherwise.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if identity, err := a.Resolve(c.Request.Context(), raw); err == nil {
				SetIdentity(c, identity)
			}
		}
		c.Next()
	}
}

// IdentityFrom returns the caller identity, or nil for anonymous requests.
func IdentityFrom(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*domain.Identity)
	return identity
}

// SetIdentity attaches identity to the request context.
func SetIdentity(c *gin.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)
	c.Set("user_id", identity.UserID.String())
	c.Set("role", string(identity.Role))
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return token, token != ""
}
