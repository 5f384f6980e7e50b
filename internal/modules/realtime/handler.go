package realtime

import (
	"context"
	"net/http"

	"constructhub/internal/domain"
	"constructhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type identityResolver interface {
	Resolve(ctx context.Context, raw string) (*domain.Identity, error)
}

type Handler struct {
	hub      *Hub
	auth     identityResolver
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the listed origins; an empty list allows any.
func NewHandler(hub *Hub, auth identityResolver, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/ws", h.Connect)
}

// Connect upgrades to a websocket feed of the caller's events.
// Browsers cannot set headers on websocket requests, so the token comes in
// the query string.
func (h *Handler) Connect(c *gin.Context) {
	identity, err := h.auth.Resolve(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	h.hub.Serve(conn, identity.UserID)
}
