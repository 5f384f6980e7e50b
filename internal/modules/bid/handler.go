package bid

import (
	"errors"
	"fmt"
	"net/http"

	"constructhub/internal/domain"
	"constructhub/internal/middleware"
	"constructhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts submission on the optional-auth group so anonymous
// visitors get a sign-in hint instead of a bare 401.
func (h *Handler) RegisterRoutes(optional, protected *gin.RouterGroup) {
	optional.POST("/projects/:id/bids", h.Submit)

	protected.GET("/projects/:id/bids", h.ListForProject)
	bids := protected.Group("/bids")
	{
		bids.GET("/mine", middleware.RequireRole(domain.RoleClient), h.Mine)
		bids.PATCH("/:id/status", h.Decide)
	}
}

// Submit places a bid on a project.
// @Summary  Submit a bid
// @Tags     Bids
// @Param    request body SubmitBidRequest true "bid_amount, proposal, experience"
// @Failure  401 {object} map[string]interface{} "details.sign_in_url"
// @Failure  409 {object} map[string]interface{} "already bid or project not open"
// @Router   /projects/{id}/bids [POST]
func (h *Handler) Submit(c *gin.Context) {
	projectID, ok := pathID(c, "Project not found")
	if !ok {
		return
	}

	var req SubmitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	b, err := h.service.Submit(c.Request.Context(), middleware.IdentityFrom(c), projectID, req)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			response.ErrorWithDetails(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Please sign in to submit a bid", gin.H{
				"sign_in_url": fmt.Sprintf("/login?redirect=/projects/%s", projectID),
			})
			return
		}
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"bid": b})
}

// ListForProject handles GET /api/v1/projects/:id/bids?status=all|pending|accepted|rejected
func (h *Handler) ListForProject(c *gin.Context) {
	projectID, ok := pathID(c, "Project not found")
	if !ok {
		return
	}

	result, err := h.service.ListForProject(c.Request.Context(), middleware.IdentityFrom(c), projectID, c.Query("status"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Decide(c *gin.Context) {
	bidID, ok := pathID(c, "Bid not found")
	if !ok {
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	b, err := h.service.Decide(c.Request.Context(), middleware.IdentityFrom(c), bidID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bid": b})
}

func (h *Handler) Mine(c *gin.Context) {
	bids, err := h.service.Mine(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bids": bids})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAlreadyBid):
		response.Error(c, http.StatusConflict, "ALREADY_BID", "You have already submitted a bid for this project")
	case errors.Is(err, ErrProjectNotOpen):
		response.Error(c, http.StatusConflict, "PROJECT_NOT_OPEN", "This project is no longer accepting bids")
	default:
		response.FromError(c, err)
	}
}

func pathID(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", notFound)
		return uuid.Nil, false
	}
	return id, true
}
