package project

import (
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

// RegisterRoutes mounts browse and create routes on a group that resolves
// identity optionally, and the dashboard and status routes on the protected one.
func (h *Handler) RegisterRoutes(optional, protected *gin.RouterGroup) {
	projects := optional.Group("/projects")
	{
		projects.GET("", h.List)
		projects.POST("", h.Create)
		projects.GET("/featured", h.Featured)
		projects.GET("/locations", h.Locations)
		projects.GET("/:id", h.Get)
	}

	mine := protected.Group("/projects")
	{
		mine.GET("/mine", middleware.RequireRole(domain.RoleCompany), h.Mine)
		mine.PATCH("/:id/status", h.UpdateStatus)
	}
}

// Create posts a new project.
// @Summary  Post a project
// @Tags     Projects
// @Router   /projects [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"project": p})
}

// List handles GET /api/v1/projects?category=&location=&search=&status=
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	projects, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"projects": projects, "count": len(projects)})
}

func (h *Handler) Featured(c *gin.Context) {
	projects, err := h.service.Featured(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) Locations(c *gin.Context) {
	locations, err := h.service.Locations(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"locations": locations})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": detail})
}

// Mine is the company dashboard.
func (h *Handler) Mine(c *gin.Context) {
	projects, err := h.service.Mine(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	p, err := h.service.UpdateStatus(c.Request.Context(), middleware.IdentityFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": p})
}

func projectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
		return uuid.Nil, false
	}
	return id, true
}
