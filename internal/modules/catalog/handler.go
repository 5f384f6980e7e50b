package catalog

import (
	"net/http"

	"constructhub/internal/domain"
	"constructhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/categories", h.ListCategories)
}

// ListCategories handles GET /api/v1/categories?lang=en|am
func (h *Handler) ListCategories(c *gin.Context) {
	lang := domain.ParseLanguage(c.Query("lang"))

	categories, err := h.service.Categories(c.Request.Context(), lang)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"lang":       lang,
		"categories": categories,
	})
}
