package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/litra-app/litra-backend/internal/adapters/http/dto"
	"github.com/litra-app/litra-backend/internal/app"
)

// CategoryHandler handles category HTTP endpoints.
type CategoryHandler struct {
	service *app.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service *app.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service: service,
	}
}

// CategoryListResponse wraps the derived category summaries.
type CategoryListResponse struct {
	Categories []app.CategorySummary `json:"categories"`
}

// ListCategories handles GET /api/v1/categories
// Categories are derived from quote tags, so the list always reflects
// the current collection.
//
// @Summary List categories
// @Description Lists categories in use, each with its color and quote count
// @Tags categories
// @Produce json
// @Success 200 {object} CategoryListResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	summaries, err := h.service.List(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryListResponse{
		Categories: summaries,
	})
}

// AssignColor handles PUT /api/v1/categories/:name/color
//
// @Summary Assign a category color
// @Description Pins a palette color to a category that is in use
// @Tags categories
// @Accept json
// @Param name path string true "Category name"
// @Param color body dto.AssignColorRequest true "Palette color"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/categories/{name}/color [put]
func (h *CategoryHandler) AssignColor(c *gin.Context) {
	name := c.Param("name")

	var req dto.AssignColorRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.service.AssignColor(c.Request.Context(), name, req.Color); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteCategory handles DELETE /api/v1/categories/:name
// Quotes tagged with the category become uncategorized; they are not deleted.
//
// @Summary Delete a category
// @Tags categories
// @Param name path string true "Category name"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/categories/{name} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	name := c.Param("name")

	if err := h.service.Delete(c.Request.Context(), name); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterCategoryRoutes registers category routes on the given router group.
func (h *CategoryHandler) RegisterCategoryRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.PUT("/:name/color", h.AssignColor)
	categories.DELETE("/:name", h.DeleteCategory)
}
