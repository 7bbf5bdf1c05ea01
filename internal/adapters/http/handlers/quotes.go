package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/litra-app/litra-backend/internal/adapters/http/dto"
	"github.com/litra-app/litra-backend/internal/app"
	"github.com/litra-app/litra-backend/internal/domain"
)

// QuoteHandler handles quote collection HTTP endpoints.
type QuoteHandler struct {
	service *app.LibraryService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.LibraryService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	ID         string `json:"id"`
	Text       string `json:"quote"`
	BookTitle  string `json:"bookTitle"`
	Author     string `json:"author"`
	PageNumber string `json:"pageNumber,omitempty"`
	Category   string `json:"category"`
	Theme      string `json:"theme"`
	Date       string `json:"date"`
}

// QuoteListResponse wraps a quote listing with its total count.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Total  int             `json:"total"`
}

// toQuoteResponse converts a domain Quote to an HTTP response.
func toQuoteResponse(q *domain.Quote) *QuoteResponse {
	return &QuoteResponse{
		ID:         q.ID,
		Text:       q.Text,
		BookTitle:  q.BookTitle,
		Author:     q.Author,
		PageNumber: q.PageNumber,
		Category:   q.Category,
		Theme:      string(q.Theme),
		Date:       q.Date,
	}
}

func toQuoteListResponse(quotes []domain.Quote) *QuoteListResponse {
	items := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		items = append(items, *toQuoteResponse(&quotes[i]))
	}

	return &QuoteListResponse{
		Quotes: items,
		Total:  len(items),
	}
}

func toDraft(req *dto.QuoteRequest) app.QuoteDraft {
	return app.QuoteDraft{
		Text:       req.Text,
		BookTitle:  req.BookTitle,
		Author:     req.Author,
		PageNumber: req.PageNumber,
		Category:   req.Category,
		Theme:      req.Theme,
	}
}

// ListQuotes handles GET /api/v1/quotes
// Returns the collection in most-recent-first order, optionally filtered.
//
// @Summary List quotes
// @Description Lists quotes, newest first, with optional search and category filters
// @Tags quotes
// @Produce json
// @Param search query string false "Case-insensitive match on text, book title, and author"
// @Param category query string false "Exact category tag"
// @Success 200 {object} QuoteListResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var query dto.ListQuotesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid query parameters",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	quotes, err := h.service.List(c.Request.Context(), app.QuoteFilter{
		Search:   query.Search,
		Category: query.Category,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteListResponse(quotes))
}

// GetQuote handles GET /api/v1/quotes/:id
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"quote ID is required",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	quote, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// CreateQuote handles POST /api/v1/quotes
//
// @Summary Create a quote
// @Description Saves a new quote at the front of the collection
// @Tags quotes
// @Accept json
// @Produce json
// @Param quote body dto.QuoteRequest true "Quote fields"
// @Success 201 {object} QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	quote, err := h.service.Create(c.Request.Context(), toDraft(&req))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toQuoteResponse(quote))
}

// UpdateQuote handles PUT /api/v1/quotes/:id
//
// @Summary Update a quote
// @Description Replaces the editable fields of an existing quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param quote body dto.QuoteRequest true "Quote fields"
// @Success 200 {object} QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [put]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"quote ID is required",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	quote, err := h.service.Update(c.Request.Context(), id, toDraft(&req))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// DeleteQuote handles DELETE /api/v1/quotes/:id
// Deleting an unknown ID succeeds, matching the collection semantics.
//
// @Summary Delete a quote
// @Tags quotes
// @Param id path string true "Quote ID"
// @Success 204
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"quote ID is required",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.CreateQuote)
	quotes.GET("/:id", h.GetQuote)
	quotes.PUT("/:id", h.UpdateQuote)
	quotes.DELETE("/:id", h.DeleteQuote)
}

// respondBindingError writes a 400 for binding or struct validation failures,
// with field details when the validator produced them.
func respondBindingError(c *gin.Context, err error) {
	if fieldErrors := dto.ValidationErrors(err); len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"request validation failed",
			fieldErrors,
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.ErrorCodeBadRequest,
		"invalid request body",
	).WithTraceID(dto.GetTraceID(c)))
}
