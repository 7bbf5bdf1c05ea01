package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/litra-app/litra-backend/internal/adapters/http/dto"
	"github.com/litra-app/litra-backend/internal/app"
)

// RecognitionHandler handles text recognition HTTP endpoints.
type RecognitionHandler struct {
	service *app.CaptureService
}

// NewRecognitionHandler creates a new recognition handler.
func NewRecognitionHandler(service *app.CaptureService) *RecognitionHandler {
	return &RecognitionHandler{
		service: service,
	}
}

// RecognizeResponse carries the text extracted from an image.
type RecognizeResponse struct {
	Text string `json:"text"`
}

// Recognize handles POST /api/v1/recognitions
// The recognized text is returned as-is; it becomes a quote only when the
// client saves it through the quotes endpoint.
//
// @Summary Recognize text in an image
// @Description Extracts text from a base64-encoded page photo
// @Tags recognition
// @Accept json
// @Produce json
// @Param image body dto.RecognizeRequest true "Base64 image payload"
// @Success 200 {object} RecognizeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/recognitions [post]
func (h *RecognitionHandler) Recognize(c *gin.Context) {
	var req dto.RecognizeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"image must be base64 encoded",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	text, err := h.service.Recognize(c.Request.Context(), image, req.MimeType)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecognizeResponse{
		Text: text,
	})
}

// RegisterRecognitionRoutes registers recognition routes on the given router group.
func (h *RecognitionHandler) RegisterRecognitionRoutes(rg *gin.RouterGroup) {
	rg.POST("/recognitions", h.Recognize)
}
