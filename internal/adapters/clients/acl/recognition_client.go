package acl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/litra-app/litra-backend/internal/adapters/clients"
	"github.com/litra-app/litra-backend/internal/domain"
)

// recognitionServiceName identifies the downstream recognition service
// in logs, traces, and mapped errors.
const recognitionServiceName = "recognition"

// recognizeRequest is the DTO sent to the recognition service.
type recognizeRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

// recognizeResponse is the DTO returned by the recognition service.
type recognizeResponse struct {
	Text string `json:"text"`
}

// RecognitionAdapter adapts the external text recognition API to the
// ports.TextRecognizer port. It translates the external response into
// plain quote text and external failures into domain errors.
type RecognitionAdapter struct {
	BaseAdapter
}

// NewRecognitionAdapter creates an adapter backed by the given client.
func NewRecognitionAdapter(client *clients.Client) *RecognitionAdapter {
	return &RecognitionAdapter{
		BaseAdapter: NewBaseAdapter(client, recognitionServiceName),
	}
}

// Recognize sends the image to the recognition service and returns the
// extracted text with all whitespace runs collapsed to single spaces,
// matching how scanned page text is shown in the editor.
func (a *RecognitionAdapter) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", domain.NewValidationError("image", "is required")
	}

	payload, err := json.Marshal(recognizeRequest{
		Image:    base64.StdEncoding.EncodeToString(image),
		MimeType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("encoding recognition request: %w", err)
	}

	body, err := a.Post(ctx, "/v1/recognitions", bytes.NewReader(payload), "recognize text")
	if err != nil {
		return "", err // Already a domain error
	}

	ext, err := DecodeResponse[recognizeResponse](body)
	if err != nil {
		return "", domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	return collapseWhitespace(ext.Text), nil
}

// collapseWhitespace flattens newlines, tabs, and repeated spaces from
// the raw recognition output into single spaces.
func collapseWhitespace(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Name returns the health check name for this adapter.
// Implements ports.HealthChecker.
func (a *RecognitionAdapter) Name() string {
	return recognitionServiceName
}

// Check verifies connectivity to the recognition service.
// Implements ports.HealthChecker.
func (a *RecognitionAdapter) Check(ctx context.Context) error {
	resp, err := a.client.Get(ctx, "/healthz")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("recognition service returned status %d", resp.StatusCode)
	}

	return nil
}
