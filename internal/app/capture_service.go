package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/litra-app/litra-backend/internal/domain"
	"github.com/litra-app/litra-backend/internal/ports"
)

// CaptureService turns a photographed book page into quote text by
// delegating to the text recognition port.
type CaptureService struct {
	recognizer ports.TextRecognizer
	logger     *slog.Logger
}

// CaptureServiceConfig contains configuration for the capture service.
type CaptureServiceConfig struct {
	Recognizer ports.TextRecognizer
	Logger     *slog.Logger
}

// NewCaptureService creates a new capture service with the provided dependencies.
func NewCaptureService(cfg CaptureServiceConfig) *CaptureService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CaptureService{
		recognizer: cfg.Recognizer,
		logger:     logger,
	}
}

// Recognize extracts text from the image. An image in which the
// recognizer finds no text at all is a validation failure, matching the
// capture screen's "no text found" outcome.
func (s *CaptureService) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", domain.NewValidationError("image", "image payload must not be empty")
	}

	s.logger.InfoContext(ctx, "recognizing text",
		slog.Int("image_bytes", len(image)),
		slog.String("mime_type", mimeType),
	)

	text, err := s.recognizer.Recognize(ctx, image, mimeType)
	if err != nil {
		s.logger.ErrorContext(ctx, "text recognition failed",
			slog.Any("error", err),
		)

		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewValidationError("image", "no text found in image")
	}

	s.logger.InfoContext(ctx, "recognized text",
		slog.Int("text_length", len(text)),
	)

	return text, nil
}
