package dto

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/litra-app/litra-backend/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestNewErrorResponse tests creating a basic error response.
func TestNewErrorResponse(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		message string
		want    *ErrorResponse
	}{
		{
			name:    "basic error response",
			code:    ErrorCodeNotFound,
			message: "resource not found",
			want: &ErrorResponse{
				Error: ErrorDetail{
					Code:    ErrorCodeNotFound,
					Message: "resource not found",
				},
			},
		},
		{
			name:    "validation error response",
			code:    ErrorCodeValidation,
			message: "invalid input",
			want: &ErrorResponse{
				Error: ErrorDetail{
					Code:    ErrorCodeValidation,
					Message: "invalid input",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewErrorResponse(tt.code, tt.message)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestNewErrorResponseWithDetails tests creating an error response with details.
func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]string{
		"quote": "must be at least 5 characters",
		"color": "must not be empty",
	}

	got := NewErrorResponseWithDetails(ErrorCodeValidation, "validation failed", details)

	assert.Equal(t, ErrorCodeValidation, got.Error.Code)
	assert.Equal(t, "validation failed", got.Error.Message)
	assert.Equal(t, details, got.Error.Details)
}

// TestWithTraceID tests adding trace ID to error response.
func TestWithTraceID(t *testing.T) {
	response := NewErrorResponse(ErrorCodeInternal, "internal error")

	got := response.WithTraceID("trace-123")

	assert.Equal(t, "trace-123", got.TraceID)
	assert.Same(t, response, got) // Should return same instance
}

// TestHTTPStatusFromCode tests mapping error codes to HTTP status codes.
func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{
			name: "not found",
			code: ErrorCodeNotFound,
			want: http.StatusNotFound,
		},
		{
			name: "validation error",
			code: ErrorCodeValidation,
			want: http.StatusBadRequest,
		},
		{
			name: "bad request",
			code: ErrorCodeBadRequest,
			want: http.StatusBadRequest,
		},
		{
			name: "storage error",
			code: ErrorCodeStorage,
			want: http.StatusServiceUnavailable,
		},
		{
			name: "unavailable",
			code: ErrorCodeUnavailable,
			want: http.StatusServiceUnavailable,
		},
		{
			name: "timeout",
			code: ErrorCodeTimeout,
			want: http.StatusGatewayTimeout,
		},
		{
			name: "internal error",
			code: ErrorCodeInternal,
			want: http.StatusInternalServerError,
		},
		{
			name: "unknown code defaults to internal error",
			code: "UNKNOWN_CODE",
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTTPStatusFromCode(tt.code)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestFromDomainError tests mapping domain errors to HTTP responses.
func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantDetails map[string]string
	}{
		{
			name:       "not found error",
			err:        domain.NewNotFoundError("quote", "abc-123"),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrorCodeNotFound,
		},
		{
			name:        "validation error with field",
			err:         domain.NewValidationError("quote", "must be at least 5 characters"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantDetails: map[string]string{"quote": "must be at least 5 characters"},
		},
		{
			name:       "validation error without field",
			err:        domain.NewValidationError("", "invalid request"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidation,
		},
		{
			name:       "storage error",
			err:        domain.NewStorageError("save", "litra_quotes", errors.New("disk full")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrorCodeStorage,
		},
		{
			name:       "unavailable error",
			err:        domain.NewUnavailableError("recognition", "connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrorCodeUnavailable,
		},
		{
			name:       "unknown error gets generic message",
			err:        errors.New("something unexpected"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := FromDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
		})
	}
}

// TestFromDomainError_Nil verifies that a nil error maps to 200 with no body.
func TestFromDomainError_Nil(t *testing.T) {
	status, resp := FromDomainError(nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp)
}

// TestFromDomainError_UnknownHidesMessage verifies that unexpected error
// text never reaches the response body.
func TestFromDomainError_UnknownHidesMessage(t *testing.T) {
	_, resp := FromDomainError(errors.New("secret database path /var/lib/litra"))

	require.NotNil(t, resp)
	assert.NotContains(t, resp.Error.Message, "/var/lib/litra")
	assert.Equal(t, "an internal error occurred", resp.Error.Message)
}

// TestGetTraceID tests extracting the OpenTelemetry trace ID from the request.
func TestGetTraceID(t *testing.T) {
	t.Run("no active span", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		assert.Empty(t, GetTraceID(c))
	})

	t.Run("active span context", func(t *testing.T) {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0x01},
			SpanID:     trace.SpanID{0x02},
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

		assert.Equal(t, sc.TraceID().String(), GetTraceID(c))
	})
}

// TestHandleError tests writing a domain error as an HTTP response.
func TestHandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantCode       string
		wantMessageKey string
	}{
		{
			name:           "not found error",
			err:            domain.NewNotFoundError("quote", "abc-123"),
			wantStatus:     http.StatusNotFound,
			wantCode:       ErrorCodeNotFound,
			wantMessageKey: "quote",
		},
		{
			name:           "validation error",
			err:            domain.NewValidationError("color", "color is not part of the palette"),
			wantStatus:     http.StatusBadRequest,
			wantCode:       ErrorCodeValidation,
			wantMessageKey: "color",
		},
		{
			name:           "storage error",
			err:            domain.NewStorageError("load", "litra_quotes", errors.New("permission denied")),
			wantStatus:     http.StatusServiceUnavailable,
			wantCode:       ErrorCodeStorage,
			wantMessageKey: "litra_quotes",
		},
		{
			name:           "unavailable error",
			err:            domain.NewUnavailableError("recognition", "circuit breaker open"),
			wantStatus:     http.StatusServiceUnavailable,
			wantCode:       ErrorCodeUnavailable,
			wantMessageKey: "recognition",
		},
		{
			name:           "internal error",
			err:            errors.New("unexpected error"),
			wantStatus:     http.StatusInternalServerError,
			wantCode:       ErrorCodeInternal,
			wantMessageKey: "internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var response ErrorResponse
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCode, response.Error.Code)
			assert.Contains(t, response.Error.Message, tt.wantMessageKey)
		})
	}
}

// TestValidator verifies the singleton validator is reused.
func TestValidator(t *testing.T) {
	v1 := Validator()
	v2 := Validator()

	require.NotNil(t, v1)
	assert.Same(t, v1, v2)
}

// TestValidate tests struct validation with custom validators.
func TestValidate(t *testing.T) {
	type payload struct {
		Text string `json:"quote" validate:"required,notempty"`
		ID   string `json:"id"    validate:"omitempty,uuid"`
	}

	tests := []struct {
		name    string
		input   payload
		wantErr bool
	}{
		{
			name:    "valid payload",
			input:   payload{Text: "insan hayal ettiği sürece yaşar", ID: "f47ac10b-58cc-4372-a567-0e02b2c3d479"},
			wantErr: false,
		},
		{
			name:    "missing required text",
			input:   payload{ID: "f47ac10b-58cc-4372-a567-0e02b2c3d479"},
			wantErr: true,
		},
		{
			name:    "whitespace-only text",
			input:   payload{Text: "   "},
			wantErr: true,
		},
		{
			name:    "malformed uuid",
			input:   payload{Text: "geçerli bir metin", ID: "not-a-uuid"},
			wantErr: true,
		},
		{
			name:    "empty uuid allowed with omitempty",
			input:   payload{Text: "geçerli bir metin"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestBindAndValidate tests JSON binding plus validation.
func TestBindAndValidate(t *testing.T) {
	type payload struct {
		Color string `json:"color" validate:"required,notempty"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "valid body",
			body:    `{"color":"#E3F2FD"}`,
			wantErr: nil,
		},
		{
			name:    "malformed json",
			body:    `{"color":`,
			wantErr: ErrBinding,
		},
		{
			name:    "missing field",
			body:    `{}`,
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var p payload
			err := BindAndValidate(c, &p)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestBindQueryAndValidate tests query binding plus validation.
func TestBindQueryAndValidate(t *testing.T) {
	type query struct {
		Days int `form:"days" validate:"omitempty,gt=0"`
	}

	tests := []struct {
		name    string
		rawURL  string
		wantErr bool
	}{
		{
			name:    "valid query",
			rawURL:  "/stats?days=14",
			wantErr: false,
		},
		{
			name:    "no query params",
			rawURL:  "/stats",
			wantErr: false,
		},
		{
			name:    "non-numeric days",
			rawURL:  "/stats?days=soon",
			wantErr: true,
		},
		{
			name:    "negative days rejected",
			rawURL:  "/stats?days=-3",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tt.rawURL, nil)

			var q query
			err := BindQueryAndValidate(c, &q)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestValidationErrors tests extracting field-level messages.
func TestValidationErrors(t *testing.T) {
	type payload struct {
		Text  string `json:"quote" validate:"required"`
		Color string `json:"color" validate:"required"`
	}

	err := Validate(payload{})
	require.Error(t, err)

	fields := ValidationErrors(err)

	assert.Len(t, fields, 2)
	assert.Equal(t, "this field is required", fields["quote"])
	assert.Equal(t, "this field is required", fields["color"])
}

// TestValidationErrors_NonValidationError verifies a plain error yields no fields.
func TestValidationErrors_NonValidationError(t *testing.T) {
	fields := ValidationErrors(errors.New("plain error"))
	assert.Empty(t, fields)
}

// TestIsValidationError distinguishes validator errors from others.
func TestIsValidationError(t *testing.T) {
	type payload struct {
		Text string `validate:"required"`
	}

	assert.True(t, IsValidationError(Validate(payload{})))
	assert.False(t, IsValidationError(errors.New("plain error")))
	assert.False(t, IsValidationError(nil))
}

// TestValidationMessage_MinMax verifies string lengths get a character suffix.
func TestValidationMessage_MinMax(t *testing.T) {
	type payload struct {
		Text string `json:"quote" validate:"min=5"`
		Days int    `json:"days"  validate:"omitempty,max=365"`
	}

	err := Validate(payload{Text: "kısa", Days: 400})
	require.Error(t, err)

	fields := ValidationErrors(err)
	assert.Equal(t, "must be at least 5 characters", fields["quote"])
	assert.Equal(t, "must be at most 365", fields["days"])
}

// TestValidateAll tests struct tag validation combined with custom validation.
func TestValidateAll(t *testing.T) {
	t.Run("custom validation runs after tags", func(t *testing.T) {
		v := &customValidatable{Text: "geçerli metin", failCustom: true}

		err := ValidateAll(v)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "custom rule failed")
	})

	t.Run("tag failure short-circuits custom validation", func(t *testing.T) {
		v := &customValidatable{Text: "", failCustom: true}

		err := ValidateAll(v)

		require.Error(t, err)
		assert.False(t, v.customCalled)
	})

	t.Run("all valid", func(t *testing.T) {
		v := &customValidatable{Text: "geçerli metin"}

		assert.NoError(t, ValidateAll(v))
		assert.True(t, v.customCalled)
	})
}

type customValidatable struct {
	Text string `validate:"required"`

	failCustom   bool
	customCalled bool
}

func (v *customValidatable) Validate() error {
	v.customCalled = true
	if v.failCustom {
		return errors.New("custom rule failed")
	}

	return nil
}
