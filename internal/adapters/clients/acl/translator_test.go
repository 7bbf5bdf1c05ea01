package acl

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litra-app/litra-backend/internal/adapters/clients"
	"github.com/litra-app/litra-backend/internal/domain"
	"github.com/litra-app/litra-backend/internal/platform/config"
)

// testConfig returns a minimal config for testing.
func testConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "test-service",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	}
}

// --- Error Mapping Tests ---

func TestMapHTTPError_NotFound(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader(`{"error":{"code":"NOT_FOUND","message":"no such endpoint"}}`)),
	}

	err := MapHTTPError(resp, nil, "recognition", "recognize text")

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err), "expected NotFoundError")
}

func TestMapHTTPError_ValidationWithDetails(t *testing.T) {
	body := `{
		"error": {
			"code": "VALIDATION_ERROR",
			"message": "validation failed",
			"details": {
				"image": "unsupported format"
			}
		}
	}`
	resp := &http.Response{
		StatusCode: http.StatusBadRequest,
		Body:       io.NopCloser(strings.NewReader(body)),
	}

	err := MapHTTPError(resp, nil, "recognition", "recognize text")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err), "expected ValidationError")

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "image", validationErr.Field)
}

func TestMapHTTPError_RejectedCredentials(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		resp := &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(`{}`)),
		}

		err := MapHTTPError(resp, nil, "recognition", "recognize text")

		require.Error(t, err)
		assert.True(t, domain.IsUnavailable(err), "expected UnavailableError for %d", status)
	}
}

func TestMapHTTPError_ServerError(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusInternalServerError,
		Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"internal error"}}`)),
	}

	err := MapHTTPError(resp, nil, "recognition", "recognize text")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err), "expected UnavailableError")
}

func TestMapHTTPError_RateLimited(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
	}

	err := MapHTTPError(resp, nil, "recognition", "recognize text")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err), "expected UnavailableError for rate limit")
	assert.Contains(t, err.Error(), "rate limit")
}

func TestMapHTTPError_CircuitOpen(t *testing.T) {
	err := MapHTTPError(nil, clients.ErrCircuitOpen, "recognition", "recognize text")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestMapHTTPError_MaxRetriesExceeded(t *testing.T) {
	err := MapHTTPError(nil, clients.ErrMaxRetriesExceeded, "recognition", "recognize text")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestMapHTTPError_SuccessReturnsNil(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
	}

	err := MapHTTPError(resp, nil, "recognition", "recognize text")

	assert.NoError(t, err)
}

func TestMapHTTPError_NilResponse(t *testing.T) {
	err := MapHTTPError(nil, nil, "recognition", "recognize text")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "no response received")
}

// --- MapExternalCode Tests ---

func TestMapExternalCode(t *testing.T) {
	tests := []struct {
		code     string
		expected func(error) bool
	}{
		{ExternalCodeNotFound, domain.IsNotFound},
		{ExternalCodeValidation, domain.IsValidation},
		{ExternalCodeUnavailable, domain.IsUnavailable},
		{"UNKNOWN_CODE", domain.IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := MapExternalCode(tt.code, "test message", "test-service", "test op")
			require.Error(t, err)
			assert.True(t, tt.expected(err), "unexpected error type for code %s", tt.code)
		})
	}
}

// --- Translation Tests ---

func TestDecodeResponse_Success(t *testing.T) {
	body := io.NopCloser(strings.NewReader(`{"id":"123","name":"test"}`))

	type testStruct struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	result, err := DecodeResponse[testStruct](body)

	require.NoError(t, err)
	assert.Equal(t, "123", result.ID)
	assert.Equal(t, "test", result.Name)
}

func TestDecodeResponse_InvalidJSON(t *testing.T) {
	body := io.NopCloser(strings.NewReader(`invalid json`))

	type testStruct struct{}

	_, err := DecodeResponse[testStruct](body)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestDecodeResponse_NilBody(t *testing.T) {
	type testStruct struct{}

	_, err := DecodeResponse[testStruct](nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil")
}

func TestTranslateSlice_Success(t *testing.T) {
	type External struct{ Value int }
	type Domain struct{ DoubledValue int }

	items := []External{{Value: 1}, {Value: 2}, {Value: 3}}

	translator := func(ext *External) (*Domain, error) {
		return &Domain{DoubledValue: ext.Value * 2}, nil
	}

	result, err := TranslateSlice(items, translator)

	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, 2, result[0].DoubledValue)
	assert.Equal(t, 4, result[1].DoubledValue)
	assert.Equal(t, 6, result[2].DoubledValue)
}

func TestTranslateSlice_Error(t *testing.T) {
	type External struct{ Value int }
	type Domain struct{ Value int }

	items := []External{{Value: 1}, {Value: -1}, {Value: 3}}

	translator := func(ext *External) (*Domain, error) {
		if ext.Value < 0 {
			return nil, domain.NewValidationError("value", "must be positive")
		}

		return &Domain{Value: ext.Value}, nil
	}

	_, err := TranslateSlice(items, translator)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")
}

func TestTranslateMap_Success(t *testing.T) {
	type External struct{ Value int }
	type Domain struct{ Value int }

	items := map[string]External{
		"a": {Value: 1},
		"b": {Value: 2},
	}

	translator := func(ext *External) (*Domain, error) {
		return &Domain{Value: ext.Value * 10}, nil
	}

	result, err := TranslateMap(items, translator)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, 10, result["a"].Value)
	assert.Equal(t, 20, result["b"].Value)
}

func TestValidateRequired(t *testing.T) {
	err := ValidateRequired("", "name")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	err = ValidateRequired("value", "name")
	assert.NoError(t, err)
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		value    int
		hasError bool
	}{
		{0, true},
		{-1, true},
		{1, false},
		{100, false},
	}

	for _, tt := range tests {
		err := ValidatePositive(tt.value, "count")
		if tt.hasError {
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		} else {
			assert.NoError(t, err)
		}
	}
}

// --- ParseErrorResponse Tests ---

func TestParseErrorResponse_NestedFormat(t *testing.T) {
	body := strings.NewReader(`{"error":{"code":"NOT_FOUND","message":"not found"}}`)

	resp := ParseErrorResponse(body)

	require.NotNil(t, resp)
	assert.Equal(t, "NOT_FOUND", resp.GetCode())
	assert.Equal(t, "not found", resp.GetMessage())
}

func TestParseErrorResponse_TopLevelFormat(t *testing.T) {
	body := strings.NewReader(`{"code":"SERVICE_UNAVAILABLE","message":"try later"}`)

	resp := ParseErrorResponse(body)

	require.NotNil(t, resp)
	assert.Equal(t, "SERVICE_UNAVAILABLE", resp.GetCode())
	assert.Equal(t, "try later", resp.GetMessage())
}

func TestParseErrorResponse_InvalidJSON(t *testing.T) {
	body := strings.NewReader(`not json`)

	resp := ParseErrorResponse(body)

	assert.Nil(t, resp)
}

func TestParseErrorResponse_EmptyBody(t *testing.T) {
	body := strings.NewReader(`{}`)

	resp := ParseErrorResponse(body)

	assert.Nil(t, resp) // No meaningful data
}

func TestParseErrorResponse_NilBody(t *testing.T) {
	resp := ParseErrorResponse(nil)

	assert.Nil(t, resp)
}

// --- Integration Tests with RecognitionAdapter ---

func TestRecognitionAdapter_Recognize_Success(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/recognitions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Image    string `json:"image"`
			MimeType string `json:"mimeType"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), req.Image)
		assert.Equal(t, "image/jpeg", req.MimeType)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"Hayatta en hakiki\n  mürşit\tilimdir."}`))
	}))
	defer server.Close()

	client, err := clients.New(testConfig(server.URL))
	require.NoError(t, err)

	adapter := NewRecognitionAdapter(client)

	text, err := adapter.Recognize(context.Background(), image, "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "Hayatta en hakiki mürşit ilimdir.", text)
}

func TestRecognitionAdapter_Recognize_EmptyImage(t *testing.T) {
	client, err := clients.New(testConfig("http://example.com"))
	require.NoError(t, err)

	adapter := NewRecognitionAdapter(client)

	_, err = adapter.Recognize(context.Background(), nil, "image/jpeg")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestRecognitionAdapter_Recognize_ServiceDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"recognizer overloaded"}}`))
	}))
	defer server.Close()

	client, err := clients.New(testConfig(server.URL))
	require.NoError(t, err)

	adapter := NewRecognitionAdapter(client)

	_, err = adapter.Recognize(context.Background(), []byte{0x01}, "image/png")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestRecognitionAdapter_Recognize_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, err := clients.New(testConfig(server.URL))
	require.NoError(t, err)

	adapter := NewRecognitionAdapter(client)

	_, err = adapter.Recognize(context.Background(), []byte{0x01}, "image/png")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

// --- BaseAdapter Tests ---

func TestBaseAdapter_ServiceName(t *testing.T) {
	client, err := clients.New(testConfig("http://example.com"))
	require.NoError(t, err)

	adapter := NewBaseAdapter(client, "my-service")

	assert.Equal(t, "my-service", adapter.ServiceName())
	assert.NotNil(t, adapter.Client())
}
