//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litra-app/litra-backend/internal/adapters/clients"
	"github.com/litra-app/litra-backend/internal/adapters/http/middleware"
	"github.com/litra-app/litra-backend/internal/platform/config"
)

// recognitionClientConfig returns a client config pointed at a fake
// recognition service, with fast retry and circuit settings.
func recognitionClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "recognition",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 2,
		},
	}
}

// recognitionBody is the request payload the recognition endpoint expects.
func recognitionBody(t *testing.T) io.Reader {
	t.Helper()

	payload, err := json.Marshal(map[string]string{
		"image":    "ZmFrZS1wYWdlLXBob3Rv",
		"mimeType": "image/jpeg",
	})
	require.NoError(t, err)

	return strings.NewReader(string(payload))
}

// TestRecognitionClient_RetriesTransientFailures verifies that a flaky
// recognition service is retried until the text comes back.
func TestRecognitionClient_RetriesTransientFailures(t *testing.T) {
	var attempts int32

	// The service drops the first two recognition calls, then recovers.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/recognitions", r.URL.Path)

		count := atomic.AddInt32(&attempts, 1)
		if count <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"text":"Hayatta en hakiki mürşit ilimdir."}`))
	}))
	defer server.Close()

	client, err := clients.New(recognitionClientConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Post(context.Background(), "/v1/recognitions", recognitionBody(t))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts), "expected 3 attempts (2 failures + 1 success)")

	var recognized struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recognized))
	assert.Equal(t, "Hayatta en hakiki mürşit ilimdir.", recognized.Text)
}

// TestRecognitionClient_CircuitBreakerStateTransitions verifies the
// circuit opens against a failing recognition service, blocks traffic,
// and closes again once the service recovers.
func TestRecognitionClient_CircuitBreakerStateTransitions(t *testing.T) {
	var calls int32
	var shouldFail atomic.Bool
	shouldFail.Store(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if shouldFail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"text":"tanınan metin"}`))
	}))
	defer server.Close()

	cfg := recognitionClientConfig(server.URL)
	cfg.Retry.MaxAttempts = 1 // no retries, every call is one attempt
	cfg.Circuit.MaxFailures = 2
	cfg.Circuit.Timeout = 50 * time.Millisecond

	client, err := clients.New(cfg)
	require.NoError(t, err)

	// Closed state, failures accumulate.
	assert.Equal(t, clients.StateClosed, client.CircuitState())

	_, err = client.Post(context.Background(), "/v1/recognitions", recognitionBody(t))
	require.Error(t, err)
	assert.Equal(t, clients.StateClosed, client.CircuitState())

	_, err = client.Post(context.Background(), "/v1/recognitions", recognitionBody(t))
	require.Error(t, err)

	// Two failures open the circuit.
	assert.Equal(t, clients.StateOpen, client.CircuitState())

	// Open circuit blocks without hitting the service.
	callsBefore := atomic.LoadInt32(&calls)
	_, err = client.Post(context.Background(), "/v1/recognitions", recognitionBody(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, clients.ErrCircuitOpen)
	assert.Equal(t, callsBefore, atomic.LoadInt32(&calls), "no recognition call while the circuit is open")

	// After the open interval the service has recovered.
	time.Sleep(60 * time.Millisecond)
	shouldFail.Store(false)

	resp, err := client.Post(context.Background(), "/v1/recognitions", recognitionBody(t))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Post(context.Background(), "/v1/recognitions", recognitionBody(t))
	require.NoError(t, err)
	resp.Body.Close()

	// Two half-open successes close the circuit again.
	assert.Equal(t, clients.StateClosed, client.CircuitState())
}

// TestRecognitionClient_TimesOutSlowRecognition verifies the client gives
// up on a recognition call that takes longer than its timeout.
func TestRecognitionClient_TimesOutSlowRecognition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond) // slower than the client timeout
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"text":"çok geç gelen metin"}`))
	}))
	defer server.Close()

	cfg := recognitionClientConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	cfg.Retry.MaxAttempts = 1

	client, err := clients.New(cfg)
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Post(context.Background(), "/v1/recognitions", recognitionBody(t))
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, 200*time.Millisecond, "should time out quickly")
}

// TestRecognitionClient_ConcurrentRecognitions verifies parallel page
// captures all go through while the circuit stays closed.
func TestRecognitionClient_ConcurrentRecognitions(t *testing.T) {
	var totalCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&totalCalls, 1)
		time.Sleep(10 * time.Millisecond) // simulate OCR work
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"text":"sayfa metni"}`))
	}))
	defer server.Close()

	client, err := clients.New(recognitionClientConfig(server.URL))
	require.NoError(t, err)

	const numGoroutines = 10
	const payload = `{"image":"ZmFrZS1wYWdlLXBob3Rv","mimeType":"image/jpeg"}`

	var wg sync.WaitGroup
	var successCount int32
	var errorCount int32

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Post(context.Background(), "/v1/recognitions", strings.NewReader(payload))
			if err != nil {
				atomic.AddInt32(&errorCount, 1)
				return
			}
			resp.Body.Close()
			atomic.AddInt32(&successCount, 1)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(numGoroutines), atomic.LoadInt32(&successCount), "all concurrent recognitions should succeed")
	assert.Equal(t, int32(0), atomic.LoadInt32(&errorCount))
	assert.Equal(t, int32(numGoroutines), atomic.LoadInt32(&totalCalls), "the service should see every call")
}

// TestRecognitionClient_PropagatesTrackingHeaders verifies request ID and
// correlation ID travel from the incoming request context to the
// recognition service.
func TestRecognitionClient_PropagatesTrackingHeaders(t *testing.T) {
	var receivedRequestID, receivedCorrelationID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedRequestID = r.Header.Get(middleware.HeaderRequestID)
		receivedCorrelationID = r.Header.Get(middleware.HeaderCorrelationID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"text":"izlenen metin"}`))
	}))
	defer server.Close()

	client, err := clients.New(recognitionClientConfig(server.URL))
	require.NoError(t, err)

	ctx := context.Background()
	ctx = middleware.ContextWithRequestID(ctx, "req-capture-123")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-capture-456")

	resp, err := client.Post(ctx, "/v1/recognitions", recognitionBody(t))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-capture-123", receivedRequestID)
	assert.Equal(t, "corr-capture-456", receivedCorrelationID)
}

// TestRecognitionClient_HealthProbe verifies the downstream health probe
// path used by the readiness checker.
func TestRecognitionClient_HealthProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := clients.New(recognitionClientConfig(server.URL))
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestRecognitionClient_ContextCancellation verifies an abandoned capture
// cancels the in-flight recognition call promptly.
func TestRecognitionClient_ContextCancellation(t *testing.T) {
	requestStarted := make(chan struct{})
	requestCompleted := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect
		// and cancel the request context.
		_, _ = io.Copy(io.Discard, r.Body)
		close(requestStarted)
		<-r.Context().Done() // wait for cancellation
		close(requestCompleted)
	}))
	defer server.Close()

	cfg := recognitionClientConfig(server.URL)
	cfg.Timeout = 5 * time.Second // long enough that cancellation wins

	client, err := clients.New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-requestStarted
		cancel()
	}()

	start := time.Now()
	_, err = client.Post(ctx, "/v1/recognitions", recognitionBody(t))
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, time.Second, "cancellation should be prompt")

	select {
	case <-requestCompleted:
		// the service saw the cancellation
	case <-time.After(time.Second):
		t.Fatal("recognition service did not observe the cancellation")
	}
}
