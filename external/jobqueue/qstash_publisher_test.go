package jobqueue

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/resilience"
)

func TestQStashPublisher_Enqueue(t *testing.T) {
	var gotPath string
	var gotHeaders http.Header
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          server.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://roster.example.com",
		Retries:          3,
		InternalJobToken: "internal-token",
	}, logging.NewNop())

	err := publisher.Enqueue(t.Context(), "v1/internal/jobs/rounds/7/close", map[string]int64{"round_id": 7}, 90*time.Second, "round-close-7")
	require.NoError(t, err)

	assert.Equal(t, "/v2/publish/https://roster.example.com/v1/internal/jobs/rounds/7/close", gotPath)
	assert.Equal(t, "Bearer qstash-token", gotHeaders.Get("Authorization"))
	assert.Equal(t, "90s", gotHeaders.Get("Upstash-Delay"))
	assert.Equal(t, "3", gotHeaders.Get("Upstash-Retries"))
	assert.Equal(t, "round-close-7", gotHeaders.Get("Upstash-Deduplication-Id"))
	assert.Equal(t, "internal-token", gotHeaders.Get("Upstash-Forward-X-Internal-Job-Token"))
	assert.JSONEq(t, `{"round_id":7}`, gotBody)
}

func TestQStashPublisher_OpensCircuitOnTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       server.URL,
		TargetBaseURL: "https://roster.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	for i := 0; i < 2; i++ {
		err := publisher.Enqueue(t.Context(), "/jobs", nil, 0, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errTransient))
	}

	err := publisher.Enqueue(t.Context(), "/jobs", nil, 0, "")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQStashPublisher_ClientErrorDoesNotTripCircuit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad destination", http.StatusBadRequest)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        server.URL,
		TargetBaseURL:  "https://roster.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1},
	}, logging.NewNop())

	for i := 0; i < 3; i++ {
		err := publisher.Enqueue(t.Context(), "/jobs", nil, 0, "")
		require.Error(t, err)
		assert.False(t, errors.Is(err, resilience.ErrCircuitOpen))
		assert.True(t, strings.Contains(err.Error(), "status=400"))
	}
}

func TestQStashPublisher_RejectsBadConfig(t *testing.T) {
	publisher := NewQStashPublisher(QStashPublisherConfig{BaseURL: "ftp://qstash", TargetBaseURL: "https://x"}, logging.NewNop())
	assert.Error(t, publisher.Enqueue(t.Context(), "/jobs", nil, 0, ""))
	assert.Error(t, publisher.Enqueue(t.Context(), " ", nil, 0, ""))
}

func TestNormalizeDelay(t *testing.T) {
	assert.Equal(t, "0s", normalizeDelay(-time.Second))
	assert.Equal(t, "0s", normalizeDelay(0))
	assert.Equal(t, "2s", normalizeDelay(1500*time.Millisecond))
}
