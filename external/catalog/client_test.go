package catalog

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

func pagedCatalogServer(t *testing.T, totalPages int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/players" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer feed-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{
			"data": [
				{"id": %d, "display_name": "Keeper %d", "position": "Goalkeeper", "price": 4.5,
				 "club": {"id": %d, "name": "Club %d", "short_code": "C%d"}},
				{"id": %d, "name": "Striker %d", "position": "Attacker", "price": 7.5, "price_change": 0.1,
				 "injured": true, "total_points": 40, "round_points": 6,
				 "club": {"id": 1, "name": "Club 1", "short_code": "C1"}}
			],
			"pagination": {"count": 2, "per_page": 2, "current_page": %d, "total_pages": %d, "has_more": %t}
		}`, page*10+1, page, page, page, page, page*10+2, page, page, totalPages, page < totalPages)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestClient_FetchCatalog_AllPages(t *testing.T) {
	server, calls := pagedCatalogServer(t, 3)

	client := NewClient(ClientConfig{
		BaseURL:     server.URL,
		Token:       "feed-token",
		PageSize:    2,
		Concurrency: 2,
		Logger:      logging.NewNop(),
	})

	got, err := client.FetchCatalog(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	require.Len(t, got.Players, 6)
	ids := make([]int64, 0, len(got.Players))
	for _, p := range got.Players {
		ids = append(ids, p.ExternalID)
	}
	assert.Equal(t, []int64{11, 12, 21, 22, 31, 32}, ids)

	striker := got.Players[1]
	assert.Equal(t, "Striker 1", striker.Name)
	assert.Equal(t, "Attacker", striker.Position)
	assert.True(t, striker.IsInjured)
	require.NotNil(t, striker.RoundPoints)
	assert.Equal(t, 6.0, *striker.RoundPoints)
	require.NotNil(t, striker.PriceDelta)
	assert.Equal(t, 0.1, *striker.PriceDelta)
	assert.Nil(t, got.Players[0].RoundPoints)

	require.Len(t, got.Clubs, 3)
	assert.Equal(t, int64(1), got.Clubs[0].ExternalID)
	assert.Equal(t, "C3", got.Clubs[2].Short)
}

func TestClient_FetchCatalog_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":5,"name":"Solo","position":"MID","price":5,"club":{"id":2,"name":"Two"}}],"pagination":{"current_page":1,"total_pages":1}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, MaxRetries: 2, Logger: logging.NewNop()})
	client.backoff = func(int) time.Duration { return time.Millisecond }

	got, err := client.FetchCatalog(t.Context())
	require.NoError(t, err)
	require.Len(t, got.Players, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_FetchCatalog_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"bad token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, MaxRetries: 3, Logger: logging.NewNop()})
	client.backoff = func(int) time.Duration { return time.Millisecond }

	_, err := client.FetchCatalog(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchCatalog_CircuitOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
		},
	})

	_, err := client.FetchCatalog(t.Context())
	require.Error(t, err)

	_, err = client.FetchCatalog(t.Context())
	assert.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchCatalog_NotConfigured(t *testing.T) {
	_, err := NewClient(ClientConfig{Logger: logging.NewNop()}).FetchCatalog(t.Context())
	assert.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestClient_SanitizeRedactsToken(t *testing.T) {
	client := NewClient(ClientConfig{Token: "s3cret", Logger: logging.NewNop()})
	assert.Equal(t, "dial failed Bearer REDACTED for REDACTED", client.sanitize("dial failed Bearer abc for s3cret"))
}
