package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-events/client-go/common/apperrors"
	"github.com/campus-events/client-go/common/config"
	"github.com/campus-events/client-go/common/logger"
)

func testClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.ClientConfig{BaseURL: srv.URL, RequestTimeout: 2 * time.Second}
	log := logger.New(&logger.Config{Level: logger.FATAL, Output: testWriter{}, TimeFormat: time.RFC3339})
	return New(cfg, StaticToken(token), log)
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

type pingResponse struct {
	Envelope
	Value string `json:"value"`
}

// ============================================================
// Test: error message extraction priority (detail > error > message > status)
// ============================================================

func TestErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		status      int
		want        string
	}{
		{
			"All three fields present, detail wins",
			`{"detail":"capacity exceeded","error":"nope","message":"bad"}`,
			"application/json", http.StatusUnprocessableEntity,
			"capacity exceeded",
		},
		{
			"Only error",
			`{"error":"event not found"}`,
			"application/json", http.StatusNotFound,
			"event not found",
		},
		{
			"Only message",
			`{"message":"slow down"}`,
			"application/json", http.StatusTooManyRequests,
			"slow down",
		},
		{
			"No known fields falls back to status text",
			`{"oops":"??"}`,
			"application/json", http.StatusNotFound,
			"Not Found",
		},
		{
			"Plain text body is surfaced",
			"upstream exploded",
			"text/plain", http.StatusBadGateway,
			"upstream exploded",
		},
		{
			"Empty text body falls back to status text",
			"",
			"text/plain", http.StatusServiceUnavailable,
			"Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}), "")

			var out pingResponse
			err := client.Get(context.Background(), "/api/ping", &out)
			require.Error(t, err)

			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok, "every failure must be an AppError")
			assert.Equal(t, tt.want, appErr.Message)
			assert.Equal(t, tt.status, appErr.Status)
		})
	}
}

// ============================================================
// Test: envelope totality — every outcome yields a typed result
// ============================================================

func TestEnvelopeTotality(t *testing.T) {
	t.Run("Success JSON", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"value":"pong"}`))
		}), "")

		var out pingResponse
		require.NoError(t, client.Get(context.Background(), "/api/ping", &out))
		assert.Equal(t, "pong", out.Value)
	})

	t.Run("2xx with success:false is a domain error", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":false,"error":"already registered for this event"}`))
		}), "")

		var out pingResponse
		err := client.Get(context.Background(), "/api/ping", &out)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindDomain))
		assert.Equal(t, "already registered for this event", err.Error())
	})

	t.Run("Connection refused is a network error", func(t *testing.T) {
		cfg := &config.ClientConfig{BaseURL: "http://127.0.0.1:1", RequestTimeout: time.Second}
		client := New(cfg, nil, logger.New(&logger.Config{Level: logger.FATAL, Output: testWriter{}, TimeFormat: time.RFC3339}))

		var out pingResponse
		err := client.Get(context.Background(), "/api/ping", &out)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNetwork))
	})

	t.Run("Cancelled context is a timeout error", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}), "")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var out pingResponse
		err := client.Get(ctx, "/api/ping", &out)
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeTimeout, appErr.Code)
	})

	t.Run("2xx non-JSON where JSON expected is a decode error", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>login page</html>"))
		}), "")

		var out pingResponse
		err := client.Get(context.Background(), "/api/ping", &out)
		require.Error(t, err)
		appErr, _ := apperrors.AsAppError(err)
		assert.Equal(t, apperrors.ErrCodeDecode, appErr.Code)
	})
}

// ============================================================
// Test: headers
// ============================================================

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	var gotMethod string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotMethod = r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}), "tok-123")

	var out struct{ Envelope }
	require.NoError(t, client.Post(context.Background(), "/api/registrations",
		map[string]string{"eventId": "1"}, &out, WithAdminRole()))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "admin", got.Get("Role"))
	assert.NotEmpty(t, got.Get("Idempotency-Key"), "mutating calls carry an idempotency key")
}

func TestNoTokenNoAuthHeader(t *testing.T) {
	var got http.Header
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}), "")

	var out struct{ Envelope }
	require.NoError(t, client.Get(context.Background(), "/api/events", &out))
	assert.Empty(t, got.Get("Authorization"))
	assert.Empty(t, got.Get("Idempotency-Key"), "GETs carry no idempotency key")
}

// ============================================================
// Test: omit-empty query filters
// ============================================================

func TestQueryFilters(t *testing.T) {
	var gotQuery string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}), "")

	var out struct{ Envelope }
	require.NoError(t, client.Get(context.Background(), "/api/events", &out, WithQuery(Query{
		"search":       "tech talk",
		"category":     "all", // omitted
		"availability": "",    // omitted
		"page":         "2",
	})))

	assert.Contains(t, gotQuery, "search=tech+talk")
	assert.Contains(t, gotQuery, "page=2")
	assert.NotContains(t, gotQuery, "category")
	assert.NotContains(t, gotQuery, "availability")
}

// ============================================================
// Test: text payloads (CSV export)
// ============================================================

func TestDoText(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("name,email\nEmily Davis,emily@campus.edu\n"))
	}), "tok")

	body, err := client.DoText(context.Background(), http.MethodGet, "/api/admin/audit-logs/export")
	require.NoError(t, err)
	assert.Contains(t, body, "Emily Davis")
}

func TestDoTextError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"admin role required"}`))
	}), "tok")

	_, err := client.DoText(context.Background(), http.MethodGet, "/api/admin/audit-logs/export")
	require.Error(t, err)
	assert.Equal(t, "admin role required", err.Error())
}
