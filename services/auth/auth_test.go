package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-events/client-go/api"
	"github.com/campus-events/client-go/common/apperrors"
	"github.com/campus-events/client-go/common/config"
	"github.com/campus-events/client-go/common/logger"
	"github.com/campus-events/client-go/models"
	"github.com/campus-events/client-go/session"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func quietLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: logger.FATAL, Output: discard{}, TimeFormat: time.RFC3339})
}

func newFixture(t *testing.T, handler http.Handler) (*Service, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"), quietLogger())
	cfg := &config.ClientConfig{BaseURL: srv.URL, RequestTimeout: 2 * time.Second}
	client := api.New(cfg, store, quietLogger())
	return NewService(client, store), store
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// ============================================================
// Test: login happy path
// ============================================================

func TestLoginSuccess(t *testing.T) {
	svc, store := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "emily@campus.edu", body["email"])

		writeJSON(w, map[string]interface{}{
			"success": true,
			"token":   "tok-abc",
			"user": models.User{
				ID: "u1", Email: "emily@campus.edu", Name: "Emily Davis", Role: models.RoleStudent,
			},
		})
	}))

	user, err := svc.Login(context.Background(), "emily@campus.edu", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "Emily Davis", user.Name)

	assert.True(t, store.Validate())
	assert.Equal(t, "tok-abc", store.Token())
	assert.Equal(t, "emily@campus.edu", store.Current().Email)
}

// ============================================================
// Test: organizer pending approval is rejected and the store stays empty
// ============================================================

func TestLoginOrganizerPendingApproval(t *testing.T) {
	svc, store := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"success": true,
			"token":   "tok-should-not-be-kept",
			"user": models.User{
				ID: "o1", Email: "org@campus.edu", Role: models.RoleOrganizer, IsApproved: false,
			},
		})
	}))

	_, err := svc.Login(context.Background(), "org@campus.edu", "hunter22")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending approval")

	assert.False(t, store.Validate(), "session must not be populated")
	assert.Nil(t, store.Current())
}

func TestLoginApprovedOrganizer(t *testing.T) {
	svc, store := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"success": true,
			"token":   "tok-org",
			"user": models.User{
				ID: "o1", Email: "org@campus.edu", Role: models.RoleOrganizer, IsApproved: true,
			},
		})
	}))

	_, err := svc.Login(context.Background(), "org@campus.edu", "hunter22")
	require.NoError(t, err)
	assert.True(t, store.Validate())
}

func TestLoginBadCredentials(t *testing.T) {
	svc, store := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid email or password"}`))
	}))

	_, err := svc.Login(context.Background(), "emily@campus.edu", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error())
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuth))
	assert.False(t, store.Validate())
}

func TestLoginEmptyFieldsNoNetworkCall(t *testing.T) {
	called := false
	svc, _ := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := svc.Login(context.Background(), "", "pw")
	require.Error(t, err)
	_, err = svc.Login(context.Background(), "a@b.c", "")
	require.Error(t, err)
	assert.False(t, called, "client-side validation failures never reach the backend")
}

// ============================================================
// Test: logout
// ============================================================

func TestLogout(t *testing.T) {
	svc, store := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"success": true, "token": "tok",
			"user": models.User{ID: "u1", Role: models.RoleStudent},
		})
	}))

	_, err := svc.Login(context.Background(), "emily@campus.edu", "pw")
	require.NoError(t, err)
	require.True(t, store.Validate())

	require.NoError(t, svc.Logout())
	assert.False(t, store.Validate())

	// Logout is idempotent
	require.NoError(t, svc.Logout())
}

// ============================================================
// Test: register validation
// ============================================================

func TestRegister(t *testing.T) {
	svc, _ := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)
		writeJSON(w, map[string]interface{}{
			"success": true,
			"user":    models.User{ID: "u2", Email: "new@campus.edu", Role: models.RoleStudent},
		})
	}))

	user, err := svc.Register(context.Background(), RegisterInput{
		Email: "new@campus.edu", Password: "hunter22", Name: "New Student", Role: models.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "new@campus.edu", Password: "hunter22", Name: "X", Role: models.RoleAdmin,
	})
	require.Error(t, err, "cannot self-register as admin")

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "new@campus.edu", Password: "hunter22", Name: "X", Role: models.RoleStudent,
		Phone: "not-a-phone",
	})
	require.Error(t, err)
}

// ============================================================
// Test: probe
// ============================================================

func TestProbe(t *testing.T) {
	svc, store := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]interface{}{
			"success": true,
			"user":    models.User{ID: "u1", Email: "emily@campus.edu"},
		})
	}))

	_, err := svc.Probe(context.Background())
	require.Error(t, err, "probe without a session fails locally")

	require.NoError(t, store.SetSession(models.User{ID: "u1", Email: "emily@campus.edu"}, "tok"))
	user, err := svc.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}
