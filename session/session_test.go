package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-events/client-go/models"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := tokenClaims{
		UserID: "u1", Email: "emily@campus.edu", Role: models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"), nil)
}

func TestLifecycle(t *testing.T) {
	store := newTestStore(t)
	assert.False(t, store.Validate())
	assert.Nil(t, store.Current())
	assert.Empty(t, store.Token())

	user := models.User{ID: "u1", Email: "emily@campus.edu", Name: "Emily Davis", Role: models.RoleStudent}
	require.NoError(t, store.SetSession(user, "tok-abc"))

	assert.True(t, store.Validate())
	assert.Equal(t, "tok-abc", store.Token())
	assert.Equal(t, "Emily Davis", store.Current().Name)
	assert.Equal(t, models.RoleStudent, store.Role())

	require.NoError(t, store.Clear())
	assert.False(t, store.Validate())
	assert.Nil(t, store.Current())
}

func TestCurrentReturnsCopy(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetSession(models.User{ID: "u1", Name: "Emily"}, "tok"))

	store.Current().Name = "Mallory"
	assert.Equal(t, "Emily", store.Current().Name)
}

func TestHydrate(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		first := NewStore(path, nil)
		require.NoError(t, first.SetSession(
			models.User{ID: "u1", Email: "emily@campus.edu", Role: models.RoleAdmin}, "tok-abc"))

		second := NewStore(path, nil)
		require.NoError(t, second.Hydrate())
		assert.True(t, second.Validate())
		assert.Equal(t, models.RoleAdmin, second.Role())
	})

	t.Run("Missing file is fine", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Hydrate())
		assert.False(t, store.Validate())
	})

	t.Run("Corrupt file is discarded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		store := NewStore(path, nil)
		require.NoError(t, store.Hydrate())
		assert.False(t, store.Validate())
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "corrupt file should be removed")
	})

	t.Run("Expired JWT is dropped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		first := NewStore(path, nil)
		require.NoError(t, first.SetSession(
			models.User{ID: "u1", Email: "emily@campus.edu"},
			signedToken(t, time.Now().Add(-time.Hour))))

		second := NewStore(path, nil)
		require.NoError(t, second.Hydrate())
		assert.False(t, second.Validate())
	})

	t.Run("Live JWT survives", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		first := NewStore(path, nil)
		require.NoError(t, first.SetSession(
			models.User{ID: "u1", Email: "emily@campus.edu"},
			signedToken(t, time.Now().Add(time.Hour))))

		second := NewStore(path, nil)
		require.NoError(t, second.Hydrate())
		assert.True(t, second.Validate())
	})

	t.Run("Opaque token is assumed live", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		first := NewStore(path, nil)
		require.NoError(t, first.SetSession(models.User{ID: "u1"}, "opaque-token"))

		second := NewStore(path, nil)
		require.NoError(t, second.Hydrate())
		assert.True(t, second.Validate())
	})
}

// ============================================================
// Test: role-gate predicate
// ============================================================

func TestAllowed(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		allowed []string
		want    bool
	}{
		{"Empty list admits student", models.RoleStudent, nil, true},
		{"Empty list admits admin", models.RoleAdmin, []string{}, true},
		{"Admin-only denies student", models.RoleStudent, []string{models.RoleAdmin}, false},
		{"Admin-only admits admin", models.RoleAdmin, []string{models.RoleAdmin}, true},
		{"Multi-role list", models.RoleOrganizer, []string{models.RoleAdmin, models.RoleOrganizer}, true},
		{"Multi-role list denies outsider", models.RoleStudent, []string{models.RoleAdmin, models.RoleOrganizer}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.role, tt.allowed); got != tt.want {
				t.Errorf("Allowed(%q, %v) = %v, want %v", tt.role, tt.allowed, got, tt.want)
			}
		})
	}
}
