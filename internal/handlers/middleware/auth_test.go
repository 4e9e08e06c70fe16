package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeshelf/coinledger/internal/handlers/userctx"
	"github.com/codeshelf/coinledger/internal/models"
)

type fakeAuth struct {
	user models.User
	err  error
}

func (f fakeAuth) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	return f.user, f.err
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("authenticated user lands in context", func(t *testing.T) {
		expected := models.User{ID: 101, Username: "gordon", Role: models.RoleStudent}

		var got models.User
		var ok bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok = userctx.FromContext(r.Context())
		})

		w := httptest.NewRecorder()
		AuthMiddleware(fakeAuth{user: expected})(next).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, ok, "user has to be in the request context")
		require.Equal(t, expected, got)
	})

	t.Run("failed auth stops the chain with 401", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not run")
		})

		w := httptest.NewRecorder()
		AuthMiddleware(fakeAuth{err: errors.New("bad token")})(next).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := func(called *bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*called = true
		})
	}

	t.Run("admin passes", func(t *testing.T) {
		var called bool
		r := httptest.NewRequest("GET", "/", nil)
		r = r.WithContext(userctx.New(r.Context(), models.User{ID: 102, Role: models.RoleAdmin}))

		w := httptest.NewRecorder()
		RequireAdmin(next(&called)).ServeHTTP(w, r)

		require.True(t, called)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("student gets 403", func(t *testing.T) {
		var called bool
		r := httptest.NewRequest("GET", "/", nil)
		r = r.WithContext(userctx.New(r.Context(), models.User{ID: 101, Role: models.RoleStudent}))

		w := httptest.NewRecorder()
		RequireAdmin(next(&called)).ServeHTTP(w, r)

		require.False(t, called, "handler must not run for non-admins")
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no user in context gets 401", func(t *testing.T) {
		var called bool
		w := httptest.NewRecorder()
		RequireAdmin(next(&called)).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		require.False(t, called)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
